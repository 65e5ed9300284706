package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/bharat-yatra/internal/app/responder"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

const defaultSweepInterval = time.Minute

type Service struct {
	sessions   domain.SessionStore
	messages   domain.MessageStore
	responders *responder.Set
	gateway    domain.Gateway
	opts       Options
	now        func() time.Time

	mu         sync.RWMutex
	workspaces map[domain.SessionID]*Workspace
}

func NewService(
	gw domain.Gateway,
	responders *responder.Set,
	sessions domain.SessionStore,
	messages domain.MessageStore,
	opts Options,
) *Service {
	return &Service{
		sessions:   sessions,
		messages:   messages,
		responders: responders,
		gateway:    gw,
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[domain.SessionID]*Workspace),
	}
}

type StartInput struct {
	Title string
}

func (s *Service) Start(ctx context.Context, in StartInput) (*Workspace, error) {
	now := s.now()
	log := observability.LoggerFromContext(ctx)

	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     in.Title,
	}
	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	opts := s.opts
	if opts.Logger == nil {
		opts.Logger = observability.Logger()
	}
	ws, err := newWorkspace(session.ID, s.messages, s.responders, s.gateway, opts)
	if err != nil {
		_ = s.sessions.DeleteSession(session.ID)
		log.Error("failed to start workspace", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.workspaces[session.ID] = ws
	s.mu.Unlock()

	log.Info("workspace started", "session_id", session.ID)
	return ws, nil
}

// Get returns the workspace and marks it as recently used.
func (s *Service) Get(ctx context.Context, id domain.SessionID) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	if err := s.touch(id); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to touch session", "session_id", id, "error", err)
	}
	return ws, nil
}

func (s *Service) touch(id domain.SessionID) error {
	session, err := s.sessions.GetSession(id)
	if err != nil {
		return err
	}
	updated := *session
	updated.UpdatedAt = s.now()
	return s.sessions.UpdateSession(&updated)
}

// Session returns the metadata record of a workspace.
func (s *Service) Session(id domain.SessionID) (*domain.Session, error) {
	return s.sessions.GetSession(id)
}

func (s *Service) End(ctx context.Context, id domain.SessionID) error {
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)
	if err := ws.Close(); err != nil {
		log.Error("failed to close workspace", "error", err)
	}
	if err := s.sessions.DeleteSession(id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	log.Info("workspace ended")
	return nil
}

// Sweep ends every workspace idle for longer than ttl and reports how many.
func (s *Service) Sweep(ctx context.Context, ttl time.Duration) int {
	log := observability.LoggerFromContext(ctx)

	sessions, err := s.sessions.ListSessions(0)
	if err != nil {
		log.Error("sweeper failed to list sessions", "error", err)
		return 0
	}

	cutoff := s.now().Add(-ttl)
	ended := 0
	for _, sess := range sessions {
		if sess.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.End(ctx, sess.ID); err != nil {
			log.Error("sweeper failed to end workspace", "session_id", sess.ID, "error", err)
			continue
		}
		ended++
	}
	if ended > 0 {
		log.Info("idle workspaces swept", "count", ended, "ttl", ttl)
	}
	return ended
}

// StartSweeper sweeps idle workspaces until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		log := observability.LoggerFromContext(ctx)
		log.Info("session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx, ttl)
			case <-ctx.Done():
				log.Info("session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Shutdown ends every workspace.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.RLock()
	ids := make([]domain.SessionID, 0, len(s.workspaces))
	for id := range s.workspaces {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.End(ctx, id)
	}
}
