// Package llmtest provides a scriptable domain.Gateway for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// Call records one gateway invocation.
type Call struct {
	Op       string // "chat", "search", "maps", "classify"
	Text     string
	History  []*domain.Message
	Location domain.Location
	Image    domain.Image
}

// Stub returns Reply/Analysis (or Err) for every call and records it.
// When Release is non-nil each call blocks until it receives or ctx ends.
type Stub struct {
	Reply    *domain.Reply
	Analysis *domain.LandmarkAnalysis
	Err      error
	Release  chan struct{}

	mu    sync.Mutex
	calls []Call
}

func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Stub) record(ctx context.Context, c Call) error {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	release := s.Release
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Err
}

func (s *Stub) reply() *domain.Reply {
	if s.Reply == nil {
		return &domain.Reply{}
	}
	r := *s.Reply
	return &r
}

func (s *Stub) Chat(ctx context.Context, text string, history []*domain.Message) (*domain.Reply, error) {
	if err := s.record(ctx, Call{Op: "chat", Text: text, History: history}); err != nil {
		return nil, err
	}
	return s.reply(), nil
}

func (s *Stub) SearchChat(ctx context.Context, text string) (*domain.Reply, error) {
	if err := s.record(ctx, Call{Op: "search", Text: text}); err != nil {
		return nil, err
	}
	return s.reply(), nil
}

func (s *Stub) MapsChat(ctx context.Context, text string, loc domain.Location) (*domain.Reply, error) {
	if err := s.record(ctx, Call{Op: "maps", Text: text, Location: loc}); err != nil {
		return nil, err
	}
	return s.reply(), nil
}

func (s *Stub) ClassifyLandmark(ctx context.Context, img domain.Image) (*domain.LandmarkAnalysis, error) {
	if err := s.record(ctx, Call{Op: "classify", Image: img}); err != nil {
		return nil, err
	}
	if s.Analysis == nil {
		return &domain.LandmarkAnalysis{}, nil
	}
	a := *s.Analysis
	return &a, nil
}
