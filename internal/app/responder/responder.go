// Package responder resolves one chat turn into an assistant reply.
// Each response source (scripted, standard, search, location) is a Responder;
// Select picks which one answers a given turn.
package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

// Input is everything a responder may need for one turn.
type Input struct {
	SessionID domain.SessionID
	Text      string
	// History holds prior messages, oldest first, without the new user text.
	History  []*domain.Message
	Location domain.Location
	Turn     int
}

type Responder interface {
	Name() string
	Respond(ctx context.Context, in Input) (*domain.Reply, error)
}

// Set binds every Source to its Responder.
type Set struct {
	responders map[Source]Responder
}

// NewSet builds the default set: the scripted warmup plus the three gateway modes.
func NewSet(gw domain.Gateway, script *Scripted) *Set {
	return &Set{
		responders: map[Source]Responder{
			SourceScripted: script,
			SourceStandard: NewStandard(gw),
			SourceSearch:   NewSearch(gw),
			SourceLocation: NewLocation(gw),
		},
	}
}

// Run resolves the turn with the responder bound to src.
func (s *Set) Run(ctx context.Context, src Source, in Input) (*domain.Reply, error) {
	r, ok := s.responders[src]
	if !ok || r == nil {
		return nil, fmt.Errorf("no responder for source %s", src)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"source", src.String(),
		"turn", in.Turn,
	)

	start := time.Now()
	log.Info("responder run start", "responder", r.Name())

	reply, err := r.Respond(ctx, in)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("responder failed", "responder", r.Name(), "error", err, "elapsed_ms", elapsed.Milliseconds())
		return nil, fmt.Errorf("responder %s failed: %w", r.Name(), err)
	}

	log.Info("responder run end", "responder", r.Name(), "elapsed_ms", elapsed.Milliseconds())
	return reply, nil
}
