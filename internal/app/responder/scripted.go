package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// ScriptLine is a canned reply served after Delay.
type ScriptLine struct {
	Text  string
	Delay time.Duration
}

// WarmupScript simulates an unavailable backend for the first three turns.
var WarmupScript = []ScriptLine{
	{Text: "SYSTEM ERROR: Primary travel server is currently not available. Establishing fallback node...", Delay: 1200 * time.Millisecond},
	{Text: "ERROR: The backend for Bharat Chatbot is not fully established yet. Please contact support or try in 5 minutes.", Delay: 1500 * time.Millisecond},
	{Text: "LOG: Connection to national travel grid failed. Retrying secure synchronization with Gemini brain...", Delay: 1500 * time.Millisecond},
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scripted serves Lines[turn] without calling the gateway.
type Scripted struct {
	Lines []ScriptLine
	sleep SleepFunc
}

// NewScripted uses WarmupScript; a nil sleep means real time.
func NewScripted(sleep SleepFunc) *Scripted {
	if sleep == nil {
		sleep = Sleep
	}
	return &Scripted{Lines: WarmupScript, sleep: sleep}
}

func (s *Scripted) Name() string {
	return "scripted"
}

func (s *Scripted) Respond(ctx context.Context, in Input) (*domain.Reply, error) {
	if in.Turn < 0 || in.Turn >= len(s.Lines) {
		return nil, fmt.Errorf("no scripted line for turn %d", in.Turn)
	}

	line := s.Lines[in.Turn]
	if err := s.sleep(ctx, line.Delay); err != nil {
		return nil, err
	}
	return &domain.Reply{Text: line.Text}, nil
}
