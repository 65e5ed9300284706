package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/bharat-yatra/internal/app/responder"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

const (
	WelcomeText  = "Namaste. I am the Bharat Yatra travel assistant. Currently initializing internal travel protocols..."
	FallbackText = "I am currently unable to process that specific Indian travel request."
	ErrorNotice  = "CRITICAL: Connection synchronization error. Please check your data roaming status."

	defaultTimeout = 60 * time.Second
)

// Submissions rejected with these errors are ignored: nothing was appended.
var (
	ErrBlankText = errors.New("blank submission ignored")
	ErrBusy      = errors.New("a submission is already in flight")
)

var ErrConfirmationRequired = errors.New("clearing history requires confirmation")

type Options struct {
	Variant responder.Variant
	// Timeout bounds a single resolution (gateway call or scripted delay).
	Timeout time.Duration
	// Location returns the coordinate for location-grounded turns.
	// Nil means the device location is absent.
	Location func() domain.Location
	Now      func() time.Time
}

// State is a point-in-time copy of the chat screen.
type State struct {
	Messages    []*domain.Message
	Mode        domain.ChatMode
	TurnCounter int
	Loading     bool
	Error       string
	Input       string
}

// Chat orchestrates one chat session: it turns each submitted text into
// exactly one assistant message, or an error notice with the text restored.
type Chat struct {
	sessionID  domain.SessionID
	store      domain.MessageStore
	responders *responder.Set
	variant    responder.Variant
	timeout    time.Duration
	location   func() domain.Location
	now        func() time.Time

	mu          sync.Mutex
	mode        domain.ChatMode
	turnCounter int
	loading     bool
	lastError   string
	input       string
	// generation changes on Clear/Reset; resolutions from an older one are dropped.
	generation uint64
}

// NewChat seeds the session history with the welcome message.
func NewChat(sessionID domain.SessionID, store domain.MessageStore, responders *responder.Set, opts Options) (*Chat, error) {
	c := &Chat{
		sessionID:  sessionID,
		store:      store,
		responders: responders,
		variant:    opts.Variant,
		timeout:    opts.Timeout,
		location:   opts.Location,
		now:        opts.Now,
		mode:       domain.ModeStandard,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.location == nil {
		c.location = func() domain.Location { return domain.DefaultLocation }
	}
	if c.now == nil {
		c.now = time.Now
	}

	if err := c.store.ResetSession(sessionID, c.welcome()); err != nil {
		return nil, fmt.Errorf("seed welcome message: %w", err)
	}
	return c, nil
}

// Outcome is the result of one turn.
type Outcome struct {
	// Reply is the appended assistant message, nil on failure or discard.
	Reply *domain.Message
	Err   error
	// Discarded is set when the session was cleared while the turn was in flight.
	Discarded bool
}

// Turn is a handle on an in-flight resolution.
type Turn struct {
	UserMessage *domain.Message

	done    chan struct{}
	outcome Outcome
}

func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the turn resolves or ctx ends. The resolution itself
// keeps running when ctx ends.
func (t *Turn) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Submit appends the user message right away and resolves the reply in the
// background. Blank text and submissions while loading are ignored.
func (c *Chat) Submit(ctx context.Context, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankText
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	history, err := c.store.GetMessagesBySession(c.sessionID, 0)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("load history: %w", err)
	}

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: c.sessionID,
		Role:      domain.RoleUser,
		Content:   text,
		CreatedAt: c.now(),
	}
	if err := c.store.AppendMessage(userMsg); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("append user message: %w", err)
	}

	c.input = ""
	c.loading = true

	src := responder.Select(c.variant, c.mode, c.turnCounter)
	in := responder.Input{
		SessionID: c.sessionID,
		Text:      text,
		History:   history,
		Turn:      c.turnCounter,
	}
	if src == responder.SourceLocation {
		in.Location = c.location()
	}
	gen := c.generation
	c.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("chat turn submitted",
		"session_id", c.sessionID,
		"source", src.String(),
		"turn", in.Turn,
	)

	turn := &Turn{UserMessage: userMsg, done: make(chan struct{})}
	go c.resolve(context.WithoutCancel(ctx), gen, src, in, turn)
	return turn, nil
}

func (c *Chat) resolve(ctx context.Context, gen uint64, src responder.Source, in responder.Input, turn *Turn) {
	defer close(turn.done)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.run(ctx, src, in)

	c.mu.Lock()
	defer c.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With("session_id", c.sessionID, "turn", in.Turn)

	if gen != c.generation {
		log.Info("discarding late chat response", "source", src.String())
		turn.outcome = Outcome{Err: err, Discarded: true}
		return
	}
	defer func() { c.loading = false }()

	if err != nil {
		log.Error("chat turn failed", "error", err)
		c.lastError = ErrorNotice
		c.input = in.Text
		turn.outcome = Outcome{Err: err}
		return
	}

	msg := &domain.Message{
		ID:             domain.MessageID(uuid.NewString()),
		SessionID:      c.sessionID,
		Role:           domain.RoleAssistant,
		Content:        reply.Text,
		CreatedAt:      c.now(),
		GroundingLinks: renderableLinks(reply.Links),
	}
	if strings.TrimSpace(msg.Content) == "" {
		msg.Content = FallbackText
	}

	if err := c.store.AppendMessage(msg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		c.lastError = ErrorNotice
		c.input = in.Text
		turn.outcome = Outcome{Err: err}
		return
	}

	c.turnCounter++
	c.lastError = ""
	turn.outcome = Outcome{Reply: msg}
}

// run converts a responder panic into an error so loading is always released.
func (c *Chat) run(ctx context.Context, src responder.Source, in responder.Input) (reply *domain.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply, err = nil, fmt.Errorf("responder panic: %v", r)
		}
	}()

	reply, err = c.responders.Run(ctx, src, in)
	if err == nil && reply == nil {
		reply = &domain.Reply{}
	}
	return reply, err
}

// Clear resets the history to the welcome message. It does nothing unless
// the user confirmed.
func (c *Chat) Clear(confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.resetLocked(); err != nil {
		return err
	}
	c.lastError = ""
	return nil
}

// Reset is the unmount path: history, mode and input all go back to defaults.
func (c *Chat) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.resetLocked(); err != nil {
		return err
	}
	c.mode = domain.ModeStandard
	c.input = ""
	c.lastError = ""
	return nil
}

func (c *Chat) resetLocked() error {
	c.generation++
	c.turnCounter = 0
	c.loading = false
	if err := c.store.ResetSession(c.sessionID, c.welcome()); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}

// Close drops the history. Late resolutions are discarded.
func (c *Chat) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.loading = false
	return c.store.DeleteSession(c.sessionID)
}

// SetMode takes effect on the next Submit.
func (c *Chat) SetMode(mode domain.ChatMode) error {
	switch mode {
	case domain.ModeStandard, domain.ModeSearch, domain.ModeLocation:
	default:
		return domain.ErrUnknownMode
	}

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	return nil
}

func (c *Chat) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

func (c *Chat) Snapshot() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs, err := c.store.GetMessagesBySession(c.sessionID, 0)
	if err != nil {
		return State{}, fmt.Errorf("load history: %w", err)
	}

	return State{
		Messages:    msgs,
		Mode:        c.mode,
		TurnCounter: c.turnCounter,
		Loading:     c.loading,
		Error:       c.lastError,
		Input:       c.input,
	}, nil
}

func (c *Chat) welcome() *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: c.sessionID,
		Role:      domain.RoleAssistant,
		Content:   WelcomeText,
		CreatedAt: c.now(),
	}
}

func renderableLinks(links []domain.Link) []domain.Link {
	var out []domain.Link
	for _, l := range links {
		if l.URI != "" {
			out = append(out, l)
		}
	}
	return out
}
