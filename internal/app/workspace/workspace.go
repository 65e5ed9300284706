// Package workspace is the application root for one connected dashboard.
// It binds the navigation shell to the screens that own server-side state
// and to the SOS overlay.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/app/conversation"
	"github.com/PabloGalante/bharat-yatra/internal/app/identity"
	"github.com/PabloGalante/bharat-yatra/internal/app/responder"
	"github.com/PabloGalante/bharat-yatra/internal/app/shell"
	"github.com/PabloGalante/bharat-yatra/internal/app/sos"
	"github.com/PabloGalante/bharat-yatra/internal/app/vision"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

var (
	ErrScreenNotMounted = errors.New("screen is not mounted")
	ErrNotActive        = errors.New("sos overlay is not active")
	ErrInvalidLocation  = errors.New("location out of range")
)

// Options configure every workspace created by a Service.
type Options struct {
	Variant        responder.Variant
	GatewayTimeout time.Duration
	SOSCountdown   int
	MaxImageBytes  int
	ShareURL       string
	// Ticker drives SOS countdowns; nil means real time.
	Ticker sos.TickerFunc
	Logger *slog.Logger
}

// Workspace is safe for concurrent use.
type Workspace struct {
	id    domain.SessionID
	shell *shell.Shell
	chat  *conversation.Chat
	scan  *vision.Scanner
	opts  Options
	log   *slog.Logger

	mu      sync.Mutex
	overlay *sos.Overlay
}

func newWorkspace(id domain.SessionID, messages domain.MessageStore, responders *responder.Set, gw domain.Gateway, opts Options) (*Workspace, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := &Workspace{
		id:    id,
		shell: shell.New(),
		opts:  opts,
		log:   opts.Logger.With("session_id", id),
	}

	chat, err := conversation.NewChat(id, messages, responders, conversation.Options{
		Variant:  opts.Variant,
		Timeout:  opts.GatewayTimeout,
		Location: w.shell.EffectiveLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("new chat: %w", err)
	}
	w.chat = chat
	w.scan = vision.NewScanner(gw, vision.Options{
		MaxImageBytes: opts.MaxImageBytes,
		Timeout:       opts.GatewayTimeout,
	})
	return w, nil
}

func (w *Workspace) ID() domain.SessionID {
	return w.id
}

// Navigate switches views. Leaving a stateful screen unmounts it, which
// resets its state; navigating to the current view is a no-op.
func (w *Workspace) Navigate(v shell.View) (shell.Snapshot, error) {
	prev := w.shell.Navigate(v)
	if prev != v {
		w.log.Info("view changed", "from", prev.String(), "to", v.String())
		if err := w.unmount(prev); err != nil {
			return w.shell.Snapshot(), err
		}
	}
	return w.shell.Snapshot(), nil
}

func (w *Workspace) unmount(v shell.View) error {
	switch v {
	case shell.Chatbot:
		if err := w.chat.Reset(); err != nil {
			return fmt.Errorf("unmount chat: %w", err)
		}
	case shell.Vision:
		w.scan.Reset()
	}
	return nil
}

func (w *Workspace) UpdateChrome(u shell.ChromeUpdate) shell.Chrome {
	return w.shell.UpdateChrome(u)
}

// CaptureLocation stores the device location; only the first one is kept.
func (w *Workspace) CaptureLocation(loc domain.Location) error {
	if !loc.Valid() {
		return ErrInvalidLocation
	}
	if err := w.shell.CaptureLocation(loc); err != nil {
		return err
	}
	w.log.Info("location captured")
	return nil
}

// Chat is available only while the chatbot screen is mounted.
func (w *Workspace) Chat() (*conversation.Chat, error) {
	if w.shell.Current() != shell.Chatbot {
		return nil, ErrScreenNotMounted
	}
	return w.chat, nil
}

// Scanner is available only while the vision screen is mounted.
func (w *Workspace) Scanner() (*vision.Scanner, error) {
	if w.shell.Current() != shell.Vision {
		return nil, ErrScreenNotMounted
	}
	return w.scan, nil
}

// TriggerSOS opens the overlay. Triggering again while an overlay is open
// returns the open one.
func (w *Workspace) TriggerSOS() *sos.Overlay {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.overlay != nil && w.overlay.Snapshot().Phase != sos.PhaseClosed {
		return w.overlay
	}

	w.log.Warn("sos triggered", "countdown", w.opts.SOSCountdown)
	w.overlay = sos.Start(sos.Options{
		Countdown: w.opts.SOSCountdown,
		Location:  w.shell.EffectiveLocation,
		Ticker:    w.opts.Ticker,
		Logger:    w.log,
	})
	w.shell.SetSOSVisible(true)
	return w.overlay
}

// SOS returns the open overlay.
func (w *Workspace) SOS() (*sos.Overlay, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.overlay == nil || w.overlay.Snapshot().Phase == sos.PhaseClosed {
		return nil, ErrNotActive
	}
	return w.overlay, nil
}

// CancelSOS reports false when the broadcast already started.
func (w *Workspace) CancelSOS() (bool, error) {
	return w.closeSOS((*sos.Overlay).Cancel)
}

// DismissSOS reports false while still counting down.
func (w *Workspace) DismissSOS() (bool, error) {
	return w.closeSOS((*sos.Overlay).Dismiss)
}

func (w *Workspace) closeSOS(op func(*sos.Overlay) bool) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.overlay == nil || w.overlay.Snapshot().Phase == sos.PhaseClosed {
		return false, ErrNotActive
	}
	if !op(w.overlay) {
		return false, nil
	}
	w.shell.SetSOSVisible(false)
	return true, nil
}

func (w *Workspace) Share() identity.Share {
	return identity.ShareSummary(identity.DemoCard, w.opts.ShareURL)
}

// Snapshot is the full state the client renders.
type Snapshot struct {
	ID    domain.SessionID
	Shell shell.Snapshot
	// Chat and Vision are set only for the mounted screen.
	Chat   *conversation.State
	Vision *vision.State
	SOS    *sos.Snapshot
}

func (w *Workspace) Snapshot() (Snapshot, error) {
	snap := Snapshot{ID: w.id, Shell: w.shell.Snapshot()}

	switch snap.Shell.View {
	case shell.Chatbot:
		st, err := w.chat.Snapshot()
		if err != nil {
			return Snapshot{}, err
		}
		snap.Chat = &st
	case shell.Vision:
		st := w.scan.Snapshot()
		snap.Vision = &st
	}

	if o, err := w.SOS(); err == nil {
		st := o.Snapshot()
		snap.SOS = &st
	}
	return snap, nil
}

// Close stops the SOS ticker and drops the chat history.
func (w *Workspace) Close() error {
	w.mu.Lock()
	if w.overlay != nil {
		w.overlay.Close()
	}
	w.mu.Unlock()

	w.scan.Reset()
	return w.chat.Close()
}
