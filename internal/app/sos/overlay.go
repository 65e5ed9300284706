package sos

import (
	"log/slog"
	"sync"
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// TickerFunc returns a tick channel and a stop function.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// RealTicker wraps time.NewTicker.
func RealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Contact is one party notified by the broadcast.
type Contact struct {
	Label  string
	Status string
	ETA    string
}

// Contacts is the simulated responder list shown while broadcasting.
var Contacts = []Contact{
	{Label: "Tourist Police", Status: "En route", ETA: "8 mins"},
	{Label: "Hospital Emergency", Status: "Notified", ETA: "--"},
	{Label: "Travel Group", Status: "Tracking", ETA: "Active"},
}

// Snapshot is what subscribers receive. Location and Contacts are set only
// while broadcasting.
type Snapshot struct {
	State
	Location *domain.Location
	Contacts []Contact
}

type Options struct {
	Countdown int
	// Location is read each time a broadcasting snapshot is built.
	Location func() domain.Location
	Ticker   TickerFunc
	Logger   *slog.Logger
}

// Overlay drives a Machine from a one second ticker and fans out every
// state change. It is safe for concurrent use.
type Overlay struct {
	location func() domain.Location
	log      *slog.Logger

	mu      sync.Mutex
	machine *Machine
	subs    map[chan Snapshot]struct{}

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// Start shows the overlay and starts the countdown.
func Start(opts Options) *Overlay {
	if opts.Countdown == 0 {
		opts.Countdown = DefaultCountdown
	}
	if opts.Location == nil {
		opts.Location = func() domain.Location { return domain.DefaultLocation }
	}
	if opts.Ticker == nil {
		opts.Ticker = RealTicker
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	o := &Overlay{
		location: opts.Location,
		log:      opts.Logger,
		machine:  NewMachine(opts.Countdown),
		subs:     make(map[chan Snapshot]struct{}),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if o.machine.State().Phase == PhaseBroadcasting {
		close(o.done)
		o.log.Warn("sos broadcasting")
		return o
	}

	ticks, stop := opts.Ticker(time.Second)
	go o.run(ticks, stop)
	return o
}

func (o *Overlay) run(ticks <-chan time.Time, stop func()) {
	defer close(o.done)
	defer stop()

	for {
		select {
		case <-o.quit:
			return
		case <-ticks:
			if o.tick() {
				return
			}
		}
	}
}

// tick reports whether the ticker is no longer needed.
func (o *Overlay) tick() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.machine.Tick() {
		return true
	}
	o.publishLocked()

	st := o.machine.State()
	if st.Phase == PhaseBroadcasting {
		o.log.Warn("sos broadcasting")
		return true
	}
	return false
}

// Force starts the broadcast without waiting for the countdown.
func (o *Overlay) Force() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.machine.Force() {
		return false
	}
	o.log.Warn("sos broadcasting", "forced", true)
	o.publishLocked()
	o.stopTicker()
	return true
}

// Cancel is honored only during the countdown.
func (o *Overlay) Cancel() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.machine.Cancel() {
		return false
	}
	o.log.Info("sos cancelled")
	o.closeLocked()
	return true
}

// Dismiss is honored only while broadcasting.
func (o *Overlay) Dismiss() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.machine.Dismiss() {
		return false
	}
	o.log.Info("sos dismissed")
	o.closeLocked()
	return true
}

// Close tears the overlay down regardless of phase, e.g. when the session ends.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.machine.phase == PhaseClosed {
		return
	}
	o.machine.phase = PhaseClosed
	o.closeLocked()
}

// Done is closed once the ticker goroutine has exited.
func (o *Overlay) Done() <-chan struct{} {
	return o.done
}

func (o *Overlay) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest snapshot. It is
// primed with the current one and closed when the overlay closes.
func (o *Overlay) Subscribe() (<-chan Snapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- o.snapshotLocked()
	if o.machine.phase == PhaseClosed {
		close(ch)
		return ch, func() {}
	}
	o.subs[ch] = struct{}{}

	unsubscribe := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if _, ok := o.subs[ch]; ok {
			delete(o.subs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

func (o *Overlay) snapshotLocked() Snapshot {
	snap := Snapshot{State: o.machine.State()}
	if snap.Phase == PhaseBroadcasting {
		loc := o.location()
		snap.Location = &loc
		snap.Contacts = append([]Contact(nil), Contacts...)
	}
	return snap
}

func (o *Overlay) publishLocked() {
	snap := o.snapshotLocked()
	for ch := range o.subs {
		// Drop the stale value so slow readers only see the latest state.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (o *Overlay) closeLocked() {
	o.publishLocked()
	for ch := range o.subs {
		close(ch)
	}
	o.subs = map[chan Snapshot]struct{}{}
	o.stopTicker()
}

func (o *Overlay) stopTicker() {
	o.quitOnce.Do(func() { close(o.quit) })
}
