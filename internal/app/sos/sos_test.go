package sos_test

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/bharat-yatra/internal/app/sos"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

func TestMachine_CountsDownToBroadcast(t *testing.T) {
	m := sos.NewMachine(5)
	st := m.State()
	assert.Equal(t, sos.PhaseCountingDown, st.Phase)
	assert.Equal(t, 5, st.SecondsRemaining)
	assert.True(t, st.Cancellable)

	for i := 4; i > 0; i-- {
		require.True(t, m.Tick())
		assert.Equal(t, i, m.State().SecondsRemaining)
		assert.Equal(t, sos.PhaseCountingDown, m.State().Phase)
	}

	require.True(t, m.Tick())
	st = m.State()
	assert.Equal(t, sos.PhaseBroadcasting, st.Phase)
	assert.False(t, st.Cancellable)

	assert.False(t, m.Tick(), "ticks after the broadcast change nothing")
}

func TestMachine_CancelOnlyWhileCounting(t *testing.T) {
	for ticks := 0; ticks < 5; ticks++ {
		m := sos.NewMachine(5)
		for i := 0; i < ticks; i++ {
			m.Tick()
		}
		assert.True(t, m.Cancel(), "after %d ticks", ticks)
		assert.Equal(t, sos.PhaseClosed, m.State().Phase)
	}

	m := sos.NewMachine(5)
	m.Force()
	assert.False(t, m.Cancel())
	assert.Equal(t, sos.PhaseBroadcasting, m.State().Phase)
}

func TestMachine_DismissOnlyWhileBroadcasting(t *testing.T) {
	m := sos.NewMachine(5)
	assert.False(t, m.Dismiss())
	assert.Equal(t, sos.PhaseCountingDown, m.State().Phase)

	require.True(t, m.Force())
	assert.False(t, m.Force())
	assert.True(t, m.Dismiss())
	assert.Equal(t, sos.PhaseClosed, m.State().Phase)
	assert.False(t, m.Dismiss())
}

func TestMachine_NonPositiveBroadcastsAtOnce(t *testing.T) {
	assert.Equal(t, sos.PhaseBroadcasting, sos.NewMachine(0).State().Phase)
	assert.Equal(t, sos.PhaseBroadcasting, sos.NewMachine(-1).State().Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "counting-down", sos.PhaseCountingDown.String())
	assert.Equal(t, "broadcasting", sos.PhaseBroadcasting.String())
	assert.Equal(t, "closed", sos.PhaseClosed.String())
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{ch: make(chan time.Time)}
}

func (f *fakeTicker) ticker(time.Duration) (<-chan time.Time, func()) {
	return f.ch, func() { f.stopped.Store(true) }
}

func (f *fakeTicker) tick(t *testing.T) {
	t.Helper()
	select {
	case f.ch <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("ticker goroutine not receiving")
	}
}

func startOverlay(t *testing.T, ft *fakeTicker, loc func() domain.Location) *sos.Overlay {
	t.Helper()
	return sos.Start(sos.Options{
		Countdown: 5,
		Location:  loc,
		Ticker:    ft.ticker,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func waitDone(t *testing.T, o *sos.Overlay) {
	t.Helper()
	select {
	case <-o.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker goroutine did not exit")
	}
}

func next(t *testing.T, ch <-chan sos.Snapshot) sos.Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "stream closed")
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot")
	}
	return sos.Snapshot{}
}

func TestOverlay_TicksIntoBroadcast(t *testing.T) {
	ft := newFakeTicker()
	agra := domain.Location{Latitude: 27.1751, Longitude: 78.0421}
	o := startOverlay(t, ft, func() domain.Location { return agra })

	sub, unsubscribe := o.Subscribe()
	defer unsubscribe()
	first := next(t, sub)
	assert.Equal(t, 5, first.SecondsRemaining)
	assert.Nil(t, first.Location)
	assert.Empty(t, first.Contacts)

	for i := 0; i < 5; i++ {
		ft.tick(t)
	}
	waitDone(t, o)
	assert.True(t, ft.stopped.Load())

	snap := o.Snapshot()
	assert.Equal(t, sos.PhaseBroadcasting, snap.Phase)
	require.NotNil(t, snap.Location)
	assert.Equal(t, agra, *snap.Location)
	require.Len(t, snap.Contacts, 3)
	assert.Equal(t, "Tourist Police", snap.Contacts[0].Label)
	assert.Equal(t, "Hospital Emergency", snap.Contacts[1].Label)
	assert.Equal(t, "Travel Group", snap.Contacts[2].Label)

	// The subscriber holds only the latest state.
	assert.Equal(t, sos.PhaseBroadcasting, next(t, sub).Phase)

	assert.False(t, o.Cancel())
	assert.Equal(t, sos.PhaseBroadcasting, o.Snapshot().Phase)
	assert.True(t, o.Dismiss())

	assert.Equal(t, sos.PhaseClosed, next(t, sub).Phase)
	_, ok := <-sub
	assert.False(t, ok, "stream closes after dismiss")
}

func TestOverlay_CancelStopsTicker(t *testing.T) {
	ft := newFakeTicker()
	o := startOverlay(t, ft, nil)
	sub, unsubscribe := o.Subscribe()
	defer unsubscribe()
	assert.Equal(t, 5, next(t, sub).SecondsRemaining)

	ft.tick(t)
	assert.Equal(t, 4, next(t, sub).SecondsRemaining)
	ft.tick(t)
	assert.Equal(t, 3, next(t, sub).SecondsRemaining)

	assert.False(t, o.Dismiss())
	require.True(t, o.Cancel())
	waitDone(t, o)
	assert.True(t, ft.stopped.Load())
	assert.Equal(t, sos.PhaseClosed, o.Snapshot().Phase)
	assert.False(t, o.Cancel())

	assert.Equal(t, sos.PhaseClosed, next(t, sub).Phase)
	_, ok := <-sub
	assert.False(t, ok)

	late, _ := o.Subscribe()
	assert.Equal(t, sos.PhaseClosed, next(t, late).Phase)
	_, ok = <-late
	assert.False(t, ok)
}

func TestOverlay_ForceUsesDefaultLocation(t *testing.T) {
	ft := newFakeTicker()
	o := startOverlay(t, ft, nil)

	require.True(t, o.Force())
	waitDone(t, o)

	snap := o.Snapshot()
	assert.Equal(t, sos.PhaseBroadcasting, snap.Phase)
	require.NotNil(t, snap.Location)
	assert.Equal(t, domain.DefaultLocation, *snap.Location)
}

func TestOverlay_CloseAnyPhase(t *testing.T) {
	ft := newFakeTicker()
	o := startOverlay(t, ft, nil)
	o.Close()
	waitDone(t, o)
	assert.Equal(t, sos.PhaseClosed, o.Snapshot().Phase)
	o.Close()
}
