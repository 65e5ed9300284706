package shell

import (
	"errors"
	"sync"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

var ErrLocationCaptured = errors.New("location already captured")

// Chrome holds the UI flags that do not depend on the current view.
type Chrome struct {
	SidebarOpen bool
	MenuOpen    bool
	SOSVisible  bool
}

// ChromeUpdate carries the flags to change; nil fields are left alone.
type ChromeUpdate struct {
	SidebarOpen *bool
	MenuOpen    *bool
}

// Snapshot is a point-in-time copy of the shell.
type Snapshot struct {
	View     View
	Screen   Screen
	Chrome   Chrome
	Location *domain.Location
}

// Shell is safe for concurrent use.
type Shell struct {
	mu       sync.RWMutex
	view     View
	chrome   Chrome
	location *domain.Location
}

func New() *Shell {
	return &Shell{}
}

// Navigate switches the current view and returns the previous one.
func (s *Shell) Navigate(v View) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.view
	s.view = v
	// Picking a destination from the drawer closes it.
	s.chrome.SidebarOpen = false
	return prev
}

func (s *Shell) Current() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Shell) UpdateChrome(u ChromeUpdate) Chrome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.SidebarOpen != nil {
		s.chrome.SidebarOpen = *u.SidebarOpen
	}
	if u.MenuOpen != nil {
		s.chrome.MenuOpen = *u.MenuOpen
	}
	return s.chrome
}

func (s *Shell) SetSOSVisible(visible bool) {
	s.mu.Lock()
	s.chrome.SOSVisible = visible
	s.mu.Unlock()
}

// CaptureLocation records the device location. Only the first capture sticks.
func (s *Shell) CaptureLocation(loc domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.location != nil {
		return ErrLocationCaptured
	}
	s.location = &loc
	return nil
}

// Location reports the captured location, if any.
func (s *Shell) Location() (domain.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.location == nil {
		return domain.Location{}, false
	}
	return *s.location, true
}

// EffectiveLocation falls back to New Delhi when nothing was captured.
func (s *Shell) EffectiveLocation() domain.Location {
	if loc, ok := s.Location(); ok {
		return loc
	}
	return domain.DefaultLocation
}

func (s *Shell) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		View:   s.view,
		Screen: ScreenFor(s.view),
		Chrome: s.chrome,
	}
	if s.location != nil {
		loc := *s.location
		snap.Location = &loc
	}
	return snap
}
