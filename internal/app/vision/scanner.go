// Package vision runs landmark recognition for the Vision AI screen.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

const (
	DefaultMaxImageBytes = 8 << 20
	defaultTimeout       = 60 * time.Second
)

var (
	ErrBusy         = errors.New("an analysis is already running")
	ErrInvalidImage = errors.New("invalid image")
	// ErrDiscarded is returned when the scanner was reset mid-analysis.
	ErrDiscarded = errors.New("analysis discarded by reset")
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a copy of the scanner. Result is set only in PhaseDone and
// Error only in PhaseFailed.
type State struct {
	Phase    Phase
	MIMEType string
	Result   *domain.LandmarkAnalysis
	Error    string
}

type Options struct {
	MaxImageBytes int
	Timeout       time.Duration
}

type Scanner struct {
	gateway  domain.Gateway
	maxBytes int
	timeout  time.Duration

	mu         sync.Mutex
	state      State
	generation uint64
}

func NewScanner(gw domain.Gateway, opts Options) *Scanner {
	s := &Scanner{
		gateway:  gw,
		maxBytes: opts.MaxImageBytes,
		timeout:  opts.Timeout,
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxImageBytes
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	return s
}

// Analyze classifies img. The gateway call is not aborted when ctx ends;
// only the scanner timeout bounds it.
func (s *Scanner) Analyze(ctx context.Context, img domain.Image) (*domain.LandmarkAnalysis, error) {
	img, err := s.validate(img)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state.Phase == PhaseAnalyzing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.state = State{Phase: PhaseAnalyzing, MIMEType: img.MIMEType}
	gen := s.generation
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx)
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.gateway.ClassifyLandmark(callCtx, img)
	if err == nil && result == nil {
		err = errors.New("empty analysis")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		log.Info("discarding late landmark analysis")
		return nil, ErrDiscarded
	}

	if err != nil {
		log.Error("landmark analysis failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		s.state = State{Phase: PhaseFailed, MIMEType: img.MIMEType, Error: err.Error()}
		return nil, fmt.Errorf("classify landmark: %w", err)
	}

	log.Info("landmark analyzed", "name", result.Name, "elapsed_ms", time.Since(start).Milliseconds())
	s.state = State{Phase: PhaseDone, MIMEType: img.MIMEType, Result: result}
	return result, nil
}

func (s *Scanner) validate(img domain.Image) (domain.Image, error) {
	if len(img.Data) == 0 {
		return img, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}
	if len(img.Data) > s.maxBytes {
		return img, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidImage, len(img.Data), s.maxBytes)
	}

	mime := img.MIMEType
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(strings.ToLower(mime))
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(img.Data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return img, fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, mime)
	}
	img.MIMEType = mime
	return img, nil
}

// Reset returns to idle. A running analysis finishes but its result is dropped.
func (s *Scanner) Reset() {
	s.mu.Lock()
	s.generation++
	s.state = State{}
	s.mu.Unlock()
}

func (s *Scanner) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	return st
}
