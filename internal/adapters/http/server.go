package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
)

type Options struct {
	AllowedOrigins []string
	// RateLimitPerMinute bounds chat submissions and image analyses per client.
	// Zero disables the limiter.
	RateLimitPerMinute int
	MaxImageBytes      int64
}

type Server struct {
	svc      *workspace.Service
	opts     Options
	limiter  *clientLimiter
	maxImage int64
}

func NewServer(svc *workspace.Service, opts Options) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		svc:      svc,
		opts:     opts,
		limiter:  newClientLimiter(opts.RateLimitPerMinute, time.Minute),
		maxImage: opts.MaxImageBytes,
	}
	if s.maxImage <= 0 {
		s.maxImage = 8 << 20
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(withRequestLogging)
	r.Use(chiMiddleware.Recoverer)
	r.Use(withCORS(opts.AllowedOrigins))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Put("/view", s.handleNavigate)
			r.Put("/chrome", s.handleChrome)
			r.Put("/location", s.handleLocation)

			r.Get("/chat", s.handleGetChat)
			r.With(s.limiter.middleware).Post("/chat/messages", s.handleSubmit)
			r.Delete("/chat/messages", s.handleClearChat)
			r.Put("/chat/mode", s.handleChatMode)
			r.Put("/chat/input", s.handleChatInput)

			r.Post("/sos", s.handleTriggerSOS)
			r.Get("/sos", s.handleGetSOS)
			r.Post("/sos/cancel", s.handleCancelSOS)
			r.Post("/sos/dismiss", s.handleDismissSOS)
			r.Get("/sos/stream", s.handleSOSStream)

			r.With(s.limiter.middleware).Post("/vision", s.handleAnalyze)
			r.Get("/vision", s.handleGetVision)
			r.Delete("/vision", s.handleResetVision)

			r.Get("/identity/share", s.handleShare)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
