package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PabloGalante/bharat-yatra/internal/app/conversation"
	"github.com/PabloGalante/bharat-yatra/internal/app/shell"
	"github.com/PabloGalante/bharat-yatra/internal/app/vision"
	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

// statusFor maps known sentinels to a status; zero means unknown.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrScreenNotMounted),
		errors.Is(err, workspace.ErrNotActive),
		errors.Is(err, shell.ErrLocationCaptured),
		errors.Is(err, vision.ErrBusy),
		errors.Is(err, vision.ErrDiscarded):
		return http.StatusConflict
	case errors.Is(err, shell.ErrUnknownView),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, workspace.ErrInvalidLocation),
		errors.Is(err, conversation.ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, vision.ErrInvalidImage):
		return http.StatusUnprocessableEntity
	}
	return 0
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == 0 {
		internalError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
	})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}
