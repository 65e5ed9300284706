package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PabloGalante/bharat-yatra/internal/app/shell"
	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// ─────────────────────────────────────────────
// Sessions and shell
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	ws, err := s.svc.Start(r.Context(), workspace.StartInput{Title: req.Title})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writeWorkspace(w, r, http.StatusCreated, ws)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	s.writeWorkspace(w, r, http.StatusOK, ws)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	if err := s.svc.End(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := shell.ParseView(req.View)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := ws.Navigate(view); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeWorkspace(w, r, http.StatusOK, ws)
}

func (s *Server) handleChrome(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	var req chromeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	chrome := ws.UpdateChrome(shell.ChromeUpdate{
		SidebarOpen: req.SidebarOpen,
		MenuOpen:    req.MenuOpen,
	})
	writeJSON(w, http.StatusOK, toChromeResponse(chrome))
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	var req locationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Denied {
		// The location simply stays absent.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		badRequest(w, "latitude and longitude are required")
		return
	}

	loc := domain.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := ws.CaptureLocation(loc); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLocationResponse(&loc))
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toShareResponse(ws.Share()))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Server) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	ws, err := s.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return ws, true
}

func (s *Server) writeWorkspace(w http.ResponseWriter, r *http.Request, status int, ws *workspace.Workspace) {
	sess, err := s.svc.Session(ws.ID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := ws.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, toWorkspaceResponse(sess, snap))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// decodeOptionalJSON accepts an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}
