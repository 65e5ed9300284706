package httpadapter

import (
	"context"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/PabloGalante/bharat-yatra/internal/app/workspace"
	"github.com/PabloGalante/bharat-yatra/internal/observability"
)

// handleTriggerSOS opens the overlay. ?immediate=true skips the countdown.
func (s *Server) handleTriggerSOS(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	o := ws.TriggerSOS()
	if immediate, _ := strconv.ParseBool(r.URL.Query().Get("immediate")); immediate {
		o.Force()
	}
	writeJSON(w, http.StatusCreated, toSOSResponse(o.Snapshot()))
}

func (s *Server) handleGetSOS(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	o, err := ws.SOS()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSOSResponse(o.Snapshot()))
}

func (s *Server) handleCancelSOS(w http.ResponseWriter, r *http.Request) {
	s.sosAction(w, r, (*workspace.Workspace).CancelSOS)
}

func (s *Server) handleDismissSOS(w http.ResponseWriter, r *http.Request) {
	s.sosAction(w, r, (*workspace.Workspace).DismissSOS)
}

func (s *Server) sosAction(w http.ResponseWriter, r *http.Request, op func(*workspace.Workspace) (bool, error)) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	// Grab the overlay first so the response can carry its final state.
	o, err := ws.SOS()
	if err != nil {
		writeError(w, r, err)
		return
	}
	applied, err := op(ws)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sosActionResponse{Applied: applied, SOS: toSOSResponse(o.Snapshot())})
}

// handleSOSStream pushes every overlay state as a JSON frame until the
// overlay closes or the client disconnects.
func (s *Server) handleSOSStream(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}
	o, err := ws.SOS()
	if err != nil {
		writeError(w, r, err)
		return
	}

	log := observability.LoggerFromContext(r.Context()).With("session_id", ws.ID())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.opts.AllowedOrigins),
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.CloseNow()

	// The stream is server to client only; CloseRead handles control frames
	// and cancels ctx when the client goes away.
	ctx := conn.CloseRead(r.Context())

	sub, unsubscribe := o.Subscribe()
	defer unsubscribe()

	log.Info("sos stream opened")
	for {
		select {
		case snap, open := <-sub:
			if !open {
				log.Info("sos stream finished")
				_ = conn.Close(websocket.StatusNormalClosure, "sos closed")
				return
			}
			if err := writeFrame(ctx, conn, toSOSResponse(snap)); err != nil {
				log.Debug("sos stream write failed", "error", err)
				return
			}
		case <-ctx.Done():
			log.Debug("sos stream client gone", "reason", ctx.Err())
			return
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, v any) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
