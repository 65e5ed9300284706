package httpadapter

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/PabloGalante/bharat-yatra/internal/app/conversation"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

func (s *Server) chat(w http.ResponseWriter, r *http.Request) (*conversation.Chat, bool) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return nil, false
	}
	chat, err := ws.Chat()
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return chat, true
}

func (s *Server) writeChat(w http.ResponseWriter, r *http.Request, status int, chat *conversation.Chat) {
	st, err := chat.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, toChatResponse(st))
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.chat(w, r)
	if !ok {
		return
	}
	s.writeChat(w, r, http.StatusOK, chat)
}

// handleSubmit waits for the turn while the request lives. With ?wait=false
// it answers 202 right after the user message is appended; the client then
// polls GET /chat.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.chat(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	turn, err := chat.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, conversation.ErrBlankText):
		s.writeIgnored(w, r, chat, "blank")
		return
	case errors.Is(err, conversation.ErrBusy):
		s.writeIgnored(w, r, chat, "busy")
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	user := toMessageResponse(turn.UserMessage)
	resp := submitResponse{Accepted: true, UserMessage: &user}

	if r.URL.Query().Get("wait") == "false" {
		st, err := chat.Snapshot()
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Chat = toChatResponse(st)
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	out, err := turn.Wait(r.Context())
	if err != nil {
		// Client went away; the turn still completes server-side.
		return
	}
	if out.Reply != nil {
		reply := toMessageResponse(out.Reply)
		resp.Reply = &reply
	}

	st, err := chat.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp.Chat = toChatResponse(st)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeIgnored(w http.ResponseWriter, r *http.Request, chat *conversation.Chat, reason string) {
	st, err := chat.Snapshot()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Ignored: reason, Chat: toChatResponse(st)})
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.chat(w, r)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := chat.Clear(confirmed); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeChat(w, r, http.StatusOK, chat)
}

func (s *Server) handleChatMode(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.chat(w, r)
	if !ok {
		return
	}

	var req modeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := domain.ParseChatMode(req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := chat.SetMode(mode); err != nil {
		writeError(w, r, err)
		return
	}
	s.writeChat(w, r, http.StatusOK, chat)
}

func (s *Server) handleChatInput(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.chat(w, r)
	if !ok {
		return
	}

	var req inputRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	chat.SetInput(req.Input)
	s.writeChat(w, r, http.StatusOK, chat)
}
