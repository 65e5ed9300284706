package domain

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// Reply is a gateway answer with optional grounding citations.
type Reply struct {
	Text  string
	Links []Link
}

// Gateway defines how the core application talks to the generative-AI API.
type Gateway interface {
	// Chat answers with conversation history (assistant turns become "model").
	Chat(ctx context.Context, text string, history []*Message) (*Reply, error)
	// SearchChat answers grounded on web search, without history.
	SearchChat(ctx context.Context, text string) (*Reply, error)
	// MapsChat answers grounded on maps around loc, without history.
	MapsChat(ctx context.Context, text string, loc Location) (*Reply, error)
	// ClassifyLandmark identifies a monument in img.
	ClassifyLandmark(ctx context.Context, img Image) (*LandmarkAnalysis, error)
}

// SessionStore defines session's persistence
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	DeleteSession(id SessionID) error
	ListSessions(limit int) ([]*Session, error)
}

// MessageStore is the append-only history of every chat, keyed by session.
type MessageStore interface {
	AppendMessage(msg *Message) error
	// GetMessagesBySession returns the last `limit` messages, all when limit <= 0.
	GetMessagesBySession(sessionID SessionID, limit int) ([]*Message, error)
	// ResetSession drops the history and leaves only seed (when non-nil).
	ResetSession(sessionID SessionID, seed *Message) error
	DeleteSession(sessionID SessionID) error
}
