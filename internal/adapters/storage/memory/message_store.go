package memory

import (
	"sync"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// MessageStore keeps each session's history as an ordered, append-only slice.
// It is NOT persistent; histories live as long as the process.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[domain.SessionID][]*domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[domain.SessionID][]*domain.Message),
	}
}

func (s *MessageStore) AppendMessage(msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], msg)
	return nil
}

// GetMessagesBySession returns a copy so callers never alias the live slice.
func (s *MessageStore) GetMessagesBySession(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MessageStore) ResetSession(sessionID domain.SessionID, seed *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seed == nil {
		s.messages[sessionID] = nil
		return nil
	}
	s.messages[sessionID] = []*domain.Message{seed}
	return nil
}

func (s *MessageStore) DeleteSession(sessionID domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, sessionID)
	return nil
}
