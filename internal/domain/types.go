package domain

import (
	"errors"
	"strings"
	"time"
)

type SessionID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMode selects which gateway variant answers a turn.
type ChatMode string

const (
	ModeStandard ChatMode = "standard" // conversation history, no grounding
	ModeSearch   ChatMode = "search"   // web-search grounded, no history
	ModeLocation ChatMode = "location" // map grounded around the device location
)

var ErrUnknownMode = errors.New("unknown chat mode")

// ParseChatMode accepts the canonical names plus the labels the dashboard uses.
func ParseChatMode(s string) (ChatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "pro", "":
		return ModeStandard, nil
	case "search", "web":
		return ModeSearch, nil
	case "location", "maps", "map":
		return ModeLocation, nil
	default:
		return "", ErrUnknownMode
	}
}

type LinkSource string

const (
	LinkWeb LinkSource = "web"
	LinkMap LinkSource = "map"
)

type Timestamp = time.Time
