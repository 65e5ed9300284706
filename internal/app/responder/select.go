package responder

import "github.com/PabloGalante/bharat-yatra/internal/domain"

// Variant is the product flavour of the chat screen.
type Variant int

const (
	// VariantLive sends every turn to the gateway.
	VariantLive Variant = iota
	// VariantScriptedWarmup answers the first turns from WarmupScript.
	VariantScriptedWarmup
)

type Source int

const (
	SourceScripted Source = iota
	SourceStandard
	SourceSearch
	SourceLocation
)

func (s Source) String() string {
	switch s {
	case SourceScripted:
		return "scripted"
	case SourceStandard:
		return "standard"
	case SourceSearch:
		return "search"
	case SourceLocation:
		return "location"
	}
	return "unknown"
}

// Select is a pure function from (variant, mode, turnCounter) to the source
// that answers the next turn.
func Select(v Variant, mode domain.ChatMode, turnCounter int) Source {
	if v == VariantScriptedWarmup && turnCounter >= 0 && turnCounter < len(WarmupScript) {
		return SourceScripted
	}

	switch mode {
	case domain.ModeSearch:
		return SourceSearch
	case domain.ModeLocation:
		return SourceLocation
	default:
		return SourceStandard
	}
}
