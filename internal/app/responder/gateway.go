package responder

import (
	"context"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// HistoryWindow is how many prior messages the standard mode forwards.
const HistoryWindow = 6

// Standard forwards the recent history plus the new text.
type Standard struct {
	gw domain.Gateway
}

func NewStandard(gw domain.Gateway) *Standard {
	return &Standard{gw: gw}
}

func (a *Standard) Name() string {
	return "standard"
}

func (a *Standard) Respond(ctx context.Context, in Input) (*domain.Reply, error) {
	return a.gw.Chat(ctx, in.Text, lastN(in.History, HistoryWindow))
}

// Search sends only the new text to the web-search variant.
type Search struct {
	gw domain.Gateway
}

func NewSearch(gw domain.Gateway) *Search {
	return &Search{gw: gw}
}

func (a *Search) Name() string {
	return "search"
}

func (a *Search) Respond(ctx context.Context, in Input) (*domain.Reply, error) {
	return a.gw.SearchChat(ctx, in.Text)
}

// Location sends the new text and the device coordinate to the maps variant.
type Location struct {
	gw domain.Gateway
}

func NewLocation(gw domain.Gateway) *Location {
	return &Location{gw: gw}
}

func (a *Location) Name() string {
	return "location"
}

func (a *Location) Respond(ctx context.Context, in Input) (*domain.Reply, error) {
	return a.gw.MapsChat(ctx, in.Text, in.Location)
}

func lastN(msgs []*domain.Message, n int) []*domain.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
