package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

// MockGateway answers locally without network calls (dev mode).
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Chat(_ context.Context, text string, history []*domain.Message) (*domain.Reply, error) {
	return &domain.Reply{
		Text: fmt.Sprintf("Noted: %q. I have %d earlier messages of context. Check local advisories before you travel.", text, len(history)),
	}, nil
}

func (m *MockGateway) SearchChat(_ context.Context, text string) (*domain.Reply, error) {
	return &domain.Reply{
		Text: fmt.Sprintf("Latest advisories related to %q: no severe weather warnings reported.", text),
		Links: []domain.Link{
			{Title: "India Meteorological Department", URI: "https://mausam.imd.gov.in", Source: domain.LinkWeb},
		},
	}, nil
}

func (m *MockGateway) MapsChat(_ context.Context, text string, loc domain.Location) (*domain.Reply, error) {
	return &domain.Reply{
		Text: fmt.Sprintf("Near %.4f, %.4f for %q: the closest tourist police post is within 2 km.", loc.Latitude, loc.Longitude, text),
		Links: []domain.Link{
			{
				Title:  "Tourist Police",
				URI:    fmt.Sprintf("https://maps.google.com/?q=%.4f,%.4f", loc.Latitude, loc.Longitude),
				Source: domain.LinkMap,
			},
		},
	}, nil
}

func (m *MockGateway) ClassifyLandmark(_ context.Context, img domain.Image) (*domain.LandmarkAnalysis, error) {
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("mock: empty image")
	}
	return &domain.LandmarkAnalysis{
		Name:            "Taj Mahal",
		Description:     "Ivory-white marble mausoleum on the right bank of the Yamuna in Agra.",
		HistoricalFacts: []string{"Commissioned in 1631 by Shah Jahan.", "UNESCO World Heritage Site since 1983."},
		SafetyTips:      []string{"Closed on Fridays.", "Use only licensed guides at the gates."},
	}, nil
}
