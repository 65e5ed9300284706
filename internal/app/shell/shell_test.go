package shell_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/bharat-yatra/internal/app/shell"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

func TestZeroViewIsDashboard(t *testing.T) {
	var v shell.View
	assert.Equal(t, shell.Dashboard, v)
	assert.Equal(t, "dashboard", v.String())
	assert.Equal(t, shell.Dashboard, shell.New().Current())
}

func TestParseView(t *testing.T) {
	for _, v := range shell.Views() {
		got, err := shell.ParseView(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := shell.ParseView(" Walkie-Talkie ")
	require.NoError(t, err)
	assert.Equal(t, shell.WalkieTalkie, got)

	_, err = shell.ParseView("gallery")
	assert.ErrorIs(t, err, shell.ErrUnknownView)
}

func TestEveryViewHasScreen(t *testing.T) {
	views := shell.Views()
	require.Len(t, views, 7)

	labels := map[string]bool{}
	for _, v := range views {
		s := shell.ScreenFor(v)
		assert.Equal(t, v, s.View)
		assert.NotEmpty(t, s.Label)
		labels[s.Label] = true
	}
	assert.Len(t, labels, 7)

	assert.True(t, shell.ScreenFor(shell.Chatbot).Stateful)
	assert.True(t, shell.ScreenFor(shell.Vision).Stateful)
	assert.False(t, shell.ScreenFor(shell.Settings).Stateful)
}

func TestNavigate(t *testing.T) {
	s := shell.New()
	open := true
	s.UpdateChrome(shell.ChromeUpdate{SidebarOpen: &open, MenuOpen: &open})

	prev := s.Navigate(shell.Chatbot)
	assert.Equal(t, shell.Dashboard, prev)
	assert.Equal(t, shell.Chatbot, s.Current())

	snap := s.Snapshot()
	assert.False(t, snap.Chrome.SidebarOpen)
	assert.True(t, snap.Chrome.MenuOpen)
	assert.Equal(t, "AI Assistant", snap.Screen.Label)

	assert.Equal(t, shell.Chatbot, s.Navigate(shell.Chatbot))
}

func TestChromeIndependentOfView(t *testing.T) {
	s := shell.New()
	s.SetSOSVisible(true)
	s.Navigate(shell.Vision)
	s.Navigate(shell.Settings)
	assert.True(t, s.Snapshot().Chrome.SOSVisible)
}

func TestCaptureLocationOnce(t *testing.T) {
	s := shell.New()
	assert.Equal(t, domain.DefaultLocation, s.EffectiveLocation())
	assert.Nil(t, s.Snapshot().Location)

	agra := domain.Location{Latitude: 27.1751, Longitude: 78.0421}
	require.NoError(t, s.CaptureLocation(agra))
	assert.ErrorIs(t, s.CaptureLocation(domain.Location{Latitude: 1, Longitude: 2}), shell.ErrLocationCaptured)

	got, ok := s.Location()
	require.True(t, ok)
	assert.Equal(t, agra, got)
	assert.Equal(t, agra, s.EffectiveLocation())
}

func TestViewJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		V shell.View `json:"v"`
	}{shell.WalkieTalkie})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"walkie-talkie"}`, string(b))

	var out struct {
		V shell.View `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"v":"vision"}`), &out))
	assert.Equal(t, shell.Vision, out.V)
	assert.Error(t, json.Unmarshal([]byte(`{"v":"radar"}`), &out))
}
