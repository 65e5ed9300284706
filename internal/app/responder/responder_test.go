package responder_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/bharat-yatra/internal/adapters/llm/llmtest"
	"github.com/PabloGalante/bharat-yatra/internal/app/responder"
	"github.com/PabloGalante/bharat-yatra/internal/domain"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestSelect(t *testing.T) {
	cases := []struct {
		variant responder.Variant
		mode    domain.ChatMode
		turn    int
		want    responder.Source
	}{
		{responder.VariantLive, domain.ModeStandard, 0, responder.SourceStandard},
		{responder.VariantLive, domain.ModeSearch, 0, responder.SourceSearch},
		{responder.VariantLive, domain.ModeLocation, 7, responder.SourceLocation},
		{responder.VariantScriptedWarmup, domain.ModeSearch, 0, responder.SourceScripted},
		{responder.VariantScriptedWarmup, domain.ModeStandard, 2, responder.SourceScripted},
		{responder.VariantScriptedWarmup, domain.ModeStandard, 3, responder.SourceStandard},
		{responder.VariantScriptedWarmup, domain.ModeLocation, 3, responder.SourceLocation},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%s/%d", tc.variant, tc.mode, tc.turn), func(t *testing.T) {
			assert.Equal(t, tc.want, responder.Select(tc.variant, tc.mode, tc.turn))
		})
	}
}

func TestScripted_ServesLinePerTurnWithDelay(t *testing.T) {
	var slept []time.Duration
	s := responder.NewScripted(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})

	for turn := range responder.WarmupScript {
		reply, err := s.Respond(context.Background(), responder.Input{Turn: turn})
		require.NoError(t, err)
		assert.Equal(t, responder.WarmupScript[turn].Text, reply.Text)
	}
	assert.Equal(t, []time.Duration{1200 * time.Millisecond, 1500 * time.Millisecond, 1500 * time.Millisecond}, slept)

	_, err := s.Respond(context.Background(), responder.Input{Turn: 3})
	assert.Error(t, err)
}

func TestScripted_NeverCallsGateway(t *testing.T) {
	gw := &llmtest.Stub{}
	set := responder.NewSet(gw, responder.NewScripted(noSleep))

	_, err := set.Run(context.Background(), responder.SourceScripted, responder.Input{Text: "hi"})
	require.NoError(t, err)
	assert.Empty(t, gw.Calls())
}

func TestStandard_SendsLastSixMessages(t *testing.T) {
	gw := &llmtest.Stub{Reply: &domain.Reply{Text: "ok"}}
	set := responder.NewSet(gw, responder.NewScripted(noSleep))

	var history []*domain.Message
	for i := 0; i < 9; i++ {
		history = append(history, &domain.Message{Content: fmt.Sprintf("m%d", i)})
	}

	reply, err := set.Run(context.Background(), responder.SourceStandard, responder.Input{Text: "next", History: history})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "chat", calls[0].Op)
	assert.Equal(t, "next", calls[0].Text)
	require.Len(t, calls[0].History, responder.HistoryWindow)
	assert.Equal(t, "m3", calls[0].History[0].Content)
	assert.Equal(t, "m8", calls[0].History[5].Content)
}

func TestSearchAndLocation(t *testing.T) {
	gw := &llmtest.Stub{Reply: &domain.Reply{Text: "ok"}}
	set := responder.NewSet(gw, responder.NewScripted(noSleep))
	history := []*domain.Message{{Content: "old"}}

	_, err := set.Run(context.Background(), responder.SourceSearch, responder.Input{Text: "fog", History: history})
	require.NoError(t, err)

	loc := domain.Location{Latitude: 27.1751, Longitude: 78.0421}
	_, err = set.Run(context.Background(), responder.SourceLocation, responder.Input{Text: "police", History: history, Location: loc})
	require.NoError(t, err)

	calls := gw.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "search", calls[0].Op)
	assert.Nil(t, calls[0].History)
	assert.Equal(t, "maps", calls[1].Op)
	assert.Equal(t, loc, calls[1].Location)
}

func TestRun_WrapsGatewayError(t *testing.T) {
	boom := errors.New("quota exceeded")
	set := responder.NewSet(&llmtest.Stub{Err: boom}, responder.NewScripted(noSleep))

	_, err := set.Run(context.Background(), responder.SourceSearch, responder.Input{Text: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
