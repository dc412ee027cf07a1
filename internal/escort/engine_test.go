package escort

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escape-ops-console/internal/gameapi"
)

type mockGuider struct {
	guided []string
	err    error
}

func (m *mockGuider) SetGuided(ctx context.Context, challengeID string) error {
	if m.err != nil {
		return m.err
	}
	m.guided = append(m.guided, challengeID)
	return nil
}

func TestEngine_PromptsFirstQueueEntry(t *testing.T) {
	e := NewEngine(&mockGuider{}, nil, nil)

	e.Observe([]gameapi.QueueEntry{
		{ChallengeId: "c-1", GroupName: "Alpha", RoomID: "A", QueueNumber: "12"},
		{ChallengeId: "c-2", GroupName: "Bravo", RoomID: "B"},
	})

	entry, active := e.Current()
	require.True(t, active)
	assert.Equal(t, "c-1", entry.ChallengeId)

	// A newer poll never swaps an active prompt.
	e.Observe([]gameapi.QueueEntry{{ChallengeId: "c-9"}})
	entry, _ = e.Current()
	assert.Equal(t, "c-1", entry.ChallengeId)
}

func TestEngine_GuidedClosesPrompt(t *testing.T) {
	guider := &mockGuider{}
	e := NewEngine(guider, nil, nil)

	e.Observe([]gameapi.QueueEntry{{ChallengeId: "c-1", GroupName: "Alpha", RoomID: "A"}})
	require.NoError(t, e.Guided(context.Background()))

	assert.Equal(t, []string{"c-1"}, guider.guided)
	_, active := e.Current()
	assert.False(t, active)
}

func TestEngine_FailedGuidedKeepsPrompt(t *testing.T) {
	e := NewEngine(&mockGuider{err: errors.New("backend down")}, nil, nil)

	e.Observe([]gameapi.QueueEntry{{ChallengeId: "c-1"}})
	require.Error(t, e.Guided(context.Background()))

	entry, active := e.Current()
	require.True(t, active)
	assert.Equal(t, "c-1", entry.ChallengeId)
}

func TestEngine_GuidedRequiresPrompt(t *testing.T) {
	e := NewEngine(&mockGuider{}, nil, nil)
	assert.ErrorIs(t, e.Guided(context.Background()), ErrNothingPrompted)
}
