package publish

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/keepaway/internal/report"
	"github.com/specialistvlad/keepaway/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event   string
	payload any
}

type fakeEmitter struct {
	events []emitted
	err    error
	closed bool
}

func (f *fakeEmitter) Emit(event string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, emitted{event, payload})
	return nil
}

func (f *fakeEmitter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_RoundCompleted(t *testing.T) {
	em := &fakeEmitter{}
	p := NewPublisher(em, "", "run-1")

	snap := simulation.Snapshot{Round: 5, Actors: []simulation.ActorActivity{{ID: 0, Activity: 9, Items: 1}}}
	require.NoError(t, p.RoundCompleted(context.Background(), snap))

	require.Len(t, em.events, 1)
	assert.Equal(t, "round", em.events[0].event)
	assert.Equal(t, RoundPayload{
		RunID:   "run-1",
		Round:   5,
		Monkeys: []MonkeyPayload{{ID: 0, Activity: 9, Items: 1}},
	}, em.events[0].payload)
	assert.Equal(t, 1, p.Sent())
}

func TestPublisher_FinishAndClose(t *testing.T) {
	em := &fakeEmitter{}
	p := NewPublisher(em, "troop", "run-1")

	rep := report.Report{RunID: "run-1", Business: "10605"}
	require.NoError(t, p.Finish(context.Background(), rep))
	require.NoError(t, p.Close())

	require.Len(t, em.events, 1)
	assert.Equal(t, "troop_done", em.events[0].event)
	assert.Equal(t, rep, em.events[0].payload)
	assert.True(t, em.closed)
}

func TestPublisher_EmitErrorStopsTheRun(t *testing.T) {
	boom := errors.New("socket closed")
	p := NewPublisher(&fakeEmitter{err: boom}, "round", "run-1")

	err := p.RoundCompleted(context.Background(), simulation.Snapshot{Round: 2})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "round 2")
	assert.Equal(t, 0, p.Sent())
}

func TestDial_InvalidURL(t *testing.T) {
	testCases := []string{"::not a url", "localhost:3000", "/relative/path"}
	for _, u := range testCases {
		t.Run(u, func(t *testing.T) {
			_, err := Dial(context.Background(), Config{URL: u})
			assert.Error(t, err)
		})
	}
}
