package publish

import (
	"context"
	"fmt"

	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/report"
	"github.com/specialistvlad/keepaway/internal/simulation"
)

// DefaultEvent is the event name used for round snapshots.
const DefaultEvent = "round"

// RoundPayload is the body of a round event.
type RoundPayload struct {
	RunID   string          `json:"run_id"`
	Round   int             `json:"round"`
	Monkeys []MonkeyPayload `json:"monkeys"`
}

// MonkeyPayload is one monkey inside a RoundPayload.
type MonkeyPayload struct {
	ID       int    `json:"id"`
	Activity uint64 `json:"activity"`
	Items    int    `json:"items"`
}

// Publisher is a simulation.Observer that emits snapshots as events. The
// final report goes out as "<event>_done".
type Publisher struct {
	em    Emitter
	event string
	runID string
	sent  int
}

// NewPublisher wraps em. An empty event selects DefaultEvent.
func NewPublisher(em Emitter, event, runID string) *Publisher {
	if event == "" {
		event = DefaultEvent
	}
	return &Publisher{em: em, event: event, runID: runID}
}

// RoundCompleted implements simulation.Observer.
func (p *Publisher) RoundCompleted(ctx context.Context, snap simulation.Snapshot) error {
	payload := RoundPayload{RunID: p.runID, Round: snap.Round, Monkeys: make([]MonkeyPayload, len(snap.Actors))}
	for i, a := range snap.Actors {
		payload.Monkeys[i] = MonkeyPayload{ID: a.ID, Activity: a.Activity, Items: a.Items}
	}
	if err := p.em.Emit(p.event, payload); err != nil {
		return fmt.Errorf("failed to publish round %d: %w", snap.Round, err)
	}
	p.sent++
	ctxlog.FromContext(ctx).Debug("Published round snapshot.", "event", p.event, "round", snap.Round)
	return nil
}

// Finish emits the final report.
func (p *Publisher) Finish(ctx context.Context, rep report.Report) error {
	event := p.event + "_done"
	if err := p.em.Emit(event, rep); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Published final report.", "event", event, "snapshots", p.sent)
	return nil
}

// Close closes the underlying emitter.
func (p *Publisher) Close() error {
	return p.em.Close()
}

// Sent reports how many round events were emitted.
func (p *Publisher) Sent() int {
	return p.sent
}
