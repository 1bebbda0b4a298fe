// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/specialistvlad/keepaway/internal/monkey"
)

// actor is the mutable state of one monkey during a run.
type actor struct {
	def      monkey.Definition
	divisor  *big.Int
	queue    []*big.Int
	activity uint64
}

// Engine owns the troop for the duration of a run. It is not safe for
// concurrent use; observers run on the goroutine that calls Run.
type Engine struct {
	actors    []*actor // ascending id, the visit order
	byID      map[int]*actor
	relief    *big.Int
	observers []Observer
	round     int

	rem *big.Int // scratch for the divisibility test
}

// New builds an Engine with one actor per definition, each holding its
// starting items and zero activity.
func New(defs []monkey.Definition, opts ...Option) (*Engine, error) {
	e := &Engine{
		actors: make([]*actor, 0, len(defs)),
		byID:   make(map[int]*actor, len(defs)),
		rem:    new(big.Int),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, def := range defs {
		if prev, ok := e.byID[def.ID]; ok {
			return nil, &DuplicateIDError{ID: def.ID, FirstLine: prev.def.Line, Line: def.Line}
		}
		if def.Divisor == 0 {
			return nil, fmt.Errorf("monkey %d: divisor must be positive", def.ID)
		}
		if def.Operation.IsZero() {
			return nil, fmt.Errorf("monkey %d: missing operation", def.ID)
		}

		a := &actor{
			def:     def,
			divisor: new(big.Int).SetUint64(def.Divisor),
			queue:   make([]*big.Int, 0, len(def.StartingItems)),
		}
		for _, item := range def.StartingItems {
			a.queue = append(a.queue, new(big.Int).SetUint64(item))
		}
		e.actors = append(e.actors, a)
		e.byID[def.ID] = a
	}

	sort.Slice(e.actors, func(i, j int) bool { return e.actors[i].def.ID < e.actors[j].def.ID })
	return e, nil
}

// Round plays one full round. A throw to an unknown monkey stops the round
// with a *TargetError and leaves the engine in an undefined state.
func (e *Engine) Round(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	round := e.round + 1

	var inspected uint64
	for _, a := range e.actors {
		for len(a.queue) > 0 {
			old := a.queue[0]
			a.queue[0] = nil
			a.queue = a.queue[1:]
			a.activity++
			inspected++

			v := a.def.Operation.Apply(old)
			if e.relief != nil {
				v.Div(v, e.relief)
			}

			outcome := monkey.OutcomeOf(e.rem.Rem(v, a.divisor).Sign() == 0)
			id := a.def.Target(outcome)
			target, ok := e.byID[id]
			if !ok {
				return &TargetError{Round: round, From: a.def.ID, Target: id}
			}
			target.queue = append(target.queue, v)
		}
	}

	e.round = round
	ctxlog.FromContext(ctx).Debug("Round completed.", "round", round, "inspections", inspected)
	return nil
}

// Run plays rounds rounds, notifying observers after each one.
func (e *Engine) Run(ctx context.Context, rounds int) error {
	if rounds < 0 {
		return fmt.Errorf("rounds must not be negative, got %d", rounds)
	}
	for i := 0; i < rounds; i++ {
		if err := e.Round(ctx); err != nil {
			return err
		}
		if len(e.observers) == 0 {
			continue
		}
		snap := e.Snapshot()
		for _, obs := range e.observers {
			if err := obs.RoundCompleted(ctx, snap); err != nil {
				return fmt.Errorf("observer failed after round %d: %w", snap.Round, err)
			}
		}
	}
	return nil
}

// Snapshot returns the current state of every actor.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{Round: e.round, Actors: make([]ActorActivity, len(e.actors))}
	for i, a := range e.actors {
		snap.Actors[i] = ActorActivity{ID: a.def.ID, Activity: a.activity, Items: len(a.queue)}
	}
	return snap
}

// Activity returns the activity count of every actor keyed by id.
func (e *Engine) Activity() map[int]uint64 {
	out := make(map[int]uint64, len(e.actors))
	for _, a := range e.actors {
		out[a.def.ID] = a.activity
	}
	return out
}

// ErrUnknownActor is returned by Items for an id outside the troop.
var ErrUnknownActor = errors.New("unknown monkey")

// Items returns a copy of the queue of monkey id, front first.
func (e *Engine) Items(id int) ([]*big.Int, error) {
	a, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownActor, id)
	}
	out := make([]*big.Int, len(a.queue))
	for i, v := range a.queue {
		out[i] = new(big.Int).Set(v)
	}
	return out, nil
}

// IDs returns the actor ids in visit order.
func (e *Engine) IDs() []int {
	out := make([]int, len(e.actors))
	for i, a := range e.actors {
		out[i] = a.def.ID
	}
	return out
}

// RoundsCompleted reports how many rounds have finished.
func (e *Engine) RoundsCompleted() int {
	return e.round
}
