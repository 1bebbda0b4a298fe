// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import "context"

// Observer receives a Snapshot after every completed round.
type Observer interface {
	RoundCompleted(ctx context.Context, snap Snapshot) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, snap Snapshot) error

// RoundCompleted calls f.
func (f ObserverFunc) RoundCompleted(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

// Snapshot is a read-only view of the troop after a round.
type Snapshot struct {
	Round  int
	Actors []ActorActivity // ascending id
}

// ActorActivity is one monkey's state inside a Snapshot.
type ActorActivity struct {
	ID       int
	Activity uint64
	Items    int
}

// Activity returns the activity count of monkey id and whether it exists.
func (s Snapshot) Activity(id int) (uint64, bool) {
	for _, a := range s.Actors {
		if a.ID == id {
			return a.Activity, true
		}
	}
	return 0, false
}

// Activities lists the activity counts in ascending id order.
func (s Snapshot) Activities() []uint64 {
	out := make([]uint64, len(s.Actors))
	for i, a := range s.Actors {
		out[i] = a.Activity
	}
	return out
}
