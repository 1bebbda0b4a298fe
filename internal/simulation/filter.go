// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import "context"

// SnapshotFilter selects the rounds an observer cares about: the listed
// rounds plus every Every-th round. The zero value selects nothing.
type SnapshotFilter struct {
	Rounds []int
	Every  int
}

// Match reports whether round is selected.
func (f SnapshotFilter) Match(round int) bool {
	if f.Every > 0 && round%f.Every == 0 {
		return true
	}
	for _, r := range f.Rounds {
		if r == round {
			return true
		}
	}
	return false
}

// Filtered wraps obs so it only sees the rounds f selects.
func Filtered(obs Observer, f SnapshotFilter) Observer {
	return ObserverFunc(func(ctx context.Context, snap Snapshot) error {
		if !f.Match(snap.Round) {
			return nil
		}
		return obs.RoundCompleted(ctx, snap)
	})
}
