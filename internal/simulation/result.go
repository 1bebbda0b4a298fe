// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

// ErrTooFewActors is returned when the troop is smaller than the requested
// number of top monkeys.
var ErrTooFewActors = errors.New("not enough monkeys")

// Standing is one monkey's place in the final ranking.
type Standing struct {
	ID       int
	Activity uint64
}

// Result is the aggregate outcome of a run.
type Result struct {
	Rounds    int
	Standings []Standing
	Top       int
	Business  *big.Int
}

// Rank orders the monkeys of snap by activity, highest first. Ties go to
// the lower id.
func Rank(snap Snapshot) []Standing {
	out := make([]Standing, len(snap.Actors))
	for i, a := range snap.Actors {
		out[i] = Standing{ID: a.ID, Activity: a.Activity}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Activity != out[j].Activity {
			return out[i].Activity > out[j].Activity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Business multiplies the activity counts of the first top standings.
func Business(standings []Standing, top int) (*big.Int, error) {
	if top < 1 {
		return nil, fmt.Errorf("top must be at least 1, got %d", top)
	}
	if len(standings) < top {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrTooFewActors, top, len(standings))
	}
	product := big.NewInt(1)
	for _, s := range standings[:top] {
		product.Mul(product, new(big.Int).SetUint64(s.Activity))
	}
	return product, nil
}

// Summarize ranks snap and computes the monkey business of its top monkeys.
func Summarize(snap Snapshot, top int) (Result, error) {
	standings := Rank(snap)
	business, err := Business(standings, top)
	if err != nil {
		return Result{}, err
	}
	return Result{Rounds: snap.Round, Standings: standings, Top: top, Business: business}, nil
}
