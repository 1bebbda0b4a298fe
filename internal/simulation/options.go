// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import "math/big"

// Option configures an Engine.
type Option func(*Engine)

// WithRelief divides every new worry value by n before the test. Values of
// n below 2 leave the values untouched.
func WithRelief(n uint64) Option {
	return func(e *Engine) {
		if n > 1 {
			e.relief = new(big.Int).SetUint64(n)
		} else {
			e.relief = nil
		}
	}
}

// WithObserver registers observers notified after every round.
func WithObserver(obs ...Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, obs...)
	}
}
