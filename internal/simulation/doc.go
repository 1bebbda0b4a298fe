// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package simulation runs the round-based item passing game over a troop
// of parsed monkey definitions and aggregates the result.
//
// # How a Round Works
//
// Monkeys are visited in ascending id order, fixed when the Engine is built.
// A monkey's turn lasts while its queue is non-empty:
//  1. Pop the front item and count one inspection.
//  2. Apply the monkey's operation to the item.
//  3. Divide by the relief factor when one is configured (floor division).
//  4. Test divisibility and push the item to the back of the chosen target.
//
// An item thrown to a monkey that has not had its turn yet is inspected
// again in the same round; an item thrown to a monkey that already went
// waits for the next round. A monkey that throws to itself keeps going until
// its queue drains, which never happens for inputs where every value stays
// with it.
//
// # Values
//
// Worry values are *big.Int and are never reduced, so a run stays exact for
// any number of rounds. The cost is that squaring operations double the
// value's size every time they apply.
//
// # Observers
//
// Observers are called synchronously after every round with a Snapshot. An
// observer error stops Run and is returned to the caller.
package simulation
