// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package simulation

import "fmt"

// TargetError reports a throw to a monkey that is not part of the troop.
type TargetError struct {
	Round  int
	From   int
	Target int
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("round %d: monkey %d throws to unknown monkey %d", e.Round, e.From, e.Target)
}

// DuplicateIDError reports two definitions sharing an id.
type DuplicateIDError struct {
	ID        int
	FirstLine int
	Line      int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("monkey %d is defined twice (lines %d and %d)", e.ID, e.FirstLine, e.Line)
}
