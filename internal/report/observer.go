package report

import (
	"context"
	"io"

	"github.com/specialistvlad/keepaway/internal/simulation"
)

// SnapshotPrinter is a round observer that prints inspection blocks.
type SnapshotPrinter struct {
	w io.Writer
}

// NewSnapshotPrinter returns an observer writing snapshot blocks to w.
func NewSnapshotPrinter(w io.Writer) *SnapshotPrinter {
	return &SnapshotPrinter{w: w}
}

// RoundCompleted implements simulation.Observer.
func (p *SnapshotPrinter) RoundCompleted(_ context.Context, snap simulation.Snapshot) error {
	return WriteSnapshot(p.w, snap)
}
