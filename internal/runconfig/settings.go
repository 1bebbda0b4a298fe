package runconfig

import "time"

// Presets are the round counts that may be named instead of written out.
var Presets = map[string]int{
	"inspection": 20,
	"full":       10000,
}

// Settings is what a run file declares. A nil field was not set.
type Settings struct {
	Rounds        *int
	Relief        *uint64
	Snapshots     *[]int
	SnapshotEvery *int

	Format *string
	Top    *int

	PublishURL     *string
	PublishEvent   *string
	PublishTimeout *time.Duration
}
