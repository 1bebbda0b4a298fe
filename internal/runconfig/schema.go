package runconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot holds the top-level blocks of a run file.
type fileRoot struct {
	Simulation *simulationBlock `hcl:"simulation,block"`
	Report     *reportBlock     `hcl:"report,block"`
	Publish    *publishBlock    `hcl:"publish,block"`
}

type simulationBlock struct {
	Rounds        hcl.Expression `hcl:"rounds,optional"`
	Relief        hcl.Expression `hcl:"relief,optional"`
	Snapshots     hcl.Expression `hcl:"snapshots,optional"`
	SnapshotEvery hcl.Expression `hcl:"snapshot_every,optional"`
}

type reportBlock struct {
	Format hcl.Expression `hcl:"format,optional"`
	Top    hcl.Expression `hcl:"top,optional"`
}

type publishBlock struct {
	URL     hcl.Expression `hcl:"url,optional"`
	Event   hcl.Expression `hcl:"event,optional"`
	Timeout hcl.Expression `hcl:"timeout,optional"`
}
