// Package runconfig loads the optional HCL run file. Every attribute is
// optional; values that are not written in the file stay nil so that the
// caller can layer them between command-line flags and built-in defaults.
//
//	simulation {
//	  rounds         = full    # or inspection, or any number
//	  relief         = 3
//	  snapshots      = [1, 20]
//	  snapshot_every = 1000
//	}
//
//	report {
//	  format = "yaml"
//	  top    = 2
//	}
//
//	publish {
//	  url     = "http://localhost:3000/troop"
//	  event   = "round"
//	  timeout = "5s"
//	}
package runconfig
