// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: read the troop file,
// parse it, simulate, and report, decoupled from any specific entrypoint
// like a CLI.
package app
