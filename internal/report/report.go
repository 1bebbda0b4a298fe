// Package report renders the outcome of a run as text, JSON or YAML, and
// prints the per-round inspection blocks.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/specialistvlad/keepaway/internal/simulation"
	"gopkg.in/yaml.v3"
)

// Format is an output format for the final report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
}

// Standing is one ranked monkey.
type Standing struct {
	Rank     int    `json:"rank" yaml:"rank"`
	ID       int    `json:"id" yaml:"id"`
	Activity uint64 `json:"activity" yaml:"activity"`
}

// Report is the serializable result of a run. The product is a decimal
// string because it may exceed every fixed-width integer type.
type Report struct {
	RunID     string     `json:"run_id" yaml:"run_id"`
	Input     string     `json:"input" yaml:"input"`
	Rounds    int        `json:"rounds" yaml:"rounds"`
	Relief    uint64     `json:"relief" yaml:"relief"`
	Top       int        `json:"top" yaml:"top"`
	Standings []Standing `json:"standings" yaml:"standings"`
	Business  string     `json:"monkey_business" yaml:"monkey_business"`
}

// New builds a Report from an aggregated result.
func New(runID, input string, relief uint64, res simulation.Result) Report {
	rep := Report{
		RunID:     runID,
		Input:     input,
		Rounds:    res.Rounds,
		Relief:    relief,
		Top:       res.Top,
		Standings: make([]Standing, len(res.Standings)),
	}
	for i, s := range res.Standings {
		rep.Standings[i] = Standing{Rank: i + 1, ID: s.ID, Activity: s.Activity}
	}
	if res.Business != nil {
		rep.Business = res.Business.String()
	}
	return rep
}

// Write renders rep to w in the given format.
func Write(w io.Writer, format Format, rep Report) error {
	switch format {
	case FormatText, "":
		return writeText(w, rep)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rep)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(rep); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown report format %q", format)
}

func writeText(w io.Writer, rep Report) error {
	ew := &errWriter{w: w}
	ew.printf("Standings after %d rounds:\n", rep.Rounds)
	for _, s := range rep.Standings {
		ew.printf("  %d. Monkey %d: %d inspections\n", s.Rank, s.ID, s.Activity)
	}
	ew.printf("Monkey business: %s\n", rep.Business)
	return ew.err
}

// WriteSnapshot prints the inspection counts after a round.
func WriteSnapshot(w io.Writer, snap simulation.Snapshot) error {
	ew := &errWriter{w: w}
	ew.printf("== After round %d ==\n", snap.Round)
	for _, a := range snap.Actors {
		ew.printf("Monkey %d inspected items %d times.\n", a.ID, a.Activity)
	}
	ew.printf("\n")
	return ew.err
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
