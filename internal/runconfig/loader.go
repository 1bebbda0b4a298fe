package runconfig

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Load reads and decodes the run file at path.
func Load(ctx context.Context, path string) (*Settings, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	return Parse(ctx, path, src)
}

// Parse decodes run file source. filename is only used in diagnostics.
func Parse(ctx context.Context, filename string, src []byte) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing run file.", "file", filename, "bytes", len(src))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode run file %s: %w", filename, diags)
	}

	d := &decoder{ctx: ctx, eval: evalContext()}
	s := &Settings{}

	if b := root.Simulation; b != nil {
		s.Rounds = decodeOptional[int](d, b.Rounds, "simulation.rounds")
		s.Relief = decodeOptional[uint64](d, b.Relief, "simulation.relief")
		s.Snapshots = decodeOptional[[]int](d, b.Snapshots, "simulation.snapshots")
		s.SnapshotEvery = decodeOptional[int](d, b.SnapshotEvery, "simulation.snapshot_every")
	}
	if b := root.Report; b != nil {
		s.Format = decodeOptional[string](d, b.Format, "report.format")
		s.Top = decodeOptional[int](d, b.Top, "report.top")
	}
	if b := root.Publish; b != nil {
		s.PublishURL = decodeOptional[string](d, b.URL, "publish.url")
		s.PublishEvent = decodeOptional[string](d, b.Event, "publish.event")
		s.PublishTimeout = d.duration(b.Timeout, "publish.timeout")
	}

	if d.diags.HasErrors() {
		return nil, fmt.Errorf("invalid run file %s: %w", filename, d.diags)
	}
	logger.Debug("Run file decoded.", "file", filename)
	return s, nil
}

// evalContext exposes the round presets as variables.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(Presets))
	for name, rounds := range Presets {
		vars[name] = cty.NumberIntVal(int64(rounds))
	}
	return &hcl.EvalContext{Variables: vars}
}

// decoder collects diagnostics across attributes so that every problem in
// the file is reported at once.
type decoder struct {
	ctx   context.Context
	eval  *hcl.EvalContext
	diags hcl.Diagnostics
}

func decodeOptional[T any](d *decoder, expr hcl.Expression, name string) *T {
	if !isExprDefined(d.ctx, expr, name) {
		return nil
	}
	var v T
	diags := gohcl.DecodeExpression(expr, d.eval, &v)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return nil
	}
	return &v
}

func (d *decoder) duration(expr hcl.Expression, name string) *time.Duration {
	if !isExprDefined(d.ctx, expr, name) {
		return nil
	}
	val, diags := expr.Value(d.eval)
	d.diags = append(d.diags, diags...)
	if diags.HasErrors() {
		return nil
	}

	rng := expr.Range()
	if val.Type() == cty.Number {
		// A bare number is taken as seconds.
		var secs float64
		if err := gocty.FromCtyValue(val, &secs); err != nil {
			d.addError(name, err.Error(), &rng)
			return nil
		}
		v := time.Duration(secs * float64(time.Second))
		return &v
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil || str.IsNull() {
		d.addError(name, "a duration string such as \"5s\" is required", &rng)
		return nil
	}
	var raw string
	if err := gocty.FromCtyValue(str, &raw); err != nil {
		d.addError(name, err.Error(), &rng)
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		d.addError(name, err.Error(), &rng)
		return nil
	}
	return &v
}

func (d *decoder) addError(name, detail string, rng *hcl.Range) {
	d.diags = append(d.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Invalid value for %s", name),
		Detail:   detail,
		Subject:  rng,
	})
}

// isExprDefined checks if an HCL expression was actually present in the
// source. Omitted optional attributes decode to zero-width placeholder
// expressions, so a nil check alone is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	defined := rng.End.Byte > rng.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if run file attribute was set.",
		"attribute", attrName,
		"hcl_range", rng.String(),
		"is_defined", defined,
	)
	return defined
}
