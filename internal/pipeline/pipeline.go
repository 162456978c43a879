// Package pipeline wires the stages together: discover, load, derive,
// aggregate, rank, render, publish. All per-run state travels in an
// explicit Run value; there is no package-level accumulator, so a run is a
// pure function of (config, filesystem contents) plus the one report file
// it writes.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/prompteval/driftreport/internal/aggregate"
	"github.com/prompteval/driftreport/internal/discovery"
	"github.com/prompteval/driftreport/internal/metrics"
	"github.com/prompteval/driftreport/internal/projectconfig"
	"github.com/prompteval/driftreport/internal/records"
	"github.com/prompteval/driftreport/internal/report"
	"github.com/prompteval/driftreport/internal/warnings"
)

// ErrNoArtifacts indicates the results root exists but holds no artifact
// with the dialect's filename. Distinct from a missing root, and fatal
// before any output: an empty report would hide the real problem.
var ErrNoArtifacts = errors.New("no result artifacts found")

// ErrNoUsableRecords indicates artifacts were found but every one of them
// was skipped as defective.
var ErrNoUsableRecords = errors.New("no usable records in any artifact")

// Run carries everything one report generation needs.
type Run struct {
	Config     *projectconfig.Config
	Dialect    records.Dialect
	Warnings   *warnings.Sink
	OpenViewer bool

	// Now supplies the report timestamp; tests pin it for byte-identical
	// output. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes a completed run for the caller's console output.
type Result struct {
	ReportPath string
	Groups     []aggregate.Group
	Cards      []aggregate.HeadlineCard
	Warnings   []warnings.Warning
}

// Execute performs one full report generation. Per-record faults are
// recorded in the warning sink and never abort the batch; only startup
// faults (missing root, zero artifacts, zero usable records) return an
// error, always before the report file is touched.
func Execute(run *Run) (*Result, error) {
	if run.Now == nil {
		run.Now = time.Now
	}
	d := run.Dialect

	searchRoot := filepath.Join(run.Config.ResultsDir, d.Subtree())
	paths, err := discovery.Discover(searchRoot, d.ArtifactName())
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no %s under %s", ErrNoArtifacts, d.ArtifactName(), searchRoot)
	}

	groups := buildGroups(run, paths)
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: checked %d artifact(s) under %s", ErrNoUsableRecords, len(paths), searchRoot)
	}

	// Headline ranking first: ties break on the aggregator's
	// first-encounter order, not the presentation sort.
	cards := aggregate.Cards(d, groups)
	aggregate.SortForReport(groups, aggregate.PrimaryMetric(d))

	doc := report.Document{
		Dialect:     d,
		GeneratedAt: run.Now(),
		Cards:       cards,
		Groups:      groups,
		Warnings:    run.Warnings.Items(),
	}
	html, err := report.Render(doc)
	if err != nil {
		return nil, err
	}

	path, err := report.Publish(run.Config.ResultsDir, d, html, run.OpenViewer)
	if err != nil {
		return nil, err
	}

	return &Result{
		ReportPath: path,
		Groups:     groups,
		Cards:      cards,
		Warnings:   run.Warnings.Items(),
	}, nil
}

// buildGroups runs the dialect-specific load, derive, and aggregate stages.
func buildGroups(run *Run, paths []string) []aggregate.Group {
	switch run.Dialect {
	case records.DialectConsistency:
		recs := records.LoadConsistency(paths, run.Warnings)
		canonical, ok := metrics.CanonicalBaseline(recs, run.Warnings)
		if !ok {
			return nil
		}
		recs = metrics.DeriveConsistency(recs, canonical, run.Warnings)
		return aggregate.Collect(recs, aggregate.TrackedMetrics(run.Dialect))

	case records.DialectMultistage:
		recs := records.LoadMultistage(paths, run.Warnings)
		recs = metrics.DeriveMultistage(recs, run.Warnings)
		return aggregate.Collect(recs, aggregate.TrackedMetrics(run.Dialect))

	case records.DialectComparison:
		// The pre-aggregated dialect is one artifact describing the whole
		// run set. Extra copies are ignored with a warning; discovery's
		// sort makes the chosen one deterministic.
		if len(paths) > 1 {
			run.Warnings.Add(paths[1], "ignoring %d extra %s file(s); using %s",
				len(paths)-1, run.Dialect.ArtifactName(), paths[0])
		}
		entries := records.LoadComparison(paths[0], run.Warnings)
		return aggregate.FromSummaries(entries)
	}
	return nil
}
