// Package morphreport renders the outcome of a morph call for humans: a
// colored textual diff of the rendered markup, a summary table of the
// structural edits morphlex performed, and an HTML bar chart of one call's
// edit counts.
package morphreport

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/morphlex/morphlex/pkg/morphlex"
	"github.com/morphlex/morphlex/pkg/morphnode"
)

// Stats accumulates the structural edits a single morph call performed.
// Every counter is updated through the atomic ops so a Recorder's hooks may
// safely be shared across a morph driven by concurrent callers.
type Stats struct {
	NodesVisited      atomic.Int64
	NodesAdded        atomic.Int64
	NodesRemoved      atomic.Int64
	AttributesUpdated atomic.Int64
	ChildrenVisited   atomic.Int64
}

// Snapshot is a point-in-time, non-atomic copy of Stats suitable for
// rendering.
type Snapshot struct {
	NodesVisited      int64
	NodesAdded        int64
	NodesRemoved      int64
	AttributesUpdated int64
	ChildrenVisited   int64
}

// Snapshot copies s's current counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		NodesVisited:      s.NodesVisited.Load(),
		NodesAdded:        s.NodesAdded.Load(),
		NodesRemoved:      s.NodesRemoved.Load(),
		AttributesUpdated: s.AttributesUpdated.Load(),
		ChildrenVisited:   s.ChildrenVisited.Load(),
	}
}

// Recorder wraps a morphlex.Options with counting hooks, composing with any
// caller-supplied callbacks rather than replacing them.
type Recorder struct {
	Stats Stats
	base  *morphlex.Options
}

// NewRecorder returns a Recorder that counts edits performed by a morph
// call using Options(). base may be nil.
func NewRecorder(base *morphlex.Options) *Recorder {
	return &Recorder{base: base}
}

// Options returns a morphlex.Options that counts edits and still invokes
// any hooks the wrapped base Options defined.
func (r *Recorder) Options() *morphlex.Options {
	opts := &morphlex.Options{}
	if r.base != nil {
		*opts = *r.base
	}

	innerVisited := opts.AfterNodeVisited
	opts.AfterNodeVisited = func(from, to *morphnode.Node) {
		r.Stats.NodesVisited.Add(1)
		if innerVisited != nil {
			innerVisited(from, to)
		}
	}

	innerAdded := opts.AfterNodeAdded
	opts.AfterNodeAdded = func(node *morphnode.Node) {
		r.Stats.NodesAdded.Add(1)
		if innerAdded != nil {
			innerAdded(node)
		}
	}

	innerRemoved := opts.AfterNodeRemoved
	opts.AfterNodeRemoved = func(node *morphnode.Node) {
		r.Stats.NodesRemoved.Add(1)
		if innerRemoved != nil {
			innerRemoved(node)
		}
	}

	innerAttr := opts.AfterAttributeUpdated
	opts.AfterAttributeUpdated = func(element *morphnode.Node, name string, previous *string) {
		r.Stats.AttributesUpdated.Add(1)
		if innerAttr != nil {
			innerAttr(element, name, previous)
		}
	}

	innerChildren := opts.AfterChildrenVisited
	opts.AfterChildrenVisited = func(parent *morphnode.Node) {
		r.Stats.ChildrenVisited.Add(1)
		if innerChildren != nil {
			innerChildren(parent)
		}
	}

	return opts
}

// TextDiff renders a colored, line-oriented diff between two markup
// strings: green for inserted text, red for deleted text, plain for
// unchanged context.
func TextDiff(before, after string) string {
	dmp := diffmatchpatch.New()

	src, dst, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(src, dst, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString(color.New(color.FgGreen).Sprint(prefixLines("+ ", d.Text)))
		case diffmatchpatch.DiffDelete:
			b.WriteString(color.New(color.FgRed).Sprint(prefixLines("- ", d.Text)))
		case diffmatchpatch.DiffEqual:
			b.WriteString(prefixLines("  ", d.Text))
		}
	}

	return b.String()
}

func prefixLines(prefix, text string) string {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n") + "\n"
}

// SummaryTable renders s as an aligned table: edit kind, count, and a
// human-readable share of the total edit volume.
func SummaryTable(s Snapshot) string {
	total := s.NodesAdded + s.NodesRemoved + s.AttributesUpdated
	if total == 0 {
		total = 1
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Edit", "Count", "Share"})
	t.AppendRows([]table.Row{
		{"nodes visited", s.NodesVisited, "-"},
		{"nodes added", s.NodesAdded, percent(s.NodesAdded, total)},
		{"nodes removed", s.NodesRemoved, percent(s.NodesRemoved, total)},
		{"attributes updated", s.AttributesUpdated, percent(s.AttributesUpdated, total)},
		{"children lists reconciled", s.ChildrenVisited, "-"},
	})

	return t.Render()
}

func percent(n, total int64) string {
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100) //nolint:mnd // percentage scale
}

// MarkupSizeSummary reports the human-readable rendered size of before and
// after, useful for judging whether a morph's edit count is proportionate
// to the amount of markup involved.
func MarkupSizeSummary(before, after string) string {
	return fmt.Sprintf(
		"before: %s, after: %s",
		humanize.Bytes(uint64(len(before))), //nolint:gosec // len() is never negative
		humanize.Bytes(uint64(len(after))),  //nolint:gosec // len() is never negative
	)
}

// WriteTrendChart writes an HTML bar chart of the single snapshot s to path,
// one bar per edit kind, with label as the chart subtitle. An existing file
// at path is overwritten; data from earlier calls is not kept.
func WriteTrendChart(path, label string, s Snapshot) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "morphlex edit summary", Subtitle: label}),
	)

	bar.SetXAxis([]string{"added", "removed", "attrs updated"}).
		AddSeries("edits", []opts.BarData{
			{Value: s.NodesAdded},
			{Value: s.NodesRemoved},
			{Value: s.AttributesUpdated},
		})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("morphreport: create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("morphreport: render chart: %w", err)
	}

	return nil
}
