package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricMorphsTotal     = "morphlex.morphs.total"
	metricMorphDuration   = "morphlex.morph.duration.seconds"
	metricMorphErrors     = "morphlex.morph.errors.total"
	metricInflightMorphs  = "morphlex.inflight.morphs"
	metricNodesAdded      = "morphlex.nodes.added.total"
	metricNodesRemoved    = "morphlex.nodes.removed.total"
	metricAttributesTouch = "morphlex.attributes.updated.total"

	attrOp     = "op"
	attrStatus = "status"

	statusError = "error"
)

// durationBucketBoundaries covers 100us to 10s, the range a morph call over
// a single DOM subtree or source file is expected to fall into.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// MorphMetrics holds the OTel instruments recording morph-call rate, error,
// and duration (RED) plus the structural edit counters morphreport also
// tracks locally, so the same numbers are visible both in a CLI report and
// in a Prometheus/OTLP backend.
type MorphMetrics struct {
	morphsTotal       metric.Int64Counter
	morphDuration     metric.Float64Histogram
	morphErrors       metric.Int64Counter
	inflightMorphs    metric.Int64UpDownCounter
	nodesAdded        metric.Int64Counter
	nodesRemoved      metric.Int64Counter
	attributesUpdated metric.Int64Counter
}

// NewMorphMetrics creates the morph-call instrument set from the given meter.
func NewMorphMetrics(mt metric.Meter) (*MorphMetrics, error) {
	b := newMetricBuilder(mt)

	mm := &MorphMetrics{
		morphsTotal:       b.counter(metricMorphsTotal, "Total number of morph calls", "{morph}"),
		morphDuration:     b.histogram(metricMorphDuration, "Morph call duration in seconds", "s", durationBucketBoundaries...),
		morphErrors:       b.counter(metricMorphErrors, "Total number of failed morph calls", "{error}"),
		inflightMorphs:    b.upDownCounter(metricInflightMorphs, "Number of in-flight morph calls", "{morph}"),
		nodesAdded:        b.counter(metricNodesAdded, "Total nodes inserted across all morph calls", "{node}"),
		nodesRemoved:      b.counter(metricNodesRemoved, "Total nodes removed across all morph calls", "{node}"),
		attributesUpdated: b.counter(metricAttributesTouch, "Total attribute updates across all morph calls", "{attribute}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return mm, nil
}

// RecordMorph records a completed morph call with its entry point (op,
// e.g. "Morph"/"MorphInner"/"MorphDocument"), outcome status, and duration.
func (mm *MorphMetrics) RecordMorph(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	mm.morphsTotal.Add(ctx, 1, attrs)
	mm.morphDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		mm.morphErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// RecordEdits adds a morph call's structural edit counts to the cumulative
// instruments.
func (mm *MorphMetrics) RecordEdits(ctx context.Context, op string, added, removed, attrsUpdated int64) {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))

	if added > 0 {
		mm.nodesAdded.Add(ctx, added, attrs)
	}

	if removed > 0 {
		mm.nodesRemoved.Add(ctx, removed, attrs)
	}

	if attrsUpdated > 0 {
		mm.attributesUpdated.Add(ctx, attrsUpdated, attrs)
	}
}

// TrackInflight increments the in-flight gauge and returns a function to
// decrement it, intended to be deferred around a single morph call.
func (mm *MorphMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	mm.inflightMorphs.Add(ctx, 1, attrs)

	return func() {
		mm.inflightMorphs.Add(ctx, -1, attrs)
	}
}
