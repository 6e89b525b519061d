package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCacheHits   = "morphlex.cache.hits"
	metricCacheMisses = "morphlex.cache.misses"
)

// CacheStatsProvider exposes cache hit/miss counters for OTel export. A
// pkg/morphcache.TreeCache satisfies this via its CacheHits and CacheMisses
// methods.
type CacheStatsProvider interface {
	CacheHits() int64
	CacheMisses() int64
}

// RegisterCacheMetrics registers observable gauges that report hit/miss
// counters from the named cache providers. Callers may register more than
// one cache (e.g. a reference-tree cache and a parsed-source cache) under
// distinct names; any provider may be nil and is skipped.
func RegisterCacheMetrics(mt metric.Meter, providers map[string]CacheStatsProvider) error {
	active := make(map[string]CacheStatsProvider, len(providers))

	for name, p := range providers {
		if p != nil {
			active[name] = p
		}
	}

	if len(active) == 0 {
		return nil
	}

	_, err := mt.Int64ObservableGauge(metricCacheHits,
		metric.WithDescription("Cache hit count"),
		metric.WithUnit("{hit}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for name, p := range active {
				o.Observe(p.CacheHits(), metric.WithAttributes(attribute.String("cache", name)))
			}

			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheHits, err)
	}

	_, err = mt.Int64ObservableGauge(metricCacheMisses,
		metric.WithDescription("Cache miss count"),
		metric.WithUnit("{miss}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			for name, p := range active {
				o.Observe(p.CacheMisses(), metric.WithAttributes(attribute.String("cache", name)))
			}

			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", metricCacheMisses, err)
	}

	return nil
}
