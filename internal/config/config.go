// Package config loads and validates morphlex's CLI configuration: cache
// sizing, the set of source languages to recognize, and observability
// export settings.
package config

import (
	"errors"

	"github.com/morphlex/morphlex/pkg/morphsrc"
)

// Config is the top-level configuration struct for the morphlex CLI.
// Field tags use mapstructure for viper unmarshalling and json for schema
// validation against Schema.
type Config struct {
	Cache         CacheConfig         `mapstructure:"cache"         json:"cache"`
	Source        SourceConfig        `mapstructure:"source"        json:"source"`
	Report        ReportConfig        `mapstructure:"report"        json:"report"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
}

// CacheConfig holds reference-tree cache sizing.
type CacheConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes" json:"max_size_bytes"`
}

// SourceConfig controls source-tree parsing via morphsrc.
type SourceConfig struct {
	Languages []string `mapstructure:"languages" json:"languages"`
}

// ReportConfig controls morphreport output.
type ReportConfig struct {
	Color     bool   `mapstructure:"color"      json:"color"`
	ChartPath string `mapstructure:"chart_path" json:"chart_path"`
}

// ObservabilityConfig mirrors the fields of observability.Config that are
// exposed to file/env configuration.
type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure" json:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"  json:"sample_ratio"`
	TraceVerbose bool    `mapstructure:"trace_verbose" json:"trace_verbose"`
	LogJSON      bool    `mapstructure:"log_json"      json:"log_json"`
}

// Sentinel validation errors.
var (
	ErrInvalidCacheSize    = errors.New("cache.max_size_bytes must be non-negative")
	ErrInvalidSampleRatio  = errors.New("observability.sample_ratio must be between 0 and 1")
	ErrUnsupportedLanguage = errors.New("source.languages contains an unsupported language")
)

const maxSampleRatio = 1.0

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Cache.MaxSizeBytes < 0 {
		return ErrInvalidCacheSize
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > maxSampleRatio {
		return ErrInvalidSampleRatio
	}

	for _, lang := range c.Source.Languages {
		if !morphsrc.SupportsLanguage(lang) {
			return ErrUnsupportedLanguage
		}
	}

	return nil
}
