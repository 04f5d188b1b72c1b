// Package compressor implements the sampling compressor (C8): given an
// array, it searches a set of candidate encodings over stratified samples
// and picks the one that scores best under a pluggable objective,
// recursing into child arrays up to a configured cascade depth.
//
// Grounded on the teacher's NumericEncoder state machine: Start/Add/End
// accumulates data, and exactly one decision (which codec to finalize
// with) is made once, at Finish time. The sampling compressor applies the
// same shape to picking an encoding cascade instead of a byte codec.
package compressor

import "github.com/vtxfmt/vtx/internal/options"

// DefaultMaxDepth bounds dictionary-of-struct / list-of-list style cascade
// recursion. Children of an array at this depth are not searched further;
// they keep the encoding the winning candidate gave them.
const DefaultMaxDepth = 3

// Config configures a Compressor's search.
type Config struct {
	// SampleSize is the row count of one stratum (s in spec.md §4.5).
	SampleSize int
	// SampleCount is the number of strata sampled (k in spec.md §4.5).
	SampleCount int
	// MaxDepth bounds cascade recursion into child arrays.
	MaxDepth int
	// Seed seeds the math/rand source the stratified sampler uses to pick
	// each stratum's window, so the same array and seed always compress to
	// the same cascade.
	Seed int64
	// Objective scores a candidate; lower is better. Defaults to
	// DefaultObjective.
	Objective Objective
}

// DefaultConfig returns the configuration the package uses when none is
// supplied explicitly.
func DefaultConfig() Config {
	return Config{
		SampleSize:  1024,
		SampleCount: 8,
		MaxDepth:    DefaultMaxDepth,
		Seed:        0,
		Objective:   DefaultObjective,
	}
}

// ConfigOption mutates a Config, following the teacher's generic
// functional-options pattern (internal/options).
type ConfigOption = options.Option[*Config]

func WithSampleSize(n int) ConfigOption {
	return options.NoError(func(c *Config) { c.SampleSize = n })
}

func WithSampleCount(n int) ConfigOption {
	return options.NoError(func(c *Config) { c.SampleCount = n })
}

func WithMaxDepth(n int) ConfigOption {
	return options.NoError(func(c *Config) { c.MaxDepth = n })
}

func WithSeed(seed int64) ConfigOption {
	return options.NoError(func(c *Config) { c.Seed = seed })
}

func WithObjective(o Objective) ConfigOption {
	return options.NoError(func(c *Config) { c.Objective = o })
}

// NewConfig builds a Config from DefaultConfig plus opts.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
