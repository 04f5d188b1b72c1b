package scan

// Config tunes one Scanner: how many splits may be in flight at once, and
// the row-density threshold below which a conjunct is evaluated only over
// the surviving rows instead of the whole split (spec.md §4.8's "push the
// mask down" rule).
type Config struct {
	Concurrency          int
	SelectivityThreshold float64
}

// DefaultConfig matches the values used throughout this package's tests:
// four splits in flight, and pushdown once fewer than 5% of a split's rows
// remain candidates.
func DefaultConfig() Config {
	return Config{Concurrency: 4, SelectivityThreshold: 0.05}
}
