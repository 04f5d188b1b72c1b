package pool

import "sync"

// slicePool pools slices of a fixed element type T to reduce allocations.
type slicePool[T any] struct {
	pool sync.Pool
}

func newSlicePool[T any]() *slicePool[T] {
	return &slicePool[T]{
		pool: sync.Pool{
			New: func() any { s := []T{}; return &s },
		},
	}
}

// Get returns a slice of exactly the requested length, reusing pooled
// backing storage when its capacity suffices. The caller must invoke the
// returned cleanup function (typically via defer) to return the slice.
func (p *slicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	s := (*ptr)[:0]

	if cap(s) < size {
		s = make([]T, size)
	} else {
		s = s[:size]
	}
	*ptr = s

	return s, func() { p.pool.Put(ptr) }
}

var (
	int64Pool   = newSlicePool[int64]()
	float64Pool = newSlicePool[float64]()
	uint64Pool  = newSlicePool[uint64]()
	stringPool  = newSlicePool[string]()
	boolPool    = newSlicePool[bool]()
)

// GetInt64Slice retrieves and resizes an int64 slice from the pool.
func GetInt64Slice(size int) ([]int64, func()) { return int64Pool.Get(size) }

// GetFloat64Slice retrieves and resizes a float64 slice from the pool.
func GetFloat64Slice(size int) ([]float64, func()) { return float64Pool.Get(size) }

// GetUint64Slice retrieves and resizes a uint64 slice from the pool.
func GetUint64Slice(size int) ([]uint64, func()) { return uint64Pool.Get(size) }

// GetStringSlice retrieves and resizes a string slice from the pool.
func GetStringSlice(size int) ([]string, func()) { return stringPool.Get(size) }

// GetBoolSlice retrieves and resizes a bool slice from the pool.
func GetBoolSlice(size int) ([]bool, func()) { return boolPool.Get(size) }
