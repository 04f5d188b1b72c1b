// Package array implements the polymorphic Array abstraction (C4): a
// logical DType paired with one of dozens of physical encodings behind a
// per-encoding vtable, plus the canonicalization and compute dispatch (C6)
// that let every encoding interoperate through a small set of kernels.
package array

import (
	"sync"

	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/stats"
)

// EncodingID identifies a registered Vtable, stored as the first field of
// every on-disk Array tuple (spec.md §3).
type EncodingID uint16

// Array is the tuple spec.md §3 defines: an encoding id, its logical DType,
// length, opaque per-encoding metadata, a fixed number of buffers and
// children (declared by the vtable), and a partially-populated statistics
// cache.
type Array struct {
	EncodingID EncodingID
	DType      dtype.DType
	Length     int
	Metadata   []byte
	Buffers    []Buf
	Children   []Array
	Stats      stats.StatsSet
}

// Buf is the buffer slot inside an Array; kept as a thin alias so array
// doesn't force every caller to import buffer directly for the common case
// of passing raw bytes.
type Buf struct {
	Data      []byte
	Alignment int
}

// Vtable is the per-encoding behavior table every encoding registers.
// Encodings live in package `encoding`; this interface is the seam between
// the generic array/compute machinery and each encoding's physical layout.
type Vtable interface {
	// ID returns the EncodingID this vtable is registered under.
	ID() EncodingID
	// Name is a short human-readable encoding name, used in error messages
	// and the sampling compressor's diagnostics.
	Name() string
	// NumBuffers and NumChildren declare the fixed shape this encoding
	// requires the Array to have, so a malformed Array can be rejected at
	// construction rather than deep inside a compute kernel.
	NumBuffers() int
	NumChildren() int
	// ChildDType returns the logical DType of child i given the array's own
	// DType and opaque metadata.
	ChildDType(a Array, i int) (dtype.DType, error)
	// Canonicalize decodes a into one of the Canonical forms.
	Canonicalize(a Array) (Canonical, error)
	// ScalarAt returns the logical value at index i without necessarily
	// canonicalizing the whole array; encodings that have no cheaper path
	// return errs.ErrNotImplemented so the generic fallback canonicalizes.
	ScalarAt(a Array, i int) (Canonical, bool, error)
	// Slice returns the sub-array [start, end) re-expressed in the same
	// encoding when cheap (e.g. adjusting an offset), or
	// errs.ErrNotImplemented to fall back to canonical slicing.
	Slice(a Array, start, end int) (Array, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[EncodingID]Vtable)
)

// Register installs v under its own ID. Called from encoding package
// init()s; registration happens once at program start and is read-only
// afterward, so lookups need no locking discipline beyond RWMutex's cheap
// read path.
func Register(v Vtable) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[v.ID()] = v
}

// Lookup returns the Vtable registered for id.
func Lookup(id EncodingID) (Vtable, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	v, ok := registry[id]
	if !ok {
		return nil, errs.New(errs.KindInvalidSerde, "array: no vtable registered for encoding id %d", id)
	}

	return v, nil
}

// New constructs an Array and validates its buffer/child/length invariants
// against the registered vtable's declared shape.
func New(id EncodingID, dt dtype.DType, length int, metadata []byte, buffers []Buf, children []Array) (Array, error) {
	v, err := Lookup(id)
	if err != nil {
		return Array{}, err
	}

	if len(buffers) != v.NumBuffers() {
		return Array{}, errs.New(errs.KindInvalidArgument, "array: encoding %s requires %d buffers, got %d", v.Name(), v.NumBuffers(), len(buffers))
	}

	if len(children) != v.NumChildren() {
		return Array{}, errs.New(errs.KindInvalidArgument, "array: encoding %s requires %d children, got %d", v.Name(), v.NumChildren(), len(children))
	}

	if length < 0 {
		return Array{}, errs.New(errs.KindInvalidArgument, "array: negative length %d", length)
	}

	for i, c := range children {
		want, err := v.ChildDType(Array{EncodingID: id, DType: dt, Length: length, Metadata: metadata}, i)
		if err != nil {
			return Array{}, err
		}
		if !c.DType.EqualIgnoreNullable(want) {
			return Array{}, errs.New(errs.KindMismatchedTypes, "array: encoding %s child %d dtype mismatch: want %s, got %s", v.Name(), i, want, c.DType)
		}
	}

	built := Array{
		EncodingID: id,
		DType:      dt,
		Length:     length,
		Metadata:   metadata,
		Buffers:    buffers,
		Children:   children,
	}

	// Stats are an eagerly computed cache, not a correctness requirement:
	// a failure to canonicalize here (e.g. a partially-built array passed
	// to a constructor that post-processes its buffers afterward) just
	// leaves Stats at its zero value rather than failing construction.
	if s, err := computeStats(v, built); err == nil {
		built.Stats = s
	}

	return built, nil
}

// Vtable returns the registered Vtable for a's encoding.
func (a Array) Vtable() (Vtable, error) {
	return Lookup(a.EncodingID)
}

// WithStats returns a copy of a with its StatsSet replaced. Arrays are
// immutable after construction (spec.md §3 lifecycle), so statistics are
// attached by producing a new value rather than mutating in place.
func (a Array) WithStats(s stats.StatsSet) Array {
	a.Stats = s
	return a
}

// IsNullable reports whether a's DType permits null values.
func (a Array) IsNullable() bool { return a.DType.Nullable }
