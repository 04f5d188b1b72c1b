// Package layout implements the on-disk layout tree (C10): the recursive
// plan that tells a reader where an array's rows live without touching
// the array package's encoding vtables directly. A Layout names a segment
// range per node, nests child layouts the way its source array nested
// children, and leaves the logical DType to be supplied by the caller
// (derived from the parent, per spec.md §3's layout tree definition).
//
// Grounded on blob.NumericEncoder's incremental Start/Add/End/Finish
// state machine for the writer side and blob.NumericDecoder's
// parse-header-then-lazily-decompress-payload pattern for the reader
// side, adapted from a fixed two-column metric blob to an arbitrary
// array tree.
package layout

// ID identifies which of the four layout shapes a node is.
type ID uint8

const (
	// IDFlat stores a single contiguous encoded array as one segment.
	IDFlat ID = iota + 1
	// IDChunked sequences child layouts, one per chunk, plus a metadata
	// table of chunk row offsets.
	IDChunked
	// IDStruct holds one child layout per field.
	IDStruct
	// IDZoned wraps a data layout with a sibling zone-map layout carrying
	// per-block statistics for pruning.
	IDZoned
)

func (id ID) String() string {
	switch id {
	case IDFlat:
		return "flat"
	case IDChunked:
		return "chunked"
	case IDStruct:
		return "struct"
	case IDZoned:
		return "zoned"
	default:
		return "unknown"
	}
}

// Layout is the recursive read plan spec.md §3 defines for a node:
// an encoding kind, a row count, the segment ids holding this node's own
// data, nested child layouts, and opaque per-layout metadata. DType is
// deliberately absent: it is derived top-down from the caller's schema,
// never stored.
type Layout struct {
	Encoding ID
	RowCount uint64
	Segments []uint32
	Children []Layout
	Metadata []byte
}

