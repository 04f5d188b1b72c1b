package footer

import (
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

const (
	flagHasDType uint8 = 1 << iota
	flagHasStats
)

// Postscript is the small trailer that points at the dtype, stats, and
// layout segments within the file footer. DType and Stats are optional:
// a file whose dtype is supplied out-of-band, or that carries no computed
// file-level statistics, omits them.
type Postscript struct {
	DType  *SegmentRef
	Stats  *SegmentRef
	Layout SegmentRef
}

// Bytes encodes ps using engine's byte order.
func (ps Postscript) Bytes(engine endian.EndianEngine) []byte {
	var flags uint8
	if ps.DType != nil {
		flags |= flagHasDType
	}
	if ps.Stats != nil {
		flags |= flagHasStats
	}

	b := make([]byte, 0, 1+3*SegmentRefSize)
	b = append(b, flags)

	if ps.DType != nil {
		b = append(b, ps.DType.Bytes(engine)...)
	}
	if ps.Stats != nil {
		b = append(b, ps.Stats.Bytes(engine)...)
	}
	b = append(b, ps.Layout.Bytes(engine)...)

	return b
}

// ParsePostscript decodes a Postscript from data.
func ParsePostscript(data []byte, engine endian.EndianEngine) (Postscript, error) {
	if len(data) < 1 {
		return Postscript{}, errs.New(errs.KindInvalidSerde, "footer: postscript requires at least 1 byte, got 0")
	}

	flags := data[0]
	rest := data[1:]

	var ps Postscript

	if flags&flagHasDType != 0 {
		ref, err := ParseSegmentRef(rest, engine)
		if err != nil {
			return Postscript{}, errs.Wrap(err, errs.KindInvalidSerde, "footer: parsing postscript dtype ref")
		}
		ps.DType = &ref
		rest = rest[SegmentRefSize:]
	}

	if flags&flagHasStats != 0 {
		ref, err := ParseSegmentRef(rest, engine)
		if err != nil {
			return Postscript{}, errs.Wrap(err, errs.KindInvalidSerde, "footer: parsing postscript stats ref")
		}
		ps.Stats = &ref
		rest = rest[SegmentRefSize:]
	}

	layout, err := ParseSegmentRef(rest, engine)
	if err != nil {
		return Postscript{}, errs.Wrap(err, errs.KindInvalidSerde, "footer: parsing postscript layout ref")
	}
	ps.Layout = layout

	return ps, nil
}
