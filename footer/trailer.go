package footer

import (
	"bytes"

	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
)

// BuildTrailer encodes ps followed by the version, postscript length, and
// magic number, ready to be appended as the last bytes of a vtx file.
func BuildTrailer(ps Postscript, engine endian.EndianEngine) ([]byte, error) {
	psBytes := ps.Bytes(engine)
	if len(psBytes) > MaxFooterSize {
		return nil, errs.New(errs.KindInvalidArgument, "footer: postscript of %d bytes exceeds MAX_FOOTER_SIZE %d", len(psBytes), MaxFooterSize)
	}

	out := make([]byte, 0, len(psBytes)+EOFSize)
	out = append(out, psBytes...)
	out = engine.AppendUint16(out, Version)
	out = engine.AppendUint16(out, uint16(len(psBytes)))
	out = append(out, Magic[:]...)

	return out, nil
}

// ParseTrailer reads a vtx footer out of tail, the trailing bytes of a
// file (at minimum its last EOFSize+MAX_FOOTER_SIZE bytes, bounded by file
// size, per spec). It validates the magic number and version before
// decoding the postscript.
func ParseTrailer(tail []byte, engine endian.EndianEngine) (Postscript, error) {
	n := len(tail)
	if n < EOFSize {
		return Postscript{}, errs.New(errs.KindInvalidSerde, "footer: trailer requires at least %d bytes, got %d", EOFSize, n)
	}

	magic := tail[n-4:]
	if !bytes.Equal(magic, Magic[:]) {
		return Postscript{}, errs.New(errs.KindInvalidSerde, "footer: bad magic number %x, expected %x", magic, Magic)
	}

	version := engine.Uint16(tail[n-6 : n-4])
	if version != Version {
		return Postscript{}, errs.New(errs.KindInvalidSerde, "footer: unsupported version %d, expected %d", version, Version)
	}

	psLen := int(engine.Uint16(tail[n-8 : n-6]))
	if psLen > n-EOFSize {
		return Postscript{}, errs.New(errs.KindInvalidSerde, "footer: postscript length %d exceeds available trailer bytes %d", psLen, n-EOFSize)
	}

	psStart := n - EOFSize - psLen
	ps, err := ParsePostscript(tail[psStart:psStart+psLen], engine)
	if err != nil {
		return Postscript{}, err
	}

	return ps, nil
}
