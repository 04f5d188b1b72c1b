package layout

import (
	"math"

	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/scalar"
)

func floatBits(v float64) uint64 { return math.Float64bits(v) }
func bitsFloat(v uint64) float64 { return math.Float64frombits(v) }

// encodeScalarValue serializes s's raw value (not its DType, which the
// zone map's caller already knows) into a fixed or length-prefixed
// encoding depending on dt.Kind. Only the kinds a zone map can usefully
// bound are supported; struct/list/extension columns are not zoned.
func encodeScalarValue(s scalar.Scalar, dt dtype.DType, engine endian.EndianEngine) ([]byte, error) {
	switch dt.Kind {
	case dtype.KindBool:
		v, err := s.AsBool()
		if err != nil {
			return nil, err
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case dtype.KindPrimitive:
		switch dt.PType {
		case dtype.PTypeF32, dtype.PTypeF64:
			v, err := s.AsFloat64()
			if err != nil {
				return nil, err
			}
			return engine.AppendUint64(nil, floatBits(v)), nil
		case dtype.PTypeU8, dtype.PTypeU16, dtype.PTypeU32, dtype.PTypeU64:
			v, err := s.AsUint64()
			if err != nil {
				return nil, err
			}
			return engine.AppendUint64(nil, v), nil
		default:
			v, err := s.AsInt64()
			if err != nil {
				return nil, err
			}
			return engine.AppendUint64(nil, uint64(v)), nil
		}

	case dtype.KindUtf8:
		v, err := s.AsString()
		if err != nil {
			return nil, err
		}
		b := engine.AppendUint32(nil, uint32(len(v)))
		return append(b, v...), nil

	case dtype.KindBinary:
		v, err := s.AsBytes()
		if err != nil {
			return nil, err
		}
		b := engine.AppendUint32(nil, uint32(len(v)))
		return append(b, v...), nil

	default:
		return nil, errs.New(errs.KindNotImplemented, "layout: zone map does not support dtype kind %s", dt.Kind)
	}
}

// decodeScalarValue is encodeScalarValue's inverse; it returns the decoded
// Scalar and the number of bytes consumed from data.
func decodeScalarValue(data []byte, dt dtype.DType, engine endian.EndianEngine) (scalar.Scalar, int, error) {
	switch dt.Kind {
	case dtype.KindBool:
		if len(data) < 1 {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map bool value truncated")
		}
		return scalar.Bool(data[0] != 0), 1, nil

	case dtype.KindPrimitive:
		if len(data) < 8 {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map numeric value truncated")
		}
		raw := engine.Uint64(data[:8])
		switch dt.PType {
		case dtype.PTypeF32, dtype.PTypeF64:
			return scalar.Float64(bitsFloat(raw)), 8, nil
		case dtype.PTypeU8, dtype.PTypeU16, dtype.PTypeU32, dtype.PTypeU64:
			return scalar.Uint64(raw), 8, nil
		default:
			return scalar.Int64(int64(raw)), 8, nil
		}

	case dtype.KindUtf8:
		if len(data) < 4 {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map string length truncated")
		}
		n := int(engine.Uint32(data[:4]))
		if len(data) < 4+n {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map string value truncated")
		}
		return scalar.Utf8(string(data[4 : 4+n])), 4 + n, nil

	case dtype.KindBinary:
		if len(data) < 4 {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map binary length truncated")
		}
		n := int(engine.Uint32(data[:4]))
		if len(data) < 4+n {
			return scalar.Scalar{}, 0, errs.New(errs.KindInvalidSerde, "layout: zone map binary value truncated")
		}
		out := make([]byte, n)
		copy(out, data[4:4+n])
		return scalar.Binary(out), 4 + n, nil

	default:
		return scalar.Scalar{}, 0, errs.New(errs.KindNotImplemented, "layout: zone map does not support dtype kind %s", dt.Kind)
	}
}
