package array

// EncodedSize returns the total number of physical bytes a holds: its own
// buffers plus every child's buffers, recursively. This is the "as
// written" size the sampling compressor measures a candidate encoding
// against, independent of any segment-level byte compression layered on
// top later.
func EncodedSize(a Array) int {
	n := len(a.Metadata)
	for _, b := range a.Buffers {
		n += len(b.Data)
	}
	for _, c := range a.Children {
		n += EncodedSize(c)
	}

	return n
}

// UncompressedSize estimates the logical, encoding-independent byte size
// of a's canonical representation: one of spec.md §4.2's optional compute
// hooks, used by the sampling compressor (§4.5) as the denominator of its
// compression ratio.
func UncompressedSize(a Array) (int, error) {
	c, err := Canonicalize(a)
	if err != nil {
		return 0, err
	}

	return canonicalUncompressedSize(c), nil
}

func canonicalUncompressedSize(c Canonical) int {
	size := (c.Length + 7) / 8 // validity bitmap, packed

	switch c.Kind {
	case CanonicalBool:
		size += (len(c.Bools) + 7) / 8
	case CanonicalPrimitive:
		size += len(c.Ints)*8 + len(c.Uints)*8 + len(c.Floats)*8
	case CanonicalDecimal:
		size += len(c.Decimal) * 16
	case CanonicalVarBinView:
		for _, buf := range c.DataBufs {
			size += len(buf)
		}
		size += len(c.Views) * 16
	case CanonicalStruct:
		for _, fc := range c.StructFlds {
			size += canonicalUncompressedSize(fc)
		}
	case CanonicalList:
		size += len(c.ListOffsets) * 8
		size += canonicalUncompressedSize(*c.ListElements)
	case CanonicalExtension:
		if c.ExtStorage != nil {
			size += canonicalUncompressedSize(*c.ExtStorage)
		}
	}

	return size
}
