// Package vtx provides a columnar, zone-mapped binary array and file
// format built for scan-heavy analytical workloads: many columns, few
// passes, aggressive pruning before a single byte of non-matching data
// is read.
//
// # Core Features
//
//   - A logical DType algebra (Null, Bool, Primitive, Decimal, Utf8,
//     Binary, List, Struct, Extension) decoupled from physical encoding
//   - An encoding cascade (constant, dictionary, run-end, bit-packed,
//     ALP, FSST and others) chosen per column
//   - A recursive layout tree describing where a file's rows live,
//     without touching any array's encoding vtables directly
//   - Zone-map pruning: skip whole blocks a filter provably cannot match
//   - A concurrent scan engine that prunes, filters, and projects while
//     streaming results back in file order
//
// # Basic Usage
//
// Writing an array to a file and reading it back:
//
//	ints, _ := encoding.NewPrimitive(dtype.PTypeI64, false, 3, []int64{1, 2, 3}, nil, nil, array.AllValid())
//	dt := dtype.Primitive(dtype.PTypeI64, false)
//
//	data, err := vtx.WriteFile(ints, dt, vtx.DefaultWriteConfig())
//	if err != nil {
//	    // handle error
//	}
//
//	f, err := vtx.OpenFile(uuid.New(), data, nil)
//	if err != nil {
//	    // handle error
//	}
//	arr, err := f.Read()
package vtx
