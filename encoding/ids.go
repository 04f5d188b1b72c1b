// Package encoding implements the concrete Array encodings named in
// spec.md §4.3 (C7): chunked, struct, primitive, constant, sparse, dict,
// run-end (+bool), ALP, ALP-RD, FastLanes bitpack, FSST, zigzag, byte-bool,
// var-bin-view, plus the supplemental Gorilla float codec. Each file
// registers its Vtable with package array via an init().
package encoding

import "github.com/vtxfmt/vtx/array"

// EncodingID assignments. 0 is reserved for Null.
const (
	IDNull array.EncodingID = iota
	IDPrimitive
	IDConstant
	IDByteBool
	IDVarBinView
	IDStruct
	IDList
	IDChunked
	IDSparse
	IDDict
	IDRunEnd
	IDRunEndBool
	IDZigZag
	IDBitPack
	IDGorilla
	IDALP
	IDALPRD
	IDFSST
)
