// Package footer implements the outer file frame (spec.md §6): a trailing
// postscript that points back into the file at the dtype, statistics, and
// layout segments, closed out by a version and a magic number so a reader
// can locate and validate everything in one trailing read.
//
// Grounded on section.NumericHeader/NumericFlag's packed-header-plus-magic-
// plus-Validate discipline, inverted from a leading header to a trailing
// footer per spec.md §6's byte layout.
package footer

// Magic identifies a vtx file. It is the last 4 bytes of a valid file.
var Magic = [4]byte{'V', 'T', 'X', 'F'}

// Version is the footer format version written by this module.
const Version uint16 = 1

// EOFSize is the fixed-size trailer after the postscript: version (u16) +
// postscript length (u16) + magic (4 bytes).
const EOFSize = 8

// MaxFooterSize bounds how much of the file's tail a reader must buffer to
// be guaranteed to see the whole postscript: a postscript length is encoded
// in a u16, so it can never exceed this.
const MaxFooterSize = 1<<16 - 1
