package vtx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/errs"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/footer"
	"github.com/vtxfmt/vtx/internal/endian"
	"github.com/vtxfmt/vtx/layout"
	"github.com/vtxfmt/vtx/scan"
	"github.com/vtxfmt/vtx/segment"
)

// File is an opened vtx file: its parsed footer, layout tree, and dtype,
// ready for a full materializing Read or a pruned, filtered, projected
// Scan.
type File struct {
	reader    *segment.Reader
	readerCfg layout.ReaderConfig
	layout    layout.Layout
	dtype     dtype.DType
}

// OpenFile parses data's trailing footer and the layout/dtype segments it
// points at, without reading any row data yet. fileID namespaces cache
// entries across distinct open files sharing one Cache; cache may be nil
// to disable segment caching. data must hold the file's complete bytes.
func OpenFile(fileID uuid.UUID, data []byte, cache *segment.Cache) (*File, error) {
	engine := endian.GetLittleEndianEngine()

	tailStart := len(data) - footer.EOFSize - footer.MaxFooterSize
	if tailStart < 0 {
		tailStart = 0
	}

	ps, err := footer.ParseTrailer(data[tailStart:], engine)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidSerde, "vtx: parsing file footer")
	}
	if ps.DType == nil {
		return nil, errs.New(errs.KindInvalidSerde, "vtx: file footer carries no dtype segment")
	}

	dtypeBytes, err := sliceRef(data, *ps.DType)
	if err != nil {
		return nil, err
	}
	dt, _, err := dtype.Parse(dtypeBytes, engine)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidSerde, "vtx: parsing file dtype")
	}

	layoutBlob, err := sliceRef(data, ps.Layout)
	if err != nil {
		return nil, err
	}
	entries, consumed, err := segment.DecodeTable(layoutBlob, engine)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidSerde, "vtx: parsing segment table")
	}
	lay, err := layout.DeserializeLayout(layoutBlob[consumed:], engine)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindInvalidSerde, "vtx: parsing layout tree")
	}

	rd := segment.NewReader(fileID, data, cache)

	return &File{
		reader:    rd,
		readerCfg: layout.ReaderConfig{Entries: entries, Engine: engine},
		layout:    lay,
		dtype:     dt,
	}, nil
}

func sliceRef(data []byte, ref footer.SegmentRef) ([]byte, error) {
	end := ref.Offset + uint64(ref.Length)
	if end > uint64(len(data)) {
		return nil, errs.New(errs.KindOutOfBounds, "vtx: segment ref [%d:%d) exceeds file length %d", ref.Offset, end, len(data))
	}

	return data[ref.Offset:end], nil
}

// DType returns the file's logical schema.
func (f *File) DType() dtype.DType { return f.dtype }

// RowCount returns the file's total row count.
func (f *File) RowCount() uint64 { return f.layout.RowCount }

// Read materializes the file's entire contents as one array.
func (f *File) Read() (array.Array, error) {
	return layout.Read(f.reader, f.layout, f.dtype, f.readerCfg)
}

// Scan starts a scan.Scanner over the file's whole layout tree with
// filter (nil matches every row) and projection (nil returns rows
// unchanged). The returned channel delivers scan.Result values in file
// order; see scan.Scanner.Scan for its concurrency and cancellation
// behavior.
func (f *File) Scan(ctx context.Context, filter, projection expr.Expr, cfg scan.Config, metrics *scan.Metrics, log *slog.Logger) <-chan scan.Result {
	scanner := scan.NewScanner(f.reader, f.readerCfg, f.layout, f.dtype, filter, projection, cfg, metrics, log)

	return scanner.Scan(ctx)
}
