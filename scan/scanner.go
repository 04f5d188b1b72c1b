// Package scan implements the row-range scan engine (C12): it splits a
// layout tree into independently scannable row ranges, prunes ranges a
// filter cannot possibly match using each range's zone maps, evaluates the
// filter's conjuncts in an adaptively-chosen order, projects the result,
// and streams materialized arrays back to the caller in file order while
// overlapping I/O and compute across an errgroup-bounded worker pool.
package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/expr"
	"github.com/vtxfmt/vtx/layout"
	"github.com/vtxfmt/vtx/segment"
)

// Result is one item of a scan's output stream. Skipped is set when the
// split was pruned or fully eliminated by the filter and carries no rows;
// the emitter never sends a Skipped result downstream, it exists only so
// internal bookkeeping has a value to place at the split's slot.
type Result struct {
	RowOffset uint64
	Array     array.Array
	Skipped   bool
	Err       error
}

// Scanner evaluates one filter/projection pair over one layout tree.
type Scanner struct {
	Reader     *segment.Reader
	ReaderCfg  layout.ReaderConfig
	Layout     layout.Layout
	DType      dtype.DType
	Filter     expr.Expr
	Projection expr.Expr
	Config     Config
	Metrics    *Metrics
	Log        *slog.Logger

	histogram *ConjunctHistogram
}

// NewScanner builds a Scanner. filter and projection may be nil: a nil
// filter matches every row, a nil projection returns the scanned array
// unchanged (expr.Ident's behavior). log may be nil, in which case
// slog.Default() is used.
func NewScanner(rd *segment.Reader, rcfg layout.ReaderConfig, lay layout.Layout, dt dtype.DType, filter, projection expr.Expr, cfg Config, metrics *Metrics, log *slog.Logger) *Scanner {
	return &Scanner{
		Reader:     rd,
		ReaderCfg:  rcfg,
		Layout:     lay,
		DType:      dt,
		Filter:     filter,
		Projection: projection,
		Config:     cfg,
		Metrics:    metrics,
		Log:        log,
		histogram:  NewConjunctHistogram(),
	}
}

// Scan starts evaluating every split concurrently (bounded by
// Config.Concurrency) and returns a channel that delivers results in file
// order. Cancelling ctx stops the stream. A caller that stops receiving
// without cancelling ctx does not stop it: the remaining splits are still
// evaluated and the emitting goroutine stays blocked on its next send.
// The channel is closed once every split has been evaluated or an error
// has terminated the stream.
func (s *Scanner) Scan(ctx context.Context) <-chan Result {
	splits := ComputeSplits(s.Layout)
	out := make(chan Result, 1)

	go s.run(ctx, splits, out)

	return out
}

func (s *Scanner) run(ctx context.Context, splits []Split, out chan<- Result) {
	defer close(out)

	concurrency := s.Config.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	results := make([]Result, len(splits))
	done := make([]bool, len(splits))
	var mu sync.Mutex
	cond := sync.NewCond(&mu)

	for i, split := range splits {
		i, split := i, split
		g.Go(func() error {
			r := s.evalSplit(gctx, split)

			mu.Lock()
			results[i] = r
			done[i] = true
			cond.Broadcast()
			mu.Unlock()

			return r.Err
		})
	}

	emitDone := make(chan struct{})
	go func() {
		defer close(emitDone)

		next := 0
		for {
			mu.Lock()
			for next < len(splits) && !done[next] {
				cond.Wait()
			}
			if next >= len(splits) {
				mu.Unlock()
				return
			}
			r := results[next]
			next++
			mu.Unlock()

			if r.Skipped && r.Err == nil {
				continue
			}

			select {
			case out <- r:
			case <-ctx.Done():
				return
			}

			if r.Err != nil {
				return
			}
		}
	}()

	// Split errors are delivered to the consumer through Result.Err by the
	// emitter above; g.Wait's own return only cancels gctx for any splits
	// still running once the first error arrives.
	_ = g.Wait()
	<-emitDone
}

func (s *Scanner) evalSplit(ctx context.Context, split Split) Result {
	start := time.Now()
	if s.Metrics != nil {
		s.Metrics.splitsEvaluated.Inc()
		defer func() { s.Metrics.splitDuration.Observe(time.Since(start).Seconds()) }()
	}

	if err := ctx.Err(); err != nil {
		return Result{RowOffset: split.RowOffset, Err: err}
	}

	if s.Filter != nil {
		skip, err := s.pruneSplit(split)
		if err != nil {
			s.logger().Warn("zone map pruning failed, falling back to full filter evaluation",
				"error", err, "row_offset", split.RowOffset)
		} else if skip {
			if s.Metrics != nil {
				s.Metrics.splitsPruned.Inc()
			}
			return Result{RowOffset: split.RowOffset, Skipped: true}
		}
	}

	arr, err := layout.Read(s.Reader, split.Layout, s.DType, s.ReaderCfg)
	if err != nil {
		return Result{RowOffset: split.RowOffset, Err: err}
	}
	if s.Metrics != nil {
		s.Metrics.rowsScanned.Add(float64(arr.Length))
	}

	mask := NewRowMask(split.RowOffset, arr.Length)
	if s.Filter != nil {
		conjuncts := expr.ToCNF(s.Filter)
		keys := make([]string, len(conjuncts))
		for i, c := range conjuncts {
			keys[i] = c.String()
		}

		for _, ci := range s.histogram.Order(keys) {
			if mask.AllFalse() {
				break
			}

			bits, err := s.evaluateConjunct(conjuncts[ci], arr, mask)
			if err != nil {
				return Result{RowOffset: split.RowOffset, Err: err}
			}
			mask.And(bits)
		}
	}

	if mask.AllFalse() {
		return Result{RowOffset: split.RowOffset, Skipped: true}
	}

	projExpr := s.Projection
	if projExpr == nil {
		projExpr = expr.NewIdent()
	}

	projected, err := projExpr.Evaluate(arr)
	if err != nil {
		return Result{RowOffset: split.RowOffset, Err: err}
	}

	filtered, err := array.Filter(projected, mask.Bits)
	if err != nil {
		return Result{RowOffset: split.RowOffset, Err: err}
	}
	if s.Metrics != nil {
		s.Metrics.rowsEmitted.Add(float64(filtered.Length))
	}

	return Result{RowOffset: split.RowOffset, Array: filtered}
}

// evaluateConjunct evaluates c over arr, pushing the current mask down
// (evaluating only over its surviving rows) once the mask's density drops
// below Config.SelectivityThreshold, per spec.md §4.8.
func (s *Scanner) evaluateConjunct(c expr.Expr, arr array.Array, mask RowMask) ([]bool, error) {
	if mask.Density() >= s.Config.SelectivityThreshold {
		res, err := c.Evaluate(arr)
		if err != nil {
			return nil, err
		}

		bits, err := toBoolSlice(res)
		if err != nil {
			return nil, err
		}

		s.histogram.Report(c.String(), selectivityOf(countTrue(bits), len(bits)))

		return bits, nil
	}

	idx := mask.SurvivingIndices()
	sub, err := array.Take(arr, idx)
	if err != nil {
		return nil, err
	}

	res, err := c.Evaluate(sub)
	if err != nil {
		return nil, err
	}

	subBits, err := toBoolSlice(res)
	if err != nil {
		return nil, err
	}

	full := make([]bool, len(mask.Bits))
	trueCount := 0
	for k, rowIdx := range idx {
		full[rowIdx] = subBits[k]
		if subBits[k] {
			trueCount++
		}
	}

	s.histogram.Report(c.String(), selectivityOf(trueCount, len(idx)))

	return full, nil
}

// pruneSplit reports whether split can be skipped entirely: true only when
// every zone-map block of some referenced, zoned field is proven
// unmatchable by the filter. It inspects only fields the filter actually
// reads (expr.ReferencedFields), and only struct splits whose per-field
// layout is Zoned; anything else is left for full filter evaluation,
// matching spec.md §5's "if pruning fails, fall back to evaluating the
// filter in full" rule.
func (s *Scanner) pruneSplit(split Split) (bool, error) {
	fields := expr.ReferencedFields(s.Filter)
	if len(fields) == 0 {
		return false, nil
	}
	if split.Layout.Encoding != layout.IDStruct {
		return false, nil
	}
	if len(split.Layout.Children) != len(s.DType.Fields) {
		return false, nil
	}

	for i, child := range split.Layout.Children {
		if child.Encoding != layout.IDZoned {
			continue
		}

		fieldName := s.DType.Fields[i].Name
		if !containsString(fields, fieldName) {
			continue
		}

		blocks, err := layout.Prune(s.Reader, child, s.DType.Fields[i].DType, fieldName, s.ReaderCfg, s.Filter)
		if err != nil {
			return false, err
		}
		if len(blocks) == 0 {
			return true, nil
		}
	}

	return false, nil
}

func (s *Scanner) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}

	return slog.Default()
}
