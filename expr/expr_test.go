package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vtxfmt/vtx/array"
	"github.com/vtxfmt/vtx/dtype"
	"github.com/vtxfmt/vtx/encoding"
	"github.com/vtxfmt/vtx/scalar"
	"github.com/vtxfmt/vtx/stats"
)

func mustStruct(t *testing.T, fields []dtype.Field, children []array.Array) array.Array {
	t.Helper()

	out, err := encoding.NewStruct(fields, children, false, array.NonNullable())
	require.NoError(t, err)

	return out
}

func mustPrimitive(t *testing.T, vals ...int64) array.Array {
	t.Helper()

	out, err := encoding.NewPrimitive(dtype.PTypeI64, false, len(vals), vals, nil, nil, array.AllValid())
	require.NoError(t, err)

	return out
}

func newScope(t *testing.T) array.Array {
	t.Helper()

	a := mustPrimitive(t, 1, 2, 3)
	b := mustPrimitive(t, 10, 20, 30)

	return mustStruct(t,
		[]dtype.Field{{Name: "a", DType: a.DType}, {Name: "b", DType: b.DType}},
		[]array.Array{a, b},
	)
}

func TestIdentEvaluatesToScope(t *testing.T) {
	scope := newScope(t)

	out, err := Ident{}.Evaluate(scope)
	require.NoError(t, err)
	require.Equal(t, scope.Length, out.Length)
}

func TestGetItemByNameAndIndex(t *testing.T) {
	scope := newScope(t)

	byName := NewGetItemName("b", NewIdent())
	out, err := byName.Evaluate(scope)
	require.NoError(t, err)

	v, err := array.ScalarAt(out, 1)
	require.NoError(t, err)
	i, err := v.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(20), i)

	byIdx := NewGetItemIndex(0, NewIdent())
	out2, err := byIdx.Evaluate(scope)
	require.NoError(t, err)
	v2, err := array.ScalarAt(out2, 2)
	require.NoError(t, err)
	i2, err := v2.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(3), i2)
}

func TestGetItemUnknownFieldErrors(t *testing.T) {
	scope := newScope(t)

	_, err := NewGetItemName("nope", NewIdent()).Evaluate(scope)
	require.Error(t, err)
}

func TestBinaryComparisonAgainstLiteral(t *testing.T) {
	scope := newScope(t)

	e := NewBinary(OpGt, NewGetItemName("b", NewIdent()), NewLiteral(scalar.Int64(15)))

	dt, err := e.ReturnDType(scope.DType)
	require.NoError(t, err)
	require.Equal(t, dtype.KindBool, dt.Kind)

	out, err := e.Evaluate(scope)
	require.NoError(t, err)

	full, err := array.Canonicalize(out)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, true}, full.Bools)
}

func TestInvertNegatesBoolResult(t *testing.T) {
	scope := newScope(t)

	e := NewInvert(NewBinary(OpGt, NewGetItemName("b", NewIdent()), NewLiteral(scalar.Int64(15))))
	out, err := e.Evaluate(scope)
	require.NoError(t, err)

	full, err := array.Canonicalize(out)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, false}, full.Bools)
}

func TestPackBuildsStructFromFields(t *testing.T) {
	scope := newScope(t)

	e := NewPack([]PackField{
		{Name: "x", Value: NewGetItemName("a", NewIdent())},
		{Name: "y", Value: NewGetItemName("b", NewIdent())},
	})

	dt, err := e.ReturnDType(scope.DType)
	require.NoError(t, err)
	require.Equal(t, dtype.KindStruct, dt.Kind)
	require.Len(t, dt.Fields, 2)

	out, err := e.Evaluate(scope)
	require.NoError(t, err)
	require.Equal(t, "x", out.DType.Fields[0].Name)
	require.Equal(t, "y", out.DType.Fields[1].Name)
}

func TestMergeLaterFieldWins(t *testing.T) {
	lhsField := mustPrimitive(t, 1, 1, 1)
	rhsField := mustPrimitive(t, 2, 2, 2)
	extra := mustPrimitive(t, 3, 3, 3)

	lhs := mustStruct(t, []dtype.Field{{Name: "a", DType: lhsField.DType}}, []array.Array{lhsField})
	rhs := mustStruct(t, []dtype.Field{
		{Name: "a", DType: rhsField.DType},
		{Name: "c", DType: extra.DType},
	}, []array.Array{rhsField, extra})

	scope := mustStruct(t, []dtype.Field{
		{Name: "0", DType: lhs.DType},
		{Name: "1", DType: rhs.DType},
	}, []array.Array{lhs, rhs})

	e := NewMerge([]Expr{
		NewGetItemName("0", NewIdent()),
		NewGetItemName("1", NewIdent()),
	})

	out, err := e.Evaluate(scope)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, fieldNames(out.DType.Fields))

	v, err := array.ScalarAt(out.Children[0], 0)
	require.NoError(t, err)
	i, err := v.AsInt64()
	require.NoError(t, err)
	require.Equal(t, int64(2), i, "later value should win for duplicate field name")
}

func fieldNames(fields []dtype.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}

	return out
}

func TestCastWidensToFloat(t *testing.T) {
	scope := newScope(t)

	e := NewCast(NewGetItemName("a", NewIdent()), dtype.Primitive(dtype.PTypeF64, false))
	out, err := e.Evaluate(scope)
	require.NoError(t, err)
	require.Equal(t, dtype.PTypeF64, out.DType.PType)
}

func TestWalkSkipStopsDescendingIntoChildren(t *testing.T) {
	expr := NewBinary(OpAnd,
		NewBinary(OpEq, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(1))),
		NewBinary(OpNeq, NewGetItemName("b", NewIdent()), NewLiteral(scalar.Int64(2))),
	)

	var visited []string
	_, err := Walk(expr, func(e Expr) (Order, error) {
		visited = append(visited, e.String())
		if b, ok := e.(Binary); ok && b.Op == OpEq {
			return Skip, nil
		}

		return Continue, nil
	})
	require.NoError(t, err)

	// The Eq node's children (GetItem "a" and the literal 1) must be absent.
	for _, v := range visited {
		require.NotEqual(t, "$.a", v)
	}
}

func TestWalkStopAbortsTraversal(t *testing.T) {
	expr := NewBinary(OpAnd,
		NewBinary(OpEq, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(1))),
		NewBinary(OpNeq, NewGetItemName("b", NewIdent()), NewLiteral(scalar.Int64(2))),
	)

	count := 0
	_, err := Walk(expr, func(e Expr) (Order, error) {
		count++
		if _, ok := e.(GetItem); ok {
			return Stop, nil
		}

		return Continue, nil
	})
	require.NoError(t, err)
	require.Less(t, count, 6)
}

func TestTransformReplacesMatchingNodes(t *testing.T) {
	expr := NewBinary(OpAnd,
		NewGetItemName("a", NewIdent()),
		NewGetItemName("b", NewIdent()),
	)

	n := 0
	tr, err := Transform(expr, func(e Expr) (Expr, bool, error) {
		if _, ok := e.(GetItem); ok {
			n++
			return NewLiteral(scalar.Int64(int64(n))), true, nil
		}

		return e, false, nil
	})
	require.NoError(t, err)
	require.True(t, tr.Changed)

	b := tr.Result.(Binary)
	_, lhsIsLit := b.Lhs.(Literal)
	_, rhsIsLit := b.Rhs.(Literal)
	require.True(t, lhsIsLit)
	require.True(t, rhsIsLit)
}

func TestToCNFDistributesOrOverAnd(t *testing.T) {
	a := NewGetItemName("a", NewIdent())
	b := NewGetItemName("b", NewIdent())
	c := NewGetItemName("c", NewIdent())

	// (a AND b) OR c  ==  (a OR c) AND (b OR c)
	expr := NewBinary(OpOr, NewBinary(OpAnd, a, b), c)

	clauses := ToCNF(expr)
	require.Len(t, clauses, 2)
	for _, clause := range clauses {
		bin, ok := clause.(Binary)
		require.True(t, ok)
		require.Equal(t, OpOr, bin.Op)
	}
}

func TestToCNFPushesNegationThroughAnd(t *testing.T) {
	eq := NewBinary(OpEq, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(1)))
	neq := NewBinary(OpNeq, NewGetItemName("b", NewIdent()), NewLiteral(scalar.Int64(2)))

	// NOT (eq AND neq) == (NOT eq) OR (NOT neq) == (a != 1) OR (b == 2)
	expr := NewInvert(NewBinary(OpAnd, eq, neq))

	clauses := ToCNF(expr)
	require.Len(t, clauses, 1)

	bin, ok := clauses[0].(Binary)
	require.True(t, ok)
	require.Equal(t, OpOr, bin.Op)

	lhs := bin.Lhs.(Binary)
	rhs := bin.Rhs.(Binary)
	require.Equal(t, OpNeq, lhs.Op)
	require.Equal(t, OpEq, rhs.Op)
}

func TestReferencedFieldsCollectsDirectGetItems(t *testing.T) {
	expr := NewBinary(OpAnd,
		NewBinary(OpGt, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(1))),
		NewBinary(OpLt, NewGetItemName("b", NewIdent()), NewGetItemName("a", NewIdent())),
	)

	names := ReferencedFields(expr)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestCanPruneUsesMinMaxRange(t *testing.T) {
	var fs stats.StatsSet
	fs.SetMin(scalar.Int64(10))
	fs.SetMax(scalar.Int64(20))
	fieldStats := map[string]stats.StatsSet{"a": fs}

	gt25 := NewBinary(OpGt, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(25)))
	require.True(t, CanPrune(gt25, fieldStats))

	gt5 := NewBinary(OpGt, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(5)))
	require.False(t, CanPrune(gt5, fieldStats))

	flipped := NewBinary(OpLt, NewLiteral(scalar.Int64(25)), NewGetItemName("a", NewIdent()))
	require.True(t, CanPrune(flipped, fieldStats))
}

func TestCanPruneConjunctionNeedsOnlyOneConjunctToBePrunable(t *testing.T) {
	var fs stats.StatsSet
	fs.SetMin(scalar.Int64(10))
	fs.SetMax(scalar.Int64(20))
	fieldStats := map[string]stats.StatsSet{"a": fs}

	prunable := NewBinary(OpGt, NewGetItemName("a", NewIdent()), NewLiteral(scalar.Int64(25)))
	unknown := NewGetItemName("b", NewIdent()) // not a recognized comparison shape

	require.True(t, CanPrune(NewBinary(OpAnd, prunable, unknown), fieldStats))
	require.False(t, CanPrune(NewBinary(OpOr, prunable, unknown), fieldStats))
}
