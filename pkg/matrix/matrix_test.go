package matrix

import (
	"bytes"
	"testing"

	"github.com/addrstat/addrstat/pkg/binreader"
)

func TestDenseSetRowGetRow(t *testing.T) {
	m := NewDense(3, 4)
	row := []float64{1, 2, 3, 4}
	m.SetRow(1, row)
	got := m.Row(1)
	for i := range row {
		if got[i] != row[i] {
			t.Fatalf("Row(1)[%d] = %v, want %v", i, got[i], row[i])
		}
	}
}

func TestDenseResizePreservesIntersection(t *testing.T) {
	m := NewDense(2, 2)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(1, 0, 3)
	m.Set(1, 1, 4)
	m.Resize(3, 3)
	if m.At(0, 0) != 1 || m.At(0, 1) != 2 || m.At(1, 0) != 3 || m.At(1, 1) != 4 {
		t.Fatalf("resize did not preserve intersecting region")
	}
	if m.At(2, 2) != 0 {
		t.Fatalf("new cell not zeroed")
	}
}

func TestDenseMulVec(t *testing.T) {
	m := NewDense(2, 2)
	m.SetRow(0, []float64{1, 2})
	m.SetRow(1, []float64{3, 4})
	got := m.MulVec([]float64{1, 1})
	want := []float64{3, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MulVec[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDenseRoundTrip(t *testing.T) {
	m := NewDense(2, 3)
	m.SetRow(0, []float64{1, 2, 3})
	m.SetRow(1, []float64{4, 5, 6})
	var buf bytes.Buffer
	if err := m.WriteTo(binreader.NewWriter(&buf)); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got, err := ReadDense(binreader.New(&buf))
	if err != nil {
		t.Fatalf("ReadDense: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if got.At(i, j) != m.At(i, j) {
				t.Fatalf("At(%d,%d) = %v, want %v", i, j, got.At(i, j), m.At(i, j))
			}
		}
	}
}

func TestSparseRoundTrip(t *testing.T) {
	s := FromTuples(3, 3, []Entry[float64]{
		{Row: 0, Col: 0, Value: 1},
		{Row: 0, Col: 2, Value: 2},
		{Row: 2, Col: 1, Value: 3},
	})
	var buf bytes.Buffer
	if err := s.WriteTo(binreader.NewWriter(&buf)); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	got, err := ReadSparse(binreader.New(&buf), ReadScalarF64)
	if err != nil {
		t.Fatalf("ReadSparse: %v", err)
	}
	if got.Get(0, 0) != 1 || got.Get(0, 2) != 2 || got.Get(2, 1) != 3 {
		t.Fatalf("round trip lost values: %+v", got)
	}
	if got.Get(1, 1) != 0 {
		t.Fatalf("expected zero for unset entry")
	}
}

func TestSparseEmptyRowsHaveEqualRowPtr(t *testing.T) {
	s := FromTuples(4, 2, []Entry[float64]{
		{Row: 0, Col: 0, Value: 1},
		{Row: 3, Col: 1, Value: 2},
	})
	if s.rowPtr[1] != s.rowPtr[2] {
		t.Fatalf("expected empty row 1 to have equal consecutive row_ptr entries: %v", s.rowPtr)
	}
}

func TestSparseTranspose(t *testing.T) {
	s := FromTuples(2, 3, []Entry[float64]{
		{Row: 0, Col: 1, Value: 5},
		{Row: 1, Col: 2, Value: 7},
	})
	tr := s.Transpose()
	if tr.Rows() != 3 || tr.Cols() != 2 {
		t.Fatalf("transpose dims = %dx%d, want 3x2", tr.Rows(), tr.Cols())
	}
	if tr.Get(1, 0) != 5 || tr.Get(2, 1) != 7 {
		t.Fatalf("transpose lost values")
	}
}

func TestSparseMulVec(t *testing.T) {
	s := FromTuples(2, 2, []Entry[float64]{
		{Row: 0, Col: 0, Value: 1},
		{Row: 0, Col: 1, Value: 2},
		{Row: 1, Col: 1, Value: 3},
	})
	got := s.MulVec([]float64{1, 1})
	if got[0] != 3 || got[1] != 3 {
		t.Fatalf("MulVec = %v, want [3 3]", got)
	}
}

func TestSparseDuplicateTuplesSum(t *testing.T) {
	s := FromTuples(1, 1, []Entry[float64]{
		{Row: 0, Col: 0, Value: 2},
		{Row: 0, Col: 0, Value: 3},
	})
	if s.Get(0, 0) != 5 {
		t.Fatalf("Get(0,0) = %v, want 5", s.Get(0, 0))
	}
}
