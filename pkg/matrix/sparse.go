package matrix

import (
	"fmt"
	"sort"

	"github.com/addrstat/addrstat/pkg/binreader"
	"golang.org/x/exp/constraints"
)

// SparseMatrix is a CSR-encoded (compressed sparse row) matrix over S,
// used for the CRF's feature-to-label weight table where most
// feature/label pairs never co-occur.
type SparseMatrix[S constraints.Float] struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	values     []S
}

// NewSparse builds an empty rows×cols sparse matrix.
func NewSparse[S constraints.Float](rows, cols int) *SparseMatrix[S] {
	return &SparseMatrix[S]{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1),
	}
}

// Rows returns the row count.
func (m *SparseMatrix[S]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *SparseMatrix[S]) Cols() int { return m.cols }

// NNZ returns the number of stored (non-zero) entries.
func (m *SparseMatrix[S]) NNZ() int { return len(m.values) }

// entry is a (row, col, value) tuple used to build a SparseMatrix from an
// unordered list of entries.
type entry[S constraints.Float] struct {
	row, col int
	val      S
}

// Entry is an exported (row, col, value) tuple for FromTuples.
type Entry[S constraints.Float] struct {
	Row, Col int
	Value    S
}

// FromTuples builds a SparseMatrix from an unordered list of (row, col,
// value) tuples. Duplicate (row, col) pairs are summed.
func FromTuples[S constraints.Float](rows, cols int, tuples []Entry[S]) *SparseMatrix[S] {
	internal := make([]entry[S], len(tuples))
	for i, t := range tuples {
		internal[i] = entry[S]{row: t.Row, col: t.Col, val: t.Value}
	}
	sort.SliceStable(internal, func(i, j int) bool {
		if internal[i].row != internal[j].row {
			return internal[i].row < internal[j].row
		}
		return internal[i].col < internal[j].col
	})

	m := &SparseMatrix[S]{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
	var lastRow, lastCol int = -1, -1
	for _, e := range internal {
		if e.row == lastRow && e.col == lastCol {
			m.values[len(m.values)-1] += e.val
			continue
		}
		for r := lastRow + 1; r <= e.row; r++ {
			m.rowPtr[r] = len(m.values)
		}
		m.colIdx = append(m.colIdx, e.col)
		m.values = append(m.values, e.val)
		lastRow, lastCol = e.row, e.col
	}
	for r := lastRow + 1; r <= rows; r++ {
		m.rowPtr[r] = len(m.values)
	}
	return m
}

// FromCSR builds a SparseMatrix directly from CSR arrays (used by the CRF
// loader, which reads rowPtr/colIdx/values straight off disk).
func FromCSR[S constraints.Float](rows, cols int, rowPtr []int, colIdx []int, values []S) (*SparseMatrix[S], error) {
	if len(rowPtr) != rows+1 {
		return nil, fmt.Errorf("matrix: rowPtr length %d does not match rows+1=%d", len(rowPtr), rows+1)
	}
	if len(colIdx) != len(values) {
		return nil, fmt.Errorf("matrix: colIdx length %d does not match values length %d", len(colIdx), len(values))
	}
	for i := 1; i < len(rowPtr); i++ {
		if rowPtr[i] < rowPtr[i-1] {
			return nil, fmt.Errorf("matrix: rowPtr not non-decreasing at index %d", i)
		}
	}
	if rowPtr[0] != 0 {
		return nil, fmt.Errorf("matrix: rowPtr[0] must be 0, got %d", rowPtr[0])
	}
	if rowPtr[rows] != len(values) {
		return nil, fmt.Errorf("matrix: rowPtr[rows]=%d does not match nnz=%d", rowPtr[rows], len(values))
	}
	return &SparseMatrix[S]{rows: rows, cols: cols, rowPtr: rowPtr, colIdx: colIdx, values: values}, nil
}

func (m *SparseMatrix[S]) findIndex(row, col int) int {
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	for i := start; i < end; i++ {
		if m.colIdx[i] == col {
			return i
		}
	}
	return -1
}

// Get returns the element at (row, col), or zero if not stored.
func (m *SparseMatrix[S]) Get(row, col int) S {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d sparse matrix", row, col, m.rows, m.cols))
	}
	idx := m.findIndex(row, col)
	if idx < 0 {
		var zero S
		return zero
	}
	return m.values[idx]
}

// Set assigns the element at (row, col), inserting a new entry if one
// wasn't already stored. Set is O(nnz-in-row); it exists for model
// construction and tests, not the hot inference path.
func (m *SparseMatrix[S]) Set(row, col int, v S) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d sparse matrix", row, col, m.rows, m.cols))
	}
	if idx := m.findIndex(row, col); idx >= 0 {
		m.values[idx] = v
		return
	}
	insertAt := m.rowPtr[row+1]
	for i, c := range m.colIdx[m.rowPtr[row]:m.rowPtr[row+1]] {
		if c > col {
			insertAt = m.rowPtr[row] + i
			break
		}
	}
	m.colIdx = append(m.colIdx, 0)
	copy(m.colIdx[insertAt+1:], m.colIdx[insertAt:])
	m.colIdx[insertAt] = col

	m.values = append(m.values, 0)
	copy(m.values[insertAt+1:], m.values[insertAt:])
	m.values[insertAt] = v

	for r := row + 1; r <= m.rows; r++ {
		m.rowPtr[r]++
	}
}

// Row returns the dense representation of row i.
func (m *SparseMatrix[S]) Row(i int) []S {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range for %d rows", i, m.rows))
	}
	out := make([]S, m.cols)
	for idx := m.rowPtr[i]; idx < m.rowPtr[i+1]; idx++ {
		out[m.colIdx[idx]] = m.values[idx]
	}
	return out
}

// RowEntries visits the stored (col, value) pairs of row i without
// allocating a dense row; this is the hot path used by CRF scoring.
func (m *SparseMatrix[S]) RowEntries(i int, fn func(col int, value S)) {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range for %d rows", i, m.rows))
	}
	for idx := m.rowPtr[i]; idx < m.rowPtr[i+1]; idx++ {
		fn(m.colIdx[idx], m.values[idx])
	}
}

// Transpose returns the transposed matrix.
func (m *SparseMatrix[S]) Transpose() *SparseMatrix[S] {
	counts := make([]int, m.cols+1)
	for _, c := range m.colIdx {
		counts[c+1]++
	}
	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}
	outColIdx := make([]int, len(m.colIdx))
	outValues := make([]S, len(m.values))
	cursor := append([]int(nil), counts[:m.cols]...)

	for row := 0; row < m.rows; row++ {
		for idx := m.rowPtr[row]; idx < m.rowPtr[row+1]; idx++ {
			col := m.colIdx[idx]
			dst := cursor[col]
			outColIdx[dst] = row
			outValues[dst] = m.values[idx]
			cursor[col]++
		}
	}
	return &SparseMatrix[S]{rows: m.cols, cols: m.rows, rowPtr: counts, colIdx: outColIdx, values: outValues}
}

// MulVec computes m * v. len(v) must equal Cols().
func (m *SparseMatrix[S]) MulVec(v []S) []S {
	if len(v) != m.cols {
		panic(fmt.Sprintf("matrix: vector length %d does not match %d cols", len(v), m.cols))
	}
	out := make([]S, m.rows)
	for row := 0; row < m.rows; row++ {
		var sum S
		for idx := m.rowPtr[row]; idx < m.rowPtr[row+1]; idx++ {
			sum += m.values[idx] * v[m.colIdx[idx]]
		}
		out[row] = sum
	}
	return out
}

// WriteTo serializes the matrix in CSR form: rows, cols, nnz, row_ptr[rows+1],
// col_idx[nnz], values[nnz].
func (m *SparseMatrix[S]) WriteTo(w *binreader.Writer) error {
	if err := w.U32(uint32(m.rows)); err != nil {
		return err
	}
	if err := w.U32(uint32(m.cols)); err != nil {
		return err
	}
	if err := w.U32(uint32(len(m.values))); err != nil {
		return err
	}
	for _, p := range m.rowPtr {
		if err := w.U32(uint32(p)); err != nil {
			return err
		}
	}
	for _, c := range m.colIdx {
		if err := w.U32(uint32(c)); err != nil {
			return err
		}
	}
	for _, v := range m.values {
		if err := writeScalar(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeScalar[S constraints.Float](w *binreader.Writer, v S) error {
	switch any(v).(type) {
	case float32:
		return w.F32(float32(v))
	default:
		return w.F64(float64(v))
	}
}

// ReadSparse deserializes a matrix written by WriteTo. readScalar must
// match the element width used at write time (F32 for float32, F64 for
// float64).
func ReadSparse[S constraints.Float](r *binreader.Reader, readScalar func(*binreader.Reader) (S, error)) (*SparseMatrix[S], error) {
	rows, err := r.U32()
	if err != nil {
		return nil, err
	}
	cols, err := r.U32()
	if err != nil {
		return nil, err
	}
	nnz, err := r.U32()
	if err != nil {
		return nil, err
	}
	rowPtr := make([]int, int(rows)+1)
	for i := range rowPtr {
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		rowPtr[i] = int(v)
	}
	colIdx := make([]int, nnz)
	for i := range colIdx {
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		colIdx[i] = int(v)
	}
	values := make([]S, nnz)
	for i := range values {
		v, err := readScalar(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return FromCSR(int(rows), int(cols), rowPtr, colIdx, values)
}

// ReadScalarF64 reads a float64 element, for use with ReadSparse[float64].
func ReadScalarF64(r *binreader.Reader) (float64, error) { return r.F64() }

// ReadScalarF32 reads a float32 element, for use with ReadSparse[float32].
func ReadScalarF32(r *binreader.Reader) (float32, error) { return r.F32() }
