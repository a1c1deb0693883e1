// Package matrix implements the dense and sparse matrix primitives the CRF
// layer scores tokens with: a row-major DenseMatrix for state/transition
// score tables, and a CSR-backed SparseMatrix for the (large, mostly-zero)
// feature-to-label weight table.
package matrix

import (
	"fmt"
	"math"

	"github.com/addrstat/addrstat/pkg/binreader"
)

// DenseMatrix is a row-major matrix of float64.
type DenseMatrix struct {
	rows, cols int
	data       []float64
}

// NewDense allocates a zeroed rows×cols matrix.
func NewDense(rows, cols int) *DenseMatrix {
	if rows < 0 || cols < 0 {
		panic("matrix: negative dimension")
	}
	return &DenseMatrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the row count.
func (m *DenseMatrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *DenseMatrix) Cols() int { return m.cols }

func (m *DenseMatrix) checkBounds(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

// At returns the element at (i, j).
func (m *DenseMatrix) At(i, j int) float64 {
	m.checkBounds(i, j)
	return m.data[i*m.cols+j]
}

// Set assigns the element at (i, j).
func (m *DenseMatrix) Set(i, j int, v float64) {
	m.checkBounds(i, j)
	m.data[i*m.cols+j] = v
}

// Add accumulates v into the element at (i, j).
func (m *DenseMatrix) Add(i, j int, v float64) {
	m.checkBounds(i, j)
	m.data[i*m.cols+j] += v
}

// Zero resets every element to 0.
func (m *DenseMatrix) Zero() {
	clear(m.data)
}

// Copy returns a deep copy.
func (m *DenseMatrix) Copy() *DenseMatrix {
	out := NewDense(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Exp returns a new matrix with exp applied element-wise.
func (m *DenseMatrix) Exp() *DenseMatrix {
	out := NewDense(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = math.Exp(v)
	}
	return out
}

// Row returns a copy of row i.
func (m *DenseMatrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range for %d rows", i, m.rows))
	}
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// SetRow overwrites row i with v. len(v) must equal Cols().
func (m *DenseMatrix) SetRow(i int, v []float64) {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("matrix: row %d out of range for %d rows", i, m.rows))
	}
	if len(v) != m.cols {
		panic(fmt.Sprintf("matrix: row length %d does not match %d cols", len(v), m.cols))
	}
	copy(m.data[i*m.cols:(i+1)*m.cols], v)
}

// MulVec computes m * v (v has length Cols(), result has length Rows()).
func (m *DenseMatrix) MulVec(v []float64) []float64 {
	if len(v) != m.cols {
		panic(fmt.Sprintf("matrix: vector length %d does not match %d cols", len(v), m.cols))
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, rv := range row {
			sum += rv * v[j]
		}
		out[i] = sum
	}
	return out
}

// AddMatrix adds other into m in place. Dimensions must match.
func (m *DenseMatrix) AddMatrix(other *DenseMatrix) {
	if other.rows != m.rows || other.cols != m.cols {
		panic("matrix: dimension mismatch in AddMatrix")
	}
	for i := range m.data {
		m.data[i] += other.data[i]
	}
}

// Resize grows or shrinks the matrix to newRows×newCols, preserving the
// intersecting region (upper-left rectangle common to both shapes) and
// zeroing anything newly introduced.
func (m *DenseMatrix) Resize(newRows, newCols int) {
	if newRows < 0 || newCols < 0 {
		panic("matrix: negative dimension in Resize")
	}
	out := make([]float64, newRows*newCols)
	minRows := min(m.rows, newRows)
	minCols := min(m.cols, newCols)
	for i := 0; i < minRows; i++ {
		copy(out[i*newCols:i*newCols+minCols], m.data[i*m.cols:i*m.cols+minCols])
	}
	m.rows, m.cols, m.data = newRows, newCols, out
}

// WriteTo serializes the matrix as rows, cols, then row-major float64s.
func (m *DenseMatrix) WriteTo(w *binreader.Writer) error {
	if err := w.U32(uint32(m.rows)); err != nil {
		return err
	}
	if err := w.U32(uint32(m.cols)); err != nil {
		return err
	}
	for _, v := range m.data {
		if err := w.F64(v); err != nil {
			return err
		}
	}
	return nil
}

// ReadDense deserializes a matrix written by WriteTo.
func ReadDense(r *binreader.Reader) (*DenseMatrix, error) {
	rows, err := r.U32()
	if err != nil {
		return nil, err
	}
	cols, err := r.U32()
	if err != nil {
		return nil, err
	}
	m := NewDense(int(rows), int(cols))
	for i := range m.data {
		v, err := r.F64()
		if err != nil {
			return nil, err
		}
		m.data[i] = v
	}
	return m, nil
}
