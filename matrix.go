package qudit

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/cmplxs"
)

/*
Matrix is a square complex matrix stored as a flat row-major array of
size² entries, indexable by (column, row).

Operator matrices use the row-image orientation: row i holds the image of
basis state i, so that a state advances as the row vector state × matrix.
*/
type Matrix struct {
	values []Complex
	size   int
}

/*
NewMatrix wraps values as a matrix. The slice is copied and its length must
be a perfect square.
*/
func NewMatrix(values []Complex) (*Matrix, error) {
	size := int(math.Round(math.Sqrt(float64(len(values)))))

	if size*size != len(values) {
		return nil, fmt.Errorf("matrix of %d values: %w", len(values), ErrNonSquareMatrix)
	}

	m := &Matrix{values: make([]Complex, len(values)), size: size}
	copy(m.values, values)

	return m, nil
}

// Zeros returns the n×n zero matrix.
func Zeros(n int) *Matrix {
	return &Matrix{values: make([]Complex, n*n), size: n}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := Zeros(n)

	for i := 0; i < n; i++ {
		m.values[i*n+i] = 1
	}

	return m
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	return m.size
}

// At returns the entry at column x, row y.
func (m *Matrix) At(x, y int) Complex {
	return m.values[y*m.size+x]
}

// Set writes the entry at column x, row y.
func (m *Matrix) Set(x, y int, value Complex) {
	m.values[y*m.size+x] = value
}

// Row returns a copy of row y.
func (m *Matrix) Row(y int) Vector {
	row := make(Vector, m.size)
	copy(row, m.values[y*m.size:(y+1)*m.size])
	return row
}

// Values returns a copy of the flat row-major entries.
func (m *Matrix) Values() []Complex {
	out := make([]Complex, len(m.values))
	copy(out, m.values)
	return out
}

func (m *Matrix) Clone() *Matrix {
	return &Matrix{values: m.Values(), size: m.size}
}

// Equal reports element-wise tolerant equality.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}

	return m.size == other.size && cmplxs.EqualFunc(m.values, other.values, Equal)
}

func (m *Matrix) String() string {
	var b strings.Builder

	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			c := m.At(x, y)
			fmt.Fprintf(&b, "(%.4f, %.4f), ", real(c), imag(c))
		}
		b.WriteString("\n")
	}

	return b.String()
}
