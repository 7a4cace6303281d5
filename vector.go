package qudit

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/cmplxs"
)

// Vector is a dense, fixed-length sequence of amplitudes.
type Vector []Complex

// BasisVector returns the unit vector with a 1 at index.
func BasisVector(index, size int) (Vector, error) {
	if index < 0 || index >= size {
		return nil, fmt.Errorf("basis vector %d of %d: %w", index, size, ErrIndexOutOfRange)
	}

	v := make(Vector, size)
	v[index] = 1

	return v, nil
}

// Tensor returns the Kronecker product v ⊗ w.
func (v Vector) Tensor(w Vector) Vector {
	out := make(Vector, len(v)*len(w))

	for x := range v {
		for y := range w {
			out[x*len(w)+y] = v[x] * w[y]
		}
	}

	return out
}

// Equal reports element-wise tolerant equality.
func (v Vector) Equal(w Vector) bool {
	return cmplxs.EqualFunc(v, w, Equal)
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	return cmplxs.Norm(v, 2)
}

func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

func (v Vector) String() string {
	parts := make([]string, len(v))

	for i, c := range v {
		parts[i] = fmt.Sprintf("(%.4f, %.4f)", real(c), imag(c))
	}

	return strings.Join(parts, ", ")
}
