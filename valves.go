package qudit

import (
	"fmt"
	"math"
)

func (v Valve) singleMatrix(shape Shape, backend Backend) (*Matrix, error) {
	if v.target < 0 || v.target >= shape.Size {
		return nil, fmt.Errorf("%s on %d qudits: %w", v, shape.Size, ErrIndexOutOfRange)
	}

	block, err := Generate(v.gate, shape.Radix, v.angle)
	if err != nil {
		return nil, err
	}

	identity := Identity(shape.Radix)

	factor := func(i int) *Matrix {
		if i == v.target {
			return block
		}
		return identity
	}

	// Qudit 0 is the leftmost factor.
	result := factor(0)

	for i := 1; i < shape.Size; i++ {
		if result, err = backend.Tensor(result, factor(i)); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (v Valve) controlledMatrix(shape Shape, backend Backend) (*Matrix, error) {
	if v.inner.kind == SingleValve && (v.inner.target < 0 || v.inner.target >= shape.Size) {
		return nil, fmt.Errorf("%s target %d: %w", v, v.inner.target, ErrIndexOutOfRange)
	}

	for _, c := range v.controls {
		if c < 0 || c >= shape.Size {
			return nil, fmt.Errorf("%s control %d: %w", v, c, ErrIndexOutOfRange)
		}

		if v.inner.kind == SingleValve && c == v.inner.target {
			return nil, fmt.Errorf("%s control overlaps target: %w", v, ErrIndexOutOfRange)
		}
	}

	if v.reducible(shape) {
		return v.controlledReduced(shape, backend)
	}

	return v.controlledGeneral(shape, backend)
}

// span returns the lowest and highest qudit touched by a controlled single gate.
func (v Valve) span() (int, int) {
	lo, hi := v.inner.target, v.inner.target

	for _, c := range v.controls {
		lo = min(lo, c)
		hi = max(hi, c)
	}

	return lo, hi
}

/*
reducible reports whether the gate can be built on the contiguous sub-register
it touches and padded with identities afterwards.
*/
func (v Valve) reducible(shape Shape) bool {
	if v.inner.kind != SingleValve || len(v.controls) == 0 {
		return false
	}

	lo, hi := v.span()

	return !(lo == 0 && hi == shape.Size-1)
}

func (v Valve) controlledReduced(shape Shape, backend Backend) (*Matrix, error) {
	lo, hi := v.span()

	controls := make([]int, len(v.controls))
	for i, c := range v.controls {
		controls[i] = c - lo
	}

	inner := *v.inner
	inner.target -= lo

	small, err := Controlled(controls, inner).controlledGeneral(
		Shape{Size: hi - lo + 1, Radix: shape.Radix}, backend,
	)
	if err != nil {
		return nil, err
	}

	return pad(small, lo, shape.Size-1-hi, shape.Radix, backend)
}

func (v Valve) controlledGeneral(shape Shape, backend Backend) (*Matrix, error) {
	inner, err := v.inner.Matrix(shape, backend)
	if err != nil {
		return nil, err
	}

	dim := shape.Dim()

	if inner.Size() != dim {
		return nil, fmt.Errorf("%s inner %d vs %d: %w", v, inner.Size(), dim, ErrShapeMismatch)
	}

	assembled := Zeros(dim)

	for i := 0; i < dim; i++ {
		if !v.controlsSet(i, shape) {
			assembled.Set(i, i, 1)
			continue
		}

		for y, value := range inner.Row(i) {
			assembled.Set(i, y, value)
		}
	}

	return backend.Rotate(assembled)
}

func (v Valve) controlsSet(n int, shape Shape) bool {
	for _, c := range v.controls {
		if Digit(n, c, shape.Size, shape.Radix) != shape.Radix-1 {
			return false
		}
	}

	return true
}

func (v Valve) customMatrix(shape Shape) (*Matrix, error) {
	if v.matrix == nil || v.matrix.Size() != shape.Dim() {
		return nil, fmt.Errorf("%s on dimension %d: %w", v, shape.Dim(), ErrShapeMismatch)
	}

	return v.matrix.Clone(), nil
}

func (v Valve) functionMatrix(shape Shape, backend Backend) (*Matrix, error) {
	params := v.oracle
	params.Radix = shape.Radix

	if params.InputWidth+params.OutputWidth != shape.Size {
		return nil, fmt.Errorf(
			"%s widths %d+%d on %d qudits: %w",
			v, params.InputWidth, params.OutputWidth, shape.Size, ErrShapeMismatch,
		)
	}

	assembled, err := backend.Oracle(params)
	if err != nil {
		return nil, err
	}

	return backend.Rotate(assembled)
}

func (v Valve) groverMatrix(shape Shape) (*Matrix, error) {
	dim := shape.Dim()
	m := Identity(dim)

	for _, idx := range v.marked {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%s marked %d of %d: %w", v, idx, dim, ErrIndexOutOfRange)
		}

		m.Set(idx, idx, -1)
	}

	return m, nil
}

func (v Valve) swapMatrix(shape Shape, backend Backend) (*Matrix, error) {
	for _, q := range []int{v.first, v.second} {
		if q < 0 || q >= shape.Size {
			return nil, fmt.Errorf("%s on %d qudits: %w", v, shape.Size, ErrIndexOutOfRange)
		}
	}

	lo, hi := min(v.first, v.second), max(v.first, v.second)

	if lo == 0 && hi == shape.Size-1 {
		return v.swapGeneral(shape, backend)
	}

	return v.swapReduced(shape, backend)
}

func (v Valve) swapReduced(shape Shape, backend Backend) (*Matrix, error) {
	lo, hi := min(v.first, v.second), max(v.first, v.second)

	small, err := Swap(v.first-lo, v.second-lo).swapGeneral(
		Shape{Size: hi - lo + 1, Radix: shape.Radix}, backend,
	)
	if err != nil {
		return nil, err
	}

	return pad(small, lo, shape.Size-1-hi, shape.Radix, backend)
}

func (v Valve) swapGeneral(shape Shape, backend Backend) (*Matrix, error) {
	dim := shape.Dim()
	assembled := Zeros(dim)

	for n := 0; n < dim; n++ {
		digits := Digits(n, shape.Size, shape.Radix)
		digits[v.first], digits[v.second] = digits[v.second], digits[v.first]
		assembled.Set(n, FromDigits(digits, shape.Radix), 1)
	}

	return backend.Rotate(assembled)
}

func (v Valve) fourierMatrix(shape Shape, backend Backend) (*Matrix, error) {
	if v.count < 1 || v.count > shape.Size {
		return nil, fmt.Errorf("%s on %d qudits: %w", v, shape.Size, ErrIndexOutOfRange)
	}

	n := Pow(shape.Radix, v.count)
	scale := complex(1/math.Sqrt(float64(n)), 0)
	fourier := Zeros(n)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			fourier.Set(x, y, Phase(2*math.Pi*float64((x*y)%n)/float64(n))*scale)
		}
	}

	full, err := pad(fourier, 0, shape.Size-v.count, shape.Radix, backend)
	if err != nil {
		return nil, err
	}

	return backend.Rotate(full)
}

// pad surrounds m with identities over before leading and after trailing qudits.
func pad(m *Matrix, before, after, radix int, backend Backend) (*Matrix, error) {
	var err error

	if before > 0 {
		if m, err = backend.Tensor(Identity(Pow(radix, before)), m); err != nil {
			return nil, err
		}
	}

	if after > 0 {
		if m, err = backend.Tensor(m, Identity(Pow(radix, after))); err != nil {
			return nil, err
		}
	}

	return m, nil
}
