package qudit

import "fmt"

/*
Backend executes the numerically heavy kernels of the simulation. Every call
blocks until the result is complete; there is no cancellation and no timeout.
*/
type Backend interface {
	Name() string
	VectorMul(v Vector, m *Matrix) (Vector, error)
	MatrixMul(a, b *Matrix) (*Matrix, error)
	MatrixAdd(a, b *Matrix) (*Matrix, error)
	Tensor(a, b *Matrix) (*Matrix, error)
	Rotate(m *Matrix) (*Matrix, error)
	Oracle(params OracleParams) (*Matrix, error)
}

/*
Dispatcher fans a kernel out over independent lanes. fn is called with
disjoint half-open ranges [lo, hi) that together cover [0, cells), and each
output cell depends only on its own index and read-only inputs.
*/
type Dispatcher interface {
	Name() string
	Dispatch(kernel string, cells int, fn func(lo, hi int)) error
}

// Sequential is the reference dispatcher; it runs every kernel on the caller.
type Sequential struct{}

func (Sequential) Name() string {
	return "sequential"
}

func (Sequential) Dispatch(kernel string, cells int, fn func(lo, hi int)) error {
	if cells > 0 {
		fn(0, cells)
	}
	return nil
}

/*
OracleParams describes the modular exponentiation oracle. The register holds
InputWidth input qudits followed by OutputWidth output qudits.
*/
type OracleParams struct {
	Value       int
	Modulus     int
	InputWidth  int
	OutputWidth int
	Radix       int
}

// Device implements Backend on top of any Dispatcher.
type Device struct {
	dispatcher Dispatcher
}

func NewDevice(dispatcher Dispatcher) *Device {
	return &Device{dispatcher: dispatcher}
}

// NewSequentialDevice returns a device that needs no lanes, suitable for tests.
func NewSequentialDevice() *Device {
	return NewDevice(Sequential{})
}

func (d *Device) Name() string {
	return d.dispatcher.Name()
}

func (d *Device) run(kernel string, cells int, fn func(lo, hi int)) error {
	if err := d.dispatcher.Dispatch(kernel, cells, fn); err != nil {
		return fmt.Errorf("%s: %w", kernel, err)
	}

	return nil
}

func (d *Device) VectorMul(v Vector, m *Matrix) (Vector, error) {
	if len(v) != m.size {
		return nil, fmt.Errorf("vector(%d) x matrix(%d): %w", len(v), m.size, ErrShapeMismatch)
	}

	out := make(Vector, m.size)

	return out, d.run("vectorMultMatrix", m.size, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			out[j] = vectorMulCell(v, m, j)
		}
	})
}

func (d *Device) MatrixMul(a, b *Matrix) (*Matrix, error) {
	if a.size != b.size {
		return nil, fmt.Errorf("matrix(%d) x matrix(%d): %w", a.size, b.size, ErrShapeMismatch)
	}

	out := Zeros(a.size)

	return out, d.run("matrixMultMatrix", len(out.values), func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			out.values[idx] = matrixMulCell(a, b, idx)
		}
	})
}

func (d *Device) MatrixAdd(a, b *Matrix) (*Matrix, error) {
	if a.size != b.size {
		return nil, fmt.Errorf("matrix(%d) + matrix(%d): %w", a.size, b.size, ErrShapeMismatch)
	}

	out := Zeros(a.size)

	return out, d.run("matrixPlusMatrix", len(out.values), func(lo, hi int) {
		matrixAddRange(out, a, b, lo, hi)
	})
}

func (d *Device) Tensor(a, b *Matrix) (*Matrix, error) {
	out := Zeros(a.size * b.size)

	return out, d.run("matrixTensorMatrix", len(out.values), func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			out.values[idx] = tensorCell(a, b, idx)
		}
	})
}

func (d *Device) Rotate(m *Matrix) (*Matrix, error) {
	out := Zeros(m.size)

	return out, d.run("rotateMatrix", len(out.values), func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			out.values[idx] = rotateCell(m, idx)
		}
	})
}

func (d *Device) Oracle(params OracleParams) (*Matrix, error) {
	if params.Radix < 2 {
		return nil, fmt.Errorf("oracle: %w", ErrInvalidRadix)
	}

	if params.Modulus < 1 || params.Value < 0 || params.InputWidth < 1 || params.OutputWidth < 1 {
		return nil, fmt.Errorf("oracle %+v: %w", params, ErrShapeMismatch)
	}

	out := Zeros(Pow(params.Radix, params.InputWidth+params.OutputWidth))

	return out, d.run("functionMatrix", len(out.values), func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			out.values[idx] = oracleCell(params, out.size, idx)
		}
	})
}
