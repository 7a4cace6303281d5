package qudit

import (
	"fmt"
	"strings"
)

// ValveKind is the closed set of gate variants.
type ValveKind int

const (
	SingleValve ValveKind = iota
	ControlledValve
	CustomValve
	FunctionValve
	GroverValve
	SwapValve
	FourierValve
)

// Shape is what a gate needs to know about the register it acts on.
type Shape struct {
	Size  int
	Radix int
}

// Dim returns radix^size, the length of the state vector.
func (s Shape) Dim() int {
	return Pow(s.Radix, s.Size)
}

/*
Valve is an immutable quantum gate. It carries no register reference; its only
capability is producing the full-register operator for a given Shape.
Construct values with the functions below; the zero Valve is I(0).
*/
type Valve struct {
	kind     ValveKind
	gate     Elementary
	angle    float64
	target   int
	controls []int
	inner    *Valve
	matrix   *Matrix
	oracle   OracleParams
	marked   []int
	first    int
	second   int
	count    int
}

// Single applies an elementary gate to the qudit at target.
func Single(gate Elementary, target int) Valve {
	return Valve{kind: SingleValve, gate: gate, target: target}
}

func I(target int) Valve { return Single(GateIdentity, target) }
func X(target int) Valve { return Single(GateX, target) }
func Z(target int) Valve { return Single(GateZ, target) }
func H(target int) Valve { return Single(GateH, target) }

// RZ is the phase rotation with entry k = e^{ik·angle}.
func RZ(target int, angle float64) Valve {
	return Valve{kind: SingleValve, gate: GateRZ, target: target, angle: angle}
}

/*
Controlled applies inner only on basis states where every control qudit
holds the maximal digit radix−1.
*/
func Controlled(controls []int, inner Valve) Valve {
	return Valve{
		kind:     ControlledValve,
		controls: append([]int(nil), controls...),
		inner:    &inner,
	}
}

// Custom passes a caller-supplied operator through unchanged.
func Custom(m *Matrix) Valve {
	if m != nil {
		m = m.Clone()
	}

	return Valve{kind: CustomValve, matrix: m}
}

/*
Function is the modular exponentiation oracle of order finding: the output
register is combined digit-wise with value^input mod modulus.
*/
func Function(value, modulus, inputWidth, outputWidth int) Valve {
	return Valve{
		kind: FunctionValve,
		oracle: OracleParams{
			Value:       value,
			Modulus:     modulus,
			InputWidth:  inputWidth,
			OutputWidth: outputWidth,
		},
	}
}

// GroverPhase negates the amplitude of each marked basis state.
func GroverPhase(marked ...int) Valve {
	return Valve{kind: GroverValve, marked: append([]int(nil), marked...)}
}

// Swap exchanges the digits held by qudits i and j.
func Swap(i, j int) Valve {
	return Valve{kind: SwapValve, first: i, second: j}
}

// RotatedFourier is the Fourier transform over the leading count qudits.
func RotatedFourier(count int) Valve {
	return Valve{kind: FourierValve, count: count}
}

func (v Valve) Kind() ValveKind {
	return v.kind
}

/*
Matrix produces the operator of v for a register of the given shape, in the
row-image orientation expected by Backend.VectorMul.
*/
func (v Valve) Matrix(shape Shape, backend Backend) (*Matrix, error) {
	if shape.Radix < 2 {
		return nil, fmt.Errorf("%s: %w", v, ErrInvalidRadix)
	}

	if shape.Size < 1 {
		return nil, fmt.Errorf("%s on %d qudits: %w", v, shape.Size, ErrShapeMismatch)
	}

	switch v.kind {
	case SingleValve:
		return v.singleMatrix(shape, backend)
	case ControlledValve:
		return v.controlledMatrix(shape, backend)
	case CustomValve:
		return v.customMatrix(shape)
	case FunctionValve:
		return v.functionMatrix(shape, backend)
	case GroverValve:
		return v.groverMatrix(shape)
	case SwapValve:
		return v.swapMatrix(shape, backend)
	case FourierValve:
		return v.fourierMatrix(shape, backend)
	default:
		return nil, fmt.Errorf("valve kind %d: %w", v.kind, ErrShapeMismatch)
	}
}

func (v Valve) String() string {
	switch v.kind {
	case SingleValve:
		if v.gate == GateRZ {
			return fmt.Sprintf("RZ(%d, %.4f)", v.target, v.angle)
		}
		return fmt.Sprintf("%s(%d)", v.gate, v.target)
	case ControlledValve:
		parts := make([]string, len(v.controls))
		for i, c := range v.controls {
			parts[i] = fmt.Sprint(c)
		}
		return fmt.Sprintf("C[%s]%s", strings.Join(parts, ","), v.inner)
	case CustomValve:
		if v.matrix == nil {
			return "CUSTOM(nil)"
		}
		return fmt.Sprintf("CUSTOM(%d)", v.matrix.Size())
	case FunctionValve:
		return fmt.Sprintf("%d^x mod %d", v.oracle.Value, v.oracle.Modulus)
	case GroverValve:
		return fmt.Sprintf("GROVER%v", v.marked)
	case SwapValve:
		return fmt.Sprintf("SWAP(%d, %d)", v.first, v.second)
	case FourierValve:
		return fmt.Sprintf("RQFT(%d)", v.count)
	default:
		return "UNKNOWN"
	}
}
