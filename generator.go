package qudit

import (
	"fmt"
	"math"
)

// Elementary tags a single-qudit gate whose block comes from a Generator.
type Elementary int

const (
	GateIdentity Elementary = iota
	GateX
	GateZ
	GateH
	GateRZ
)

func (e Elementary) String() string {
	switch e {
	case GateIdentity:
		return "I"
	case GateX:
		return "X"
	case GateZ:
		return "Z"
	case GateH:
		return "H"
	case GateRZ:
		return "RZ"
	default:
		return fmt.Sprintf("Elementary(%d)", int(e))
	}
}

/*
Generator produces the radix×radix block of an elementary gate. Only the
phase rotation reads angle. Generators are pure and keep no state.
*/
type Generator func(radix int, angle float64) *Matrix

var generators = map[Elementary]Generator{
	GateIdentity: identityBlock,
	GateX:        shiftBlock,
	GateZ:        clockBlock,
	GateH:        fourierBlock,
	GateRZ:       phaseBlock,
}

// Generate returns the block for e at the given radix.
func Generate(e Elementary, radix int, angle float64) (*Matrix, error) {
	if radix < 2 {
		return nil, fmt.Errorf("generate %s: %w", e, ErrInvalidRadix)
	}

	generator, ok := generators[e]
	if !ok {
		return nil, fmt.Errorf("generate %s: unknown gate: %w", e, ErrShapeMismatch)
	}

	return generator(radix, angle), nil
}

func identityBlock(radix int, _ float64) *Matrix {
	return Identity(radix)
}

// shiftBlock maps basis label k to (k−1) mod radix.
func shiftBlock(radix int, _ float64) *Matrix {
	m := Zeros(radix)

	for k := 0; k < radix; k++ {
		m.Set((k-1+radix)%radix, k, 1)
	}

	return m
}

// clockBlock is diagonal with entry k = e^{2πik/radix}.
func clockBlock(radix int, _ float64) *Matrix {
	m := Zeros(radix)

	for k := 0; k < radix; k++ {
		m.Set(k, k, Phase(2*math.Pi*float64(k)/float64(radix)))
	}

	return m
}

// fourierBlock has entry (x, y) = e^{2πi·xy/radix}/√radix.
func fourierBlock(radix int, _ float64) *Matrix {
	m := Zeros(radix)
	scale := complex(1/math.Sqrt(float64(radix)), 0)

	for x := 0; x < radix; x++ {
		for y := 0; y < radix; y++ {
			m.Set(x, y, Phase(2*math.Pi*float64((x*y)%radix)/float64(radix))*scale)
		}
	}

	return m
}

// phaseBlock is diagonal with entry k = e^{ik·angle}.
func phaseBlock(radix int, angle float64) *Matrix {
	m := Zeros(radix)

	for k := 0; k < radix; k++ {
		m.Set(k, k, Phase(float64(k)*angle))
	}

	return m
}
