package qudit

import (
	"fmt"
	"math"

	"github.com/theapemachine/errnie"
)

// GroverIterations is ⌊π/4·√(dim/marked)⌋, the number of oracle+diffusion rounds.
func GroverIterations(dim, marked int) int {
	if dim < 1 || marked < 1 {
		return 0
	}

	return int(math.Pi / 4 * math.Sqrt(float64(dim)/float64(marked)))
}

// Diffusion is the inversion about the mean, 2/dim on every entry minus the identity.
func Diffusion(dim int) *Matrix {
	m := Zeros(dim)
	mean := complex(2/float64(dim), 0)

	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			m.Set(x, y, mean)
		}
		m.Set(y, y, mean-1)
	}

	return m
}

/*
Grover searches a size-qubit register for the marked basis states and returns
the measured basis index together with the collapsed register.
*/
func Grover(backend Backend, size int, marked []int, opts ...RegisterOption) (int, *Register, error) {
	if len(marked) == 0 {
		return 0, nil, fmt.Errorf("grover without marked states: %w", ErrShapeMismatch)
	}

	register, err := NewRegister(backend, make([]int, size), 2, opts...)
	if err != nil {
		return 0, nil, err
	}

	for i := 0; i < size; i++ {
		if err := register.Apply(H(i)); err != nil {
			return 0, nil, err
		}
	}

	dim := register.Shape().Dim()
	oracle := GroverPhase(marked...)
	diffusion := Custom(Diffusion(dim))
	rounds := GroverIterations(dim, len(marked))

	for i := 0; i < rounds; i++ {
		if err := register.Apply(oracle); err != nil {
			return 0, nil, err
		}

		if err := register.Apply(diffusion); err != nil {
			return 0, nil, err
		}
	}

	found, err := measureAll(register, size)
	if err != nil {
		return 0, nil, err
	}

	errnie.Info("grover size=%d rounds=%d found=%d", size, rounds, found)
	return found, register, nil
}

// measureAll measures the first count qudits and folds the digits into an index.
func measureAll(register *Register, count int) (int, error) {
	digits := make([]int, count)

	for i := range digits {
		digit, err := register.Measure(i)
		if err != nil {
			return 0, err
		}

		digits[i] = digit
	}

	return FromDigits(digits, register.Radix()), nil
}

/*
OrderWidths returns the input and output register widths used to find the
order of an element modulo n: radix^input ≥ n² and radix^output ≥ n.
*/
func OrderWidths(n, radix int) (int, int) {
	return widthFor(n*n, radix), widthFor(n, radix)
}

func widthFor(n, radix int) int {
	width, span := 1, radix

	for span < n {
		width++
		span *= radix
	}

	return width
}

func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

/*
Convergent returns the continued-fraction convergent of a/b with the largest
denominator not above b that lies within 1/(2b) of a/b.
*/
func Convergent(a, b int) (int, int) {
	h1, h2 := 1, 0
	k1, k2 := 0, 1
	p, q := a, b

	for q != 0 {
		i := p / q
		h, k := i*h1+h2, i*k1+k2

		if k > b {
			break
		}

		h2, h1 = h1, h
		k2, k1 = k1, k

		if 2*abs(h*b-a*k) <= k {
			break
		}

		p, q = q, p-i*q
	}

	return h1, k1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

/*
Factor tries to split n with one run of order finding for base. It returns
ErrFactorNotFound when the measured order yields only trivial factors; the
caller decides whether to retry with another draw or base.
*/
func Factor(backend Backend, n, base, radix int, opts ...RegisterOption) (int, int, error) {
	if n < 4 {
		return 0, 0, fmt.Errorf("factor %d: %w", n, ErrFactorNotFound)
	}

	if n%2 == 0 {
		return 2, n / 2, nil
	}

	if g := GCD(base, n); g > 1 {
		return g, n / g, nil
	}

	input, output := OrderWidths(n, radix)

	register, err := NewRegister(backend, make([]int, input+output), radix, opts...)
	if err != nil {
		return 0, 0, err
	}

	valves := []Valve{}
	for i := 0; i < input; i++ {
		valves = append(valves, H(i))
	}
	valves = append(valves, Function(base, n, input, output), RotatedFourier(input))

	for _, valve := range valves {
		if err := register.Apply(valve); err != nil {
			return 0, 0, err
		}
	}

	measured, err := measureAll(register, input)
	if err != nil {
		return 0, 0, err
	}

	_, order := Convergent(measured, Pow(radix, input))
	if order%2 == 1 {
		order *= 2
	}

	half := PowMod(base, order/2, n)
	factor := max(GCD(half+1, n), GCD(half-1+n, n))

	errnie.Info("factor n=%d base=%d measured=%d order=%d candidate=%d", n, base, measured, order, factor)

	if factor <= 1 || factor >= n {
		return 0, 0, fmt.Errorf("factor %d with base %d, order %d: %w", n, base, order, ErrFactorNotFound)
	}

	return factor, n / factor, nil
}
