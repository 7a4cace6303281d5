package qudit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat/distuv"
)

// negligible is the probability below which a measurement bucket is never chosen.
const negligible = 1e-12

/*
Register is the state of size qudits of a fixed radix, held as radix^size
amplitudes. A register is a plain owned value: callers serialize access, and
every operation completes before the next one starts.
*/
type Register struct {
	backend Backend
	size    int
	radix   int
	state   Vector
	source  rand.Source
	seed    uint64
}

// RegisterOption configures a Register at construction.
type RegisterOption func(*Register)

// WithSource sets the randomness used by Measure.
func WithSource(source rand.Source) RegisterOption {
	return func(r *Register) {
		r.source = source
	}
}

// WithSeed seeds the default PCG source used by Measure.
func WithSeed(seed uint64) RegisterOption {
	return func(r *Register) {
		r.seed = seed
	}
}

/*
NewRegister creates a register in the classical basis state given by digits,
one digit per qudit, qudit 0 first.
*/
func NewRegister(backend Backend, digits []int, radix int, opts ...RegisterOption) (*Register, error) {
	if radix < 2 {
		return nil, fmt.Errorf("register radix %d: %w", radix, ErrInvalidRadix)
	}

	r := &Register{
		backend: backend,
		radix:   radix,
		seed:    NewConfig().Seed,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.source == nil {
		r.source = rand.NewPCG(r.seed, r.seed)
	}

	if err := r.Update(digits); err != nil {
		return nil, err
	}

	errnie.Info("register created size=%d radix=%d backend=%s", r.size, r.radix, backend.Name())
	return r, nil
}

/*
Update reinitializes the register to the basis state given by digits. The
radix stays the same; the size follows the number of digits.
*/
func (r *Register) Update(digits []int) error {
	if len(digits) == 0 {
		return fmt.Errorf("register of zero qudits: %w", ErrShapeMismatch)
	}

	state := Vector{1}

	for i, d := range digits {
		basis, err := BasisVector(d, r.radix)
		if err != nil {
			return fmt.Errorf("qudit %d: %w", i, err)
		}

		state = state.Tensor(basis)
	}

	r.size = len(digits)
	r.state = state

	return nil
}

// Apply advances the state through the operator of v.
func (r *Register) Apply(v Valve) error {
	m, err := v.Matrix(r.Shape(), r.backend)
	if err != nil {
		return err
	}

	if m.Size() != len(r.state) {
		return fmt.Errorf("%s of size %d on state %d: %w", v, m.Size(), len(r.state), ErrShapeMismatch)
	}

	state, err := r.backend.VectorMul(r.state, m)
	if err != nil {
		return err
	}

	r.state = state
	return nil
}

// Measure observes the qudit at index using the register's own source.
func (r *Register) Measure(index int) (int, error) {
	return r.MeasureWith(index, r.source)
}

/*
MeasureWith observes the qudit at index, collapses the state onto the observed
digit, and returns that digit. Outcomes with negligible probability are never
selected; floating drift left after the walk falls to the last viable outcome.
*/
func (r *Register) MeasureWith(index int, source rand.Source) (int, error) {
	probabilities, err := r.Probabilities(index)
	if err != nil {
		return 0, err
	}

	draw := distuv.Uniform{Min: 0, Max: 1, Src: source}.Rand()
	outcome := -1

	for d, p := range probabilities {
		if p <= negligible {
			continue
		}

		outcome = d

		if draw <= p {
			break
		}

		draw -= p
	}

	if outcome < 0 {
		return 0, fmt.Errorf("qudit %d: %w", index, ErrDegenerateMeasurement)
	}

	for s := range r.state {
		if Digit(s, index, r.size, r.radix) != outcome {
			r.state[s] = 0
		}
	}

	cmplxs.ScaleReal(math.Sqrt(1/probabilities[outcome]), r.state)

	return outcome, nil
}

// Probabilities returns, for every digit value, the chance of observing it at index.
func (r *Register) Probabilities(index int) ([]float64, error) {
	if index < 0 || index >= r.size {
		return nil, fmt.Errorf("qudit %d of %d: %w", index, r.size, ErrIndexOutOfRange)
	}

	probabilities := make([]float64, r.radix)

	for s, amplitude := range r.state {
		probabilities[Digit(s, index, r.size, r.radix)] += probability(amplitude)
	}

	return probabilities, nil
}

// Histogram returns |amplitude|² for every basis state.
func (r *Register) Histogram() []float64 {
	out := make([]float64, len(r.state))

	for s, amplitude := range r.state {
		out[s] = probability(amplitude)
	}

	return out
}

// StateSum is the total probability, rounded to eight places.
func (r *Register) StateSum() float64 {
	norm := cmplxs.Norm(r.state, 2)
	return scalar.Round(norm*norm, 8)
}

// Amplitudes returns a copy of the state vector.
func (r *Register) Amplitudes() Vector {
	return r.state.Clone()
}

func (r *Register) Shape() Shape {
	return Shape{Size: r.size, Radix: r.radix}
}

func (r *Register) Size() int {
	return r.size
}

func (r *Register) Radix() int {
	return r.radix
}
