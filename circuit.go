package qudit

import (
	"fmt"
	"math"
	"strconv"

	"github.com/theapemachine/errnie"
)

// PlacementKind is what an editor cell holds.
type PlacementKind int

const (
	MeasurePlacement PlacementKind = iota
	SinglePlacement
	ControlledPlacement
	SwapPlacement
	PowModPlacement
)

/*
Placement is one gate dropped on a circuit step. Parameters that the editor
collects separately are pointers so a missing value can be told apart from a
zero value.
*/
type Placement struct {
	Kind   PlacementKind
	Gate   Elementary
	Target int
	// Other is the control qudit of a controlled placement or the second qudit of a swap.
	Other int
	// Angle is the rotation of a single RZ placement, in radians.
	Angle *float64
	// Exponent k gives a controlled RZ the angle 2π/2^k.
	Exponent *int

	Value       int
	Modulus     int
	InputWidth  int
	OutputWidth int
}

func PlaceMeasure(target int) Placement {
	return Placement{Kind: MeasurePlacement, Target: target}
}

func PlaceSingle(gate Elementary, target int) Placement {
	return Placement{Kind: SinglePlacement, Gate: gate, Target: target}
}

func PlaceRZ(target int, angle float64) Placement {
	return Placement{Kind: SinglePlacement, Gate: GateRZ, Target: target, Angle: &angle}
}

func PlaceControlled(gate Elementary, target, control int) Placement {
	return Placement{Kind: ControlledPlacement, Gate: gate, Target: target, Other: control}
}

func PlaceControlledRZ(target, control, exponent int) Placement {
	return Placement{
		Kind: ControlledPlacement, Gate: GateRZ, Target: target, Other: control, Exponent: &exponent,
	}
}

func PlaceSwap(first, second int) Placement {
	return Placement{Kind: SwapPlacement, Target: first, Other: second}
}

func PlacePowMod(value, modulus, inputWidth, outputWidth int) Placement {
	return Placement{
		Kind: PowModPlacement, Value: value, Modulus: modulus,
		InputWidth: inputWidth, OutputWidth: outputWidth,
	}
}

// Multi reports whether the placement spans more than one qudit.
func (p Placement) Multi() bool {
	return p.Kind == ControlledPlacement || p.Kind == SwapPlacement || p.Kind == PowModPlacement
}

// Covers reports whether the placement occupies qudit on its step.
func (p Placement) Covers(qudit int) bool {
	switch p.Kind {
	case ControlledPlacement, SwapPlacement:
		return qudit >= min(p.Target, p.Other) && qudit <= max(p.Target, p.Other)
	case PowModPlacement:
		return qudit >= 0 && qudit < p.InputWidth+p.OutputWidth
	default:
		return qudit == p.Target
	}
}

// highest is the largest qudit index the placement needs.
func (p Placement) highest() int {
	switch p.Kind {
	case ControlledPlacement, SwapPlacement:
		return max(p.Target, p.Other)
	case PowModPlacement:
		return p.InputWidth + p.OutputWidth - 1
	default:
		return p.Target
	}
}

// valid reports whether the placement names distinct, non-negative qudits.
func (p Placement) valid() bool {
	switch p.Kind {
	case ControlledPlacement, SwapPlacement:
		return p.Target >= 0 && p.Other >= 0 && p.Other != p.Target
	case PowModPlacement:
		return p.InputWidth > 0 && p.OutputWidth > 0
	default:
		return p.Target >= 0
	}
}

/*
Valve turns the placement into a gate. The second result is false when no
gate is produced: a measurement, or a placement missing a required parameter.
Callers treat that as a no-op.
*/
func (p Placement) Valve() (Valve, bool) {
	switch p.Kind {
	case SinglePlacement:
		if p.Gate == GateRZ {
			if p.Angle == nil {
				return Valve{}, false
			}
			return RZ(p.Target, *p.Angle), true
		}
		return Single(p.Gate, p.Target), true
	case ControlledPlacement:
		inner := Single(p.Gate, p.Target)

		if p.Gate == GateRZ {
			if p.Exponent == nil {
				return Valve{}, false
			}
			inner = RZ(p.Target, 2*math.Pi/math.Pow(2, float64(*p.Exponent)))
		}

		return Controlled([]int{p.Other}, inner), true
	case SwapPlacement:
		return Swap(p.Target, p.Other), true
	case PowModPlacement:
		if p.Modulus < 1 || p.InputWidth < 1 || p.OutputWidth < 1 {
			return Valve{}, false
		}
		return Function(p.Value, p.Modulus, p.InputWidth, p.OutputWidth), true
	default:
		return Valve{}, false
	}
}

func (p Placement) String() string {
	switch p.Kind {
	case MeasurePlacement:
		return "M"
	case SinglePlacement:
		return p.Gate.String()
	case ControlledPlacement:
		return "C" + p.Gate.String()
	case SwapPlacement:
		return "SWAP"
	case PowModPlacement:
		return fmt.Sprintf("%d^X mod %d", p.Value, p.Modulus)
	default:
		return "?"
	}
}

// Step is one column of the circuit.
type Step struct {
	Placements []Placement
}

/*
Circuit is an editable sequence of steps over a fixed number of qudits.
Placements that no longer fit after a resize are dropped, as are trailing
empty steps.
*/
type Circuit struct {
	Name   string
	Qudits int
	Radix  int
	Steps  []Step
}

func NewCircuit(name string, qudits, radix int) *Circuit {
	return &Circuit{Name: name, Qudits: qudits, Radix: radix}
}

// Resize changes the qudit count and drops placements that fall outside it.
func (c *Circuit) Resize(qudits int) {
	c.Qudits = qudits
	c.clearOutbounds()
}

func (c *Circuit) InsertStep(at int) {
	at = max(0, min(at, len(c.Steps)))
	c.Steps = append(c.Steps[:at], append([]Step{{}}, c.Steps[at:]...)...)
	c.clearOutbounds()
}

func (c *Circuit) DeleteStep(at int) {
	if at < 0 || at >= len(c.Steps) {
		return
	}

	c.Steps = append(c.Steps[:at], c.Steps[at+1:]...)
	c.clearOutbounds()
}

// CanPlace reports whether qudit is free on step. A multi-qudit placement blocks the whole step.
func (c *Circuit) CanPlace(step, qudit int) bool {
	if step >= len(c.Steps) {
		return true
	}

	for _, p := range c.Steps[step].Placements {
		if p.Multi() || p.Target == qudit {
			return false
		}
	}

	return true
}

/*
Place adds p to step, appending a new step when step is one past the end.
It returns false when the cell is occupied or the placement does not fit.
*/
func (c *Circuit) Place(step int, p Placement) bool {
	if step < 0 || step > len(c.Steps) || !p.valid() || p.highest() >= c.Qudits {
		return false
	}

	if p.Multi() && step < len(c.Steps) && len(c.Steps[step].Placements) > 0 {
		return false
	}

	if !c.CanPlace(step, p.Target) {
		return false
	}

	if step == len(c.Steps) {
		c.Steps = append(c.Steps, Step{})
	}

	c.Steps[step].Placements = append(c.Steps[step].Placements, p)
	return true
}

// At returns the placement covering qudit on step.
func (c *Circuit) At(step, qudit int) (Placement, bool) {
	if step < 0 || step >= len(c.Steps) {
		return Placement{}, false
	}

	for _, p := range c.Steps[step].Placements {
		if p.Covers(qudit) {
			return p, true
		}
	}

	return Placement{}, false
}

// Remove deletes every placement covering qudit on step.
func (c *Circuit) Remove(step, qudit int) {
	if step < 0 || step >= len(c.Steps) {
		return
	}

	kept := c.Steps[step].Placements[:0]

	for _, p := range c.Steps[step].Placements {
		if !p.Covers(qudit) {
			kept = append(kept, p)
		}
	}

	c.Steps[step].Placements = kept
	c.clearOutbounds()
}

func (c *Circuit) clearOutbounds() {
	for i := range c.Steps {
		kept := c.Steps[i].Placements[:0]

		for _, p := range c.Steps[i].Placements {
			if p.highest() < c.Qudits {
				kept = append(kept, p)
			}
		}

		c.Steps[i].Placements = kept
	}

	for len(c.Steps) > 0 && len(c.Steps[len(c.Steps)-1].Placements) == 0 {
		c.Steps = c.Steps[:len(c.Steps)-1]
	}
}

/*
Executor runs a circuit one step at a time against a fresh register,
publishing a snapshot to its broadcast group after every step.
*/
type Executor struct {
	backend  Backend
	circuit  *Circuit
	group    *BroadcastGroup
	opts     []RegisterOption
	register *Register
	step     int
	measured map[int]int
}

// NewExecutor prepares an executor. group may be nil.
func NewExecutor(backend Backend, circuit *Circuit, group *BroadcastGroup, opts ...RegisterOption) *Executor {
	return &Executor{
		backend: backend,
		circuit: circuit,
		group:   group,
		opts:    opts,
	}
}

// Start loads inputs, one digit per qudit, into a new register and rewinds to step 0.
func (e *Executor) Start(inputs []int) error {
	if len(inputs) != e.circuit.Qudits {
		return fmt.Errorf("%d inputs for %d qudits: %w", len(inputs), e.circuit.Qudits, ErrShapeMismatch)
	}

	radix := e.circuit.Radix
	if radix == 0 {
		radix = 2
	}

	register, err := NewRegister(e.backend, inputs, radix, e.opts...)
	if err != nil {
		return err
	}

	e.register = register
	e.step = 0
	e.measured = make(map[int]int)

	return nil
}

/*
Next executes the current step. A step holding a multi-qudit placement applies
only that placement; otherwise every single placement is applied, then the
measure placements are observed. It returns false once every step has run.
*/
func (e *Executor) Next() (bool, error) {
	if e.register == nil || e.step >= len(e.circuit.Steps) {
		return false, nil
	}

	step := e.circuit.Steps[e.step]
	observed := make(map[int]int)

	if err := e.execute(step, observed); err != nil {
		return false, fmt.Errorf("step %d: %w", e.step, err)
	}

	if e.group != nil {
		e.group.Send(Snapshot{Step: e.step, Amplitudes: e.register.Amplitudes(), Measured: observed})
	}

	errnie.Info("circuit=%s step=%d measured=%v", e.circuit.Name, e.step, observed)

	e.step++
	return true, nil
}

func (e *Executor) execute(step Step, observed map[int]int) error {
	for _, p := range step.Placements {
		if !p.Multi() {
			continue
		}

		if valve, ok := p.Valve(); ok {
			return e.register.Apply(valve)
		}

		return nil
	}

	for _, p := range step.Placements {
		if p.Kind != SinglePlacement {
			continue
		}

		if valve, ok := p.Valve(); ok {
			if err := e.register.Apply(valve); err != nil {
				return err
			}
		}
	}

	for _, p := range step.Placements {
		if p.Kind != MeasurePlacement {
			continue
		}

		digit, err := e.register.Measure(p.Target)
		if err != nil {
			return err
		}

		observed[p.Target] = digit
		e.measured[p.Target] = digit
	}

	return nil
}

// Run executes every remaining step after Start and returns the outputs.
func (e *Executor) Run(inputs []int) ([]string, error) {
	if err := e.Start(inputs); err != nil {
		return nil, err
	}

	for {
		more, err := e.Next()
		if err != nil {
			return nil, err
		}

		if !more {
			return e.Outputs(), nil
		}
	}
}

// Outputs lists the last measured digit of every qudit, "-" where none was measured.
func (e *Executor) Outputs() []string {
	out := make([]string, e.circuit.Qudits)

	for i := range out {
		out[i] = "-"

		if digit, ok := e.measured[i]; ok {
			out[i] = strconv.Itoa(digit)
		}
	}

	return out
}

func (e *Executor) Register() *Register {
	return e.register
}
