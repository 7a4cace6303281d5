package qudit

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func bellCircuit() *Circuit {
	circuit := NewCircuit("bell", 2, 2)
	circuit.Place(0, PlaceSingle(GateH, 0))
	circuit.Place(1, PlaceControlled(GateX, 1, 0))
	circuit.Place(2, PlaceMeasure(0))
	circuit.Place(2, PlaceMeasure(1))
	return circuit
}

func TestPlacement(t *testing.T) {
	Convey("Given editor placements", t, func() {
		Convey("Complete placements should produce their gates", func() {
			valve, ok := PlaceSingle(GateH, 1).Valve()
			So(ok, ShouldBeTrue)
			So(valve.String(), ShouldEqual, "H(1)")

			valve, ok = PlaceSwap(0, 2).Valve()
			So(ok, ShouldBeTrue)
			So(valve.String(), ShouldEqual, "SWAP(0, 2)")

			valve, ok = PlacePowMod(7, 15, 8, 4).Valve()
			So(ok, ShouldBeTrue)
			So(valve.Kind(), ShouldEqual, FunctionValve)
		})

		Convey("A controlled RZ should rotate by 2π/2^k", func() {
			valve, ok := PlaceControlledRZ(0, 1, 2).Valve()
			So(ok, ShouldBeTrue)
			So(valve.inner.angle, ShouldAlmostEqual, math.Pi/2)
			So(valve.controls, ShouldResemble, []int{1})
		})

		Convey("Missing parameters should produce no gate", func() {
			_, ok := PlaceSingle(GateRZ, 0).Valve()
			So(ok, ShouldBeFalse)

			_, ok = PlaceControlled(GateRZ, 0, 1).Valve()
			So(ok, ShouldBeFalse)

			_, ok = PlacePowMod(7, 0, 2, 2).Valve()
			So(ok, ShouldBeFalse)

			_, ok = PlaceMeasure(0).Valve()
			So(ok, ShouldBeFalse)
		})

		Convey("Multi-qudit placements should cover their span", func() {
			p := PlaceControlled(GateX, 3, 1)
			So(p.Multi(), ShouldBeTrue)
			So(p.Covers(2), ShouldBeTrue)
			So(p.Covers(0), ShouldBeFalse)
			So(PlacePowMod(2, 3, 1, 2).Covers(2), ShouldBeTrue)
			So(PlaceRZ(1, 0.5).Multi(), ShouldBeFalse)
		})
	})
}

func TestCircuit(t *testing.T) {
	Convey("Given a circuit being edited", t, func() {
		circuit := NewCircuit("edit", 3, 2)

		Convey("Placing one past the end should append a step", func() {
			So(circuit.Place(0, PlaceSingle(GateH, 0)), ShouldBeTrue)
			So(circuit.Place(0, PlaceSingle(GateX, 1)), ShouldBeTrue)
			So(circuit.Steps, ShouldHaveLength, 1)

			So(circuit.Place(2, PlaceSingle(GateX, 1)), ShouldBeFalse)
		})

		Convey("Occupied cells should refuse new placements", func() {
			So(circuit.Place(0, PlaceSingle(GateH, 0)), ShouldBeTrue)
			So(circuit.Place(0, PlaceMeasure(0)), ShouldBeFalse)
			So(circuit.Place(0, PlaceSwap(1, 2)), ShouldBeFalse)

			So(circuit.Place(1, PlaceSwap(1, 2)), ShouldBeTrue)
			So(circuit.CanPlace(1, 0), ShouldBeFalse)
		})

		Convey("Placements beyond the register should be refused", func() {
			So(circuit.Place(0, PlaceSingle(GateH, 3)), ShouldBeFalse)
			So(circuit.Place(0, PlacePowMod(2, 3, 2, 2)), ShouldBeFalse)
		})

		Convey("Placements with invalid partner qudits should be refused", func() {
			So(circuit.Place(0, PlaceControlled(GateX, 1, -1)), ShouldBeFalse)
			So(circuit.Place(0, PlaceControlled(GateX, 1, 1)), ShouldBeFalse)
			So(circuit.Place(0, PlaceSwap(-1, 1)), ShouldBeFalse)
			So(circuit.Place(0, PlaceSwap(2, 2)), ShouldBeFalse)
			So(circuit.Place(0, PlacePowMod(2, 3, 0, 2)), ShouldBeFalse)
			So(circuit.Steps, ShouldBeEmpty)
		})

		Convey("Shrinking should drop placements that no longer fit", func() {
			So(circuit.Place(0, PlaceSingle(GateH, 0)), ShouldBeTrue)
			So(circuit.Place(1, PlaceSingle(GateX, 2)), ShouldBeTrue)

			circuit.Resize(2)
			So(circuit.Steps, ShouldHaveLength, 1)

			placement, ok := circuit.At(0, 0)
			So(ok, ShouldBeTrue)
			So(placement.String(), ShouldEqual, "H")
		})

		Convey("Removing and deleting should trim empty trailing steps", func() {
			So(circuit.Place(0, PlaceSingle(GateH, 0)), ShouldBeTrue)
			So(circuit.Place(1, PlaceControlled(GateX, 2, 0)), ShouldBeTrue)

			circuit.Remove(1, 1)
			So(circuit.Steps, ShouldHaveLength, 1)

			circuit.InsertStep(0)
			So(circuit.Steps, ShouldHaveLength, 2)
			So(circuit.Steps[0].Placements, ShouldBeEmpty)

			circuit.DeleteStep(0)
			_, ok := circuit.At(0, 0)
			So(ok, ShouldBeTrue)
		})
	})
}

func TestExecutor(t *testing.T) {
	Convey("Given a Bell circuit and an executor", t, func() {
		device := NewSequentialDevice()
		group := NewBroadcastGroup("test")
		updates := group.Subscribe("all", 8)

		Reset(func() {
			group.Close()
		})

		Convey("Both qubits should always read the same digit", func() {
			for seed := uint64(0); seed < 10; seed++ {
				executor := NewExecutor(device, bellCircuit(), nil, WithSeed(seed))

				outputs, err := executor.Run([]int{0, 0})
				So(err, ShouldBeNil)
				So(outputs, ShouldHaveLength, 2)
				So(outputs[0], ShouldNotEqual, "-")
				So(outputs[0], ShouldEqual, outputs[1])
			}
		})

		Convey("Each step should publish a snapshot", func() {
			executor := NewExecutor(device, bellCircuit(), group, WithSource(drawLow))
			So(executor.Start([]int{0, 0}), ShouldBeNil)

			for step := 0; step < 3; step++ {
				more, err := executor.Next()
				So(err, ShouldBeNil)
				So(more, ShouldBeTrue)

				snapshot := <-updates
				So(snapshot.Step, ShouldEqual, step)
				So(snapshot.Amplitudes, ShouldHaveLength, 4)
			}

			more, err := executor.Next()
			So(err, ShouldBeNil)
			So(more, ShouldBeFalse)

			So(executor.Outputs(), ShouldResemble, []string{"0", "0"})
			So(executor.Register().Amplitudes().Equal(Vector{1, 0, 0, 0}), ShouldBeTrue)
		})

		Convey("A step with a multi-qudit placement should apply only that placement", func() {
			circuit := NewCircuit("mixed", 2, 2)
			circuit.Steps = []Step{{Placements: []Placement{
				PlaceSingle(GateX, 0),
				PlaceSwap(0, 1),
				PlaceMeasure(1),
			}}}

			executor := NewExecutor(device, circuit, nil)
			outputs, err := executor.Run([]int{1, 0})
			So(err, ShouldBeNil)
			So(outputs, ShouldResemble, []string{"-", "-"})
			So(executor.Register().Amplitudes().Equal(Vector{0, 1, 0, 0}), ShouldBeTrue)
		})

		Convey("Placements without a gate should be skipped", func() {
			circuit := NewCircuit("partial", 1, 2)
			circuit.Place(0, PlaceSingle(GateRZ, 0))

			executor := NewExecutor(device, circuit, nil)
			_, err := executor.Run([]int{1})
			So(err, ShouldBeNil)
			So(executor.Register().Amplitudes().Equal(Vector{0, 1}), ShouldBeTrue)
		})

		Convey("Inputs must match the qudit count", func() {
			executor := NewExecutor(device, bellCircuit(), nil)
			So(executor.Start([]int{0}), ShouldWrap, ErrShapeMismatch)

			more, err := executor.Next()
			So(err, ShouldBeNil)
			So(more, ShouldBeFalse)
		})
	})
}
