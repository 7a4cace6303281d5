package qudit

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGrover(t *testing.T) {
	Convey("Given a three qubit search space with one marked state", t, func() {
		device := NewSequentialDevice()

		Convey("Two rounds should concentrate the probability on it", func() {
			So(GroverIterations(8, 1), ShouldEqual, 2)

			register, err := NewRegister(device, []int{0, 0, 0}, 2)
			So(err, ShouldBeNil)

			for i := 0; i < 3; i++ {
				So(register.Apply(H(i)), ShouldBeNil)
			}

			for round := 0; round < 2; round++ {
				So(register.Apply(GroverPhase(5)), ShouldBeNil)
				So(register.Apply(Custom(Diffusion(8))), ShouldBeNil)
			}

			histogram := register.Histogram()
			So(histogram[5], ShouldAlmostEqual, 0.9453, 1e-3)
			So(register.StateSum(), ShouldAlmostEqual, 1, 1e-6)
		})

		Convey("Grover should measure the marked index", func() {
			found, register, err := Grover(device, 3, []int{5}, WithSource(drawHalf))
			So(err, ShouldBeNil)
			So(found, ShouldEqual, 5)
			So(Magnitude(register.Amplitudes()[5]), ShouldAlmostEqual, 1, 1e-9)
		})

		Convey("A search without marked states should be refused", func() {
			_, _, err := Grover(device, 3, nil)
			So(err, ShouldWrap, ErrShapeMismatch)
		})
	})

	Convey("Given iteration counts", t, func() {
		So(GroverIterations(16, 1), ShouldEqual, 3)
		So(GroverIterations(4, 1), ShouldEqual, 1)
		So(GroverIterations(8, 0), ShouldEqual, 0)
	})
}

func TestOrderFinding(t *testing.T) {
	Convey("Given the classical helpers", t, func() {
		Convey("PowMod should reduce every step", func() {
			So(PowMod(7, 4, 15), ShouldEqual, 1)
			So(PowMod(2, 10, 1000), ShouldEqual, 24)
			So(PowMod(5, 0, 7), ShouldEqual, 1)
			So(PowMod(5, 3, 1), ShouldEqual, 0)
			So(PowMod(-2, 3, 5), ShouldEqual, 2)
		})

		Convey("GCD should ignore signs", func() {
			So(GCD(12, 18), ShouldEqual, 6)
			So(GCD(-4, 6), ShouldEqual, 2)
			So(GCD(0, 5), ShouldEqual, 5)
		})

		Convey("Convergent should recover small denominators", func() {
			num, den := Convergent(192, 256)
			So([]int{num, den}, ShouldResemble, []int{3, 4})

			num, den = Convergent(85, 256)
			So([]int{num, den}, ShouldResemble, []int{1, 3})

			num, den = Convergent(0, 256)
			So([]int{num, den}, ShouldResemble, []int{0, 1})
		})

		Convey("OrderWidths should cover n² and n", func() {
			in, out := OrderWidths(15, 2)
			So([]int{in, out}, ShouldResemble, []int{8, 4})

			in, out = OrderWidths(15, 3)
			So([]int{in, out}, ShouldResemble, []int{5, 3})

			in, out = OrderWidths(3, 2)
			So([]int{in, out}, ShouldResemble, []int{4, 2})
		})
	})

	Convey("Given the period finding circuit for 2 mod 3", t, func() {
		device := NewSequentialDevice()
		in, out := OrderWidths(3, 2)

		register, err := NewRegister(device, make([]int, in+out), 2)
		So(err, ShouldBeNil)

		for i := 0; i < in; i++ {
			So(register.Apply(H(i)), ShouldBeNil)
		}

		So(register.Apply(Function(2, 3, in, out)), ShouldBeNil)
		So(register.Apply(RotatedFourier(in)), ShouldBeNil)

		Convey("The input register should only read multiples of 2^in / order", func() {
			span := Pow(2, out)
			inputs := make([]float64, Pow(2, in))

			for s, p := range register.Histogram() {
				inputs[s/span] += p
			}

			So(inputs[0], ShouldAlmostEqual, 0.5, 1e-9)
			So(inputs[8], ShouldAlmostEqual, 0.5, 1e-9)

			_, order := Convergent(8, Pow(2, in))
			So(order, ShouldEqual, 2)
		})
	})

	Convey("Given numbers with cheap factors", t, func() {
		device := NewSequentialDevice()

		Convey("Even numbers should split without a circuit", func() {
			p, q, err := Factor(device, 14, 3, 2)
			So(err, ShouldBeNil)
			So([]int{p, q}, ShouldResemble, []int{2, 7})
		})

		Convey("A base sharing a factor should split without a circuit", func() {
			p, q, err := Factor(device, 21, 7, 2)
			So(err, ShouldBeNil)
			So([]int{p, q}, ShouldResemble, []int{7, 3})
		})

		Convey("Tiny numbers should have no factor", func() {
			_, _, err := Factor(device, 3, 2, 2)
			So(err, ShouldWrap, ErrFactorNotFound)
		})
	})
}
