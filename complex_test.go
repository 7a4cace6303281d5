package qudit

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestComplex(t *testing.T) {
	Convey("Given complex amplitudes", t, func() {
		Convey("Equal should ignore differences beyond four places", func() {
			So(Equal(complex(0.70710678, 0), complex(1/math.Sqrt2, 0)), ShouldBeTrue)
			So(Equal(complex(0.5, 0.00001), complex(0.5, 0)), ShouldBeTrue)
			So(Equal(complex(0.5, 0.001), complex(0.5, 0)), ShouldBeFalse)
		})

		Convey("Magnitude and Conjugate should follow the usual formulas", func() {
			So(Magnitude(complex(3, 4)), ShouldAlmostEqual, 5)
			So(Conjugate(complex(1, -2)), ShouldEqual, complex(1, 2))
		})

		Convey("Phase should land on the unit circle", func() {
			So(Equal(Phase(math.Pi/2), complex(0, 1)), ShouldBeTrue)
			So(Equal(Phase(math.Pi), -1), ShouldBeTrue)
			So(Magnitude(Phase(1.234)), ShouldAlmostEqual, 1)
		})

		Convey("Arithmetic should use the standard formulas", func() {
			a, b := complex(1, 2), complex(3, -1)
			So(a+b, ShouldEqual, complex(4, 1))
			So(a-b, ShouldEqual, complex(-2, 3))
			So(a*b, ShouldEqual, complex(5, 5))
			So(Equal(a/b, complex(0.1, 0.7)), ShouldBeTrue)
		})
	})
}
