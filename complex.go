package qudit

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats/scalar"
)

// Complex is a single amplitude or matrix entry.
type Complex = complex128

// Places is the number of decimal places compared by Equal.
const Places = 4

/*
Equal compares two complex numbers after rounding both components to Places
decimals. Floating results are never compared exactly.
*/
func Equal(a, b Complex) bool {
	return scalar.Round(real(a), Places) == scalar.Round(real(b), Places) &&
		scalar.Round(imag(a), Places) == scalar.Round(imag(b), Places)
}

// Magnitude returns √(re²+im²).
func Magnitude(c Complex) float64 {
	return cmplx.Abs(c)
}

// Conjugate returns (re, −im).
func Conjugate(c Complex) Complex {
	return cmplx.Conj(c)
}

// Phase returns the unit complex number (cos θ, sin θ).
func Phase(theta float64) Complex {
	return complex(math.Cos(theta), math.Sin(theta))
}

func probability(c Complex) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
