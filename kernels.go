package qudit

import (
	"math/bits"

	"gonum.org/v1/gonum/cmplxs"
)

// entry j of v × m is Σᵢ vᵢ·m[j,i].
func vectorMulCell(v Vector, m *Matrix, j int) Complex {
	var sum Complex

	for i, amplitude := range v {
		if amplitude == 0 {
			continue
		}
		sum += amplitude * m.values[i*m.size+j]
	}

	return sum
}

func matrixMulCell(a, b *Matrix, idx int) Complex {
	n := a.size
	row, col := idx/n, idx%n

	var sum Complex

	for k := 0; k < n; k++ {
		sum += a.values[row*n+k] * b.values[k*n+col]
	}

	return sum
}

func matrixAddRange(out, a, b *Matrix, lo, hi int) {
	cmplxs.AddTo(out.values[lo:hi], a.values[lo:hi], b.values[lo:hi])
}

// result(x, y) = a(xa, ya)·b(xb, yb) with x = xa·|b|+xb and y = ya·|b|+yb.
func tensorCell(a, b *Matrix, idx int) Complex {
	n := a.size * b.size
	y, x := idx/n, idx%n

	return a.values[(y/b.size)*a.size+x/b.size] * b.values[(y%b.size)*b.size+x%b.size]
}

func rotateCell(m *Matrix, idx int) Complex {
	y, x := idx/m.size, idx%m.size
	return m.values[x*m.size+y]
}

// Column x of the assembled oracle matrix is the image of basis state x.
func oracleCell(p OracleParams, n, idx int) Complex {
	y, x := idx/n, idx%n

	if y == oracleImage(p, x) {
		return 1
	}

	return 0
}

func oracleImage(p OracleParams, n int) int {
	span := Pow(p.Radix, p.OutputWidth)
	input, output := n/span, n%span
	f := PowMod(p.Value, input, p.Modulus)

	return input*span + digitwiseAdd(output, f, p.Radix, p.OutputWidth)
}

// digitwiseAdd adds the low width digits of a and b modulo radix, digit by digit.
func digitwiseAdd(a, b, radix, width int) int {
	result, place := 0, 1

	for i := 0; i < width; i++ {
		result += ((a%radix + b%radix) % radix) * place
		a /= radix
		b /= radix
		place *= radix
	}

	return result
}

// PowMod returns value^exponent mod modulus by square and multiply.
func PowMod(value, exponent, modulus int) int {
	if modulus == 1 {
		return 0
	}

	m := uint64(modulus)
	base := uint64(((value % modulus) + modulus) % modulus)
	result := uint64(1)

	for e := exponent; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = mulMod(result, base, m)
		}
		base = mulMod(base, base, m)
	}

	return int(result)
}

func mulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
