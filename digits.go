package qudit

// Pow returns radix^n for small non-negative n.
func Pow(radix, n int) int {
	result := 1

	for i := 0; i < n; i++ {
		result *= radix
	}

	return result
}

/*
Digit returns the digit held by qudit index in basis state n of a register
with size qudits. Qudit 0 is the most significant digit.
*/
func Digit(n, index, size, radix int) int {
	return (n / Pow(radix, size-index-1)) % radix
}

// Digits expands basis state n into size digits, most significant first.
func Digits(n, size, radix int) []int {
	out := make([]int, size)

	for i := size - 1; i >= 0; i-- {
		out[i] = n % radix
		n /= radix
	}

	return out
}

// FromDigits folds a most-significant-first digit list back into a basis index.
func FromDigits(digits []int, radix int) int {
	n := 0

	for _, d := range digits {
		n = n*radix + d
	}

	return n
}
