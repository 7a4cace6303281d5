package qudit

import "errors"

var (
	// ErrShapeMismatch is returned when operand sizes do not fit the requested operation.
	ErrShapeMismatch = errors.New("qudit: shape mismatch")

	// ErrNonSquareMatrix is returned when a value list is not a perfect square in length.
	ErrNonSquareMatrix = errors.New("qudit: matrix values are not a perfect square")

	// ErrIndexOutOfRange is returned for qudit, control or basis indexes outside the register.
	ErrIndexOutOfRange = errors.New("qudit: index out of range")

	// ErrDegenerateMeasurement is returned when the sampled outcome has no probability mass.
	ErrDegenerateMeasurement = errors.New("qudit: degenerate measurement")

	// ErrComputeDeviceUnavailable is returned when no compute backend could be acquired.
	ErrComputeDeviceUnavailable = errors.New("qudit: compute device unavailable")

	ErrInvalidRadix   = errors.New("qudit: radix must be at least 2")
	ErrFactorNotFound = errors.New("qudit: order finding produced a trivial factor")
)
