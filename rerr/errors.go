// Package rerr defines the shared error taxonomy used across the
// registration core (point sampling, the accelerator primitives, and the
// ICP pipeline), so callers can classify failures with errors.Is regardless
// of which package raised them.
package rerr

import "errors"

var (
	// ErrInvalidShape marks an array whose dimensions violate a primitive's
	// preconditions (e.g. reduce/scan input width not a multiple of 4).
	ErrInvalidShape = errors.New("rgbdicp: invalid shape")

	// ErrInvalidArity marks a representative-set size that is not a power
	// of two or not a multiple of four.
	ErrInvalidArity = errors.New("rgbdicp: invalid arity")

	// ErrSizeExceeded marks an array too large for the two-phase
	// reduce/scan tree to process in one pass.
	ErrSizeExceeded = errors.New("rgbdicp: size exceeded")

	// ErrEmptyInput marks a zero-length input to a mean or weight stage.
	ErrEmptyInput = errors.New("rgbdicp: empty input")

	// ErrDegenerate marks sigma_m == 0, or non-finite values, encountered
	// during the Horn solve.
	ErrDegenerate = errors.New("rgbdicp: degenerate covariance")

	// ErrInvalidIndex marks an RBC handle that was not built for the
	// current fixed cloud.
	ErrInvalidIndex = errors.New("rgbdicp: invalid RBC index")

	// ErrNonConvergence marks a failure to converge. Reaching Register's
	// iteration cap is non-fatal and is reported as a bool in
	// RegistrationResult, not as this error; the power-method rotation
	// solver does return it (wrapped, and so out of Register) when its
	// eigenvalue is still negative after the re-shift.
	ErrNonConvergence = errors.New("rgbdicp: non-convergence")
)
