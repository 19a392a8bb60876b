package extract

import "errors"

var (
	// ErrBadRoot is returned when the input is not a JSON object or array.
	ErrBadRoot = errors.New("document must be an object or an array")

	// ErrTypeMismatch is returned when a getter meets a token of a kind it
	// was not built for.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrRequiredField is returned by a strict Object whose container
	// closed with one of its getters never matched.
	ErrRequiredField = errors.New("required field missing")

	// ErrOverflow is returned when a numeric payload does not fit the
	// requested integer type.
	ErrOverflow = errors.New("integer overflow")
)
