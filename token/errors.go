package token

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	ErrExpectedName  = errors.New("expected object member name")
	ErrExpectedColon = errors.New("expected ':' after member name")
	ErrExpectedComma = errors.New("expected ',' between values")
	ErrExpectedValue = errors.New("expected a value")
	ErrBadNumber     = errors.New("malformed number")
	ErrBadLiteral    = errors.New("malformed literal")
	ErrTrailingData  = errors.New("unexpected data after top-level value")
)

// A SyntaxError wraps one of the sentinel errors above together with the
// byte offset into the input buffer at which it was detected.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxError(err error, offset int) *SyntaxError {
	return &SyntaxError{Offset: offset, Err: err}
}
