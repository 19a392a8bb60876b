// Package extract pulls selected values out of a JSON document without
// building a tree.  A fixed schema of getters (Field, Object, Array) is
// wired once, then driven over any number of documents by a Main; every
// token not claimed by a getter is skipped in place.
//
//	var id, w extract.Field
//	imp := extract.NewArray(func(i int, e *extract.Elem) bool {
//		return i == 0 && e.Into(extract.NewObject().Bind("w", &w)) == nil
//	})
//	m := extract.NewMain(extract.NewObject().Bind("id", &id).Bind("imp", imp))
//	err := m.Parse(data)
//
// Extracted values are borrowed slices into the parsed buffer and stay
// valid only while that buffer does.
package extract

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/davral/jsonpick/escape"
	"github.com/davral/jsonpick/token"
)

// A Getter is one node of an extraction schema.  Implementations are
// provided by this package; the interface is not meant to be satisfied
// outside it.
type Getter interface {
	// reset returns the getter and everything below it to the unmatched
	// state.
	reset()

	// match consumes the value the tokenizer is positioned on.
	match(tz *token.Tokenizer) error
}

// A Field is a leaf getter capturing the kind and raw payload of a single
// scalar.  The zero value is ready to be wired into a schema.
type Field struct {
	// OnSet, when non-nil, runs right after the field captures a value.
	OnSet func(*Field)

	kind  token.Kind
	value []byte
}

// NewField returns an empty Field.
func NewField() *Field {
	return &Field{}
}

func (f *Field) reset() {
	f.kind = token.None
	f.value = nil
}

func (f *Field) match(tz *token.Tokenizer) error {
	k := tz.Kind()
	if !k.IsScalar() && k != token.Null {
		return fmt.Errorf("%w: expected scalar, got %v", ErrTypeMismatch, k)
	}
	f.kind = k
	f.value = tz.Value()
	if f.OnSet != nil {
		f.OnSet(f)
	}
	return nil
}

// Exists reports whether the field was matched during the last parse.
func (f *Field) Exists() bool {
	return f.kind != token.None
}

// Kind returns the kind of the matched token, or token.None.
func (f *Field) Kind() token.Kind {
	return f.kind
}

// Bytes returns the raw captured payload: undecoded digits for a Number,
// the still-escaped contents for a String.  The slice borrows from the
// parsed buffer.
func (f *Field) Bytes() []byte {
	return f.value
}

// String returns the captured string with escapes decoded.
func (f *Field) String() (string, error) {
	if f.kind != token.String {
		return "", fmt.Errorf("%w: expected string, got %v", ErrTypeMismatch, f.kind)
	}
	b, err := escape.Unescape(f.value)
	return string(b), err
}

// Float converts the captured number, including the NaN and Infinity
// extension literals.
func (f *Field) Float() (float64, error) {
	switch f.kind {
	case token.Number:
		v, err := strconv.ParseFloat(string(f.value), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: bad number %q", ErrTypeMismatch, f.value)
		}
		return v, nil
	case token.NaN, token.Infinity, token.NegInfinity:
		return extendedFloat(f.kind), nil
	default:
		return 0, fmt.Errorf("%w: expected number, got %v", ErrTypeMismatch, f.kind)
	}
}

// Int converts the captured number, rejecting fractions and values outside
// the int64 range.
func (f *Field) Int() (int64, error) {
	if f.kind != token.Number {
		return 0, fmt.Errorf("%w: expected number, got %v", ErrTypeMismatch, f.kind)
	}
	s := strings.TrimPrefix(string(f.value), "+")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", ErrOverflow, s)
		}
		return 0, fmt.Errorf("%w: not an integer: %s", ErrTypeMismatch, s)
	}
	return v, nil
}

// Bool returns the captured boolean.
func (f *Field) Bool() (bool, error) {
	switch f.kind {
	case token.True:
		return true, nil
	case token.False:
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected boolean, got %v", ErrTypeMismatch, f.kind)
	}
}

// IsNull reports whether the field matched a null.
func (f *Field) IsNull() bool {
	return f.kind == token.Null
}

func extendedFloat(k token.Kind) float64 {
	switch k {
	case token.Infinity:
		return math.Inf(1)
	case token.NegInfinity:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
}
