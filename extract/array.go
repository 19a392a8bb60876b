package extract

import (
	"fmt"

	"github.com/davral/jsonpick/token"
)

// An ElemFunc inspects one array element.  Returning false declines the
// element, which is then skipped wholesale; a container element is also
// skipped unless the callback consumed it with Elem.Into.
type ElemFunc func(i int, e *Elem) bool

// An Elem is the callback's handle on the current array element.  It is
// only valid for the duration of the callback invocation.
type Elem struct {
	tz       *token.Tokenizer
	consumed bool
	err      error
}

// Kind returns the kind of the element's first token.
func (e *Elem) Kind() token.Kind {
	return e.tz.Kind()
}

// Value returns the raw payload of a scalar element.
func (e *Elem) Value() []byte {
	return e.tz.Value()
}

// Into hands the element to a sub-getter, consuming it.  The error is also
// remembered and ends the surrounding parse, so callbacks that have nothing
// to add can ignore the return value.
func (e *Elem) Into(g Getter) error {
	e.consumed = true
	e.err = g.match(e.tz)
	return e.err
}

// An Array matches the elements of a JSON array by invoking a callback per
// element; elements the callback declines are skipped.  Sub-getters the
// callback dispatches into are registered at construction so the whole
// schema resets together.
type Array struct {
	// AllowNull accepts a null where the array was expected; Kind then
	// reports token.Null.
	AllowNull bool

	fn      ElemFunc
	getters []Getter
	kind    token.Kind
}

// NewArray returns an Array calling fn for each element.  Any getters the
// callback dispatches elements into must be listed so they take part in
// schema resets.
func NewArray(fn ElemFunc, getters ...Getter) *Array {
	return &Array{fn: fn, getters: getters}
}

// Kind reports what the Array matched during the last parse: token.None,
// token.BeginArray or token.Null.
func (a *Array) Kind() token.Kind {
	return a.kind
}

// IsNull reports whether the array position held a null.
func (a *Array) IsNull() bool {
	return a.kind == token.Null
}

func (a *Array) reset() {
	a.kind = token.None
	for _, g := range a.getters {
		g.reset()
	}
}

func (a *Array) match(tz *token.Tokenizer) error {
	switch tz.Kind() {
	case token.BeginArray:
		a.kind = token.BeginArray
	case token.Null:
		if a.AllowNull {
			a.kind = token.Null
			return nil
		}
		return fmt.Errorf("%w: expected array, got null", ErrTypeMismatch)
	default:
		return fmt.Errorf("%w: expected array, got %v", ErrTypeMismatch, tz.Kind())
	}
	for i := 0; ; i++ {
		if !tz.Next() {
			return tz.Err()
		}
		if tz.Kind() == token.EndArray {
			return nil
		}
		e := Elem{tz: tz}
		handled := a.fn != nil && a.fn(i, &e)
		if e.err != nil {
			return e.err
		}
		if e.consumed {
			continue
		}
		if !handled || tz.Kind() == token.BeginObject || tz.Kind() == token.BeginArray {
			if !tz.Skip() {
				return tz.Err()
			}
		}
	}
}
