// Package bind populates statically typed Go structs from a parsed
// document tree.  Field dispatch is driven by reflection: exported fields
// of supported types are matched against object member names (exact,
// case-sensitive, overridable with a `json` tag), everything else is
// skipped.  The per-type field plan is computed once and cached.
//
// All extracted values are owned copies, so the bound struct outlives both
// the document tree and the input buffer it borrowed from.
package bind

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/davral/jsonpick/dom"
)

var (
	// ErrBadTarget is returned when the bind target is not a non-nil
	// pointer to a struct.
	ErrBadTarget = errors.New("bind target must be a non-nil struct pointer")

	// ErrTypeMismatch is returned when a document value cannot populate
	// the field it is matched with.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOverflow is returned when a number does not fit the field's
	// integer or float width.
	ErrOverflow = errors.New("numeric overflow")
)

// An Appender is an accumulator that array elements are pushed into one by
// one.  Elements arrive as float64, string, bool or nil.
type Appender interface {
	Append(v any)
}

// FromBytes parses data and binds the resulting document into a fresh T.
func FromBytes[T any](data []byte) (T, error) {
	var out T
	var p dom.Parser
	n, err := p.Parse(data)
	if err != nil {
		return out, err
	}
	err = Bind(n, &out)
	return out, err
}

// FromString is FromBytes for string input.
func FromString[T any](data string) (T, error) {
	return FromBytes[T]([]byte(data))
}

// Bind populates out, a pointer to struct, from the object node n.  Fields
// whose names (or `json` tags) have no matching member, and members with a
// null value, leave the field at its current value.
func Bind(n *dom.Node, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrBadTarget
	}
	return bindStruct(n, rv.Elem())
}

type fieldPlan struct {
	name  string
	index int
}

var plans sync.Map // reflect.Type -> []fieldPlan

// planFor enumerates the bindable fields of t once: exported, of a
// supported type, not opted out with `json:"-"`.
func planFor(t reflect.Type) []fieldPlan {
	if p, ok := plans.Load(t); ok {
		return p.([]fieldPlan)
	}
	plan := []fieldPlan{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || !supported(f.Type) {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		plan = append(plan, fieldPlan{name: name, index: i})
	}
	actual, _ := plans.LoadOrStore(t, plan)
	return actual.([]fieldPlan)
}

var appenderType = reflect.TypeOf((*Appender)(nil)).Elem()

func supported(t reflect.Type) bool {
	if t.Implements(appenderType) || reflect.PointerTo(t).Implements(appenderType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	case reflect.Slice:
		return supported(t.Elem())
	default:
		return false
	}
}

func bindStruct(n *dom.Node, rv reflect.Value) error {
	if !n.IsObject() {
		return fmt.Errorf("%w: expected object, got %v", ErrTypeMismatch, n.Kind())
	}
	for _, fp := range planFor(rv.Type()) {
		member := n.Get(fp.name)
		if member == nil || member.IsNull() {
			continue
		}
		if err := bindValue(member, rv.Field(fp.index)); err != nil {
			return fmt.Errorf("field %s: %w", fp.name, err)
		}
	}
	return nil
}

func bindValue(n *dom.Node, rv reflect.Value) error {
	if rv.CanAddr() {
		if app, ok := rv.Addr().Interface().(Appender); ok {
			return bindAppender(n, app)
		}
	}
	switch rv.Kind() {
	case reflect.Bool:
		switch n.Kind() {
		case dom.True, dom.False:
			rv.SetBool(n.AsBool())
			return nil
		}
		return fmt.Errorf("%w: expected boolean, got %v", ErrTypeMismatch, n.Kind())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := wholeNumber(n)
		if err != nil {
			return err
		}
		// 2^63 and 2^64 are exact in float64, so the range checks must be
		// exclusive at the top or the conversion below is out of range.
		if f < math.MinInt64 || f >= 1<<63 || rv.OverflowInt(int64(f)) {
			return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, f, rv.Type())
		}
		rv.SetInt(int64(f))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, err := wholeNumber(n)
		if err != nil {
			return err
		}
		if f < 0 || f >= 1<<64 || rv.OverflowUint(uint64(f)) {
			return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, f, rv.Type())
		}
		rv.SetUint(uint64(f))
		return nil
	case reflect.Float32, reflect.Float64:
		if !n.IsNumber() {
			return fmt.Errorf("%w: expected number, got %v", ErrTypeMismatch, n.Kind())
		}
		f := n.AsFloat()
		if rv.OverflowFloat(f) {
			return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, f, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	case reflect.String:
		if !n.IsString() {
			return fmt.Errorf("%w: expected string, got %v", ErrTypeMismatch, n.Kind())
		}
		rv.SetString(n.AsString())
		return nil
	case reflect.Struct:
		return bindStruct(n, rv)
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return bindStruct(n, rv.Elem())
	case reflect.Slice:
		return bindSlice(n, rv)
	default:
		return fmt.Errorf("%w: unsupported field type %s", ErrTypeMismatch, rv.Type())
	}
}

func bindSlice(n *dom.Node, rv reflect.Value) error {
	if !n.IsArray() {
		return fmt.Errorf("%w: expected array, got %v", ErrTypeMismatch, n.Kind())
	}
	out := reflect.MakeSlice(rv.Type(), n.Len(), n.Len())
	for i := 0; i < n.Len(); i++ {
		if err := bindValue(n.At(i), out.Index(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	rv.Set(out)
	return nil
}

func bindAppender(n *dom.Node, app Appender) error {
	if !n.IsArray() {
		return fmt.Errorf("%w: expected array, got %v", ErrTypeMismatch, n.Kind())
	}
	for i := 0; i < n.Len(); i++ {
		el := n.At(i)
		switch el.Kind() {
		case dom.Number:
			app.Append(el.AsFloat())
		case dom.String, dom.RawString:
			app.Append(el.AsString())
		case dom.True, dom.False:
			app.Append(el.AsBool())
		case dom.Null:
			app.Append(nil)
		default:
			return fmt.Errorf("%w: cannot append %v element", ErrTypeMismatch, el.Kind())
		}
	}
	return nil
}

// wholeNumber returns the numeric payload of n, rejecting non-numbers and
// numbers with a fractional part.
func wholeNumber(n *dom.Node) (float64, error) {
	if !n.IsNumber() {
		return 0, fmt.Errorf("%w: expected number, got %v", ErrTypeMismatch, n.Kind())
	}
	f := n.AsFloat()
	if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, f)
	}
	return f, nil
}
