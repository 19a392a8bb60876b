package extract

import (
	"fmt"

	"github.com/davral/jsonpick/token"
)

// An Object matches the members of a JSON object.  Named bindings dispatch
// on exact member name; positional bindings dispatch on the zero-based
// member index and may leave gaps.  Members claimed by neither are skipped
// wholesale.
type Object struct {
	// Strict makes a parse fail when the object closes with any binding
	// never matched.  Missing bindings are reported in the order they were
	// declared.
	Strict bool

	// AllowNull accepts a null where the object was expected; Kind then
	// reports token.Null.
	AllowNull bool

	names      []string
	getters    []Getter
	byName     map[string]int
	positional []Getter

	kind       token.Kind
	matched    []bool
	posMatched []bool
}

// NewObject returns an Object with no bindings.
func NewObject() *Object {
	return &Object{byName: map[string]int{}}
}

// Bind attaches g to the member called name and returns the Object for
// chaining.  Binding the same name twice keeps the first getter.
func (o *Object) Bind(name string, g Getter) *Object {
	if _, ok := o.byName[name]; ok {
		return o
	}
	o.byName[name] = len(o.names)
	o.names = append(o.names, name)
	o.getters = append(o.getters, g)
	o.matched = append(o.matched, false)
	return o
}

// At attaches g to the member at index i regardless of its name, growing
// the positional list with gaps as needed.
func (o *Object) At(i int, g Getter) *Object {
	for len(o.positional) <= i {
		o.positional = append(o.positional, nil)
		o.posMatched = append(o.posMatched, false)
	}
	o.positional[i] = g
	return o
}

// Kind reports what the Object matched during the last parse: token.None,
// token.BeginObject or token.Null.
func (o *Object) Kind() token.Kind {
	return o.kind
}

// IsNull reports whether the object position held a null.
func (o *Object) IsNull() bool {
	return o.kind == token.Null
}

func (o *Object) reset() {
	o.kind = token.None
	for i, g := range o.getters {
		o.matched[i] = false
		g.reset()
	}
	for i, g := range o.positional {
		if g != nil {
			o.posMatched[i] = false
			g.reset()
		}
	}
}

func (o *Object) match(tz *token.Tokenizer) error {
	switch tz.Kind() {
	case token.BeginObject:
		o.kind = token.BeginObject
	case token.Null:
		if o.AllowNull {
			o.kind = token.Null
			return nil
		}
		return fmt.Errorf("%w: expected object, got null", ErrTypeMismatch)
	default:
		return fmt.Errorf("%w: expected object, got %v", ErrTypeMismatch, tz.Kind())
	}
	for i := 0; ; i++ {
		if !tz.Next() {
			return tz.Err()
		}
		if tz.Kind() == token.EndObject {
			break
		}
		g := o.lookup(tz.Value(), i)
		if g == nil {
			// Unclaimed member, drop its whole value.
			if !tz.Skip() {
				return tz.Err()
			}
			continue
		}
		if !tz.Next() {
			return tz.Err()
		}
		if err := g.match(tz); err != nil {
			return err
		}
	}
	if o.Strict {
		for i, m := range o.matched {
			if !m {
				return fmt.Errorf("%w: %q", ErrRequiredField, o.names[i])
			}
		}
		for i, g := range o.positional {
			if g != nil && !o.posMatched[i] {
				return fmt.Errorf("%w: member %d", ErrRequiredField, i)
			}
		}
	}
	return nil
}

func (o *Object) lookup(name []byte, i int) Getter {
	if j, ok := o.byName[string(name)]; ok {
		o.matched[j] = true
		return o.getters[j]
	}
	if i < len(o.positional) && o.positional[i] != nil {
		o.posMatched[i] = true
		return o.positional[i]
	}
	return nil
}
