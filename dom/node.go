// Package dom builds a complete, arena-allocated document tree from JSON
// text and can serialize it back.  All nodes of one document live in the
// owning Parser's arenas: they stay valid until the next Parse or Reset
// call on that Parser, and their string payloads borrow from the input
// buffer wherever possible.
package dom

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/davral/jsonpick/escape"
)

// A Kind discriminates the payload of a Node.
type Kind uint8

const (
	Null Kind = iota
	Object
	Array
	String    // string payload still in its escaped wire form
	RawString // string payload already unescaped
	Number
	True
	False
)

var kindNames = [...]string{
	Null:      "Null",
	Object:    "Object",
	Array:     "Array",
	String:    "String",
	RawString: "RawString",
	Number:    "Number",
	True:      "True",
	False:     "False",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// A Node is one value of a parsed document.  Scalars store their payload
// inline; objects and arrays reference arena-allocated substructure.
type Node struct {
	kind  Kind
	num   float64
	str   []byte
	attrs []*Attr
	elems []*Node

	// Lazily built name index, keyed by xxhash of the member name.  Only
	// populated for objects past fieldIndexMin members.
	fields map[uint64]int
}

// An Attr is one name/value member of an object, in document order.
type Attr struct {
	name    []byte
	escaped bool
	value   *Node
}

// Objects below this size are looked up by plain linear scan; an index
// would cost more to build than it saves.
const fieldIndexMin = 16

func (n *Node) Kind() Kind {
	if n == nil {
		return Null
	}
	return n.kind
}

func (n *Node) IsNull() bool   { return n == nil || n.kind == Null }
func (n *Node) IsObject() bool { return n != nil && n.kind == Object }
func (n *Node) IsArray() bool  { return n != nil && n.kind == Array }
func (n *Node) IsNumber() bool { return n != nil && n.kind == Number }
func (n *Node) IsString() bool {
	return n != nil && (n.kind == String || n.kind == RawString)
}

// Len returns the number of members of an object or elements of an array,
// and 0 for every other kind.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case Object:
		return len(n.attrs)
	case Array:
		return len(n.elems)
	default:
		return 0
	}
}

// At returns the i-th array element, or nil when out of range or not an
// array.
func (n *Node) At(i int) *Node {
	if n == nil || n.kind != Array || i < 0 || i >= len(n.elems) {
		return nil
	}
	return n.elems[i]
}

// Attr returns the i-th object member in document order, or nil.
func (n *Node) Attr(i int) *Attr {
	if n == nil || n.kind != Object || i < 0 || i >= len(n.attrs) {
		return nil
	}
	return n.attrs[i]
}

// Get returns the value of the first member called name, or nil.  Lookup is
// a linear scan in document order; past fieldIndexMin members a hash index
// is materialized once and consulted instead.
func (n *Node) Get(name string) *Node {
	if n == nil || n.kind != Object {
		return nil
	}
	if n.fields == nil && len(n.attrs) >= fieldIndexMin {
		n.buildFieldIndex()
	}
	if n.fields != nil {
		i, ok := n.fields[xxhash.Sum64String(name)]
		if !ok {
			return nil
		}
		if a := n.attrs[i]; string(a.Name()) == name {
			return a.value
		}
		// Hash collision; fall through to the scan.
	}
	for _, a := range n.attrs {
		if string(a.Name()) == name {
			return a.value
		}
	}
	return nil
}

// Dig walks a path of member names, returning nil as soon as a step is
// missing or not an object.
func (n *Node) Dig(path ...string) *Node {
	for _, name := range path {
		n = n.Get(name)
		if n == nil {
			return nil
		}
	}
	return n
}

func (n *Node) buildFieldIndex() {
	fields := make(map[uint64]int, len(n.attrs))
	for i, a := range n.attrs {
		h := xxhash.Sum64(a.Name())
		// Keep the first occurrence so the index agrees with the scan on
		// duplicate names.
		if _, ok := fields[h]; !ok {
			fields[h] = i
		}
	}
	n.fields = fields
}

// AsBytes returns the unescaped payload of a string node, decoding it on
// first read; for a Number it returns nil (use AsFloat).
func (n *Node) AsBytes() []byte {
	if n == nil {
		return nil
	}
	if n.kind == String {
		u, err := escape.Unescape(n.str)
		if err != nil {
			// Parser output is escape-checked; a hand-built node with a bad
			// escape keeps its String tag so the condition stays visible.
			return n.str
		}
		n.str = u
		n.kind = RawString
	}
	if n.kind == RawString {
		return n.str
	}
	return nil
}

// AsString is AsBytes as a string.
func (n *Node) AsString() string {
	return string(n.AsBytes())
}

// AsFloat returns the numeric payload; True counts as 1, everything
// non-numeric as 0.
func (n *Node) AsFloat() float64 {
	if n == nil {
		return 0
	}
	switch n.kind {
	case Number:
		return n.num
	case True:
		return 1
	default:
		return 0
	}
}

// AsInt returns the numeric payload rounded to the nearest integer.
func (n *Node) AsInt() int64 {
	f := n.AsFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f))
}

func (n *Node) AsBool() bool {
	return n != nil && n.kind == True
}

// Name returns the member name with escapes decoded (decoding happens on
// first read and is remembered).
func (a *Attr) Name() []byte {
	if a.escaped {
		u, err := escape.Unescape(a.name)
		if err != nil {
			return a.name
		}
		a.name = u
		a.escaped = false
	}
	return a.name
}

// Value returns the member's value node.
func (a *Attr) Value() *Node {
	return a.value
}

// Equal reports whether two documents are structurally equal: same kinds
// (String and RawString payloads compare decoded), same member order, same
// element order.  NaN numbers compare equal to each other.
func Equal(a, b *Node) bool {
	if a.Kind() == Null || b.Kind() == Null {
		return a.Kind() == b.Kind()
	}
	ka, kb := a.kind, b.kind
	if ka == RawString {
		ka = String
	}
	if kb == RawString {
		kb = String
	}
	if ka != kb {
		return false
	}
	switch ka {
	case Object:
		if len(a.attrs) != len(b.attrs) {
			return false
		}
		for i, attr := range a.attrs {
			other := b.attrs[i]
			if string(attr.Name()) != string(other.Name()) {
				return false
			}
			if !Equal(attr.value, other.value) {
				return false
			}
		}
		return true
	case Array:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i, e := range a.elems {
			if !Equal(e, b.elems[i]) {
				return false
			}
		}
		return true
	case String:
		return string(a.AsBytes()) == string(b.AsBytes())
	case Number:
		return a.num == b.num || (math.IsNaN(a.num) && math.IsNaN(b.num))
	default:
		return true
	}
}
