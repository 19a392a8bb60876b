package dom

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/davral/jsonpick/escape"
	"github.com/davral/jsonpick/token"
)

var (
	// ErrBadRoot is returned when the input is not a JSON object or array.
	ErrBadRoot = errors.New("document must be an object or an array")

	// ErrTooDeep is returned when nesting exceeds the Parser's MaxDepth.
	ErrTooDeep = errors.New("nesting too deep")
)

// DefaultMaxDepth bounds nesting when Parser.MaxDepth is left zero.
const DefaultMaxDepth = 128

// A Parser turns JSON text into a Node tree.  All nodes, members and
// decoded strings are owned by the Parser and recycled on the next Parse
// call; callers needing a tree to outlive the Parser must copy what they
// keep.  The zero value is ready to use.
type Parser struct {
	// MaxDepth limits container nesting; zero means DefaultMaxDepth and a
	// negative value forbids containers entirely.
	MaxDepth int

	// ExtendedLiterals enables NaN, Infinity and -Infinity values.
	ExtendedLiterals bool

	tz    token.Tokenizer
	nodes arena[Node]
	attrs arena[Attr]
}

// Parse builds the document tree for data.  The returned tree borrows
// string payloads from data and stays valid until the next Parse call.
func (p *Parser) Parse(data []byte) (*Node, error) {
	p.nodes.reset()
	p.attrs.reset()
	p.tz.ExtendedLiterals = p.ExtendedLiterals
	if !p.tz.Reset(data) {
		return nil, ErrBadRoot
	}
	if !p.tz.Next() {
		return nil, p.tz.Err()
	}
	root, err := p.value(1)
	if err != nil {
		return nil, err
	}
	// Pull once more so trailing garbage after the root surfaces as an
	// error rather than being silently ignored.
	if p.tz.Next() || p.tz.Err() != nil {
		return nil, p.tz.Err()
	}
	return root, nil
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(data string) (*Node, error) {
	return p.Parse([]byte(data))
}

func (p *Parser) maxDepth() int {
	switch {
	case p.MaxDepth > 0:
		return p.MaxDepth
	case p.MaxDepth < 0:
		return 0
	default:
		return DefaultMaxDepth
	}
}

// value builds the node for the token the tokenizer is positioned on.
func (p *Parser) value(depth int) (*Node, error) {
	n := p.nodes.alloc()
	n.fields = nil
	switch k := p.tz.Kind(); k {
	case token.BeginObject:
		if depth > p.maxDepth() {
			return nil, fmt.Errorf("%w: %d levels", ErrTooDeep, depth)
		}
		n.kind = Object
		n.attrs = n.attrs[:0]
		return n, p.object(n, depth)
	case token.BeginArray:
		if depth > p.maxDepth() {
			return nil, fmt.Errorf("%w: %d levels", ErrTooDeep, depth)
		}
		n.kind = Array
		n.elems = n.elems[:0]
		return n, p.array(n, depth)
	case token.String:
		v := p.tz.Value()
		if bytes.IndexByte(v, '\\') >= 0 {
			if err := escape.Check(v); err != nil {
				return nil, &token.SyntaxError{Offset: p.tz.Offset(), Err: err}
			}
			n.kind = String
		} else {
			n.kind = RawString
		}
		n.str = v
		return n, nil
	case token.Number:
		f, err := strconv.ParseFloat(string(p.tz.Value()), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("%w: %q", token.ErrBadNumber, p.tz.Value())
		}
		n.kind = Number
		n.num = f
		return n, nil
	case token.True:
		n.kind = True
		return n, nil
	case token.False:
		n.kind = False
		return n, nil
	case token.Null:
		n.kind = Null
		return n, nil
	case token.NaN:
		n.kind = Number
		n.num = math.NaN()
		return n, nil
	case token.Infinity:
		n.kind = Number
		n.num = math.Inf(1)
		return n, nil
	case token.NegInfinity:
		n.kind = Number
		n.num = math.Inf(-1)
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %v token", token.ErrExpectedValue, k)
	}
}

func (p *Parser) object(n *Node, depth int) error {
	for {
		if !p.tz.Next() {
			return p.tz.Err()
		}
		if p.tz.Kind() == token.EndObject {
			return nil
		}
		a := p.attrs.alloc()
		name := p.tz.Value()
		a.name = name
		a.escaped = bytes.IndexByte(name, '\\') >= 0
		if a.escaped {
			if err := escape.Check(name); err != nil {
				return &token.SyntaxError{Offset: p.tz.Offset(), Err: err}
			}
		}
		if !p.tz.Next() {
			return p.tz.Err()
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return err
		}
		a.value = v
		n.attrs = append(n.attrs, a)
	}
}

func (p *Parser) array(n *Node, depth int) error {
	for {
		if !p.tz.Next() {
			return p.tz.Err()
		}
		if p.tz.Kind() == token.EndArray {
			return nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return err
		}
		n.elems = append(n.elems, v)
	}
}
