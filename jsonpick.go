package jsonpick

import (
	"io"

	"github.com/davral/jsonpick/bind"
	"github.com/davral/jsonpick/dom"
)

// Parse builds a document tree from data with a throwaway parser.  The
// tree borrows from data; both stay alive as long as the caller keeps
// either reachable.
func Parse(data []byte) (*dom.Node, error) {
	var p dom.Parser
	return p.Parse(data)
}

// ParseString is Parse for string input.
func ParseString(data string) (*dom.Node, error) {
	var p dom.Parser
	return p.ParseString(data)
}

// Print serializes n; a negative indent produces single-line output, a
// negative decimals the shortest number form.
func Print(n *dom.Node, indent, decimals int) []byte {
	return dom.Print(n, indent, decimals)
}

// Fprint writes the serialized form of n to w.
func Fprint(w io.Writer, n *dom.Node, indent, decimals int) error {
	return dom.Fprint(w, n, indent, decimals)
}

// Unmarshal parses data and binds it into a fresh T.
func Unmarshal[T any](data []byte) (T, error) {
	return bind.FromBytes[T](data)
}

// UnmarshalString is Unmarshal for string input.
func UnmarshalString[T any](data string) (T, error) {
	return bind.FromString[T](data)
}
