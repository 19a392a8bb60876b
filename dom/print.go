package dom

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/davral/jsonpick/escape"
)

// The Printer interface is the output layer of the Encoder.
//
// Indent() starts a new line at an increased indentation level
// Dedent() starts a new line at a decreased indentation level
// NewLine() starts a new line at the current indentation level
// PrintBytes() outputs bytes at the current position
//
// The methods do not return an error because an output error leaves nothing
// sensible to continue with.  Implementations panic with a *PrinterError
// instead, which CatchPrinterError converts back into a plain error at the
// top of the printing call.
type Printer interface {
	Indent()
	Dedent()
	NewLine()
	PrintBytes([]byte)
}

// CatchPrinterError captures a panic raised by a Printer implementation and
// stores the underlying error in *err.  See the Printer interface
// documentation.
func CatchPrinterError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(*PrinterError)
		if ok {
			*err = perr
		} else {
			panic(r)
		}
	}
}

// A PrinterError wraps an error that occurred while a Printer was sending
// output.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer error: %s", e.Err)
}

func (e *PrinterError) Unwrap() error {
	return e.Err
}

// DefaultPrinter is a Printer writing to an io.Writer with IndentSize
// spaces per indentation level.  A negative IndentSize suppresses new lines
// entirely so all output lands on a single line; zero keeps the new lines
// but drops the indentation.
type DefaultPrinter struct {
	io.Writer
	IndentSize  int
	indentLevel int
}

var _ Printer = &DefaultPrinter{}

func (p *DefaultPrinter) NewLine() {
	if p.IndentSize < 0 {
		return
	}
	if _, err := p.Write([]byte{'\n'}); err != nil {
		panic(&PrinterError{Err: err})
	}
	for i := p.IndentSize * p.indentLevel; i > 0; i-- {
		if _, err := p.Write([]byte{' '}); err != nil {
			panic(&PrinterError{Err: err})
		}
	}
}

func (p *DefaultPrinter) Indent() {
	p.indentLevel++
	p.NewLine()
}

func (p *DefaultPrinter) Dedent() {
	p.indentLevel--
	p.NewLine()
}

func (p *DefaultPrinter) PrintBytes(b []byte) {
	if _, err := p.Write(b); err != nil {
		panic(&PrinterError{Err: err})
	}
}

// A Colorizer supplies ANSI codes wrapped around printed tokens.  A nil
// Colorizer prints plain text.
type Colorizer struct {
	KeyColorCode     []byte
	StringColorCode  []byte
	NumberColorCode  []byte
	LiteralColorCode []byte
	ResetCode        []byte
}

func (c *Colorizer) colorCode(k Kind) []byte {
	switch k {
	case String, RawString:
		return c.StringColorCode
	case Number:
		return c.NumberColorCode
	default:
		return c.LiteralColorCode
	}
}

// An Encoder serializes a Node tree through a Printer.
//
// Decimals controls number formatting: a non-negative value prints every
// number in fixed notation with that many fraction digits, a negative value
// prints the shortest representation that survives a round trip.
//
// Compact selects single-line separators ("a":1 and [1, 2, 3]); it should
// agree with the Printer (a DefaultPrinter with negative IndentSize).
type Encoder struct {
	Printer   Printer
	Colorizer *Colorizer
	Decimals  int
	Compact   bool

	scratch []byte
}

// Encode writes the serialized form of n, returning any output error
// captured from the Printer.
func (e *Encoder) Encode(n *Node) (err error) {
	defer CatchPrinterError(&err)
	e.node(n)
	return nil
}

func (e *Encoder) node(n *Node) {
	switch n.Kind() {
	case Object:
		e.object(n)
	case Array:
		e.array(n)
	case String, RawString:
		e.colored(n.kind, func() { e.string(n) })
	case Number:
		e.colored(Number, func() {
			e.scratch = appendNumber(e.scratch[:0], n.num, e.Decimals)
			e.Printer.PrintBytes(e.scratch)
		})
	case True:
		e.colored(True, func() { e.Printer.PrintBytes(trueBytes) })
	case False:
		e.colored(False, func() { e.Printer.PrintBytes(falseBytes) })
	default:
		e.colored(Null, func() { e.Printer.PrintBytes(nullBytes) })
	}
}

func (e *Encoder) object(n *Node) {
	e.Printer.PrintBytes(openObjectBytes)
	for i, a := range n.attrs {
		if i > 0 {
			e.Printer.PrintBytes(memberSeparatorBytes)
			e.Printer.NewLine()
		} else {
			e.Printer.Indent()
		}
		e.name(a)
		if e.Compact {
			e.Printer.PrintBytes(colonBytes)
		} else {
			e.Printer.PrintBytes(colonSpaceBytes)
		}
		e.node(a.value)
	}
	if len(n.attrs) > 0 {
		e.Printer.Dedent()
	}
	e.Printer.PrintBytes(closeObjectBytes)
}

func (e *Encoder) array(n *Node) {
	e.Printer.PrintBytes(openArrayBytes)
	for i, el := range n.elems {
		if i > 0 {
			if e.Compact {
				e.Printer.PrintBytes(elementSeparatorBytes)
			} else {
				e.Printer.PrintBytes(memberSeparatorBytes)
				e.Printer.NewLine()
			}
		} else {
			e.Printer.Indent()
		}
		e.node(el)
	}
	if len(n.elems) > 0 {
		e.Printer.Dedent()
	}
	e.Printer.PrintBytes(closeArrayBytes)
}

func (e *Encoder) name(a *Attr) {
	if e.Colorizer != nil {
		e.Printer.PrintBytes(e.Colorizer.KeyColorCode)
	}
	e.Printer.PrintBytes(quoteBytes)
	if a.escaped {
		// Still in wire form, valid to emit verbatim.
		e.Printer.PrintBytes(a.name)
	} else {
		e.printEscaping(a.name)
	}
	e.Printer.PrintBytes(quoteBytes)
	if e.Colorizer != nil {
		e.Printer.PrintBytes(e.Colorizer.ResetCode)
	}
}

func (e *Encoder) string(n *Node) {
	e.Printer.PrintBytes(quoteBytes)
	if n.kind == String {
		e.Printer.PrintBytes(n.str)
	} else {
		e.printEscaping(n.str)
	}
	e.Printer.PrintBytes(quoteBytes)
}

func (e *Encoder) printEscaping(b []byte) {
	_ = escape.EscapeTo(b, func(chunk []byte) error {
		e.Printer.PrintBytes(chunk)
		return nil
	})
}

func (e *Encoder) colored(k Kind, print func()) {
	if e.Colorizer != nil {
		e.Printer.PrintBytes(e.Colorizer.colorCode(k))
	}
	print()
	if e.Colorizer != nil {
		e.Printer.PrintBytes(e.Colorizer.ResetCode)
	}
}

// appendNumber formats f the way the Encoder prints numbers, including the
// NaN and Infinity extension literals.
func appendNumber(dst []byte, f float64, decimals int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	case decimals >= 0:
		return strconv.AppendFloat(dst, f, 'f', decimals, 64)
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.AppendFloat(dst, f, 'e', -1, 64)
	}
	return strconv.AppendFloat(dst, f, 'f', -1, 64)
}

// Fprint writes n to w.  A negative indent produces single-line output; see
// Encoder for the meaning of decimals.
func Fprint(w io.Writer, n *Node, indent, decimals int) error {
	e := Encoder{
		Printer:  &DefaultPrinter{Writer: w, IndentSize: indent},
		Decimals: decimals,
		Compact:  indent < 0,
	}
	return e.Encode(n)
}

// Print returns the serialized form of n as a byte slice.
func Print(n *Node, indent, decimals int) []byte {
	var buf bytes.Buffer
	_ = Fprint(&buf, n, indent, decimals)
	return buf.Bytes()
}

var (
	openObjectBytes       = []byte("{")
	closeObjectBytes      = []byte("}")
	openArrayBytes        = []byte("[")
	closeArrayBytes       = []byte("]")
	memberSeparatorBytes  = []byte(",")
	elementSeparatorBytes = []byte(", ")
	colonBytes            = []byte(":")
	colonSpaceBytes       = []byte(": ")
	quoteBytes            = []byte(`"`)
	trueBytes             = []byte("true")
	falseBytes            = []byte("false")
	nullBytes             = []byte("null")
)
