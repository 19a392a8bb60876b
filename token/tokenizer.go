package token

import (
	"bytes"

	"github.com/davral/jsonpick/internal/debug"
)

// A Tokenizer is a pull parser over a single in-memory JSON document.  It
// produces one classified token per Next call and never allocates beyond
// its own nesting stack: Name, String and Number values are slices into the
// input buffer, valid for as long as that buffer is.
//
// The usage pattern follows bufio.Scanner:
//
//	var tz token.Tokenizer
//	if !tz.Reset(data) {
//		// not a JSON object or array
//	}
//	for tz.Next() {
//		// tz.Kind(), tz.Value()
//	}
//	if err := tz.Err(); err != nil {
//		// syntax error with byte offset
//	}
//
// A Tokenizer is not safe for concurrent use; any syntax error invalidates
// it until the next Reset.
type Tokenizer struct {
	// ExtendedLiterals enables the non-standard NaN, Infinity and
	// -Infinity literals.
	ExtendedLiterals bool

	data  []byte
	pos   int
	off   int
	stack []byte // '{' and '[' markers, one per open container

	kind  Kind
	value []byte
	err   error
}

// Reset rewinds the Tokenizer onto data.  It reports false, leaving the
// Tokenizer empty, when the input contains only whitespace or does not
// start with '{' or '[': a document must be an object or an array at the
// top level.
func (t *Tokenizer) Reset(data []byte) bool {
	t.data = data
	t.pos = 0
	t.off = 0
	t.stack = t.stack[:0]
	t.kind = None
	t.value = nil
	t.err = nil
	if !t.skipSpace() {
		t.data = nil
		return false
	}
	if c := data[t.pos]; c != '{' && c != '[' {
		t.data = nil
		return false
	}
	return true
}

// Next advances to the next token, reporting false at the end of the
// document or on a syntax error (then Err is non-nil).
func (t *Tokenizer) Next() bool {
	if t.err != nil || t.data == nil {
		return false
	}
	if t.kind == None {
		// First call after Reset: the cursor sits on '{' or '['.
		return t.scanValue()
	}
	if len(t.stack) == 0 {
		// The root container has closed; only whitespace may remain.
		if t.skipSpace() {
			return t.fail(ErrTrailingData, t.pos)
		}
		t.kind = None
		t.value = nil
		return false
	}
	if t.stack[len(t.stack)-1] == '{' {
		return t.nextInObject()
	}
	return t.nextInArray()
}

// Kind returns the kind of the current token.
func (t *Tokenizer) Kind() Kind { return t.kind }

// Value returns the payload of the current token: the raw digits of a
// Number, or the still-escaped contents of a Name or String (quotes
// stripped).  The slice borrows from the input buffer.
func (t *Tokenizer) Value() []byte { return t.value }

// Offset returns the byte offset of the start of the current token.
func (t *Tokenizer) Offset() int { return t.off }

// Depth returns the number of currently open containers.
func (t *Tokenizer) Depth() int { return len(t.stack) }

// Err returns the syntax error that stopped the Tokenizer, if any.
func (t *Tokenizer) Err() error { return t.err }

// Skip advances past the value the Tokenizer is positioned on, however
// deeply nested: on a Begin token it consumes tokens until the matching End
// token; on a Name token it consumes the member's value; on a scalar it is
// a no-op.  It reports false on a syntax error.
func (t *Tokenizer) Skip() bool {
	switch t.kind {
	case Name:
		if !t.Next() {
			return false
		}
		return t.Skip()
	case BeginObject, BeginArray:
		depth := 1
		for depth > 0 {
			if !t.Next() {
				return false
			}
			switch t.kind {
			case BeginObject, BeginArray:
				depth++
			case EndObject, EndArray:
				depth--
			}
		}
		return true
	default:
		return true
	}
}

func (t *Tokenizer) nextInObject() bool {
	if t.kind == Name {
		if !t.skipSpace() {
			return t.fail(ErrUnexpectedEnd, t.pos)
		}
		if t.data[t.pos] != ':' {
			return t.fail(ErrExpectedColon, t.pos)
		}
		t.pos++
		return t.scanValue()
	}
	if !t.skipSpace() {
		return t.fail(ErrUnexpectedEnd, t.pos)
	}
	c := t.data[t.pos]
	if c == '}' {
		return t.closeContainer(EndObject)
	}
	if t.kind != BeginObject {
		// A member value has just been completed.
		if c != ',' {
			return t.fail(ErrExpectedComma, t.pos)
		}
		t.pos++
		if !t.skipSpace() {
			return t.fail(ErrUnexpectedEnd, t.pos)
		}
		c = t.data[t.pos]
	}
	if c != '"' {
		return t.fail(ErrExpectedName, t.pos)
	}
	t.off = t.pos
	v, ok := t.scanString()
	if !ok {
		return false
	}
	t.kind = Name
	t.value = v
	return true
}

func (t *Tokenizer) nextInArray() bool {
	if !t.skipSpace() {
		return t.fail(ErrUnexpectedEnd, t.pos)
	}
	if t.data[t.pos] == ']' {
		return t.closeContainer(EndArray)
	}
	if t.kind != BeginArray {
		if t.data[t.pos] != ',' {
			return t.fail(ErrExpectedComma, t.pos)
		}
		t.pos++
	}
	return t.scanValue()
}

func (t *Tokenizer) closeContainer(k Kind) bool {
	t.off = t.pos
	t.pos++
	t.stack = t.stack[:len(t.stack)-1]
	t.kind = k
	t.value = nil
	return true
}

func (t *Tokenizer) scanValue() bool {
	if !t.skipSpace() {
		return t.fail(ErrUnexpectedEnd, t.pos)
	}
	t.off = t.pos
	switch c := t.data[t.pos]; {
	case c == '{':
		t.pos++
		t.stack = append(t.stack, '{')
		t.kind = BeginObject
		t.value = nil
		return true
	case c == '[':
		t.pos++
		t.stack = append(t.stack, '[')
		t.kind = BeginArray
		t.value = nil
		return true
	case c == '"':
		v, ok := t.scanString()
		if !ok {
			return false
		}
		t.kind = String
		t.value = v
		return true
	case c == 't':
		return t.literal("true", True)
	case c == 'f':
		return t.literal("false", False)
	case c == 'n':
		return t.literal("null", Null)
	case t.ExtendedLiterals && c == 'N':
		return t.literal("NaN", NaN)
	case t.ExtendedLiterals && c == 'I':
		return t.literal("Infinity", Infinity)
	case t.ExtendedLiterals && c == '-' && t.pos+1 < len(t.data) && t.data[t.pos+1] == 'I':
		return t.literal("-Infinity", NegInfinity)
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return t.scanNumber()
	default:
		return t.fail(ErrExpectedValue, t.pos)
	}
}

func (t *Tokenizer) literal(lit string, k Kind) bool {
	rest := t.data[t.pos:]
	if len(rest) < len(lit) {
		if bytes.HasPrefix([]byte(lit), rest) {
			return t.fail(ErrUnexpectedEnd, len(t.data))
		}
		return t.fail(ErrBadLiteral, t.pos)
	}
	if string(rest[:len(lit)]) != lit {
		return t.fail(ErrBadLiteral, t.pos)
	}
	t.pos += len(lit)
	t.kind = k
	t.value = nil
	return true
}

// scanNumber accepts an optional sign, a digit run, an optional fraction
// and an optional exponent.  The token value is the raw substring; decoding
// is left to the consumer.
func (t *Tokenizer) scanNumber() bool {
	start := t.pos
	if c := t.data[t.pos]; c == '-' || c == '+' {
		t.pos++
	}
	if t.digitRun() == 0 {
		return t.fail(ErrBadNumber, start)
	}
	if t.pos < len(t.data) && t.data[t.pos] == '.' {
		t.pos++
		if t.pos == len(t.data) {
			return t.fail(ErrUnexpectedEnd, len(t.data))
		}
		if t.digitRun() == 0 {
			return t.fail(ErrBadNumber, start)
		}
	}
	if t.pos < len(t.data) && (t.data[t.pos] == 'e' || t.data[t.pos] == 'E') {
		t.pos++
		if t.pos < len(t.data) && (t.data[t.pos] == '-' || t.data[t.pos] == '+') {
			t.pos++
		}
		if t.pos == len(t.data) {
			return t.fail(ErrUnexpectedEnd, len(t.data))
		}
		if t.digitRun() == 0 {
			return t.fail(ErrBadNumber, start)
		}
	}
	t.kind = Number
	t.value = t.data[start:t.pos]
	return true
}

func (t *Tokenizer) digitRun() int {
	n := 0
	for t.pos < len(t.data) && t.data[t.pos] >= '0' && t.data[t.pos] <= '9' {
		t.pos++
		n++
	}
	return n
}

// scanString consumes a quoted string starting at t.pos and returns its
// contents without the quotes, still escaped.  A closing quote preceded by
// an odd number of consecutive backslashes is escaped and does not
// terminate the string.
func (t *Tokenizer) scanString() ([]byte, bool) {
	start := t.pos
	i := start + 1
	for {
		j := bytes.IndexByte(t.data[i:], '"')
		if j < 0 {
			return nil, t.fail(ErrUnexpectedEnd, len(t.data))
		}
		q := i + j
		backslashes := 0
		for k := q - 1; k > start && t.data[k] == '\\'; k-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			t.pos = q + 1
			return t.data[start+1 : q], true
		}
		i = q + 1
	}
}

// skipSpace advances past whitespace (any byte <= 0x20) and reports whether
// a byte remains to be read.
func (t *Tokenizer) skipSpace() bool {
	for t.pos < len(t.data) && t.data[t.pos] <= 0x20 {
		t.pos++
	}
	return t.pos < len(t.data)
}

func (t *Tokenizer) fail(err error, offset int) bool {
	t.err = syntaxError(err, offset)
	if debug.On {
		debug.Printf("tokenizer stopped: %s", t.err)
	}
	t.kind = None
	t.value = nil
	return false
}
