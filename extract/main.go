package extract

import "github.com/davral/jsonpick/token"

// A Main owns the tokenizer driving a getter schema.  Build it once, then
// call Parse per document; the schema is reset at the start of every parse
// so a Main can be reused indefinitely (from one goroutine at a time).
type Main struct {
	// ExtendedLiterals enables NaN, Infinity and -Infinity values.
	ExtendedLiterals bool

	root Getter
	tz   token.Tokenizer
}

// NewMain returns a Main driving root, usually an Object matching the
// document's top level.
func NewMain(root Getter) *Main {
	return &Main{root: root}
}

// Parse runs the schema over data.  Extracted values borrow from data and
// stay valid until the next Parse call at the earliest.
func (m *Main) Parse(data []byte) error {
	m.root.reset()
	m.tz.ExtendedLiterals = m.ExtendedLiterals
	if !m.tz.Reset(data) {
		return ErrBadRoot
	}
	if !m.tz.Next() {
		return m.tz.Err()
	}
	if err := m.root.match(&m.tz); err != nil {
		return err
	}
	// One more pull so trailing garbage after the root is reported.
	if m.tz.Next() || m.tz.Err() != nil {
		return m.tz.Err()
	}
	return nil
}

// ParseString is Parse for string input.
func (m *Main) ParseString(data string) error {
	return m.Parse([]byte(data))
}
