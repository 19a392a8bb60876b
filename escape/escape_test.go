package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{``, ``},
		{`plain`, `plain`},
		{`abc\tb`, "abc\tb"},
		{`\"quoted\"`, `"quoted"`},
		{`a\\b`, `a\b`},
		{`a\/b`, `a/b`},
		{`\b\f\n\r\t`, "\b\f\n\r\t"},
		{`\u0041`, "A"},
		{`\u00e9t\u00e9`, "été"},
		{`snow \u2603!`, "snow ☃!"},
		{`\ud83d\ude00`, "\U0001F600"},
		{`mixed\n1`, "mixed\n1"},
	}
	for _, tc := range tests {
		got, err := Unescape([]byte(tc.in))
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, string(got), "input %q", tc.in)
	}
}

func TestUnescapeErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{`tail\`, ErrTrailingBackslash},
		{`\x41`, ErrUnknownEscape},
		{`\q`, ErrUnknownEscape},
		{`\u12`, ErrBadUnicodeEscape},
		{`\uzzzz`, ErrBadUnicodeEscape},
	}
	for _, tc := range tests {
		_, err := Unescape([]byte(tc.in))
		assert.ErrorIs(t, err, tc.err, "input %q", tc.in)
	}
}

func TestUnescapeLoneSurrogate(t *testing.T) {
	got, err := Unescape([]byte(`\ud800x`))
	require.NoError(t, err)
	assert.Equal(t, "�x", string(got))
}

func TestUnescapeZeroCopy(t *testing.T) {
	in := []byte("no escapes here")
	got, err := Unescape(in)
	require.NoError(t, err)
	assert.Equal(t, &in[0], &got[0], "escape-free input should not be copied")
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"abc\tb", `abc\tb`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"a/b", `a\/b`},
		{"\b\f\n\r\t", `\b\f\n\r\t`},
		{"été", "été"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, string(Escape([]byte(tc.in))), "input %q", tc.in)
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	inputs := []string{
		"abc\tb",
		"line1\nline2\r\n",
		`quotes " and \ slashes / here`,
		"unicode: ☃ \U0001F600",
	}
	for _, in := range inputs {
		back, err := Unescape(Escape([]byte(in)))
		require.NoError(t, err)
		assert.Equal(t, in, string(back))
	}
}

func TestEscapeToChunks(t *testing.T) {
	var chunks []string
	err := EscapeTo([]byte("a\tb\nc"), func(b []byte) error {
		chunks = append(chunks, string(b))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", `\t`, "b", `\n`, "c"}, chunks)
}

func TestUnescapeToChunks(t *testing.T) {
	var out []byte
	err := UnescapeTo([]byte(`a\tb`), func(b []byte) error {
		out = append(out, b...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a\tb", string(out))
}

func TestNeeded(t *testing.T) {
	assert.False(t, Needed([]byte("plain text")))
	assert.True(t, Needed([]byte(`has "quote`)))
	assert.True(t, Needed([]byte("has/slash")))
	assert.True(t, Needed([]byte("tab\there")))
}

func TestCheck(t *testing.T) {
	valid := []string{``, `plain`, `a\tb`, `\"q\"`, `\u0041`, `\ud800x`, `a\`}
	for _, in := range valid {
		assert.NoError(t, Check([]byte(in)), "input %q", in)
	}
	tests := []struct {
		in  string
		err error
	}{
		{`tail\`, ErrTrailingBackslash},
		{`\q`, ErrUnknownEscape},
		{`\u12`, ErrBadUnicodeEscape},
		{`\uzzzz`, ErrBadUnicodeEscape},
	}
	for _, tc := range tests {
		assert.ErrorIs(t, Check([]byte(tc.in)), tc.err, "input %q", tc.in)
	}
}
