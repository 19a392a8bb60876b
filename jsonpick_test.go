package jsonpick

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndPrint(t *testing.T) {
	n, err := ParseString(`{"a":1,"b":[true,false,null]}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true, false, null]}`, string(Print(n, -1, -1)))

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, n, -1, -1))
	assert.Equal(t, `{"a":1,"b":[true, false, null]}`, buf.String())
}

func TestUnmarshal(t *testing.T) {
	type point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	p, err := Unmarshal[point]([]byte(`{"x": 1, "y": 2}`))
	require.NoError(t, err)
	assert.Equal(t, point{X: 1, Y: 2}, p)

	_, err = UnmarshalString[point](`{"x": "nope"}`)
	assert.Error(t, err)
}
