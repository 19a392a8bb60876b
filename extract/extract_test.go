package extract

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davral/jsonpick/token"
)

func TestExtractNamedAndNested(t *testing.T) {
	var id, w Field
	imp := NewArray(func(i int, e *Elem) bool {
		if i != 0 {
			return false
		}
		e.Into(NewObject().Bind("w", &w))
		return true
	}, &w)
	m := NewMain(NewObject().Bind("id", &id).Bind("imp", imp))

	require.NoError(t, m.ParseString(`{"id":"x","imp":[{"w":640,"h":480}]}`))
	s, err := id.String()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	assert.Equal(t, "640", string(w.Bytes()))
	n, err := w.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(640), n)
}

func TestExtractSkipsUnclaimed(t *testing.T) {
	var id Field
	m := NewMain(NewObject().Bind("id", &id))
	require.NoError(t, m.ParseString(
		`{"junk":{"deep":[{"a":[1,2,{"b":3}]}]},"id":7,"more":[[],{}]}`))
	n, err := id.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestExtractIdempotentReset(t *testing.T) {
	var a, b Field
	m := NewMain(NewObject().Bind("a", &a).Bind("b", &b))
	input := `{"a":1,"b":"two"}`
	for i := 0; i < 2; i++ {
		require.NoError(t, m.ParseString(input))
		n, err := a.Int()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		s, err := b.String()
		require.NoError(t, err)
		assert.Equal(t, "two", s)
	}
	// A document without the fields leaves them unset again.
	require.NoError(t, m.ParseString(`{"c":3}`))
	assert.False(t, a.Exists())
	assert.False(t, b.Exists())
}

func TestExtractNullTolerance(t *testing.T) {
	tolerant := NewObject()
	tolerant.AllowNull = true
	m := NewMain(NewObject().Bind("bcat", tolerant))
	require.NoError(t, m.ParseString(`{"bcat": null}`))
	assert.Equal(t, token.Null, tolerant.Kind())
	assert.True(t, tolerant.IsNull())

	strict := NewObject()
	m = NewMain(NewObject().Bind("bcat", strict))
	err := m.ParseString(`{"bcat": null}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestExtractStrictMode(t *testing.T) {
	var a, b Field
	obj := NewObject().Bind("a", &a).Bind("b", &b)
	obj.Strict = true
	m := NewMain(obj)

	require.NoError(t, m.ParseString(`{"b":2,"a":1}`))

	err := m.ParseString(`{"b":2}`)
	require.ErrorIs(t, err, ErrRequiredField)
	// The first missing binding in declaration order is the one named.
	assert.Contains(t, err.Error(), `"a"`)

	obj.Strict = false
	require.NoError(t, m.ParseString(`{"b":2}`))
	assert.False(t, a.Exists())
}

func TestExtractPositional(t *testing.T) {
	var first, third Field
	m := NewMain(NewObject().At(0, &first).At(2, &third))
	require.NoError(t, m.ParseString(`{"x":10,"y":20,"z":30}`))
	n, err := first.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	n, err = third.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(30), n)
}

func TestExtractArrayCallback(t *testing.T) {
	var got []string
	arr := NewArray(func(i int, e *Elem) bool {
		if e.Kind() != token.Number {
			return false
		}
		got = append(got, fmt.Sprintf("%d=%s", i, e.Value()))
		return true
	})
	m := NewMain(NewObject().Bind("v", arr))
	require.NoError(t, m.ParseString(`{"v":[1,"skip",2,{"x":[3]},4]}`))
	assert.Equal(t, []string{"0=1", "2=2", "4=4"}, got)
	assert.Equal(t, token.BeginArray, arr.Kind())
}

func TestExtractArrayNullTolerance(t *testing.T) {
	arr := NewArray(nil)
	arr.AllowNull = true
	m := NewMain(NewObject().Bind("v", arr))
	require.NoError(t, m.ParseString(`{"v":null}`))
	assert.True(t, arr.IsNull())
}

func TestFieldConversions(t *testing.T) {
	var s, n, b, nul Field
	m := NewMain(NewObject().
		Bind("s", &s).Bind("n", &n).Bind("b", &b).Bind("nul", &nul))
	require.NoError(t, m.ParseString(`{"s":"a\tb","n":2.5,"b":true,"nul":null}`))

	str, err := s.String()
	require.NoError(t, err)
	assert.Equal(t, "a\tb", str)

	f, err := n.Float()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
	_, err = n.Int()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	v, err := b.Bool()
	require.NoError(t, err)
	assert.True(t, v)

	assert.True(t, nul.IsNull())
	_, err = nul.Float()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFieldIntOverflow(t *testing.T) {
	var n Field
	m := NewMain(NewObject().Bind("n", &n))
	require.NoError(t, m.ParseString(`{"n":99999999999999999999999}`))
	_, err := n.Int()
	assert.ErrorIs(t, err, ErrOverflow)
	// The float view saturates instead of failing.
	f, err := n.Float()
	require.NoError(t, err)
	assert.Equal(t, 1e23, f)
}

func TestFieldOnSet(t *testing.T) {
	calls := 0
	f := Field{OnSet: func(f *Field) {
		calls++
		assert.Equal(t, token.Number, f.Kind())
	}}
	m := NewMain(NewObject().Bind("n", &f))
	require.NoError(t, m.ParseString(`{"n":1}`))
	assert.Equal(t, 1, calls)
}

func TestFieldTypeMismatchOnContainer(t *testing.T) {
	var f Field
	m := NewMain(NewObject().Bind("v", &f))
	assert.ErrorIs(t, m.ParseString(`{"v":{"nested":1}}`), ErrTypeMismatch)
	assert.ErrorIs(t, m.ParseString(`{"v":[1]}`), ErrTypeMismatch)
}

func TestMainRejectsBadInput(t *testing.T) {
	m := NewMain(NewObject())
	assert.ErrorIs(t, m.ParseString(`42`), ErrBadRoot)
	assert.ErrorIs(t, m.ParseString(``), ErrBadRoot)
	assert.ErrorIs(t, m.ParseString(`{} extra`), token.ErrTrailingData)
	var serr *token.SyntaxError
	assert.ErrorAs(t, m.ParseString(`{"a":}`), &serr)
}

func TestExtendedLiteralExtraction(t *testing.T) {
	var f Field
	m := NewMain(NewObject().Bind("v", &f))
	m.ExtendedLiterals = true
	require.NoError(t, m.ParseString(`{"v":Infinity}`))
	v, err := f.Float()
	require.NoError(t, err)
	assert.True(t, v > 0 && v*2 == v)
}

func TestPool(t *testing.T) {
	type handles struct {
		id *Field
	}
	pool, err := NewPool(4, func() (*Main, handles) {
		id := NewField()
		return NewMain(NewObject().Bind("id", id)), handles{id: id}
	})
	require.NoError(t, err)
	defer pool.Release()

	const jobs = 100
	var mu sync.Mutex
	seen := make(map[int64]bool, jobs)
	for i := 0; i < jobs; i++ {
		doc := []byte(fmt.Sprintf(`{"pad":[1,2,3],"id":%d}`, i))
		require.NoError(t, pool.Go(doc, func(h handles, err error) {
			if !assert.NoError(t, err) {
				return
			}
			n, err := h.id.Int()
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}))
	}
	pool.Wait()
	assert.Len(t, seen, jobs)
}
