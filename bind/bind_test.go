package bind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type device struct {
	UA   string `json:"ua"`
	Geo  geo    `json:"geo"`
	DNT  int    `json:"dnt"`
	Imp  []imp  `json:"imp"`
	Tags []string
}

type imp struct {
	W int `json:"w"`
	H int `json:"h"`
}

func TestFromString(t *testing.T) {
	d, err := FromString[device](`{
		"ua": "agent\t1",
		"geo": {"lat": 1.5, "lon": -2.5},
		"dnt": 1,
		"imp": [{"w": 640, "h": 480}, {"w": 300}],
		"Tags": ["a", "b"]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "agent\t1", d.UA)
	assert.Equal(t, 1.5, d.Geo.Lat)
	assert.Equal(t, -2.5, d.Geo.Lon)
	assert.Equal(t, 1, d.DNT)
	require.Len(t, d.Imp, 2)
	assert.Equal(t, imp{W: 640, H: 480}, d.Imp[0])
	assert.Equal(t, imp{W: 300}, d.Imp[1])
	assert.Equal(t, []string{"a", "b"}, d.Tags)
}

func TestBindSkipsUnknownAndNull(t *testing.T) {
	type target struct {
		A int
		B string
	}
	v, err := FromString[target](`{"A": 3, "B": null, "unknown": {"x": 1}}`)
	require.NoError(t, err)
	assert.Equal(t, 3, v.A)
	assert.Equal(t, "", v.B)
}

func TestBindSkipsUnexportedAndUnsupported(t *testing.T) {
	type target struct {
		A       int
		hidden  int
		Mapping map[string]int
		Func    func()
	}
	v, err := FromString[target](`{"A": 1, "hidden": 2, "Mapping": {"x": 1}, "Func": 3}`)
	require.NoError(t, err)
	assert.Equal(t, 1, v.A)
	assert.Equal(t, 0, v.hidden)
	assert.Nil(t, v.Mapping)
}

func TestBindTagDash(t *testing.T) {
	type target struct {
		Keep int `json:"keep"`
		Skip int `json:"-"`
	}
	v, err := FromString[target](`{"keep": 1, "Skip": 2, "-": 3}`)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Keep)
	assert.Equal(t, 0, v.Skip)
}

func TestBindPointerField(t *testing.T) {
	type target struct {
		Geo *geo `json:"geo"`
	}
	v, err := FromString[target](`{"geo": {"lat": 4}}`)
	require.NoError(t, err)
	require.NotNil(t, v.Geo)
	assert.Equal(t, 4.0, v.Geo.Lat)

	v, err = FromString[target](`{"geo": null}`)
	require.NoError(t, err)
	assert.Nil(t, v.Geo)
}

func TestBindMismatch(t *testing.T) {
	type target struct {
		N int `json:"n"`
	}
	_, err := FromString[target](`{"n": "nope"}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = FromString[target](`{"n": 1.5}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = FromString[target](`{"n": [1]}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBindOverflow(t *testing.T) {
	type target struct {
		Small int8   `json:"small"`
		U     uint16 `json:"u"`
	}
	_, err := FromString[target](`{"small": 200}`)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = FromString[target](`{"u": -1}`)
	assert.ErrorIs(t, err, ErrOverflow)
	v, err := FromString[target](`{"small": -128, "u": 65535}`)
	require.NoError(t, err)
	assert.Equal(t, int8(-128), v.Small)
	assert.Equal(t, uint16(65535), v.U)
}

func TestBindOverflowAtWordBoundary(t *testing.T) {
	type big struct {
		N int64  `json:"n"`
		U uint64 `json:"u"`
	}
	// 2^63 and 2^64 land exactly on float64 values, so they must still be
	// rejected, not converted.
	_, err := FromString[big](`{"n": 9223372036854775808}`)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = FromString[big](`{"u": 18446744073709551616}`)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := FromString[big](`{"n": -9223372036854775808, "u": 9223372036854775808}`)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v.N)
	assert.Equal(t, uint64(1)<<63, v.U)

	w, err := FromString[big](`{"n": 4611686018427387904}`)
	require.NoError(t, err)
	assert.Equal(t, int64(1)<<62, w.N)
}

type scalarBag struct {
	items []any
}

func (b *scalarBag) Append(v any) {
	b.items = append(b.items, v)
}

func TestBindAppender(t *testing.T) {
	type target struct {
		Bag scalarBag `json:"bag"`
	}
	v, err := FromString[target](`{"bag": [1.5, "two", true, null]}`)
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, "two", true, nil}, v.Bag.items)

	_, err = FromString[target](`{"bag": [[1]]}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = FromString[target](`{"bag": 7}`)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestBindBadTarget(t *testing.T) {
	var n int
	assert.ErrorIs(t, Bind(nil, &n), ErrBadTarget)
	assert.ErrorIs(t, Bind(nil, nil), ErrBadTarget)
	type target struct{ A int }
	var v target
	assert.ErrorIs(t, Bind(nil, v), ErrBadTarget)
}

func TestBindRootErrors(t *testing.T) {
	type target struct{ A int }
	_, err := FromString[target](`42`)
	assert.Error(t, err)
	_, err = FromString[target](`{"A":`)
	assert.Error(t, err)
}

func TestBindSliceOfSlices(t *testing.T) {
	type target struct {
		Grid [][]int `json:"grid"`
	}
	v, err := FromString[target](`{"grid": [[1, 2], [], [3]]}`)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {}, {3}}, v.Grid)
}
