package source

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefine(t *testing.T) {
	cases := []struct {
		in    string
		name  string
		value *string
	}{
		{"FOO", "FOO", nil},
		{"FOO=1", "FOO", Value("1")},
		{" FOO = bar ", "FOO", Value("bar")},
		{"FOO=", "FOO", Value("")},
		{"A=b=c", "A", Value("b=c")},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d := ParseDefine(tc.in)
			assert.Equal(t, tc.name, d.Name)
			assert.Equal(t, tc.value, d.Value)
		})
	}
}

func TestDefine_String(t *testing.T) {
	assert.Equal(t, "FOO", Define{Name: "FOO"}.String())
	assert.Equal(t, "FOO", Define{Name: "FOO", Value: Value("")}.String())
	assert.Equal(t, "FOO=3", Define{Name: "FOO", Value: Value("3")}.String())
}

func TestDefine_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Define{{Name: "A"}, {Name: "B", Value: Value("1")}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["A", null], ["B", "1"]]`, string(data))
}

func TestDefine_Compare(t *testing.T) {
	assert.Negative(t, Define{Name: "A"}.Compare(Define{Name: "B"}))
	assert.Negative(t, Define{Name: "A"}.Compare(Define{Name: "A", Value: Value("0")}))
	assert.Positive(t, Define{Name: "A", Value: Value("2")}.Compare(Define{Name: "A", Value: Value("1")}))
	assert.Zero(t, Define{Name: "A"}.Compare(Define{Name: "A"}))
}

func TestDefines_CaseInsensitiveKeys(t *testing.T) {
	d := NewDefines(
		Define{Name: "Width", Value: Value("8")},
		Define{Name: "DEPTH"},
		Define{Name: "WIDTH", Value: Value("16")},
	)

	require.Equal(t, 2, d.Len())
	got, ok := d.Get("width")
	require.True(t, ok)
	assert.Equal(t, "WIDTH", got.Name)
	assert.Equal(t, "16", *got.Value)

	// the first spelling decides the position, the last one the display
	assert.Equal(t, []Define{
		{Name: "WIDTH", Value: Value("16")},
		{Name: "DEPTH"},
	}, d.List())
}

func TestDefines_MergeChildWins(t *testing.T) {
	parent := NewDefines(Define{Name: "A", Value: Value("1")}, Define{Name: "B"})
	child := NewDefines(Define{Name: "C"}, Define{Name: "a", Value: Value("2")})

	merged := parent.Merge(child)

	assert.Equal(t, []Define{
		{Name: "a", Value: Value("2")},
		{Name: "B"},
		{Name: "C"},
	}, merged.List())

	// inputs are left untouched
	assert.Equal(t, []Define{{Name: "A", Value: Value("1")}, {Name: "B"}}, parent.List())
	assert.Equal(t, 2, child.Len())
}

func TestDefines_ZeroValue(t *testing.T) {
	var d Defines
	_, ok := d.Get("X")
	assert.False(t, ok)
	assert.Empty(t, d.List())
	assert.Equal(t, 1, d.Merge(NewDefines(Define{Name: "X"})).Len())
}
