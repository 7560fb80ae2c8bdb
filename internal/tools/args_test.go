package tools

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/cassini-mcp/internal/registry"
)

// decodeArgs decodes JSON the way the dispatcher does, keeping numbers as json.Number.
func decodeArgs(t *testing.T, raw string) registry.Arguments {
	t.Helper()
	var args registry.Arguments
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&args))
	return args
}

func TestRequireString(t *testing.T) {
	args := decodeArgs(t, `{"s":"Titan","n":42,"f":1.5,"b":true,"z":null,"a":[1,2],"o":{"k":"v"}}`)

	tests := []struct {
		key  string
		want string
	}{
		{"s", "Titan"},
		{"n", "42"},
		{"f", "1.5"},
		{"b", "true"},
		{"z", ""},
		{"a", "[1,2]"},
		{"o", `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := RequireString(args, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireString_Missing(t *testing.T) {
	_, err := RequireString(registry.Arguments{}, "target")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingParameter))
	assert.Equal(t, "Required parameter 'target' is missing", err.Error())

	var perr *ParameterError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "target", perr.Name)
}

func TestOptionalString(t *testing.T) {
	args := registry.Arguments{"team": "ISS"}

	v, ok := OptionalString(args, "team")
	assert.True(t, ok)
	assert.Equal(t, "ISS", v)

	v, ok = OptionalString(args, "target")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestIntOrDefault(t *testing.T) {
	args := decodeArgs(t, `{"n":25,"s":"30","pad":" 7 ","frac":12.9,"neg":-3.7,"bad":"abc","b":true,"z":null,"big":1e30}`)

	tests := []struct {
		key  string
		want int
	}{
		{"n", 25},
		{"s", 30},
		{"pad", 7},
		{"frac", 12},
		{"neg", -3},
		{"bad", 100},
		{"b", 100},
		{"z", 100},
		{"missing", 100},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, IntOrDefault(args, tt.key, 100))
		})
	}

	assert.Greater(t, IntOrDefault(args, "big", 0), 0)
}

func TestIntOrDefault_NativeTypes(t *testing.T) {
	args := registry.Arguments{"i": 5, "i64": int64(6), "f": float64(7.8)}
	assert.Equal(t, 5, IntOrDefault(args, "i", 0))
	assert.Equal(t, 6, IntOrDefault(args, "i64", 0))
	assert.Equal(t, 7, IntOrDefault(args, "f", 0))
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{100, 100},
		{1000, 1000},
		{5000, 1000},
	}
	for _, tt := range tests {
		if got := ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		name          string
		offset, limit int
		want          []int
	}{
		{"first page", 0, 3, []int{0, 1, 2}},
		{"middle", 4, 3, []int{4, 5, 6}},
		{"tail shorter than limit", 8, 5, []int{8, 9}},
		{"offset at end", 10, 5, []int{}},
		{"offset past end", 50, 5, []int{}},
		{"negative offset", -2, 2, []int{0, 1}},
		{"zero limit", 0, 0, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.offset, tt.limit)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}
