// ABOUTME: Lenient extraction of string and integer tool arguments.
// ABOUTME: Shared by every observation tool along with the pagination helpers.

package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2389/cassini-mcp/internal/registry"
)

// ErrMissingParameter is returned when a required argument is absent.
var ErrMissingParameter = errors.New("missing parameter")

// ErrInvalidParameter is returned when an argument is present but unusable.
var ErrInvalidParameter = errors.New("invalid parameter")

// Pagination bounds shared by the list tools.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ParameterError describes a bad or absent argument. It matches
// ErrMissingParameter or ErrInvalidParameter through errors.Is.
type ParameterError struct {
	Name    string
	Message string
	kind    error
}

func (e *ParameterError) Error() string {
	return e.Message
}

func (e *ParameterError) Unwrap() error {
	return e.kind
}

func missingParameter(key string) error {
	return &ParameterError{
		Name:    key,
		Message: fmt.Sprintf("Required parameter '%s' is missing", key),
		kind:    ErrMissingParameter,
	}
}

func invalidParameter(key, message string) error {
	return &ParameterError{Name: key, Message: message, kind: ErrInvalidParameter}
}

// RequireString returns the textual form of args[key]. Numbers and booleans
// are stringified; null becomes "".
func RequireString(args registry.Arguments, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", missingParameter(key)
	}
	return asString(v), nil
}

// OptionalString returns the textual form of args[key] and whether it was present.
func OptionalString(args registry.Arguments, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	return asString(v), true
}

// IntOrDefault returns args[key] as an int. A missing key, or a value whose
// text is not an integer, yields def without an error.
func IntOrDefault(args registry.Arguments, key string, def int) int {
	v, ok := args[key]
	if !ok {
		return def
	}
	if n, ok := asInt(v); ok {
		return n
	}
	return def
}

// ClampLimit bounds a requested page size to [1, MaxLimit].
func ClampLimit(limit int) int {
	return min(max(limit, 1), MaxLimit)
}

// Paginate returns at most limit items starting at offset. A negative offset
// skips nothing.
func Paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func asInt(v any) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return clampInt(n), true
		}
		if f, err := val.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0, false
	case float64:
		return floatToInt(val)
	case int:
		return val, true
	case int64:
		return clampInt(val), true
	case nil:
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(asString(v)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f >= math.MaxInt64 {
		return math.MaxInt, true
	}
	if f <= math.MinInt64 {
		return math.MinInt, true
	}
	return clampInt(int64(f)), true
}

func clampInt(n int64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}
