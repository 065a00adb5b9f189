package dispatcher

import (
	"math"
	"strconv"
	"strings"
)

// Coercion converts an overlay value into the shape the server expects.
type Coercion func(any) any

var legacyFields = []string{"name", "date", "time"}

// DefaultPartySize is posted when the party field is absent, zero or not a
// number.
const DefaultPartySize = 2

func DefaultCoercions() map[string]Coercion {
	return map[string]Coercion{
		"/form/party": IntOr(DefaultPartySize),
	}
}

// IntOr parses the leading integer of a value, the way a browser's parseInt
// does, and substitutes fallback for zero or unparseable input.
func IntOr(fallback int) Coercion {
	return func(v any) any {
		n, ok := leadingInt(v)
		if !ok || n == 0 {
			return fallback
		}
		return n
	}
}

func leadingInt(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(math.Trunc(val)), true
	case bool:
		return 0, false
	case string:
		return parseLeadingInt(val)
	default:
		return 0, false
	}
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0 || math.IsNaN(val)
	case int:
		return val == 0
	}
	return false
}
