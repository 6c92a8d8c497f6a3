package placement

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a tolerantly-decoded numeric field. Placement documents come from
// a duck-typed editor payload, so a numeric field may arrive as a JSON number
// or as a numeric string; anything else leaves the Number unresolvable and the
// consumer falls back to its documented default or treats the object as
// invalid.
type Number struct {
	value  float64
	valid  bool // convertible to a finite float
	strict bool // was a JSON number token
	set    bool // key was present
}

// NumberOf builds a resolved Number, mainly for tests and synthesized docs.
func NumberOf(v float64) Number {
	return Number{value: v, valid: !math.IsInf(v, 0) && !math.IsNaN(v), strict: true, set: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	n.set = true
	n.valid = false
	n.strict = false

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.strict = true
		if !math.IsInf(f, 0) && !math.IsNaN(f) {
			n.value = f
			n.valid = true
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			n.value = f
			n.valid = true
		}
		return nil
	}

	// null, booleans, arrays, objects: unresolvable, never an error.
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Float returns the resolved value and whether it resolved at all.
func (n Number) Float() (float64, bool) {
	return n.value, n.valid
}

// IsStrictNumber reports whether the field was a finite JSON number token.
// Canvas dimensions require this; object geometry accepts string coercion.
func (n Number) IsStrictNumber() bool {
	return n.valid && n.strict
}

// ValueOr substitutes def only when the field did not resolve.
func (n Number) ValueOr(def float64) float64 {
	if !n.valid {
		return def
	}
	return n.value
}

// NonZeroOr substitutes def when the field did not resolve or resolved to
// zero. This mirrors the falsy-fallback defaulting the export builders use
// (wrap width, font size, opacity).
func (n Number) NonZeroOr(def float64) float64 {
	if !n.valid || n.value == 0 {
		return def
	}
	return n.value
}

// round3 rounds to three decimal places, the precision of every exported
// millimeter value.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
