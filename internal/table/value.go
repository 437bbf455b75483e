package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// naTokens are the cell texts read as null, matching what pandas treats as NaN.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// columnKind is the inferred type of a delimited-text column.
type columnKind int

const (
	kindInt columnKind = iota
	kindFloat
	kindBool
	kindString
)

// inferColumn converts raw cell texts into typed values.
// The narrowest kind that fits every non-null cell wins: int64, then float64,
// then bool, then string.
func inferColumn(raw []string) []Value {
	kind, seen := kindString, false
	for _, s := range raw {
		if naTokens[s] {
			continue
		}
		if !seen {
			kind, seen = cellKind(s), true
		} else {
			kind = widen(kind, cellKind(s))
		}
		if kind == kindString {
			break
		}
	}

	out := make([]Value, len(raw))
	for i, s := range raw {
		if naTokens[s] {
			continue
		}
		switch kind {
		case kindInt:
			n, _ := strconv.ParseInt(s, 10, 64)
			out[i] = n
		case kindFloat:
			f, _ := strconv.ParseFloat(s, 64)
			out[i] = f
		case kindBool:
			out[i] = parseBool(s)
		default:
			out[i] = s
		}
	}
	return out
}

// widen merges the kind seen so far with the kind of the next cell.
// Numbers and booleans do not mix; a column holding both is string.
func widen(cur, next columnKind) columnKind {
	isNum := func(k columnKind) bool { return k == kindInt || k == kindFloat }
	switch {
	case cur == next:
		return cur
	case isNum(cur) && isNum(next):
		return kindFloat
	default:
		return kindString
	}
}

// cellKind returns the narrowest kind a single non-null cell fits.
func cellKind(s string) columnKind {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return kindInt
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return kindFloat
	}
	if isBool(s) {
		return kindBool
	}
	return kindString
}

func isBool(s string) bool {
	switch s {
	case "True", "False", "TRUE", "FALSE", "true", "false":
		return true
	}
	return false
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}

// formatCell renders a value as delimited-file text.
func formatCell(v Value) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return formatFloat(x), nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return "", fmt.Errorf("cannot encode %T cell: %w", v, err)
		}
		return string(b), nil
	}
}

// formatFloat renders f the way Python's repr does: shortest round-trip
// digits, always with a fractional part, exponent form outside [1e-4, 1e16).
// NaN is rendered empty since it stands for a missing value.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
