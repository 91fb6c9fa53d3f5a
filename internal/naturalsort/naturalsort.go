// Package naturalsort orders strings so that embedded digit runs compare
// numerically instead of character by character, e.g. "Track 2" before
// "Track 10".
package naturalsort

import (
	"sort"
	"strings"
	"unicode"
)

type chunk struct {
	text   string
	digits bool
}

// Key is the comparable form of a string: alternating non-digit and digit
// runs, with non-digit runs lower-cased.
type Key []chunk

// NewKey splits a string into its comparison chunks.
func NewKey(s string) Key {
	var key Key
	start := 0
	digits := false
	for i, r := range s {
		isDigit := unicode.IsDigit(r)
		if i == 0 {
			digits = isDigit
			continue
		}
		if isDigit != digits {
			key = append(key, newChunk(s[start:i], digits))
			start = i
			digits = isDigit
		}
	}
	if start < len(s) {
		key = append(key, newChunk(s[start:], digits))
	}
	return key
}

func newChunk(run string, digits bool) chunk {
	if !digits {
		run = strings.ToLower(run)
	}
	return chunk{text: run, digits: digits}
}

// Compare orders a relative to b, returning -1, 0 or 1.
func Compare(a, b string) int {
	return NewKey(a).Compare(NewKey(b))
}

// Compare orders k relative to other element-wise; a shorter key that is a
// prefix of the other sorts first.
func (k Key) Compare(other Key) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := k[i].compare(other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}

func (c chunk) compare(other chunk) int {
	if c.digits && other.digits {
		return compareDigits(c.text, other.text)
	}
	if c.digits != other.digits {
		// Structurally different run patterns; numbers sort first.
		if c.digits {
			return -1
		}
		return 1
	}
	return strings.Compare(c.text, other.text)
}

// compareDigits compares two digit runs by numeric value without parsing,
// so arbitrarily long runs cannot overflow. Leading zeros do not affect the
// value: "007" equals "7".
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Strings sorts the slice in place in natural order. The sort is stable so
// strings with equal keys keep their input order.
func Strings(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		return Compare(values[i], values[j]) < 0
	})
}
