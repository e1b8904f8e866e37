package score

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ClampRaw bounds v to [0, s.MaxRaw()].
func ClampRaw(s Section, v int) int {
	if v < 0 {
		return 0
	}
	if m := s.MaxRaw(); v > m {
		return m
	}
	return v
}

// ParseRaw turns free-form input into a clamped raw score. Empty or
// non-numeric input is 0; decimals truncate toward zero. Numbers too large
// for a float64 clamp by sign; the literals "NaN" and "Inf" are non-numeric.
func ParseRaw(s Section, in string) int {
	in = strings.TrimSpace(in)
	if in == "" {
		return 0
	}
	if v, err := strconv.Atoi(in); err == nil {
		return ClampRaw(s, v)
	}
	f, err := strconv.ParseFloat(in, 64)
	if errors.Is(err, strconv.ErrRange) {
		if f > 0 {
			return s.MaxRaw()
		}
		return 0
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	switch {
	case f <= 0:
		return 0
	case f >= float64(s.MaxRaw()):
		return s.MaxRaw()
	}
	return int(f)
}

// RawInput is a raw score as entered by a user. It decodes from a JSON
// number, a JSON string or null. Clamping happens when it is applied to a
// section.
type RawInput string

func (r *RawInput) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = RawInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		// booleans, objects and arrays count as non-numeric
		*r = ""
		return nil
	}
	*r = RawInput(n.String())
	return nil
}

// For returns the clamped raw score for the section.
func (r RawInput) For(s Section) int { return ParseRaw(s, string(r)) }
