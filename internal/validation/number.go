package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a payload field that accepts a JSON number or a numeric string.
// Anything else is kept verbatim so the numeral rule can reject it with a
// readable message instead of failing the whole body.
type Number struct {
	raw string
}

// NumberOf builds a Number from its textual form.
func NumberOf(raw string) Number {
	return Number{raw: raw}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		n.raw = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.raw = s
	default:
		n.raw = string(data)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if f, ok := parseFloat(n.raw); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	if n.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// String returns the trimmed textual form.
func (n Number) String() string {
	return strings.TrimSpace(n.raw)
}

// Float64 converts the value, failing when it is not a finite number.
func (n Number) Float64() (float64, error) {
	f, ok := parseFloat(n.raw)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", n.raw)
	}
	return f, nil
}

// Uint converts the value to a row identifier.
func (n Number) Uint() (uint, error) {
	if !IsPositiveInteger(n.raw) {
		return 0, fmt.Errorf("%q is not a positive integer", n.raw)
	}
	f, _ := parseFloat(n.raw)
	return uint(f), nil
}
