package prediction

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const yearField = "year"

var (
	errMissingYear = &ValidationError{Field: yearField, Reason: "missing 'year' in request"}
	errYearNotInt  = &ValidationError{Field: yearField, Reason: "'year' must be an integer"}
)

// ParseYear coerces the raw JSON value of the year field to an int. JSON
// integers, integral floats such as 2030.0 and numeric strings are accepted.
func ParseYear(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errMissingYear
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, errYearNotInt
	}
	switch t := v.(type) {
	case json.Number:
		return yearFromString(t.String())
	case string:
		return yearFromString(strings.TrimSpace(t))
	default:
		return 0, errYearNotInt
	}
}

func yearFromString(s string) (int, error) {
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errYearNotInt
	}
	return int(f), nil
}
