package core

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
)

// NotFound is returned by Values.UnsignedInteger when the key is missing or
// does not hold an unsigned integer.
const NotFound uint64 = math.MaxUint64

// Values reads kind-checked values out of a Mapping.
//
// A value is returned only when its kind matches the accessor. Anything else
// behaves exactly like a missing key, so a reader never trips over a value a
// newer producer wrote under a key it did not expect.
type Values struct {
	m Mapping
}

// NewValues wraps m. The mapping is read, never modified.
func NewValues(m Mapping) Values {
	return Values{m: m}
}

// Has reports whether key is present, whatever its kind.
func (v Values) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// Keys returns the wrapped mapping's keys in sorted order.
func (v Values) Keys() []string {
	return v.m.Keys()
}

// String returns the string stored under key.
func (v Values) String(key string) (string, bool) {
	s, ok := v.m[key].(string)
	return s, ok
}

// Number returns the number stored under key as a float64.
func (v Values) Number(key string) (float64, bool) {
	return toFloat(v.m[key])
}

// URL returns the URL stored under key. Strings are accepted only when they
// parse as an absolute URL.
func (v Values) URL(key string) (*url.URL, bool) {
	switch u := v.m[key].(type) {
	case *url.URL:
		if u == nil {
			return nil, false
		}
		return cloneURL(u), true
	case url.URL:
		return cloneURL(&u), true
	case string:
		return parseAbsoluteURL(u)
	}
	return nil, false
}

// Mapping returns a copy of the nested mapping stored under key.
func (v Values) Mapping(key string) (Mapping, bool) {
	switch m := v.m[key].(type) {
	case Mapping:
		return m.Clone(), m != nil
	case map[string]any:
		return Mapping(m).Clone(), m != nil
	}
	return nil, false
}

// Sequence returns a copy of the sequence stored under key.
func (v Values) Sequence(key string) ([]any, bool) {
	switch s := v.m[key].(type) {
	case []any:
		return cloneValue(s).([]any), true
	case []string:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []Mapping:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e.Clone()
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = Mapping(e).Clone()
		}
		return out, true
	}
	return nil, false
}

// Strings returns the sequence stored under key when every element is a string.
func (v Values) Strings(key string) ([]string, bool) {
	if s, ok := v.m[key].([]string); ok {
		return append([]string(nil), s...), true
	}
	seq, ok := v.Sequence(key)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Data returns a copy of the binary blob stored under key.
func (v Values) Data(key string) ([]byte, bool) {
	b, ok := v.m[key].([]byte)
	if !ok || b == nil {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// UnsignedInteger returns the unsigned integer stored under key, or NotFound.
// Negative, fractional and non-numeric values count as not found.
func (v Values) UnsignedInteger(key string) uint64 {
	if n, ok := toUnsigned(v.m[key]); ok {
		return n
	}
	return NotFound
}

func toFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toUnsigned(val any) (uint64, bool) {
	switch n := val.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, n != NotFound
	case int:
		return uint64(n), n >= 0
	case int8:
		return uint64(n), n >= 0
	case int16:
		return uint64(n), n >= 0
	case int32:
		return uint64(n), n >= 0
	case int64:
		return uint64(n), n >= 0
	case float32:
		return floatToUnsigned(float64(n))
	case float64:
		return floatToUnsigned(n)
	case json.Number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, u != NotFound
		}
		if f, err := n.Float64(); err == nil {
			return floatToUnsigned(f)
		}
	}
	return 0, false
}

// 2^64 is exactly representable; anything at or above it overflows.
const maxUnsignedFloat = float64(1 << 64)

func floatToUnsigned(f float64) (uint64, bool) {
	if f < 0 || f != math.Trunc(f) || f >= maxUnsignedFloat {
		return 0, false
	}
	return uint64(f), true
}

// AbsoluteURL returns a copy of u when it has a scheme and nil otherwise.
// Only absolute URLs are written to a mapping, since URL reads back nothing else.
func AbsoluteURL(u *url.URL) *url.URL {
	if u == nil || u.Scheme == "" {
		return nil
	}
	return cloneURL(u)
}

func parseAbsoluteURL(s string) (*url.URL, bool) {
	if s == "" {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	return u, true
}
