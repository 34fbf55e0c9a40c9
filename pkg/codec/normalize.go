package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/aretw0/xitem/pkg/core"
)

// BinaryKey tags a base64 blob inside text formats.
const BinaryKey = "$binary"

// textSafe rewrites values a text format cannot carry natively.
func textSafe(val any) any {
	switch v := val.(type) {
	case core.Mapping:
		return textSafeMap(v)
	case map[string]any:
		return textSafeMap(v)
	case []any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = textSafe(e)
		}
		return l
	case []core.Mapping:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = textSafeMap(e)
		}
		return l
	case []map[string]any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = textSafeMap(e)
		}
		return l
	case []byte:
		return map[string]any{BinaryKey: base64.StdEncoding.EncodeToString(v)}
	case *url.URL:
		if v == nil {
			return nil
		}
		return v.String()
	case url.URL:
		return v.String()
	case json.Number:
		return normalizeNumber(v)
	default:
		return v
	}
}

func textSafeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = textSafe(v)
	}
	return out
}

// recursiveNormalize converts decoded values back to the shapes core.Values
// reads: core.Mapping for tables, []any for lists, []byte for tagged blobs
// and int64, uint64 or float64 for numbers.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		if b, ok := binaryValue(v); ok {
			return b
		}
		m := make(core.Mapping, len(v))
		for k, e := range v {
			m[k] = recursiveNormalize(e)
		}
		return m
	case map[any]any:
		m := make(core.Mapping, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = recursiveNormalize(e)
		}
		if b, ok := binaryValue(m); ok {
			return b
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = recursiveNormalize(e)
		}
		return l
	case []map[string]any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = recursiveNormalize(e)
		}
		return l
	case json.Number:
		return normalizeNumber(v)
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return toSigned(uint64(v))
	case uint64:
		return toSigned(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

func normalizeMapping(m map[string]any) core.Mapping {
	out := make(core.Mapping, len(m))
	for k, v := range m {
		out[k] = recursiveNormalize(v)
	}
	return out
}

func binaryValue(m map[string]any) ([]byte, bool) {
	if len(m) != 1 {
		return nil, false
	}
	s, ok := m[BinaryKey].(string)
	if !ok {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// toSigned keeps uint64 only for values that do not fit int64.
func toSigned(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}
