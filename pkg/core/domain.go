// Package core holds the wire contract shared by producers and consumers:
// the generic mapping, the reserved key namespace, the typed value reader and
// the record interface every serializable type implements.
package core

import (
	"net/url"
	"sort"
	"strings"
)

// ReservedPrefix marks keys owned by this library. Custom records must never
// emit a key starting with it.
const ReservedPrefix = "x-extension-item"

// Mapping is the flat, string-keyed, heterogeneously valued dictionary that
// travels between producer and consumer. It is the only shape a transport
// has to understand.
type Mapping map[string]any

// IsReserved reports whether key belongs to the system region.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// Keys returns the keys of m in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of m. Nested mappings, sequences, blobs and URLs
// are copied; scalar values are shared since they are immutable.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge copies every entry of other into m, overwriting existing keys.
// Callers that care about collisions check them first.
func (m Mapping) Merge(other Mapping) {
	for k, v := range other {
		m[k] = cloneValue(v)
	}
}

// Partition splits m into its system region (reserved keys) and its custom
// region (everything else). Both results are deep copies.
func (m Mapping) Partition() (system, custom Mapping) {
	system = make(Mapping)
	custom = make(Mapping)
	for k, v := range m {
		if IsReserved(k) {
			system[k] = cloneValue(v)
		} else {
			custom[k] = cloneValue(v)
		}
	}
	return system, custom
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case Mapping:
		return v.Clone()
	case map[string]any:
		return Mapping(v).Clone()
	case []any:
		l := make([]any, len(v))
		for i, e := range v {
			l[i] = cloneValue(e)
		}
		return l
	case []string:
		return append([]string(nil), v...)
	case []Mapping:
		l := make([]Mapping, len(v))
		for i, e := range v {
			l[i] = e.Clone()
		}
		return l
	case []map[string]any:
		l := make([]Mapping, len(v))
		for i, e := range v {
			l[i] = Mapping(e).Clone()
		}
		return l
	case []byte:
		if v == nil {
			return v
		}
		return append([]byte(nil), v...)
	case *url.URL:
		return cloneURL(v)
	default:
		return v
	}
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
