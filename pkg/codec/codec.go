// Package codec reads and writes a core.Mapping as a file or request body.
//
// Text formats have no native blob or URL type. Before marshalling, []byte
// values become {"$binary": "<base64>"} and URLs become strings; after
// unmarshalling the wrapper is turned back into []byte and numbers are
// normalized to int64, uint64 (when too large for int64) or float64.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/xitem/pkg/core"
)

var (
	// ErrInvalidPayload wraps every decoding failure.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrUnknownCodec is returned by the lookups for unsupported names or extensions.
	ErrUnknownCodec = errors.New("unknown codec")
)

// Codec converts a mapping to and from bytes.
type Codec interface {
	// Name is the short format name, e.g. "json".
	Name() string
	// Extension is the file extension written by this codec, with the dot.
	Extension() string
	Marshal(m core.Mapping) ([]byte, error)
	Unmarshal(data []byte) (core.Mapping, error)
}

// Defaults returns the supported codecs keyed by file extension.
func Defaults() map[string]Codec {
	j, y, t := NewJSON(), NewYAML(), NewTOML()
	return map[string]Codec{
		".json": j,
		".yaml": y,
		".yml":  y,
		".toml": t,
	}
}

// ForExtension returns the codec for a file extension such as ".yml".
func ForExtension(ext string) (Codec, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if c, ok := Defaults()[ext]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnknownCodec, ext)
}

// ByName returns the codec for a format name such as "toml".
func ByName(name string) (Codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Defaults() {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Names lists the supported format names, sorted.
func Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range Defaults() {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return names
}

func invalid(format string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, format, err)
}
