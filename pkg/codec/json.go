package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/aretw0/xitem/pkg/core"
)

// JSONCodec handles JSON documents. Numbers are decoded as json.Number and
// then normalized, so large App Store ids survive without float rounding.
type JSONCodec struct {
	// Indent enables two-space indented output.
	Indent bool
}

// NewJSON creates an indenting JSON codec.
func NewJSON() *JSONCodec {
	return &JSONCodec{Indent: true}
}

func (c *JSONCodec) Name() string      { return "json" }
func (c *JSONCodec) Extension() string { return ".json" }

func (c *JSONCodec) Marshal(m core.Mapping) ([]byte, error) {
	payload := textSafeMap(m)
	if c.Indent {
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
	return json.Marshal(payload)
}

func (c *JSONCodec) Unmarshal(data []byte) (core.Mapping, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, invalid("json", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, invalid("json", errors.New("trailing data after top-level value"))
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, invalid("json", errors.New("top-level value is not an object"))
	}
	return normalizeMapping(m), nil
}
