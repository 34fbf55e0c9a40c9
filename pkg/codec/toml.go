package codec

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/aretw0/xitem/pkg/core"
)

// TOMLCodec handles TOML documents. TOML has no null, so nil values are
// dropped on write, and integers above math.MaxInt64 cannot be written.
type TOMLCodec struct{}

func NewTOML() *TOMLCodec {
	return &TOMLCodec{}
}

func (c *TOMLCodec) Name() string      { return "toml" }
func (c *TOMLCodec) Extension() string { return ".toml" }

func (c *TOMLCodec) Marshal(m core.Mapping) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(dropNil(textSafeMap(m))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *TOMLCodec) Unmarshal(data []byte) (core.Mapping, error) {
	payload := make(map[string]any)
	if _, err := toml.Decode(string(data), &payload); err != nil {
		return nil, invalid("toml", err)
	}
	return normalizeMapping(payload), nil
}

func dropNil(m map[string]any) map[string]any {
	for k, v := range m {
		switch v := v.(type) {
		case nil:
			delete(m, k)
		case map[string]any:
			dropNil(v)
		case []any:
			for _, e := range v {
				if em, ok := e.(map[string]any); ok {
					dropNil(em)
				}
			}
		}
	}
	return m
}
