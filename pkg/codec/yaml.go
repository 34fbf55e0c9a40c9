package codec

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/xitem/pkg/core"
)

// YAMLCodec handles YAML documents.
type YAMLCodec struct{}

func NewYAML() *YAMLCodec {
	return &YAMLCodec{}
}

func (c *YAMLCodec) Name() string      { return "yaml" }
func (c *YAMLCodec) Extension() string { return ".yaml" }

func (c *YAMLCodec) Marshal(m core.Mapping) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(textSafeMap(m)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *YAMLCodec) Unmarshal(data []byte) (core.Mapping, error) {
	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, invalid("yaml", err)
	}
	switch m := payload.(type) {
	case map[string]any:
		return normalizeMapping(m), nil
	case map[any]any:
		if out, ok := recursiveNormalize(m).(core.Mapping); ok {
			return out, nil
		}
	}
	return nil, invalid("yaml", errors.New("top-level value is not a mapping"))
}
