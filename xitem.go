package xitem

import (
	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/core"
	"github.com/aretw0/xitem/pkg/lint"
	"github.com/aretw0/xitem/pkg/params"
)

// --- Types ---

// Mapping is the wire form every transport carries.
type Mapping = core.Mapping

// Parameters is an immutable snapshot.
type Parameters = params.Parameters

// Builder is the mutable form of Parameters.
type Builder = params.Builder

// Attachment is one typed payload.
type Attachment = core.Attachment

// Referrer describes the app or site that initiated the share.
type Referrer = core.Referrer

// Record is implemented by anything that can be attached to a Builder.
type Record = core.Convertible

// Codec converts a Mapping to and from bytes.
type Codec = codec.Codec

// Finding is a lint result.
type Finding = lint.Finding

// ReservedPrefix starts every key owned by the well-known fields.
const ReservedPrefix = core.ReservedPrefix

// --- Construction ---

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return params.NewBuilder()
}

// New runs fn against a fresh Builder and freezes it.
func New(fn func(b *Builder) error) (Parameters, error) {
	return params.New(fn)
}

// FromMapping decodes whatever m holds. Decoding never fails; malformed
// fields are left empty.
func FromMapping(m Mapping) Parameters {
	return params.FromMapping(m)
}

// DecodeRecord decodes a custom record of type T from p.
func DecodeRecord[T any, PT interface {
	*T
	core.Unmarshaler
}](p Parameters) T {
	return params.DecodeRecord[T, PT](p)
}

// --- Wire ---

// Marshal encodes p with the named codec ("json", "yaml" or "toml").
func Marshal(format string, p Parameters) ([]byte, error) {
	c, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}
	return c.Marshal(p.ToMapping())
}

// Unmarshal decodes data with the named codec.
func Unmarshal(format string, data []byte) (Parameters, error) {
	c, err := codec.ByName(format)
	if err != nil {
		return Parameters{}, err
	}
	m, err := c.Unmarshal(data)
	if err != nil {
		return Parameters{}, err
	}
	return params.FromMapping(m), nil
}

// Lint reports suspicious keys in m.
func Lint(m Mapping) []Finding {
	return lint.Check(m)
}
