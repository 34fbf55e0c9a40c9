// Package tumblr provides the custom record consumed by the Tumblr share
// extension. It is the reference for third parties writing their own records:
// a plain value type, private non-reserved keys, total decoding.
package tumblr

import (
	"fmt"
	"strings"

	"github.com/aretw0/xitem/pkg/core"
)

// Keys written by Parameters.
const (
	KeyCustomURLPathComponent = "tumblr-custom-url-path-component"
	KeyRequestedPostType      = "tumblr-requested-post-type"
	KeyConsumerKey            = "tumblr-consumer-key"
)

// PostType is the kind of post the producer would like Tumblr to create.
// It is a suggestion; Tumblr ignores it when the content does not fit.
type PostType uint64

const (
	PostTypeAny PostType = iota
	PostTypeText
	PostTypeQuote
	PostTypeChat
	PostTypeLink
	PostTypePhoto
	PostTypeVideo
)

var postTypeNames = []string{"any", "text", "quote", "chat", "link", "photo", "video"}

func (p PostType) String() string {
	if p.valid() {
		return postTypeNames[p]
	}
	return fmt.Sprintf("PostType(%d)", uint64(p))
}

func (p PostType) valid() bool {
	return p <= PostTypeVideo
}

// ParsePostType maps a name such as "quote" to its PostType.
func ParsePostType(s string) (PostType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range postTypeNames {
		if name == s {
			return PostType(i), nil
		}
	}
	return PostTypeAny, fmt.Errorf("unknown tumblr post type %q", s)
}

// Parameters are Tumblr-specific share parameters.
type Parameters struct {
	// CustomURLPathComponent is the slug of the created post, e.g. the
	// "pancakes" in http://bryan.io/post/116820149416/pancakes.
	CustomURLPathComponent string

	// RequestedPostType defaults to PostTypeAny.
	RequestedPostType PostType

	// ConsumerKey is the producer's Tumblr API consumer key, used for attribution.
	ConsumerKey string
}

// MarshalMapping implements core.Marshaler. The post type is always written.
func (p Parameters) MarshalMapping() core.Mapping {
	m := core.Mapping{KeyRequestedPostType: uint64(p.RequestedPostType)}
	if p.CustomURLPathComponent != "" {
		m[KeyCustomURLPathComponent] = p.CustomURLPathComponent
	}
	if p.ConsumerKey != "" {
		m[KeyConsumerKey] = p.ConsumerKey
	}
	return m
}

// UnmarshalMapping implements core.Unmarshaler. Unknown post types decode as PostTypeAny.
func (p *Parameters) UnmarshalMapping(m core.Mapping) {
	v := core.NewValues(m)
	*p = Parameters{}
	p.CustomURLPathComponent, _ = v.String(KeyCustomURLPathComponent)
	p.ConsumerKey, _ = v.String(KeyConsumerKey)
	if n := v.UnsignedInteger(KeyRequestedPostType); n != core.NotFound && PostType(n).valid() {
		p.RequestedPostType = PostType(n)
	}
}

var _ core.Convertible = (*Parameters)(nil)
