// Package params composes the core fields and any number of custom records
// into one namespaced mapping.
//
// Producers fill a Builder and Freeze it; consumers call FromMapping on what
// arrived and decode the custom records they care about with DecodeRecord.
package params

import (
	"net/url"
	"reflect"
	"slices"

	"github.com/aretw0/xitem/pkg/core"
)

// Parameters is an immutable snapshot of share parameters. The zero value is
// an empty snapshot. Accessors return copies, so a Parameters can be shared
// between goroutines.
type Parameters struct {
	s state
}

// Title is a short title for the shared content.
func (p Parameters) Title() string { return p.s.title }

// ContentText is the body text for the shared content.
func (p Parameters) ContentText() string { return p.s.contentText }

// Attachments returns a copy of the attachment list.
func (p Parameters) Attachments() []core.Attachment {
	if p.s.attachments == nil {
		return nil
	}
	out := make([]core.Attachment, len(p.s.attachments))
	for i, a := range p.s.attachments {
		out[i] = a.Clone()
	}
	return out
}

// Tags returns a copy of the tag list.
func (p Parameters) Tags() []string { return slices.Clone(p.s.tags) }

// SourceURL returns a copy of the canonical content URL, or nil.
func (p Parameters) SourceURL() *url.URL {
	if p.s.sourceURL == nil {
		return nil
	}
	u := *p.s.sourceURL
	return &u
}

// Referrer returns a copy of the referrer. It is the zero Referrer when unset.
func (p Parameters) Referrer() core.Referrer { return p.s.referrer.Clone() }

// UserInfo returns a copy of the raw user info.
func (p Parameters) UserInfo() core.Mapping { return p.s.userInfo.Clone() }

// Records returns the type names of the attached records, in attach order.
func (p Parameters) Records() []string {
	names := make([]string, len(p.s.records))
	for i, r := range p.s.records {
		names[i] = r.name()
	}
	return names
}

// CustomMapping returns the custom region: user info merged with every
// attached record.
func (p Parameters) CustomMapping() core.Mapping {
	m := make(core.Mapping)
	m.Merge(p.s.userInfo)
	for _, r := range p.s.records {
		m.Merge(r.m)
	}
	return m
}

// Thaw returns a builder initialized with a copy of p.
func (p Parameters) Thaw() *Builder {
	return &Builder{s: p.s.clone()}
}

// Equal reports whether p and o carry the same fields, records and user info.
func (p Parameters) Equal(o Parameters) bool {
	a, b := p.s, o.s
	if a.title != b.title || a.contentText != b.contentText {
		return false
	}
	if !slices.EqualFunc(a.attachments, b.attachments, core.Attachment.Equal) {
		return false
	}
	if !slices.Equal(a.tags, b.tags) {
		return false
	}
	if urlString(a.sourceURL) != urlString(b.sourceURL) || !a.referrer.Equal(b.referrer) {
		return false
	}
	if !slices.EqualFunc(a.records, b.records, func(x, y record) bool {
		return x.typ == y.typ && reflect.DeepEqual(x.m, y.m)
	}) {
		return false
	}
	return len(a.userInfo) == len(b.userInfo) && (len(a.userInfo) == 0 || reflect.DeepEqual(a.userInfo, b.userInfo))
}

// DecodeRecord decodes a record of type T from the custom region of p.
func DecodeRecord[T any, PT interface {
	*T
	core.Unmarshaler
}](p Parameters) T {
	return core.Decode[T, PT](p.CustomMapping())
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
