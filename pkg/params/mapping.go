package params

import (
	"github.com/aretw0/xitem/pkg/core"
)

// ToMapping derives the merged mapping: system keys, then user info, then
// attached records in attach order. Unset fields are omitted.
func (p Parameters) ToMapping() core.Mapping {
	m := make(core.Mapping)
	s := p.s
	if s.title != "" {
		m[core.KeyTitle] = s.title
	}
	if s.contentText != "" {
		m[core.KeyContentText] = s.contentText
	}
	if len(s.attachments) > 0 {
		seq := make([]any, len(s.attachments))
		for i, a := range s.attachments {
			seq[i] = a.MarshalMapping()
		}
		m[core.KeyAttachments] = seq
	}
	if len(s.tags) > 0 {
		m[core.KeyTags] = append([]string(nil), s.tags...)
	}
	if u := core.AbsoluteURL(s.sourceURL); u != nil {
		m[core.KeySourceURL] = u.String()
	}
	m.Merge(s.referrer.MarshalMapping())
	m.Merge(s.userInfo)
	for _, r := range s.records {
		m.Merge(r.m)
	}
	return m
}

// FromMapping reads a snapshot out of m. Reserved keys are read through
// core.Values, so malformed values decode as unset and unknown reserved keys
// are dropped. Every non-reserved key is kept verbatim as user info, ready for
// DecodeRecord. FromMapping never fails.
func FromMapping(m core.Mapping) Parameters {
	v := core.NewValues(m)
	var s state
	s.title, _ = v.String(core.KeyTitle)
	s.contentText, _ = v.String(core.KeyContentText)
	if seq, ok := v.Sequence(core.KeyAttachments); ok {
		for _, e := range seq {
			am, ok := e.(core.Mapping)
			if !ok {
				continue
			}
			s.attachments = append(s.attachments, core.Decode[core.Attachment](am))
		}
	}
	if tags, ok := v.Strings(core.KeyTags); ok && len(tags) > 0 {
		s.tags = tags
	}
	s.sourceURL, _ = v.URL(core.KeySourceURL)
	s.referrer = core.Decode[core.Referrer](m)

	_, custom := m.Partition()
	if len(custom) > 0 {
		s.userInfo = custom
	}
	return Parameters{s: s}
}
