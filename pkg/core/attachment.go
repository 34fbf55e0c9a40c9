package core

import (
	"bytes"
	"net/url"
)

// Well-known uniform type identifiers for attachment payloads.
const (
	TypeURL       = "public.url"
	TypePlainText = "public.plain-text"
	TypeData      = "public.data"
)

// Attachment is one typed payload carried alongside the metadata. How the
// payload physically travels is up to the transport; here it is bytes tagged
// with a type identifier.
type Attachment struct {
	TypeIdentifier string
	Data           []byte
}

// NewURLAttachment wraps u as a public.url attachment.
func NewURLAttachment(u *url.URL) Attachment {
	if u == nil {
		return Attachment{TypeIdentifier: TypeURL}
	}
	return Attachment{TypeIdentifier: TypeURL, Data: []byte(u.String())}
}

// NewTextAttachment wraps s as a public.plain-text attachment.
func NewTextAttachment(s string) Attachment {
	return Attachment{TypeIdentifier: TypePlainText, Data: []byte(s)}
}

// NewDataAttachment wraps b under typeIdentifier; an empty identifier becomes public.data.
func NewDataAttachment(typeIdentifier string, b []byte) Attachment {
	if typeIdentifier == "" {
		typeIdentifier = TypeData
	}
	return Attachment{TypeIdentifier: typeIdentifier, Data: append([]byte(nil), b...)}
}

// URL interprets a public.url payload.
func (a Attachment) URL() (*url.URL, bool) {
	if a.TypeIdentifier != TypeURL {
		return nil, false
	}
	return parseAbsoluteURL(string(a.Data))
}

// Text interprets a public.plain-text payload.
func (a Attachment) Text() (string, bool) {
	if a.TypeIdentifier != TypePlainText {
		return "", false
	}
	return string(a.Data), true
}

// MarshalMapping implements Marshaler.
func (a Attachment) MarshalMapping() Mapping {
	m := make(Mapping, 2)
	if a.TypeIdentifier != "" {
		m[KeyAttachmentTypeIdentifier] = a.TypeIdentifier
	}
	if a.Data != nil {
		m[KeyAttachmentData] = append([]byte(nil), a.Data...)
	}
	return m
}

// UnmarshalMapping implements Unmarshaler.
func (a *Attachment) UnmarshalMapping(m Mapping) {
	v := NewValues(m)
	a.TypeIdentifier, _ = v.String(KeyAttachmentTypeIdentifier)
	a.Data, _ = v.Data(KeyAttachmentData)
}

// Equal compares type identifier and payload bytes.
func (a Attachment) Equal(o Attachment) bool {
	return a.TypeIdentifier == o.TypeIdentifier && bytes.Equal(a.Data, o.Data)
}

// Clone returns a copy that shares no payload bytes with a.
func (a Attachment) Clone() Attachment {
	if a.Data != nil {
		a.Data = append([]byte(nil), a.Data...)
	}
	return a
}
