package params

import (
	"net/url"
	"reflect"
	"slices"

	"github.com/aretw0/xitem/pkg/core"
)

// Builder is the mutable form of Parameters. It is owned by a single
// goroutine; Freeze hands out an immutable copy that can be shared.
type Builder struct {
	s state
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// New runs fn against a fresh builder and freezes the result.
func New(fn func(b *Builder) error) (Parameters, error) {
	b := NewBuilder()
	if fn != nil {
		if err := fn(b); err != nil {
			return Parameters{}, err
		}
	}
	return b.Freeze(), nil
}

// SetTitle sets the title.
func (b *Builder) SetTitle(title string) {
	b.s.title = title
}

// SetContentText sets the body text.
func (b *Builder) SetContentText(text string) {
	b.s.contentText = text
}

// SetAttachments replaces the attachment list.
func (b *Builder) SetAttachments(attachments []core.Attachment) {
	b.s.attachments = nil
	for _, a := range attachments {
		b.AddAttachment(a)
	}
}

// AddAttachment appends a copy of a.
func (b *Builder) AddAttachment(a core.Attachment) {
	b.s.attachments = append(b.s.attachments, a.Clone())
}

// SetTags replaces the tag list.
func (b *Builder) SetTags(tags ...string) {
	b.s.tags = slices.Clone(tags)
}

// AddTags appends to the tag list.
func (b *Builder) AddTags(tags ...string) {
	b.s.tags = append(b.s.tags, tags...)
}

// SetSourceURL sets the canonical URL of the shared content. A nil or
// relative URL clears it; only absolute URLs can be encoded.
func (b *Builder) SetSourceURL(u *url.URL) {
	b.s.sourceURL = core.AbsoluteURL(u)
}

// SetReferrer replaces the referrer. Fields that cannot be encoded are
// dropped, see core.Referrer.Clone.
func (b *Builder) SetReferrer(r core.Referrer) {
	b.s.referrer = r.Clone()
}

// ClearReferrer unsets every referrer field.
func (b *Builder) ClearReferrer() {
	b.s.referrer = core.Referrer{}
}

// Attach encodes rec and adds its mapping to the custom region.
//
// Attaching a record whose concrete type is already attached replaces the
// earlier one in place. The record is rejected, and the builder left as it
// was, when one of its keys is empty, reserved, or already written by another
// record type or by the user info.
func (b *Builder) Attach(rec core.Marshaler) error {
	if rec == nil {
		return ErrNilRecord
	}
	if v := reflect.ValueOf(rec); v.Kind() == reflect.Pointer && v.IsNil() {
		return ErrNilRecord
	}
	t := recordOf(rec)
	m := rec.MarshalMapping().Clone()
	if m == nil {
		m = core.Mapping{}
	}
	if err := b.s.checkCustom(m, t.String(), t, false); err != nil {
		return err
	}
	if i := b.s.indexOf(t); i >= 0 {
		b.s.records[i].m = m
		return nil
	}
	b.s.records = append(b.s.records, record{typ: t, m: m})
	return nil
}

// Detach removes the attached record with the same concrete type as rec.
// It reports whether one was attached.
func (b *Builder) Detach(rec core.Marshaler) bool {
	if rec == nil {
		return false
	}
	i := b.s.indexOf(recordOf(rec))
	if i < 0 {
		return false
	}
	b.s.records = slices.Delete(b.s.records, i, i+1)
	return true
}

// SetUserInfo replaces the raw user info. The same key rules as Attach apply.
func (b *Builder) SetUserInfo(m core.Mapping) error {
	if err := b.s.checkCustom(m, userInfoOwner, nil, true); err != nil {
		return err
	}
	if len(m) == 0 {
		b.s.userInfo = nil
		return nil
	}
	b.s.userInfo = m.Clone()
	return nil
}

// AddUserInfo merges m into the raw user info, overwriting existing entries.
func (b *Builder) AddUserInfo(m core.Mapping) error {
	if err := b.s.checkCustom(m, userInfoOwner, nil, true); err != nil {
		return err
	}
	if len(m) == 0 {
		return nil
	}
	if b.s.userInfo == nil {
		b.s.userInfo = make(core.Mapping, len(m))
	}
	b.s.userInfo.Merge(m)
	return nil
}

// DeleteUserInfo removes keys from the raw user info.
func (b *Builder) DeleteUserInfo(keys ...string) {
	for _, k := range keys {
		delete(b.s.userInfo, k)
	}
	if len(b.s.userInfo) == 0 {
		b.s.userInfo = nil
	}
}

// Freeze returns an immutable snapshot. Later changes to b do not affect it.
func (b *Builder) Freeze() Parameters {
	return Parameters{s: b.s.clone()}
}
