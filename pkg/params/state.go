package params

import (
	"net/url"
	"reflect"
	"slices"

	"github.com/aretw0/xitem/pkg/core"
)

// record is one attached custom record, kept as the mapping it encoded to.
type record struct {
	typ reflect.Type
	m   core.Mapping
}

func (r record) name() string {
	return r.typ.String()
}

// state is the typed field set shared by Builder and Parameters. Each field
// is stored in its typed form; the merged mapping is derived on demand.
type state struct {
	title       string
	contentText string
	attachments []core.Attachment
	tags        []string
	sourceURL   *url.URL
	referrer    core.Referrer
	records     []record
	userInfo    core.Mapping
}

func (s state) clone() state {
	c := s
	if s.attachments != nil {
		c.attachments = make([]core.Attachment, len(s.attachments))
		for i, a := range s.attachments {
			c.attachments[i] = a.Clone()
		}
	}
	c.tags = slices.Clone(s.tags)
	if s.sourceURL != nil {
		u := *s.sourceURL
		c.sourceURL = &u
	}
	c.referrer = s.referrer.Clone()
	if s.records != nil {
		c.records = make([]record, len(s.records))
		for i, r := range s.records {
			c.records[i] = record{typ: r.typ, m: r.m.Clone()}
		}
	}
	c.userInfo = s.userInfo.Clone()
	return c
}

// recordOf returns the dynamic type identifying rec. A pointer and the value
// it points to identify the same record type.
func recordOf(rec core.Marshaler) reflect.Type {
	t := reflect.TypeOf(rec)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (s *state) indexOf(t reflect.Type) int {
	return slices.IndexFunc(s.records, func(r record) bool { return r.typ == t })
}

// checkCustom validates m as the contribution of owner. Keys already written
// by the owner itself (skipRecord, or the user info when owner is the user
// info) do not collide.
func (s *state) checkCustom(m core.Mapping, owner string, skipRecord reflect.Type, skipUserInfo bool) error {
	for _, k := range m.Keys() {
		if k == "" {
			return &emptyKeyError{owner: owner}
		}
		if core.IsReserved(k) {
			return &ReservedKeyError{Key: k, Record: owner}
		}
		if !skipUserInfo {
			if _, ok := s.userInfo[k]; ok {
				return &KeyCollisionError{Key: k, Record: owner, Other: userInfoOwner}
			}
		}
		for _, r := range s.records {
			if r.typ == skipRecord {
				continue
			}
			if _, ok := r.m[k]; ok {
				return &KeyCollisionError{Key: k, Record: owner, Other: r.name()}
			}
		}
	}
	return nil
}

type emptyKeyError struct {
	owner string
}

func (e *emptyKeyError) Error() string {
	return e.owner + ": " + core.ErrEmptyKey.Error()
}

func (e *emptyKeyError) Unwrap() error { return core.ErrEmptyKey }
