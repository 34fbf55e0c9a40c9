package core

import (
	"net/url"
	"strconv"
	"strings"
)

// Referrer describes the application the shared content comes from.
//
// Every field is optional. The App Store id is numeric; zero means unset, and
// NotFound is treated as unset too. URLs must be absolute: relative ones are
// not written and Clone drops them.
type Referrer struct {
	AppName       string
	AppStoreID    uint64
	GooglePlayID  string
	WebURL        *url.URL
	IOSAppURL     *url.URL
	AndroidAppURL *url.URL
}

// MarshalMapping implements Marshaler. Unset fields are omitted.
func (r Referrer) MarshalMapping() Mapping {
	m := make(Mapping)
	if r.AppName != "" {
		m[KeyReferrerAppName] = r.AppName
	}
	if r.AppStoreID != 0 && r.AppStoreID != NotFound {
		m[KeyReferrerAppStoreID] = r.AppStoreID
	}
	if r.GooglePlayID != "" {
		m[KeyReferrerGooglePlayID] = r.GooglePlayID
	}
	putURL(m, KeyReferrerWebURL, r.WebURL)
	putURL(m, KeyReferrerIOSAppURL, r.IOSAppURL)
	putURL(m, KeyReferrerAndroidAppURL, r.AndroidAppURL)
	return m
}

// UnmarshalMapping implements Unmarshaler.
//
// The App Store id was a string in older producers. A string of decimal
// digits, optionally prefixed with "id" as in App Store links, is migrated to
// the numeric form; any other string decodes as unset.
func (r *Referrer) UnmarshalMapping(m Mapping) {
	v := NewValues(m)
	*r = Referrer{}
	r.AppName, _ = v.String(KeyReferrerAppName)
	r.GooglePlayID, _ = v.String(KeyReferrerGooglePlayID)
	if id := v.UnsignedInteger(KeyReferrerAppStoreID); id != NotFound {
		r.AppStoreID = id
	} else if s, ok := v.String(KeyReferrerAppStoreID); ok {
		r.AppStoreID = ParseAppStoreID(s)
	}
	r.WebURL, _ = v.URL(KeyReferrerWebURL)
	r.IOSAppURL, _ = v.URL(KeyReferrerIOSAppURL)
	r.AndroidAppURL, _ = v.URL(KeyReferrerAndroidAppURL)
}

// IsZero reports whether no field is set.
func (r Referrer) IsZero() bool {
	return r.Equal(Referrer{})
}

// Equal compares field by field; URLs compare by their string form.
func (r Referrer) Equal(o Referrer) bool {
	return r.AppName == o.AppName &&
		r.AppStoreID == o.AppStoreID &&
		r.GooglePlayID == o.GooglePlayID &&
		urlString(r.WebURL) == urlString(o.WebURL) &&
		urlString(r.IOSAppURL) == urlString(o.IOSAppURL) &&
		urlString(r.AndroidAppURL) == urlString(o.AndroidAppURL)
}

// Clone returns a copy that shares no URL pointers with r. Fields that cannot
// be encoded (relative URLs, a NotFound App Store id) come back unset, so the
// clone round-trips through MarshalMapping.
func (r Referrer) Clone() Referrer {
	if r.AppStoreID == NotFound {
		r.AppStoreID = 0
	}
	r.WebURL = AbsoluteURL(r.WebURL)
	r.IOSAppURL = AbsoluteURL(r.IOSAppURL)
	r.AndroidAppURL = AbsoluteURL(r.AndroidAppURL)
	return r
}

// ParseAppStoreID converts the legacy string form of an App Store id ("12345"
// or "id12345") to its numeric form. It returns 0 when s is not such a string.
func ParseAppStoreID(s string) uint64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "id")
	if s == "" {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == NotFound {
		return 0
	}
	return id
}

func putURL(m Mapping, key string, u *url.URL) {
	if u = AbsoluteURL(u); u != nil {
		m[key] = u.String()
	}
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
