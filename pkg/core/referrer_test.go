package core_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/xitem/pkg/core"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestReferrer_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		r    core.Referrer
	}{
		{"empty", core.Referrer{}},
		{"name only", core.Referrer{AppName: "Tumblr"}},
		{"full", core.Referrer{
			AppName:       "Tumblr",
			AppStoreID:    305343404,
			GooglePlayID:  "com.tumblr",
			WebURL:        mustURL(t, "https://bryan.tumblr.com/post/43724939726"),
			IOSAppURL:     mustURL(t, "tumblr://x-callback-url/blog?blogName=bryan&postID=43724939726"),
			AndroidAppURL: mustURL(t, "tumblr://blog?blogName=bryan&postID=43724939726"),
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.r.MarshalMapping()
			for k := range m {
				assert.True(t, core.IsReserved(k), "referrer key %q must be reserved", k)
			}
			got := core.Decode[core.Referrer](m)
			assert.True(t, tc.r.Equal(got), "want %+v, got %+v", tc.r, got)
			assert.Equal(t, m, got.MarshalMapping())
		})
	}
}

func TestReferrer_DecodeIgnoresUnknownAndMismatched(t *testing.T) {
	m := core.Mapping{
		core.KeyReferrerAppName:    42,
		core.KeyReferrerWebURL:     "not a url",
		core.KeyReferrerIOSAppURL:  "tumblr://blog",
		"x-extension-item-unknown": "future",
		"vendor":                   "ignored",
	}
	r := core.Decode[core.Referrer](m)
	assert.Equal(t, "", r.AppName)
	assert.Nil(t, r.WebURL)
	require.NotNil(t, r.IOSAppURL)
	assert.Equal(t, "tumblr://blog", r.IOSAppURL.String())
}

func TestReferrer_LegacyStringAppStoreID(t *testing.T) {
	tests := []struct {
		in   any
		want uint64
	}{
		{"305343404", 305343404},
		{"id305343404", 305343404},
		{" 12 ", 12},
		{"tumblr", 0},
		{"", 0},
		{float64(305343404), 305343404},
		{-1, 0},
	}
	for _, tc := range tests {
		r := core.Decode[core.Referrer](core.Mapping{core.KeyReferrerAppStoreID: tc.in})
		assert.Equal(t, tc.want, r.AppStoreID, "input %#v", tc.in)
	}
}

func TestReferrer_CloneSharesNoURLs(t *testing.T) {
	r := core.Referrer{WebURL: mustURL(t, "https://tumblr.com")}
	c := r.Clone()
	c.WebURL.Host = "example.com"
	assert.Equal(t, "tumblr.com", r.WebURL.Host)
	assert.True(t, core.Referrer{}.IsZero())
	assert.False(t, r.IsZero())
}

func TestReferrer_UnencodableFieldsAreUnset(t *testing.T) {
	r := core.Referrer{
		AppName:    "Tumblr",
		AppStoreID: core.NotFound,
		WebURL:     &url.URL{Host: "tumblr.com", Path: "/x"},
		IOSAppURL:  &url.URL{Path: "/post/1"},
	}

	m := r.MarshalMapping()
	assert.Equal(t, core.Mapping{core.KeyReferrerAppName: "Tumblr"}, m)

	c := r.Clone()
	assert.Equal(t, uint64(0), c.AppStoreID)
	assert.Nil(t, c.WebURL)
	assert.Nil(t, c.IOSAppURL)

	got := core.Decode[core.Referrer](m)
	assert.True(t, c.Equal(got), "want %+v, got %+v", c, got)
}

func TestAttachment_RoundTrip(t *testing.T) {
	tests := []core.Attachment{
		core.NewURLAttachment(mustURL(t, "https://apple.com")),
		core.NewTextAttachment("iPad Air 2. Change is in the air"),
		core.NewDataAttachment("public.png", []byte{0x89, 0x50, 0x4e, 0x47}),
		core.NewDataAttachment("", []byte{0x00}),
	}
	for _, a := range tests {
		got := core.Decode[core.Attachment](a.MarshalMapping())
		assert.True(t, a.Equal(got), "want %+v, got %+v", a, got)
	}

	u, ok := tests[0].URL()
	require.True(t, ok)
	assert.Equal(t, "https://apple.com", u.String())
	_, ok = tests[0].Text()
	assert.False(t, ok)

	text, ok := tests[1].Text()
	require.True(t, ok)
	assert.Equal(t, "iPad Air 2. Change is in the air", text)

	assert.Equal(t, core.TypeData, tests[3].TypeIdentifier)
}
