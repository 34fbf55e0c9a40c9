package params_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/xitem/pkg/core"
	"github.com/aretw0/xitem/pkg/custom/tumblr"
	"github.com/aretw0/xitem/pkg/params"
)

// vendor is a minimal third-party record.
type vendor struct {
	Slug string
}

func (v vendor) MarshalMapping() core.Mapping {
	if v.Slug == "" {
		return core.Mapping{}
	}
	return core.Mapping{"vendor-slug": v.Slug}
}

func (v *vendor) UnmarshalMapping(m core.Mapping) {
	v.Slug, _ = core.NewValues(m).String("vendor-slug")
}

// rogue writes into the reserved namespace.
type rogue struct{}

func (rogue) MarshalMapping() core.Mapping {
	return core.Mapping{"fine": 1, core.ReservedPrefix + "-sneaky": true}
}

// squatter writes the same key as vendor.
type squatter struct{}

func (squatter) MarshalMapping() core.Mapping {
	return core.Mapping{"vendor-slug": "mine"}
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestToMapping_Example(t *testing.T) {
	p, err := params.New(func(b *params.Builder) error {
		b.SetTitle("Apple")
		b.SetTags("featured")
		return b.Attach(vendor{Slug: "resolutions"})
	})
	require.NoError(t, err)

	assert.Equal(t, core.Mapping{
		"x-extension-item-title": "Apple",
		"x-extension-item-tags":  []string{"featured"},
		"vendor-slug":            "resolutions",
	}, p.ToMapping())
}

func TestMapping_RoundTripSystemFields(t *testing.T) {
	b := params.NewBuilder()
	b.SetTitle("Apple")
	b.SetContentText("iPad Air 2. Change is in the air")
	b.AddAttachment(core.NewURLAttachment(mustURL(t, "https://apple.com/ipad-air-2")))
	b.AddAttachment(core.NewDataAttachment("public.png", []byte{1, 2, 3}))
	b.SetTags("apple", "ipad")
	b.AddTags("ios")
	b.SetSourceURL(mustURL(t, "https://www.apple.com/ipad-air-2/"))
	b.SetReferrer(core.Referrer{
		AppName:    "Tumblr",
		AppStoreID: 305343404,
		WebURL:     mustURL(t, "https://tumblr.com"),
	})
	p := b.Freeze()

	got := params.FromMapping(p.ToMapping())
	assert.True(t, p.Equal(got))
	assert.Equal(t, []string{"apple", "ipad", "ios"}, got.Tags())
	assert.Equal(t, "https://www.apple.com/ipad-air-2/", got.SourceURL().String())
	assert.Equal(t, uint64(305343404), got.Referrer().AppStoreID)
	require.Len(t, got.Attachments(), 2)
	assert.Equal(t, []byte{1, 2, 3}, got.Attachments()[1].Data)
}

func TestMapping_RelativeURLsAreNotKept(t *testing.T) {
	b := params.NewBuilder()
	b.SetTitle("post")
	b.SetSourceURL(&url.URL{Path: "/post/1"})
	b.SetReferrer(core.Referrer{
		AppName:    "Tumblr",
		AppStoreID: core.NotFound,
		WebURL:     &url.URL{Host: "tumblr.com", Path: "/x"},
	})
	p := b.Freeze()

	assert.Nil(t, p.SourceURL())
	assert.Nil(t, p.Referrer().WebURL)
	assert.Equal(t, uint64(0), p.Referrer().AppStoreID)

	m := p.ToMapping()
	assert.NotContains(t, m, core.KeySourceURL)
	assert.NotContains(t, m, core.KeyReferrerWebURL)
	assert.NotContains(t, m, core.KeyReferrerAppStoreID)
	assert.True(t, p.Equal(params.FromMapping(m)))
}

func TestFromMapping_CustomRegionDecodesOnDemand(t *testing.T) {
	b := params.NewBuilder()
	b.SetTitle("Resolutions")
	require.NoError(t, b.Attach(vendor{Slug: "resolutions"}))
	require.NoError(t, b.Attach(tumblr.Parameters{CustomURLPathComponent: "pancakes", RequestedPostType: tumblr.PostTypeLink}))

	got := params.FromMapping(b.Freeze().ToMapping())
	assert.Equal(t, "Resolutions", got.Title())
	assert.Empty(t, got.Records(), "decoded custom keys live in user info")
	assert.Equal(t, vendor{Slug: "resolutions"}, params.DecodeRecord[vendor](got))
	assert.Equal(t,
		tumblr.Parameters{CustomURLPathComponent: "pancakes", RequestedPostType: tumblr.PostTypeLink},
		params.DecodeRecord[tumblr.Parameters](got))
}

func TestFromMapping_Tolerance(t *testing.T) {
	got := params.FromMapping(core.Mapping{
		core.KeyTitle:               42,
		core.KeyTags:                []any{"ok", 7},
		core.KeySourceURL:           "not absolute",
		core.KeyAttachments:         []any{"junk", map[string]any{core.KeyAttachmentTypeIdentifier: core.TypePlainText}},
		core.ReservedPrefix + "-v9": "future field",
		"vendor-slug":               "kept",
	})
	assert.Equal(t, "", got.Title())
	assert.Nil(t, got.Tags())
	assert.Nil(t, got.SourceURL())
	require.Len(t, got.Attachments(), 1)
	assert.Equal(t, core.TypePlainText, got.Attachments()[0].TypeIdentifier)
	assert.Equal(t, core.Mapping{"vendor-slug": "kept"}, got.UserInfo())
	assert.NotContains(t, got.ToMapping(), core.ReservedPrefix+"-v9")
}

func TestAttach_NamespaceIsolation(t *testing.T) {
	b := params.NewBuilder()
	require.NoError(t, b.Attach(vendor{Slug: "resolutions"}))
	require.NoError(t, b.Attach(&tumblr.Parameters{ConsumerKey: "key"}))

	m := b.Freeze().ToMapping()
	assert.Equal(t, vendor{Slug: "resolutions"}, core.Decode[vendor](m))
	assert.Equal(t, tumblr.Parameters{ConsumerKey: "key"}, core.Decode[tumblr.Parameters](m))
}

func TestAttach_ReservedKeyLeavesBuilderUnchanged(t *testing.T) {
	b := params.NewBuilder()
	b.SetTitle("Apple")
	require.NoError(t, b.Attach(vendor{Slug: "resolutions"}))
	before := b.Freeze().ToMapping()

	err := b.Attach(rogue{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReservedKey))

	var rke *params.ReservedKeyError
	require.ErrorAs(t, err, &rke)
	assert.Equal(t, core.ReservedPrefix+"-sneaky", rke.Key)
	assert.Equal(t, "params_test.rogue", rke.Record)

	assert.Equal(t, before, b.Freeze().ToMapping())
	assert.NotContains(t, b.Freeze().ToMapping(), "fine")
}

func TestAttach_Collisions(t *testing.T) {
	b := params.NewBuilder()
	require.NoError(t, b.Attach(vendor{Slug: "a"}))

	err := b.Attach(squatter{})
	require.ErrorIs(t, err, core.ErrKeyCollision)
	var kce *params.KeyCollisionError
	require.ErrorAs(t, err, &kce)
	assert.Equal(t, "vendor-slug", kce.Key)
	assert.Equal(t, "params_test.vendor", kce.Other)

	// Same concrete type replaces, pointer or value.
	require.NoError(t, b.Attach(&vendor{Slug: "b"}))
	assert.Equal(t, []string{"params_test.vendor"}, b.Freeze().Records())
	assert.Equal(t, "b", b.Freeze().ToMapping()["vendor-slug"])

	err = b.AddUserInfo(core.Mapping{"vendor-slug": "raw"})
	require.ErrorIs(t, err, core.ErrKeyCollision)

	require.NoError(t, b.AddUserInfo(core.Mapping{"extra": 1}))
	err = b.Attach(userInfoSquatter{})
	require.ErrorIs(t, err, core.ErrKeyCollision)
	require.ErrorAs(t, err, &kce)
	assert.Equal(t, "user info", kce.Other)
}

type userInfoSquatter struct{}

func (userInfoSquatter) MarshalMapping() core.Mapping { return core.Mapping{"extra": 2} }

func TestAttach_InvalidRecords(t *testing.T) {
	b := params.NewBuilder()
	assert.ErrorIs(t, b.Attach(nil), params.ErrNilRecord)
	var nilVendor *vendor
	assert.ErrorIs(t, b.Attach(nilVendor), params.ErrNilRecord)
	assert.ErrorIs(t, b.SetUserInfo(core.Mapping{"": 1}), core.ErrEmptyKey)
	assert.ErrorIs(t, b.SetUserInfo(core.Mapping{core.KeyTitle: "x"}), core.ErrReservedKey)
}

func TestDetach(t *testing.T) {
	b := params.NewBuilder()
	require.NoError(t, b.Attach(vendor{Slug: "a"}))
	require.NoError(t, b.Attach(tumblr.Parameters{}))

	assert.True(t, b.Detach(vendor{}))
	assert.False(t, b.Detach(&vendor{}))
	assert.Equal(t, []string{"tumblr.Parameters"}, b.Freeze().Records())

	// The key is free again.
	require.NoError(t, b.Attach(squatter{}))
}

func TestThaw_ReattachAfterDecode(t *testing.T) {
	b := params.NewBuilder()
	require.NoError(t, b.Attach(tumblr.Parameters{CustomURLPathComponent: "old"}))
	received := params.FromMapping(b.Freeze().ToMapping())

	tp := params.DecodeRecord[tumblr.Parameters](received)
	tp.CustomURLPathComponent = "new"

	nb := received.Thaw()
	require.ErrorIs(t, nb.Attach(tp), core.ErrKeyCollision, "decoded keys sit in user info")
	nb.DeleteUserInfo(tumblr.KeyCustomURLPathComponent, tumblr.KeyRequestedPostType, tumblr.KeyConsumerKey)
	require.NoError(t, nb.Attach(tp))

	assert.Equal(t, "new", params.DecodeRecord[tumblr.Parameters](nb.Freeze()).CustomURLPathComponent)
	assert.Equal(t, "old", params.DecodeRecord[tumblr.Parameters](received).CustomURLPathComponent)
}

func TestBuilderSnapshotIndependence(t *testing.T) {
	src := mustURL(t, "https://example.com/a")
	data := []byte{1, 2}
	info := core.Mapping{"nested": core.Mapping{"k": "v"}}

	b := params.NewBuilder()
	b.SetSourceURL(src)
	b.SetTags("one")
	b.AddAttachment(core.NewDataAttachment("", data))
	require.NoError(t, b.SetUserInfo(info))
	p := b.Freeze()

	// Mutating inputs does not reach the builder or the snapshot.
	src.Path = "/mutated"
	data[0] = 9
	info["nested"].(core.Mapping)["k"] = "changed"

	// Mutating the builder does not reach the snapshot.
	b.SetTitle("later")
	b.AddTags("two")
	b.DeleteUserInfo("nested")

	// Mutating accessor results does not reach the snapshot.
	p.Tags()[0] = "zero"
	p.SourceURL().Path = "/other"
	p.Attachments()[0].Data[1] = 9
	p.UserInfo()["nested"].(core.Mapping)["k"] = "changed"

	assert.Equal(t, "", p.Title())
	assert.Equal(t, []string{"one"}, p.Tags())
	assert.Equal(t, "/a", p.SourceURL().Path)
	assert.Equal(t, []byte{1, 2}, p.Attachments()[0].Data)
	assert.Equal(t, core.Mapping{"nested": core.Mapping{"k": "v"}}, p.UserInfo())

	// Thawed builders are independent of the snapshot too.
	tb := p.Thaw()
	tb.SetTags("thawed")
	assert.Equal(t, []string{"one"}, p.Tags())
	assert.True(t, p.Equal(p.Thaw().Freeze()))
}

func TestNew_PropagatesError(t *testing.T) {
	p, err := params.New(func(b *params.Builder) error {
		b.SetTitle("partial")
		return b.Attach(rogue{})
	})
	require.ErrorIs(t, err, core.ErrReservedKey)
	assert.True(t, p.Equal(params.Parameters{}))
}

func TestCustomMapping(t *testing.T) {
	b := params.NewBuilder()
	b.SetTitle("ignored")
	require.NoError(t, b.AddUserInfo(core.Mapping{"raw": true}))
	require.NoError(t, b.Attach(vendor{Slug: "s"}))
	assert.Equal(t, core.Mapping{"raw": true, "vendor-slug": "s"}, b.Freeze().CustomMapping())
}
