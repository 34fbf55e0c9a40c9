package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/core"
	"github.com/aretw0/xitem/pkg/custom/tumblr"
	"github.com/aretw0/xitem/pkg/params"
)

// itemFlags collects the builder flags shared by encode and send.
type itemFlags struct {
	title       string
	content     string
	tags        []string
	sourceURL   string
	attachURLs  []string
	attachTexts []string
	attachFiles []string
	sets        []string

	referrer struct {
		appName    string
		appStoreID string
		googlePlay string
		webURL     string
		iosURL     string
		androidURL string
	}

	tumblr struct {
		path        string
		postType    string
		consumerKey string
	}
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Item title")
	fl.StringVar(&f.content, "content", "", "Item content text")
	fl.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	fl.StringVar(&f.sourceURL, "source-url", "", "Source URL")
	fl.StringSliceVar(&f.attachURLs, "attach-url", nil, "URL attachment (repeatable)")
	fl.StringArrayVar(&f.attachTexts, "attach-text", nil, "Text attachment (repeatable)")
	fl.StringSliceVar(&f.attachFiles, "attach-file", nil, "Binary attachment read from a file (repeatable)")
	fl.StringArrayVar(&f.sets, "set", nil, "Custom key=value; the value is parsed as a YAML scalar (repeatable)")

	fl.StringVar(&f.referrer.appName, "referrer-app-name", "", "Referring app name")
	fl.StringVar(&f.referrer.appStoreID, "referrer-app-store-id", "", "Referring app App Store id (12345 or id12345)")
	fl.StringVar(&f.referrer.googlePlay, "referrer-google-play-id", "", "Referring app Google Play id")
	fl.StringVar(&f.referrer.webURL, "referrer-web-url", "", "Referring web URL")
	fl.StringVar(&f.referrer.iosURL, "referrer-ios-app-url", "", "Referring iOS app URL")
	fl.StringVar(&f.referrer.androidURL, "referrer-android-app-url", "", "Referring Android app URL")

	fl.StringVar(&f.tumblr.path, "tumblr-path", "", "Tumblr custom URL path component")
	fl.StringVar(&f.tumblr.postType, "tumblr-post-type", "", "Tumblr requested post type ("+strings.Join(tumblrPostTypes(), ", ")+")")
	fl.StringVar(&f.tumblr.consumerKey, "tumblr-consumer-key", "", "Tumblr consumer key")
}

func (f *itemFlags) build() (params.Parameters, error) {
	return params.New(func(b *params.Builder) error {
		b.SetTitle(f.title)
		b.SetContentText(f.content)
		b.SetTags(f.tags...)

		if f.sourceURL != "" {
			u, err := parseURL("--source-url", f.sourceURL)
			if err != nil {
				return err
			}
			b.SetSourceURL(u)
		}

		for _, s := range f.attachURLs {
			u, err := parseURL("--attach-url", s)
			if err != nil {
				return err
			}
			b.AddAttachment(core.NewURLAttachment(u))
		}
		for _, s := range f.attachTexts {
			b.AddAttachment(core.NewTextAttachment(s))
		}
		for _, path := range f.attachFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("--attach-file: %w", err)
			}
			b.AddAttachment(core.NewDataAttachment(typeIdentifier(path), data))
		}

		r, err := f.buildReferrer()
		if err != nil {
			return err
		}
		b.SetReferrer(r)

		if f.tumblr.path != "" || f.tumblr.postType != "" || f.tumblr.consumerKey != "" {
			rec := tumblr.Parameters{
				CustomURLPathComponent: f.tumblr.path,
				ConsumerKey:            f.tumblr.consumerKey,
			}
			if f.tumblr.postType != "" {
				pt, err := tumblr.ParsePostType(f.tumblr.postType)
				if err != nil {
					return err
				}
				rec.RequestedPostType = pt
			}
			if err := b.Attach(rec); err != nil {
				return err
			}
		}

		extra, err := parseSets(f.sets)
		if err != nil {
			return err
		}
		return b.AddUserInfo(extra)
	})
}

func (f *itemFlags) buildReferrer() (core.Referrer, error) {
	r := core.Referrer{
		AppName:      f.referrer.appName,
		GooglePlayID: f.referrer.googlePlay,
	}
	if f.referrer.appStoreID != "" {
		r.AppStoreID = core.ParseAppStoreID(f.referrer.appStoreID)
		if r.AppStoreID == 0 {
			return r, fmt.Errorf("--referrer-app-store-id: invalid id %q", f.referrer.appStoreID)
		}
	}
	for _, u := range []struct {
		flag  string
		value string
		dst   **url.URL
	}{
		{"--referrer-web-url", f.referrer.webURL, &r.WebURL},
		{"--referrer-ios-app-url", f.referrer.iosURL, &r.IOSAppURL},
		{"--referrer-android-app-url", f.referrer.androidURL, &r.AndroidAppURL},
	} {
		if u.value == "" {
			continue
		}
		parsed, err := parseURL(u.flag, u.value)
		if err != nil {
			return r, err
		}
		*u.dst = parsed
	}
	return r, nil
}

func parseURL(flag, s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%s: %q is not an absolute URL", flag, s)
	}
	return u, nil
}

// parseSets turns key=value pairs into a mapping. Values go through the YAML
// decoder so that numbers and booleans keep their kind.
func parseSets(sets []string) (core.Mapping, error) {
	m := core.Mapping{}
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--set: expected key=value, got %q", kv)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		switch x := v.(type) {
		case bool, float64:
			m[key] = x
		case int:
			m[key] = int64(x)
		default:
			m[key] = raw
		}
	}
	return m, nil
}

func typeIdentifier(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "public.png"
	case ".jpg", ".jpeg":
		return "public.jpeg"
	case ".gif":
		return "com.compuserve.gif"
	case ".txt":
		return core.TypePlainText
	case ".json":
		return "public.json"
	}
	return core.TypeData
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func tumblrPostTypes() []string {
	var names []string
	for pt := tumblr.PostTypeAny; pt <= tumblr.PostTypeVideo; pt++ {
		names = append(names, pt.String())
	}
	return names
}

// readMapping decodes a mapping from path, or from stdin when path is "-".
// The codec follows the file extension; stdin uses the configured format.
func readMapping(path string) (core.Mapping, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return cfg.Codec().Unmarshal(data)
	}
	c, err := codec.ForExtension(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data)
}

// outputCodec resolves --format, falling back to the configured format.
func outputCodec(format string) (codec.Codec, error) {
	if format == "" {
		return cfg.Codec(), nil
	}
	return codec.ByName(format)
}
