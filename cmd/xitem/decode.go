package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/xitem/pkg/core"
	"github.com/aretw0/xitem/pkg/custom/tumblr"
	"github.com/aretw0/xitem/pkg/params"
)

// knownRecords decodes the custom records the CLI understands. A record is
// reported only when at least one of its keys is present.
var knownRecords = map[string]struct {
	keys   []string
	decode func(params.Parameters) any
}{
	"tumblr": {
		keys: []string{tumblr.KeyCustomURLPathComponent, tumblr.KeyRequestedPostType, tumblr.KeyConsumerKey},
		decode: func(p params.Parameters) any {
			rec := params.DecodeRecord[tumblr.Parameters](p)
			return tumblrView{
				CustomURLPathComponent: rec.CustomURLPathComponent,
				RequestedPostType:      rec.RequestedPostType.String(),
				ConsumerKey:            rec.ConsumerKey,
			}
		},
	},
}

type tumblrView struct {
	CustomURLPathComponent string `json:"custom_url_path_component,omitempty"`
	RequestedPostType      string `json:"requested_post_type"`
	ConsumerKey            string `json:"consumer_key,omitempty"`
}

type attachmentView struct {
	TypeIdentifier string `json:"type_identifier,omitempty"`
	URL            string `json:"url,omitempty"`
	Text           string `json:"text,omitempty"`
	Bytes          int    `json:"bytes,omitempty"`
}

type referrerView struct {
	AppName       string `json:"app_name,omitempty"`
	AppStoreID    uint64 `json:"app_store_id,omitempty"`
	GooglePlayID  string `json:"google_play_id,omitempty"`
	WebURL        string `json:"web_url,omitempty"`
	IOSAppURL     string `json:"ios_app_url,omitempty"`
	AndroidAppURL string `json:"android_app_url,omitempty"`
}

type itemView struct {
	Title       string           `json:"title,omitempty"`
	ContentText string           `json:"content_text,omitempty"`
	Attachments []attachmentView `json:"attachments,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	SourceURL   string           `json:"source_url,omitempty"`
	Referrer    *referrerView    `json:"referrer,omitempty"`
	Records     map[string]any   `json:"records,omitempty"`
	UserInfo    core.Mapping     `json:"user_info,omitempty"`
}

func newItemView(p params.Parameters) itemView {
	v := itemView{
		Title:       p.Title(),
		ContentText: p.ContentText(),
		Tags:        p.Tags(),
	}
	if u := p.SourceURL(); u != nil {
		v.SourceURL = u.String()
	}
	for _, a := range p.Attachments() {
		av := attachmentView{TypeIdentifier: a.TypeIdentifier, Bytes: len(a.Data)}
		if u, ok := a.URL(); ok {
			av.URL, av.Bytes = u.String(), 0
		} else if s, ok := a.Text(); ok {
			av.Text, av.Bytes = s, 0
		}
		v.Attachments = append(v.Attachments, av)
	}
	if r := p.Referrer(); !r.IsZero() {
		v.Referrer = &referrerView{
			AppName:       r.AppName,
			AppStoreID:    r.AppStoreID,
			GooglePlayID:  r.GooglePlayID,
			WebURL:        urlString(r.WebURL),
			IOSAppURL:     urlString(r.IOSAppURL),
			AndroidAppURL: urlString(r.AndroidAppURL),
		}
	}

	custom := p.CustomMapping()
	known := make(map[string]bool)
	for name, rec := range knownRecords {
		for _, k := range rec.keys {
			if _, ok := custom[k]; ok {
				if v.Records == nil {
					v.Records = make(map[string]any)
				}
				v.Records[name] = rec.decode(p)
				for _, k := range rec.keys {
					known[k] = true
				}
				break
			}
		}
	}

	rest := core.Mapping{}
	for k, val := range custom {
		if !known[k] {
			rest[k] = val
		}
	}
	if len(rest) > 0 {
		v.UserInfo = rest
	}
	return v
}

var decodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a mapping file and print its fields",
	Long: `Decode a mapping file (json, yaml, yml or toml, or "-" for stdin in the
configured format) and print system fields, known custom records and the
remaining custom keys as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMapping(args[0])
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newItemView(params.FromMapping(m)))
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
