package xitem_test

import (
	"fmt"
	"log"

	"github.com/aretw0/xitem"
	"github.com/aretw0/xitem/pkg/custom/tumblr"
)

// ExampleNew demonstrates how a producer builds parameters and encodes them.
func ExampleNew() {
	p, err := xitem.New(func(b *xitem.Builder) error {
		b.SetTitle("Pancakes")
		b.SetTags("breakfast")
		return b.Attach(tumblr.Parameters{
			CustomURLPathComponent: "pancakes",
			RequestedPostType:      tumblr.PostTypePhoto,
		})
	})
	if err != nil {
		log.Fatal(err)
	}

	data, err := xitem.Marshal("json", p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
	// Output:
	// {
	//   "tumblr-custom-url-path-component": "pancakes",
	//   "tumblr-requested-post-type": 5,
	//   "x-extension-item-tags": [
	//     "breakfast"
	//   ],
	//   "x-extension-item-title": "Pancakes"
	// }
}

// ExampleDecodeRecord demonstrates how a consumer reads the well-known fields
// and then decodes the custom record it knows about.
func ExampleDecodeRecord() {
	data := []byte(`
x-extension-item-title: Pancakes
x-extension-item-referrer-app-store-id: id305343404
tumblr-custom-url-path-component: pancakes
tumblr-requested-post-type: 5
other-vendor-flag: true
`)
	p, err := xitem.Unmarshal("yaml", data)
	if err != nil {
		log.Fatal(err)
	}

	rec := xitem.DecodeRecord[tumblr.Parameters](p)
	fmt.Println(p.Title())
	fmt.Println(p.Referrer().AppStoreID)
	fmt.Println(rec.CustomURLPathComponent, rec.RequestedPostType)
	// Output:
	// Pancakes
	// 305343404
	// pancakes photo
}

// ExampleLint demonstrates how a misspelled reserved key is reported.
func ExampleLint() {
	for _, f := range xitem.Lint(xitem.Mapping{"x-extension-item-titel": "Pancakes"}) {
		fmt.Println(f.Key, f.Code, f.Suggestion)
	}
	// Output:
	// x-extension-item-titel unknown-reserved x-extension-item-title
}
