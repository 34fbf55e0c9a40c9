// Package xitem is the entry point for share parameters that travel as one
// flat, string-keyed mapping.
//
// A share carries a handful of well-known fields (title, content text,
// attachments, tags, source URL, referrer) plus any number of custom records
// contributed by third parties. Everything is flattened into a single
// Mapping so it can cross any boundary that carries plain dictionaries.
//
// Features:
//
//   - **Reserved namespace**: well-known fields live under the x-extension-item prefix; custom records cannot write there.
//   - **Typed access**: a kind-checked reader (`core.Values`) that never fails on malformed input.
//   - **Pluggable records**: any type with MarshalMapping / UnmarshalMapping can be attached and decoded with `DecodeRecord[T]`.
//   - **Codecs**: JSON, YAML and TOML, with binary payloads preserved.
//   - **Transports**: a file outbox/inbox pair and an HTTP relay.
//
// Usage:
//
//	p, err := xitem.New(func(b *xitem.Builder) error {
//		b.SetTitle("Pancakes")
//		return b.Attach(tumblr.Parameters{CustomURLPathComponent: "pancakes"})
//	})
//
//	// On the other side of the transport
//	got := xitem.FromMapping(p.ToMapping())
//	rec := xitem.DecodeRecord[tumblr.Parameters](got)
package xitem
