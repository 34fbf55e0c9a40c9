package core

import "sort"

// System keys written by the parameters aggregate.
const (
	KeyTitle       = ReservedPrefix + "-title"
	KeyContentText = ReservedPrefix + "-content-text"
	KeyAttachments = ReservedPrefix + "-attachments"
	KeyTags        = ReservedPrefix + "-tags"
	KeySourceURL   = ReservedPrefix + "-source-url"
)

// Keys written by Referrer.
const (
	KeyReferrerAppName       = ReservedPrefix + "-referrer-app-name"
	KeyReferrerAppStoreID    = ReservedPrefix + "-referrer-app-store-id"
	KeyReferrerGooglePlayID  = ReservedPrefix + "-referrer-google-play-id"
	KeyReferrerWebURL        = ReservedPrefix + "-referrer-web-url"
	KeyReferrerIOSAppURL     = ReservedPrefix + "-referrer-ios-app-url"
	KeyReferrerAndroidAppURL = ReservedPrefix + "-referrer-android-app-url"
)

// Keys written inside each attachment mapping.
const (
	KeyAttachmentTypeIdentifier = ReservedPrefix + "-attachment-type-identifier"
	KeyAttachmentData           = ReservedPrefix + "-attachment-data"
)

// Kind names one of the value kinds a Mapping can carry.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindURL
	KindMapping
	KindSequence
	KindData
	KindUnsigned
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindURL:
		return "url"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindData:
		return "data"
	case KindUnsigned:
		return "unsigned"
	default:
		return "unknown"
	}
}

var systemKinds = map[string]Kind{
	KeyTitle:                 KindString,
	KeyContentText:           KindString,
	KeyAttachments:           KindSequence,
	KeyTags:                  KindSequence,
	KeySourceURL:             KindURL,
	KeyReferrerAppName:       KindString,
	KeyReferrerAppStoreID:    KindUnsigned,
	KeyReferrerGooglePlayID:  KindString,
	KeyReferrerWebURL:        KindURL,
	KeyReferrerIOSAppURL:     KindURL,
	KeyReferrerAndroidAppURL: KindURL,
}

// SystemKeys returns every top-level reserved key this library writes, sorted.
func SystemKeys() []string {
	keys := make([]string, 0, len(systemKinds))
	for k := range systemKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SystemKind returns the kind expected under a system key.
func SystemKind(key string) (Kind, bool) {
	k, ok := systemKinds[key]
	return k, ok
}

// Matches reports whether the value under key can be read as kind k.
func (v Values) Matches(key string, k Kind) bool {
	switch k {
	case KindString:
		_, ok := v.String(key)
		return ok
	case KindNumber:
		_, ok := v.Number(key)
		return ok
	case KindURL:
		_, ok := v.URL(key)
		return ok
	case KindMapping:
		_, ok := v.Mapping(key)
		return ok
	case KindSequence:
		_, ok := v.Sequence(key)
		return ok
	case KindData:
		_, ok := v.Data(key)
		return ok
	case KindUnsigned:
		return v.UnsignedInteger(key) != NotFound
	}
	return false
}
