// Package lint flags suspicious keys in a received mapping.
//
// Decoding is deliberately forgiving: a typo in a reserved key or a value of
// the wrong kind silently decodes as unset. Lint reports those cases so a
// consumer can tell a producer what it got wrong. It never changes what
// params.FromMapping returns.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aretw0/xitem/pkg/core"
)

// Code classifies a Finding.
type Code string

const (
	// CodeNearReserved marks a custom key a couple of edits away from a system key.
	CodeNearReserved Code = "near-reserved"
	// CodeCaseReserved marks a key that only differs from the reserved prefix in case.
	CodeCaseReserved Code = "case-reserved"
	// CodeUnknownReserved marks a reserved key this library does not write.
	CodeUnknownReserved Code = "unknown-reserved"
	// CodeKindMismatch marks a system key holding a value of the wrong kind.
	CodeKindMismatch Code = "kind-mismatch"
)

// MaxDistance is the largest edit distance reported as CodeNearReserved.
const MaxDistance = 2

// Finding is one lint result.
type Finding struct {
	Key        string `json:"key"`
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (f Finding) String() string {
	if f.Suggestion != "" {
		return fmt.Sprintf("%s: %s: %s (did you mean %q?)", f.Key, f.Code, f.Message, f.Suggestion)
	}
	return fmt.Sprintf("%s: %s: %s", f.Key, f.Code, f.Message)
}

// Check lints m. Findings are sorted by key, then code.
func Check(m core.Mapping) []Finding {
	var findings []Finding
	v := core.NewValues(m)
	system := core.SystemKeys()

	for _, key := range v.Keys() {
		if core.IsReserved(key) {
			findings = append(findings, checkReserved(v, key)...)
			continue
		}
		if strings.HasPrefix(strings.ToLower(key), core.ReservedPrefix) {
			findings = append(findings, Finding{
				Key:        key,
				Code:       CodeCaseReserved,
				Message:    "reserved prefix with different case is treated as a custom key",
				Suggestion: closest(strings.ToLower(key), system),
			})
			continue
		}
		if s := closest(key, system); s != "" {
			findings = append(findings, Finding{
				Key:        key,
				Code:       CodeNearReserved,
				Message:    "custom key looks like a misspelled system key",
				Suggestion: s,
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Key != findings[j].Key {
			return findings[i].Key < findings[j].Key
		}
		return findings[i].Code < findings[j].Code
	})
	return findings
}

func checkReserved(v core.Values, key string) []Finding {
	kind, ok := core.SystemKind(key)
	if !ok {
		return []Finding{{
			Key:        key,
			Code:       CodeUnknownReserved,
			Message:    "reserved key is not written by this library and will be dropped",
			Suggestion: closest(key, core.SystemKeys()),
		}}
	}
	if !v.Matches(key, kind) {
		return []Finding{mismatch(key, kind)}
	}

	switch key {
	case core.KeyTags:
		if _, ok := v.Strings(key); !ok {
			return []Finding{{Key: key, Code: CodeKindMismatch, Message: "expected a sequence of strings"}}
		}
	case core.KeyAttachments:
		seq, _ := v.Sequence(key)
		var out []Finding
		for i, e := range seq {
			if _, ok := e.(core.Mapping); !ok {
				out = append(out, Finding{
					Key:     fmt.Sprintf("%s[%d]", key, i),
					Code:    CodeKindMismatch,
					Message: "expected an attachment mapping",
				})
			}
		}
		return out
	}
	return nil
}

func mismatch(key string, kind core.Kind) Finding {
	return Finding{Key: key, Code: CodeKindMismatch, Message: "expected a value of kind " + kind.String()}
}

// closest returns the candidate nearest to key within MaxDistance, or "".
func closest(key string, candidates []string) string {
	best, bestDist := "", MaxDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(key, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
