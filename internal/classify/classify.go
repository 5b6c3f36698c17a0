// Package classify decides whether a resource belongs to the dev/test
// estate and whether it carries scheduling automation markers. All rule
// evaluation gates on these checks, so their matching semantics are kept
// deliberately narrow and well tested.
package classify

import (
	"sort"
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// IsDevTest reports whether any tag VALUE exactly matches one of the
// recognized dev/test markers, compared case-insensitively. Keys are
// ignored and substrings do not count: "testing-v2" never matches "testing".
func IsDevTest(tags models.TagSet, recognized []string) bool {
	if len(tags) == 0 {
		return false
	}
	for _, v := range tags {
		lv := strings.ToLower(v)
		for _, want := range recognized {
			if lv == strings.ToLower(want) {
				return true
			}
		}
	}
	return false
}

// HasAutomationMarker reports whether any tag KEY contains one of the
// vocabulary entries as a substring. Values are ignored. caseSensitive
// follows the provider's tag-key semantics: AWS and Azure keys are
// case-sensitive, GCP and OCI keys are compared lowercased.
func HasAutomationMarker(tags models.TagSet, vocabulary []string, caseSensitive bool) bool {
	for k := range tags {
		key := k
		if !caseSensitive {
			key = strings.ToLower(key)
		}
		for _, marker := range vocabulary {
			m := marker
			if !caseSensitive {
				m = strings.ToLower(m)
			}
			if strings.Contains(key, m) {
				return true
			}
		}
	}
	return false
}

// FormatTags renders a tag set as "key=value; key=value" with keys sorted,
// or "N/A" when the resource has no tags. Used for the tags column in
// exports and report tables.
func FormatTags(tags models.TagSet) string {
	if len(tags) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+tags[k])
	}
	return strings.Join(parts, "; ")
}
