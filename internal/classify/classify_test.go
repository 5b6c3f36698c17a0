package classify

import (
	"testing"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

var devTestValues = []string{"dev", "test", "development", "testing", "staging", "qa"}

func TestIsDevTest(t *testing.T) {
	tests := []struct {
		name string
		tags models.TagSet
		want bool
	}{
		{
			name: "exact lowercase value",
			tags: models.TagSet{"environment": "dev"},
			want: true,
		},
		{
			name: "value matched case-insensitively",
			tags: models.TagSet{"Environment": "STAGING"},
			want: true,
		},
		{
			name: "marker in value of unrelated key",
			tags: models.TagSet{"team": "qa"},
			want: true,
		},
		{
			name: "substring value does not match",
			tags: models.TagSet{"environment": "testing-v2"},
			want: false,
		},
		{
			name: "marker as key does not match",
			tags: models.TagSet{"dev": "true"},
			want: false,
		},
		{
			name: "production value",
			tags: models.TagSet{"environment": "production"},
			want: false,
		},
		{
			name: "no tags",
			tags: nil,
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDevTest(tc.tags, devTestValues); got != tc.want {
				t.Errorf("IsDevTest(%v) = %v, want %v", tc.tags, got, tc.want)
			}
		})
	}
}

func TestHasAutomationMarker(t *testing.T) {
	vocab := []string{"AutoShutdown", "AutoStart", "Schedule", "StopStart", "Automation"}

	tests := []struct {
		name          string
		tags          models.TagSet
		caseSensitive bool
		want          bool
	}{
		{
			name: "exact key",
			tags: models.TagSet{"AutoShutdown": "19:00"},
			want: true,
		},
		{
			name:          "marker as key substring under case-sensitive keys",
			tags:          models.TagSet{"AutoShutdownSchedule": "nightly"},
			caseSensitive: true,
			want:          true,
		},
		{
			name: "marker in value does not count",
			tags: models.TagSet{"notes": "AutoShutdown at 19:00"},
			want: false,
		},
		{
			name:          "case-sensitive misses lowercase key",
			tags:          models.TagSet{"autoshutdown": "19:00"},
			caseSensitive: true,
			want:          false,
		},
		{
			name: "case-insensitive matches lowercase key",
			tags: models.TagSet{"autoshutdown": "19:00"},
			want: true,
		},
		{
			name: "empty tags",
			tags: models.TagSet{},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasAutomationMarker(tc.tags, vocab, tc.caseSensitive); got != tc.want {
				t.Errorf("HasAutomationMarker(%v, caseSensitive=%v) = %v, want %v",
					tc.tags, tc.caseSensitive, got, tc.want)
			}
		})
	}
}

func TestFormatTags(t *testing.T) {
	t.Run("sorted key order", func(t *testing.T) {
		got := FormatTags(models.TagSet{"env": "dev", "app": "billing"})
		want := "app=billing; env=dev"
		if got != want {
			t.Errorf("FormatTags() = %q, want %q", got, want)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		if got := FormatTags(nil); got != "N/A" {
			t.Errorf("FormatTags(nil) = %q, want %q", got, "N/A")
		}
	})
}
