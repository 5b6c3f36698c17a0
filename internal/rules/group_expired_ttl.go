package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ttlLayouts are the date formats accepted in expiration tag values, tried
// in order.
var ttlLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ExpiredGroupRule flags dev/test resource groups that either carry no
// expiration tag at all or whose expiration date has passed. A value that
// parses under none of the accepted layouts counts as "has a tag": the
// intent was recorded even if the format is off.
type ExpiredGroupRule struct{}

func NewExpiredGroupRule() *ExpiredGroupRule { return &ExpiredGroupRule{} }

func (r *ExpiredGroupRule) ID() string   { return "GROUP_EXPIRED_TTL" }
func (r *ExpiredGroupRule) Name() string { return "Resource group missing or past its expiration tag" }
func (r *ExpiredGroupRule) Category() models.Category {
	return models.CategoryStaleGroups
}

func (r *ExpiredGroupRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, grp := range ctx.Data.ResourceGroups {
		if !classify.IsDevTest(grp.Tags, ctx.Settings.DevTestValues) {
			continue
		}

		key, value, found := expirationTag(grp.Tags, ctx.Settings.ExpirationKeys)
		var reason string
		if !found {
			reason = "no expiration tag set; group may outlive its purpose"
		} else if expired, when := parseExpiration(value, ctx.Now); expired {
			reason = fmt.Sprintf("expiration tag %s=%s passed on %s", key, value, when.Format("2006-01-02"))
		} else {
			continue
		}

		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   grp.ID,
			ResourceName: grp.Name,
			ResourceType: "Resource Group",
			Scope:        grp.Scope,
			Location:     grp.Location,
			State:        grp.State,
			Reason:       reason,
			Severity:     models.SeverityLow,
			Tags:         classify.FormatTags(grp.Tags),
		})
	}
	return findings
}

// expirationTag finds the first tag whose key matches one of the
// expiration keys, compared case-insensitively.
func expirationTag(tags models.TagSet, keys []string) (key, value string, found bool) {
	for k, v := range tags {
		lk := strings.ToLower(k)
		for _, want := range keys {
			if lk == strings.ToLower(want) {
				return k, v, true
			}
		}
	}
	return "", "", false
}

// parseExpiration reports whether value is a date in the past. Values that
// do not parse are treated as not expired.
func parseExpiration(value string, now time.Time) (bool, time.Time) {
	for _, layout := range ttlLayouts {
		when, err := time.Parse(layout, strings.TrimSpace(value))
		if err == nil {
			return when.Before(now), when
		}
	}
	return false, time.Time{}
}
