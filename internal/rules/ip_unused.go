package rules

import (
	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// UnusedReservedIPRule flags reserved public IPs that are not assigned to
// anything. Unassigned reserved addresses are billed on every provider.
type UnusedReservedIPRule struct{}

func NewUnusedReservedIPRule() *UnusedReservedIPRule { return &UnusedReservedIPRule{} }

func (r *UnusedReservedIPRule) ID() string   { return "IP_UNUSED" }
func (r *UnusedReservedIPRule) Name() string { return "Reserved public IP with no assignment" }
func (r *UnusedReservedIPRule) Category() models.Category {
	return models.CategoryUnusedReservedIPs
}

func (r *UnusedReservedIPRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, ip := range ctx.Data.ReservedIPs {
		if !classify.IsDevTest(ip.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if ip.AssignedTo != "" || ip.State != "available" {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   ip.ID,
			ResourceName: ip.Name,
			ResourceType: "Reserved Public IP",
			Scope:        ip.Scope,
			Location:     ip.Location,
			Shape:        ip.Tier,
			State:        ip.State,
			CreatedAt:    formatCreated(ip.CreatedAt),
			Reason:       "reserved address is not assigned to any resource",
			Severity:     models.SeverityLow,
			Tags:         classify.FormatTags(ip.Tags),
			Extra: map[string]string{
				"ip_address": ip.Address,
			},
		})
	}
	return findings
}
