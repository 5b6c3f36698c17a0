package rules

import (
	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// MissingAutomationRule flags dev/test instances that carry no scheduling
// automation marker in any tag key, whatever their power state. A stopped
// instance without a marker has nothing to start it back up on a schedule
// either, so it is flagged the same as a running one.
type MissingAutomationRule struct{}

func NewMissingAutomationRule() *MissingAutomationRule { return &MissingAutomationRule{} }

func (r *MissingAutomationRule) ID() string { return "COMPUTE_NO_AUTOMATION" }
func (r *MissingAutomationRule) Name() string {
	return "Dev/test instance without shutdown automation tags"
}
func (r *MissingAutomationRule) Category() models.Category {
	return models.CategoryMissingAutomation
}

func (r *MissingAutomationRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, inst := range ctx.Data.Instances {
		if !classify.IsDevTest(inst.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if classify.HasAutomationMarker(inst.Tags, ctx.Settings.AutomationKeys, ctx.Settings.AutomationKeysCaseSensitive) {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   inst.ID,
			ResourceName: inst.Name,
			ResourceType: "Compute Instance",
			Scope:        inst.Scope,
			Location:     inst.Location,
			Shape:        inst.Shape,
			State:        inst.State,
			CreatedAt:    formatCreated(inst.CreatedAt),
			Reason:       "no automation marker tag found; instance is not on a shutdown schedule",
			Severity:     models.SeverityLow,
			Tags:         classify.FormatTags(inst.Tags),
		})
	}
	return findings
}
