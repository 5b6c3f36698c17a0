package rules

import (
	"fmt"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// OversizedComputeRule flags dev/test instances whose shape appears in the
// oversized reference table, regardless of power state: a stopped oversized
// instance still signals a sizing decision worth revisiting.
type OversizedComputeRule struct{}

func NewOversizedComputeRule() *OversizedComputeRule { return &OversizedComputeRule{} }

func (r *OversizedComputeRule) ID() string   { return "COMPUTE_OVERSIZED" }
func (r *OversizedComputeRule) Name() string { return "Dev/test instance on an oversized shape" }
func (r *OversizedComputeRule) Category() models.Category {
	return models.CategoryOversizedCompute
}

func (r *OversizedComputeRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, inst := range ctx.Data.Instances {
		if !classify.IsDevTest(inst.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if !inTable(inst.Shape, ctx.Settings.OversizedComputeShapes) {
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
			Reason:       fmt.Sprintf("shape %s is oversized for dev/test use", inst.Shape),
			Severity:     models.SeverityMedium,
			Tags:         classify.FormatTags(inst.Tags),
		})
	}
	return findings
}
