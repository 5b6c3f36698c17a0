package rules

import (
	"strconv"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// UnattachedVolumeRule flags available dev/test volumes with no attachments.
type UnattachedVolumeRule struct{}

func NewUnattachedVolumeRule() *UnattachedVolumeRule { return &UnattachedVolumeRule{} }

func (r *UnattachedVolumeRule) ID() string   { return "VOLUME_UNATTACHED" }
func (r *UnattachedVolumeRule) Name() string { return "Unattached dev/test block volume" }
func (r *UnattachedVolumeRule) Category() models.Category {
	return models.CategoryUnattachedVolumes
}

func (r *UnattachedVolumeRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, vol := range ctx.Data.Volumes {
		if !classify.IsDevTest(vol.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if vol.Attachments > 0 || vol.State != "available" {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   vol.ID,
			ResourceName: vol.Name,
			ResourceType: "Block Volume",
			Scope:        vol.Scope,
			Location:     vol.Location,
			Shape:        vol.VolumeType,
			State:        vol.State,
			CreatedAt:    formatCreated(vol.CreatedAt),
			Reason:       "volume is not attached to any instance and still accrues storage cost",
			Severity:     models.SeverityMedium,
			Tags:         classify.FormatTags(vol.Tags),
			Extra: map[string]string{
				"size_gb": strconv.FormatInt(vol.SizeGB, 10),
			},
		})
	}
	return findings
}
