package rules

import (
	"fmt"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// PremiumCacheRule flags dev/test cache clusters on node types or SKUs from
// the premium reference table.
type PremiumCacheRule struct{}

func NewPremiumCacheRule() *PremiumCacheRule { return &PremiumCacheRule{} }

func (r *PremiumCacheRule) ID() string   { return "CACHE_PREMIUM_TIER" }
func (r *PremiumCacheRule) Name() string { return "Dev/test cache cluster on a premium tier" }
func (r *PremiumCacheRule) Category() models.Category {
	return models.CategoryPremiumCaches
}

func (r *PremiumCacheRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, cache := range ctx.Data.CacheClusters {
		if !classify.IsDevTest(cache.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if !inTable(cache.NodeType, ctx.Settings.PremiumCacheTiers) {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   cache.ID,
			ResourceName: cache.Name,
			ResourceType: "Cache Cluster",
			Scope:        cache.Scope,
			Location:     cache.Location,
			Shape:        cache.NodeType,
			State:        cache.State,
			Reason:       fmt.Sprintf("node type %s is a premium tier rarely needed for dev/test", cache.NodeType),
			Severity:     models.SeverityMedium,
			Tags:         classify.FormatTags(cache.Tags),
			Extra: map[string]string{
				"engine": cache.Engine,
			},
		})
	}
	return findings
}
