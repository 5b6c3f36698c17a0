package rules

import (
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// EmptyLoadBalancerRule flags active dev/test load balancers that front no
// backends. The backend count comes from the collection phase; a failed
// backend lookup is counted as zero backends there, so the load balancer
// still surfaces here for review.
type EmptyLoadBalancerRule struct{}

func NewEmptyLoadBalancerRule() *EmptyLoadBalancerRule { return &EmptyLoadBalancerRule{} }

func (r *EmptyLoadBalancerRule) ID() string   { return "LB_NO_BACKENDS" }
func (r *EmptyLoadBalancerRule) Name() string { return "Dev/test load balancer with no backends" }
func (r *EmptyLoadBalancerRule) Category() models.Category {
	return models.CategoryEmptyLoadBalancers
}

func (r *EmptyLoadBalancerRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, lb := range ctx.Data.LoadBalancers {
		if !classify.IsDevTest(lb.Tags, ctx.Settings.DevTestValues) {
			continue
		}
		if lb.BackendCount > 0 || lb.State != "active" {
			continue
		}
		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   lb.ID,
			ResourceName: lb.Name,
			ResourceType: "Load Balancer",
			Scope:        lb.Scope,
			Location:     lb.Location,
			Shape:        lb.Shape,
			State:        lb.State,
			CreatedAt:    formatCreated(lb.CreatedAt),
			Reason:       "load balancer has no registered backends",
			Severity:     models.SeverityMedium,
			Tags:         classify.FormatTags(lb.Tags),
			Extra: map[string]string{
				"ip_addresses": strings.Join(lb.Addresses, ", "),
			},
		})
	}
	return findings
}
