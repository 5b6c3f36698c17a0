package rules

import (
	"fmt"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// Registry holds an ordered set of rules. Evaluation order follows
// registration order, which in turn fixes the report's category order.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds a rule. It panics on a duplicate ID since that is always a
// programming error.
func (r *Registry) Register(rule Rule) {
	if _, exists := r.byID[rule.ID()]; exists {
		panic(fmt.Sprintf("rules: duplicate rule ID %q", rule.ID()))
	}
	r.byID[rule.ID()] = rule
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// EvaluateAll runs every rule against the context and concatenates the
// findings in registration order.
func (r *Registry) EvaluateAll(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, rule := range r.rules {
		findings = append(findings, rule.Evaluate(ctx)...)
	}
	return findings
}

// DefaultRegistry returns a registry with every built-in rule, registered
// in report order.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewProductionDatabaseRule())
	reg.Register(NewMissingAutomationRule())
	reg.Register(NewOversizedComputeRule())
	reg.Register(NewUnattachedVolumeRule())
	reg.Register(NewUnusedReservedIPRule())
	reg.Register(NewPremiumCacheRule())
	reg.Register(NewEmptyLoadBalancerRule())
	reg.Register(NewPermissiveRulesRule())
	reg.Register(NewExpiredGroupRule())
	return reg
}
