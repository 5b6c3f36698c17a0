// Package rules contains the heuristic checks applied to collected
// inventory. Rules are pure functions over in-memory data: every network
// call happens during collection, never during evaluation.
package rules

import (
	"time"

	"github.com/cloudcostchefs/devtest-auditor/internal/config"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// RuleContext is the input to a single rule evaluation. Data holds the
// snapshot collected from one provider scope, Settings the resolved
// vocabulary and reference tables, and Now the evaluation timestamp used
// for expiration checks.
type RuleContext struct {
	Data     *models.InventoryData
	Settings config.Settings
	Now      time.Time
}

// Rule is one heuristic check. Evaluate inspects the inventory and returns
// zero or more findings, all belonging to the rule's Category. Evaluate
// must not mutate the inventory and must return at most one finding per
// resource.
type Rule interface {
	// ID returns a stable, unique identifier such as "VOLUME_UNATTACHED".
	ID() string

	// Name returns a short human-readable description.
	Name() string

	// Category returns the findings bucket this rule feeds.
	Category() models.Category

	// Evaluate runs the check against the collected inventory.
	Evaluate(ctx RuleContext) []models.Finding
}
