package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ProductionDatabaseRule flags dev/test databases that run on a tier from
// the production reference table, or autonomous databases with four or more
// CPU cores.
type ProductionDatabaseRule struct{}

func NewProductionDatabaseRule() *ProductionDatabaseRule { return &ProductionDatabaseRule{} }

func (r *ProductionDatabaseRule) ID() string   { return "DB_PRODUCTION_TIER" }
func (r *ProductionDatabaseRule) Name() string { return "Dev/test database on a production tier" }
func (r *ProductionDatabaseRule) Category() models.Category {
	return models.CategoryProductionDatabases
}

const autonomousCoreThreshold = 4

func (r *ProductionDatabaseRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, db := range ctx.Data.Databases {
		if !classify.IsDevTest(db.Tags, ctx.Settings.DevTestValues) {
			continue
		}

		var reason string
		switch {
		case inTable(db.Tier, ctx.Settings.ProductionDatabaseTiers):
			reason = fmt.Sprintf("tier %s is reserved for production workloads", db.Tier)
		case isAutonomousKind(db.Kind) && db.CPUCores >= autonomousCoreThreshold:
			reason = fmt.Sprintf("autonomous database with %d CPU cores exceeds dev/test sizing", db.CPUCores)
		default:
			continue
		}

		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   db.ID,
			ResourceName: db.Name,
			ResourceType: db.Kind,
			Scope:        db.Scope,
			Location:     db.Location,
			Shape:        db.Tier,
			State:        db.State,
			Reason:       reason,
			Severity:     models.SeverityHigh,
			Tags:         classify.FormatTags(db.Tags),
			Extra: map[string]string{
				"cpu_core_count": strconv.Itoa(db.CPUCores),
				"engine":         db.Engine,
			},
		})
	}
	return findings
}

func isAutonomousKind(kind string) bool {
	return strings.Contains(strings.ToLower(kind), "autonomous")
}
