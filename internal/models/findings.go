package models

import "time"

// Category identifies one findings bucket. Each category maps to one CSV
// export file and one section of the HTML report.
type Category string

// Categories in fixed report order. Exports and report sections always
// follow this order regardless of which categories a provider supports.
const (
	CategoryProductionDatabases Category = "Database_Production_Shapes"
	CategoryMissingAutomation   Category = "Compute_Missing_Automation_Tags"
	CategoryOversizedCompute    Category = "Oversized_Compute_Instances"
	CategoryUnattachedVolumes   Category = "Unattached_Block_Volumes"
	CategoryUnusedReservedIPs   Category = "Unused_Reserved_IPs"
	CategoryPremiumCaches       Category = "Premium_Cache_Tiers"
	CategoryEmptyLoadBalancers  Category = "Empty_Load_Balancers"
	CategoryPermissiveRules     Category = "Permissive_Network_Rules"
	CategoryStaleGroups         Category = "Stale_Resource_Groups"
)

// AllCategories returns every category in report order.
func AllCategories() []Category {
	return []Category{
		CategoryProductionDatabases,
		CategoryMissingAutomation,
		CategoryOversizedCompute,
		CategoryUnattachedVolumes,
		CategoryUnusedReservedIPs,
		CategoryPremiumCaches,
		CategoryEmptyLoadBalancers,
		CategoryPermissiveRules,
		CategoryStaleGroups,
	}
}

// Title returns the human heading used in report sections, derived from the
// category name by replacing underscores with spaces.
func (c Category) Title() string {
	out := []byte(c)
	for i, b := range out {
		if b == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}

// Severity ranks how urgent a finding is.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Finding is one flagged resource. A resource appears at most once per
// category; the same resource may be flagged by several categories.
// Extra carries category-specific export columns (cpu core counts, volume
// sizes, offending rule details) keyed by column name.
type Finding struct {
	RuleID       string            `json:"rule_id"`
	Category     Category          `json:"category"`
	ResourceID   string            `json:"resource_id"`
	ResourceName string            `json:"resource_name"`
	ResourceType string            `json:"resource_type"`
	Scope        string            `json:"scope"`
	Location     string            `json:"location,omitempty"`
	Shape        string            `json:"shape,omitempty"`
	State        string            `json:"state,omitempty"`
	CreatedAt    string            `json:"created_at,omitempty"`
	Reason       string            `json:"reason"`
	Severity     Severity          `json:"severity"`
	Tags         string            `json:"tags,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// FindingSet is an ordered list of findings for one category. Order follows
// the provider's enumeration order; findings are never re-sorted.
type FindingSet []Finding

// ScanReport is the complete result of one scan run. Categories lists every
// category that was scanned, in report order, including those that produced
// nothing; Findings has an entry (possibly empty) for each of them.
type ScanReport struct {
	Provider    string                  `json:"provider"`
	Scope       string                  `json:"scope"`
	GeneratedAt time.Time               `json:"generated_at"`
	Categories  []Category              `json:"categories"`
	Findings    map[Category]FindingSet `json:"findings"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// TotalFindings sums findings across every category in the report.
func (r *ScanReport) TotalFindings() int {
	n := 0
	for _, set := range r.Findings {
		n += len(set)
	}
	return n
}
