// Package report renders a scan report as per-category CSV exports and a
// single styled HTML page.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// timestampLayout names export files, e.g. Unattached_Block_Volumes_20250615_120000.csv.
const timestampLayout = "20060102_150405"

// ExportCSV writes one CSV file per category that produced findings and
// returns the created paths in report order. Empty categories get no file.
func ExportCSV(report *models.ScanReport, dir string) ([]string, error) {
	timestamp := report.GeneratedAt.Format(timestampLayout)

	var paths []string
	for _, category := range report.Categories {
		findings := report.Findings[category]
		if len(findings) == 0 {
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", category, timestamp))
		if err := writeCategoryCSV(path, category, findings); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCategoryCSV(path string, category models.Category, findings models.FindingSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader(category)); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	rows := make([][]string, 0, len(findings))
	for _, finding := range findings {
		rows = append(rows, csvRow(category, finding))
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows to %s: %w", path, err)
	}
	return nil
}

// csvHeader returns the column set for one category. The HTML report reuses
// the same columns so both outputs stay in sync.
func csvHeader(category models.Category) []string {
	switch category {
	case models.CategoryProductionDatabases:
		return []string{"resource_type", "name", "shape", "lifecycle_state", "location", "cpu_core_count", "scope", "tags", "resource_id"}
	case models.CategoryMissingAutomation, models.CategoryOversizedCompute:
		return []string{"instance_name", "shape", "lifecycle_state", "location", "time_created", "scope", "tags", "resource_id"}
	case models.CategoryUnattachedVolumes:
		return []string{"volume_name", "size_gb", "volume_type", "lifecycle_state", "location", "time_created", "scope", "tags", "resource_id"}
	case models.CategoryUnusedReservedIPs:
		return []string{"ip_name", "ip_address", "tier", "lifecycle_state", "location", "scope", "tags", "resource_id"}
	case models.CategoryPremiumCaches:
		return []string{"cache_name", "node_type", "engine", "lifecycle_state", "location", "scope", "tags", "resource_id"}
	case models.CategoryEmptyLoadBalancers:
		return []string{"load_balancer_name", "shape", "lifecycle_state", "ip_addresses", "location", "time_created", "scope", "tags", "resource_id"}
	case models.CategoryPermissiveRules:
		return []string{"rule_set_name", "network_name", "permissive_rules_count", "permissive_rules", "scope", "tags", "resource_id"}
	case models.CategoryStaleGroups:
		return []string{"group_name", "reason", "location", "scope", "tags", "resource_id"}
	}
	return []string{"name", "reason", "scope", "tags", "resource_id"}
}

func csvRow(category models.Category, f models.Finding) []string {
	switch category {
	case models.CategoryProductionDatabases:
		return []string{f.ResourceType, f.ResourceName, f.Shape, f.State, f.Location, f.Extra["cpu_core_count"], f.Scope, f.Tags, f.ResourceID}
	case models.CategoryMissingAutomation, models.CategoryOversizedCompute:
		return []string{f.ResourceName, f.Shape, f.State, f.Location, f.CreatedAt, f.Scope, f.Tags, f.ResourceID}
	case models.CategoryUnattachedVolumes:
		return []string{f.ResourceName, f.Extra["size_gb"], f.Shape, f.State, f.Location, f.CreatedAt, f.Scope, f.Tags, f.ResourceID}
	case models.CategoryUnusedReservedIPs:
		return []string{f.ResourceName, f.Extra["ip_address"], f.Shape, f.State, f.Location, f.Scope, f.Tags, f.ResourceID}
	case models.CategoryPremiumCaches:
		return []string{f.ResourceName, f.Shape, f.Extra["engine"], f.State, f.Location, f.Scope, f.Tags, f.ResourceID}
	case models.CategoryEmptyLoadBalancers:
		return []string{f.ResourceName, f.Shape, f.State, f.Extra["ip_addresses"], f.Location, f.CreatedAt, f.Scope, f.Tags, f.ResourceID}
	case models.CategoryPermissiveRules:
		return []string{f.ResourceName, f.Extra["network_name"], f.Extra["permissive_rules_count"], f.Extra["permissive_rules"], f.Scope, f.Tags, f.ResourceID}
	case models.CategoryStaleGroups:
		return []string{f.ResourceName, f.Reason, f.Location, f.Scope, f.Tags, f.ResourceID}
	}
	return []string{f.ResourceName, f.Reason, f.Scope, f.Tags, f.ResourceID}
}
