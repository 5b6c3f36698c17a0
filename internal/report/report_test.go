package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

func sampleReport() *models.ScanReport {
	return &models.ScanReport{
		Provider:    "oci",
		Scope:       "acme-tenancy",
		GeneratedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Categories: []models.Category{
			models.CategoryUnattachedVolumes,
			models.CategoryPermissiveRules,
			models.CategoryEmptyLoadBalancers,
		},
		Findings: map[models.Category]models.FindingSet{
			models.CategoryUnattachedVolumes: {
				{
					RuleID:       "VOLUME_UNATTACHED",
					Category:     models.CategoryUnattachedVolumes,
					ResourceID:   "vol-1",
					ResourceName: "scratch",
					Scope:        "acme-tenancy",
					Location:     "AD-1",
					State:        "available",
					Reason:       "volume is not attached to any instance and still accrues storage cost",
					Severity:     models.SeverityMedium,
					Tags:         "environment=dev",
					Extra:        map[string]string{"size_gb": "200"},
				},
			},
			models.CategoryPermissiveRules:    {},
			models.CategoryEmptyLoadBalancers: {},
		},
		Warnings: []string{"Premium_Cache_Tiers: collection failed: throttled"},
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	paths, err := ExportCSV(sampleReport(), dir)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	if len(paths) != 1 {
		t.Fatalf("paths = %v, want one file for the non-empty category", paths)
	}
	want := filepath.Join(dir, "Unattached_Block_Volumes_20250615_120000.csv")
	if paths[0] != want {
		t.Errorf("path = %s, want %s", paths[0], want)
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "volume_name" || records[0][1] != "size_gb" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "scratch" || records[1][1] != "200" {
		t.Errorf("row = %v", records[1])
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteHTML(sampleReport(), dir)
	if err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	if filepath.Base(path) != "OCI_DevTest_Resource_Report_20250615_120000.html" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	page := string(raw)

	for _, want := range []string{
		"OCI Dev/Test Resource Report",
		"acme-tenancy",
		"scratch",
		"Unattached Block Volumes",
		"Nothing found in this category",
		"Premium_Cache_Tiers: collection failed",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestCSVColumnsMatchRows(t *testing.T) {
	finding := models.Finding{Extra: map[string]string{}}
	for _, category := range models.AllCategories() {
		header := csvHeader(category)
		row := csvRow(category, finding)
		if len(header) != len(row) {
			t.Errorf("%s: header has %d columns, row has %d", category, len(header), len(row))
		}
	}
}
