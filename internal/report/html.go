package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// WriteHTML renders the full report as one HTML page and returns its path.
// Every scanned category gets a section, including empty ones, so the page
// doubles as proof of what was checked.
func WriteHTML(report *models.ScanReport, dir string) (string, error) {
	timestamp := report.GeneratedAt.Format(timestampLayout)
	name := fmt.Sprintf("%s_DevTest_Resource_Report_%s.html", strings.ToUpper(report.Provider), timestamp)
	path := filepath.Join(dir, name)

	page := buildPage(report)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := pageTemplate.Execute(f, page); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return path, nil
}

type htmlPage struct {
	Provider    string
	Scope       string
	GeneratedAt string
	Total       int
	Summary     []summaryCell
	Sections    []section
	Warnings    []string
}

type summaryCell struct {
	Title string
	Count int
}

type section struct {
	Title   string
	Count   int
	Headers []string
	Rows    [][]string
}

func buildPage(report *models.ScanReport) htmlPage {
	page := htmlPage{
		Provider:    strings.ToUpper(report.Provider),
		Scope:       report.Scope,
		GeneratedAt: report.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Total:       report.TotalFindings(),
		Warnings:    report.Warnings,
	}
	for _, category := range report.Categories {
		findings := report.Findings[category]
		page.Summary = append(page.Summary, summaryCell{
			Title: category.Title(),
			Count: len(findings),
		})

		sec := section{
			Title:   category.Title(),
			Count:   len(findings),
			Headers: csvHeader(category),
		}
		for _, finding := range findings {
			sec.Rows = append(sec.Rows, csvRow(category, finding))
		}
		page.Sections = append(page.Sections, sec)
	}
	return page
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Provider}} Dev/Test Resource Report</title>
<style>
  body { font-family: 'Segoe UI', Arial, sans-serif; margin: 24px; background: #f5f6fa; color: #2f3640; }
  h1 { color: #273c75; }
  h2 { color: #353b48; border-bottom: 2px solid #dcdde1; padding-bottom: 4px; margin-top: 36px; }
  .meta { color: #718093; margin-bottom: 24px; }
  .summary { display: flex; flex-wrap: wrap; gap: 12px; margin-bottom: 12px; }
  .card { background: #fff; border: 1px solid #dcdde1; border-radius: 6px; padding: 12px 18px; min-width: 180px; }
  .card .count { font-size: 28px; font-weight: bold; color: #c23616; }
  .card .count.zero { color: #44bd32; }
  .card .label { font-size: 13px; color: #718093; }
  table { border-collapse: collapse; width: 100%; background: #fff; margin-top: 8px; }
  th { background: #273c75; color: #fff; padding: 8px 10px; text-align: left; font-size: 13px; }
  td { border-bottom: 1px solid #dcdde1; padding: 7px 10px; font-size: 13px; }
  tr:nth-child(even) { background: #f1f2f6; }
  .empty { color: #44bd32; font-style: italic; }
  .warning { background: #fff3cd; border: 1px solid #ffeeba; border-radius: 6px; padding: 10px 14px; margin: 6px 0; color: #856404; }
  footer { margin-top: 40px; color: #718093; font-size: 12px; }
</style>
</head>
<body>
<h1>{{.Provider}} Dev/Test Resource Report</h1>
<p class="meta">Scope: {{.Scope}} &middot; Generated: {{.GeneratedAt}} &middot; Total findings: {{.Total}}</p>

{{range .Warnings}}<div class="warning">{{.}}</div>
{{end}}

<div class="summary">
{{range .Summary}}  <div class="card"><div class="count{{if eq .Count 0}} zero{{end}}">{{.Count}}</div><div class="label">{{.Title}}</div></div>
{{end}}</div>

{{range .Sections}}
<h2>{{.Title}} ({{.Count}})</h2>
{{if .Rows}}<table>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p class="empty">Nothing found in this category. Nice work.</p>
{{end}}
{{end}}

<footer>Generated by devtest-audit. Review findings before acting on them.</footer>
</body>
</html>
`))
