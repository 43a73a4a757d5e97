package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/sourcegen/internal/harness"
	"github.com/jonesrussell/sourcegen/internal/models"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const (
	timeRounding = 10 * time.Millisecond
	percent      = 100
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderAssessment(w io.Writer, a *models.ComplianceAssessment) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Check", "Result"})
	t.AppendRow(table.Row{"robots.txt", yesNo(a.RobotsTxtCompliant)})
	t.AppendRow(table.Row{"legal contact", yesNo(a.HasLegalContact)})
	t.AppendRow(table.Row{"terms allow scraping", yesNo(a.TermsAllowScraping)})
	t.AppendRow(table.Row{"fair use", yesNo(a.FairUseCompliant)})
	t.AppendRow(table.Row{"data minimization", yesNo(a.DataMinimizationCompliant)})
	if a.CrawlDelaySeconds > 0 {
		t.AppendRow(table.Row{"declared crawl delay", fmt.Sprintf("%.0fs", a.CrawlDelaySeconds)})
	}
	t.Render()

	if a.IsCompliant {
		fmt.Fprintf(w, "\n%s is compliant\n", a.Domain)
		return
	}
	fmt.Fprintf(w, "\n%s is NOT compliant\n", a.Domain)
	for i, v := range a.Violations {
		fmt.Fprintf(w, "  - %s\n", v)
		if i < len(a.Recommendations) {
			fmt.Fprintf(w, "    fix: %s\n", a.Recommendations[i])
		}
	}
}

// selectorRoles is the display order for discovered selectors.
var selectorRoles = []string{
	models.RoleArticleLink,
	models.RoleTitle,
	models.RoleContent,
	models.RoleDate,
	models.RoleAuthor,
}

func renderStructure(w io.Writer, s *models.SiteStructure) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRow(table.Row{"domain", s.Domain})
	t.AppendRow(table.Row{"cms", string(s.CMSType)})
	t.AppendRow(table.Row{"complexity", fmt.Sprintf("%.3f", s.ComplexityScore)})
	t.AppendRow(table.Row{"requires headless", yesNo(s.RequiresHeadlessBrowser)})
	if s.ArticleListURL != "" {
		t.AppendRow(table.Row{"article list", s.ArticleListURL})
	}
	if len(s.ArticlePatterns) > 0 {
		t.AppendRow(table.Row{"article patterns", strings.Join(s.ArticlePatterns, ", ")})
	}
	if len(s.FeedURLs) > 0 {
		t.AppendRow(table.Row{"feeds", strings.Join(s.FeedURLs, ", ")})
	}
	t.Render()

	if len(s.DetectedSelectors) == 0 {
		return
	}
	st := newTable(w)
	st.AppendHeader(table.Row{"Role", "Selectors (first match wins)"})
	for _, role := range selectorRoles {
		if candidates := s.DetectedSelectors[role]; len(candidates) > 0 {
			st.AppendRow(table.Row{role, strings.Join(candidates, ", ")})
		}
	}
	st.Render()
}

func renderReport(w io.Writer, r *models.TestReport) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Weight", "Result"})
	for _, category := range harness.CategoryOrder {
		result, ok := r.Categories[category]
		if !ok {
			continue
		}
		verdict := "pass"
		if result.Skipped {
			verdict = "skipped"
		} else if !result.Passed {
			verdict = "fail"
		}
		t.AppendRow(table.Row{category, fmt.Sprintf("%.2f", result.Weight), verdict})
	}
	t.Render()

	fmt.Fprintf(w, "\nsuccess rate: %.2f\n", r.SuccessRate)
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

func renderRecord(w io.Writer, rec *models.GenerationRecord) {
	fmt.Fprintf(w, "domain:   %s\n", rec.Domain)
	fmt.Fprintf(w, "status:   %s\n", rec.Status)
	if !rec.Artifact.IsEmpty() {
		fmt.Fprintf(w, "template: %s\n", rec.Artifact.TemplateUsed)
	}
	if rec.Error != "" {
		fmt.Fprintf(w, "error:    %s\n", rec.Error)
	}
	fmt.Fprintf(w, "duration: %s\n", rec.Duration.Round(timeRounding))
	if rec.Report != nil {
		fmt.Fprintln(w)
		renderReport(w, rec.Report)
	}
}

func renderHistory(w io.Writer, records []models.GenerationRecord) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Domain", "Status", "Template", "Rate", "Duration", "Finished"})
	for _, rec := range records {
		template := ""
		if !rec.Artifact.IsEmpty() {
			template = string(rec.Artifact.TemplateUsed)
		}
		rate := ""
		if rec.Report != nil {
			rate = fmt.Sprintf("%.2f", rec.Report.SuccessRate)
		}
		t.AppendRow(table.Row{
			rec.Domain,
			string(rec.Status),
			template,
			rate,
			rec.Duration.Round(timeRounding).String(),
			rec.FinishedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}

func renderStats(w io.Writer, s *models.Stats) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"total generated", s.TotalGenerated})
	t.AppendRow(table.Row{"compliance pass rate", fmt.Sprintf("%.0f%%", s.CompliancePassRate*percent)})
	t.AppendRow(table.Row{"deployment ready rate", fmt.Sprintf("%.0f%%", s.DeploymentReadyRate*percent)})
	t.AppendRow(table.Row{"average duration", s.AverageDuration.Round(timeRounding).String()})
	if !s.LastRunAt.IsZero() {
		t.AppendRow(table.Row{"last run", s.LastRunAt.Format("2006-01-02 15:04:05")})
	}
	t.Render()

	if len(s.CountsByStatus) > 0 {
		st := newTable(w)
		st.AppendHeader(table.Row{"Status", "Count"})
		for _, status := range statusOrder {
			if n := s.CountsByStatus[status]; n > 0 {
				st.AppendRow(table.Row{string(status), n})
			}
		}
		st.Render()
	}
	if len(s.CountsByTemplate) > 0 {
		tt := newTable(w)
		tt.AppendHeader(table.Row{"Template", "Count"})
		for _, family := range models.TemplateFamilies {
			if n := s.CountsByTemplate[family]; n > 0 {
				tt.AppendRow(table.Row{string(family), n})
			}
		}
		tt.Render()
	}
}

// statusOrder fixes the stats rendering order for status counts.
var statusOrder = []models.DeploymentStatus{
	models.StatusReadyForDeployment,
	models.StatusNeedsManualReview,
	models.StatusTestingFailed,
	models.StatusGenerationFailed,
	models.StatusComplianceFailed,
	models.StatusPending,
}

// writeArtifact saves generated source under dir as <domain>.go.
func writeArtifact(dir string, artifact models.Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	name := strings.ReplaceAll(artifact.Domain, "/", "_") + ".go"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(artifact.SourceCode), 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}
