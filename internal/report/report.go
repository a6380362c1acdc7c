// Package report renders analysis results for human consumption:
// category bucketing of findings and the plain-text report. It is a
// pure view over the engine's output and stores nothing.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/docintegrity/pdf-forensics-api/internal/models"
)

// Finding categories, in classification precedence order.
const (
	CategoryDate      = "date_issues"
	CategorySoftware  = "software_issues"
	CategoryMetadata  = "metadata_issues"
	CategoryIntegrity = "integrity_issues"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryDate, []string{"date", "modified", "creation"}},
	{CategorySoftware, []string{"software", "producer", "creator"}},
	{CategoryMetadata, []string{"metadata", "field", "missing"}},
}

// Categorize buckets findings by keyword for display. Classification
// is derived from the finding text alone; anything that matches no
// keyword group lands in the integrity bucket. Every category is
// present in the result, empty or not, so templates can iterate.
func Categorize(findings []string) map[string][]string {
	categories := map[string][]string{
		CategoryDate:      {},
		CategorySoftware:  {},
		CategoryMetadata:  {},
		CategoryIntegrity: {},
	}

	for _, finding := range findings {
		cat := classify(finding)
		categories[cat] = append(categories[cat], finding)
	}

	return categories
}

func classify(finding string) string {
	lower := strings.ToLower(finding)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return CategoryIntegrity
}

// FormatMetadata renders every record field as a display string, using
// "Not available" for absent values.
func FormatMetadata(meta *models.Metadata) map[string]string {
	out := map[string]string{
		"Title":            displayText(meta.Title),
		"Author":           displayText(meta.Author),
		"Subject":          displayText(meta.Subject),
		"Keywords":         displayText(meta.Keywords),
		"Creator":          displayText(meta.Creator),
		"Producer":         displayText(meta.Producer),
		"CreationDate":     displayDate(meta.CreationDate),
		"ModificationDate": displayDate(meta.ModificationDate),
		"PageCount":        fmt.Sprintf("%d", meta.PageCount),
	}
	if meta.XMPCreateDate != nil {
		out["XMP_CreateDate"] = displayDate(meta.XMPCreateDate)
	}
	if meta.XMPModifyDate != nil {
		out["XMP_ModifyDate"] = displayDate(meta.XMPModifyDate)
	}
	if meta.XMPMetadataDate != nil {
		out["XMP_MetadataDate"] = displayDate(meta.XMPMetadataDate)
	}
	return out
}

// Text renders the full plain-text report for one analyzed file:
// the non-empty metadata fields followed by the verdict section.
func Text(filename string, meta *models.Metadata, result models.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzing file: %s\n", filename)

	if meta != nil {
		for _, field := range []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"} {
			if v := meta.TextField(field); v != "" {
				fmt.Fprintf(&b, "%s: %s\n", field, v)
			}
		}
		for _, field := range []string{"CreationDate", "ModificationDate", "XMP_CreateDate", "XMP_ModifyDate", "XMP_MetadataDate"} {
			if d := meta.DateField(field); d != nil {
				fmt.Fprintf(&b, "%s: %s\n", field, d.Format("2006-01-02 15:04:05"))
			}
		}
		if meta.PageCount > 0 {
			fmt.Fprintf(&b, "PageCount: %d\n", meta.PageCount)
		}
	}

	if result.Suspicious {
		b.WriteString("\nTampering Detected:\n")
		for _, finding := range result.Findings {
			fmt.Fprintf(&b, "- %s\n", finding)
		}
	} else {
		b.WriteString("\nNo tampering detected. Document appears clean.\n")
	}

	return b.String()
}

// Summary renders the one-line verdict used by the CLI summary mode.
func Summary(filename string, result models.AnalysisResult) string {
	if result.Suspicious {
		return fmt.Sprintf("%s: SUSPICIOUS (%d findings)", filename, len(result.Findings))
	}
	return fmt.Sprintf("%s: CLEAN", filename)
}

func displayText(v string) string {
	if v == "" {
		return "Not available"
	}
	return v
}

func displayDate(d *time.Time) string {
	if d == nil {
		return "Not available"
	}
	return d.Format("2006-01-02 15:04:05")
}
