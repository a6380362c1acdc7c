// Package analyzer implements the metadata tamper heuristics: an
// ordered battery of checks over a canonical metadata record that
// yields human-readable findings and a suspicion verdict.
package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/docintegrity/pdf-forensics-api/internal/models"
)

// instantLayout is how instants are rendered inside finding strings.
const instantLayout = "2006-01-02 15:04:05"

// integrityProbeChars is how much page text the integrity check reads
// per page. Reading anything at all is enough to surface corruption.
const integrityProbeChars = 10

// infoTextFields is the fixed comparison order for the Info re-read,
// so repeated runs produce identical finding sequences.
var infoTextFields = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

// futureDateFields are the date fields probed by the future-date check.
var futureDateFields = []string{"CreationDate", "ModificationDate", "XMP_CreateDate", "XMP_ModifyDate"}

// Document is a re-opened view of the source PDF, consumed only by the
// integrity check. Implementations must release the underlying handle
// on Close regardless of how the check exits.
type Document interface {
	NumPages() int
	// PageText extracts up to maxChars of text from the 1-based page.
	PageText(page, maxChars int) (string, error)
	// InfoFields returns the raw Info dictionary text values keyed by
	// field name, date entries excluded.
	InfoFields() (map[string]string, error)
	Close() error
}

// Source re-opens the document backing a metadata record.
type Source interface {
	Reopen() (Document, error)
}

// Engine runs the tamper checks. It holds no mutable state: distinct
// documents may be analyzed concurrently with a shared Engine.
type Engine struct {
	cfg Config
	now func() time.Time
}

// New creates an Engine using the wall clock for the future-date check.
func New(cfg Config) *Engine {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock creates an Engine with an injected clock, letting tests
// pin "now".
func NewWithClock(cfg Config, now func() time.Time) *Engine {
	return &Engine{cfg: cfg, now: now}
}

// Analyze runs every check in fixed order against the record and
// reports whether the document looks tampered with. src backs the
// structural integrity re-read; a nil src skips that check. The
// returned finding order is stable across runs on the same inputs.
func (e *Engine) Analyze(meta *models.Metadata, src Source) (bool, []string) {
	var findings []string

	findings = append(findings, e.checkDateConsistency(meta)...)
	findings = append(findings, e.checkSoftware(meta)...)
	findings = append(findings, e.checkRequiredFields(meta)...)
	findings = append(findings, e.checkFutureDates(meta)...)
	findings = append(findings, e.checkIntegrity(meta, src)...)

	return len(findings) > 0, findings
}

// ExtractionFailure is the short-circuit result for documents whose
// metadata could not be extracted at all: suspicious, with the failure
// reason as the sole finding.
func ExtractionFailure(reason string) models.AnalysisResult {
	return models.AnalysisResult{
		Suspicious: true,
		Findings:   []string{reason},
	}
}

func (e *Engine) checkDateConsistency(meta *models.Metadata) []string {
	var findings []string

	creation := meta.CreationDate
	modification := meta.ModificationDate

	if creation != nil && modification != nil {
		if modification.Before(*creation) {
			findings = append(findings, fmt.Sprintf(
				"Modification date (%s) is before creation date (%s)",
				modification.Format(instantLayout), creation.Format(instantLayout)))
		}

		diffDays := int(modification.Sub(*creation).Hours() / 24)
		if diffDays > e.cfg.MaxDateDriftDays {
			findings = append(findings, fmt.Sprintf(
				"Document was modified %d days after creation, which exceeds the reasonable limit of %d days",
				diffDays, e.cfg.MaxDateDriftDays))
		}
	}

	if creation != nil && modification == nil {
		findings = append(findings, "Modification date is missing while creation date exists")
	}

	if creation != nil && meta.XMPCreateDate != nil && exceedsTolerance(*creation, *meta.XMPCreateDate, e.cfg.XMPDateTolerance) {
		findings = append(findings, fmt.Sprintf(
			"XMP creation date (%s) doesn't match PDF creation date (%s)",
			meta.XMPCreateDate.Format(instantLayout), creation.Format(instantLayout)))
	}

	if modification != nil && meta.XMPModifyDate != nil && exceedsTolerance(*modification, *meta.XMPModifyDate, e.cfg.XMPDateTolerance) {
		findings = append(findings, fmt.Sprintf(
			"XMP modification date (%s) doesn't match PDF modification date (%s)",
			meta.XMPModifyDate.Format(instantLayout), modification.Format(instantLayout)))
	}

	return findings
}

func (e *Engine) checkSoftware(meta *models.Metadata) []string {
	var findings []string

	producer := strings.TrimSpace(meta.Producer)
	creator := strings.TrimSpace(meta.Creator)

	if producer != "" {
		lower := strings.ToLower(producer)

		for _, sus := range e.cfg.SuspiciousSoftware {
			if strings.Contains(lower, strings.ToLower(sus)) {
				findings = append(findings, fmt.Sprintf("Suspicious editing software detected: %s", sus))
			}
		}

		trusted := false
		for _, name := range e.cfg.TrustedSoftware {
			if strings.Contains(lower, strings.ToLower(name)) {
				trusted = true
				break
			}
		}
		if !trusted {
			findings = append(findings, fmt.Sprintf("Unknown PDF producer software: %s", producer))
		}
	}

	if creator != "" {
		lower := strings.ToLower(creator)
		for _, sus := range e.cfg.SuspiciousSoftware {
			if strings.Contains(lower, strings.ToLower(sus)) {
				findings = append(findings, fmt.Sprintf("Suspicious creator software detected: %s", sus))
			}
		}
	}

	return findings
}

func (e *Engine) checkRequiredFields(meta *models.Metadata) []string {
	var findings []string

	for _, field := range e.cfg.RequiredFields {
		if !meta.FieldPresent(field) {
			findings = append(findings, fmt.Sprintf("Required metadata field '%s' is missing", field))
		}
	}

	if meta.Empty() {
		findings = append(findings, "All metadata fields are empty")
	}

	return findings
}

func (e *Engine) checkFutureDates(meta *models.Metadata) []string {
	var findings []string

	now := e.now()
	for _, field := range futureDateFields {
		if d := meta.DateField(field); d != nil && d.After(now) {
			findings = append(findings, fmt.Sprintf(
				"%s is set in the future: %s", field, d.Format(instantLayout)))
		}
	}

	return findings
}

// checkIntegrity re-opens the document and probes its structure: a
// short text read from every page in order, stopping at the first
// failing page, then a re-read of the raw Info fields compared against
// the record. A failed re-open or Info re-read yields a single failure
// finding instead of aborting the analysis.
func (e *Engine) checkIntegrity(meta *models.Metadata, src Source) []string {
	if src == nil {
		return nil
	}

	doc, err := src.Reopen()
	if err != nil {
		return []string{fmt.Sprintf("File integrity check failed: %v", err)}
	}
	defer doc.Close()

	var findings []string

	for page := 1; page <= doc.NumPages(); page++ {
		if _, err := doc.PageText(page, integrityProbeChars); err != nil {
			findings = append(findings, fmt.Sprintf("Page %d appears corrupted or tampered with", page))
			break
		}
	}

	info, err := doc.InfoFields()
	if err != nil {
		findings = append(findings, fmt.Sprintf("File integrity check failed: %v", err))
		return findings
	}

	for _, field := range infoTextFields {
		raw, ok := info[field]
		if !ok {
			continue
		}
		if current := meta.TextField(field); raw != current {
			findings = append(findings, fmt.Sprintf(
				"Inconsistent metadata value for %s: %s vs %s", field, raw, current))
		}
	}

	return findings
}

func exceedsTolerance(a, b time.Time, tolerance time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance
}
