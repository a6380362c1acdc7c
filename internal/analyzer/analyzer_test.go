package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docintegrity/pdf-forensics-api/internal/models"
)

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewWithClock(DefaultConfig(), func() time.Time { return fixedNow })
}

func ptr(t time.Time) *time.Time { return &t }

func cleanRecord() *models.Metadata {
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	modified := created.Add(48 * time.Hour)
	return &models.Metadata{
		Title:            "Quarterly Report",
		Author:           "Jane Smith",
		Creator:          "Microsoft Word",
		Producer:         "Adobe PDF Library 15.0",
		CreationDate:     ptr(created),
		ModificationDate: ptr(modified),
		PageCount:        4,
	}
}

func TestAnalyze_CleanDocument(t *testing.T) {
	suspicious, findings := newTestEngine().Analyze(cleanRecord(), nil)

	assert.False(t, suspicious)
	assert.Empty(t, findings)
}

func TestAnalyze_ModificationBeforeCreation(t *testing.T) {
	meta := cleanRecord()
	meta.ModificationDate = ptr(meta.CreationDate.Add(-time.Hour))

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "is before creation date")
	assert.Contains(t, findings[0], meta.ModificationDate.Format("2006-01-02 15:04:05"))
	assert.Contains(t, findings[0], meta.CreationDate.Format("2006-01-02 15:04:05"))
}

func TestAnalyze_ExcessiveDateDrift(t *testing.T) {
	meta := cleanRecord()
	meta.CreationDate = ptr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	meta.ModificationDate = ptr(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	engine := NewWithClock(DefaultConfig(), func() time.Time {
		return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	suspicious, findings := engine.Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	// 2020-01-01 to 2026-06-01 is 2343 whole days.
	assert.Equal(t,
		"Document was modified 2343 days after creation, which exceeds the reasonable limit of 1825 days",
		findings[0])
}

func TestAnalyze_MissingModificationDate(t *testing.T) {
	meta := cleanRecord()
	meta.ModificationDate = nil

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	assert.Equal(t, "Modification date is missing while creation date exists", findings[0])
}

func TestAnalyze_XMPDateMismatch(t *testing.T) {
	meta := cleanRecord()
	meta.XMPCreateDate = ptr(meta.CreationDate.Add(2 * time.Minute))
	meta.XMPModifyDate = ptr(meta.ModificationDate.Add(30 * time.Second)) // within tolerance

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0], "XMP creation date")
	assert.Contains(t, findings[0], "doesn't match PDF creation date")
}

func TestAnalyze_SuspiciousAndUnknownProducer(t *testing.T) {
	meta := cleanRecord()
	meta.Producer = "FakePDFTool 2.0"

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	assert.Contains(t, findings, "Suspicious editing software detected: FakePDFTool")
	assert.Contains(t, findings, "Unknown PDF producer software: FakePDFTool 2.0")
}

func TestAnalyze_SuspiciousCreator(t *testing.T) {
	meta := cleanRecord()
	meta.Creator = "pdftamper v3"

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	assert.Contains(t, findings, "Suspicious creator software detected: PDFTamper")
}

func TestAnalyze_RequiredFieldsMissing(t *testing.T) {
	meta := &models.Metadata{}

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 4)
	assert.Equal(t, "Required metadata field 'Author' is missing", findings[0])
	assert.Equal(t, "Required metadata field 'Title' is missing", findings[1])
	assert.Equal(t, "Required metadata field 'CreationDate' is missing", findings[2])
	assert.Equal(t, "All metadata fields are empty", findings[3])
}

func TestAnalyze_RequiredFieldsMissingButNotEmpty(t *testing.T) {
	meta := &models.Metadata{Subject: "minutes", PageCount: 2}

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.Contains(t, f, "Required metadata field")
	}
}

func TestAnalyze_FutureCreationDate(t *testing.T) {
	meta := cleanRecord()
	future := fixedNow.Add(24 * time.Hour)
	meta.CreationDate = ptr(future)
	meta.ModificationDate = ptr(future.Add(time.Hour))

	suspicious, findings := newTestEngine().Analyze(meta, nil)

	require.True(t, suspicious)
	var futureFindings []string
	for _, f := range findings {
		if strings.Contains(f, "is set in the future") {
			futureFindings = append(futureFindings, f)
		}
	}
	require.Len(t, futureFindings, 2)
	assert.Contains(t, futureFindings[0], "CreationDate is set in the future")
	assert.Contains(t, futureFindings[1], "ModificationDate is set in the future")
}

func TestAnalyze_FutureCreationDateOnly(t *testing.T) {
	meta := cleanRecord()
	meta.CreationDate = ptr(fixedNow.Add(24 * time.Hour))
	meta.ModificationDate = ptr(fixedNow.Add(-time.Hour))

	_, findings := newTestEngine().Analyze(meta, nil)

	var futureFindings []string
	for _, f := range findings {
		if strings.Contains(f, "is set in the future") {
			futureFindings = append(futureFindings, f)
		}
	}
	require.Len(t, futureFindings, 1)
	assert.Contains(t, futureFindings[0], "CreationDate is set in the future: "+meta.CreationDate.Format("2006-01-02 15:04:05"))
}

func TestAnalyze_VerdictMatchesFindings(t *testing.T) {
	engine := newTestEngine()

	records := []*models.Metadata{
		cleanRecord(),
		{},
		{Producer: "FakePDFTool"},
		{Title: "t", Author: "a", CreationDate: ptr(fixedNow.Add(-time.Hour)), ModificationDate: ptr(fixedNow), PageCount: 1},
	}

	for i, meta := range records {
		suspicious, findings := engine.Analyze(meta, nil)
		assert.Equal(t, len(findings) > 0, suspicious, "record %d", i)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	meta := cleanRecord()
	meta.Producer = "mystery-tool"
	meta.ModificationDate = nil

	engine := newTestEngine()
	_, first := engine.Analyze(meta, nil)
	_, second := engine.Analyze(meta, nil)

	assert.Equal(t, first, second)
}

// fakeDoc implements Document for integrity-check tests.
type fakeDoc struct {
	pages    int
	badPages map[int]bool
	info     map[string]string
	infoErr  error
	closed   bool
}

func (d *fakeDoc) NumPages() int { return d.pages }

func (d *fakeDoc) PageText(page, maxChars int) (string, error) {
	if d.badPages[page] {
		return "", fmt.Errorf("page %d: content stream unreadable", page)
	}
	return "sample tex", nil
}

func (d *fakeDoc) InfoFields() (map[string]string, error) {
	if d.infoErr != nil {
		return nil, d.infoErr
	}
	return d.info, nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

type fakeSource struct {
	doc *fakeDoc
	err error
}

func (s *fakeSource) Reopen() (Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func TestAnalyze_IntegrityCorruptPage(t *testing.T) {
	meta := cleanRecord()
	doc := &fakeDoc{pages: 5, badPages: map[int]bool{3: true, 4: true}}

	suspicious, findings := newTestEngine().Analyze(meta, &fakeSource{doc: doc})

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	// Scan stops at the first corrupted page.
	assert.Equal(t, "Page 3 appears corrupted or tampered with", findings[0])
	assert.True(t, doc.closed)
}

func TestAnalyze_IntegrityInfoMismatch(t *testing.T) {
	meta := cleanRecord()
	doc := &fakeDoc{
		pages: 2,
		info: map[string]string{
			"Title":    "Quarterly Report",
			"Author":   "Someone Else",
			"Producer": "Adobe PDF Library 15.0",
		},
	}

	suspicious, findings := newTestEngine().Analyze(meta, &fakeSource{doc: doc})

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	assert.Equal(t, "Inconsistent metadata value for Author: Someone Else vs Jane Smith", findings[0])
}

func TestAnalyze_IntegrityReopenFailure(t *testing.T) {
	meta := cleanRecord()
	src := &fakeSource{err: errors.New("file vanished")}

	suspicious, findings := newTestEngine().Analyze(meta, src)

	require.True(t, suspicious)
	require.Len(t, findings, 1)
	assert.Equal(t, "File integrity check failed: file vanished", findings[0])
}

func TestExtractionFailure(t *testing.T) {
	result := ExtractionFailure("Error extracting metadata: unexpected EOF")

	assert.True(t, result.Suspicious)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "Error extracting metadata: unexpected EOF", result.Findings[0])
}
