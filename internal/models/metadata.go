package models

import (
	"time"
)

// Metadata is the canonical metadata record extracted from a single PDF.
// Date fields are either nil or fully resolved instants; raw date strings
// never survive extraction. The record is read-only once built: the
// heuristics engine only inspects it.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Producer string `json:"producer,omitempty"`

	CreationDate     *time.Time `json:"creation_date,omitempty"`
	ModificationDate *time.Time `json:"modification_date,omitempty"`

	// XMP dates come from the document's XMP packet, a second metadata
	// channel used to cross-check the Info dictionary dates.
	XMPCreateDate   *time.Time `json:"xmp_create_date,omitempty"`
	XMPModifyDate   *time.Time `json:"xmp_modify_date,omitempty"`
	XMPMetadataDate *time.Time `json:"xmp_metadata_date,omitempty"`

	PageCount int `json:"page_count"`
}

// TextField returns the named text field, or "" for unknown names.
// Field names follow the PDF Info dictionary keys.
func (m *Metadata) TextField(name string) string {
	switch name {
	case "Title":
		return m.Title
	case "Author":
		return m.Author
	case "Subject":
		return m.Subject
	case "Keywords":
		return m.Keywords
	case "Creator":
		return m.Creator
	case "Producer":
		return m.Producer
	}
	return ""
}

// DateField returns the named date field, or nil for unknown names.
func (m *Metadata) DateField(name string) *time.Time {
	switch name {
	case "CreationDate":
		return m.CreationDate
	case "ModificationDate":
		return m.ModificationDate
	case "XMP_CreateDate":
		return m.XMPCreateDate
	case "XMP_ModifyDate":
		return m.XMPModifyDate
	case "XMP_MetadataDate":
		return m.XMPMetadataDate
	}
	return nil
}

// FieldPresent reports whether the named field carries a value. Date
// names resolve through DateField, everything else through TextField.
func (m *Metadata) FieldPresent(name string) bool {
	if d := m.DateField(name); d != nil {
		return true
	}
	switch name {
	case "CreationDate", "ModificationDate", "XMP_CreateDate", "XMP_ModifyDate", "XMP_MetadataDate":
		return false
	case "PageCount":
		return m.PageCount > 0
	}
	return m.TextField(name) != ""
}

// Empty reports whether every field of the record, page count included,
// is absent or zero.
func (m *Metadata) Empty() bool {
	for _, name := range []string{
		"Title", "Author", "Subject", "Keywords", "Creator", "Producer",
		"CreationDate", "ModificationDate",
		"XMP_CreateDate", "XMP_ModifyDate", "XMP_MetadataDate",
		"PageCount",
	} {
		if m.FieldPresent(name) {
			return false
		}
	}
	return true
}

// AnalysisResult is the outcome of one tamper analysis run. Suspicious
// is true exactly when Findings is non-empty; the finding order is the
// fixed order the checks ran in.
type AnalysisResult struct {
	Suspicious bool     `json:"is_suspicious"`
	Findings   []string `json:"findings"`
}
