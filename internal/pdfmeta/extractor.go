// Package pdfmeta is the extraction boundary: it turns a PDF file or
// byte slice into the canonical metadata record the heuristics engine
// consumes, and re-opens documents for the engine's integrity check.
package pdfmeta

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/docintegrity/pdf-forensics-api/internal/dates"
	"github.com/docintegrity/pdf-forensics-api/internal/models"
	"github.com/docintegrity/pdf-forensics-api/internal/utils"
)

// ExtractionError signals that a document's metadata could not be read
// at all. Its Error string doubles as the short-circuit finding.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ErrNoMetadata is returned for structurally valid PDFs that carry no
// Info dictionary.
var ErrNoMetadata = &ExtractionError{Reason: "No metadata found in the document"}

type Extractor struct {
	logger *utils.Logger
}

func NewExtractor(logger *utils.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractBytes builds the metadata record from an in-memory PDF.
// Parser panics are recovered into an ExtractionError; this function
// never propagates a panic.
func (x *Extractor) ExtractBytes(data []byte) (meta *models.Metadata, err error) {
	defer recoverExtraction(&err)

	r, rerr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if rerr != nil {
		return nil, &ExtractionError{Reason: "Error extracting metadata", Err: rerr}
	}

	return x.extract(r)
}

// ExtractFile builds the metadata record from a PDF on disk.
func (x *Extractor) ExtractFile(path string) (meta *models.Metadata, err error) {
	defer recoverExtraction(&err)

	f, r, rerr := pdf.Open(path)
	if rerr != nil {
		return nil, &ExtractionError{Reason: "Error extracting metadata", Err: rerr}
	}
	defer f.Close()

	return x.extract(r)
}

func (x *Extractor) extract(r *pdf.Reader) (*models.Metadata, error) {
	info := r.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return nil, ErrNoMetadata
	}

	meta := &models.Metadata{
		Title:            info.Key("Title").Text(),
		Author:           info.Key("Author").Text(),
		Subject:          info.Key("Subject").Text(),
		Keywords:         info.Key("Keywords").Text(),
		Creator:          info.Key("Creator").Text(),
		Producer:         info.Key("Producer").Text(),
		CreationDate:     dates.Parse(info.Key("CreationDate").Text()),
		ModificationDate: dates.Parse(info.Key("ModDate").Text()),
		PageCount:        r.NumPage(),
	}

	xmp, err := readXMPDates(r)
	if err != nil {
		// XMP is a secondary channel; its absence degrades the
		// cross-validation checks, not the whole extraction.
		x.logger.Warn("Failed to read XMP metadata", "error", err)
	} else {
		meta.XMPCreateDate = xmp.create
		meta.XMPModifyDate = xmp.modify
		meta.XMPMetadataDate = xmp.metadata
	}

	return meta, nil
}

func recoverExtraction(err *error) {
	if r := recover(); r != nil {
		*err = &ExtractionError{Reason: "Error extracting metadata", Err: fmt.Errorf("pdf parser panic: %v", r)}
	}
}
