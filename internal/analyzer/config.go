package analyzer

import (
	"time"
)

// Config holds the static lists and thresholds the engine checks
// against. It is passed in at construction so runs stay deterministic
// and test-isolated; the engine never consults package-level state.
type Config struct {
	// TrustedSoftware are substrings of producer names considered
	// legitimate. A producer matching none of them is flagged.
	TrustedSoftware []string `yaml:"trusted_software"`

	// SuspiciousSoftware are substrings of known tampering tools,
	// matched against both Producer and Creator.
	SuspiciousSoftware []string `yaml:"suspicious_software"`

	// RequiredFields must be present on every analyzed record.
	RequiredFields []string `yaml:"required_fields"`

	// MaxDateDriftDays is the largest acceptable gap between creation
	// and modification, in whole days.
	MaxDateDriftDays int `yaml:"max_date_drift_days"`

	// XMPDateTolerance absorbs sub-minute rounding between Info
	// dictionary dates and their XMP counterparts.
	XMPDateTolerance time.Duration `yaml:"xmp_date_tolerance"`
}

// DefaultConfig returns the stock heuristics configuration.
func DefaultConfig() Config {
	return Config{
		TrustedSoftware: []string{
			"Adobe", "Microsoft", "Apple", "LibreOffice", "OpenOffice", "Acrobat",
			"Word", "Google", "Chrome", "Safari", "pdfTeX", "LaTeX", "Quartz",
			"MacOS", "Windows", "Foxit", "ABBYY", "Nitro", "Scribus", "Ghostscript",
			"pdftk", "PDFCreator", "pdfFiller", "pdfforge", "PDF Architect",
		},
		SuspiciousSoftware: []string{
			"PDFEditorX", "PDFEditPro", "QuickPDFEdit", "PDFmodify", "PDFhack",
			"PDFalter", "FakePDFTool", "PDFmodifier", "EasyPDFEdit", "PDFTamper",
		},
		RequiredFields:   []string{"Author", "Title", "CreationDate"},
		MaxDateDriftDays: 365 * 5,
		XMPDateTolerance: 60 * time.Second,
	}
}
