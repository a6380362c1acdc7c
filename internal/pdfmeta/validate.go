package pdfmeta

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Validate runs pdfcpu's structural validation over an uploaded PDF
// before any metadata work happens. A document that fails here is
// rejected at the upload boundary rather than analyzed.
func Validate(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return fmt.Errorf("pdf failed structural validation: %w", err)
	}
	return nil
}
