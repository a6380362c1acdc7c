package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsPDFFile reports whether the filename carries a .pdf extension.
func IsPDFFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// ValidatePDFPath checks that path points at a readable PDF file.
func ValidatePDFPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("file is not readable: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("not a file: %s", path)
	}
	if !IsPDFFile(path) {
		return fmt.Errorf("not a PDF file: %s", path)
	}
	return nil
}
