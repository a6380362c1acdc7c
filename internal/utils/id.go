package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new document identifier.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
