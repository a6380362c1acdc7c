package models

import (
	"time"
)

// Document is one uploaded PDF tracked in the analyses table.
type Document struct {
	ID          string     `json:"id" db:"id"`
	Filename    string     `json:"filename" db:"filename"`
	FileSize    int64      `json:"file_size" db:"file_size"`
	ContentType string     `json:"content_type" db:"content_type"`
	S3Key       string     `json:"s3_key" db:"s3_key"`
	SHA256      string     `json:"sha256" db:"sha256"`
	Suspicious  *bool      `json:"is_suspicious,omitempty" db:"is_suspicious"`
	Findings    []string   `json:"findings,omitempty" db:"-"`
	Metadata    *Metadata  `json:"metadata,omitempty" db:"-"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	AnalyzedAt  *time.Time `json:"analyzed_at,omitempty" db:"analyzed_at"`
}

type UploadRequest struct {
	File        []byte
	Filename    string
	ContentType string
}

type UploadResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	Message     string    `json:"message"`
}

type AnalysisResponse struct {
	ID          string              `json:"id"`
	Filename    string              `json:"filename"`
	Suspicious  bool                `json:"is_suspicious"`
	Findings    []string            `json:"findings"`
	Categorized map[string][]string `json:"categorized_findings"`
	Metadata    *Metadata           `json:"metadata"`
	// DisplayMetadata holds every field pre-formatted for rendering,
	// absent values included.
	DisplayMetadata map[string]string `json:"display_metadata,omitempty"`
	AnalyzedAt      time.Time         `json:"analyzed_at"`
}
