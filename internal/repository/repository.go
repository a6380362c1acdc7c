package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/docintegrity/pdf-forensics-api/internal/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	UpdateAnalysis(ctx context.Context, id string, suspicious bool, findings []string, metadata *models.Metadata) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO analyses (id, filename, file_size, content_type, s3_key, sha256, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.FileSize,
		doc.ContentType,
		doc.S3Key,
		doc.SHA256,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	var suspicious sql.NullBool
	var findingsJSON, metadataJSON sql.NullString

	query := `
		SELECT id, filename, file_size, content_type, s3_key, sha256,
		       is_suspicious, findings, metadata, created_at, updated_at, analyzed_at
		FROM analyses
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.Filename,
		&doc.FileSize,
		&doc.ContentType,
		&doc.S3Key,
		&doc.SHA256,
		&suspicious,
		&findingsJSON,
		&metadataJSON,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.AnalyzedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if suspicious.Valid {
		doc.Suspicious = &suspicious.Bool
	}
	if findingsJSON.Valid && findingsJSON.String != "" {
		if err := json.Unmarshal([]byte(findingsJSON.String), &doc.Findings); err != nil {
			return nil, err
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

func (r *repository) UpdateAnalysis(ctx context.Context, id string, suspicious bool, findings []string, metadata *models.Metadata) error {
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return err
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE analyses
		SET is_suspicious = $2, findings = $3, metadata = $4, analyzed_at = $5, updated_at = $6
		WHERE id = $1
	`

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query, id, suspicious, findingsJSON, metadataJSON, now, now)

	return err
}
