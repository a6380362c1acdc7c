package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
	"github.com/docintegrity/pdf-forensics-api/internal/config"
	"github.com/docintegrity/pdf-forensics-api/internal/models"
	"github.com/docintegrity/pdf-forensics-api/internal/pdfmeta"
	"github.com/docintegrity/pdf-forensics-api/internal/report"
	"github.com/docintegrity/pdf-forensics-api/internal/repository"
	"github.com/docintegrity/pdf-forensics-api/internal/storage"
	"github.com/docintegrity/pdf-forensics-api/internal/utils"
)

type AnalysisService interface {
	UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error)
	AnalyzeDocument(ctx context.Context, id string) (*models.AnalysisResponse, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetReport(ctx context.Context, id string) (string, error)
}

type analysisService struct {
	repo      repository.Repository
	storage   storage.Storage
	extractor *pdfmeta.Extractor
	engine    *analyzer.Engine
	cache     *gocache.Cache
	logger    *utils.Logger
}

// cachedAnalysis is the per-content-hash cache entry: identical bytes
// always produce identical results, so re-uploads skip the engine.
type cachedAnalysis struct {
	result models.AnalysisResult
	meta   *models.Metadata
}

func NewService(repo repository.Repository, cfg *config.Config, logger *utils.Logger) AnalysisService {
	s3Storage, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	var resultCache *gocache.Cache
	if cfg.CacheTTLMinutes > 0 {
		ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
		resultCache = gocache.New(ttl, 2*ttl)
	}

	return newService(repo, s3Storage, analyzer.New(cfg.Analysis), resultCache, logger)
}

func newService(repo repository.Repository, store storage.Storage, engine *analyzer.Engine, resultCache *gocache.Cache, logger *utils.Logger) *analysisService {
	return &analysisService{
		repo:      repo,
		storage:   store,
		extractor: pdfmeta.NewExtractor(logger),
		engine:    engine,
		cache:     resultCache,
		logger:    logger,
	}
}

func (s *analysisService) UploadDocument(ctx context.Context, req *models.UploadRequest) (*models.UploadResponse, error) {
	if err := pdfmeta.Validate(req.File); err != nil {
		s.logger.Warn("Upload rejected by structural validation", "filename", req.Filename, "error", err)
		return nil, utils.NewBadRequestError("Uploaded file is not a well-formed PDF")
	}

	docID := utils.GenerateID()
	s3Key := fmt.Sprintf("uploads/%s/%s", docID, req.Filename)

	if err := s.storage.Upload(ctx, s3Key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to S3", "error", err, "s3_key", s3Key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	digest := sha256.Sum256(req.File)

	now := time.Now()
	doc := &models.Document{
		ID:          docID,
		Filename:    req.Filename,
		FileSize:    int64(len(req.File)),
		ContentType: req.ContentType,
		S3Key:       s3Key,
		SHA256:      hex.EncodeToString(digest[:]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("Failed to save document to database", "error", err, "doc_id", docID)
		// Attempt to cleanup S3
		_ = s.storage.Delete(ctx, s3Key)
		return nil, utils.NewInternalError("Failed to save document record")
	}

	s.logger.Info("Document uploaded successfully",
		"id", docID,
		"filename", req.Filename,
		"size", doc.FileSize)

	return &models.UploadResponse{
		ID:          docID,
		Filename:    req.Filename,
		FileSize:    doc.FileSize,
		ContentType: req.ContentType,
		CreatedAt:   now,
		Message:     "Document uploaded successfully. Use /documents/{id}/analyze to run tamper analysis.",
	}, nil
}

func (s *analysisService) AnalyzeDocument(ctx context.Context, id string) (*models.AnalysisResponse, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	if doc.AnalyzedAt != nil {
		s.logger.Info("Document already analyzed, returning stored results", "id", id)
		return analysisResponse(doc, models.AnalysisResult{
			Suspicious: doc.Suspicious != nil && *doc.Suspicious,
			Findings:   doc.Findings,
		}, doc.Metadata, *doc.AnalyzedAt), nil
	}

	if entry, ok := s.lookupCache(doc.SHA256); ok {
		s.logger.Info("Analysis cache hit", "id", id, "sha256", doc.SHA256)
		return s.persistResult(ctx, doc, entry.result, entry.meta)
	}

	data, err := s.storage.Download(ctx, doc.S3Key)
	if err != nil {
		s.logger.Error("Failed to fetch document from storage", "error", err, "s3_key", doc.S3Key)
		return nil, utils.NewInternalError("Failed to fetch document from storage")
	}

	result, meta := s.runAnalysis(id, data)

	s.storeCache(doc.SHA256, cachedAnalysis{result: result, meta: meta})

	return s.persistResult(ctx, doc, result, meta)
}

// runAnalysis performs extraction plus the heuristics battery. An
// extraction failure short-circuits to a suspicious verdict carrying
// the failure reason as the only finding.
func (s *analysisService) runAnalysis(id string, data []byte) (models.AnalysisResult, *models.Metadata) {
	meta, err := s.extractor.ExtractBytes(data)
	if err != nil {
		var extErr *pdfmeta.ExtractionError
		reason := "Error extracting metadata"
		if errors.As(err, &extErr) {
			reason = extErr.Error()
		}
		s.logger.Warn("Metadata extraction failed", "id", id, "reason", reason)
		return analyzer.ExtractionFailure(reason), nil
	}

	suspicious, findings := s.engine.Analyze(meta, pdfmeta.NewBytesSource(data))

	s.logger.Info("Document analyzed",
		"id", id,
		"suspicious", suspicious,
		"findings", len(findings))

	return models.AnalysisResult{Suspicious: suspicious, Findings: findings}, meta
}

func (s *analysisService) persistResult(ctx context.Context, doc *models.Document, result models.AnalysisResult, meta *models.Metadata) (*models.AnalysisResponse, error) {
	if err := s.repo.UpdateAnalysis(ctx, doc.ID, result.Suspicious, result.Findings, meta); err != nil {
		s.logger.Error("Failed to save analysis results", "error", err, "id", doc.ID)
		return nil, utils.NewInternalError("Failed to save analysis results")
	}

	return analysisResponse(doc, result, meta, time.Now()), nil
}

func (s *analysisService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	if doc == nil {
		return nil, utils.NewNotFoundError("Document not found")
	}

	return doc, nil
}

func (s *analysisService) GetReport(ctx context.Context, id string) (string, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.AnalyzedAt == nil {
		return "", utils.NewBadRequestError("Document has not been analyzed yet")
	}

	result := models.AnalysisResult{
		Suspicious: doc.Suspicious != nil && *doc.Suspicious,
		Findings:   doc.Findings,
	}
	return report.Text(doc.Filename, doc.Metadata, result), nil
}

func (s *analysisService) lookupCache(sha string) (cachedAnalysis, bool) {
	if s.cache == nil {
		return cachedAnalysis{}, false
	}
	if v, ok := s.cache.Get(sha); ok {
		if entry, ok := v.(cachedAnalysis); ok {
			return entry, true
		}
	}
	return cachedAnalysis{}, false
}

func (s *analysisService) storeCache(sha string, entry cachedAnalysis) {
	if s.cache != nil {
		s.cache.Set(sha, entry, gocache.DefaultExpiration)
	}
}

func analysisResponse(doc *models.Document, result models.AnalysisResult, meta *models.Metadata, analyzedAt time.Time) *models.AnalysisResponse {
	resp := &models.AnalysisResponse{
		ID:          doc.ID,
		Filename:    doc.Filename,
		Suspicious:  result.Suspicious,
		Findings:    result.Findings,
		Categorized: report.Categorize(result.Findings),
		Metadata:    meta,
		AnalyzedAt:  analyzedAt,
	}
	if meta != nil {
		resp.DisplayMetadata = report.FormatMetadata(meta)
	}
	return resp
}
