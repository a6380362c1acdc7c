package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
	"github.com/docintegrity/pdf-forensics-api/internal/models"
	"github.com/docintegrity/pdf-forensics-api/internal/utils"
)

type fakeRepo struct {
	docs    map[string]*models.Document
	updated map[string]models.AnalysisResult
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		docs:    make(map[string]*models.Document),
		updated: make(map[string]models.AnalysisResult),
	}
}

func (r *fakeRepo) Create(ctx context.Context, doc *models.Document) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	return r.docs[id], nil
}

func (r *fakeRepo) UpdateAnalysis(ctx context.Context, id string, suspicious bool, findings []string, metadata *models.Metadata) error {
	r.updated[id] = models.AnalysisResult{Suspicious: suspicious, Findings: findings}
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	getErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func testService(repo *fakeRepo, store *fakeStorage) *analysisService {
	logger := utils.NewLoggerWithWriter(io.Discard, "error")
	engine := analyzer.New(analyzer.DefaultConfig())
	return newService(repo, store, engine, gocache.New(time.Minute, time.Minute), logger)
}

func seedDocument(repo *fakeRepo, store *fakeStorage, id string, data []byte) {
	key := "uploads/" + id + "/file.pdf"
	store.objects[key] = data
	repo.docs[id] = &models.Document{
		ID:        id,
		Filename:  "file.pdf",
		FileSize:  int64(len(data)),
		S3Key:     key,
		SHA256:    "sha-" + id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestAnalyzeDocument_ExtractionFailureShortCircuits(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	seedDocument(repo, store, "doc1", []byte("this is not a pdf"))

	resp, err := testService(repo, store).AnalyzeDocument(context.Background(), "doc1")

	require.NoError(t, err)
	assert.True(t, resp.Suspicious)
	require.Len(t, resp.Findings, 1)
	assert.Contains(t, resp.Findings[0], "Error extracting metadata")
	assert.Nil(t, resp.Metadata)

	// The verdict is persisted even for the short-circuit path.
	persisted, ok := repo.updated["doc1"]
	require.True(t, ok)
	assert.True(t, persisted.Suspicious)
}

func TestAnalyzeDocument_NotFound(t *testing.T) {
	svc := testService(newFakeRepo(), newFakeStorage())

	_, err := svc.AnalyzeDocument(context.Background(), "missing")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestAnalyzeDocument_StorageFailure(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	seedDocument(repo, store, "doc1", []byte("x"))
	store.getErr = errors.New("connection refused")

	_, err := testService(repo, store).AnalyzeDocument(context.Background(), "doc1")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.StatusCode)
}

func TestAnalyzeDocument_CacheHitSkipsStorage(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	seedDocument(repo, store, "doc1", []byte("x"))

	svc := testService(repo, store)
	svc.storeCache("sha-doc1", cachedAnalysis{
		result: models.AnalysisResult{Suspicious: true, Findings: []string{"All metadata fields are empty"}},
	})
	// Downloads would fail; the cache hit must avoid them.
	store.getErr = errors.New("storage is down")

	resp, err := svc.AnalyzeDocument(context.Background(), "doc1")

	require.NoError(t, err)
	assert.True(t, resp.Suspicious)
	assert.Equal(t, []string{"All metadata fields are empty"}, resp.Findings)
}

func TestAnalyzeDocument_AlreadyAnalyzed(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	seedDocument(repo, store, "doc1", []byte("x"))

	suspicious := false
	analyzedAt := time.Now().Add(-time.Hour)
	repo.docs["doc1"].Suspicious = &suspicious
	repo.docs["doc1"].AnalyzedAt = &analyzedAt
	repo.docs["doc1"].Metadata = &models.Metadata{Title: "Stored", PageCount: 1}

	resp, err := testService(repo, store).AnalyzeDocument(context.Background(), "doc1")

	require.NoError(t, err)
	assert.False(t, resp.Suspicious)
	assert.Empty(t, resp.Findings)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "Stored", resp.Metadata.Title)
	assert.Equal(t, analyzedAt, resp.AnalyzedAt)
}

func TestGetReport_RequiresAnalysis(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	seedDocument(repo, store, "doc1", []byte("x"))

	_, err := testService(repo, store).GetReport(context.Background(), "doc1")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}
