package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/naijj/ml-shelf/dao"
	"github.com/naijj/ml-shelf/entity"
	"github.com/naijj/ml-shelf/infrastructure/events"
)

var ErrStorageNotConfigured = errors.New("object storage is not configured")

// DefaultSignedURLTTL is how long a download link stays usable.
const DefaultSignedURLTTL = 60 * time.Second

// ObjectStorage is the object-store capability the catalog needs. Implemented
// by infrastructure/objectstore.Store.
type ObjectStorage interface {
	Save(ctx context.Context, objectName string, r io.Reader, size int64) error
	SignedURL(ctx context.Context, objectName, downloadName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// CatalogStatus is the fetch state of the in-memory snapshot.
type CatalogStatus int

const (
	CatalogIdle CatalogStatus = iota
	CatalogLoading
	CatalogReady
	CatalogError
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogIdle:
		return "idle"
	case CatalogLoading:
		return "loading"
	case CatalogReady:
		return "ready"
	case CatalogError:
		return "error"
	default:
		return "unknown"
	}
}

// UploadRequest carries the file bytes and metadata of one upload.
type UploadRequest struct {
	File     io.Reader
	FileName string
	Size     int64
	UserID   string

	Name                string
	Description         string
	UsageInstructions   string
	MacInstructions     string
	WindowsInstructions string
	LinuxInstructions   string
	Framework           string
	Format              string
	Tags                []string
}

// DownloadLink is a ready-to-use signed download URL.
type DownloadLink struct {
	URL       string `json:"url"`
	FileName  string `json:"file_name"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// CatalogService owns the authoritative in-memory model list and mediates all
// writes. Consumers read the snapshot through Models; every mutation funnels
// through Upload and Download and triggers a full refetch.
type CatalogService struct {
	modelDAO  *dao.ModelDAO
	storage   ObjectStorage
	publisher *events.Publisher
	urlTTL    time.Duration
	logger    *slog.Logger

	mu      sync.RWMutex
	status  CatalogStatus
	models  []entity.Model
	lastErr error
}

func NewCatalogService(modelDAO *dao.ModelDAO, storage ObjectStorage, publisher *events.Publisher, urlTTL time.Duration) *CatalogService {
	if urlTTL <= 0 {
		urlTTL = DefaultSignedURLTTL
	}
	return &CatalogService{
		modelDAO:  modelDAO,
		storage:   storage,
		publisher: publisher,
		urlTTL:    urlTTL,
		status:    CatalogIdle,
		logger:    serviceLogger().With("component", "catalog"),
	}
}

// Fetch reloads the whole catalog, newest first. On failure the previous
// snapshot stays in place and the service enters the error state; recovery
// requires another explicit Fetch.
func (s *CatalogService) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.status = CatalogLoading
	s.mu.Unlock()

	models, err := s.modelDAO.FindAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = CatalogError
		s.lastErr = err
		s.logger.Error("catalog fetch failed", "error", err)
		return err
	}

	s.models = models
	s.status = CatalogReady
	s.lastErr = nil
	return nil
}

// Models returns a copy of the current snapshot.
func (s *CatalogService) Models() []entity.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Model, len(s.models))
	copy(out, s.models)
	return out
}

// Status returns the snapshot state and the last fetch error, if any.
func (s *CatalogService) Status() (CatalogStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.lastErr
}

// Upload validates the request, stores the file under a fresh
// timestamp-prefixed object name, inserts the metadata row and refetches the
// catalog. If the row insert fails after the object was written, the object is
// removed so no orphan is left behind.
func (s *CatalogService) Upload(ctx context.Context, req UploadRequest) (*entity.Model, error) {
	if err := ValidateUpload(req); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	objectName := generateObjectName(req.FileName)
	if err := s.storage.Save(ctx, objectName, req.File, req.Size); err != nil {
		return nil, fmt.Errorf("store model file failed: %w", err)
	}

	model := &entity.Model{
		UserID:              strings.TrimSpace(req.UserID),
		Name:                strings.TrimSpace(req.Name),
		Description:         strings.TrimSpace(req.Description),
		UsageInstructions:   req.UsageInstructions,
		MacInstructions:     req.MacInstructions,
		WindowsInstructions: req.WindowsInstructions,
		LinuxInstructions:   req.LinuxInstructions,
		Framework:           strings.TrimSpace(req.Framework),
		Format:              strings.TrimSpace(req.Format),
		Tags:                normalizeTags(req.Tags),
		FilePath:            objectName,
		SizeBytes:           req.Size,
		Downloads:           0,
	}

	if err := s.modelDAO.Save(ctx, model); err != nil {
		// Compensate: drop the stored object instead of orphaning it.
		if rmErr := s.storage.Remove(ctx, objectName); rmErr != nil {
			s.logger.Error("cleanup of stored object failed",
				"object", objectName, "error", rmErr)
		}
		return nil, fmt.Errorf("save model metadata failed: %w", err)
	}

	if err := s.Fetch(ctx); err != nil {
		s.logger.Warn("catalog refetch after upload failed", "error", err)
	}

	s.publisher.Publish(ctx, objectName, events.NewEvent(events.ModelUploaded, map[string]interface{}{
		"model_id":   model.ID,
		"user_id":    model.UserID,
		"name":       model.Name,
		"size_bytes": model.SizeBytes,
	}))

	return model, nil
}

// Download returns a signed URL for the model file and bumps the download
// counter. The counter moves only after the URL request succeeded; a presign
// failure aborts with no counter change.
func (s *CatalogService) Download(ctx context.Context, id uint) (*DownloadLink, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	model, err := s.modelDAO.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SignedURL(ctx, model.FilePath, model.Name, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("sign download url failed: %w", err)
	}

	if err := s.modelDAO.IncrementDownloads(ctx, model.ID); err != nil {
		return nil, fmt.Errorf("increment downloads failed: %w", err)
	}

	if err := s.Fetch(ctx); err != nil {
		s.logger.Warn("catalog refetch after download failed", "error", err)
	}

	s.publisher.Publish(ctx, model.FilePath, events.NewEvent(events.ModelDownloaded, map[string]interface{}{
		"model_id": model.ID,
	}))

	return &DownloadLink{
		URL:       url,
		FileName:  model.Name,
		ExpiresIn: int64(s.urlTTL / time.Second),
	}, nil
}

// UserModels returns all models owned by userID, newest first. Pure read.
func (s *CatalogService) UserModels(ctx context.Context, userID string) ([]entity.Model, error) {
	return s.modelDAO.FindByUser(ctx, userID)
}

// generateObjectName builds a collision-resistant storage key:
// <unix-millis>-<sanitized original name>.
func generateObjectName(fileName string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFileName(fileName))
}

func sanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

func normalizeTags(tags []string) entity.StringList {
	out := make(entity.StringList, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
