package content

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

const signedURLTTL = 5 * time.Minute

var contentTypeByExt = map[string]enums.ContentType{
	".jpg":  enums.ContentTypeImage,
	".jpeg": enums.ContentTypeImage,
	".png":  enums.ContentTypeImage,
	".gif":  enums.ContentTypeImage,
	".webp": enums.ContentTypeImage,
	".mp4":  enums.ContentTypeVideo,
	".mov":  enums.ContentTypeVideo,
	".webm": enums.ContentTypeVideo,
}

type Store interface {
	Insert(ctx context.Context, item model.ContentItem) error
	GetByID(ctx context.Context, id string) (model.ContentItem, error)
	ListRecent(ctx context.Context, limit int) ([]model.ContentItem, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store   Store
	storage ObjectStorage
	now     func() time.Time
	newID   func() string
}

type Upload struct {
	Title        string
	Description  string
	ExternalLink string
	FileName     string
	ContentType  string
	Body         io.Reader
	Size         int64
}

func NewService(store Store, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		storage: storage,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// UploadItem stores the media object and the catalog row for one piece of
// creator content. The returned item is what the moderation pipeline
// evaluates.
func (s *Service) UploadItem(ctx context.Context, creatorID int64, upload Upload) (model.ContentItem, error) {
	if creatorID <= 0 || strings.TrimSpace(upload.Title) == "" {
		return model.ContentItem{}, ErrValidation
	}
	if upload.Body == nil || upload.Size <= 0 {
		return model.ContentItem{}, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return model.ContentItem{}, fmt.Errorf("content service dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return model.ContentItem{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildObjectKey(creatorID, upload.FileName)
	if err != nil {
		return model.ContentItem{}, fmt.Errorf("build object key: %w", err)
	}

	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.PutObject(ctx, objectKey, upload.Body, upload.Size, contentType); err != nil {
		return model.ContentItem{}, fmt.Errorf("put object: %w", err)
	}

	item := model.ContentItem{
		ID:           s.newID(),
		CreatorID:    creatorID,
		Type:         TypeFromFileName(upload.FileName),
		Title:        strings.TrimSpace(upload.Title),
		Description:  strings.TrimSpace(upload.Description),
		ObjectKey:    objectKey,
		ExternalLink: strings.TrimSpace(upload.ExternalLink),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.Insert(ctx, item); err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return model.ContentItem{}, fmt.Errorf("insert content item: %w", err)
	}

	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (model.ContentItem, error) {
	if strings.TrimSpace(id) == "" {
		return model.ContentItem{}, ErrValidation
	}
	if s.store == nil {
		return model.ContentItem{}, fmt.Errorf("content store is not configured")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]model.ContentItem, error) {
	if s.store == nil {
		return nil, fmt.Errorf("content store is not configured")
	}
	return s.store.ListRecent(ctx, limit)
}

// SignedMediaURL returns a short-lived URL for an item's stored object,
// used both by the review surface and as the classifier's media input.
func (s *Service) SignedMediaURL(ctx context.Context, item model.ContentItem) (string, error) {
	if strings.TrimSpace(item.ObjectKey) == "" {
		return "", nil
	}
	if s.storage == nil {
		return "", fmt.Errorf("content storage is not configured")
	}

	url, err := s.storage.PresignGet(ctx, item.ObjectKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign media url: %w", err)
	}
	return url, nil
}

// TypeFromFileName maps a file extension to the platform's content type.
// Unknown extensions fall back to text, keeping the item on the text
// classification path.
func TypeFromFileName(fileName string) enums.ContentType {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if t, ok := contentTypeByExt[ext]; ok {
		return t
	}
	return enums.ContentTypeText
}

func buildObjectKey(creatorID int64, fileName string) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}

	stamp := time.Now().UTC().Format("20060102T150405")
	return fmt.Sprintf("creators/%d/content/%s_%s%s", creatorID, stamp, hex.EncodeToString(rnd), ext), nil
}
