package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	pgrepo "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/repo/postgres"
	authsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/auth"
)

const statsCacheTTL = 30 * time.Second

var ErrValidation = errors.New("validation error")

type RecordStore interface {
	GetByContentID(ctx context.Context, contentID string) (model.ModerationRecord, error)
	Insert(ctx context.Context, record model.ModerationRecord) (model.ModerationRecord, error)
	GetByID(ctx context.Context, id string) (model.ModerationRecord, error)
	ApplyHumanReview(ctx context.Context, id string, status enums.ModerationStatus, review model.HumanReview, updatedAt time.Time) (model.ModerationRecord, error)
	CountByStatus(ctx context.Context) (total, approved, rejected, pending int, err error)
}

type Classifier interface {
	ClassifyImage(ctx context.Context, url string) model.ModerationResult
	ClassifyText(ctx context.Context, text string) model.ModerationResult
}

type StatsCache interface {
	GetStats(ctx context.Context) (model.ModerationStats, bool, error)
	SetStats(ctx context.Context, stats model.ModerationStats, ttl time.Duration) error
}

// EvaluationInput carries the independently scored parts of one content item.
type EvaluationInput struct {
	Title        string
	Description  string
	MediaURL     string
	ExternalLink string
}

type Service struct {
	records    RecordStore
	classifier Classifier
	fallback   *FallbackClassifier
	statsCache StatsCache
	now        func() time.Time
	newID      func() string
	logger     *zap.Logger
}

func NewService(records RecordStore, classifier Classifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		records:    records,
		classifier: classifier,
		fallback:   NewFallbackClassifier(),
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
		logger:     logger,
	}
}

func (s *Service) AttachStatsCache(cache StatsCache) {
	s.statsCache = cache
}

// Moderate runs the automatic pipeline for one content item. A content id is
// evaluated at most once: an existing record is returned unchanged. The
// classification path never fails; an internal failure degrades to a pending
// record flagged for human review rather than an error.
func (s *Service) Moderate(ctx context.Context, contentID string, contentType enums.ContentType, input EvaluationInput) (model.ModerationRecord, error) {
	if strings.TrimSpace(contentID) == "" {
		return model.ModerationRecord{}, ErrValidation
	}
	if s.records == nil || s.classifier == nil {
		return model.ModerationRecord{}, fmt.Errorf("moderation service dependencies are not configured")
	}

	existing, err := s.records.GetByContentID(ctx, contentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgrepo.ErrModerationRecordNotFound) {
		return s.persistErrorRecord(ctx, contentID, contentType, fmt.Errorf("lookup moderation record: %w", err)), nil
	}

	combined := Combine(s.classifyParts(ctx, contentType, input))

	now := s.now().UTC()
	record := model.ModerationRecord{
		ID:          s.newID(),
		ContentID:   contentID,
		ContentType: contentType,
		Status:      statusFromResult(combined),
		AutoResult:  combined,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	inserted, err := s.records.Insert(ctx, record)
	if err != nil {
		return s.persistErrorRecord(ctx, contentID, contentType, fmt.Errorf("insert moderation record: %w", err)), nil
	}

	return inserted, nil
}

func (s *Service) classifyParts(ctx context.Context, contentType enums.ContentType, input EvaluationInput) []model.ModerationResult {
	// A stored file that is neither image nor video is a document and
	// bypasses classification entirely.
	if strings.TrimSpace(input.MediaURL) != "" && !contentType.IsMedia() {
		return []model.ModerationResult{s.fallback.ClassifyDocument()}
	}

	results := s.classifyTexts(ctx, input)
	if contentType.IsMedia() && strings.TrimSpace(input.MediaURL) != "" {
		results = append(results, s.classifier.ClassifyImage(ctx, input.MediaURL))
	}
	return results
}

func (s *Service) classifyTexts(ctx context.Context, input EvaluationInput) []model.ModerationResult {
	var results []model.ModerationResult
	if strings.TrimSpace(input.Title) != "" {
		results = append(results, s.classifier.ClassifyText(ctx, input.Title))
	}
	if strings.TrimSpace(input.Description) != "" {
		results = append(results, s.classifier.ClassifyText(ctx, input.Description))
	}
	if strings.TrimSpace(input.ExternalLink) != "" {
		results = append(results, s.classifier.ClassifyText(ctx, input.ExternalLink))
	}
	return results
}

// persistErrorRecord builds the degraded "needs human review" record after an
// internal failure and tries once, best effort, to persist it. A second
// persistence failure is logged only; the record is still returned so the
// caller always gets a usable outcome.
func (s *Service) persistErrorRecord(ctx context.Context, contentID string, contentType enums.ContentType, cause error) model.ModerationRecord {
	s.logger.Error("moderation pipeline failed, degrading to human review",
		zap.String("content_id", contentID),
		zap.Error(cause),
	)

	now := s.now().UTC()
	record := model.ModerationRecord{
		ID:          s.newID(),
		ContentID:   contentID,
		ContentType: contentType,
		Status:      enums.ModerationStatusPending,
		AutoResult: model.ModerationResult{
			Confidence:          0,
			RequiresHumanReview: true,
			Flags:               []string{FlagModerationFailed},
			Reason:              "automatic moderation failed",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.records.Insert(ctx, record); err != nil {
		s.logger.Warn("persist moderation error record failed",
			zap.String("content_id", contentID),
			zap.Error(err),
		)
	}

	return record
}

// SubmitHumanReview applies a reviewer decision to an existing record. It is
// the only mutation path after a record exists and requires an authenticated
// reviewer identity in the context.
func (s *Service) SubmitHumanReview(ctx context.Context, recordID string, decision enums.ReviewDecision, reason *string) (model.ModerationRecord, error) {
	identity, ok := authsvc.IdentityFromContext(ctx)
	if !ok {
		return model.ModerationRecord{}, authsvc.ErrUnauthorized
	}
	if strings.TrimSpace(recordID) == "" || !decision.Valid() {
		return model.ModerationRecord{}, ErrValidation
	}
	if s.records == nil {
		return model.ModerationRecord{}, fmt.Errorf("moderation record store is not configured")
	}

	if _, err := s.records.GetByID(ctx, recordID); err != nil {
		return model.ModerationRecord{}, err
	}

	status := enums.ModerationStatusRejected
	if decision == enums.ReviewDecisionApprove {
		status = enums.ModerationStatusApproved
	}

	now := s.now().UTC()
	review := model.HumanReview{
		ReviewerID: identity.UserID,
		Decision:   decision,
		Reason:     reason,
		ReviewedAt: now,
	}

	updated, err := s.records.ApplyHumanReview(ctx, recordID, status, review, now)
	if err != nil {
		return model.ModerationRecord{}, fmt.Errorf("apply human review: %w", err)
	}

	return updated, nil
}

// GetRecord returns the moderation record for a content id, if any.
func (s *Service) GetRecord(ctx context.Context, contentID string) (model.ModerationRecord, error) {
	if strings.TrimSpace(contentID) == "" {
		return model.ModerationRecord{}, ErrValidation
	}
	if s.records == nil {
		return model.ModerationRecord{}, fmt.Errorf("moderation record store is not configured")
	}
	return s.records.GetByContentID(ctx, contentID)
}

// Stats aggregates record counts. Results are cached briefly when a cache is
// attached; cache failures are logged, never surfaced.
func (s *Service) Stats(ctx context.Context) (model.ModerationStats, error) {
	if s.records == nil {
		return model.ModerationStats{}, fmt.Errorf("moderation record store is not configured")
	}

	if s.statsCache != nil {
		cached, ok, err := s.statsCache.GetStats(ctx)
		if err != nil {
			s.logger.Debug("read moderation stats cache failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	total, approved, rejected, pending, err := s.records.CountByStatus(ctx)
	if err != nil {
		return model.ModerationStats{}, fmt.Errorf("count moderation records: %w", err)
	}

	stats := model.ModerationStats{
		Total:    total,
		Approved: approved,
		Rejected: rejected,
		Pending:  pending,
	}
	if total > 0 {
		stats.AutoApprovalRate = 100 * float64(approved) / float64(total)
	}

	if s.statsCache != nil {
		if err := s.statsCache.SetStats(ctx, stats, statsCacheTTL); err != nil {
			s.logger.Debug("write moderation stats cache failed", zap.Error(err))
		}
	}

	return stats, nil
}

func statusFromResult(result model.ModerationResult) enums.ModerationStatus {
	switch {
	case result.IsApproved:
		return enums.ModerationStatusApproved
	case result.RequiresHumanReview:
		return enums.ModerationStatusPending
	default:
		return enums.ModerationStatusRejected
	}
}
