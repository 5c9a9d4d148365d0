package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	modsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/moderation"
)

const (
	defaultLimit = 50
	defaultPause = 500 * time.Millisecond
)

type ContentLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.ContentItem, error)
}

type ModeratedIndex interface {
	ListModeratedContentIDs(ctx context.Context, contentIDs []string) (map[string]struct{}, error)
}

type Pipeline interface {
	Moderate(ctx context.Context, contentID string, contentType enums.ContentType, input modsvc.EvaluationInput) (model.ModerationRecord, error)
}

type MediaSigner interface {
	SignedMediaURL(ctx context.Context, item model.ContentItem) (string, error)
}

// Result aggregates one sweep run. Errors are keyed by the item's object key
// (falling back to the content id for link-only items).
type Result struct {
	Processed int
	Approved  int
	Rejected  int
	Pending   int
	Errors    map[string]string
}

// Job walks recent unmoderated content through the moderation pipeline,
// strictly sequentially with a pause between items so the remote classifier
// is not overwhelmed. Per-item failures are collected, never fatal.
type Job struct {
	content   ContentLister
	moderated ModeratedIndex
	pipeline  Pipeline
	signer    MediaSigner
	limit     int
	pause     time.Duration
	sleep     func(ctx context.Context, d time.Duration)
	logger    *zap.Logger
}

func New(content ContentLister, moderated ModeratedIndex, pipeline Pipeline, signer MediaSigner, limit int, pause time.Duration, logger *zap.Logger) *Job {
	if limit <= 0 {
		limit = defaultLimit
	}
	if pause <= 0 {
		pause = defaultPause
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		content:   content,
		moderated: moderated,
		pipeline:  pipeline,
		signer:    signer,
		limit:     limit,
		pause:     pause,
		sleep:     sleepContext,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) (Result, error) {
	result := Result{Errors: map[string]string{}}

	if j.content == nil || j.moderated == nil || j.pipeline == nil {
		return result, fmt.Errorf("sweep job dependencies are not configured")
	}

	items, err := j.content.ListRecent(ctx, j.limit)
	if err != nil {
		return result, fmt.Errorf("list recent content: %w", err)
	}
	if len(items) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	moderated, err := j.moderated.ListModeratedContentIDs(ctx, ids)
	if err != nil {
		return result, fmt.Errorf("filter moderated content: %w", err)
	}

	first := true
	for _, item := range items {
		if _, done := moderated[item.ID]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !first {
			j.sleep(ctx, j.pause)
		}
		first = false

		record, err := j.moderateItem(ctx, item)
		if err != nil {
			result.Errors[errorKey(item)] = err.Error()
			j.logger.Warn("sweep item failed",
				zap.String("content_id", item.ID),
				zap.Error(err),
			)
			continue
		}

		result.Processed++
		switch record.Status {
		case enums.ModerationStatusApproved:
			result.Approved++
		case enums.ModerationStatusRejected:
			result.Rejected++
		default:
			result.Pending++
		}
	}

	j.logger.Info("moderation sweep completed",
		zap.Int("processed", result.Processed),
		zap.Int("approved", result.Approved),
		zap.Int("rejected", result.Rejected),
		zap.Int("pending", result.Pending),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

func (j *Job) moderateItem(ctx context.Context, item model.ContentItem) (model.ModerationRecord, error) {
	input := modsvc.EvaluationInput{
		Title:        item.Title,
		Description:  item.Description,
		ExternalLink: item.ExternalLink,
	}

	if item.ObjectKey != "" && j.signer != nil {
		url, err := j.signer.SignedMediaURL(ctx, item)
		if err != nil {
			return model.ModerationRecord{}, fmt.Errorf("sign media url: %w", err)
		}
		input.MediaURL = url
	}

	record, err := j.pipeline.Moderate(ctx, item.ID, item.Type, input)
	if err != nil {
		return model.ModerationRecord{}, fmt.Errorf("moderate content: %w", err)
	}

	return record, nil
}

func errorKey(item model.ContentItem) string {
	if item.ObjectKey != "" {
		return item.ObjectKey
	}
	return item.ID
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
