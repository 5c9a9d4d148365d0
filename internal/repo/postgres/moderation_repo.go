package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

var ErrModerationRecordNotFound = errors.New("moderation record not found")

// ModerationRepo owns the moderation_records table. content_id carries a
// UNIQUE constraint, so the read-then-insert idempotency check in the service
// degrades to returning the winner's record when two callers race.
type ModerationRepo struct {
	pool *pgxpool.Pool
}

func NewModerationRepo(pool *pgxpool.Pool) *ModerationRepo {
	return &ModerationRepo{pool: pool}
}

func (r *ModerationRepo) GetByContentID(ctx context.Context, contentID string) (model.ModerationRecord, error) {
	if r.pool == nil {
		return model.ModerationRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(contentID) == "" {
		return model.ModerationRecord{}, fmt.Errorf("invalid content id")
	}

	return r.queryOne(ctx, `
SELECT id, content_id, content_type, status, auto_result,
       reviewer_id, review_decision, review_reason, reviewed_at,
       created_at, updated_at
FROM moderation_records
WHERE content_id = $1
LIMIT 1
`, contentID)
}

func (r *ModerationRepo) GetByID(ctx context.Context, id string) (model.ModerationRecord, error) {
	if r.pool == nil {
		return model.ModerationRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.ModerationRecord{}, fmt.Errorf("invalid moderation record id")
	}

	return r.queryOne(ctx, `
SELECT id, content_id, content_type, status, auto_result,
       reviewer_id, review_decision, review_reason, reviewed_at,
       created_at, updated_at
FROM moderation_records
WHERE id = $1
LIMIT 1
`, id)
}

// Insert persists a freshly evaluated record. On a content_id conflict the
// existing record wins and is returned instead.
func (r *ModerationRepo) Insert(ctx context.Context, record model.ModerationRecord) (model.ModerationRecord, error) {
	if r.pool == nil {
		return model.ModerationRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(record.ID) == "" || strings.TrimSpace(record.ContentID) == "" {
		return model.ModerationRecord{}, fmt.Errorf("invalid moderation record payload")
	}

	autoResult, err := json.Marshal(record.AutoResult)
	if err != nil {
		return model.ModerationRecord{}, fmt.Errorf("marshal auto result: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
INSERT INTO moderation_records (
	id,
	content_id,
	content_type,
	status,
	auto_result,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (content_id) DO NOTHING
`, record.ID, record.ContentID, string(record.ContentType), string(record.Status), autoResult, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return model.ModerationRecord{}, fmt.Errorf("insert moderation record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.GetByContentID(ctx, record.ContentID)
	}

	return record, nil
}

func (r *ModerationRepo) ApplyHumanReview(ctx context.Context, id string, status enums.ModerationStatus, review model.HumanReview, updatedAt time.Time) (model.ModerationRecord, error) {
	if r.pool == nil {
		return model.ModerationRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.ModerationRecord{}, fmt.Errorf("invalid moderation record id")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE moderation_records
SET
	status = $2,
	reviewer_id = $3,
	review_decision = $4,
	review_reason = $5,
	reviewed_at = $6,
	updated_at = $7
WHERE id = $1
`, id, string(status), review.ReviewerID, string(review.Decision), review.Reason, review.ReviewedAt, updatedAt)
	if err != nil {
		return model.ModerationRecord{}, fmt.Errorf("apply human review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ModerationRecord{}, ErrModerationRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *ModerationRepo) CountByStatus(ctx context.Context) (total, approved, rejected, pending int, err error) {
	if r.pool == nil {
		return 0, 0, 0, 0, fmt.Errorf("postgres pool is nil")
	}

	err = r.pool.QueryRow(ctx, `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'approved'),
	COUNT(*) FILTER (WHERE status = 'rejected'),
	COUNT(*) FILTER (WHERE status IN ('pending', 'reviewing'))
FROM moderation_records
`).Scan(&total, &approved, &rejected, &pending)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("count moderation records: %w", err)
	}

	return total, approved, rejected, pending, nil
}

// ListModeratedContentIDs filters the given content ids down to those that
// already have a record. Used by the bulk sweep to skip evaluated items.
func (r *ModerationRepo) ListModeratedContentIDs(ctx context.Context, contentIDs []string) (map[string]struct{}, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if len(contentIDs) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT content_id
FROM moderation_records
WHERE content_id = ANY($1)
`, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("list moderated content ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{}, len(contentIDs))
	for rows.Next() {
		var contentID string
		if err := rows.Scan(&contentID); err != nil {
			return nil, fmt.Errorf("scan moderated content id: %w", err)
		}
		out[contentID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moderated content ids: %w", err)
	}

	return out, nil
}

func (r *ModerationRepo) queryOne(ctx context.Context, query string, args ...interface{}) (model.ModerationRecord, error) {
	var (
		record         model.ModerationRecord
		contentType    string
		status         string
		autoResult     []byte
		reviewerID     *int64
		reviewDecision *string
		reviewReason   *string
		reviewedAt     *time.Time
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&record.ID,
		&record.ContentID,
		&contentType,
		&status,
		&autoResult,
		&reviewerID,
		&reviewDecision,
		&reviewReason,
		&reviewedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ModerationRecord{}, ErrModerationRecordNotFound
		}
		return model.ModerationRecord{}, fmt.Errorf("query moderation record: %w", err)
	}

	record.ContentType = enums.ContentType(contentType)
	record.Status = enums.ModerationStatus(status)

	if len(autoResult) > 0 {
		if err := json.Unmarshal(autoResult, &record.AutoResult); err != nil {
			return model.ModerationRecord{}, fmt.Errorf("unmarshal auto result: %w", err)
		}
	}

	if reviewerID != nil && reviewDecision != nil && reviewedAt != nil {
		record.HumanReview = &model.HumanReview{
			ReviewerID: *reviewerID,
			Decision:   enums.ReviewDecision(*reviewDecision),
			Reason:     reviewReason,
			ReviewedAt: *reviewedAt,
		}
	}

	return record, nil
}
