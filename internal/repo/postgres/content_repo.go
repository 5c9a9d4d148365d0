package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

var ErrContentNotFound = errors.New("content item not found")

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

func (r *ContentRepo) Insert(ctx context.Context, item model.ContentItem) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(item.ID) == "" || item.CreatorID <= 0 {
		return fmt.Errorf("invalid content item payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO content_items (
	id,
	creator_id,
	content_type,
	title,
	description,
	object_key,
	external_link,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, item.ID, item.CreatorID, string(item.Type), item.Title, item.Description, item.ObjectKey, item.ExternalLink, item.CreatedAt); err != nil {
		return fmt.Errorf("insert content item: %w", err)
	}

	return nil
}

func (r *ContentRepo) GetByID(ctx context.Context, id string) (model.ContentItem, error) {
	if r.pool == nil {
		return model.ContentItem{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return model.ContentItem{}, fmt.Errorf("invalid content id")
	}

	var (
		item        model.ContentItem
		contentType string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, creator_id, content_type, title, description, object_key, external_link, created_at
FROM content_items
WHERE id = $1
LIMIT 1
`, id).Scan(
		&item.ID,
		&item.CreatorID,
		&contentType,
		&item.Title,
		&item.Description,
		&item.ObjectKey,
		&item.ExternalLink,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ContentItem{}, ErrContentNotFound
		}
		return model.ContentItem{}, fmt.Errorf("query content item: %w", err)
	}

	item.Type = enums.ContentType(contentType)
	return item, nil
}

// ListRecent returns up to limit newest content items, the sweep's input.
func (r *ContentRepo) ListRecent(ctx context.Context, limit int) ([]model.ContentItem, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, creator_id, content_type, title, description, object_key, external_link, created_at
FROM content_items
ORDER BY created_at DESC, id DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent content items: %w", err)
	}
	defer rows.Close()

	var items []model.ContentItem
	for rows.Next() {
		var (
			item        model.ContentItem
			contentType string
		)
		if err := rows.Scan(
			&item.ID,
			&item.CreatorID,
			&contentType,
			&item.Title,
			&item.Description,
			&item.ObjectKey,
			&item.ExternalLink,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		item.Type = enums.ContentType(contentType)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}

	return items, nil
}
