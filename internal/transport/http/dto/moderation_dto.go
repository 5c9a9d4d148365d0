package dto

import (
	"time"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

type ModerationRecordResponse struct {
	ID          string                  `json:"id"`
	ContentID   string                  `json:"content_id"`
	ContentType string                  `json:"content_type"`
	Status      string                  `json:"status"`
	AutoResult  model.ModerationResult  `json:"auto_result"`
	HumanReview *HumanReviewResponse    `json:"human_review,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

type HumanReviewResponse struct {
	ReviewerID int64     `json:"reviewer_id"`
	Decision   string    `json:"decision"`
	Reason     *string   `json:"reason,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type SubmitReviewRequest struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason,omitempty"`
}

type ModerationStatsResponse struct {
	Total            int     `json:"total"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
	Pending          int     `json:"pending"`
	AutoApprovalRate float64 `json:"auto_approval_rate"`
}

type SweepResponse struct {
	Processed int               `json:"processed"`
	Approved  int               `json:"approved"`
	Rejected  int               `json:"rejected"`
	Pending   int               `json:"pending"`
	Errors    map[string]string `json:"errors"`
}

func NewModerationRecordResponse(record model.ModerationRecord) ModerationRecordResponse {
	resp := ModerationRecordResponse{
		ID:          record.ID,
		ContentID:   record.ContentID,
		ContentType: string(record.ContentType),
		Status:      string(record.Status),
		AutoResult:  record.AutoResult,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if record.HumanReview != nil {
		resp.HumanReview = &HumanReviewResponse{
			ReviewerID: record.HumanReview.ReviewerID,
			Decision:   string(record.HumanReview.Decision),
			Reason:     record.HumanReview.Reason,
			ReviewedAt: record.HumanReview.ReviewedAt,
		}
	}
	return resp
}
