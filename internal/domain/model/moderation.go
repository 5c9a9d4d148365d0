package model

import (
	"time"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
)

// CategoryScore is the fixed risk vector produced by classification,
// every field normalized to [0,1].
type CategoryScore struct {
	Adult    float64 `json:"adult"`
	Violence float64 `json:"violence"`
	Hate     float64 `json:"hate"`
	SelfHarm float64 `json:"self_harm"`
}

// Max returns the highest of the four category scores.
func (c CategoryScore) Max() float64 {
	max := c.Adult
	if c.Violence > max {
		max = c.Violence
	}
	if c.Hate > max {
		max = c.Hate
	}
	if c.SelfHarm > max {
		max = c.SelfHarm
	}
	return max
}

// MergeMax returns the per-category maximum of the two vectors.
func (c CategoryScore) MergeMax(other CategoryScore) CategoryScore {
	out := c
	if other.Adult > out.Adult {
		out.Adult = other.Adult
	}
	if other.Violence > out.Violence {
		out.Violence = other.Violence
	}
	if other.Hate > out.Hate {
		out.Hate = other.Hate
	}
	if other.SelfHarm > out.SelfHarm {
		out.SelfHarm = other.SelfHarm
	}
	return out
}

// ModerationResult is the outcome of one automatic evaluation.
// IsApproved and RequiresHumanReview are never both true.
type ModerationResult struct {
	IsApproved          bool          `json:"is_approved"`
	Confidence          float64       `json:"confidence"`
	Categories          CategoryScore `json:"categories"`
	Flags               []string      `json:"flags"`
	RequiresHumanReview bool          `json:"requires_human_review"`
	Reason              string        `json:"reason,omitempty"`
}

type HumanReview struct {
	ReviewerID int64                `json:"reviewer_id"`
	Decision   enums.ReviewDecision `json:"decision"`
	Reason     *string              `json:"reason,omitempty"`
	ReviewedAt time.Time            `json:"reviewed_at"`
}

type ModerationRecord struct {
	ID          string
	ContentID   string
	ContentType enums.ContentType
	Status      enums.ModerationStatus
	AutoResult  ModerationResult
	HumanReview *HumanReview
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ModerationStats struct {
	Total            int     `json:"total"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
	Pending          int     `json:"pending"`
	AutoApprovalRate float64 `json:"auto_approval_rate"`
}
