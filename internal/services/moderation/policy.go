package moderation

import (
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

// Threshold tables for an adult platform: adult content is the product, so
// its approval band is wide open and only near-certain scores reject.
// Violence, hate and self-harm use tight low bands instead.
const (
	adultRejectFloor = 0.99

	violenceApproveCeiling = 0.10
	violenceRejectFloor    = 0.20

	hateApproveCeiling = 0.05
	hateRejectFloor    = 0.20

	selfHarmApproveCeiling = 0.05
	selfHarmRejectFloor    = 0.20
)

// Evaluate applies the threshold policy to a category vector. First match
// wins: reject, then auto-approve, otherwise escalate to human review.
// Confidence is 1 minus the highest category score.
func Evaluate(categories model.CategoryScore, flags []string) model.ModerationResult {
	result := model.ModerationResult{
		Categories: categories,
		Confidence: 1 - categories.Max(),
		Flags:      dedupeFlags(flags),
	}

	switch {
	case categories.Violence > violenceRejectFloor:
		result.Reason = "violent content detected"
	case categories.Hate > hateRejectFloor:
		result.Reason = "hateful content detected"
	case categories.SelfHarm > selfHarmRejectFloor:
		result.Reason = "self-harm content detected"
	case categories.Adult > adultRejectFloor:
		result.Reason = "extreme content detected"
	}
	if result.Reason != "" {
		return result
	}

	if categories.Violence <= violenceApproveCeiling &&
		categories.Hate <= hateApproveCeiling &&
		categories.SelfHarm <= selfHarmApproveCeiling {
		result.IsApproved = true
		if categories.Adult > 0.5 {
			result.Reason = "adult content approved"
		} else {
			result.Reason = "content passed safety checks"
		}
		return result
	}

	result.RequiresHumanReview = true
	switch {
	case categories.Violence > violenceApproveCeiling:
		result.Reason = "possible violent content, review required"
	case categories.Hate > hateApproveCeiling:
		result.Reason = "possible hateful content, review required"
	case categories.SelfHarm > selfHarmApproveCeiling:
		result.Reason = "possible self-harm content, review required"
	default:
		result.Reason = "manual review required"
	}
	return result
}

func dedupeFlags(flags []string) []string {
	if len(flags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(flags))
	out := make([]string, 0, len(flags))
	for _, flag := range flags {
		if flag == "" {
			continue
		}
		if _, ok := seen[flag]; ok {
			continue
		}
		seen[flag] = struct{}{}
		out = append(out, flag)
	}
	return out
}
