package moderation

import (
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

// Combine merges independent evaluations of a content item's parts (title,
// description, media, external link) into one decision. The worst signal
// wins per category; flags are unioned; the threshold policy is re-applied
// to the merged vector. An empty input is unsafe by default and is always
// routed to human review.
func Combine(results []model.ModerationResult) model.ModerationResult {
	if len(results) == 0 {
		return model.ModerationResult{
			Confidence:          0,
			RequiresHumanReview: true,
			Flags:               []string{FlagNoResults},
			Reason:              "no moderation results available",
		}
	}

	categories := results[0].Categories
	var flags []string
	flags = append(flags, results[0].Flags...)
	for _, result := range results[1:] {
		categories = categories.MergeMax(result.Categories)
		flags = append(flags, result.Flags...)
	}

	return Evaluate(categories, flags)
}
