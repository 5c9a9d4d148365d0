package moderation

import (
	"strings"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
)

// Flags attached by the heuristic classifier.
const (
	FlagFallbackPolicy   = "fallback_adult_platform_policy"
	FlagDocumentFile     = "document_file"
	FlagViolenceKeyword  = "violence_keyword_match"
	FlagHateKeyword      = "hate_keyword_match"
	FlagSelfHarmKeyword  = "self_harm_keyword_match"
	FlagNoResults        = "no_results_available"
	FlagModerationFailed = "moderation_error"
)

var (
	violenceKeywords = []string{
		"gore", "blood", "torture", "beating", "mutilation", "snuff", "beheading",
	}
	hateKeywords = []string{
		"nazi", "white power", "race war", "ethnic cleansing", "hate speech",
	}
	selfHarmKeywords = []string{
		"suicide", "self harm", "self-harm", "cutting myself", "kill myself",
	}
)

// FallbackClassifier is the deterministic substitute used when the remote
// classification service is unconfigured or failing. Baselines assume adult
// content is expected; keyword hits raise the safety-relevant categories.
type FallbackClassifier struct{}

func NewFallbackClassifier() *FallbackClassifier {
	return &FallbackClassifier{}
}

// ClassifyText scores a text fragment (title, description, external link).
func (f *FallbackClassifier) ClassifyText(text string) model.ModerationResult {
	categories := model.CategoryScore{
		Adult:    0.6,
		Violence: 0.05,
		Hate:     0.05,
		SelfHarm: 0.05,
	}
	categories, flags := scanKeywords(text, categories, 0.9, 0.95, 0.95)
	flags = append(flags, FlagFallbackPolicy)
	return Evaluate(categories, flags)
}

// ClassifyMediaURL scores an image or video by its URL string.
func (f *FallbackClassifier) ClassifyMediaURL(url string) model.ModerationResult {
	categories := model.CategoryScore{
		Adult:    0.7,
		Violence: 0.05,
		Hate:     0.05,
		SelfHarm: 0.05,
	}
	categories, flags := scanKeywords(url, categories, 0.8, 0.9, 0.9)
	flags = append(flags, FlagFallbackPolicy)
	return Evaluate(categories, flags)
}

// ClassifyDocument is the bypass for non-image, non-video files: no keyword
// scan, fixed low-risk vector, always approved.
func (f *FallbackClassifier) ClassifyDocument() model.ModerationResult {
	categories := model.CategoryScore{
		Adult:    0.1,
		Violence: 0.01,
		Hate:     0.01,
		SelfHarm: 0.01,
	}
	return Evaluate(categories, []string{FlagDocumentFile, FlagFallbackPolicy})
}

func scanKeywords(input string, categories model.CategoryScore, violenceScore, hateScore, selfHarmScore float64) (model.CategoryScore, []string) {
	lowered := strings.ToLower(input)
	var flags []string

	if matchesAny(lowered, violenceKeywords) {
		if violenceScore > categories.Violence {
			categories.Violence = violenceScore
		}
		flags = append(flags, FlagViolenceKeyword)
	}
	if matchesAny(lowered, hateKeywords) {
		if hateScore > categories.Hate {
			categories.Hate = hateScore
		}
		flags = append(flags, FlagHateKeyword)
	}
	if matchesAny(lowered, selfHarmKeywords) {
		if selfHarmScore > categories.SelfHarm {
			categories.SelfHarm = selfHarmScore
		}
		flags = append(flags, FlagSelfHarmKeyword)
	}

	return categories, flags
}

func matchesAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
