package model

import "time"

// SuggestionKind categorizes a candidate reply surfaced to the user.
type SuggestionKind string

const (
	SuggestionQuote    SuggestionKind = "quote"
	SuggestionNews     SuggestionKind = "news"
	SuggestionInsight  SuggestionKind = "insight"
	SuggestionHumor    SuggestionKind = "humor"
	SuggestionQuestion SuggestionKind = "question"
	SuggestionEmpathy  SuggestionKind = "empathy"
)

// Suggestion is one candidate reply or commentary item. Immutable value;
// produced by the orchestrator and never mutated afterwards.
type Suggestion struct {
	Kind       SuggestionKind
	Content    string
	Source     string // provenance label ("《source》- author", "AI 建议", "default")
	Confidence float64
	CreatedAt  time.Time
}

// SuggestionBatch is the output of one orchestration cycle. Ephemeral,
// not persisted.
type SuggestionBatch struct {
	ID             int64 // snowflake, for log correlation only
	Transcript     *TranscriptSegment
	Suggestions    []Suggestion
	ContextSummary string
	Topics         []string
	RelatedNews    []NewsItem
}
