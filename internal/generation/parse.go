package generation

import (
	"strings"
	"time"

	"chatbuff.app/backend/internal/model"
)

// tagTable maps the literal line prefixes the model is instructed to
// emit onto suggestion kinds. Order matters: first match wins, and the
// table order is the priority order of the direct-reply mode.
var tagTable = []struct {
	prefix string
	kind   model.SuggestionKind
}{
	{"[深度]", model.SuggestionInsight},
	{"[幽默]", model.SuggestionHumor},
	{"[追问]", model.SuggestionQuestion},
}

// ParseSuggestions splits the model output into non-empty trimmed lines
// and matches each leading tag against the table. Unmatched lines are
// discarded and at most three suggestions are produced overall; a tag
// repeated by the model yields repeated kinds rather than being deduped.
func ParseSuggestions(text string) []model.Suggestion {
	now := time.Now()
	var out []model.Suggestion

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, entry := range tagTable {
			if strings.HasPrefix(line, entry.prefix) {
				out = append(out, model.Suggestion{
					Kind:       entry.kind,
					Content:    strings.TrimSpace(strings.TrimPrefix(line, entry.prefix)),
					Source:     "AI 建议",
					Confidence: 0.8,
					CreatedAt:  now,
				})
				break
			}
		}
		if len(out) == len(tagTable) {
			break
		}
	}
	return out
}
