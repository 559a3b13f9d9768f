package enrichment

import "strings"

// keywordVocabulary is the fixed domain-term list used for relevance
// matching. Order is the return priority.
var keywordVocabulary = []string{
	"AI", "人工智能", "科技", "经济", "市场", "投资",
	"健康", "教育", "文化", "体育", "娱乐", "政治",
	"环保", "创业", "职场", "社交", "互联网", "数字化",
}

const maxKeywords = 3

// ExtractKeywords scans text for vocabulary members via case-insensitive
// substring match and returns the first 3 hits in vocabulary order. An
// approximation, not tokenization; good enough to steer news relevance.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, term := range keywordVocabulary {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
			if len(found) == maxKeywords {
				break
			}
		}
	}
	return found
}
