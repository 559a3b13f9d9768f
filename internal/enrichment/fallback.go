package enrichment

import (
	"strings"
	"time"

	"chatbuff.app/backend/internal/model"
)

// fallbackTopics is the built-in topic set returned when the provider is
// unavailable. Deliberately evergreen so stale-sounding headlines don't
// surface in conversation.
var fallbackTopics = []model.NewsItem{
	{
		Title:    "AI 技术持续突破",
		Summary:  "大语言模型在多个领域展现出惊人的应用潜力，正在改变人们的工作和生活方式。",
		Source:   "科技热点",
		Category: "technology",
		Keywords: []string{"AI", "人工智能", "科技"},
	},
	{
		Title:    "经济复苏信号明显",
		Summary:  "多项经济指标显示积极变化，市场信心逐步恢复。",
		Source:   "财经快讯",
		Category: "business",
		Keywords: []string{"经济", "市场", "投资"},
	},
	{
		Title:    "健康生活方式受关注",
		Summary:  "越来越多的人开始注重工作与生活的平衡，追求身心健康。",
		Source:   "生活周刊",
		Category: "health",
		Keywords: []string{"健康", "生活", "养生"},
	},
	{
		Title:    "社交媒体影响力持续增长",
		Summary:  "短视频和社交平台正在重塑人们的信息获取和社交方式。",
		Source:   "互联网观察",
		Category: "social",
		Keywords: []string{"社交", "媒体", "互联网"},
	},
	{
		Title:    "可持续发展成为共识",
		Summary:  "环保理念深入人心，绿色消费和可持续发展成为社会热点。",
		Source:   "环球视野",
		Category: "environment",
		Keywords: []string{"环保", "可持续", "绿色"},
	},
}

// fallbackNews filters the static set by category and keyword substring
// match against title/summary/keywords. Filtering down to nothing
// returns the unfiltered set truncated to limit: callers must never get
// zero items while the static set is non-empty.
func fallbackNews(category string, keywords []string, limit int) []model.NewsItem {
	var items []model.NewsItem

	for _, topic := range fallbackTopics {
		if category != "" && topic.Category != category {
			continue
		}
		if len(keywords) > 0 && !matchesAnyKeyword(topic, keywords) {
			continue
		}
		items = append(items, stampPublished(topic))
	}

	if len(items) == 0 {
		for _, topic := range fallbackTopics {
			items = append(items, stampPublished(topic))
		}
	}

	return truncate(items, limit)
}

func matchesAnyKeyword(topic model.NewsItem, keywords []string) bool {
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		if strings.Contains(strings.ToLower(topic.Title), lower) ||
			strings.Contains(strings.ToLower(topic.Summary), lower) {
			return true
		}
		for _, tk := range topic.Keywords {
			if tk == kw {
				return true
			}
		}
	}
	return false
}

func stampPublished(topic model.NewsItem) model.NewsItem {
	topic.PublishedAt = time.Now().Format(time.RFC3339)
	return topic
}
