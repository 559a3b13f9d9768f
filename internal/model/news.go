package model

// NewsItem is an auxiliary contextual content item (news-like) attached
// to a suggestion batch.
type NewsItem struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	Category    string   `json:"category"`
	PublishedAt string   `json:"published_at"`
	Keywords    []string `json:"keywords"`
}
