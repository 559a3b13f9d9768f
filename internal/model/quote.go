package model

// Quote is one record in the quote corpus backing retrieval.
type Quote struct {
	Quote    string `json:"quote"`
	Source   string `json:"source"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Context  string `json:"context"`
	Author   string `json:"author"`
}
