package dto

import (
	"chatbuff.app/backend/internal/model"
)

type SuggestionRequest struct {
	Text          string `json:"text" binding:"required,min=1,max=2000"`
	Context       string `json:"context,omitempty" binding:"omitempty,max=5000"`
	ParentContent string `json:"parent_content,omitempty" binding:"omitempty,max=2000"`
}

type SuggestionResponse struct {
	OriginalText  string          `json:"original_text"`
	Suggestions   []string        `json:"suggestions"`
	RelatedQuotes []QuoteResponse `json:"related_quotes"`
}

type QuoteResponse struct {
	Quote    string `json:"quote"`
	Source   string `json:"source"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Context  string `json:"context,omitempty"`
	Author   string `json:"author"`
}

func ToQuoteResponse(q model.Quote) QuoteResponse {
	return QuoteResponse{
		Quote:    q.Quote,
		Source:   q.Source,
		Type:     q.Type,
		Category: q.Category,
		Context:  q.Context,
		Author:   q.Author,
	}
}

func ToQuoteResponses(quotes []model.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, ToQuoteResponse(q))
	}
	return out
}
