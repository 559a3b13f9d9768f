package dto

import "chatbuff.app/backend/internal/model"

type NewsRequest struct {
	Category string   `json:"category,omitempty" binding:"omitempty,max=50"`
	Keywords []string `json:"keywords,omitempty" binding:"omitempty,max=10,dive,max=50"`
	Limit    int      `json:"limit,omitempty" binding:"omitempty,min=1,max=20"`
}

type NewsResponse struct {
	News  []model.NewsItem `json:"news"`
	Count int              `json:"count"`
}

func ToNewsResponse(items []model.NewsItem) NewsResponse {
	if items == nil {
		items = []model.NewsItem{}
	}
	return NewsResponse{News: items, Count: len(items)}
}

type WSStatusResponse struct {
	ActiveConnections int      `json:"active_connections"`
	ClientIDs         []string `json:"client_ids"`
}

type InfoResponse struct {
	Service    string `json:"service"`
	Version    string `json:"version"`
	Status     string `json:"status"`
	Model      string `json:"model"`
	QuoteCount int64  `json:"quote_count"`
}
