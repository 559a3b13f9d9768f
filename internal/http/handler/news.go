package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/enrichment"
	"chatbuff.app/backend/internal/http/dto"
	"chatbuff.app/backend/internal/model"
)

const defaultNewsLimit = 5

// NewsFetcher is the enrichment surface the news endpoints need.
// Satisfied by enrichment.Service.
type NewsFetcher interface {
	Fetch(ctx context.Context, f enrichment.Filters) []model.NewsItem
	Relevant(ctx context.Context, conversationText string, limit int) []model.NewsItem
}

type NewsHandler struct {
	news NewsFetcher
}

func NewNewsHandler(news NewsFetcher) *NewsHandler {
	return &NewsHandler{news: news}
}

// Fetch serves POST /api/news.
func (h *NewsHandler) Fetch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultNewsLimit
	}

	items := h.news.Fetch(ctx, enrichment.Filters{
		Category: req.Category,
		Keywords: req.Keywords,
		Limit:    req.Limit,
	})
	c.JSON(http.StatusOK, dto.ToNewsResponse(items))
}

// Relevant serves GET /api/news/relevant.
func (h *NewsHandler) Relevant(c *gin.Context) {
	ctx := c.Request.Context()

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	limit := defaultNewsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 20"})
			return
		}
		limit = parsed
	}

	items := h.news.Relevant(ctx, query, limit)
	c.JSON(http.StatusOK, dto.ToNewsResponse(items))
}
