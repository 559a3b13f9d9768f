// Package handler contains the gin handlers for the HTTP surface. Each
// handler depends on narrow capability interfaces so tests can swap in
// function-field mocks.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/generation"
	"chatbuff.app/backend/internal/http/dto"
	"chatbuff.app/backend/internal/model"
	"chatbuff.app/backend/internal/retrieval"
)

const relatedQuoteCount = 3

type SuggestionGenerator interface {
	GenerateBranches(ctx context.Context, parentContent string) ([]string, error)
	GenerateWithQuotes(ctx context.Context, userText string, quotes []model.Quote) ([]string, error)
}

type SuggestionHandler struct {
	searcher  retrieval.Searcher
	generator SuggestionGenerator
}

func NewSuggestionHandler(searcher retrieval.Searcher, generator SuggestionGenerator) *SuggestionHandler {
	return &SuggestionHandler{searcher: searcher, generator: generator}
}

// Generate serves POST /api/suggestion. An empty retrieval result means
// the quote corpus was never loaded, reported as a server error rather
// than an empty answer.
func (h *SuggestionHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quotes, err := h.searcher.Search(ctx, req.Text, relatedQuoteCount)
	if err != nil {
		slog.ErrorContext(ctx, "quote retrieval failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge base not initialized"})
		return
	}
	if len(quotes) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge base not initialized"})
		return
	}

	var suggestions []string
	if req.ParentContent != "" {
		suggestions, err = h.generator.GenerateBranches(ctx, req.ParentContent)
	} else {
		userText := req.Text
		if req.Context != "" {
			userText = "对话背景：" + req.Context + "\n" + req.Text
		}
		suggestions, err = h.generator.GenerateWithQuotes(ctx, userText, quotes)
	}
	if err != nil {
		slog.WarnContext(ctx, "suggestion generation failed, using fallback", "error", err)
		suggestions = []string{generation.FallbackContent}
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, dto.SuggestionResponse{
		OriginalText:  req.Text,
		Suggestions:   suggestions,
		RelatedQuotes: dto.ToQuoteResponses(quotes),
	})
}

// ListQuotes serves GET /api/quotes with a sample of the loaded corpus.
func (h *SuggestionHandler) ListQuotes(c *gin.Context) {
	ctx := c.Request.Context()

	quotes, err := h.searcher.Search(ctx, "*", 20)
	if err != nil {
		slog.ErrorContext(ctx, "quote listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "knowledge base not initialized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": dto.ToQuoteResponses(quotes),
		"count":  len(quotes),
	})
}
