package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/dto"
)

// QuoteCounter reports how many quotes the retrieval backend holds.
type QuoteCounter interface {
	Count(ctx context.Context) (int64, error)
}

type InfoHandler struct {
	service   string
	version   string
	modelName string
	counter   QuoteCounter
}

func NewInfoHandler(service, version, modelName string, counter QuoteCounter) *InfoHandler {
	return &InfoHandler{
		service:   service,
		version:   version,
		modelName: modelName,
		counter:   counter,
	}
}

// Info serves GET / with a service overview. An unreachable retrieval
// backend reports a zero quote count instead of failing the endpoint.
func (h *InfoHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	var count int64
	if h.counter != nil {
		n, err := h.counter.Count(ctx)
		if err != nil {
			slog.WarnContext(ctx, "quote count unavailable", "error", err)
		} else {
			count = n
		}
	}

	c.JSON(http.StatusOK, dto.InfoResponse{
		Service:    h.service,
		Version:    h.version,
		Status:     "running",
		Model:      h.modelName,
		QuoteCount: count,
	})
}
