package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/dto"
	"chatbuff.app/backend/internal/model"
)

// AssistantProcessor is the pipeline surface the synchronous endpoints
// need. Satisfied by assistant.Orchestrator.
type AssistantProcessor interface {
	ProcessText(ctx context.Context, text string, speaker model.Speaker) (*model.SuggestionBatch, error)
	History() []model.TranscriptSegment
	Reset()
}

type AssistantHandler struct {
	processor AssistantProcessor
}

func NewAssistantHandler(processor AssistantProcessor) *AssistantHandler {
	return &AssistantHandler{processor: processor}
}

// Process serves POST /api/assistant/process.
func (h *AssistantHandler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	speaker := model.SpeakerSelf
	if req.Speaker == string(model.SpeakerOther) {
		speaker = model.SpeakerOther
	}

	batch, err := h.processor.ProcessText(ctx, req.Text, speaker)
	if err != nil {
		slog.ErrorContext(ctx, "text processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process text"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchResponse(batch))
}

// History serves GET /api/assistant/history.
func (h *AssistantHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToHistoryResponse(h.processor.History()))
}

// Reset serves POST /api/assistant/reset.
func (h *AssistantHandler) Reset(c *gin.Context) {
	h.processor.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "会话已重置"})
}
