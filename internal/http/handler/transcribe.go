package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbuff.app/backend/internal/http/dto"
	"chatbuff.app/backend/internal/model"
)

// AudioTranscriber decodes base64 PCM and returns an attributed
// transcript segment. Satisfied by speech.Transcriber.
type AudioTranscriber interface {
	TranscribeBase64(ctx context.Context, encoded string, sampleRate int) (*model.TranscriptSegment, error)
}

type TranscribeHandler struct {
	transcriber AudioTranscriber
}

func NewTranscribeHandler(transcriber AudioTranscriber) *TranscribeHandler {
	return &TranscribeHandler{transcriber: transcriber}
}

// Transcribe serves POST /api/transcribe. Audio too short to carry
// speech yields an empty zero-confidence result, not an error.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seg, err := h.transcriber.TranscribeBase64(ctx, req.AudioData, req.SampleRate)
	if err != nil {
		slog.ErrorContext(ctx, "transcription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to transcribe audio"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTranscriptResponse(*seg))
}
