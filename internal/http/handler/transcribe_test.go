package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/http/handler"
	"chatbuff.app/backend/internal/model"
)

var _ = Describe("TranscribeHandler", func() {
	var (
		router      *gin.Engine
		transcriber *mockTranscriber
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		transcriber = &mockTranscriber{}
		router = gin.New()
		h := handler.NewTranscribeHandler(transcriber)
		router.POST("/transcribe", h.Transcribe)
	})

	post := func(body map[string]any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/transcribe", bytes.NewBuffer(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns the attributed transcript", func() {
		transcriber.transcribeFn = func(_ context.Context, encoded string, sampleRate int) (*model.TranscriptSegment, error) {
			Expect(sampleRate).To(Equal(16000))
			return &model.TranscriptSegment{
				Text:       "今天天气怎么样",
				Speaker:    model.SpeakerOther,
				Confidence: 0.85,
				Timestamp:  time.Now(),
			}, nil
		}

		w := post(map[string]any{"audio_data": "AAAA", "sample_rate": 16000})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["text"]).To(Equal("今天天气怎么样"))
		Expect(resp["speaker"]).To(Equal("other"))
	})

	It("returns an empty result for audio too short to transcribe", func() {
		transcriber.transcribeFn = func(_ context.Context, _ string, _ int) (*model.TranscriptSegment, error) {
			return &model.TranscriptSegment{Text: "", Confidence: 0, Timestamp: time.Now()}, nil
		}

		w := post(map[string]any{"audio_data": "AAAA"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["text"]).To(Equal(""))
		Expect(resp["confidence"]).To(BeEquivalentTo(0))
	})

	It("returns 500 when transcription fails", func() {
		transcriber.transcribeFn = func(_ context.Context, _ string, _ int) (*model.TranscriptSegment, error) {
			return nil, errors.New("engine crashed")
		}

		w := post(map[string]any{"audio_data": "not-base64"})
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("returns 400 without audio_data", func() {
		w := post(map[string]any{"sample_rate": 16000})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
