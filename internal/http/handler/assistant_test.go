package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/http/handler"
	"chatbuff.app/backend/internal/model"
)

var _ = Describe("AssistantHandler", func() {
	var (
		router    *gin.Engine
		processor *mockProcessor
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		processor = &mockProcessor{}
		router = gin.New()
		h := handler.NewAssistantHandler(processor)
		router.POST("/process", h.Process)
		router.GET("/history", h.History)
		router.POST("/reset", h.Reset)
	})

	It("returns the batch projection for processed text", func() {
		processor.processFn = func(_ context.Context, text string, speaker model.Speaker) (*model.SuggestionBatch, error) {
			Expect(speaker).To(Equal(model.SpeakerOther))
			return &model.SuggestionBatch{
				Transcript: &model.TranscriptSegment{Text: text, Speaker: speaker, Confidence: 1.0, Timestamp: time.Now()},
				Suggestions: []model.Suggestion{
					{Kind: model.SuggestionInsight, Content: "深度的回应。", Source: "AI 建议", Confidence: 0.8},
				},
				ContextSummary: "对方: " + text,
				Topics:         []string{text},
			}, nil
		}

		body, _ := json.Marshal(map[string]string{
			"text":    "我今天压力很大，工作太累了",
			"speaker": "other",
		})
		req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["suggestions"]).To(HaveLen(1))
		Expect(resp["context_summary"]).To(ContainSubstring("压力"))
	})

	It("rejects an unknown speaker value", func() {
		body, _ := json.Marshal(map[string]string{"text": "你好呀", "speaker": "narrator"})
		req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("projects the conversation history", func() {
		now := time.Now()
		processor.historyFn = func() []model.TranscriptSegment {
			return []model.TranscriptSegment{
				{Text: "你好", Speaker: model.SpeakerSelf, Confidence: 1.0, Timestamp: now},
				{Text: "你好，最近怎么样", Speaker: model.SpeakerOther, Confidence: 0.9, Timestamp: now},
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["count"]).To(BeEquivalentTo(2))
		Expect(resp["history"]).To(HaveLen(2))
	})

	It("resets the pipeline", func() {
		req := httptest.NewRequest(http.MethodPost, "/reset", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(processor.resets).To(Equal(1))
	})
})
