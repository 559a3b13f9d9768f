package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/generation"
	"chatbuff.app/backend/internal/http/handler"
	"chatbuff.app/backend/internal/model"
)

var _ = Describe("SuggestionHandler", func() {
	var (
		router    *gin.Engine
		searcher  *mockSearcher
		generator *mockGenerator
	)

	sampleQuotes := []model.Quote{{
		Quote:    "生活就像海洋，只有意志坚强的人，才能到达彼岸。",
		Source:   "马克思语录",
		Type:     "quote",
		Category: "励志",
		Author:   "马克思",
	}}

	post := func(body map[string]any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/suggestion", bytes.NewBuffer(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		searcher = &mockSearcher{}
		generator = &mockGenerator{}
		router = gin.New()
		h := handler.NewSuggestionHandler(searcher, generator)
		router.POST("/api/suggestion", h.Generate)
		router.GET("/api/quotes", h.ListQuotes)
	})

	It("returns suggestions with related quotes", func() {
		searcher.searchFn = func(_ context.Context, query string, k int) ([]model.Quote, error) {
			Expect(query).To(Equal("我最近遇到了很多困难"))
			return sampleQuotes, nil
		}
		generator.withQuotesFn = func(_ context.Context, userText string, quotes []model.Quote) ([]string, error) {
			Expect(quotes).To(HaveLen(1))
			return []string{"困难只是暂时的。", "试着一步一步来。", "你想先解决哪一件？"}, nil
		}

		w := post(map[string]any{"text": "我最近遇到了很多困难"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["original_text"]).To(Equal("我最近遇到了很多困难"))
		Expect(resp["suggestions"]).To(HaveLen(3))
		Expect(resp["related_quotes"]).To(HaveLen(1))
	})

	It("returns 500 when the knowledge base is empty", func() {
		searcher.searchFn = func(_ context.Context, _ string, _ int) ([]model.Quote, error) {
			return []model.Quote{}, nil
		}

		w := post(map[string]any{"text": "我最近遇到了很多困难"})

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]).To(Equal("knowledge base not initialized"))
	})

	It("returns 500 when retrieval is unreachable", func() {
		searcher.searchFn = func(_ context.Context, _ string, _ int) ([]model.Quote, error) {
			return nil, errors.New("connection refused")
		}

		w := post(map[string]any{"text": "我最近遇到了很多困难"})
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})

	It("uses branching mode when parent_content is present", func() {
		searcher.searchFn = func(_ context.Context, _ string, _ int) ([]model.Quote, error) {
			return sampleQuotes, nil
		}
		branched := false
		generator.branchesFn = func(_ context.Context, parentContent string) ([]string, error) {
			branched = true
			Expect(parentContent).To(Equal("也许我应该换个角度看问题"))
			return []string{"换个角度，比如。", "或者先放一放。", "先问问自己想要什么。"}, nil
		}

		w := post(map[string]any{
			"text":           "我最近遇到了很多困难",
			"parent_content": "也许我应该换个角度看问题",
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(branched).To(BeTrue())
	})

	It("falls back to the default reply when generation fails", func() {
		searcher.searchFn = func(_ context.Context, _ string, _ int) ([]model.Quote, error) {
			return sampleQuotes, nil
		}
		generator.withQuotesFn = func(_ context.Context, _ string, _ []model.Quote) ([]string, error) {
			return nil, errors.New("upstream timeout")
		}

		w := post(map[string]any{"text": "我最近遇到了很多困难"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["suggestions"]).To(Equal([]any{generation.FallbackContent}))
	})

	It("returns 400 on a missing text field", func() {
		w := post(map[string]any{"context": "闲聊"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists a sample of the corpus", func() {
		searcher.searchFn = func(_ context.Context, query string, k int) ([]model.Quote, error) {
			Expect(query).To(Equal("*"))
			return sampleQuotes, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["count"]).To(BeEquivalentTo(1))
	})
})
