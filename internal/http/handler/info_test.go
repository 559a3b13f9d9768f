package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/http/handler"
)

var _ = Describe("InfoHandler", func() {
	var (
		router   *gin.Engine
		searcher *mockSearcher
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		searcher = &mockSearcher{}
		router = gin.New()
		h := handler.NewInfoHandler("ChatBuff", "1.0.0", "deepseek-chat", searcher)
		router.GET("/", h.Info)
	})

	It("reports the service overview", func() {
		searcher.countFn = func(_ context.Context) (int64, error) { return 42, nil }

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["service"]).To(Equal("ChatBuff"))
		Expect(resp["status"]).To(Equal("running"))
		Expect(resp["model"]).To(Equal("deepseek-chat"))
		Expect(resp["quote_count"]).To(BeEquivalentTo(42))
	})

	It("reports zero quotes when retrieval is unreachable", func() {
		searcher.countFn = func(_ context.Context) (int64, error) { return 0, errors.New("connection refused") }

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["quote_count"]).To(BeEquivalentTo(0))
	})
})
