package enrichment_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/enrichment"
	"chatbuff.app/backend/internal/model"
)

// mockProvider implements enrichment.Provider for testing.
type mockProvider struct {
	fetchFn   func(ctx context.Context, category string, keywords []string) ([]model.NewsItem, error)
	callCount int
}

func (m *mockProvider) Fetch(ctx context.Context, category string, keywords []string) ([]model.NewsItem, error) {
	m.callCount++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, category, keywords)
	}
	return nil, errors.New("mock not configured")
}

var _ = Describe("Service", func() {
	var (
		provider *mockProvider
		cache    *enrichment.MemoryCache
		svc      *enrichment.Service
		ctx      context.Context
	)

	providedItems := []model.NewsItem{
		{Title: "headline one", Source: "wire"},
		{Title: "headline two", Source: "wire"},
	}

	BeforeEach(func() {
		ctx = context.Background()
		provider = &mockProvider{}
		cache = enrichment.NewMemoryCache(30 * time.Minute)
		svc = enrichment.NewService(provider, cache)
	})

	Describe("caching", func() {
		It("calls the provider at most once for identical filters within the TTL", func() {
			provider.fetchFn = func(context.Context, string, []string) ([]model.NewsItem, error) {
				return providedItems, nil
			}

			first := svc.Fetch(ctx, enrichment.Filters{Category: "technology", Keywords: []string{"AI"}, Limit: 5})
			second := svc.Fetch(ctx, enrichment.Filters{Category: "technology", Keywords: []string{"AI"}, Limit: 5})

			Expect(provider.callCount).To(Equal(1))
			Expect(first).To(Equal(second))
		})

		It("normalizes keyword order into the same cache key", func() {
			provider.fetchFn = func(context.Context, string, []string) ([]model.NewsItem, error) {
				return providedItems, nil
			}

			svc.Fetch(ctx, enrichment.Filters{Keywords: []string{"经济", "AI"}})
			svc.Fetch(ctx, enrichment.Filters{Keywords: []string{"AI", "经济"}})

			Expect(provider.callCount).To(Equal(1))
		})

		It("refetches after TTL expiry", func() {
			provider.fetchFn = func(context.Context, string, []string) ([]model.NewsItem, error) {
				return providedItems, nil
			}

			base := time.Now()
			cache.SetClock(func() time.Time { return base })
			svc.Fetch(ctx, enrichment.Filters{Category: "technology"})

			cache.SetClock(func() time.Time { return base.Add(31 * time.Minute) })
			svc.Fetch(ctx, enrichment.Filters{Category: "technology"})

			Expect(provider.callCount).To(Equal(2))
		})
	})

	Describe("fallback", func() {
		It("returns static topics when the provider fails", func() {
			provider.fetchFn = func(context.Context, string, []string) ([]model.NewsItem, error) {
				return nil, enrichment.ErrProviderUnavailable
			}

			items := svc.Fetch(ctx, enrichment.Filters{Limit: 5})
			Expect(items).NotTo(BeEmpty())
		})

		It("returns static topics when no provider is configured", func() {
			svc = enrichment.NewService(nil, cache)
			items := svc.Fetch(ctx, enrichment.Filters{Limit: 3})
			Expect(items).To(HaveLen(3))
		})

		It("never returns zero items under arbitrary filters", func() {
			svc = enrichment.NewService(nil, cache)
			items := svc.Fetch(ctx, enrichment.Filters{
				Category: "no-such-category",
				Keywords: []string{"完全不存在的词"},
				Limit:    4,
			})
			Expect(items).NotTo(BeEmpty())
		})

		It("filters static topics by category when possible", func() {
			svc = enrichment.NewService(nil, cache)
			items := svc.Fetch(ctx, enrichment.Filters{Category: "technology", Limit: 5})
			for _, item := range items {
				Expect(item.Category).To(Equal("technology"))
			}
		})

		It("filters static topics by keyword when possible", func() {
			svc = enrichment.NewService(nil, cache)
			items := svc.Fetch(ctx, enrichment.Filters{Keywords: []string{"健康"}, Limit: 5})
			Expect(items).To(HaveLen(1))
			Expect(items[0].Category).To(Equal("health"))
		})
	})

	Describe("Relevant", func() {
		It("derives keywords from conversation text", func() {
			svc = enrichment.NewService(nil, cache)
			items := svc.Relevant(ctx, "我最近在研究人工智能和投资", 3)
			Expect(items).NotTo(BeEmpty())
		})
	})
})

var _ = Describe("ExtractKeywords", func() {
	It("returns the first three vocabulary matches in vocabulary order", func() {
		kws := enrichment.ExtractKeywords("聊聊职场、健康还有投资，顺便说说环保")
		Expect(kws).To(Equal([]string{"投资", "健康", "环保"}))
	})

	It("matches case-insensitively", func() {
		Expect(enrichment.ExtractKeywords("we talked about ai stuff")).To(ContainElement("AI"))
	})

	It("returns nil when nothing matches", func() {
		Expect(enrichment.ExtractKeywords("毫无关联的内容")).To(BeNil())
	})
})
