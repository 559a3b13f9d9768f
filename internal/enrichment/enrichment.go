// Package enrichment serves auxiliary contextual content (news-like
// items) for suggestion batches, with a TTL cache in front of the
// external provider and a static fallback behind it.
package enrichment

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"chatbuff.app/backend/internal/model"
)

// ErrProviderUnavailable indicates the external news source failed or is
// not configured. Callers never see it: Fetch degrades to the static set.
var ErrProviderUnavailable = errors.New("news provider unavailable")

// Filters narrows a news fetch. The zero value means "general headlines".
type Filters struct {
	Category string
	Keywords []string
	Limit    int
}

// Service is the enrichment capability: cache in front, provider behind,
// static topics as the floor. Callers never receive zero items while the
// static set is non-empty.
type Service struct {
	provider Provider
	cache    Cache
}

func NewService(provider Provider, cache Cache) *Service {
	if cache == nil {
		cache = NewMemoryCache(DefaultTTL)
	}
	return &Service{provider: provider, cache: cache}
}

// Fetch returns news items for the filters, consulting the cache first.
// Provider failure or absence falls back to the static topic set.
func (s *Service) Fetch(ctx context.Context, f Filters) []model.NewsItem {
	limit := f.Limit
	if limit <= 0 {
		limit = 5
	}

	key := cacheKey(f.Category, f.Keywords)
	if items, ok := s.cache.Get(ctx, key); ok {
		return truncate(items, limit)
	}

	if s.provider != nil {
		items, err := s.provider.Fetch(ctx, f.Category, f.Keywords)
		if err == nil && len(items) > 0 {
			s.cache.Set(ctx, key, items)
			return truncate(items, limit)
		}
		if err != nil {
			slog.WarnContext(ctx, "news provider failed, using fallback topics", "error", err)
		}
	}

	return fallbackNews(f.Category, f.Keywords, limit)
}

// Relevant returns news matched to conversation text via the fixed
// keyword vocabulary. No keywords found means general headlines.
func (s *Service) Relevant(ctx context.Context, conversationText string, limit int) []model.NewsItem {
	keywords := ExtractKeywords(conversationText)
	return s.Fetch(ctx, Filters{Keywords: keywords, Limit: limit})
}

// cacheKey derives a deterministic key from normalized filters.
func cacheKey(category string, keywords []string) string {
	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Strings(sorted)

	raw := fmt.Sprintf("%s:%s", strings.ToLower(category), strings.ToLower(strings.Join(sorted, ",")))
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func truncate(items []model.NewsItem, limit int) []model.NewsItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
