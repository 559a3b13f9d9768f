package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatbuff.app/backend/internal/model"
)

// Provider is the external news source. Fetch carries a bounded timeout;
// any failure is treated as ErrProviderUnavailable by the service.
type Provider interface {
	Fetch(ctx context.Context, category string, keywords []string) ([]model.NewsItem, error)
}

type NewsAPIConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// NewsAPIProvider pulls top headlines from newsapi.org.
type NewsAPIProvider struct {
	cfg    NewsAPIConfig
	client *http.Client
}

func NewNewsAPIProvider(cfg NewsAPIConfig) *NewsAPIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2/top-headlines"
	}
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NewsAPIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (p *NewsAPIProvider) Fetch(ctx context.Context, category string, keywords []string) ([]model.NewsItem, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrProviderUnavailable)
	}

	params := url.Values{}
	params.Set("apiKey", p.cfg.APIKey)
	params.Set("language", p.cfg.Language)
	params.Set("pageSize", "10")
	if category != "" {
		params.Set("category", category)
	}
	if len(keywords) > 0 {
		params.Set("q", strings.Join(keywords, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
	}

	items := make([]model.NewsItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		items = append(items, model.NewsItem{
			Title:       a.Title,
			Summary:     a.Description,
			Source:      source,
			URL:         a.URL,
			Category:    "general",
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}
