package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"chatbuff.app/backend/internal/model"
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Store is the Typesense-backed quote index. It implements Searcher and
// owns collection lifecycle for the corpus bootstrap.
type Store struct {
	client     *typesense.Client
	collection string
}

type quoteDocument struct {
	ID       string `json:"id"`
	Quote    string `json:"quote"`
	Source   string `json:"source"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Context  string `json:"context"`
	Author   string `json:"author"`
}

func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("typesense URL is required")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "quotes"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(timeout),
	)

	return &Store{client: client, collection: collection}, nil
}

// Search returns up to k quotes ranked by relevance to the query.
// The query matches against the quote text, its usage context, and its
// category. An unreachable or empty index yields ErrUnavailable.
func (s *Store) Search(ctx context.Context, query string, k int) ([]model.Quote, error) {
	if k <= 0 {
		k = 3
	}

	result, err := s.client.Collection(s.collection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("quote,context,category"),
		PerPage: pointer.Int(k),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	if result.Hits == nil || len(*result.Hits) == 0 {
		return nil, fmt.Errorf("%w: no documents matched", ErrUnavailable)
	}

	quotes := make([]model.Quote, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		quotes = append(quotes, model.Quote{
			Quote:    stringField(doc, "quote"),
			Source:   stringField(doc, "source"),
			Type:     stringField(doc, "type"),
			Category: stringField(doc, "category"),
			Context:  stringField(doc, "context"),
			Author:   stringField(doc, "author"),
		})
	}

	slog.DebugContext(ctx, "quote search completed",
		"collection", s.collection,
		"hits", len(quotes))

	return quotes, nil
}

// EnsureCollection creates the quote collection if it does not exist.
func (s *Store) EnsureCollection(ctx context.Context) error {
	schema := &api.CollectionSchema{
		Name: s.collection,
		Fields: []api.Field{
			{Name: "quote", Type: "string"},
			{Name: "source", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "context", Type: "string"},
			{Name: "author", Type: "string"},
		},
	}

	if _, err := s.client.Collections().Create(ctx, schema); err != nil {
		// Already-exists is fine; the bootstrap decides whether to drop first.
		slog.DebugContext(ctx, "create collection result", "collection", s.collection, "err", err)
	}
	return nil
}

// UpsertQuotes loads records into the index with stable ids.
func (s *Store) UpsertQuotes(ctx context.Context, quotes []model.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(quotes))
	for i, q := range quotes {
		docs = append(docs, quoteDocument{
			ID:       fmt.Sprintf("quote_%d", i),
			Quote:    q.Quote,
			Source:   q.Source,
			Type:     q.Type,
			Category: q.Category,
			Context:  q.Context,
			Author:   q.Author,
		})
	}

	action := api.Upsert
	if _, err := s.client.Collection(s.collection).Documents().Import(ctx, docs, &api.ImportDocumentsParams{
		Action:    &action,
		BatchSize: pointer.Int(100),
	}); err != nil {
		return fmt.Errorf("import quotes: %w", err)
	}
	return nil
}

// Count reports the number of documents in the quote collection.
// Returns 0 when the collection does not exist.
func (s *Store) Count(ctx context.Context) (int64, error) {
	coll, err := s.client.Collection(s.collection).Retrieve(ctx)
	if err != nil {
		return 0, nil
	}
	if coll.NumDocuments == nil {
		return 0, nil
	}
	return *coll.NumDocuments, nil
}

// Drop removes the collection and everything in it.
func (s *Store) Drop(ctx context.Context) error {
	if _, err := s.client.Collection(s.collection).Delete(ctx); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
