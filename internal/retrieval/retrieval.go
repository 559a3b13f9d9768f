// Package retrieval exposes the quote corpus as a nearest-match search
// capability backed by Typesense.
package retrieval

import (
	"context"
	"errors"

	"chatbuff.app/backend/internal/model"
)

// ErrUnavailable indicates the backing index is unreachable or empty.
// Callers treat this as a soft failure: log and omit the quote
// suggestion, never abort the whole orchestration.
var ErrUnavailable = errors.New("retrieval unavailable")

// Searcher looks up the quotes most relevant to a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]model.Quote, error)
}
