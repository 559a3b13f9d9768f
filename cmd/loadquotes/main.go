// Command loadquotes bootstraps the quote corpus: it reads a JSON array
// of quote records and indexes them into the retrieval backend.
// Re-running against a non-empty collection asks before overwriting.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"chatbuff.app/backend/common/logger"
	"chatbuff.app/backend/core/config"
	"chatbuff.app/backend/internal/model"
	"chatbuff.app/backend/internal/retrieval"
)

func main() {
	var (
		file = flag.String("file", "data/quotes.json", "path to the quote corpus JSON file")
		yes  = flag.Bool("yes", false, "overwrite an existing collection without asking")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	if err := run(ctx, cfg, *file, *yes); err != nil {
		slog.ErrorContext(ctx, "load failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, file string, yes bool) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	var quotes []model.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		return fmt.Errorf("parse corpus: %w", err)
	}
	if len(quotes) == 0 {
		return fmt.Errorf("corpus %s holds no quotes", file)
	}

	store, err := retrieval.NewStore(retrieval.Config{
		URL:        cfg.Typesense.URL,
		APIKey:     cfg.Typesense.APIKey,
		Collection: cfg.Typesense.Collection,
		Timeout:    cfg.Typesense.Timeout,
	})
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	if count, err := store.Count(ctx); err == nil && count > 0 {
		if !yes && !confirmOverwrite(count) {
			fmt.Println("aborted")
			return nil
		}
		if err := store.Drop(ctx); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
	}

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	if err := store.UpsertQuotes(ctx, quotes); err != nil {
		return fmt.Errorf("index quotes: %w", err)
	}

	slog.InfoContext(ctx, "quote corpus loaded",
		"file", file,
		"quotes", len(quotes),
		"collection", cfg.Typesense.Collection)
	fmt.Printf("loaded %d quotes into %q\n", len(quotes), cfg.Typesense.Collection)
	return nil
}

func confirmOverwrite(count int64) bool {
	fmt.Printf("collection already holds %d quotes; overwrite? [y/N] ", count)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
