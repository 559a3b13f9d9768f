// Package generation builds prompts for the completion backend and
// parses its free-text output into typed suggestions.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chatbuff.app/backend/common/llm"
	"chatbuff.app/backend/internal/model"
)

// ErrUnavailable indicates the completion backend failed or timed out.
var ErrUnavailable = errors.New("generation unavailable")

// FallbackContent is the deterministic substitute reply used when the
// backend fails or returns nothing parseable.
const FallbackContent = "我理解你的想法，能说得更具体吗？"

// Generator drives the two prompt modes against one completion client.
type Generator struct {
	client llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// complete calls the backend, retrying once on transient failures
// (rate limits, 5xx, network). Interactive latency budgets leave no
// room for a longer retry loop.
func (g *Generator) complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	resp, err := g.client.Complete(ctx, req)
	if err != nil && llm.IsRetryable(ctx, err) {
		slog.DebugContext(ctx, "retrying llm completion", "error", err)
		resp, err = g.client.Complete(ctx, req)
	}
	return resp, err
}

// GenerateReplies runs direct-reply mode: given the recent context and
// the other party's last utterance, ask for three tagged candidates and
// parse them. Returns ErrUnavailable when the backend call fails.
func (g *Generator) GenerateReplies(ctx context.Context, recentContext, lastUtterance string) ([]model.Suggestion, error) {
	resp, err := g.complete(ctx, llm.Request{
		SystemPrompt: replySystemPrompt,
		UserPrompt:   buildReplyPrompt(recentContext, lastUtterance),
		Temperature:  llm.Temp(0.8),
		MaxTokens:    300,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	suggestions := ParseSuggestions(resp.Text)
	slog.DebugContext(ctx, "reply generation completed",
		"raw_lines", strings.Count(resp.Text, "\n")+1,
		"parsed", len(suggestions))

	return suggestions, nil
}

// GenerateBranches runs branching/ideation mode: given a parent thought,
// ask for three divergent continuations, one per line.
func (g *Generator) GenerateBranches(ctx context.Context, parentContent string) ([]string, error) {
	resp, err := g.complete(ctx, llm.Request{
		SystemPrompt: replySystemPrompt,
		UserPrompt:   buildBranchPrompt(parentContent),
		Temperature:  llm.Temp(0.9),
		MaxTokens:    300,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return splitLines(resp.Text, 3), nil
}

// GenerateWithQuotes produces up to three plain reply lines informed by
// the retrieved quotes. Used by the synchronous suggestion endpoint.
func (g *Generator) GenerateWithQuotes(ctx context.Context, userText string, quotes []model.Quote) ([]string, error) {
	resp, err := g.complete(ctx, llm.Request{
		SystemPrompt: quoteSystemPrompt,
		UserPrompt:   buildQuotePrompt(userText, quotes),
		Temperature:  llm.Temp(0.8),
		MaxTokens:    500,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return splitLines(resp.Text, 3), nil
}

// Fallback returns the deterministic EMPATHY suggestion substituted when
// generation yields nothing.
func Fallback() model.Suggestion {
	return model.Suggestion{
		Kind:       model.SuggestionEmpathy,
		Content:    FallbackContent,
		Source:     "default",
		Confidence: 0.5,
		CreatedAt:  time.Now(),
	}
}

func splitLines(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}
