// Package assistant coordinates one conversation pipeline: it fans an
// utterance out to retrieval, generation, and enrichment, tolerates
// partial failure, and folds the results into a suggestion batch.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"chatbuff.app/backend/common/id"
	"chatbuff.app/backend/common/logger"
	"chatbuff.app/backend/internal/conversation"
	"chatbuff.app/backend/internal/generation"
	"chatbuff.app/backend/internal/model"
	"chatbuff.app/backend/internal/retrieval"
	"chatbuff.app/backend/internal/speech"
)

const (
	// DefaultMinTextLength is the shortest utterance (in runes) that
	// triggers suggestion generation. Tunable, not business law.
	DefaultMinTextLength = 10

	// recentWindow is how many segments feed the context summary and
	// the prompts.
	recentWindow = 5

	// News caps differ per path: the voice path shows fewer items
	// because screen space is taken by the live transcript.
	voiceNewsLimit = 2
	textNewsLimit  = 3
)

// ReplyGenerator is the generation capability the orchestrator needs.
type ReplyGenerator interface {
	GenerateReplies(ctx context.Context, recentContext, lastUtterance string) ([]model.Suggestion, error)
}

// NewsSource is the enrichment capability the orchestrator needs. It
// never fails; degraded backends fall back internally.
type NewsSource interface {
	Relevant(ctx context.Context, conversationText string, limit int) []model.NewsItem
}

// TranscriptCallback and SuggestionCallback are fired asynchronously
// when new content is available. Failures are logged, never propagated.
type (
	TranscriptCallback func(seg model.TranscriptSegment)
	SuggestionCallback func(suggestions []model.Suggestion)
)

type Config struct {
	MinTextLength int
}

// Orchestrator owns one conversation context plus the capability
// handles, injected at construction so each can be replaced by a test
// double.
type Orchestrator struct {
	cfg         Config
	convo       *conversation.Context
	transcriber *speech.Transcriber
	searcher    retrieval.Searcher
	generator   ReplyGenerator
	news        NewsSource

	mu            sync.Mutex
	onTranscript  TranscriptCallback
	onSuggestions SuggestionCallback
}

func NewOrchestrator(
	cfg Config,
	convo *conversation.Context,
	transcriber *speech.Transcriber,
	searcher retrieval.Searcher,
	generator ReplyGenerator,
	news NewsSource,
) *Orchestrator {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	if convo == nil {
		convo = conversation.NewContext(conversation.DefaultCapacity)
	}
	return &Orchestrator{
		cfg:         cfg,
		convo:       convo,
		transcriber: transcriber,
		searcher:    searcher,
		generator:   generator,
		news:        news,
	}
}

// SetCallbacks registers async notification hooks. Nil disables a hook.
func (o *Orchestrator) SetCallbacks(onTranscript TranscriptCallback, onSuggestions SuggestionCallback) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onTranscript = onTranscript
	o.onSuggestions = onSuggestions
}

// ProcessText handles a direct text utterance: record it in the
// conversation window, then orchestrate a suggestion batch.
func (o *Orchestrator) ProcessText(ctx context.Context, text string, speaker model.Speaker) (*model.SuggestionBatch, error) {
	seg := model.TranscriptSegment{
		Text:       text,
		Speaker:    speaker,
		EndTime:    float64(utf8.RuneCountInString(text)) * 0.1,
		Confidence: 1.0,
		Timestamp:  time.Now(),
	}
	o.convo.AddSegment(seg)

	return o.generate(ctx, &seg, textNewsLimit), nil
}

// ProcessAudio transcribes a PCM chunk, records the result, and
// orchestrates a suggestion batch. Transcription failure is a hard
// error; everything downstream degrades softly.
func (o *Orchestrator) ProcessAudio(ctx context.Context, pcm []byte, sampleRate int) (*model.SuggestionBatch, error) {
	if o.transcriber == nil {
		return nil, fmt.Errorf("no transcriber configured")
	}

	seg, err := o.transcriber.Transcribe(ctx, pcm, sampleRate)
	if err != nil {
		return nil, err
	}

	if seg.Text != "" {
		o.convo.AddSegment(*seg)
		o.notifyTranscript(ctx, *seg)
	}

	return o.generate(ctx, seg, voiceNewsLimit), nil
}

// generate runs one orchestration cycle for an already-recorded segment.
func (o *Orchestrator) generate(ctx context.Context, seg *model.TranscriptSegment, newsLimit int) *model.SuggestionBatch {
	batch := &model.SuggestionBatch{
		ID:             id.New(),
		Transcript:     seg,
		Suggestions:    []model.Suggestion{},
		ContextSummary: o.convo.RecentText(recentWindow),
		Topics:         o.convo.Topics(),
		RelatedNews:    []model.NewsItem{},
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BatchID:   logger.Ptr(batch.ID),
		Component: "chatbuff.assistant.orchestrator",
	})

	if seg == nil || utf8.RuneCountInString(seg.Text) < o.cfg.MinTextLength {
		return batch
	}

	sc := logger.StartSpan(ctx, "assistant.generate")
	defer sc.End()
	ctx = sc.Context()

	var (
		wg      sync.WaitGroup
		quote   *model.Suggestion
		replies []model.Suggestion
		news    []model.NewsItem
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		quote = o.quoteSuggestion(ctx, seg.Text)
	}()

	go func() {
		defer wg.Done()
		replies = o.replySuggestions(ctx, seg)
	}()

	go func() {
		defer wg.Done()
		news = o.news.Relevant(ctx, batch.ContextSummary, newsLimit)
	}()

	wg.Wait()

	if quote != nil {
		batch.Suggestions = append(batch.Suggestions, *quote)
	}
	batch.Suggestions = append(batch.Suggestions, replies...)
	if news != nil {
		batch.RelatedNews = news
	}

	o.notifySuggestions(ctx, batch.Suggestions)

	slog.InfoContext(ctx, "suggestion batch generated",
		"text", logger.Truncate(seg.Text, 50),
		"suggestions", len(batch.Suggestions),
		"news", len(batch.RelatedNews))

	return batch
}

// quoteSuggestion looks up the single best quote. Retrieval failure is a
// soft-fail: log and omit.
func (o *Orchestrator) quoteSuggestion(ctx context.Context, text string) *model.Suggestion {
	quotes, err := o.searcher.Search(ctx, text, 1)
	if err != nil {
		slog.WarnContext(ctx, "quote retrieval failed, omitting quote suggestion", "error", err)
		return nil
	}
	if len(quotes) == 0 {
		return nil
	}

	q := quotes[0]
	return &model.Suggestion{
		Kind:       model.SuggestionQuote,
		Content:    q.Quote,
		Source:     fmt.Sprintf("《%s》- %s", q.Source, q.Author),
		Confidence: 0.85,
		CreatedAt:  time.Now(),
	}
}

// replySuggestions asks generation for the three tagged candidates. A
// failed call or an unparseable response substitutes exactly one
// deterministic fallback suggestion.
func (o *Orchestrator) replySuggestions(ctx context.Context, seg *model.TranscriptSegment) []model.Suggestion {
	lastUtterance := o.convo.LastOtherMessage()
	if lastUtterance == "" {
		lastUtterance = seg.Text
	}

	replies, err := o.generator.GenerateReplies(ctx, o.convo.RecentText(recentWindow), lastUtterance)
	if err != nil {
		slog.WarnContext(ctx, "reply generation failed, substituting fallback", "error", err)
		return []model.Suggestion{generation.Fallback()}
	}
	if len(replies) == 0 {
		slog.WarnContext(ctx, "reply generation yielded nothing parseable, substituting fallback")
		return []model.Suggestion{generation.Fallback()}
	}
	if len(replies) > 3 {
		replies = replies[:3]
	}
	return replies
}

func (o *Orchestrator) notifyTranscript(ctx context.Context, seg model.TranscriptSegment) {
	o.mu.Lock()
	cb := o.onTranscript
	o.mu.Unlock()
	if cb == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "transcript callback panicked", "panic", r)
			}
		}()
		cb(seg)
	}()
}

func (o *Orchestrator) notifySuggestions(ctx context.Context, suggestions []model.Suggestion) {
	o.mu.Lock()
	cb := o.onSuggestions
	o.mu.Unlock()
	if cb == nil || len(suggestions) == 0 {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "suggestion callback panicked", "panic", r)
			}
		}()
		cb(suggestions)
	}()
}

// History returns the retained conversation window.
func (o *Orchestrator) History() []model.TranscriptSegment {
	return o.convo.History()
}

// Reset clears the conversation window and speaker tracking state.
func (o *Orchestrator) Reset() {
	o.convo.Clear()
	if o.transcriber != nil {
		o.transcriber.Reset()
	}
}
