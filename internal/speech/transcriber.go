package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chatbuff.app/backend/internal/model"
)

// ErrTranscription indicates the transcription engine failed on a
// well-formed audio chunk.
var ErrTranscription = errors.New("transcription failed")

// minAudioBytes is the smallest chunk worth transcribing. Anything
// shorter yields an empty zero-confidence segment rather than an error.
const minAudioBytes = 1000

// Result is the raw engine output before speaker attribution.
type Result struct {
	Text       string
	Confidence float64
	StartTime  float64
	EndTime    float64
}

// Engine is the speech-to-text capability. An engine call may block on
// network or model inference; implementations must honor ctx.
type Engine interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRate int) (*Result, error)
}

// Transcriber combines an engine with speaker tracking and produces
// attributed transcript segments.
type Transcriber struct {
	engine  Engine
	tracker *Tracker
}

func NewTranscriber(engine Engine, tracker *Tracker) *Transcriber {
	if engine == nil {
		engine = NewMockEngine()
	}
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Transcriber{engine: engine, tracker: tracker}
}

// Transcribe converts one PCM 16-bit chunk into an attributed segment.
// Empty or too-short audio returns an empty-text zero-confidence segment.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []byte, sampleRate int) (*model.TranscriptSegment, error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	if len(pcm) < minAudioBytes {
		return &model.TranscriptSegment{
			Speaker:   t.tracker.Classify(0),
			Timestamp: time.Now(),
		}, nil
	}

	speaker := t.tracker.Classify(Energy(pcm))

	res, err := t.engine.Transcribe(ctx, pcm, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTranscription, err)
	}

	seg := &model.TranscriptSegment{
		Text:       res.Text,
		Speaker:    speaker,
		StartTime:  res.StartTime,
		EndTime:    res.EndTime,
		Confidence: res.Confidence,
		Timestamp:  time.Now(),
	}

	slog.DebugContext(ctx, "audio transcribed",
		"bytes", len(pcm),
		"sample_rate", sampleRate,
		"speaker", seg.Speaker,
		"confidence", seg.Confidence)

	return seg, nil
}

// TranscribeBase64 decodes base64-encoded PCM audio and transcribes it.
func (t *Transcriber) TranscribeBase64(ctx context.Context, encoded string, sampleRate int) (*model.TranscriptSegment, error) {
	pcm, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return t.Transcribe(ctx, pcm, sampleRate)
}

// Reset returns speaker tracking to its initial state.
func (t *Transcriber) Reset() {
	t.tracker.Reset()
}
