package ws

import (
	"time"

	"chatbuff.app/backend/internal/model"
)

// Inbound message types.
const (
	MessageAudio          = "audio"
	MessageText           = "text"
	MessageStreamComplete = "stream_complete"
	MessageReset          = "reset"
	MessagePing           = "ping"
)

// Outbound event types.
const (
	EventConnected     = "connected"
	EventStreamingText = "streaming_text"
	EventTranscript    = "transcript"
	EventSuggestions   = "suggestions"
	EventReset         = "reset"
	EventPong          = "pong"
	EventError         = "error"
)

// WelcomeMessage is sent immediately after a session is accepted.
const WelcomeMessage = "连接成功，开始实时对话辅助"

// ClientMessage is one inbound frame. Data carries base64 PCM on the
// audio path; Text and Speaker carry direct text input.
type ClientMessage struct {
	Type    string `json:"type"`
	Data    string `json:"data,omitempty"`
	Text    string `json:"text,omitempty"`
	Speaker string `json:"speaker,omitempty"`
}

// TranscriptPayload is the transcript projection sent over the wire.
type TranscriptPayload struct {
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

// SuggestionPayload is the suggestion projection sent over the wire.
type SuggestionPayload struct {
	Type       string  `json:"type"`
	Content    string  `json:"content"`
	Source     string  `json:"source,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ServerEvent is one outbound frame. Fields are populated per event
// type; everything unused is omitted.
type ServerEvent struct {
	Type           string              `json:"type"`
	ClientID       string              `json:"client_id,omitempty"`
	Message        string              `json:"message,omitempty"`
	Text           string              `json:"text,omitempty"`
	IsFinal        bool                `json:"is_final,omitempty"`
	Transcript     *TranscriptPayload  `json:"transcript,omitempty"`
	Suggestions    []SuggestionPayload `json:"suggestions,omitempty"`
	ContextSummary string              `json:"context_summary,omitempty"`
	Topics         []string            `json:"topics,omitempty"`
	RelatedNews    []model.NewsItem    `json:"related_news,omitempty"`
	Timestamp      string              `json:"timestamp"`
}

func newEvent(eventType string) ServerEvent {
	return ServerEvent{
		Type:      eventType,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func connectedEvent(clientID string) ServerEvent {
	ev := newEvent(EventConnected)
	ev.ClientID = clientID
	ev.Message = WelcomeMessage
	return ev
}

func streamingTextEvent(prefix string, final bool) ServerEvent {
	ev := newEvent(EventStreamingText)
	ev.Text = prefix
	ev.IsFinal = final
	return ev
}

func transcriptEvent(seg model.TranscriptSegment) ServerEvent {
	ev := newEvent(EventTranscript)
	ev.Transcript = &TranscriptPayload{
		Text:       seg.Text,
		Speaker:    string(seg.Speaker),
		Confidence: seg.Confidence,
		Timestamp:  seg.Timestamp.Format(time.RFC3339),
	}
	return ev
}

func suggestionsEvent(batch *model.SuggestionBatch) ServerEvent {
	ev := newEvent(EventSuggestions)
	ev.Suggestions = make([]SuggestionPayload, 0, len(batch.Suggestions))
	for _, s := range batch.Suggestions {
		ev.Suggestions = append(ev.Suggestions, SuggestionPayload{
			Type:       string(s.Kind),
			Content:    s.Content,
			Source:     s.Source,
			Confidence: s.Confidence,
		})
	}
	ev.ContextSummary = batch.ContextSummary
	ev.Topics = batch.Topics
	ev.RelatedNews = batch.RelatedNews
	return ev
}

func resetEvent() ServerEvent {
	ev := newEvent(EventReset)
	ev.Message = "会话已重置"
	return ev
}

func pongEvent() ServerEvent {
	return newEvent(EventPong)
}

func errorEvent(message string) ServerEvent {
	ev := newEvent(EventError)
	ev.Message = message
	return ev
}
