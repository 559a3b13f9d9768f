package ws

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"chatbuff.app/backend/internal/model"
)

const defaultSampleRate = 16000

// Processor is the assistant capability a session drives. Satisfied by
// assistant.Orchestrator.
type Processor interface {
	ProcessText(ctx context.Context, text string, speaker model.Speaker) (*model.SuggestionBatch, error)
	ProcessAudio(ctx context.Context, pcm []byte, sampleRate int) (*model.SuggestionBatch, error)
	Reset()
}

// ClientConn is the full duplex connection a session reads from and the
// manager writes to. *websocket.Conn satisfies it.
type ClientConn interface {
	Conn
	ReadJSON(v any) error
}

// Session runs one client's receive loop. Messages are handled
// sequentially; only the audio path's character streaming runs on its
// own goroutine so a later stream_complete can cut it short.
type Session struct {
	clientID  string
	conn      ClientConn
	manager   *Manager
	processor Processor
	charDelay time.Duration

	mu           sync.Mutex
	streamCancel context.CancelFunc
	streamDone   chan struct{}
}

func NewSession(clientID string, conn ClientConn, manager *Manager, processor Processor, charDelay time.Duration) *Session {
	return &Session{
		clientID:  clientID,
		conn:      conn,
		manager:   manager,
		processor: processor,
		charDelay: charDelay,
	}
}

// Run registers the session and serves its receive loop until the
// client goes away. Always leaves the session disconnected.
func (s *Session) Run(ctx context.Context) {
	ctx = clientContext(ctx, s.clientID)

	if err := s.manager.Connect(ctx, s.clientID, s.conn); err != nil {
		slog.WarnContext(ctx, "session rejected", "error", err)
		return
	}
	defer s.manager.Disconnect(ctx, s.clientID)
	defer s.cancelStream()

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			slog.DebugContext(ctx, "receive loop ended", "error", err)
			return
		}
		if ctx.Err() != nil {
			return
		}
		s.handle(ctx, msg)
	}
}

func (s *Session) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MessagePing:
		_ = s.manager.SendToClient(ctx, s.clientID, pongEvent())

	case MessageReset:
		s.cancelStream()
		s.processor.Reset()
		_ = s.manager.SendToClient(ctx, s.clientID, resetEvent())

	case MessageStreamComplete:
		s.cancelStream()

	case MessageText:
		s.handleText(ctx, msg)

	case MessageAudio:
		s.handleAudio(ctx, msg)

	default:
		_ = s.manager.SendToClient(ctx, s.clientID, errorEvent("未知消息类型: "+msg.Type))
	}
}

func (s *Session) handleText(ctx context.Context, msg ClientMessage) {
	if msg.Text == "" {
		_ = s.manager.SendToClient(ctx, s.clientID, errorEvent("text 不能为空"))
		return
	}

	speaker := model.SpeakerSelf
	if msg.Speaker == string(model.SpeakerOther) {
		speaker = model.SpeakerOther
	}

	batch, err := s.processor.ProcessText(ctx, msg.Text, speaker)
	if err != nil {
		slog.ErrorContext(ctx, "text processing failed", "error", err)
		_ = s.manager.SendToClient(ctx, s.clientID, errorEvent("处理失败，请重试"))
		return
	}
	_ = s.manager.SendToClient(ctx, s.clientID, suggestionsEvent(batch))
}

func (s *Session) handleAudio(ctx context.Context, msg ClientMessage) {
	pcm, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		_ = s.manager.SendToClient(ctx, s.clientID, errorEvent("音频数据无效"))
		return
	}

	batch, err := s.processor.ProcessAudio(ctx, pcm, defaultSampleRate)
	if err != nil {
		slog.ErrorContext(ctx, "audio processing failed", "error", err)
		_ = s.manager.SendToClient(ctx, s.clientID, errorEvent("语音识别失败，请重试"))
		return
	}
	if batch.Transcript == nil || batch.Transcript.Text == "" {
		return
	}

	// A new utterance supersedes any in-flight streaming simulation.
	s.cancelStream()

	streamCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.streamCancel = cancel
	s.streamDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		s.streamBatch(streamCtx, batch)
	}()
}

// streamBatch emits the transcript as growing character prefixes, then
// the final transcript, then the suggestion batch. Cancellation skips
// straight to the final events so the client never loses the result.
func (s *Session) streamBatch(ctx context.Context, batch *model.SuggestionBatch) {
	runes := []rune(batch.Transcript.Text)
	for i := 1; i <= len(runes); i++ {
		if ctx.Err() != nil {
			break
		}
		final := i == len(runes)
		if err := s.manager.SendToClient(ctx, s.clientID, streamingTextEvent(string(runes[:i]), final)); err != nil {
			return
		}
		if !final && s.charDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.charDelay):
			}
		}
	}

	_ = s.manager.SendToClient(ctx, s.clientID, transcriptEvent(*batch.Transcript))
	_ = s.manager.SendToClient(ctx, s.clientID, suggestionsEvent(batch))
}

func (s *Session) cancelStream() {
	s.mu.Lock()
	cancel := s.streamCancel
	done := s.streamDone
	s.streamCancel = nil
	s.streamDone = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}
