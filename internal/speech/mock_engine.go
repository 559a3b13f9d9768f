package speech

import "context"

// mockPhrases are canned transcripts used when no real STT engine is
// configured. Kept short and conversational so downstream suggestion
// generation still produces sensible output in demos.
var mockPhrases = []string{
	"我觉得这个想法很有意思",
	"你说的有道理",
	"这让我想起了一句话",
	"确实是这样的",
	"我有不同的看法",
	"这个问题很复杂",
	"我们可以换个角度思考",
	"这正是我想说的",
}

// MockEngine simulates transcription. The phrase is picked
// deterministically from the chunk length so tests are repeatable.
type MockEngine struct{}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Transcribe(_ context.Context, pcm []byte, sampleRate int) (*Result, error) {
	duration := float64(len(pcm)) / float64(sampleRate*2)
	return &Result{
		Text:       mockPhrases[len(pcm)%len(mockPhrases)],
		Confidence: 0.85,
		EndTime:    duration,
	}, nil
}
