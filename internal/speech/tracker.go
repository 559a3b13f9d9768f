// Package speech turns raw PCM audio into attributed transcript
// segments: a pluggable transcription engine plus a two-party speaker
// tracking heuristic.
package speech

import (
	"sync"

	"chatbuff.app/backend/internal/model"
)

// DefaultEnergyThreshold is the normalized amplitude above which an
// audio chunk is considered a speaker change.
const DefaultEnergyThreshold = 0.02

// Tracker assigns incoming audio units to one of the two conversation
// roles. Alternation heuristic, not diarization: when chunk energy
// exceeds the threshold the role toggles, otherwise it holds. Behavior
// is deterministic given the energy value and prior state.
type Tracker struct {
	mu        sync.Mutex
	current   model.Speaker
	threshold float64
}

func NewTracker() *Tracker {
	return &Tracker{
		current:   model.SpeakerSelf,
		threshold: DefaultEnergyThreshold,
	}
}

// Classify returns the speaker attributed to a chunk with the given
// normalized energy, updating tracker state.
func (t *Tracker) Classify(energy float64) model.Speaker {
	t.mu.Lock()
	defer t.mu.Unlock()

	if energy > t.threshold {
		if t.current == model.SpeakerSelf {
			t.current = model.SpeakerOther
		} else {
			t.current = model.SpeakerSelf
		}
	}
	return t.current
}

// Reset returns the tracker to its initial state (SELF speaking).
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = model.SpeakerSelf
}

// Energy computes the mean absolute amplitude of 16-bit little-endian
// PCM samples, normalized to [0,1]. Odd trailing bytes are ignored.
func Energy(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n*2; i += 2 {
		s := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		if s < 0 {
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(n) / 32768.0
}
