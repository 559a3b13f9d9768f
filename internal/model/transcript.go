package model

import "time"

// Speaker identifies which side of the two-party conversation produced
// an utterance.
type Speaker string

const (
	SpeakerSelf  Speaker = "user"
	SpeakerOther Speaker = "other"
)

// TranscriptSegment is one attributed unit of speech or text in the
// conversation. Immutable once created.
type TranscriptSegment struct {
	Text       string
	Speaker    Speaker
	StartTime  float64 // seconds from utterance start
	EndTime    float64
	Confidence float64 // 0.0 - 1.0
	Timestamp  time.Time
}
