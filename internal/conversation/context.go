// Package conversation maintains the rolling dialogue history for one
// session: a capacity-bounded FIFO window of attributed transcript
// segments.
package conversation

import (
	"fmt"
	"strings"
	"sync"

	"chatbuff.app/backend/internal/model"
)

const DefaultCapacity = 50

// Context is the bounded, ordered dialogue history with speaker
// attribution. All operations are synchronous and O(window size).
// Safe for concurrent use; each session owns exactly one Context.
type Context struct {
	mu       sync.Mutex
	segments []model.TranscriptSegment
	capacity int
}

func NewContext(capacity int) *Context {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Context{capacity: capacity}
}

// AddSegment appends a segment, evicting the oldest when the window is
// full. len(segments) <= capacity holds at all times.
func (c *Context) AddSegment(seg model.TranscriptSegment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.segments = append(c.segments, seg)
	if len(c.segments) > c.capacity {
		c.segments = c.segments[len(c.segments)-c.capacity:]
	}
}

// RecentText renders the last n segments as speaker-labeled lines,
// most-recent last. Returns the empty string for an empty window.
func (c *Context) RecentText(n int) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	recent := c.segments
	if n > 0 && len(recent) > n {
		recent = recent[len(recent)-n:]
	}

	lines := make([]string, 0, len(recent))
	for _, seg := range recent {
		label := "对方"
		if seg.Speaker == model.SpeakerSelf {
			label = "你"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, seg.Text))
	}
	return strings.Join(lines, "\n")
}

// LastOtherMessage returns the most recent OTHER-speaker utterance text,
// or "" if the window contains none.
func (c *Context) LastOtherMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.segments) - 1; i >= 0; i-- {
		if c.segments[i].Speaker == model.SpeakerOther {
			return c.segments[i].Text
		}
	}
	return ""
}

// Topics is a best-effort topic extraction: the concatenated recent text
// truncated to 50 runes. An approximation, not NLP-grade; callers must
// not treat it as semantic analysis.
func (c *Context) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	recent := c.segments
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	parts := make([]string, 0, len(recent))
	for _, seg := range recent {
		parts = append(parts, seg.Text)
	}
	all := strings.Join(parts, " ")
	if all == "" {
		return nil
	}

	runes := []rune(all)
	if len(runes) > 50 {
		all = string(runes[:50])
	}
	return []string{all}
}

// History returns a copy of the retained segments in insertion order.
func (c *Context) History() []model.TranscriptSegment {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.TranscriptSegment, len(c.segments))
	copy(out, c.segments)
	return out
}

// Len reports the number of retained segments.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.segments)
}

// Clear empties the window.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.segments = c.segments[:0]
}
