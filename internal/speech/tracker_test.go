package speech_test

import (
	"context"
	"encoding/base64"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"chatbuff.app/backend/internal/model"
	"chatbuff.app/backend/internal/speech"
)

// loudPCM builds a chunk of n 16-bit samples at a constant amplitude.
func loudPCM(n int, amplitude int16) []byte {
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		out[i*2] = byte(uint16(amplitude))
		out[i*2+1] = byte(uint16(amplitude) >> 8)
	}
	return out
}

var _ = Describe("Tracker", func() {
	var tracker *speech.Tracker

	BeforeEach(func() {
		tracker = speech.NewTracker()
	})

	It("toggles the speaker when energy exceeds the threshold", func() {
		first := tracker.Classify(0.5)
		Expect(first).To(Equal(model.SpeakerOther))

		second := tracker.Classify(0.5)
		Expect(second).To(Equal(model.SpeakerSelf))
	})

	It("holds the current speaker below the threshold", func() {
		tracker.Classify(0.5) // -> other
		Expect(tracker.Classify(0.01)).To(Equal(model.SpeakerOther))
		Expect(tracker.Classify(0.0)).To(Equal(model.SpeakerOther))
	})

	It("is deterministic given energy and prior state", func() {
		a := speech.NewTracker()
		b := speech.NewTracker()
		energies := []float64{0.5, 0.01, 0.3, 0.0, 0.9}
		for _, e := range energies {
			Expect(a.Classify(e)).To(Equal(b.Classify(e)))
		}
	})

	It("resets to SELF", func() {
		tracker.Classify(0.5)
		tracker.Reset()
		Expect(tracker.Classify(0.0)).To(Equal(model.SpeakerSelf))
	})
})

var _ = Describe("Energy", func() {
	It("is zero for empty audio", func() {
		Expect(speech.Energy(nil)).To(BeZero())
	})

	It("normalizes constant amplitude to its fraction of full scale", func() {
		pcm := loudPCM(100, 16384)
		Expect(speech.Energy(pcm)).To(BeNumerically("~", 0.5, 0.001))
	})
})

type failingEngine struct{}

func (failingEngine) Transcribe(context.Context, []byte, int) (*speech.Result, error) {
	return nil, errors.New("engine offline")
}

var _ = Describe("Transcriber", func() {
	var transcriber *speech.Transcriber

	BeforeEach(func() {
		transcriber = speech.NewTranscriber(speech.NewMockEngine(), speech.NewTracker())
	})

	It("returns an empty zero-confidence segment for too-short audio", func() {
		seg, err := transcriber.Transcribe(context.Background(), make([]byte, 10), 16000)
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.Text).To(BeEmpty())
		Expect(seg.Confidence).To(BeZero())
	})

	It("produces an attributed segment for a normal chunk", func() {
		pcm := loudPCM(4000, 8000)
		seg, err := transcriber.Transcribe(context.Background(), pcm, 16000)
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.Text).NotTo(BeEmpty())
		Expect(seg.Confidence).To(BeNumerically(">", 0))
		Expect(seg.Speaker).To(Equal(model.SpeakerOther))
	})

	It("wraps engine failures in ErrTranscription", func() {
		broken := speech.NewTranscriber(failingEngine{}, speech.NewTracker())
		_, err := broken.Transcribe(context.Background(), loudPCM(4000, 8000), 16000)
		Expect(err).To(MatchError(speech.ErrTranscription))
	})

	Describe("TranscribeBase64", func() {
		It("rejects malformed base64", func() {
			_, err := transcriber.TranscribeBase64(context.Background(), "!!not-base64!!", 16000)
			Expect(err).To(HaveOccurred())
		})

		It("decodes and transcribes valid input", func() {
			encoded := base64.StdEncoding.EncodeToString(loudPCM(4000, 8000))
			seg, err := transcriber.TranscribeBase64(context.Background(), encoded, 16000)
			Expect(err).NotTo(HaveOccurred())
			Expect(seg.Text).NotTo(BeEmpty())
		})
	})
})
