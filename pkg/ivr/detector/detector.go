// Package detector fuses per-utterance classifications into a stable
// call-level mode. Single classifications are noisy, so mode changes are
// debounced: the detector commits only after N consistent observations.
// Voicemail is the exception and transitions immediately, because greetings
// are distinctive and a late reaction wastes the message window.
package detector

import (
	"github.com/vango-go/vai-ivr/pkg/ivr/classify"
	"github.com/vango-go/vai-ivr/pkg/ivr/loop"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Detector is the orchestrating state machine for one call. It owns the
// loop detector and the mode counters; it is driven synchronously, one
// utterance at a time, and is not safe for concurrent use.
type Detector struct {
	cfg  types.DetectorConfig
	loop *loop.Detector

	mode             types.Mode
	loopDetected     bool
	consecutiveIVR   int
	consecutiveHuman int
	lastMenuText     string
}

// New creates a Detector with cfg (zero fields filled with defaults).
func New(cfg types.DetectorConfig, opts ...loop.Option) *Detector {
	cfg = cfg.WithDefaults()
	opts = append([]loop.Option{loop.WithMinLength(cfg.MinTranscriptLength)}, opts...)
	return &Detector{
		cfg:  cfg,
		loop: loop.NewDetector(cfg.LoopSimilarityThreshold, cfg.MaxTranscriptHistory, opts...),
		mode: types.ModeUnknown,
	}
}

// Mode returns the current call-level classification.
func (d *Detector) Mode() types.Mode {
	return d.mode
}

// LoopDetected reports whether the remote system is repeating itself.
func (d *Detector) LoopDetected() bool {
	return d.loopDetected
}

// LastMenuText returns the most recent transcript classified as a menu.
func (d *Detector) LastMenuText() string {
	return d.lastMenuText
}

// Observe processes one transcript event and returns the classification of
// that single utterance. Agent speech is never classified against the
// remote party; it only flows through so the caller can scan it for DTMF
// directives.
func (d *Detector) Observe(event types.TranscriptEvent) classify.Result {
	if event.Speaker != types.SpeakerRemote {
		return classify.Result{Kind: classify.KindUnknown}
	}

	result := classify.Classify(event.Text)
	d.applyClassification(result)

	if d.mode == types.ModeIVR {
		d.loop.Add(event.Text)
		d.loopDetected = d.loop.Detected()
		if result.Kind == classify.KindMenu {
			d.lastMenuText = event.Text
		}
	}
	return result
}

func (d *Detector) applyClassification(result classify.Result) {
	switch result.Kind {
	case classify.KindVoicemail:
		// Immediate transition, no debounce.
		d.setMode(types.ModeVoicemail)
		d.consecutiveIVR = 0
		d.consecutiveHuman = 0
	case classify.KindMenu:
		d.consecutiveIVR++
		d.consecutiveHuman = 0
		if d.consecutiveIVR >= d.cfg.ConsecutiveClassifications {
			d.setMode(types.ModeIVR)
		}
	case classify.KindHuman:
		d.consecutiveHuman++
		d.consecutiveIVR = 0
		if d.consecutiveHuman >= d.cfg.ConsecutiveClassifications {
			d.setMode(types.ModeConversation)
		}
	default:
		// Ambiguity is not an error and does not reset a committed mode;
		// it only breaks the streaks.
		d.consecutiveIVR = 0
		d.consecutiveHuman = 0
	}
}

func (d *Detector) setMode(mode types.Mode) {
	if d.mode == mode {
		return
	}
	if d.mode == types.ModeIVR && mode != types.ModeIVR {
		d.loop.Reset()
		d.loopDetected = false
	}
	d.mode = mode
}

// ConsecutiveCounts returns the current debounce streaks (ivr, human).
func (d *Detector) ConsecutiveCounts() (int, int) {
	return d.consecutiveIVR, d.consecutiveHuman
}
