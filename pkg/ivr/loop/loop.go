// Package loop detects a remote system re-presenting the same menu, the
// usual IVR failure mode when no input registered.
package loop

import (
	"strings"

	"github.com/vango-go/vai-ivr/pkg/ivr/similarity"
)

// Detector keeps a bounded FIFO of recent remote transcripts and flags when
// the newest one closely matches an earlier one. It is owned by a single
// call session and is not safe for concurrent use.
type Detector struct {
	strategy  similarity.Strategy
	threshold float64
	minLength int
	maxSize   int
	history   []string
}

// Option configures a Detector.
type Option func(*Detector)

// WithStrategy overrides the similarity strategy. The choice is fixed for
// the detector's lifetime.
func WithStrategy(s similarity.Strategy) Option {
	return func(d *Detector) {
		if s != nil {
			d.strategy = s
		}
	}
}

// WithMinLength overrides the minimum transcript length considered.
func WithMinLength(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.minLength = n
		}
	}
}

// NewDetector creates a Detector. Threshold is the similarity at or above
// which two transcripts count as a repeat; maxHistory bounds the FIFO.
// Non-positive arguments fall back to safe defaults.
func NewDetector(threshold float64, maxHistory int, opts ...Option) *Detector {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.85
	}
	if maxHistory <= 0 {
		maxHistory = 10
	}
	d := &Detector{
		strategy:  similarity.NewTFIDF(),
		threshold: threshold,
		minLength: 10,
		maxSize:   maxHistory,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends a transcript to the history. Empty or too-short text is
// ignored so that acknowledgements ("okay", "yes") never count as repeats.
func (d *Detector) Add(text string) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if len(normalized) < d.minLength {
		return
	}
	d.history = append(d.history, normalized)
	if len(d.history) > d.maxSize {
		d.history = d.history[1:]
	}
}

// Detected reports whether the most recent transcript repeats an earlier
// one. It compares newest-first and stops at the first hit.
func (d *Detector) Detected() bool {
	if len(d.history) < 2 {
		return false
	}
	latest := d.history[len(d.history)-1]
	for i := len(d.history) - 2; i >= 0; i-- {
		if d.strategy.Score(latest, d.history[i]) >= d.threshold {
			return true
		}
	}
	return false
}

// Len returns the current history size.
func (d *Detector) Len() int {
	return len(d.history)
}

// Reset clears the history. Called when the call leaves IVR mode.
func (d *Detector) Reset() {
	d.history = d.history[:0]
}
