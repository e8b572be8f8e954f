package types

// Detector tuning defaults. These match the behavior the engine was tuned
// against on live outbound traffic.
const (
	DefaultLoopSimilarityThreshold    = 0.85
	DefaultConsecutiveClassifications = 2
	DefaultMaxTranscriptHistory       = 10
	DefaultMinTranscriptLength        = 10
	DefaultMaxAttempts                = 10
)

// DetectorConfig is the immutable per-call configuration for the detection
// and navigation pipeline. The zero value is usable: WithDefaults fills in
// every unset field.
type DetectorConfig struct {
	// Goal is the caller-supplied natural-language navigation objective,
	// e.g. "reach a human" or "reach the sales department".
	Goal string

	// LoopSimilarityThreshold is the pairwise similarity at or above which
	// two transcripts count as a repeated menu.
	LoopSimilarityThreshold float64

	// ConsecutiveClassifications is how many consistent classifications are
	// required before the detector commits to a mode change.
	ConsecutiveClassifications int

	// MaxTranscriptHistory bounds the loop detector's FIFO history.
	MaxTranscriptHistory int

	// MinTranscriptLength is the shortest transcript (after trimming) the
	// loop detector will consider.
	MinTranscriptLength int

	// MaxAttempts bounds navigation attempts before handing off to the
	// fallback handler.
	MaxAttempts int

	// Context is the caller-supplied DTMF input shape for this call.
	Context DTMFContext
}

// WithDefaults returns a copy with every unset field set to its default.
func (c DetectorConfig) WithDefaults() DetectorConfig {
	if c.LoopSimilarityThreshold <= 0 {
		c.LoopSimilarityThreshold = DefaultLoopSimilarityThreshold
	}
	if c.ConsecutiveClassifications <= 0 {
		c.ConsecutiveClassifications = DefaultConsecutiveClassifications
	}
	if c.MaxTranscriptHistory <= 0 {
		c.MaxTranscriptHistory = DefaultMaxTranscriptHistory
	}
	if c.MinTranscriptLength <= 0 {
		c.MinTranscriptLength = DefaultMinTranscriptLength
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Context == "" {
		c.Context = ContextUnknown
	}
	return c
}
