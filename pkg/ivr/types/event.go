package types

import "time"

// TranscriptEvent is one transcribed utterance from the upstream
// transcription layer. Events arrive in call order.
type TranscriptEvent struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
