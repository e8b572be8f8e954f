package types

import "sort"

// Status is the per-call detection snapshot. It is created when the call
// starts with ModeUnknown and discarded when the call ends.
type Status struct {
	Mode                  Mode              `json:"mode"`
	LoopDetected          bool              `json:"loop_detected"`
	ConsecutiveIVRCount   int               `json:"consecutive_ivr_count"`
	ConsecutiveHumanCount int               `json:"consecutive_human_count"`
	LastDTMFSent          string            `json:"last_dtmf_sent,omitempty"`
	AttemptedDTMF         []string          `json:"attempted_dtmf,omitempty"`
	FailedDTMF            []string          `json:"failed_dtmf,omitempty"`
	LastMenuTranscript    string            `json:"last_menu_transcript,omitempty"`
	MenuState             MenuStateSnapshot `json:"menu_state"`
}

// MenuStateSnapshot is a point-in-time copy of the call's DTMF bookkeeping.
// The slices are copies; callers may retain them.
type MenuStateSnapshot struct {
	Context      DTMFContext `json:"context"`
	Attempted    []string    `json:"attempted,omitempty"`
	Failed       []string    `json:"failed,omitempty"`
	LastMenuText string      `json:"last_menu_text,omitempty"`
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
