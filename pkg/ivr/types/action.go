package types

// ActionKind tags the outcome of a navigation decision.
type ActionKind string

const (
	// ActionPressDigit instructs the host to dial a DTMF digit.
	ActionPressDigit ActionKind = "press_digit"
	// ActionFallbackAI hands the menu to the LLM-driven fallback handler.
	// It is the designed escape hatch: navigation never loops indefinitely.
	ActionFallbackAI ActionKind = "fallback_ai"
)

// NavigationAction is the result of one digit-selection pass.
type NavigationAction struct {
	Kind   ActionKind `json:"kind"`
	Digit  string     `json:"digit,omitempty"`
	Reason string     `json:"reason"`
}

// PressDigit builds a press-digit action.
func PressDigit(digit, reason string) NavigationAction {
	return NavigationAction{Kind: ActionPressDigit, Digit: digit, Reason: reason}
}

// FallbackAI builds a fallback action.
func FallbackAI(reason string) NavigationAction {
	return NavigationAction{Kind: ActionFallbackAI, Reason: reason}
}
