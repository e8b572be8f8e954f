package types

// MenuOption is a single selectable entry extracted from an IVR menu prompt.
// Options are ephemeral: they are recomputed for every utterance.
type MenuOption struct {
	Digit       string `json:"digit" yaml:"digit"`
	Description string `json:"description" yaml:"description"`
	NextState   string `json:"next_state,omitempty" yaml:"next_state,omitempty"`
}

// MenuState tracks DTMF bookkeeping for one call. A digit can only fail after
// it has been attempted, so Failed is always a subset of Attempted.
type MenuState struct {
	Context      DTMFContext
	Attempted    map[string]struct{}
	Failed       map[string]struct{}
	LastMenuText string
}

// NewMenuState creates an empty MenuState with the given input context.
func NewMenuState(ctx DTMFContext) *MenuState {
	if ctx == "" {
		ctx = ContextUnknown
	}
	return &MenuState{
		Context:   ctx,
		Attempted: make(map[string]struct{}),
		Failed:    make(map[string]struct{}),
	}
}

// RecordAttempt marks a digit as dialed.
func (m *MenuState) RecordAttempt(digit string) {
	if digit == "" {
		return
	}
	m.Attempted[digit] = struct{}{}
}

// RecordFailure marks a digit as rejected by the remote system. A failure
// implies an attempt.
func (m *MenuState) RecordFailure(digit string) {
	if digit == "" {
		return
	}
	m.Attempted[digit] = struct{}{}
	m.Failed[digit] = struct{}{}
}

// Tried reports whether a digit has already been dialed this call.
func (m *MenuState) Tried(digit string) bool {
	_, ok := m.Attempted[digit]
	return ok
}

// AttemptedDigits returns a copy of the attempted set.
func (m *MenuState) AttemptedDigits() []string {
	return sortedKeys(m.Attempted)
}

// FailedDigits returns a copy of the failed set.
func (m *MenuState) FailedDigits() []string {
	return sortedKeys(m.Failed)
}

// Snapshot copies the state for status reporting.
func (m *MenuState) Snapshot() MenuStateSnapshot {
	return MenuStateSnapshot{
		Context:      m.Context,
		Attempted:    sortedKeys(m.Attempted),
		Failed:       sortedKeys(m.Failed),
		LastMenuText: m.LastMenuText,
	}
}
