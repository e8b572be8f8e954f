// Package navigate turns IVR menu prompts into goal-directed digit
// decisions. The navigator never errors and never loops: every call ends in
// either a digit to press or a hand-off to the LLM fallback.
package navigate

import (
	"fmt"
	"strings"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Navigator picks the next DTMF digit for one call. It owns the attempt
// counter and shares the call's MenuState; it is not safe for concurrent
// use and is discarded when the call ends.
type Navigator struct {
	goal        string
	keywords    []string
	state       *types.MenuState
	maxAttempts int
	attempts    int
}

// NewNavigator creates a Navigator for a call. state must not be nil;
// maxAttempts <= 0 falls back to the default budget.
func NewNavigator(goal string, state *types.MenuState, maxAttempts int) *Navigator {
	if state == nil {
		state = types.NewMenuState(types.ContextUnknown)
	}
	if maxAttempts <= 0 {
		maxAttempts = types.DefaultMaxAttempts
	}
	return &Navigator{
		goal:        goal,
		keywords:    expandGoal(goal),
		state:       state,
		maxAttempts: maxAttempts,
	}
}

// Goal returns the configured navigation goal.
func (n *Navigator) Goal() string {
	return n.goal
}

// Attempts returns how many navigation attempts have been recorded.
func (n *Navigator) Attempts() int {
	return n.attempts
}

// RecordAttempt marks a digit as dialed and spends one unit of the attempt
// budget.
func (n *Navigator) RecordAttempt(digit string) {
	if digit == "" {
		return
	}
	n.state.RecordAttempt(digit)
	n.attempts++
}

// RecordFailure marks a dialed digit as rejected by the menu.
func (n *Navigator) RecordFailure(digit string) {
	n.state.RecordFailure(digit)
}

// SelectDigit decides the next action for a menu prompt, in strict priority
// order: goal-matched option, operator ("0"), any untried extracted option,
// then sequential digits when nothing was extracted. Exhaustion of the
// attempt budget or of all ten digits yields a fallback action instead of a
// stale digit.
func (n *Navigator) SelectDigit(text string) types.NavigationAction {
	if n.allDigitsTried() {
		return types.FallbackAI("all digits 0-9 exhausted")
	}
	if n.attempts >= n.maxAttempts {
		return types.FallbackAI(fmt.Sprintf("max attempts (%d) reached", n.maxAttempts))
	}

	options := ExtractMenuOptions(text)
	n.state.LastMenuText = text

	if opt, kw, ok := n.goalMatch(options); ok {
		return types.PressDigit(opt.Digit, fmt.Sprintf("goal match %q on option %q", kw, opt.Description))
	}

	// Industry convention: 0 usually reaches a human.
	if !n.state.Tried("0") {
		return types.PressDigit("0", "operator convention")
	}

	for _, opt := range options {
		if !n.state.Tried(opt.Digit) {
			return types.PressDigit(opt.Digit, fmt.Sprintf("untried option %q", opt.Description))
		}
	}

	if len(options) == 0 {
		for d := '1'; d <= '9'; d++ {
			digit := string(d)
			if !n.state.Tried(digit) {
				return types.PressDigit(digit, "sequential fallback")
			}
		}
	}

	return types.FallbackAI("no untried menu options")
}

func (n *Navigator) goalMatch(options []types.MenuOption) (types.MenuOption, string, bool) {
	if len(n.keywords) == 0 {
		return types.MenuOption{}, "", false
	}
	for _, opt := range options {
		if n.state.Tried(opt.Digit) {
			continue
		}
		desc := strings.ToLower(opt.Description)
		for _, kw := range n.keywords {
			if strings.Contains(desc, kw) {
				return opt, kw, true
			}
		}
	}
	return types.MenuOption{}, "", false
}

func (n *Navigator) allDigitsTried() bool {
	for d := '0'; d <= '9'; d++ {
		if !n.state.Tried(string(d)) {
			return false
		}
	}
	return true
}
