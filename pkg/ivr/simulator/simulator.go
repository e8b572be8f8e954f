package simulator

import (
	"fmt"

	"github.com/vango-go/vai-ivr/pkg/ivr/navigate"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Outcome summarizes how a replay ended.
type Outcome string

const (
	// OutcomeTerminal means a terminal state was reached.
	OutcomeTerminal Outcome = "terminal"
	// OutcomeFallback means the navigator handed off to the LLM fallback.
	OutcomeFallback Outcome = "fallback"
	// OutcomeMaxRepeats means a state was visited past its repeat budget.
	OutcomeMaxRepeats Outcome = "max_repeats"
)

// Step records one menu prompt and the navigator's reaction to it.
type Step struct {
	State      string
	Transcript string
	Action     types.NavigationAction
	Next       string
	Invalid    bool
}

// Result is the ordered trace of one replay.
type Result struct {
	Scenario   string
	Steps      []Step
	Outcome    Outcome
	FinalState string
}

// stepLimit caps a replay regardless of scenario shape. The navigator's own
// exhaustion guarantees termination well before this.
const stepLimit = 100

const defaultMaxRepeats = 3

// Simulator walks a scenario's menu tree, feeding each state's transcript
// to the navigator and following the selected digits.
type Simulator struct {
	scenario *Scenario
}

// New creates a Simulator for a loaded scenario.
func New(sc *Scenario) *Simulator {
	return &Simulator{scenario: sc}
}

// Run replays the scenario against nav and returns the trace. The replay
// always terminates: on a terminal state, on fallback, on a state's repeat
// budget, or on the global step limit.
func (s *Simulator) Run(nav *navigate.Navigator) (Result, error) {
	res := Result{Scenario: s.scenario.Name}
	visits := make(map[string]int)
	current := s.scenario.InitialState

	for i := 0; i < stepLimit; i++ {
		st, ok := s.scenario.States[current]
		if !ok {
			return res, fmt.Errorf("scenario %q: walked into unknown state %q", s.scenario.Name, current)
		}
		if st.IsTerminal {
			res.Outcome = OutcomeTerminal
			res.FinalState = current
			return res, nil
		}

		visits[current]++
		maxRepeats := st.MaxRepeats
		if maxRepeats <= 0 {
			maxRepeats = defaultMaxRepeats
		}
		if visits[current] > maxRepeats {
			res.Outcome = OutcomeMaxRepeats
			res.FinalState = current
			return res, nil
		}

		action := nav.SelectDigit(st.Transcript)
		step := Step{State: current, Transcript: st.Transcript, Action: action}

		if action.Kind == types.ActionFallbackAI {
			res.Steps = append(res.Steps, step)
			res.Outcome = OutcomeFallback
			res.FinalState = current
			return res, nil
		}

		nav.RecordAttempt(action.Digit)
		next, matched := nextState(st, action.Digit)
		if !matched {
			nav.RecordFailure(action.Digit)
			step.Invalid = true
			if st.InvalidAction != "" {
				next = st.InvalidAction
			} else {
				next = current
			}
		}
		step.Next = next
		res.Steps = append(res.Steps, step)
		current = next
	}

	return res, fmt.Errorf("scenario %q: replay exceeded %d steps", s.scenario.Name, stepLimit)
}

func nextState(st *State, digit string) (string, bool) {
	for _, opt := range st.Options {
		if opt.Digit == digit && opt.NextState != "" {
			return opt.NextState, true
		}
	}
	return "", false
}
