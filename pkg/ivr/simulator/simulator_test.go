package simulator

import (
	"testing"

	"github.com/vango-go/vai-ivr/pkg/ivr/navigate"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

func newNav(goal string) *navigate.Navigator {
	return navigate.NewNavigator(goal, types.NewMenuState(types.ContextMenu), 10)
}

func mustLoad(t *testing.T, path string) *Scenario {
	t.Helper()
	sc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestSimulator_GoalReachesSales(t *testing.T) {
	sim := New(mustLoad(t, "testdata/sales_menu.yaml"))
	res, err := sim.Run(newNav("Reach the sales department"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeTerminal {
		t.Fatalf("expected terminal outcome, got %s (%+v)", res.Outcome, res)
	}
	if res.FinalState != "sales" {
		t.Errorf("expected to land on sales, got %q", res.FinalState)
	}
	if len(res.Steps) != 1 {
		t.Fatalf("expected a single step, got %d", len(res.Steps))
	}
	if res.Steps[0].Action.Digit != "1" {
		t.Errorf("expected digit 1 pressed, got %+v", res.Steps[0].Action)
	}
}

func TestSimulator_HumanGoalReachesOperator(t *testing.T) {
	sim := New(mustLoad(t, "testdata/sales_menu.yaml"))
	res, err := sim.Run(newNav("I need to talk to a human"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeTerminal || res.FinalState != "operator" {
		t.Fatalf("expected operator terminal, got %s at %q", res.Outcome, res.FinalState)
	}
}

func TestSimulator_NestedMenus(t *testing.T) {
	sim := New(mustLoad(t, "testdata/billing_tree.yaml"))
	res, err := sim.Run(newNav("I want to pay my bill"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeTerminal {
		t.Fatalf("expected terminal outcome, got %s (%+v)", res.Outcome, res)
	}
	if res.FinalState != "payment" {
		t.Errorf("expected payment state, got %q", res.FinalState)
	}
	if len(res.Steps) != 2 {
		t.Errorf("expected two steps through the tree, got %d", len(res.Steps))
	}
}

func TestSimulator_DeadEndFallsBack(t *testing.T) {
	sim := New(mustLoad(t, "testdata/dead_end.yaml"))
	res, err := sim.Run(newNav("Reach a human"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeFallback {
		t.Fatalf("expected fallback outcome, got %s (%+v)", res.Outcome, res)
	}
	last := res.Steps[len(res.Steps)-1]
	if last.Action.Kind != types.ActionFallbackAI {
		t.Errorf("expected final step to be a fallback action, got %+v", last.Action)
	}
}

func TestSimulator_InvalidDigitRecordsFailure(t *testing.T) {
	sim := New(mustLoad(t, "testdata/dead_end.yaml"))
	state := types.NewMenuState(types.ContextMenu)
	nav := navigate.NewNavigator("Reach a human", state, 10)
	if _, err := sim.Run(nav); err != nil {
		t.Fatal(err)
	}
	// The operator press has no matching option in this tree.
	if _, failed := state.Failed["0"]; !failed {
		t.Errorf("expected digit 0 recorded as failed, failed set: %v", state.FailedDigits())
	}
	for _, d := range state.FailedDigits() {
		if !state.Tried(d) {
			t.Errorf("failed digit %q missing from attempted set", d)
		}
	}
}

func TestSimulator_MaxRepeatsStopsReplay(t *testing.T) {
	sc := &Scenario{
		Name:         "repeat-forever",
		InitialState: "main",
		States: map[string]*State{
			"main": {
				Transcript: "Please continue to hold; press 1 to keep holding.",
				Options: []types.MenuOption{
					{Digit: "1", Description: "keep holding", NextState: "main"},
					{Digit: "2", Description: "keep waiting", NextState: "main"},
					{Digit: "3", Description: "hold more", NextState: "main"},
					{Digit: "4", Description: "hold again", NextState: "main"},
				},
				MaxRepeats: 2,
			},
		},
	}
	sim := New(sc)
	res, err := sim.Run(newNav("reach billing"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeMaxRepeats {
		t.Fatalf("expected max_repeats outcome, got %s (%+v)", res.Outcome, res)
	}
}
