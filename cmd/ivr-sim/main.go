// Command ivr-sim replays a YAML menu scenario against the navigator and
// prints the step-by-step trace. It exercises goal matching, operator
// fallback, and exhaustion without placing a call.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/vango-go/vai-ivr/pkg/ivr/navigate"
	"github.com/vango-go/vai-ivr/pkg/ivr/simulator"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ivr-sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	goal := fs.String("goal", "reach a human", "navigation goal")
	maxAttempts := fs.Int("max-attempts", types.DefaultMaxAttempts, "attempt budget before handing off")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ivr-sim [flags] <scenario.yaml>")
		return 2
	}

	sc, err := simulator.LoadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "ivr-sim: %v\n", err)
		return 1
	}

	nav := navigate.NewNavigator(*goal, types.NewMenuState(types.ContextMenu), *maxAttempts)
	res, err := simulator.New(sc).Run(nav)
	if err != nil {
		fmt.Fprintf(stderr, "ivr-sim: %v\n", err)
		return 1
	}

	printTrace(stdout, *goal, res)
	if res.Outcome != simulator.OutcomeTerminal {
		return 1
	}
	return 0
}

func printTrace(w io.Writer, goal string, res simulator.Result) {
	fmt.Fprintf(w, "scenario: %s\n", res.Scenario)
	fmt.Fprintf(w, "goal:     %s\n\n", goal)
	for i, step := range res.Steps {
		fmt.Fprintf(w, "%2d. [%s] %q\n", i+1, step.State, step.Transcript)
		switch step.Action.Kind {
		case types.ActionPressDigit:
			status := ""
			if step.Invalid {
				status = " (rejected)"
			}
			fmt.Fprintf(w, "    press %s%s: %s\n", step.Action.Digit, status, step.Action.Reason)
		case types.ActionFallbackAI:
			fmt.Fprintf(w, "    hand off to llm: %s\n", step.Action.Reason)
		}
	}
	fmt.Fprintf(w, "\noutcome: %s (final state %s)\n", res.Outcome, res.FinalState)
}
