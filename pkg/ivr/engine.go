// Package ivr is the per-call composition root for IVR detection and
// autonomous menu navigation. One Engine is created per outbound call, fed
// one transcribed utterance at a time, and discarded when the call ends.
// The hot path performs no I/O; only the injected fallback handler may
// block, and only after rule-based navigation is exhausted.
package ivr

import (
	"context"
	"fmt"

	"github.com/vango-go/vai-ivr/pkg/ivr/classify"
	"github.com/vango-go/vai-ivr/pkg/ivr/detector"
	"github.com/vango-go/vai-ivr/pkg/ivr/dtmf"
	"github.com/vango-go/vai-ivr/pkg/ivr/fallback"
	"github.com/vango-go/vai-ivr/pkg/ivr/loop"
	"github.com/vango-go/vai-ivr/pkg/ivr/navigate"
	"github.com/vango-go/vai-ivr/pkg/ivr/similarity"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Decision is the engine's output for one utterance.
type Decision struct {
	// Status is the updated per-call snapshot.
	Status types.Status
	// Action is the navigation outcome, when a menu prompt was handled.
	Action *types.NavigationAction
	// Tones are DTMF tone groups to dial, in order.
	Tones []string
	// Say is text to speak to the remote party (already tag-stripped).
	Say string
}

// Engine owns one call's detector, navigator, and menu state.
// It is driven by a single goroutine and holds no locks.
type Engine struct {
	cfg       types.DetectorConfig
	detector  *detector.Detector
	navigator *navigate.Navigator
	state     *types.MenuState
	fallback  fallback.Handler
	lastDTMF  string
}

// Option configures an Engine.
type Option func(*Engine, *[]loop.Option)

// WithFallback sets the LLM fallback handler. The default is fallback.Noop.
func WithFallback(h fallback.Handler) Option {
	return func(e *Engine, _ *[]loop.Option) {
		if h != nil {
			e.fallback = h
		}
	}
}

// WithSimilarityStrategy overrides the loop detector's similarity strategy.
// Chosen once here; never swapped mid-call.
func WithSimilarityStrategy(s similarity.Strategy) Option {
	return func(_ *Engine, loopOpts *[]loop.Option) {
		*loopOpts = append(*loopOpts, loop.WithStrategy(s))
	}
}

// New creates an Engine for one call.
func New(cfg types.DetectorConfig, opts ...Option) *Engine {
	cfg = cfg.WithDefaults()
	state := types.NewMenuState(cfg.Context)
	e := &Engine{
		cfg:      cfg,
		state:    state,
		fallback: fallback.Noop{},
	}
	var loopOpts []loop.Option
	for _, opt := range opts {
		opt(e, &loopOpts)
	}
	e.detector = detector.New(cfg, loopOpts...)
	e.navigator = navigate.NewNavigator(cfg.Goal, state, cfg.MaxAttempts)
	return e
}

// ProcessUtterance advances the call by one utterance.
//
// Remote speech updates the detector; when the call is in an IVR and the
// utterance reads like a menu, the navigator picks the next digit. Agent
// speech is only scanned for embedded <dtmf> directives. The returned
// Decision always carries a usable Status, even on error.
func (e *Engine) ProcessUtterance(ctx context.Context, event types.TranscriptEvent) (Decision, error) {
	if event.Speaker == types.SpeakerAgent {
		return e.processAgent(event), nil
	}
	return e.processRemote(ctx, event)
}

func (e *Engine) processAgent(event types.TranscriptEvent) Decision {
	d := Decision{Say: dtmf.StripTags(event.Text)}
	for _, payload := range dtmf.Parse(event.Text) {
		// Attempts are recorded at tone-group granularity so the navigator's
		// per-digit Tried checks see what was actually dialed.
		tones := dtmf.SplitByContext(payload, e.state.Context)
		d.Tones = append(d.Tones, tones...)
		for _, tone := range tones {
			e.state.RecordAttempt(tone)
		}
		e.lastDTMF = payload
	}
	d.Status = e.Status()
	return d
}

func (e *Engine) processRemote(ctx context.Context, event types.TranscriptEvent) (Decision, error) {
	result := e.detector.Observe(event)

	var d Decision
	if e.detector.Mode() != types.ModeIVR || result.Kind != classify.KindMenu {
		d.Status = e.Status()
		return d, nil
	}

	// A detected loop with the operator digit already spent means the
	// scripted chain is going in circles; escalate straight to the LLM.
	var action types.NavigationAction
	if e.detector.LoopDetected() && e.state.Tried("0") {
		action = types.FallbackAI("menu loop detected, operator already attempted")
	} else {
		action = e.navigator.SelectDigit(event.Text)
	}
	d.Action = &action

	switch action.Kind {
	case types.ActionPressDigit:
		d.Tones = dtmf.SplitByContext(action.Digit, e.state.Context)
		e.navigator.RecordAttempt(action.Digit)
		e.lastDTMF = action.Digit
	case types.ActionFallbackAI:
		reply, err := e.fallback.HandleMenu(ctx, fallback.Request{
			Goal:            e.cfg.Goal,
			MenuText:        event.Text,
			AttemptedDigits: e.state.AttemptedDigits(),
			Reason:          action.Reason,
		})
		if err != nil {
			d.Status = e.Status()
			return d, fmt.Errorf("fallback handler: %w", err)
		}
		for _, payload := range dtmf.Parse(reply.Text) {
			tones := dtmf.SplitByContext(payload, e.state.Context)
			d.Tones = append(d.Tones, tones...)
			for _, tone := range tones {
				e.state.RecordAttempt(tone)
			}
			e.lastDTMF = payload
		}
		d.Say = dtmf.StripTags(reply.Text)
	}

	d.Status = e.Status()
	return d, nil
}

// RecordFailure marks a previously dialed digit as rejected by the menu.
func (e *Engine) RecordFailure(digit string) {
	e.navigator.RecordFailure(digit)
}

// Status returns the current per-call snapshot. Slices are copies; the
// caller may retain them.
func (e *Engine) Status() types.Status {
	ivrCount, humanCount := e.detector.ConsecutiveCounts()
	return types.Status{
		Mode:                  e.detector.Mode(),
		LoopDetected:          e.detector.LoopDetected(),
		ConsecutiveIVRCount:   ivrCount,
		ConsecutiveHumanCount: humanCount,
		LastDTMFSent:          e.lastDTMF,
		AttemptedDTMF:         e.state.AttemptedDigits(),
		FailedDTMF:            e.state.FailedDigits(),
		LastMenuTranscript:    e.detector.LastMenuText(),
		MenuState:             e.state.Snapshot(),
	}
}
