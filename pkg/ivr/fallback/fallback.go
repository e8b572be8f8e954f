// Package fallback hands IVR menus the scripted navigator could not solve
// to an LLM-driven agent. The fallback is the engine's designed escape
// hatch: it is consulted only when rule-based navigation is exhausted.
package fallback

import "context"

// Request describes the stuck menu.
type Request struct {
	// Goal is the caller's navigation objective.
	Goal string
	// MenuText is the last transcript believed to be the menu prompt.
	MenuText string
	// AttemptedDigits lists every digit dialed so far this call.
	AttemptedDigits []string
	// Reason is the navigator's explanation for handing off.
	Reason string
}

// Reply is the fallback's guidance. Text may embed <dtmf>…</dtmf> tags;
// the engine parses and strips them before speaking.
type Reply struct {
	Text string
}

// Handler resolves stuck menus. Implementations may block on network I/O;
// they receive the call's context and must respect its cancellation.
type Handler interface {
	HandleMenu(ctx context.Context, req Request) (Reply, error)
}

// Noop is a Handler that offers no guidance. Used in tests and when no LLM
// credentials are configured.
type Noop struct{}

// HandleMenu implements Handler.
func (Noop) HandleMenu(ctx context.Context, req Request) (Reply, error) {
	return Reply{}, nil
}
