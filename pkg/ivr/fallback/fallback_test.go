package fallback

import (
	"context"
	"testing"
)

func TestNoop_OffersNoGuidance(t *testing.T) {
	reply, err := Noop{}.HandleMenu(context.Background(), Request{
		Goal:     "reach billing",
		MenuText: "press 1 for sales",
		Reason:   "max attempts reached",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "" {
		t.Errorf("expected empty reply, got %q", reply.Text)
	}
}

func TestNewAnthropic_DefaultModel(t *testing.T) {
	h := NewAnthropic("test-key", "")
	if h.model != defaultModel {
		t.Errorf("expected default model, got %q", h.model)
	}

	h = NewAnthropic("test-key", "claude-haiku-4-5")
	if h.model != "claude-haiku-4-5" {
		t.Errorf("expected explicit model kept, got %q", h.model)
	}
}
