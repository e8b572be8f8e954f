package config

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DefaultContext != types.ContextMenu {
		t.Errorf("expected menu context default, got %q", cfg.DefaultContext)
	}
	if cfg.LoopSimilarityThreshold != types.DefaultLoopSimilarityThreshold {
		t.Errorf("expected default threshold, got %f", cfg.LoopSimilarityThreshold)
	}
	if cfg.WSWriteTimeout != 5*time.Second {
		t.Errorf("expected 5s write timeout, got %s", cfg.WSWriteTimeout)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("VAI_IVR_ADDR", ":9999")
	t.Setenv("VAI_IVR_MAX_ATTEMPTS", "3")
	t.Setenv("VAI_IVR_LOOP_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("VAI_IVR_WS_WRITE_TIMEOUT", "2s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.MaxAttempts != 3 || cfg.LoopSimilarityThreshold != 0.9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.WSWriteTimeout != 2*time.Second {
		t.Errorf("expected 2s write timeout, got %s", cfg.WSWriteTimeout)
	}
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("VAI_IVR_LOOP_SIMILARITY_THRESHOLD", "1.5")
	t.Setenv("VAI_IVR_DEFAULT_DTMF_CONTEXT", "carrier-pigeon")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "VAI_IVR_LOOP_SIMILARITY_THRESHOLD") {
		t.Errorf("expected threshold problem listed, got %v", err)
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("expected context problem listed, got %v", err)
	}
}

func TestConfig_DetectorConfig(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	dc := cfg.DetectorConfig("", "")
	if dc.Goal != cfg.DefaultGoal {
		t.Errorf("expected default goal, got %q", dc.Goal)
	}
	if dc.Context != cfg.DefaultContext {
		t.Errorf("expected default context, got %q", dc.Context)
	}

	dc = cfg.DetectorConfig("reach billing", types.ContextExtension)
	if dc.Goal != "reach billing" || dc.Context != types.ContextExtension {
		t.Errorf("per-call overrides not applied: %+v", dc)
	}
}
