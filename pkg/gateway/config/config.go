// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Config holds the gateway's operational settings. Engine tuning lives in
// types.DetectorConfig; per-call fields (goal, DTMF context) arrive in the
// client's hello message and override the defaults here.
type Config struct {
	Addr string

	// Default navigation settings for calls whose hello omits them.
	DefaultGoal    string
	DefaultContext types.DTMFContext

	// Engine tuning applied to every call.
	LoopSimilarityThreshold    float64
	ConsecutiveClassifications int
	MaxTranscriptHistory       int
	MinTranscriptLength        int
	MaxAttempts                int

	// LLM fallback. An empty API key disables the Anthropic handler.
	AnthropicAPIKey string
	AnthropicModel  string

	// Live WebSocket limits.
	MaxSessions         int
	MaxJSONMessageBytes int64
	WSWriteTimeout      time.Duration
	WSPingInterval      time.Duration
	WSMaxCallDuration   time.Duration

	// Operational defaults.
	ReadHeaderTimeout   time.Duration
	ShutdownGracePeriod time.Duration
}

// LoadFromEnv builds a Config from VAI_IVR_* environment variables.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                       envOr("VAI_IVR_ADDR", ":8080"),
		DefaultGoal:                envOr("VAI_IVR_DEFAULT_GOAL", "reach a human"),
		DefaultContext:             types.DTMFContext(envOr("VAI_IVR_DEFAULT_DTMF_CONTEXT", string(types.ContextMenu))),
		LoopSimilarityThreshold:    envFloat64Or("VAI_IVR_LOOP_SIMILARITY_THRESHOLD", types.DefaultLoopSimilarityThreshold),
		ConsecutiveClassifications: envIntOr("VAI_IVR_CONSECUTIVE_CLASSIFICATIONS", types.DefaultConsecutiveClassifications),
		MaxTranscriptHistory:       envIntOr("VAI_IVR_MAX_TRANSCRIPT_HISTORY", types.DefaultMaxTranscriptHistory),
		MinTranscriptLength:        envIntOr("VAI_IVR_MIN_TRANSCRIPT_LENGTH", types.DefaultMinTranscriptLength),
		MaxAttempts:                envIntOr("VAI_IVR_MAX_ATTEMPTS", types.DefaultMaxAttempts),
		AnthropicAPIKey:            os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:             envOr("VAI_IVR_ANTHROPIC_MODEL", ""),
		MaxSessions:                envIntOr("VAI_IVR_MAX_SESSIONS", 256),
		MaxJSONMessageBytes:        envInt64Or("VAI_IVR_MAX_JSON_MESSAGE_BYTES", 64*1024),
		WSWriteTimeout:             envDurationOr("VAI_IVR_WS_WRITE_TIMEOUT", 5*time.Second),
		WSPingInterval:             envDurationOr("VAI_IVR_WS_PING_INTERVAL", 20*time.Second),
		WSMaxCallDuration:          envDurationOr("VAI_IVR_WS_MAX_CALL_DURATION", 2*time.Hour),
		ReadHeaderTimeout:          envDurationOr("VAI_IVR_READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGracePeriod:        envDurationOr("VAI_IVR_SHUTDOWN_GRACE", 10*time.Second),
	}

	var problems []string
	if cfg.LoopSimilarityThreshold <= 0 || cfg.LoopSimilarityThreshold > 1 {
		problems = append(problems, "VAI_IVR_LOOP_SIMILARITY_THRESHOLD must be in (0, 1]")
	}
	if cfg.ConsecutiveClassifications < 1 {
		problems = append(problems, "VAI_IVR_CONSECUTIVE_CLASSIFICATIONS must be >= 1")
	}
	if cfg.MaxSessions < 1 {
		problems = append(problems, "VAI_IVR_MAX_SESSIONS must be >= 1")
	}
	switch cfg.DefaultContext {
	case types.ContextUnknown, types.ContextMenu, types.ContextExtension, types.ContextPIN, types.ContextVoicemail:
	default:
		problems = append(problems, fmt.Sprintf("VAI_IVR_DEFAULT_DTMF_CONTEXT %q is not a known context", cfg.DefaultContext))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

// DetectorConfig assembles the engine configuration for one call.
func (c Config) DetectorConfig(goal string, ctx types.DTMFContext) types.DetectorConfig {
	if goal == "" {
		goal = c.DefaultGoal
	}
	if ctx == "" {
		ctx = c.DefaultContext
	}
	return types.DetectorConfig{
		Goal:                       goal,
		LoopSimilarityThreshold:    c.LoopSimilarityThreshold,
		ConsecutiveClassifications: c.ConsecutiveClassifications,
		MaxTranscriptHistory:       c.MaxTranscriptHistory,
		MinTranscriptLength:        c.MinTranscriptLength,
		MaxAttempts:                c.MaxAttempts,
		Context:                    ctx,
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat64Or(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
