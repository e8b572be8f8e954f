package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are navigating an automated phone menu on a live call.
You will be given the caller's goal, the menu transcript, and the digits already tried.
Reply with at most one short sentence to speak, and embed any digits to dial as <dtmf>digits</dtmf> tags.
If nothing useful can be done, reply with exactly: stay on the line.`

// Anthropic is a Handler backed by the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic fallback handler. An empty model uses
// the default.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = defaultModel
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// HandleMenu implements Handler.
func (a *Anthropic) HandleMenu(ctx context.Context, req Request) (Reply, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Goal: %s\n", req.Goal)
	fmt.Fprintf(&prompt, "Menu transcript: %s\n", req.MenuText)
	if len(req.AttemptedDigits) > 0 {
		fmt.Fprintf(&prompt, "Digits already tried: %s\n", strings.Join(req.AttemptedDigits, ", "))
	}
	fmt.Fprintf(&prompt, "Handed off because: %s\n", req.Reason)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.String())),
		},
	})
	if err != nil {
		return Reply{}, fmt.Errorf("fallback anthropic call: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return Reply{Text: strings.TrimSpace(block.Text)}, nil
		}
	}
	return Reply{}, fmt.Errorf("no text content in fallback response")
}
