// Package dtmf extracts and validates touch-tone directives embedded in
// agent-generated text.
//
// The agent signals digits with <dtmf>…</dtmf> tags, e.g. "One moment
// <dtmf>2</dtmf> while I connect you." Valid payload characters are digits,
// star, pound, the DTMF letters A-D, and "w" (a half-second pause).
package dtmf

import (
	"regexp"
	"strings"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

var tagPattern = regexp.MustCompile(`(?i)<dtmf>([0-9*#a-dw]+)</dtmf>`)

// Parse returns all DTMF payloads in text, in order of appearance.
// Text with no tags returns nil.
func Parse(text string) []string {
	if text == "" {
		return nil
	}
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// StripTags removes every DTMF tag from text and trims surrounding
// whitespace. The result is what should actually be spoken to the caller.
func StripTags(text string) string {
	if text == "" {
		return ""
	}
	stripped := tagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(stripped)
}

// SplitByContext splits a raw digit string into the tone groups to dial,
// according to the expected input shape.
//
// Menu prompts take one tone at a time, so "220" becomes ["2","2","0"].
// Extensions are dialed as a block and pound-terminated: "220" → ["220#"].
// PINs are dialed as a block with no terminator. Any other context falls
// back to per-digit dialing, which never merges tones that a menu would
// need separately.
func SplitByContext(digits string, ctx types.DTMFContext) []string {
	if digits == "" {
		return nil
	}
	switch ctx {
	case types.ContextExtension:
		if !strings.HasSuffix(digits, "#") {
			digits += "#"
		}
		return []string{digits}
	case types.ContextPIN:
		return []string{digits}
	default:
		out := make([]string, 0, len(digits))
		for _, r := range digits {
			out = append(out, string(r))
		}
		return out
	}
}
