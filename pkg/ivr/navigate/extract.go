package navigate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// Menu phrasings seen in the wild. The digit may be spoken ("star",
// "pound") or literal; descriptions run to the next clause boundary.
var (
	// "press 1 for sales", "say or press 2 to reach billing", "option 3 for hours"
	digitFirstPattern = regexp.MustCompile(`(?i)(?:say or press|press|option)\s+(star|pound|[0-9*#])\s+(?:for|to(?: reach| speak(?: with| to)?)?)\s+([^.,;!?]+)`)
	// "for sales, press 1", "to reach a representative, press 0"
	digitLastPattern = regexp.MustCompile(`(?i)(?:for|to)\s+([^.,;!?]+?),?\s+(?:please\s+)?press\s+(star|pound|[0-9*#])`)
)

type rawOption struct {
	start int
	end   int
	digit string
	desc  string
}

// ExtractMenuOptions pulls structured options out of a free-text menu
// prompt. Matches are returned in order of appearance; if the same digit is
// mentioned twice, the first mention wins. Text with no recognizable
// phrasing returns nil, never an error.
func ExtractMenuOptions(text string) []types.MenuOption {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raw []rawOption
	for _, m := range digitFirstPattern.FindAllStringSubmatchIndex(text, -1) {
		raw = append(raw, rawOption{
			start: m[0],
			end:   m[1],
			digit: normalizeDigit(text[m[2]:m[3]]),
			desc:  strings.TrimSpace(text[m[4]:m[5]]),
		})
	}
	// "for Y, press X" clauses, skipping spans already claimed above. A
	// digit-first clause like "press 1 for sales, press 2 for support"
	// would otherwise also read as "for sales, press 2".
	claimed := make([]rawOption, len(raw))
	copy(claimed, raw)
	for _, m := range digitLastPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlapsAny(claimed, m[0], m[1]) {
			continue
		}
		raw = append(raw, rawOption{
			start: m[0],
			end:   m[1],
			digit: normalizeDigit(text[m[4]:m[5]]),
			desc:  strings.TrimSpace(text[m[2]:m[3]]),
		})
	}
	if len(raw) == 0 {
		return nil
	}

	sort.SliceStable(raw, func(i, j int) bool { return raw[i].start < raw[j].start })

	seen := make(map[string]struct{}, len(raw))
	out := make([]types.MenuOption, 0, len(raw))
	for _, r := range raw {
		if r.digit == "" || r.desc == "" {
			continue
		}
		if _, dup := seen[r.digit]; dup {
			continue
		}
		seen[r.digit] = struct{}{}
		out = append(out, types.MenuOption{Digit: r.digit, Description: r.desc})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func overlapsAny(claimed []rawOption, start, end int) bool {
	for _, c := range claimed {
		if start < c.end && end > c.start {
			return true
		}
	}
	return false
}

func normalizeDigit(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "star":
		return "*"
	case "pound":
		return "#"
	default:
		return strings.TrimSpace(s)
	}
}
