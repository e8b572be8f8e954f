package navigate

import "strings"

// synonymTable expands a navigation goal into keywords matched against menu
// option descriptions. An entry fires when the goal mentions its key or any
// of its synonyms; the whole set is then added to the keyword pool.
var synonymTable = map[string][]string{
	"human":       {"representative", "agent", "operator", "person", "someone", "speak", "customer service"},
	"sales":       {"sell", "sale", "purchase", "buy", "order", "new customer"},
	"appointment": {"schedule", "scheduling", "booking", "book", "reschedule"},
	"billing":     {"bill", "payment", "pay", "account", "balance", "invoice"},
	"support":     {"help", "technical", "problem", "issue", "trouble"},
}

var goalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "department": {}, "get": {}, "i": {},
	"me": {}, "need": {}, "of": {}, "or": {}, "please": {}, "reach": {},
	"talk": {}, "team": {}, "the": {}, "to": {}, "want": {}, "with": {},
}

// expandGoal turns a natural-language goal into a lowercase keyword set.
// The goal's own significant words are kept, plus every synonym group the
// goal touches.
func expandGoal(goal string) []string {
	lower := strings.ToLower(strings.TrimSpace(goal))
	if lower == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var keywords []string
	add := func(kw string) {
		if _, ok := seen[kw]; ok {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) < 3 {
			continue
		}
		if _, stop := goalStopwords[word]; stop {
			continue
		}
		add(word)
	}

	for key, synonyms := range synonymTable {
		if !goalMentions(lower, key, synonyms) {
			continue
		}
		add(key)
		for _, s := range synonyms {
			add(s)
		}
	}
	return keywords
}

func goalMentions(goal, key string, synonyms []string) bool {
	if strings.Contains(goal, key) {
		return true
	}
	for _, s := range synonyms {
		if strings.Contains(goal, s) {
			return true
		}
	}
	return false
}
