// Package classify maps a single transcript utterance to a call
// classification using deterministic keyword rules. It is intentionally
// simple: every rule is explainable, evaluation is one pass over the text,
// and unmatched text is unknown rather than a guess.
package classify

import "strings"

// Kind is the classification of one utterance.
type Kind string

const (
	KindMenu      Kind = "menu"
	KindHuman     Kind = "human"
	KindVoicemail Kind = "voicemail"
	KindUnknown   Kind = "unknown"
)

// Result carries the classification and the cue that produced it.
type Result struct {
	Kind Kind
	Cue  string
}

// Voicemail cues are checked first: greetings like "press 1 to leave a
// message" would otherwise match the menu rules, and reacting late to
// voicemail wastes the message window.
var voicemailCues = []string{
	"leave a message after the tone",
	"leave a message after the beep",
	"leave your message",
	"record your message",
	"at the tone, please",
	"after the beep",
	"is not available to take your call",
	"has a voicemail box that has not been set up",
	"you have reached the voicemail",
	"mailbox is full",
	"to leave a voicemail",
}

var menuCues = []string{
	"press ",
	"for more options",
	"to repeat this menu",
	"to hear these options again",
	"main menu",
	"say or press",
	"using your keypad",
	"por favor oprima",
	"enter your",
	"followed by the pound",
	"para español",
	"your call may be monitored",
	"your call may be recorded",
	"please listen carefully",
	"our menu options have changed",
	"please hold for the next available",
}

var humanCues = []string{
	"how can i help",
	"how may i help",
	"how can i assist",
	"what can i do for you",
	"speaking, how",
	"this is ",
	"you're speaking with",
	"what's this regarding",
	"who am i speaking",
	"can you hear me",
}

// Classify inspects one utterance. It never fails; text matching no rule is
// KindUnknown. Runs in a single scan per cue list.
func Classify(text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Result{Kind: KindUnknown}
	}

	if cue, ok := firstCue(lower, voicemailCues); ok {
		return Result{Kind: KindVoicemail, Cue: cue}
	}
	if cue, ok := firstCue(lower, menuCues); ok {
		return Result{Kind: KindMenu, Cue: cue}
	}
	if cue, ok := firstCue(lower, humanCues); ok {
		return Result{Kind: KindHuman, Cue: cue}
	}
	return Result{Kind: KindUnknown}
}

func firstCue(lower string, cues []string) (string, bool) {
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return cue, true
		}
	}
	return "", false
}
