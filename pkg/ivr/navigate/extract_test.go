package navigate

import (
	"reflect"
	"testing"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

func TestExtractMenuOptions_PressDigitFor(t *testing.T) {
	got := ExtractMenuOptions("Press 1 for sales. Press 2 for support.")
	want := []types.MenuOption{
		{Digit: "1", Description: "sales"},
		{Digit: "2", Description: "support"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_ForPressDigit(t *testing.T) {
	got := ExtractMenuOptions("For store hours, press 3. To reach a representative, press 0.")
	want := []types.MenuOption{
		{Digit: "3", Description: "store hours"},
		{Digit: "0", Description: "reach a representative"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_SayOrPress(t *testing.T) {
	got := ExtractMenuOptions("Say or press 1 for English.")
	want := []types.MenuOption{{Digit: "1", Description: "English"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_OptionPhrasing(t *testing.T) {
	got := ExtractMenuOptions("Option 4 for billing questions.")
	want := []types.MenuOption{{Digit: "4", Description: "billing questions"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_SpokenStarAndPound(t *testing.T) {
	got := ExtractMenuOptions("Press star for the main menu. Press pound to finish.")
	if len(got) != 2 {
		t.Fatalf("expected 2 options, got %v", got)
	}
	if got[0].Digit != "*" {
		t.Errorf("expected star normalized to *, got %q", got[0].Digit)
	}
	if got[1].Digit != "#" {
		t.Errorf("expected pound normalized to #, got %q", got[1].Digit)
	}
}

func TestExtractMenuOptions_DuplicateDigitKeepsFirst(t *testing.T) {
	got := ExtractMenuOptions("Press 1 for sales. Press 1 for new orders.")
	want := []types.MenuOption{{Digit: "1", Description: "sales"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_CommaSeparatedClauses(t *testing.T) {
	got := ExtractMenuOptions("Press 1 for sales, press 2 for support, or press 0 for an operator.")
	want := []types.MenuOption{
		{Digit: "1", Description: "sales"},
		{Digit: "2", Description: "support"},
		{Digit: "0", Description: "an operator"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractMenuOptions_NoPattern(t *testing.T) {
	for _, text := range []string{
		"Thank you for calling Acme Corporation.",
		"Hello, how can I help you?",
		"",
		"   ",
	} {
		if got := ExtractMenuOptions(text); got != nil {
			t.Errorf("ExtractMenuOptions(%q) = %v, want nil", text, got)
		}
	}
}

func TestExtractMenuOptions_Deterministic(t *testing.T) {
	text := "Press 1 for sales. For support, press 2. Say or press 3 for hours."
	first := ExtractMenuOptions(text)
	for i := 0; i < 5; i++ {
		if got := ExtractMenuOptions(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction not deterministic: %v vs %v", got, first)
		}
	}
	seen := map[string]bool{}
	for _, opt := range first {
		if seen[opt.Digit] {
			t.Errorf("duplicate digit %q in %v", opt.Digit, first)
		}
		seen[opt.Digit] = true
	}
}

func TestExtractMenuOptions_CaseInsensitive(t *testing.T) {
	got := ExtractMenuOptions("PRESS 5 FOR PHARMACY")
	if len(got) != 1 || got[0].Digit != "5" {
		t.Fatalf("expected digit 5, got %v", got)
	}
}
