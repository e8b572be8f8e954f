package ivr

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-go/vai-ivr/pkg/ivr/fallback"
	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

const menuText = "Press 1 for sales. Press 2 for support."

func remote(text string) types.TranscriptEvent {
	return types.TranscriptEvent{Speaker: types.SpeakerRemote, Text: text, Timestamp: time.Now()}
}

func agentEvent(text string) types.TranscriptEvent {
	return types.TranscriptEvent{Speaker: types.SpeakerAgent, Text: text, Timestamp: time.Now()}
}

type recordingFallback struct {
	reply fallback.Reply
	err   error
	reqs  []fallback.Request
}

func (f *recordingFallback) HandleMenu(ctx context.Context, req fallback.Request) (fallback.Reply, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

// eagerConfig commits to a mode on the first classification so tests can
// assert on single decisions.
func eagerConfig(goal string) types.DetectorConfig {
	return types.DetectorConfig{
		Goal:                       goal,
		ConsecutiveClassifications: 1,
		Context:                    types.ContextMenu,
	}
}

func TestEngine_NewCallStatus(t *testing.T) {
	e := New(types.DetectorConfig{Goal: "reach a human"})
	st := e.Status()
	if st.Mode != types.ModeUnknown {
		t.Errorf("expected unknown mode at call start, got %s", st.Mode)
	}
	if st.LoopDetected || len(st.AttemptedDTMF) != 0 {
		t.Errorf("expected clean status, got %+v", st)
	}
}

func TestEngine_DebouncedModeChange(t *testing.T) {
	e := New(types.DetectorConfig{Goal: "reach a human", ConsecutiveClassifications: 2})
	d, err := e.ProcessUtterance(context.Background(), remote(menuText))
	if err != nil {
		t.Fatal(err)
	}
	if d.Status.Mode != types.ModeUnknown {
		t.Errorf("single classification must not flip mode, got %s", d.Status.Mode)
	}
	if d.Action != nil {
		t.Errorf("no navigation before mode commit, got %+v", d.Action)
	}
	d, err = e.ProcessUtterance(context.Background(), remote(menuText))
	if err != nil {
		t.Fatal(err)
	}
	if d.Status.Mode != types.ModeIVR {
		t.Errorf("expected ivr after second classification, got %s", d.Status.Mode)
	}
	if d.Action == nil {
		t.Error("expected navigation on the committing menu prompt")
	}
}

func TestEngine_MenuNavigation(t *testing.T) {
	e := New(eagerConfig("Reach the sales department"))
	d, err := e.ProcessUtterance(context.Background(), remote(menuText))
	if err != nil {
		t.Fatal(err)
	}
	if d.Status.Mode != types.ModeIVR {
		t.Fatalf("expected ivr mode, got %s", d.Status.Mode)
	}
	if d.Action == nil || d.Action.Kind != types.ActionPressDigit || d.Action.Digit != "1" {
		t.Fatalf("expected goal-matched press 1, got %+v", d.Action)
	}
	if !strings.Contains(d.Action.Reason, "goal match") {
		t.Errorf("expected goal match reason, got %q", d.Action.Reason)
	}
	if !reflect.DeepEqual(d.Tones, []string{"1"}) {
		t.Errorf("expected tones [1], got %v", d.Tones)
	}
	if d.Status.LastDTMFSent != "1" {
		t.Errorf("expected last dtmf recorded, got %q", d.Status.LastDTMFSent)
	}
	if !reflect.DeepEqual(d.Status.AttemptedDTMF, []string{"1"}) {
		t.Errorf("expected attempted set [1], got %v", d.Status.AttemptedDTMF)
	}
}

func TestEngine_ConversationProducesNoAction(t *testing.T) {
	e := New(eagerConfig("reach a human"))
	d, err := e.ProcessUtterance(context.Background(), remote("Hi, this is Morgan, how can I help you?"))
	if err != nil {
		t.Fatal(err)
	}
	if d.Status.Mode != types.ModeConversation {
		t.Errorf("expected conversation mode, got %s", d.Status.Mode)
	}
	if d.Action != nil || len(d.Tones) != 0 {
		t.Errorf("human speech must not produce navigation, got %+v", d)
	}
}

func TestEngine_VoicemailProducesNoAction(t *testing.T) {
	e := New(eagerConfig("reach a human"))
	d, err := e.ProcessUtterance(context.Background(), remote("Please leave a message after the tone."))
	if err != nil {
		t.Fatal(err)
	}
	if d.Status.Mode != types.ModeVoicemail {
		t.Errorf("expected voicemail mode, got %s", d.Status.Mode)
	}
	if d.Action != nil {
		t.Errorf("voicemail must not trigger navigation, got %+v", d.Action)
	}
}

func TestEngine_AgentDTMFTags(t *testing.T) {
	e := New(types.DetectorConfig{Goal: "reach a human", Context: types.ContextExtension})
	d, err := e.ProcessUtterance(context.Background(), agentEvent("Dialing your extension now <dtmf>220</dtmf>"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Tones, []string{"220#"}) {
		t.Errorf("expected extension tones [220#], got %v", d.Tones)
	}
	if d.Say != "Dialing your extension now" {
		t.Errorf("expected stripped say text, got %q", d.Say)
	}
	if d.Status.LastDTMFSent != "220" {
		t.Errorf("expected last dtmf 220, got %q", d.Status.LastDTMFSent)
	}
}

func TestEngine_AgentDTMFRecordedPerTone(t *testing.T) {
	e := New(eagerConfig("reach a human"))
	d, err := e.ProcessUtterance(context.Background(), agentEvent("<dtmf>220</dtmf>"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(d.Tones, []string{"2", "2", "0"}) {
		t.Fatalf("expected per-digit tones, got %v", d.Tones)
	}
	if !reflect.DeepEqual(d.Status.AttemptedDTMF, []string{"0", "2"}) {
		t.Errorf("expected attempted set [0 2], got %v", d.Status.AttemptedDTMF)
	}
	// The navigator sees the individual digits as spent.
	if !e.state.Tried("0") || !e.state.Tried("2") {
		t.Error("expected dialed digits marked tried")
	}
	if e.state.Tried("220") {
		t.Error("sequence string must not be recorded as a digit")
	}
}

func TestEngine_StatusCarriesMenuState(t *testing.T) {
	e := New(eagerConfig("Reach the sales department"))
	d, err := e.ProcessUtterance(context.Background(), remote(menuText))
	if err != nil {
		t.Fatal(err)
	}
	ms := d.Status.MenuState
	if ms.Context != types.ContextMenu {
		t.Errorf("expected menu context in snapshot, got %q", ms.Context)
	}
	if !reflect.DeepEqual(ms.Attempted, []string{"1"}) {
		t.Errorf("expected attempted [1] in snapshot, got %v", ms.Attempted)
	}
	if ms.LastMenuText != menuText {
		t.Errorf("expected last menu text in snapshot, got %q", ms.LastMenuText)
	}
}

func TestEngine_MalformedTextNeverFails(t *testing.T) {
	e := New(eagerConfig("reach a human"))
	for _, text := range []string{"", "   ", "<dtmf>", "press press press", "\x00\xff"} {
		if _, err := e.ProcessUtterance(context.Background(), remote(text)); err != nil {
			t.Errorf("ProcessUtterance(%q) returned error: %v", text, err)
		}
	}
}

func TestEngine_FallbackConsultedWhenExhausted(t *testing.T) {
	fb := &recordingFallback{reply: fallback.Reply{Text: "Try this <dtmf>9</dtmf>"}}
	cfg := eagerConfig("reach a human")
	cfg.MaxAttempts = 1
	e := New(cfg, WithFallback(fb))

	// The first menu spends the whole attempt budget on the operator digit.
	d, err := e.ProcessUtterance(context.Background(), remote("Press 4 for hours. Press 5 for directions."))
	if err != nil {
		t.Fatal(err)
	}
	if d.Action == nil || d.Action.Kind != types.ActionPressDigit || d.Action.Digit != "0" {
		t.Fatalf("expected operator digit first, got %+v", d.Action)
	}

	d, err = e.ProcessUtterance(context.Background(), remote("Press 4 for hours, press 5 for directions, and press 6 for parking."))
	if err != nil {
		t.Fatal(err)
	}
	if d.Action == nil || d.Action.Kind != types.ActionFallbackAI {
		t.Fatalf("expected fallback action, got %+v", d.Action)
	}
	if len(fb.reqs) != 1 {
		t.Fatalf("expected 1 fallback request, got %d", len(fb.reqs))
	}
	if !strings.Contains(fb.reqs[0].Reason, "max attempts") {
		t.Errorf("expected max attempts reason, got %q", fb.reqs[0].Reason)
	}
	if !reflect.DeepEqual(fb.reqs[0].AttemptedDigits, []string{"0"}) {
		t.Errorf("expected attempted digits [0], got %v", fb.reqs[0].AttemptedDigits)
	}
	if !reflect.DeepEqual(d.Tones, []string{"9"}) {
		t.Errorf("expected fallback-suggested tones [9], got %v", d.Tones)
	}
	if d.Say != "Try this" {
		t.Errorf("expected stripped fallback text, got %q", d.Say)
	}
}

func TestEngine_FallbackErrorSurfaced(t *testing.T) {
	fb := &recordingFallback{err: errors.New("api down")}
	cfg := eagerConfig("reach a human")
	cfg.MaxAttempts = 1
	e := New(cfg, WithFallback(fb))

	if _, err := e.ProcessUtterance(context.Background(), remote("Press 4 for hours.")); err != nil {
		t.Fatal(err)
	}
	_, err := e.ProcessUtterance(context.Background(), remote("Press 4 for hours, press 5 for directions."))
	if err == nil {
		t.Fatal("expected fallback error to surface")
	}
	if !strings.Contains(err.Error(), "fallback handler") {
		t.Errorf("expected wrapped fallback error, got %v", err)
	}
}

func TestEngine_LoopEscalatesToFallback(t *testing.T) {
	fb := &recordingFallback{}
	e := New(eagerConfig("reach billing"), WithFallback(fb))

	loopMenu := "Press 4 for hours. Press 5 for directions. Press 0 for an operator."
	d, err := e.ProcessUtterance(context.Background(), remote(loopMenu))
	if err != nil {
		t.Fatal(err)
	}
	if d.Action == nil || d.Action.Digit != "0" {
		t.Fatalf("expected operator attempt first, got %+v", d.Action)
	}

	// The identical prompt again means the operator press did nothing;
	// hand off instead of cycling the remaining digits.
	d, err = e.ProcessUtterance(context.Background(), remote(loopMenu))
	if err != nil {
		t.Fatal(err)
	}
	if d.Action == nil || d.Action.Kind != types.ActionFallbackAI {
		t.Fatalf("expected fallback on loop, got %+v", d.Action)
	}
	if !strings.Contains(d.Action.Reason, "loop") {
		t.Errorf("expected loop reason, got %q", d.Action.Reason)
	}
	if !d.Status.LoopDetected {
		t.Error("expected loop flag in status")
	}
}

func TestEngine_RecordFailureKeepsInvariant(t *testing.T) {
	e := New(eagerConfig("reach a human"))
	e.RecordFailure("3")
	st := e.Status()
	attempted := map[string]bool{}
	for _, d := range st.AttemptedDTMF {
		attempted[d] = true
	}
	if len(st.FailedDTMF) == 0 {
		t.Fatal("expected a failed digit recorded")
	}
	for _, d := range st.FailedDTMF {
		if !attempted[d] {
			t.Errorf("failed digit %q not in attempted set", d)
		}
	}
}
