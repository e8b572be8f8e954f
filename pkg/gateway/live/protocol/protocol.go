// Package protocol defines the JSON wire messages for the live call feed.
// The telephony host streams transcript events to the gateway over one
// websocket per call and receives DTMF and status frames back.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

const ProtocolVersion1 = "1"

// Client → server message types.
const (
	TypeHello      = "hello"
	TypeTranscript = "transcript"
	TypeDTMFResult = "dtmf_result"
	TypeBye        = "bye"
)

// Server → client message types.
const (
	TypeHelloAck = "hello_ack"
	TypeDTMF     = "dtmf"
	TypeSay      = "say"
	TypeStatus   = "status"
	TypeError    = "error"
)

// DecodeError is a protocol violation the session reports before closing.
type DecodeError struct {
	Code    string
	Message string
	Param   string
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Param) == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Param)
}

func badRequest(message, param string) *DecodeError {
	return &DecodeError{Code: "bad_request", Message: message, Param: param}
}

func unsupported(message, param string) *DecodeError {
	return &DecodeError{Code: "unsupported", Message: message, Param: param}
}

// Hello opens a call session.
type Hello struct {
	Type        string            `json:"type"`
	Version     string            `json:"version,omitempty"`
	Goal        string            `json:"goal,omitempty"`
	DTMFContext types.DTMFContext `json:"dtmf_context,omitempty"`
	ClientName  string            `json:"client_name,omitempty"`
}

// Transcript carries one transcribed utterance.
type Transcript struct {
	Type        string        `json:"type"`
	Speaker     types.Speaker `json:"speaker"`
	Text        string        `json:"text"`
	TimestampMS int64         `json:"timestamp_ms,omitempty"`
}

// Event converts a Transcript frame into the engine's input type.
func (t Transcript) Event() types.TranscriptEvent {
	ts := time.UnixMilli(t.TimestampMS)
	if t.TimestampMS == 0 {
		ts = time.Now()
	}
	return types.TranscriptEvent{Speaker: t.Speaker, Text: t.Text, Timestamp: ts}
}

// DTMFResult reports whether a previously sent digit was accepted by the
// remote menu. Rejected digits feed the navigator's failed set.
type DTMFResult struct {
	Type     string `json:"type"`
	Digit    string `json:"digit"`
	Accepted bool   `json:"accepted"`
}

// Bye ends the call from the client side.
type Bye struct {
	Type string `json:"type"`
}

// HelloAck confirms session setup.
type HelloAck struct {
	Type        string            `json:"type"`
	CallID      string            `json:"call_id"`
	Goal        string            `json:"goal"`
	DTMFContext types.DTMFContext `json:"dtmf_context"`
}

// DTMF instructs the host to dial tone groups, in order.
type DTMF struct {
	Type   string   `json:"type"`
	Tones  []string `json:"tones"`
	Digit  string   `json:"digit,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// Say carries text for the host to speak to the remote party.
type Say struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Status publishes the engine's per-call snapshot after each utterance.
type Status struct {
	Type   string       `json:"type"`
	Status types.Status `json:"status"`
}

// ErrorFrame reports a session-level failure to the client.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// NewErrorFrame builds an ErrorFrame from a DecodeError.
func NewErrorFrame(err *DecodeError) ErrorFrame {
	return ErrorFrame{Type: TypeError, Code: err.Code, Message: err.Message, Param: err.Param}
}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses one client frame. Unknown fields and unknown types are
// protocol violations: a telephony host speaking a different dialect must
// fail loudly, not silently drop navigation input.
func Decode(data []byte) (any, *DecodeError) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, badRequest("frame is not valid JSON", "")
	}

	switch env.Type {
	case TypeHello:
		var msg Hello
		if derr := strictUnmarshal(data, &msg); derr != nil {
			return nil, derr
		}
		if msg.Version != "" && msg.Version != ProtocolVersion1 {
			return nil, unsupported("unsupported protocol version", "version")
		}
		switch msg.DTMFContext {
		case "", types.ContextUnknown, types.ContextMenu, types.ContextExtension, types.ContextPIN, types.ContextVoicemail:
		default:
			return nil, badRequest("unknown dtmf context", "dtmf_context")
		}
		return msg, nil
	case TypeTranscript:
		var msg Transcript
		if derr := strictUnmarshal(data, &msg); derr != nil {
			return nil, derr
		}
		switch msg.Speaker {
		case types.SpeakerAgent, types.SpeakerRemote:
		default:
			return nil, badRequest("speaker must be agent or remote", "speaker")
		}
		return msg, nil
	case TypeDTMFResult:
		var msg DTMFResult
		if derr := strictUnmarshal(data, &msg); derr != nil {
			return nil, derr
		}
		if msg.Digit == "" {
			return nil, badRequest("digit is required", "digit")
		}
		return msg, nil
	case TypeBye:
		var msg Bye
		if derr := strictUnmarshal(data, &msg); derr != nil {
			return nil, derr
		}
		return msg, nil
	case "":
		return nil, badRequest("frame is missing a type", "type")
	default:
		return nil, unsupported(fmt.Sprintf("unknown frame type %q", env.Type), "type")
	}
}

func strictUnmarshal(data []byte, v any) *DecodeError {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Sprintf("malformed frame: %v", err), "")
	}
	return nil
}
