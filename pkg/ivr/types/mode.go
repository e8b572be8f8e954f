// Package types defines the shared data model for the IVR detection and
// navigation engine.
package types

// Mode is the call-level classification of the remote party.
type Mode string

const (
	ModeUnknown      Mode = "unknown"
	ModeConversation Mode = "conversation"
	ModeIVR          Mode = "ivr"
	ModeVoicemail    Mode = "voicemail"
)

// Speaker identifies which side of the call produced an utterance.
type Speaker string

const (
	SpeakerAgent  Speaker = "agent"
	SpeakerRemote Speaker = "remote"
)

// DTMFContext describes the input shape a menu prompt expects. It is supplied
// by the caller, not inferred from prompt text.
type DTMFContext string

const (
	ContextUnknown   DTMFContext = "unknown"
	ContextMenu      DTMFContext = "menu"
	ContextExtension DTMFContext = "extension"
	ContextPIN       DTMFContext = "pin"
	ContextVoicemail DTMFContext = "voicemail"
)
