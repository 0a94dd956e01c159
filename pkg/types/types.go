// Package types defines the shared event types used across all Interject
// packages.
//
// These types form the lingua franca between the session event source, the
// dispatcher, and the state tracker. They mirror the wire-level events the
// external session collaborator delivers — each package defines its own
// domain types, but cross-cutting data structures live here to avoid circular
// imports.
package types

// Transcript is a speech-to-text result delivered by the external
// speech-recognition collaborator. Both partial (interim) and final
// transcripts use this type. Transcripts are ephemeral and never persisted.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// IsFinal indicates whether this is a final (authoritative) or partial
	// (interim) transcript.
	IsFinal bool

	// Language is the BCP-47 language tag reported for the utterance
	// (e.g., "en-US"). Empty when the recognizer does not report one.
	Language string

	// Confidence is the overall confidence score (0.0–1.0). Nil when the
	// provider does not report confidence — most streaming recognizers
	// currently don't.
	Confidence *float64
}

// Actor identifies which participant a state-change event refers to.
type Actor string

const (
	ActorAgent Actor = "agent"
	ActorUser  Actor = "user"
)

// IsValid reports whether a is a recognised actor.
func (a Actor) IsValid() bool {
	return a == ActorAgent || a == ActorUser
}

// StateChange is a turn-state transition notification delivered by the
// external session collaborator. States are carried as strings on the wire;
// the tracker parses them into turnstate values.
type StateChange struct {
	// Actor is the participant whose state changed.
	Actor Actor

	// OldState is the state being left (informational only).
	OldState string

	// NewState is the state being entered.
	NewState string
}
