// Package turnstate tracks the current turn-state of the agent and the user
// from asynchronous state-change notifications.
//
// The tracker keeps exactly one current state per actor — no queue, no
// history. Updates are last-write-wins and lock-free, so event callbacks can
// push state from delivery goroutines without blocking transcript handling.
package turnstate

import "sync/atomic"

// TurnState represents a participant's position in the turn-taking cycle.
type TurnState int32

const (
	// Idle indicates the participant is doing nothing.
	Idle TurnState = iota

	// Listening indicates the participant is receiving the other's speech.
	Listening

	// Thinking indicates the agent is generating a response.
	Thinking

	// Speaking indicates the participant is producing speech output.
	Speaking
)

// String returns the lowercase name of the state.
func (s TurnState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Thinking:
		return "thinking"
	case Speaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// Parse maps a wire-level state name to a TurnState. Matching is
// case-insensitive in the ASCII range; unknown names return (Idle, false).
func Parse(name string) (TurnState, bool) {
	switch lowerASCII(name) {
	case "idle":
		return Idle, true
	case "listening":
		return Listening, true
	case "thinking":
		return Thinking, true
	case "speaking":
		return Speaking, true
	}
	return Idle, false
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Tracker maintains the agent's and the user's current [TurnState].
//
// All methods are safe for concurrent use. Every transition is legal — the
// tracker simply records the latest value it was told about.
type Tracker struct {
	agent atomic.Int32
	user  atomic.Int32
}

// NewTracker returns a Tracker with both actors in [Idle].
func NewTracker() *Tracker {
	return &Tracker{}
}

// UpdateAgent records the agent's new state. Idempotent, last-write-wins.
func (t *Tracker) UpdateAgent(state TurnState) {
	t.agent.Store(int32(state))
}

// UpdateUser records the user's new state. Idempotent, last-write-wins.
func (t *Tracker) UpdateUser(state TurnState) {
	t.user.Store(int32(state))
}

// Agent returns the agent's current state.
func (t *Tracker) Agent() TurnState {
	return TurnState(t.agent.Load())
}

// User returns the user's current state.
func (t *Tracker) User() TurnState {
	return TurnState(t.user.Load())
}

// IsAgentSpeaking reports whether the agent is currently producing speech.
func (t *Tracker) IsAgentSpeaking() bool {
	return t.Agent() == Speaking
}
