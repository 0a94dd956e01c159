package ws

import (
	"testing"

	"github.com/voxhall/interject/pkg/types"
)

func TestParseEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantKind eventKind
		check    func(t *testing.T, tr types.Transcript, sc types.StateChange)
	}{
		{
			name:     "final transcript",
			in:       `{"type":"transcript","text":"hold on","is_final":true,"language":"en-US","confidence":0.92}`,
			wantKind: eventTranscript,
			check: func(t *testing.T, tr types.Transcript, _ types.StateChange) {
				if tr.Text != "hold on" || !tr.IsFinal || tr.Language != "en-US" {
					t.Errorf("unexpected transcript: %+v", tr)
				}
				if tr.Confidence == nil || *tr.Confidence != 0.92 {
					t.Errorf("confidence not carried: %+v", tr.Confidence)
				}
			},
		},
		{
			name:     "partial transcript without confidence",
			in:       `{"type":"transcript","text":"umm","is_final":false}`,
			wantKind: eventTranscript,
			check: func(t *testing.T, tr types.Transcript, _ types.StateChange) {
				if tr.Text != "umm" || tr.IsFinal {
					t.Errorf("unexpected transcript: %+v", tr)
				}
				if tr.Confidence != nil {
					t.Errorf("absent confidence must stay nil, got %v", *tr.Confidence)
				}
			},
		},
		{
			name:     "state change",
			in:       `{"type":"state_changed","actor":"agent","old_state":"thinking","new_state":"speaking"}`,
			wantKind: eventStateChange,
			check: func(t *testing.T, _ types.Transcript, sc types.StateChange) {
				if sc.Actor != types.ActorAgent || sc.OldState != "thinking" || sc.NewState != "speaking" {
					t.Errorf("unexpected state change: %+v", sc)
				}
			},
		},
		{
			name:     "unknown type skipped",
			in:       `{"type":"heartbeat"}`,
			wantKind: eventUnknown,
		},
		{
			name:     "malformed json skipped",
			in:       `{"type":"transcript",`,
			wantKind: eventUnknown,
		},
		{
			name:     "empty object skipped",
			in:       `{}`,
			wantKind: eventUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tr, sc, kind := parseEvent([]byte(tc.in))
			if kind != tc.wantKind {
				t.Fatalf("parseEvent kind: got %v, want %v", kind, tc.wantKind)
			}
			if tc.check != nil {
				tc.check(t, tr, sc)
			}
		})
	}
}
