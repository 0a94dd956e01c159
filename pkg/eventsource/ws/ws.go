// Package ws connects Interject to a hosting voice session over a WebSocket
// event stream. The session pushes JSON transcript and state-change events;
// Interject pushes interrupt requests back over the same connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/voxhall/interject/pkg/types"
)

// Option is a functional option for configuring a Dial.
type Option func(*dialConfig)

type dialConfig struct {
	token      string
	httpClient *http.Client
}

// WithToken sets a bearer token sent in the Authorization header.
func WithToken(token string) Option {
	return func(c *dialConfig) {
		c.token = token
	}
}

// WithHTTPClient sets the HTTP client used for the WebSocket handshake.
func WithHTTPClient(client *http.Client) Option {
	return func(c *dialConfig) {
		c.httpClient = client
	}
}

// Dial connects to the session event stream at url and starts receiving
// events. The returned Session owns the connection; close it to release the
// read goroutine.
func Dial(ctx context.Context, url string, opts ...Option) (*Session, error) {
	var cfg dialConfig
	for _, o := range opts {
		o(&cfg)
	}

	headers := http.Header{}
	if cfg.token != "" {
		headers.Set("Authorization", "Bearer "+cfg.token)
	}

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: headers,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("ws: dial: %w", err)
	}

	s := &Session{
		conn:         conn,
		transcripts:  make(chan types.Transcript, 64),
		stateChanges: make(chan types.StateChange, 16),
		done:         make(chan struct{}),
	}

	s.wg.Add(1)
	go s.readLoop(ctx)

	return s, nil
}

// envelope is the wire format of inbound session events. The type field
// selects which of the remaining fields are meaningful.
type envelope struct {
	Type string `json:"type"`

	// type == "transcript"
	Text       string   `json:"text"`
	IsFinal    bool     `json:"is_final"`
	Language   string   `json:"language"`
	Confidence *float64 `json:"confidence"`

	// type == "state_changed"
	Actor    string `json:"actor"`
	OldState string `json:"old_state"`
	NewState string `json:"new_state"`
}

// interruptMessage is the outbound wire format of an interrupt request.
type interruptMessage struct {
	Type string `json:"type"`
}

// Session is a live connection to the hosting voice session. Inbound events
// are decoded onto buffered channels; both channels are closed when the
// connection ends.
type Session struct {
	conn         *websocket.Conn
	transcripts  chan types.Transcript
	stateChanges chan types.StateChange

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup

	writeMu sync.Mutex
}

// Transcripts returns the channel of inbound transcript events.
func (s *Session) Transcripts() <-chan types.Transcript { return s.transcripts }

// StateChanges returns the channel of inbound turn-state events.
func (s *Session) StateChanges() <-chan types.StateChange { return s.stateChanges }

// Ping verifies the connection is still alive. Used by readiness probes.
func (s *Session) Ping(ctx context.Context) error {
	select {
	case <-s.done:
		return errors.New("ws: session is closed")
	default:
	}
	if err := s.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ws: ping: %w", err)
	}
	return nil
}

// Interrupt asks the session to stop agent speech output immediately.
func (s *Session) Interrupt(ctx context.Context) error {
	select {
	case <-s.done:
		return errors.New("ws: session is closed")
	default:
	}

	msg, err := json.Marshal(interruptMessage{Type: "interrupt"})
	if err != nil {
		return fmt.Errorf("ws: marshal interrupt: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return fmt.Errorf("ws: send interrupt: %w", err)
	}
	return nil
}

// Close terminates the session cleanly. Safe to call multiple times.
func (s *Session) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close(websocket.StatusNormalClosure, "session closed")
		s.wg.Wait()
	})
	return nil
}

// readLoop receives JSON messages from the session and dispatches them to the
// transcript and state-change channels.
func (s *Session) readLoop(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.transcripts)
	defer close(s.stateChanges)

	for {
		_, msg, err := s.conn.Read(ctx)
		if err != nil {
			// Normal close or context cancellation.
			return
		}

		t, sc, kind := parseEvent(msg)
		switch kind {
		case eventTranscript:
			select {
			case s.transcripts <- t:
			case <-s.done:
			}
		case eventStateChange:
			select {
			case s.stateChanges <- sc:
			case <-s.done:
			}
		}
	}
}

type eventKind int

const (
	eventUnknown eventKind = iota
	eventTranscript
	eventStateChange
)

// parseEvent parses a raw session message into a transcript or state-change
// event. Unknown or malformed messages return eventUnknown and are skipped.
func parseEvent(data []byte) (types.Transcript, types.StateChange, eventKind) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.Transcript{}, types.StateChange{}, eventUnknown
	}

	switch env.Type {
	case "transcript":
		return types.Transcript{
			Text:       env.Text,
			IsFinal:    env.IsFinal,
			Language:   env.Language,
			Confidence: env.Confidence,
		}, types.StateChange{}, eventTranscript

	case "state_changed":
		return types.Transcript{}, types.StateChange{
			Actor:    types.Actor(env.Actor),
			OldState: env.OldState,
			NewState: env.NewState,
		}, eventStateChange
	}

	return types.Transcript{}, types.StateChange{}, eventUnknown
}
