// Package dispatch is the thin glue between the external session's event
// stream and the decision layer: it receives transcript and state-change
// events, resolves the active language's word sets, runs the classifier, and
// triggers the external interrupt action when required.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/voxhall/interject/internal/classify"
	"github.com/voxhall/interject/internal/observe"
	"github.com/voxhall/interject/internal/turnstate"
	"github.com/voxhall/interject/internal/words"
	"github.com/voxhall/interject/pkg/types"
)

// Interrupter is the outbound boundary to the session collaborator. Interrupt
// requests immediate cessation of agent speech output. The call must be
// idempotent-safe at the session end: interrupting an agent that is not
// speaking is a no-op there, not an error.
type Interrupter interface {
	Interrupt(ctx context.Context) error
}

// InterruptFunc adapts a function to the [Interrupter] interface.
type InterruptFunc func(ctx context.Context) error

// Interrupt calls f.
func (f InterruptFunc) Interrupt(ctx context.Context) error { return f(ctx) }

// Dispatcher routes session events through the classifier and acts on the
// outcome. It holds no locks of its own — the store and tracker it reads are
// lock-free — so an external interrupt call can never block unrelated event
// delivery.
//
// All methods are safe for concurrent use.
type Dispatcher struct {
	store      *words.Store
	tracker    *turnstate.Tracker
	classifier *classify.Classifier
	interrupt  Interrupter
	metrics    *observe.Metrics
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithMetrics injects a metrics instance instead of the package default.
// Tests use this with a manual-reader provider.
func WithMetrics(m *observe.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher. interrupt may be nil, in which case
// InterruptAgent decisions are logged but no external action is taken.
func New(store *words.Store, tracker *turnstate.Tracker, classifier *classify.Classifier, interrupt Interrupter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:      store,
		tracker:    tracker,
		classifier: classifier,
		interrupt:  interrupt,
	}
	for _, o := range opts {
		o(d)
	}
	if d.metrics == nil {
		d.metrics = observe.DefaultMetrics()
	}
	return d
}

// HandleTranscript classifies one transcript event and performs the decided
// action: invoke the external interrupt exactly once for InterruptAgent while
// the agent is speaking, nothing for IgnoreFiller, and no special action for
// Passthrough. Failures of the external call are logged and counted, never
// propagated — the decision layer must not take down the hosting session.
func (d *Dispatcher) HandleTranscript(ctx context.Context, t types.Transcript) {
	ctx, span := observe.StartSpan(ctx, "handle transcript")
	defer span.End()

	snap := d.store.Current()
	lang := words.Normalize(t.Language)
	if lang == "" {
		lang = snap.DefaultLanguage
	}
	ignored, commands := snap.Resolve(lang)
	agentSpeaking := d.tracker.IsAgentSpeaking()

	start := time.Now()
	decision := d.classifier.Classify(classify.Request{
		Text:          t.Text,
		IsFinal:       t.IsFinal,
		AgentSpeaking: agentSpeaking,
		Ignored:       ignored,
		Commands:      commands,
		Confidence:    t.Confidence,
	})
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("transcript.language", string(lang)),
		attribute.Bool("transcript.final", t.IsFinal),
		attribute.String("decision", decision.String()),
	)
	d.metrics.RecordDecision(ctx, decision.String(), string(lang), t.IsFinal, elapsed.Seconds())

	observe.Logger(ctx).Debug("transcript classified",
		"text", t.Text,
		"final", t.IsFinal,
		"language", lang,
		"agent_speaking", agentSpeaking,
		"decision", decision.String(),
	)

	switch decision {
	case classify.InterruptAgent:
		if !agentSpeaking || d.interrupt == nil {
			return
		}
		if err := d.interrupt.Interrupt(ctx); err != nil {
			d.metrics.RecordInterrupt(ctx, "error")
			observe.Logger(ctx).Warn("interrupt request failed", "err", err)
			return
		}
		d.metrics.RecordInterrupt(ctx, "ok")
		observe.Logger(ctx).Info("interrupting agent speech", "text", t.Text)

	case classify.IgnoreFiller:
		// Deliberately no action: filler must not cut off the agent.

	case classify.Passthrough:
		// Downstream dialogue handling proceeds normally.
	}
}

// HandleStateChange records a turn-state transition for the affected actor.
// Unknown state names or actors are logged and dropped — the tracker only
// ever records states it understands.
func (d *Dispatcher) HandleStateChange(ctx context.Context, sc types.StateChange) {
	state, ok := turnstate.Parse(sc.NewState)
	if !ok {
		slog.Warn("ignoring unknown turn state", "actor", sc.Actor, "state", sc.NewState)
		return
	}

	switch sc.Actor {
	case types.ActorAgent:
		d.tracker.UpdateAgent(state)
	case types.ActorUser:
		d.tracker.UpdateUser(state)
	default:
		slog.Warn("ignoring state change for unknown actor", "actor", sc.Actor)
		return
	}

	slog.Debug("turn state changed",
		"actor", sc.Actor,
		"old", sc.OldState,
		"new", state.String(),
	)
}
