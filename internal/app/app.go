// Package app wires the Interject components together and runs the event
// loop: word-list store and watcher, turn-state tracker, classifier, and the
// dispatcher consuming the session's event stream.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/voxhall/interject/internal/classify"
	"github.com/voxhall/interject/internal/config"
	"github.com/voxhall/interject/internal/dispatch"
	"github.com/voxhall/interject/internal/observe"
	"github.com/voxhall/interject/internal/turnstate"
	"github.com/voxhall/interject/internal/words"
	"github.com/voxhall/interject/pkg/types"
)

// EventSource is the inbound boundary to the hosting voice session. The
// wired implementation is the websocket session in pkg/eventsource/ws; tests
// substitute a fake fed from slices.
type EventSource interface {
	Transcripts() <-chan types.Transcript
	StateChanges() <-chan types.StateChange
	Interrupt(ctx context.Context) error
	Close() error
}

// App is the assembled decision layer for one voice session.
type App struct {
	settings   config.Settings
	store      *words.Store
	watcher    *words.Watcher
	tracker    *turnstate.Tracker
	dispatcher *dispatch.Dispatcher
	source     EventSource
	metrics    *observe.Metrics
}

// New assembles an App from settings and a connected event source.
//
// The word store starts from the environment-provided lists. When a word
// config file is set it is layered on top immediately and then watched for
// changes; a file that fails to load at startup disables file-based
// configuration for the run rather than failing it.
func New(settings config.Settings, source EventSource) (*App, error) {
	if source == nil {
		return nil, fmt.Errorf("app: event source must not be nil")
	}

	store := words.NewStore(settings.InitialSnapshot())
	metrics := observe.DefaultMetrics()

	var watcher *words.Watcher
	if settings.WordConfigPath != "" {
		w, err := words.NewWatcher(settings.WordConfigPath, store,
			words.WithInterval(settings.WordConfigInterval),
			words.WithDefaultLanguage(settings.DefaultLanguage),
			words.WithOnSwap(func(_, _ *words.Snapshot) {
				metrics.RecordConfigReload(context.Background(), "ok")
			}),
		)
		if err != nil {
			slog.Warn("word config file unavailable, continuing with environment lists",
				"path", settings.WordConfigPath, "err", err)
		} else {
			watcher = w
		}
	}

	classifierOpts := []classify.Option{
		classify.WithMinInterruptionWords(settings.MinInterruptionWords),
		classify.WithConfidenceThreshold(settings.FillerConfidenceThreshold),
	}
	if settings.FuzzyFillerThreshold > 0 {
		classifierOpts = append(classifierOpts,
			classify.WithFuzzyFillerMatching(settings.FuzzyFillerThreshold))
	}
	classifier := classify.New(classifierOpts...)

	tracker := turnstate.NewTracker()
	dispatcher := dispatch.New(store, tracker, classifier, dispatch.InterruptFunc(source.Interrupt))

	return &App{
		settings:   settings,
		store:      store,
		watcher:    watcher,
		tracker:    tracker,
		dispatcher: dispatcher,
		source:     source,
		metrics:    metrics,
	}, nil
}

// Store exposes the word-list store, mainly for tests and diagnostics.
func (a *App) Store() *words.Store { return a.store }

// Tracker exposes the turn-state tracker, mainly for tests and diagnostics.
func (a *App) Tracker() *turnstate.Tracker { return a.tracker }

// Run consumes session events until ctx is cancelled or the event source
// closes its channels. State-change events and transcripts are pumped
// concurrently so a slow interrupt call cannot delay turn-state updates.
func (a *App) Run(ctx context.Context) error {
	a.metrics.ActiveSessions.Add(ctx, 1)
	defer a.metrics.ActiveSessions.Add(ctx, -1)

	parent := ctx
	g, ctx := errgroup.WithContext(ctx)

	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(ctx)
		})
	}

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case t, ok := <-a.source.Transcripts():
				if !ok {
					return fmt.Errorf("app: transcript stream closed")
				}
				a.dispatcher.HandleTranscript(ctx, t)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sc, ok := <-a.source.StateChanges():
				if !ok {
					return fmt.Errorf("app: state stream closed")
				}
				a.dispatcher.HandleStateChange(ctx, sc)
			}
		}
	})

	err := g.Wait()
	if parent.Err() != nil {
		// Cancelled shutdown is the normal exit path.
		return nil
	}
	return err
}

// Shutdown releases the event source connection.
func (a *App) Shutdown() error {
	return a.source.Close()
}
