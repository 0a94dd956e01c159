// Package health provides the liveness and readiness probes of the decision
// layer.
//
//   - /healthz — liveness; always returns 200 while the process serves HTTP.
//   - /readyz  — readiness; 200 only when the session connection is alive and
//     word-list configuration is loaded.
//
// Responses are JSON objects with a top-level "status" field ("ok" or "fail")
// and a "checks" map with the outcome of each probe.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/voxhall/interject/internal/words"
)

// probeTimeout bounds a single readiness probe.
const probeTimeout = 3 * time.Second

// Pinger is the subset of the session connection used for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the probe endpoints. Safe for concurrent use.
type Handler struct {
	session Pinger
	store   *words.Store
}

// New creates a probe handler. session may be nil, in which case the session
// check reports ok (useful before the connection is established in tests).
func New(session Pinger, store *words.Store) *Handler {
	return &Handler{session: session, store: store}
}

// Register adds the probe routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz always reports ok: a process that can answer is alive.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "ok"})
}

// Readyz reports ok only when the session connection answers a ping and the
// word store holds at least one configured word list.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"session": "ok",
		"words":   "ok",
	}
	ok := true

	if h.session != nil {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		err := h.session.Ping(ctx)
		cancel()
		if err != nil {
			checks["session"] = "fail: " + err.Error()
			ok = false
		}
	}

	if err := h.checkWords(); err != nil {
		checks["words"] = "fail: " + err.Error()
		ok = false
	}

	res := response{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !ok {
		res.Status = "fail"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}

// checkWords verifies that word-list configuration is present: the decision
// layer without any filler or command vocabulary would interrupt on every
// utterance.
func (h *Handler) checkWords() error {
	if h.store == nil {
		return errors.New("no word store")
	}
	snap := h.store.Current()
	if len(snap.IgnoredByLang) == 0 && len(snap.CommandsByLang) == 0 {
		return errors.New("no word lists configured")
	}
	return nil
}

type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
	}
}
