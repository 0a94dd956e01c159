package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxhall/interject/internal/health"
	"github.com/voxhall/interject/internal/words"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func populatedStore() *words.Store {
	snap := words.NewSnapshot("en")
	snap.IgnoredByLang["en"] = words.NewWordSet([]string{"umm"})
	return words.NewStore(snap)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := health.New(nil, nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "ok" {
		t.Errorf("body status: got %v, want ok", body["status"])
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		session    health.Pinger
		store      *words.Store
		wantStatus int
	}{
		{
			name:       "all healthy",
			session:    &stubPinger{},
			store:      populatedStore(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "nil session is skipped",
			session:    nil,
			store:      populatedStore(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "session ping failure",
			session:    &stubPinger{err: errors.New("connection reset")},
			store:      populatedStore(),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "empty word store",
			session:    &stubPinger{},
			store:      words.NewStore(nil),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "missing word store",
			session:    &stubPinger{},
			store:      nil,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := health.New(tc.session, tc.store)
			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}

			body := decode(t, rec)
			wantBody := "ok"
			if tc.wantStatus != http.StatusOK {
				wantBody = "fail"
			}
			if body["status"] != wantBody {
				t.Errorf("body status: got %v, want %v", body["status"], wantBody)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	health.New(&stubPinger{}, populatedStore()).Register(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: got %d, want 200", path, resp.StatusCode)
		}
	}
}
