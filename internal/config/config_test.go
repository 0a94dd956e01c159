package config_test

import (
	"slices"
	"testing"
	"time"

	"github.com/voxhall/interject/internal/config"
)

// clearEnv unsets every variable FromEnv reads so tests start from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IGNORED_FILLER_WORDS", "INTERRUPT_COMMAND_WORDS",
		"FILLER_CONFIDENCE_THRESHOLD", "MIN_INTERRUPTION_WORDS",
		"DEFAULT_LANGUAGE", "WORD_CONFIG_PATH", "WORD_CONFIG_INTERVAL",
		"FUZZY_FILLER_THRESHOLD", "SESSION_URL", "SESSION_TOKEN",
		"LISTEN_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	s := config.FromEnv()

	if want := []string{"uh", "umm", "hmm", "haan"}; !slices.Equal(s.IgnoredFillerWords, want) {
		t.Errorf("ignored fillers: got %v, want %v", s.IgnoredFillerWords, want)
	}
	if want := []string{"wait", "stop", "no", "hold on"}; !slices.Equal(s.InterruptCommandWords, want) {
		t.Errorf("command words: got %v, want %v", s.InterruptCommandWords, want)
	}
	if s.FillerConfidenceThreshold != 0.6 {
		t.Errorf("confidence threshold: got %v, want 0.6", s.FillerConfidenceThreshold)
	}
	if s.MinInterruptionWords != 2 {
		t.Errorf("min interruption words: got %d, want 2", s.MinInterruptionWords)
	}
	if s.DefaultLanguage != "en" {
		t.Errorf("default language: got %q, want en", s.DefaultLanguage)
	}
	if s.WordConfigInterval != 2*time.Second {
		t.Errorf("word config interval: got %v, want 2s", s.WordConfigInterval)
	}
	if s.FuzzyFillerThreshold != 0 {
		t.Errorf("fuzzy threshold should default to disabled, got %v", s.FuzzyFillerThreshold)
	}
	if s.ListenAddr != ":9097" {
		t.Errorf("listen addr: got %q, want :9097", s.ListenAddr)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("IGNORED_FILLER_WORDS", " Er , Ähm ,")
	t.Setenv("INTERRUPT_COMMAND_WORDS", "halt, warte mal")
	t.Setenv("FILLER_CONFIDENCE_THRESHOLD", "0.75")
	t.Setenv("MIN_INTERRUPTION_WORDS", "3")
	t.Setenv("DEFAULT_LANGUAGE", "de-DE")
	t.Setenv("WORD_CONFIG_INTERVAL", "500ms")
	t.Setenv("FUZZY_FILLER_THRESHOLD", "0.9")
	t.Setenv("LOG_LEVEL", "debug")

	s := config.FromEnv()

	if want := []string{"er", "ähm"}; !slices.Equal(s.IgnoredFillerWords, want) {
		t.Errorf("ignored fillers: got %v, want %v", s.IgnoredFillerWords, want)
	}
	if want := []string{"halt", "warte mal"}; !slices.Equal(s.InterruptCommandWords, want) {
		t.Errorf("command words: got %v, want %v", s.InterruptCommandWords, want)
	}
	if s.FillerConfidenceThreshold != 0.75 {
		t.Errorf("confidence threshold: got %v, want 0.75", s.FillerConfidenceThreshold)
	}
	if s.MinInterruptionWords != 3 {
		t.Errorf("min interruption words: got %d, want 3", s.MinInterruptionWords)
	}
	if s.DefaultLanguage != "de" {
		t.Errorf("default language: got %q, want de", s.DefaultLanguage)
	}
	if s.WordConfigInterval != 500*time.Millisecond {
		t.Errorf("word config interval: got %v, want 500ms", s.WordConfigInterval)
	}
	if s.FuzzyFillerThreshold != 0.9 {
		t.Errorf("fuzzy threshold: got %v, want 0.9", s.FuzzyFillerThreshold)
	}
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(t *testing.T, s config.Settings)
	}{
		{
			name: "non-numeric threshold", key: "FILLER_CONFIDENCE_THRESHOLD", value: "very high",
			check: func(t *testing.T, s config.Settings) {
				if s.FillerConfidenceThreshold != 0.6 {
					t.Errorf("got %v, want default 0.6", s.FillerConfidenceThreshold)
				}
			},
		},
		{
			name: "out-of-range threshold", key: "FILLER_CONFIDENCE_THRESHOLD", value: "1.5",
			check: func(t *testing.T, s config.Settings) {
				if s.FillerConfidenceThreshold != 0.6 {
					t.Errorf("got %v, want default 0.6", s.FillerConfidenceThreshold)
				}
			},
		},
		{
			name: "negative threshold", key: "FILLER_CONFIDENCE_THRESHOLD", value: "-0.2",
			check: func(t *testing.T, s config.Settings) {
				if s.FillerConfidenceThreshold != 0.6 {
					t.Errorf("got %v, want default 0.6", s.FillerConfidenceThreshold)
				}
			},
		},
		{
			name: "zero min words", key: "MIN_INTERRUPTION_WORDS", value: "0",
			check: func(t *testing.T, s config.Settings) {
				if s.MinInterruptionWords != 2 {
					t.Errorf("got %d, want default 2", s.MinInterruptionWords)
				}
			},
		},
		{
			name: "garbage interval", key: "WORD_CONFIG_INTERVAL", value: "soonish",
			check: func(t *testing.T, s config.Settings) {
				if s.WordConfigInterval != 2*time.Second {
					t.Errorf("got %v, want default 2s", s.WordConfigInterval)
				}
			},
		},
		{
			name: "negative interval", key: "WORD_CONFIG_INTERVAL", value: "-5s",
			check: func(t *testing.T, s config.Settings) {
				if s.WordConfigInterval != 2*time.Second {
					t.Errorf("got %v, want default 2s", s.WordConfigInterval)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			tc.check(t, config.FromEnv())
		})
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   config.LogLevel
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"WARN", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bananas", "INFO"},
		{"", "INFO"},
	}
	for _, tc := range tests {
		if got := tc.in.Level().String(); got != tc.want {
			t.Errorf("LogLevel(%q).Level(): got %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestInitialSnapshot(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_LANGUAGE", "hi")
	t.Setenv("IGNORED_FILLER_WORDS", "haan,hmm")
	t.Setenv("INTERRUPT_COMMAND_WORDS", "ruko")

	snap := config.FromEnv().InitialSnapshot()

	if snap.DefaultLanguage != "hi" {
		t.Errorf("default language: got %q, want hi", snap.DefaultLanguage)
	}
	ignored, commands := snap.Resolve("hi")
	if !ignored.Contains("haan") || !commands.Contains("ruko") {
		t.Errorf("snapshot missing env lists: %v / %v", ignored, commands)
	}

	// A transcript in another language resolves to the same default sets.
	ignored, _ = snap.Resolve("en")
	if !ignored.Contains("hmm") {
		t.Errorf("fallback to default language failed: %v", ignored)
	}
}
