// Package config loads runtime settings for Interject from the process
// environment. Every setting has a usable default: configuration can fail to
// parse, but startup never fails because of it — malformed values are logged
// and replaced by their defaults so the decision layer always comes up in a
// known-good state.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/voxhall/interject/internal/words"
)

// Defaults applied when an environment variable is unset or malformed.
const (
	DefaultIgnoredFillerWords        = "uh,umm,hmm,haan"
	DefaultInterruptCommandWords     = "wait,stop,no,hold on"
	DefaultFillerConfidenceThreshold = 0.6
	DefaultMinInterruptionWords      = 2
	DefaultLanguage                  = "en"
	DefaultWordConfigInterval        = 2 * time.Second
	DefaultListenAddr                = ":9097"
)

// LogLevel is a parsed slog level name.
type LogLevel string

// Level converts the configured name to an [slog.Level]. Unknown names fall
// back to info.
func (l LogLevel) Level() slog.Level {
	switch strings.ToLower(string(l)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Settings is the full runtime configuration of the service.
type Settings struct {
	// IgnoredFillerWords are the default-language filler tokens, already
	// normalized (lowercase, trimmed, no empties).
	IgnoredFillerWords []string

	// InterruptCommandWords are the default-language command words and
	// phrases, already normalized.
	InterruptCommandWords []string

	// FillerConfidenceThreshold is the minimum transcription confidence,
	// in [0, 1], required before a transcript may interrupt the agent.
	FillerConfidenceThreshold float64

	// MinInterruptionWords is the minimum token count before a partial
	// transcript is acted on; shorter partials are deferred until more
	// speech arrives. Filler-only speech is suppressed regardless of length.
	MinInterruptionWords int

	// DefaultLanguage is the language code used for transcripts that carry
	// no language tag and as the fallback for unknown tags.
	DefaultLanguage words.LanguageCode

	// WordConfigPath is an optional YAML file with per-language word lists.
	// Empty disables file-based configuration and hot reload.
	WordConfigPath string

	// WordConfigInterval is the polling interval for word-list hot reload.
	WordConfigInterval time.Duration

	// FuzzyFillerThreshold enables phonetic filler matching when > 0. The
	// value is the Jaro-Winkler acceptance threshold.
	FuzzyFillerThreshold float64

	// SessionURL is the websocket endpoint of the hosting voice session.
	SessionURL string

	// SessionToken is an optional bearer token for the session endpoint.
	SessionToken string

	// ListenAddr is the HTTP bind address for /metrics and health probes.
	ListenAddr string

	// LogLevel selects the slog verbosity.
	LogLevel LogLevel
}

// FromEnv reads all settings from the environment. It never returns an
// error: unset variables take their defaults and malformed values are logged
// at warn level and replaced by their defaults.
func FromEnv() Settings {
	s := Settings{
		IgnoredFillerWords:        words.ParseList(envOr("IGNORED_FILLER_WORDS", DefaultIgnoredFillerWords)),
		InterruptCommandWords:     words.ParseList(envOr("INTERRUPT_COMMAND_WORDS", DefaultInterruptCommandWords)),
		FillerConfidenceThreshold: envFloat("FILLER_CONFIDENCE_THRESHOLD", DefaultFillerConfidenceThreshold, 0, 1),
		MinInterruptionWords:      envInt("MIN_INTERRUPTION_WORDS", DefaultMinInterruptionWords, 1),
		DefaultLanguage:           words.Normalize(envOr("DEFAULT_LANGUAGE", DefaultLanguage)),
		WordConfigPath:            os.Getenv("WORD_CONFIG_PATH"),
		WordConfigInterval:        envDuration("WORD_CONFIG_INTERVAL", DefaultWordConfigInterval),
		FuzzyFillerThreshold:      envFloat("FUZZY_FILLER_THRESHOLD", 0, 0, 1),
		SessionURL:                os.Getenv("SESSION_URL"),
		SessionToken:              os.Getenv("SESSION_TOKEN"),
		ListenAddr:                envOr("LISTEN_ADDR", DefaultListenAddr),
		LogLevel:                  LogLevel(envOr("LOG_LEVEL", "info")),
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = DefaultLanguage
	}
	return s
}

// InitialSnapshot builds the starting word-list snapshot from the
// environment-provided lists, keyed under the default language.
func (s Settings) InitialSnapshot() *words.Snapshot {
	snap := words.NewSnapshot(s.DefaultLanguage)
	snap.IgnoredByLang[s.DefaultLanguage] = words.NewWordSet(s.IgnoredFillerWords)
	snap.CommandsByLang[s.DefaultLanguage] = words.NewWordSet(s.InterruptCommandWords)
	return snap
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envFloat parses key as a float in [min, max]. Out-of-range or unparseable
// values fall back with a warning.
func envFloat(key string, fallback, min, max float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f < min || f > max {
		slog.Warn("invalid numeric setting, using default",
			"key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

func envInt(key string, fallback, min int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < min {
		slog.Warn("invalid numeric setting, using default",
			"key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		slog.Warn("invalid duration setting, using default",
			"key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
