// Package classify implements the transcript classifier at the heart of the
// turn-taking decision layer.
//
// Classification is a pure function of its inputs: transcript text, finality,
// the agent's speaking flag, the active word sets, and an optional confidence
// score. It performs no I/O, holds no hidden state, and completes in
// microseconds so it can sit on the audio turn-taking path.
package classify

import (
	"slices"
	"strings"
	"unicode"

	"github.com/voxhall/interject/internal/words"
)

// Decision is the outcome of classifying one transcript fragment.
type Decision int

const (
	// Passthrough lets the transcript flow to normal dialogue handling.
	Passthrough Decision = iota

	// IgnoreFiller suppresses the fragment: it is disfluency noise that must
	// not cut off the agent.
	IgnoreFiller

	// InterruptAgent requests immediate cessation of agent speech.
	InterruptAgent
)

// String returns the snake_case name of the decision.
func (d Decision) String() string {
	switch d {
	case Passthrough:
		return "passthrough"
	case IgnoreFiller:
		return "ignore_filler"
	case InterruptAgent:
		return "interrupt_agent"
	default:
		return "unknown"
	}
}

const (
	defaultMinInterruptionWords = 2
	defaultConfidenceThreshold  = 0.6
)

// Option configures a [Classifier].
type Option func(*Classifier)

// WithMinInterruptionWords sets the minimum token count before a partial
// fragment is treated as a deliberate interruption; shorter partials are
// deferred until more speech arrives. The default is 2. Values below 1 are
// ignored.
func WithMinInterruptionWords(n int) Option {
	return func(c *Classifier) {
		if n >= 1 {
			c.minInterruptionWords = n
		}
	}
}

// WithConfidenceThreshold sets the confidence below which a transcript is
// biased toward IgnoreFiller instead of InterruptAgent. The default is 0.6.
func WithConfidenceThreshold(threshold float64) Option {
	return func(c *Classifier) {
		c.confidenceThreshold = threshold
	}
}

// WithFuzzyFillerMatching enables phonetic matching of filler words, so
// recognizer spelling jitter ("uhm" vs "umm") still counts as filler.
// threshold is the minimum Jaro-Winkler similarity for a phonetic candidate
// to be accepted. Command words are never fuzzy-matched — they are a
// deliberate override signal and stay exact by contract.
func WithFuzzyFillerMatching(threshold float64) Option {
	return func(c *Classifier) {
		c.fuzzy = newFuzzyMatcher(threshold)
	}
}

// Classifier decides whether a transcript fragment is filler noise, an
// explicit interrupt command, or ordinary dialogue.
//
// All methods are safe for concurrent use — the Classifier is read-only
// after construction.
type Classifier struct {
	minInterruptionWords int
	confidenceThreshold  float64
	fuzzy                *fuzzyMatcher
}

// New returns a Classifier configured with the supplied options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		minInterruptionWords: defaultMinInterruptionWords,
		confidenceThreshold:  defaultConfidenceThreshold,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Request carries the inputs of one classification call.
type Request struct {
	// Text is the raw transcript fragment.
	Text string

	// IsFinal marks the fragment as a final (authoritative) transcript.
	IsFinal bool

	// AgentSpeaking is the agent's speaking flag at the time of the event.
	AgentSpeaking bool

	// Ignored is the active set of ignorable filler tokens.
	Ignored words.WordSet

	// Commands is the active set of interrupt command tokens.
	Commands words.WordSet

	// Confidence is the recognizer's confidence for the fragment, when
	// reported. Nil means not reported.
	Confidence *float64
}

// Classify returns the decision for req.
//
// Command words take precedence over filler suppression: an utterance that
// contains both a command token and filler tokens interrupts, and commands
// fire even on partial transcripts to minimize interruption latency.
func (c *Classifier) Classify(req Request) Decision {
	tokens := Tokenize(req.Text)
	if len(tokens) == 0 {
		return Passthrough
	}

	// Nothing to interrupt: the transcript is ordinary user speech.
	if !req.AgentSpeaking {
		return Passthrough
	}

	if matchesCommand(tokens, req.Commands) {
		return InterruptAgent
	}

	// Filler never interrupts, no matter how much of it there is.
	if c.allFiller(tokens, req.Ignored) {
		return IgnoreFiller
	}

	// Defer judgment on clearly too-short partial fragments.
	if len(tokens) < c.minInterruptionWords && !req.IsFinal {
		return IgnoreFiller
	}

	// Low-confidence transcripts should not trigger disruptive actions.
	if req.Confidence != nil && *req.Confidence < c.confidenceThreshold {
		return IgnoreFiller
	}

	return InterruptAgent
}

// Tokenize normalizes text into lowercase word tokens: trimmed, split on
// whitespace and punctuation. Apostrophes inside words are kept ("don't"),
// stray edge apostrophes are stripped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// matchesCommand reports whether tokens contain a command token, or a
// consecutive run of tokens matching a multi-word command phrase
// (e.g., "hold on").
func matchesCommand(tokens []string, commands words.WordSet) bool {
	for _, t := range tokens {
		if commands.Contains(t) {
			return true
		}
	}
	for phrase := range commands {
		if !strings.Contains(phrase, " ") {
			continue
		}
		parts := strings.Fields(phrase)
		for i := 0; i+len(parts) <= len(tokens); i++ {
			if slices.Equal(tokens[i:i+len(parts)], parts) {
				return true
			}
		}
	}
	return false
}

// allFiller reports whether every token is in the filler vocabulary,
// optionally extended by phonetic matching.
func (c *Classifier) allFiller(tokens []string, ignored words.WordSet) bool {
	if ignored.Len() == 0 {
		return false
	}
	for _, t := range tokens {
		if ignored.Contains(t) {
			continue
		}
		if c.fuzzy != nil && c.fuzzy.matchesAny(t, ignored) {
			continue
		}
		return false
	}
	return true
}
