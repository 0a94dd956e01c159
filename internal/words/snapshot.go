// Package words holds the per-language word-list configuration for the
// turn-taking decision layer: ignorable filler tokens and interrupt command
// tokens, keyed by language, with a default-language fallback.
//
// Configuration is represented as an immutable [Snapshot] that is replaced
// wholesale on every update (copy-on-write). Readers obtain a snapshot from a
// [Store] and use it for the duration of one classification call; nothing is
// ever mutated in place, so a reader can never observe a half-updated word
// list.
package words

import "strings"

// LanguageCode is a normalized lowercase primary language subtag
// (e.g., "en" derived from "en-US").
type LanguageCode string

// Normalize derives a LanguageCode from a BCP-47 tag: the primary subtag,
// lowercased. An empty tag normalizes to the empty code.
func Normalize(tag string) LanguageCode {
	tag = strings.TrimSpace(strings.ToLower(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return LanguageCode(tag)
}

// WordSet is a set of lowercase, trimmed tokens. A nil WordSet behaves as an
// empty set.
type WordSet map[string]struct{}

// NewWordSet builds a WordSet from tokens, trimming, lowercasing, and
// dropping empties.
func NewWordSet(tokens []string) WordSet {
	set := make(WordSet, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	return set
}

// ParseList splits a comma-separated word list into tokens: split on comma,
// trim, lowercase, drop empties. This is the exact schema used by the
// environment-level word-list variables and must not change.
func ParseList(value string) []string {
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// Contains reports whether token is in the set.
func (s WordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// ContainsAll reports whether every token is in the set. An empty token
// slice is vacuously contained.
func (s WordSet) ContainsAll(tokens []string) bool {
	for _, t := range tokens {
		if !s.Contains(t) {
			return false
		}
	}
	return true
}

// Len returns the number of tokens in the set.
func (s WordSet) Len() int { return len(s) }

// Snapshot is an immutable view of the full word-list configuration.
// Treat a published Snapshot as read-only: build a new one and publish it
// through a [Store] instead of mutating maps in place.
type Snapshot struct {
	// IgnoredByLang maps a language to its ignorable filler tokens.
	IgnoredByLang map[LanguageCode]WordSet

	// CommandsByLang maps a language to its interrupt command tokens.
	CommandsByLang map[LanguageCode]WordSet

	// DefaultLanguage is the fallback for languages with no configured sets.
	DefaultLanguage LanguageCode
}

// NewSnapshot returns an empty snapshot with the given default language.
func NewSnapshot(defaultLang LanguageCode) *Snapshot {
	return &Snapshot{
		IgnoredByLang:   map[LanguageCode]WordSet{},
		CommandsByLang:  map[LanguageCode]WordSet{},
		DefaultLanguage: defaultLang,
	}
}

// Resolve returns the ignored and command word sets for lang. Lookup order is
// exact language match, then the default language, then empty sets — absence
// of configuration is not a failure and Resolve never returns nil-unsafe
// results (a nil WordSet is a valid empty set).
func (s *Snapshot) Resolve(lang LanguageCode) (ignored, commands WordSet) {
	ignored = s.lookup(s.IgnoredByLang, lang)
	commands = s.lookup(s.CommandsByLang, lang)
	return ignored, commands
}

func (s *Snapshot) lookup(m map[LanguageCode]WordSet, lang LanguageCode) WordSet {
	if set, ok := m[lang]; ok {
		return set
	}
	if set, ok := m[s.DefaultLanguage]; ok {
		return set
	}
	return nil
}
