package words_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/voxhall/interject/internal/words"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want words.LanguageCode
	}{
		{"en", "en"},
		{"EN", "en"},
		{"en-US", "en"},
		{"en_GB", "en"},
		{"  de-DE ", "de"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := words.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"defaults", "uh,umm,hmm,haan", []string{"uh", "umm", "hmm", "haan"}},
		{"trims and lowercases", " Wait , STOP ", []string{"wait", "stop"}},
		{"drops empties", "a,,b,   ,c", []string{"a", "b", "c"}},
		{"keeps phrases intact", "hold on, never mind", []string{"hold on", "never mind"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := words.ParseList(tc.in)
			if len(tc.want) == 0 && len(got) == 0 {
				return
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("ParseList(%q): got %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestWordSet_NilSafety(t *testing.T) {
	t.Parallel()

	var nilSet words.WordSet
	if nilSet.Contains("anything") {
		t.Error("nil WordSet must not contain anything")
	}
	if nilSet.Len() != 0 {
		t.Errorf("nil WordSet Len: got %d, want 0", nilSet.Len())
	}
	if !nilSet.ContainsAll(nil) {
		t.Error("empty token slice must be vacuously contained")
	}
}

func TestSnapshot_ResolveFallback(t *testing.T) {
	t.Parallel()

	snap := words.NewSnapshot("en")
	snap.IgnoredByLang["en"] = words.NewWordSet([]string{"uh", "umm"})
	snap.CommandsByLang["en"] = words.NewWordSet([]string{"stop"})
	snap.IgnoredByLang["hi"] = words.NewWordSet([]string{"haan"})

	// Exact match wins.
	ignored, _ := snap.Resolve("hi")
	if !ignored.Contains("haan") || ignored.Contains("uh") {
		t.Errorf("hi ignored set resolved wrong: %v", ignored)
	}

	// Commands for "hi" are unset, so the default language's commands apply.
	_, commands := snap.Resolve("hi")
	if !commands.Contains("stop") {
		t.Errorf("hi commands should fall back to default: %v", commands)
	}

	// Unknown language falls back to the default entirely.
	ignored, commands = snap.Resolve("fr")
	if !ignored.Contains("umm") || !commands.Contains("stop") {
		t.Errorf("fr should resolve to default sets, got %v / %v", ignored, commands)
	}

	// No config at all resolves to empty, never panics.
	empty := words.NewSnapshot("en")
	ignored, commands = empty.Resolve("en")
	if ignored.Len() != 0 || commands.Len() != 0 {
		t.Errorf("empty snapshot must resolve to empty sets, got %v / %v", ignored, commands)
	}
}

func TestStore_PublishAndResolve(t *testing.T) {
	t.Parallel()

	first := words.NewSnapshot("en")
	first.IgnoredByLang["en"] = words.NewWordSet([]string{"uh"})

	store := words.NewStore(first)
	if got := store.Current(); got != first {
		t.Fatal("Current should return the seeded snapshot")
	}

	second := words.NewSnapshot("en")
	second.IgnoredByLang["en"] = words.NewWordSet([]string{"umm"})
	store.Publish(second)

	ignored, _ := store.Resolve("en")
	if !ignored.Contains("umm") || ignored.Contains("uh") {
		t.Errorf("Resolve after Publish returned stale set: %v", ignored)
	}

	// A nil publish must not blank out the configuration.
	store.Publish(nil)
	if store.Current() != second {
		t.Error("Publish(nil) must be a no-op")
	}
}

func TestStore_NilInitial(t *testing.T) {
	t.Parallel()

	store := words.NewStore(nil)
	if store.Current() == nil {
		t.Fatal("Current must never return nil")
	}
	ignored, commands := store.Resolve("en")
	if ignored.Len() != 0 || commands.Len() != 0 {
		t.Errorf("empty store must resolve empty sets, got %v / %v", ignored, commands)
	}
}

func TestStore_ConcurrentReadersAndSwaps(t *testing.T) {
	t.Parallel()

	store := words.NewStore(words.NewSnapshot("en"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				snap := store.Current()
				if snap == nil {
					t.Error("reader observed nil snapshot")
					return
				}
				snap.Resolve("en")
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 1000; j++ {
			snap := words.NewSnapshot("en")
			snap.IgnoredByLang["en"] = words.NewWordSet([]string{"uh", "umm"})
			store.Publish(snap)
		}
	}()

	wg.Wait()
}
