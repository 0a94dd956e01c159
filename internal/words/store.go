package words

import "sync/atomic"

// Store holds the currently active [Snapshot] and supports atomic hot-swap
// from a background watcher while readers resolve word sets concurrently.
//
// All methods are safe for concurrent use. Reads are lock-free: Current
// returns whatever snapshot was last published, never a mixture of old and
// new fields.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a Store seeded with initial. A nil initial snapshot is
// replaced by an empty one so Current never returns nil.
func NewStore(initial *Snapshot) *Store {
	if initial == nil {
		initial = NewSnapshot("")
	}
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the latest published snapshot. Non-blocking.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish atomically swaps in snapshot. All subsequent Current and Resolve
// calls observe it. A nil snapshot is ignored — an update source must never
// blank out the configuration by accident.
func (s *Store) Publish(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	s.current.Store(snapshot)
}

// Resolve looks up the ignored and command word sets for lang in the current
// snapshot. See [Snapshot.Resolve] for the fallback order.
func (s *Store) Resolve(lang LanguageCode) (ignored, commands WordSet) {
	return s.Current().Resolve(lang)
}
