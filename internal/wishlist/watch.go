package wishlist

// Watch calls listener only when the value picked by selector changes
// (compared with ==). The selector is evaluated against every new snapshot;
// the listener receives the new value.
func Watch[T comparable](s *Store, selector func(State) T, listener func(T)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	// Registering and reading the initial value under subMu means a
	// concurrent publish either sees this subscription or already produced
	// the snapshot read here.
	last := selector(s.Snapshot())
	return s.subscribeLocked(func(st State) {
		next := selector(st)
		if next == last {
			return
		}
		last = next
		listener(next)
	})
}

// Count selects the number of entries
func Count(st State) int {
	return st.Len()
}

// Has returns a selector reporting whether the movie is saved
func Has(id int) func(State) bool {
	return func(st State) bool {
		return st.Contains(id)
	}
}
