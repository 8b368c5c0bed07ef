// Package wishlist holds the per-session wishlist: an ordered collection of
// saved movies behind a publish/subscribe store.
//
// Mutations are serialized. Every subscriber is called synchronously with
// the post-mutation snapshot before the next mutation starts, so a listener
// must not mutate the store it observes. Reads never wait on listeners.
package wishlist

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/amaumene/browsefilms/internal/models"
)

// State is an immutable snapshot of the wishlist. Items must not be modified.
type State struct {
	Items   []models.WishlistItem
	Version uint64 // incremented by every state-changing mutation
}

// Len returns the number of entries, duplicates included
func (s State) Len() int {
	return len(s.Items)
}

// Contains reports whether at least one entry has the given movie id
func (s State) Contains(id int) bool {
	for _, item := range s.Items {
		if item.Movie.ID == id {
			return true
		}
	}
	return false
}

// Movies returns the saved movies in insertion order
func (s State) Movies() []models.Movie {
	movies := make([]models.Movie, len(s.Items))
	for i, item := range s.Items {
		movies[i] = item.Movie
	}
	return movies
}

type subscription struct {
	fn     func(State)
	active atomic.Bool
}

// Store is a wishlist shared by every view of one session
type Store struct {
	mu    sync.Mutex // serializes mutations and their notifications
	state atomic.Pointer[State]

	subMu sync.Mutex
	subs  []*subscription

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for AddedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&State{})
	return s
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	return *s.state.Load()
}

// Items returns a copy of the entries in insertion order
func (s *Store) Items() []models.WishlistItem {
	items := s.Snapshot().Items
	cp := make([]models.WishlistItem, len(items))
	copy(cp, items)
	return cp
}

// Len returns the number of entries
func (s *Store) Len() int {
	return s.Snapshot().Len()
}

// Contains reports whether the movie is in the wishlist
func (s *Store) Contains(id int) bool {
	return s.Snapshot().Contains(id)
}

// Add appends the movie. Adding a movie that is already present creates a
// second, independent entry.
func (s *Store) Add(movie models.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(movie)
}

// Remove drops every entry for the movie id and reports whether any was
// dropped. Unknown ids are ignored.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(id)
}

// Clear empties the wishlist and returns how many entries it held
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.Snapshot().Len()
	if n == 0 {
		return 0
	}
	s.publish(nil)
	return n
}

// Toggle removes the movie when present and adds it otherwise. It returns
// whether the movie is in the wishlist afterwards.
func (s *Store) Toggle(movie models.Movie) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Snapshot().Contains(movie.ID) {
		s.remove(movie.ID)
		return false
	}
	s.add(movie)
	return true
}

func (s *Store) add(movie models.Movie) {
	cur := s.Snapshot().Items
	items := make([]models.WishlistItem, len(cur), len(cur)+1)
	copy(items, cur)
	items = append(items, models.WishlistItem{Movie: movie, AddedAt: s.now()})
	s.publish(items)
}

func (s *Store) remove(id int) bool {
	cur := s.Snapshot().Items
	items := make([]models.WishlistItem, 0, len(cur))
	for _, item := range cur {
		if item.Movie.ID != id {
			items = append(items, item)
		}
	}
	if len(items) == len(cur) {
		return false
	}
	s.publish(items)
	return true
}

// publish installs the new items and notifies subscribers. Caller holds mu.
func (s *Store) publish(items []models.WishlistItem) {
	next := &State{Items: items, Version: s.Snapshot().Version + 1}
	s.state.Store(next)

	s.subMu.Lock()
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(*next)
		}
	}
}

// Subscribe registers fn to be called after every state-changing mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	return s.subscribeLocked(fn)
}

func (s *Store) subscribeLocked(fn func(State)) func() {
	sub := &subscription{fn: fn}
	sub.active.Store(true)
	s.subs = append(s.subs, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)

			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, other := range s.subs {
				if other == sub {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}
