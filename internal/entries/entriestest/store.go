// Package entriestest provides an in-memory entries.Store for tests.
package entriestest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	journal "io.winapps.traveljournal/internal/models/journal"
)

// Store is an in-memory entry table that counts every call.
type Store struct {
	mu      sync.Mutex
	rows    map[string]journal.Entry
	seq     int
	calls   int
	fail    error
	block   bool
	updates []journal.Patch
	clock   time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		rows:  make(map[string]journal.Entry),
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// FailWith makes every subsequent call return err.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Block makes every subsequent call wait for its context to end.
func (s *Store) Block() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.block = true
}

// Calls returns the number of store calls issued so far.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Updates returns every patch passed to Update.
func (s *Store) Updates() []journal.Patch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]journal.Patch(nil), s.updates...)
}

// Put seeds a row as is.
func (s *Store) Put(e journal.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[e.ID] = e
}

func (s *Store) enter(ctx context.Context) error {
	s.mu.Lock()
	s.calls++
	fail, block := s.fail, s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return fail
}

func (s *Store) List(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	if err := s.enter(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]journal.Entry, 0, len(s.rows))
	for _, e := range s.rows {
		if ownerID == "" || e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (journal.Entry, error) {
	if err := s.enter(ctx); err != nil {
		return journal.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok {
		return journal.Entry{}, journal.ErrNotFound
	}
	return e, nil
}

func (s *Store) Insert(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	if err := s.enter(ctx); err != nil {
		return journal.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	e.ID = fmt.Sprintf("entry-%d", s.seq)
	e.CreatedAt = s.clock.Add(time.Duration(s.seq) * time.Second)
	s.rows[e.ID] = e
	return e, nil
}

func (s *Store) Update(ctx context.Context, id, ownerID string, p journal.Patch) (journal.Entry, error) {
	if err := s.enter(ctx); err != nil {
		return journal.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok || e.OwnerID != ownerID {
		return journal.Entry{}, journal.ErrNotFound
	}
	s.updates = append(s.updates, p)
	e = p.Apply(e)
	s.rows[id] = e
	return e, nil
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.enter(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rows[id]
	if !ok || e.OwnerID != ownerID {
		return journal.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
