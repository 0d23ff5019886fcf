package wave

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound indicates an ID with no wave in the store.
var ErrNotFound = errors.New("wave: not found")

type entry struct {
	wave *Wave
	refs int
}

// Store tracks loaded waves by ID with a reference count per wave.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	waves map[uuid.UUID]*entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{waves: make(map[uuid.UUID]*entry)}
}

// Add inserts w with a reference count of zero. Adding a wave that is
// already present is a no-op.
func (s *Store) Add(w *Wave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.waves[w.ID()]; !ok {
		s.waves[w.ID()] = &entry{wave: w}
	}
}

// Get returns the wave with the given ID.
func (s *Store) Get(id uuid.UUID) (*Wave, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.waves[id]
	if !ok {
		return nil, false
	}
	return e.wave, true
}

// Acquire increments the reference count of a wave and returns it.
func (s *Store) Acquire(id uuid.UUID) (*Wave, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.waves[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.refs++
	return e.wave, nil
}

// Release drops one reference. The wave is removed once no references remain.
func (s *Store) Release(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.waves[id]
	if !ok {
		return ErrNotFound
	}
	e.refs--
	if e.refs <= 0 {
		delete(s.waves, id)
	}
	return nil
}

// Refs returns the reference count of a wave, or 0 if it is unknown.
func (s *Store) Refs(id uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.waves[id]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of stored waves.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.waves)
}

// LoadAll decodes paths concurrently and adds every wave to the store. The
// returned slice follows the order of paths. On the first error the
// remaining loads are cancelled and nothing is added.
func (s *Store) LoadAll(ctx context.Context, paths []string, opts ...LoadOption) ([]*Wave, error) {
	waves := make([]*Wave, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := Load(path, opts...)
			if err != nil {
				return err
			}
			waves[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, w := range waves {
		s.Add(w)
	}
	return waves, nil
}
