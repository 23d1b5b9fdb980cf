package memory

import (
	"context"
	"fmt"
	"sync"

	"rota/internal/core"
)

// Store is an in-memory backup mirror used in tests and when no spreadsheet
// is configured.
type Store struct {
	mu    sync.Mutex
	items map[string]core.Entry
	order []string
}

func New() *Store {
	return &Store{items: make(map[string]core.Entry)}
}

// Append stores the entry keyed by id and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		s.order = append(s.order, e.ID)
	}
	s.items[e.ID] = e
	return fmt.Sprintf("mem:%s", e.ID), nil
}

// Delete removes an entry. Unknown ids are a no-op, matching the mirror
// semantics of a sheet row that was already cleared.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entries returns the mirrored entries in insertion order.
func (s *Store) Entries() []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Entry, 0, len(s.items))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}
