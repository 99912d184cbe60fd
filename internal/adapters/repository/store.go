// Package repository keeps scored analyses in memory for lookups and
// per-player history. It is a cache for the running process, not durable
// storage.
package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/swingscore/internal/domain/model"
	"github.com/okian/swingscore/pkg/metrics"
)

// Store provides read/write access to scored analyses.
type Store interface {
	// Put stores r, replacing any record with the same analysis ID.
	Put(ctx context.Context, r model.Record) error

	// Get returns the record for an analysis ID, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Record, error)

	// History returns up to limit records for a player, newest first.
	// limit 0 means all retained records.
	History(ctx context.Context, playerID string, limit int) ([]model.Record, error)

	// Overalls returns the overall score of every stored record that has one.
	Overalls(ctx context.Context) []float64

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}

// MemStore implements Store with maps guarded by an RWMutex.
type MemStore struct {
	mu       sync.RWMutex
	records  map[string]model.Record
	order    []string            // analysis IDs, oldest first
	byPlayer map[string][]string // analysis IDs per player, oldest first

	historyLimit int
	maxRecords   int
}

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		records:  make(map[string]model.Record),
		byPlayer: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Put(_ context.Context, r model.Record) error { //nolint:gocritic // hugeParam: records are values
	id := r.Analysis.ID
	if id == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.records[id]; ok {
		s.records[id] = r
		if old.Analysis.PlayerID != r.Analysis.PlayerID {
			s.unindexPlayer(old.Analysis.PlayerID, id)
			s.indexPlayer(r.Analysis.PlayerID, id)
		}
		s.publish()
		return nil
	}

	s.records[id] = r
	s.order = append(s.order, id)
	s.indexPlayer(r.Analysis.PlayerID, id)

	if s.maxRecords > 0 {
		for len(s.order) > s.maxRecords {
			s.remove(s.order[0])
		}
	}
	s.publish()
	return nil
}

func (s *MemStore) Get(_ context.Context, id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, nil
}

func (s *MemStore) History(_ context.Context, playerID string, limit int) ([]model.Record, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPlayer[playerID]
	n := len(ids)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.Record, 0, n)
	for i := len(ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[ids[i]])
	}
	return out, nil
}

func (s *MemStore) Overalls(_ context.Context) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]float64, 0, len(s.records))
	for _, id := range s.order {
		if o := s.records[id].Result.Overall; o != nil {
			out = append(out, float64(*o))
		}
	}
	return out
}

func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// The helpers below must be called with s.mu held for writing.

func (s *MemStore) indexPlayer(playerID, id string) {
	if playerID == "" {
		return
	}
	ids := append(s.byPlayer[playerID], id)
	if s.historyLimit > 0 {
		for len(ids) > s.historyLimit {
			drop := ids[0]
			ids = ids[1:]
			delete(s.records, drop)
			s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == drop })
		}
	}
	s.byPlayer[playerID] = ids
}

func (s *MemStore) unindexPlayer(playerID, id string) {
	if playerID == "" {
		return
	}
	ids := slices.DeleteFunc(s.byPlayer[playerID], func(x string) bool { return x == id })
	if len(ids) == 0 {
		delete(s.byPlayer, playerID)
		return
	}
	s.byPlayer[playerID] = ids
}

func (s *MemStore) remove(id string) {
	r, ok := s.records[id]
	if !ok {
		return
	}
	delete(s.records, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	s.unindexPlayer(r.Analysis.PlayerID, id)
}

func (s *MemStore) publish() {
	metrics.UpdateStoreRecords(len(s.records))
	metrics.UpdateStorePlayers(len(s.byPlayer))
}
