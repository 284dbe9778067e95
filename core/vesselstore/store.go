// Package vesselstore keeps the latest classified fix per vessel and the
// latest queue snapshot per terminal. It is the only mutable state in the
// system; the predictors receive its contents by value on each invocation.
package vesselstore

import (
	"sort"
	"sync"

	"github.com/kfenech/ferrywatch/core/model"
)

// Store is the read side used by the API and the safety watcher.
type Store interface {
	List() []model.Vessel
	Nikolaus() (model.Vessel, bool)
	Queue(t model.Terminal) (model.QueueSnapshot, bool)
}

// MemoryStore holds everything in process. Snapshots are superseded
// wholesale; nothing is persisted.
type MemoryStore struct {
	mu      sync.RWMutex
	vessels map[int]model.Vessel
	queues  map[model.Terminal]model.QueueSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vessels: map[int]model.Vessel{},
		queues:  map[model.Terminal]model.QueueSnapshot{},
	}
}

// Set replaces the stored vessel for its MMSI.
func (s *MemoryStore) Set(v model.Vessel) {
	s.mu.Lock()
	s.vessels[v.MMSI] = v
	s.mu.Unlock()
}

// SetQueue replaces the queue snapshot for a terminal.
func (s *MemoryStore) SetQueue(t model.Terminal, q model.QueueSnapshot) {
	s.mu.Lock()
	s.queues[t] = q
	s.mu.Unlock()
}

// List returns the fleet sorted by MMSI.
func (s *MemoryStore) List() []model.Vessel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Vessel, 0, len(s.vessels))
	for _, v := range s.vessels {
		res = append(res, v)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].MMSI < res[j].MMSI })
	return res
}

// Nikolaus returns the latest fix for the distinguished vessel, if any.
func (s *MemoryStore) Nikolaus() (model.Vessel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vessels[model.NikolausMMSI]
	return v, ok
}

// Queue returns the latest queue snapshot for a terminal, if any.
func (s *MemoryStore) Queue(t model.Terminal) (model.QueueSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queues[t]
	return q, ok
}
