package memstore

import (
	"container/list"
	"context"
	"sync"

	"github.com/lorrc/ticket-report-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-report-backend/internal/core/errors"
	"github.com/lorrc/ticket-report-backend/internal/core/ports"
)

// DefaultCapacity bounds the cache when no explicit capacity is configured.
const DefaultCapacity = 16

// DatasetStore is an in-memory, bounded cache of cleaned datasets keyed by
// content hash. Least-recently-used entries are evicted once the capacity is
// reached. Stored datasets are immutable; the store hands out the same
// pointer to every caller.
type DatasetStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

var _ ports.DatasetStore = (*DatasetStore)(nil)

type entry struct {
	id      string
	dataset *domain.Dataset
}

// NewDatasetStore creates a dataset store holding at most capacity datasets.
func NewDatasetStore(capacity int) *DatasetStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &DatasetStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Put stores a dataset under its content-hash ID, evicting the least
// recently used entry when the store is full. Re-storing an existing ID is
// a no-op apart from refreshing its recency: identical content always maps
// to an identical cleaned table.
func (s *DatasetStore) Put(_ context.Context, dataset *domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[dataset.ID]; ok {
		s.order.MoveToFront(elem)
		return nil
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*entry).id)
		}
	}

	s.entries[dataset.ID] = s.order.PushFront(&entry{id: dataset.ID, dataset: dataset})
	return nil
}

// Get returns the dataset for the given ID and marks it recently used.
func (s *DatasetStore) Get(_ context.Context, id string) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[id]
	if !ok {
		return nil, apperrors.ErrDatasetNotFound
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*entry).dataset, nil
}

// Len returns the number of cached datasets.
func (s *DatasetStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
