package store

import (
	"context"
	"maps"
	"sync"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
	"github.com/shandysiswandi/gounified/internal/pkg/pkgerror"
	"github.com/shandysiswandi/gounified/unified"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	analyses map[unified.ID]*analysisRecord
}

type analysisRecord struct {
	mu       sync.RWMutex
	analysis entity.Analysis
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		analyses: make(map[unified.ID]*analysisRecord),
	}
}

func (s *InMemoryStore) CreateAnalysis(ctx context.Context, a entity.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.analyses[a.ID]; exists {
		return errConflict
	}

	a.Buckets = maps.Clone(a.Buckets)
	s.analyses[a.ID] = &analysisRecord{analysis: a}

	return nil
}

func (s *InMemoryStore) UpdateAnalysis(ctx context.Context, id unified.ID, fn func(a *entity.Analysis)) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	fn(&rec.analysis)
	rec.analysis.ID = id
	rec.analysis.Buckets = maps.Clone(rec.analysis.Buckets)

	return nil
}

func (s *InMemoryStore) GetAnalysis(ctx context.Context, id unified.ID) (entity.Analysis, error) {
	rec, err := s.get(id)
	if err != nil {
		return entity.Analysis{}, err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	a := rec.analysis
	a.Buckets = maps.Clone(a.Buckets)
	return a, nil
}

func (s *InMemoryStore) Close(context.Context) error {
	return nil
}

func (s *InMemoryStore) get(id unified.ID) (*analysisRecord, error) {
	s.mu.RLock()
	rec, ok := s.analyses[id]
	s.mu.RUnlock()
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}
