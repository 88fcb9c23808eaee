package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/matchup/internal/domain/model"
	"github.com/okian/matchup/pkg/metrics"
)

// MemoryStore is an in-memory Store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[key]model.TeamSeasonRecord
}

// NewMemoryStore creates a store seeded with records.
func NewMemoryStore(records ...model.TeamSeasonRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[key]model.TeamSeasonRecord, len(records))}
	for _, r := range records {
		s.records[key{r.Team, r.Season}] = r
	}
	return s
}

// Put stores or replaces rec.
func (s *MemoryStore) Put(rec model.TeamSeasonRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key{rec.Team, rec.Season}] = rec
}

// FindTeamSeason implements Store.
func (s *MemoryStore) FindTeamSeason(_ context.Context, team string, season int) (model.TeamSeasonRecord, error) {
	start := time.Now()
	defer func() { metrics.RecordLookupLatency(float64(time.Since(start).Microseconds()) / 1000) }()

	s.mu.RLock()
	rec, ok := s.records[key{team, season}]
	s.mu.RUnlock()
	if !ok {
		return model.TeamSeasonRecord{}, notFound(team, season)
	}
	return rec, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
