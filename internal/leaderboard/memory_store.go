package leaderboard

import (
	"context"
	"sync"
)

// MemoryStore is the non-persistent Store used in tests and as the
// base of FileStore.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]Entry{}}
}

func (s *MemoryStore) Upsert(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Rank = 0
	s.rows[e.PlayerID] = e
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, playerID)
	return nil
}

func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.sortedLocked()
	if n < len(rows) {
		rows = rows[:n]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (s *MemoryStore) RankOf(_ context.Context, playerID string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.rows[playerID]; !ok {
		return Entry{}, false, nil
	}
	for i, e := range s.sortedLocked() {
		if e.PlayerID == playerID {
			e.Rank = i + 1
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (s *MemoryStore) sortedLocked() []Entry {
	rows := make([]Entry, 0, len(s.rows))
	for _, e := range s.rows {
		rows = append(rows, e)
	}
	sortEntries(rows)
	return rows
}
