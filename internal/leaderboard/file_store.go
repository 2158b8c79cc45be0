package leaderboard

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	Rows map[string]Entry `json:"rows"`
}

// FileStore persists the board to one JSON file under dataDir.
type FileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &FileStore{
		path: filepath.Join(dataDir, "leaderboard.json"),
		s:    fileState{Rows: map[string]Entry{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Rows == nil {
		loaded.Rows = map[string]Entry{}
	}
	s.s = loaded
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileStore) Upsert(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Rank = 0
	s.s.Rows[e.PlayerID] = e
	return s.saveLocked()
}

func (s *FileStore) Remove(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.s.Rows, playerID)
	return s.saveLocked()
}

func (s *FileStore) TopN(_ context.Context, n int) ([]Entry, error) {
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

func (s *FileStore) RankOf(_ context.Context, playerID string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.s.Rows[playerID]; !ok {
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

func (s *FileStore) sortedLocked() []Entry {
	rows := make([]Entry, 0, len(s.s.Rows))
	for _, e := range s.s.Rows {
		rows = append(rows, e)
	}
	sortEntries(rows)
	return rows
}
