package save

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"idlepost/internal/game"
	"idlepost/internal/model"
)

type fileState struct {
	Players map[string]json.RawMessage `json:"players"`
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo keeps every player's save in one JSON file under dataDir.
// Each entry stays a raw blob until load time so one corrupt save
// cannot poison the rest.
type FileRepo struct {
	store *fileStore
	clock game.Clock
}

func NewFileRepo(dataDir string, clock game.Clock) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = game.RealClock{}
	}
	st := &fileStore{
		path: filepath.Join(dataDir, "saves.json"),
		s:    fileState{Players: map[string]json.RawMessage{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, clock: clock}, nil
}

func (s *fileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s.Players = map[string]json.RawMessage{}
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Players == nil {
		loaded.Players = map[string]json.RawMessage{}
	}
	s.s = loaded
	return nil
}

func (s *fileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (r *FileRepo) Load(_ context.Context, playerID string) (model.GameState, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	now := r.clock.Now().UnixMilli()
	raw, ok := r.store.s.Players[playerID]
	if !ok {
		return model.DefaultState(now), false, nil
	}
	state, err := model.FromJSON(raw, now)
	if err != nil {
		return model.DefaultState(now), false, nil
	}
	return state, true, nil
}

func (r *FileRepo) Save(_ context.Context, playerID string, state model.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.s.Players[playerID] = b
	return r.store.saveLocked()
}

// PlayerIDs lists every player with a stored save.
func (r *FileRepo) PlayerIDs() []string {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	ids := make([]string, 0, len(r.store.s.Players))
	for id := range r.store.s.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *FileRepo) Delete(_ context.Context, playerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.s.Players, playerID)
	return r.store.saveLocked()
}
