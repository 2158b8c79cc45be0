package session

import (
	"context"
	"testing"
	"time"

	"idlepost/internal/config"
	"idlepost/internal/game"
	"idlepost/internal/identity"
	"idlepost/internal/leaderboard"
	"idlepost/internal/model"
	"idlepost/internal/save"
	"idlepost/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, *save.FileRepo, *leaderboard.MemoryStore, *game.FakeClock) {
	t.Helper()
	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo, err := save.NewFileRepo(t.TempDir(), clock)
	require.NoError(t, err)
	board := leaderboard.NewMemoryStore()

	m := NewManager(Config{
		Balance:     config.DefaultBalance(),
		Saves:       repo,
		Leaderboard: board,
		Telemetry:   telemetry.NewMemoryRepository(),
		Clock:       clock,
		IdleTimeout: 5 * time.Minute,
		SaveEvery:   time.Hour, // periodic flush stays out of the way
		TickEvery:   time.Hour, // accrual driven manually in tests
	})
	t.Cleanup(m.Close)
	return m, repo, board, clock
}

var alice = identity.Player{ID: "t2_alice", Name: "Alice"}

func TestGet_OpensFreshSession(t *testing.T) {
	m, _, _, _ := newManager(t)

	s, err := m.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, float64(0), s.OfflineGain)
	assert.Equal(t, 1, m.Live())

	// Second Get returns the same live session.
	again, err := m.Get(context.Background(), alice)
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestGet_CreditsOfflineProgress(t *testing.T) {
	m, repo, _, clock := newManager(t)
	ctx := context.Background()

	stored := model.DefaultState(clock.Now().UnixMilli())
	stored.Passives.Comment = 1 // 3/sec
	require.NoError(t, repo.Save(ctx, alice.ID, stored))

	clock.Advance(100 * time.Second)
	s, err := m.Get(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, float64(300), s.OfflineGain)
	assert.Equal(t, float64(300), s.Engine.Snapshot().Karma)
}

func TestGet_RenameReachesFlush(t *testing.T) {
	m, _, board, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()

	// Same player comes back under a new display name.
	_, err = m.Get(ctx, identity.Player{ID: alice.ID, Name: "Alicia"})
	require.NoError(t, err)

	require.NoError(t, m.Flush(ctx, s))
	e, ok, err := board.RankOf(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alicia", e.Name)
}

func TestGet_RenameRacesPeriodicFlush(t *testing.T) {
	clock := game.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo, err := save.NewFileRepo(t.TempDir(), clock)
	require.NoError(t, err)

	m := NewManager(Config{
		Balance:     config.DefaultBalance(),
		Saves:       repo,
		Leaderboard: leaderboard.NewMemoryStore(),
		Clock:       clock,
		IdleTimeout: 5 * time.Minute,
		SaveEvery:   time.Millisecond, // flush constantly in the background
		TickEvery:   time.Hour,
	})
	defer m.Close()
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()

	// Renames land while the scheduler goroutine flushes; run with the
	// race detector to cover the handoff.
	for i := 0; i < 200; i++ {
		name := "Alice"
		if i%2 == 1 {
			name = "Alicia"
		}
		_, err := m.Get(ctx, identity.Player{ID: alice.ID, Name: name})
		require.NoError(t, err)
	}
}

func TestFlush_SavesAndRanks(t *testing.T) {
	m, repo, board, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()

	require.NoError(t, m.Flush(ctx, s))

	stored, ok, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(1), stored.Karma)

	e, ok, err := board.RankOf(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", e.Name)
	assert.Equal(t, float64(1), e.Score)
}

func TestFlush_AnonymousRemovesRow(t *testing.T) {
	m, _, board, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()
	require.NoError(t, m.Flush(ctx, s))

	_, ok, err := board.RankOf(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)

	s.Engine.SetAnonymous(true)
	require.NoError(t, m.Flush(ctx, s))

	_, ok, err = board.RankOf(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlush_ZeroScoreStaysOffBoard(t *testing.T) {
	m, _, board, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, m.Flush(ctx, s))

	rows, err := board.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEvictIdle_FlushesAndCloses(t *testing.T) {
	m, repo, _, clock := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()

	clock.Advance(10 * time.Minute)
	m.evictIdle()

	assert.Equal(t, 0, m.Live())
	stored, ok, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(1), stored.Karma)
}

func TestEvictIdle_KeepsActiveSessions(t *testing.T) {
	m, _, _, clock := newManager(t)
	ctx := context.Background()

	_, err := m.Get(ctx, alice)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	// Activity resets the idle window.
	_, err = m.Get(ctx, alice)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	m.evictIdle()
	assert.Equal(t, 1, m.Live())
}

func TestEvict_ForcesClose(t *testing.T) {
	m, _, _, _ := newManager(t)

	_, err := m.Get(context.Background(), alice)
	require.NoError(t, err)

	m.Evict(alice.ID)
	assert.Equal(t, 0, m.Live())

	m.Evict(alice.ID) // idempotent
}

func TestClose_FlushesEverything(t *testing.T) {
	m, repo, _, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Get(ctx, alice)
	require.NoError(t, err)
	s.Engine.Click()

	bob := identity.Player{ID: "t2_bob", Name: "Bob"}
	_, err = m.Get(ctx, bob)
	require.NoError(t, err)

	m.Close()
	assert.Equal(t, 0, m.Live())

	stored, ok, err := repo.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(1), stored.Karma)
}
