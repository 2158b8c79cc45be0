// Package session keeps one live engine per active player. A session
// opens lazily on the first request, runs its own scheduler goroutine,
// and is flushed and evicted after the idle timeout.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"idlepost/internal/catalog"
	"idlepost/internal/config"
	"idlepost/internal/game"
	"idlepost/internal/identity"
	"idlepost/internal/leaderboard"
	"idlepost/internal/save"
	"idlepost/internal/scheduler"
	"idlepost/internal/telemetry"
)

// Session is one player's live game.
type Session struct {
	Player identity.Player
	Engine *game.Engine

	// OfflineGain is what the open credited for time away.
	OfflineGain float64

	cancel      context.CancelFunc
	done        chan struct{}
	mu          sync.Mutex
	lastTouched time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastTouched = now
	s.mu.Unlock()
}

// rename updates the display name. The scheduler goroutine reads the
// player concurrently during flushes, so both sides go through s.mu.
func (s *Session) rename(name string) {
	s.mu.Lock()
	s.Player.Name = name
	s.mu.Unlock()
}

func (s *Session) player() identity.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Player
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastTouched)
}

// Config wires a Manager.
type Config struct {
	Balance     config.Balance
	Saves       save.Repo
	Leaderboard leaderboard.Store
	Telemetry   telemetry.Repository
	Clock       game.Clock
	Logger      *log.Logger

	// IdleTimeout evicts sessions untouched for this long.
	IdleTimeout time.Duration
	// SaveEvery is the periodic flush cadence per session.
	SaveEvery time.Duration
	// TickEvery overrides the scheduler cadence, for tests.
	TickEvery time.Duration
}

type Manager struct {
	cfg      Config
	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = game.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 5 * time.Minute
	}
	if cfg.SaveEvery <= 0 {
		cfg.SaveEvery = 30 * time.Second
	}
	return &Manager{
		cfg:      cfg,
		sessions: map[string]*Session{},
	}
}

// Get returns the player's live session, opening one if needed. An
// open loads the save, credits offline progress and starts the
// session's scheduler.
func (m *Manager) Get(ctx context.Context, p identity.Player) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[p.ID]; ok {
		s.rename(p.Name) // gateway may have renamed them
		s.touch(m.cfg.Clock.Now())
		return s, nil
	}

	state, existed, err := m.cfg.Saves.Load(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	engine := game.New(m.cfg.Balance, state, game.WithClock(m.cfg.Clock))

	s := &Session{
		Player:      p,
		Engine:      engine,
		done:        make(chan struct{}),
		lastTouched: m.cfg.Clock.Now(),
	}
	if existed {
		s.OfflineGain = engine.ApplyOfflineProgress()
	} else {
		engine.TouchOnline()
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	runner := scheduler.New(scheduler.Config{
		Engine:    engine,
		TickEvery: m.cfg.TickEvery,
		SaveEvery: m.cfg.SaveEvery,
		OnSave:    func(ctx context.Context) { m.flush(ctx, s) },
		OnEvent: func(def catalog.RandomEventDef) {
			m.record(p.ID, telemetry.EventRandomEvent, telemetry.EventMetadata{"event_id": def.ID})
		},
		Logger: m.cfg.Logger,
	})
	go func() {
		runner.Run(runCtx)
		close(s.done)
	}()

	m.sessions[p.ID] = s
	m.record(p.ID, telemetry.EventSessionOpened, telemetry.EventMetadata{
		"existed":      existed,
		"offline_gain": s.OfflineGain,
	})
	return s, nil
}

// Flush persists the session's state and syncs its leaderboard row.
func (m *Manager) Flush(ctx context.Context, s *Session) error {
	return m.flush(ctx, s)
}

func (m *Manager) flush(ctx context.Context, s *Session) error {
	state := s.Engine.PrepareSave()
	p := s.player()

	if err := m.cfg.Saves.Save(ctx, p.ID, state); err != nil {
		m.cfg.Logger.Printf("save failed player=%s err=%v", p.ID, err)
		return err
	}

	var err error
	switch {
	case state.Settings.Anonymous:
		err = m.cfg.Leaderboard.Remove(ctx, p.ID)
	case state.Score > 0:
		err = m.cfg.Leaderboard.Upsert(ctx, leaderboard.Entry{
			PlayerID: p.ID,
			Name:     p.Name,
			Score:    state.Score,
			Prestige: state.Prestige.Level,
		})
	}
	if err != nil {
		m.cfg.Logger.Printf("leaderboard sync failed player=%s err=%v", p.ID, err)
		return err
	}
	return nil
}

// Record forwards a gameplay event to the telemetry sink, if any.
func (m *Manager) Record(playerID string, t telemetry.EventType, meta telemetry.EventMetadata) {
	m.record(playerID, t, meta)
}

func (m *Manager) record(playerID string, t telemetry.EventType, meta telemetry.EventMetadata) {
	if m.cfg.Telemetry == nil {
		return
	}
	if err := m.cfg.Telemetry.RecordEvent(playerID, t, meta); err != nil {
		m.cfg.Logger.Printf("telemetry record failed player=%s err=%v", playerID, err)
	}
}

// Run evicts idle sessions until ctx is cancelled. Launch once at
// startup.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	now := m.cfg.Clock.Now()

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.idleSince(now) >= m.cfg.IdleTimeout {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		m.closeSession(s)
	}
}

// closeSession stops the runner. The runner performs the final flush
// on its way out.
func (m *Manager) closeSession(s *Session) {
	s.cancel()
	<-s.done
	m.record(s.Player.ID, telemetry.EventSessionClosed, nil)
}

// Evict force-closes one session if it is live. Used by hard resets so
// a stale engine does not resurrect deleted state.
func (m *Manager) Evict(playerID string) {
	m.mu.Lock()
	s, ok := m.sessions[playerID]
	if ok {
		delete(m.sessions, playerID)
	}
	m.mu.Unlock()

	if ok {
		m.closeSession(s)
	}
}

// Close flushes and stops every session. Called on shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = map[string]*Session{}
	m.mu.Unlock()

	for _, s := range all {
		m.closeSession(s)
	}
}

// Live reports how many sessions are currently open.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
