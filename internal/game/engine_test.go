package game

import (
	"math/rand"
	"testing"
	"time"

	"idlepost/internal/config"
	"idlepost/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngineForTest() (*Engine, *FakeClock) {
	clock := NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	e := New(
		config.DefaultBalance(),
		model.DefaultState(clock.Now().UnixMilli()),
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(42))),
	)
	return e, clock
}

func TestClick_TenClicksFromDefault(t *testing.T) {
	e, _ := newEngineForTest()

	for i := 0; i < 10; i++ {
		res := e.Click()
		assert.Equal(t, float64(1), res.Gain)
	}

	s := e.Snapshot()
	assert.Equal(t, float64(10), s.Karma)
	assert.Equal(t, float64(10), s.Score)
	assert.Equal(t, int64(10), s.Stats.TotalClicks)
	assert.Equal(t, float64(10), s.Stats.TotalKarmaEarned)
}

func TestClick_AwardsNeverExceedClicks(t *testing.T) {
	e, _ := newEngineForTest()
	for i := 0; i < 500; i++ {
		e.Click()
	}
	s := e.Snapshot()
	assert.LessOrEqual(t, int64(s.Awards), s.Stats.TotalClicks)
}

func TestBuyUpgrade_InsufficientKarmaIsNoOp(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 9) // reply level 0 costs 10

	before := e.Snapshot()
	assert.False(t, e.BuyUpgrade("reply"))
	after := e.Snapshot()

	assert.Equal(t, before.Karma, after.Karma)
	assert.Equal(t, before.Upgrades.Reply, after.Upgrades.Reply)
}

func TestBuyUpgrade_UnknownKeyIsNoOp(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 1e9)
	assert.False(t, e.BuyUpgrade("mystery"))
	assert.Equal(t, float64(1e9), e.Snapshot().Karma)
}

func TestBuyUpgrade_Success(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 100)

	require.True(t, e.BuyUpgrade("reply"))
	s := e.Snapshot()
	assert.Equal(t, float64(90), s.Karma)
	assert.Equal(t, 1, s.Upgrades.Reply)

	// Next level costs 15.
	require.True(t, e.BuyUpgrade("reply"))
	s = e.Snapshot()
	assert.Equal(t, float64(75), s.Karma)
	assert.Equal(t, 2, s.Upgrades.Reply)
}

func TestBuyUpgrade_MaxLevelIsNoOp(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 1e12)

	for i := 0; i < 10; i++ {
		require.True(t, e.BuyUpgrade("pc"), "level %d", i)
		if e.Snapshot().Upgrades.PC == 5 {
			break
		}
	}
	s := e.Snapshot()
	require.Equal(t, 5, s.Upgrades.PC)

	karma := s.Karma
	assert.False(t, e.BuyUpgrade("pc"))
	assert.Equal(t, karma, e.Snapshot().Karma)
}

func TestBuyUpgrade_RoutesAcrossFamilies(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 1e7)

	require.True(t, e.BuyUpgrade("comment"))
	require.True(t, e.BuyUpgrade("popular"))

	s := e.Snapshot()
	assert.Equal(t, 1, s.Passives.Comment)
	assert.Equal(t, 1, s.Infinite.Popular)
}

func TestTick_PassiveAccrual(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment")) // 3/sec

	for i := 0; i < 5; i++ {
		require.True(t, e.Tick())
	}

	s := e.Snapshot()
	assert.Equal(t, float64(15), s.Karma)
	assert.Equal(t, float64(15), s.Score)
	assert.Equal(t, int64(5), s.Stats.TimePlayed)
}

func TestTick_ZeroRateIsNoOp(t *testing.T) {
	e, _ := newEngineForTest()
	assert.False(t, e.Tick())
	s := e.Snapshot()
	assert.Equal(t, int64(0), s.Stats.TimePlayed)
}

func TestTick_TickedTimeNotRecreditedOffline(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment")) // 3/sec

	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		require.True(t, e.Tick())
	}
	require.Equal(t, float64(30), e.Snapshot().Karma)

	// The ticked seconds are online time, so a resume right after
	// credits nothing on top.
	assert.Equal(t, float64(0), e.ApplyOfflineProgress())
	assert.Equal(t, float64(30), e.Snapshot().Karma)
}

func TestPrepareSave_CarriesTickedLastOnline(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment"))

	opened := clock.Now().UnixMilli()
	for i := 0; i < 3600; i++ {
		clock.Advance(time.Second)
		e.Tick()
	}

	saved := e.PrepareSave()
	require.Greater(t, saved.Stats.LastOnline, opened)
	assert.Equal(t, clock.Now().UnixMilli(), saved.Stats.LastOnline)

	// Reloading the save straight away must not pay the ticked hour out
	// again as offline gain.
	reloaded := New(config.DefaultBalance(), saved, WithClock(clock))
	assert.Equal(t, float64(0), reloaded.ApplyOfflineProgress())
	assert.Equal(t, saved.Karma, reloaded.Snapshot().Karma)
}

func TestBuyShopItem_Theme(t *testing.T) {
	e, _ := newEngineForTest()
	e.setAwards(t, 10)

	require.True(t, e.BuyShopItem("terminal"))
	s := e.Snapshot()
	assert.Equal(t, 5, s.Awards)
	assert.Contains(t, s.Unlocks.Themes, "terminal")

	// Buying again still deducts but stays idempotent on unlocks.
	require.True(t, e.BuyShopItem("terminal"))
	s = e.Snapshot()
	assert.Equal(t, 0, s.Awards)
	assert.Equal(t, 1, countOf(s.Unlocks.Themes, "terminal"))
}

func TestBuyShopItem_InsufficientAwards(t *testing.T) {
	e, _ := newEngineForTest()
	e.setAwards(t, 2)
	assert.False(t, e.BuyShopItem("auto_slow")) // costs 3
	assert.Equal(t, 2, e.Snapshot().Awards)
}

func TestBuyShopItem_Autoclicker(t *testing.T) {
	e, clock := newEngineForTest()
	e.setAwards(t, 3)

	require.True(t, e.BuyShopItem("auto_slow"))
	s := e.Snapshot()
	require.Len(t, s.ActiveEffects, 1)
	eff := s.ActiveEffects[0]
	assert.Equal(t, model.EffectAutoclicker, eff.Type)
	assert.Equal(t, 1, eff.ClicksPerSecond)
	assert.Equal(t, clock.Now().UnixMilli()+60_000, eff.EndsAt)
	assert.Contains(t, s.Unlocks.Autoclickers, "slow")

	// One autoclick second credits clickValue * cps.
	res := e.Autoclick()
	assert.Equal(t, float64(1), res.Gain)
	s = e.Snapshot()
	assert.Equal(t, int64(1), s.Stats.TotalClicks)
}

func TestBuyShopItem_PrestigeBelowThresholdRejected(t *testing.T) {
	e, _ := newEngineForTest()
	e.setAwards(t, 50)

	assert.False(t, e.BuyShopItem("prestige"))
	s := e.Snapshot()
	assert.Equal(t, 50, s.Awards)
	assert.Equal(t, 0, s.Prestige.Level)
}

func TestPrestige_RoundTrip(t *testing.T) {
	e, _ := newEngineForTest()
	e.setAwards(t, 60)
	e.setKarma(t, 20000)
	e.setScore(t, 1_500_000)
	require.True(t, e.BuyUpgrade("comment"))
	require.True(t, e.BuyUpgrade("popular"))
	require.True(t, e.BuyShopItem("terminal"))
	require.True(t, e.SetTheme("terminal"))

	before := e.Snapshot()
	require.True(t, e.BuyShopItem("prestige"))
	after := e.Snapshot()

	assert.Equal(t, float64(0), after.Karma)
	assert.Equal(t, float64(0), after.Score)
	assert.Equal(t, 0, after.Awards)
	assert.Equal(t, model.Upgrades{}, after.Upgrades)
	assert.Equal(t, model.Passives{}, after.Passives)
	assert.Equal(t, model.Infinite{}, after.Infinite)
	assert.Empty(t, after.ActiveEffects)

	assert.Equal(t, before.Prestige.Level+1, after.Prestige.Level)
	assert.Contains(t, after.Prestige.Badges, "prestige-1")
	assert.Equal(t, before.Unlocks, after.Unlocks)
	assert.Subset(t, after.Achievements, before.Achievements)
	assert.Equal(t, before.Settings, after.Settings)
	assert.Equal(t, before.Stats.TotalKarmaEarned, after.Stats.TotalKarmaEarned)
	assert.Equal(t, before.Stats.TimePlayed, after.Stats.TimePlayed)

	// prestige_1 unlocks as part of the same purchase.
	assert.Contains(t, after.Achievements, "prestige_1")
}

func TestSetTheme_RejectsLockedAndUnknown(t *testing.T) {
	e, _ := newEngineForTest()
	assert.False(t, e.SetTheme("gold"))
	assert.False(t, e.SetTheme("nope"))
	assert.True(t, e.SetTheme("dark"))
	assert.Equal(t, "dark", e.Snapshot().Settings.Theme)
}

func TestReset_DiscardsEverything(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 100)
	e.setScore(t, 2_000_000)
	require.True(t, e.BuyUpgrade("reply"))

	e.Reset()
	assert.Equal(t, model.DefaultState(clock.Now().UnixMilli()), e.Snapshot())
}

func TestSweepEffects_RemovesExpired(t *testing.T) {
	e, clock := newEngineForTest()
	e.setAwards(t, 3)
	require.True(t, e.BuyShopItem("auto_slow")) // 60s duration

	clock.Advance(30 * time.Second)
	e.SweepEffects()
	assert.Len(t, e.Snapshot().ActiveEffects, 1)

	clock.Advance(31 * time.Second)
	e.SweepEffects()
	assert.Empty(t, e.Snapshot().ActiveEffects)
}

func TestTick_SweepsBeforeAccruing(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment"))
	e.injectEffect(t, model.ActiveEffect{
		ID:     "spam-x",
		Type:   model.EffectSpam,
		Target: model.GeneratorComment,
		EndsAt: clock.Now().UnixMilli() + 1000,
	})

	// Spam is live: comment contributes nothing, tick is a no-op.
	assert.False(t, e.Tick())

	clock.Advance(2 * time.Second)
	// Expired spam is swept at the head of the tick.
	assert.True(t, e.Tick())
	assert.Equal(t, float64(3), e.Snapshot().Karma)
}

func TestTriggerRandomEvent(t *testing.T) {
	e, clock := newEngineForTest()

	seen := map[model.EffectType]bool{}
	for i := 0; i < 200; i++ {
		def := e.TriggerRandomEvent()
		seen[def.Effect] = true
	}

	s := e.Snapshot()
	assert.Len(t, s.ActiveEffects, 200)
	for _, eff := range s.ActiveEffects {
		assert.Greater(t, eff.EndsAt, clock.Now().UnixMilli())
		if eff.Type == model.EffectSpam {
			assert.Contains(t, model.SpamTargets, eff.Target)
		}
	}

	// Both hidden achievements must be unlocked exactly once.
	require.True(t, seen[model.EffectBan])
	require.True(t, seen[model.EffectSpam])
	assert.Equal(t, 1, countOf(s.Achievements, "banned"))
	assert.Equal(t, 1, countOf(s.Achievements, "spam"))
}

func TestApplyOfflineProgress(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment")) // 3/sec

	clock.Advance(10 * time.Minute)
	gain := e.ApplyOfflineProgress()
	assert.Equal(t, float64(3*600), gain)

	s := e.Snapshot()
	assert.Equal(t, float64(1800), s.Karma)
	assert.Equal(t, clock.Now().UnixMilli(), s.Stats.LastOnline)

	// Immediately asking again credits nothing.
	assert.Equal(t, float64(0), e.ApplyOfflineProgress())
}

func TestApplyOfflineProgress_CapMatchesFormula(t *testing.T) {
	e, clock := newEngineForTest()
	e.setKarma(t, 50)
	require.True(t, e.BuyUpgrade("comment"))

	clock.Advance(48 * time.Hour)
	gain := e.ApplyOfflineProgress()
	assert.Equal(t, float64(3*24*3600), gain)
}

func TestScoreNonDecreasingOutsidePrestigeAndReset(t *testing.T) {
	e, _ := newEngineForTest()
	e.setKarma(t, 1e6)

	last := e.Snapshot().Score
	ops := []func(){
		func() { e.Click() },
		func() { _ = e.BuyUpgrade("comment") },
		func() { _ = e.Tick() },
		func() { e.SweepEffects() },
		func() { _ = e.TriggerRandomEvent() },
		func() { _ = e.ApplyOfflineProgress() },
	}
	for i := 0; i < 200; i++ {
		ops[i%len(ops)]()
		s := e.Snapshot()
		require.GreaterOrEqual(t, s.Score, last)
		require.GreaterOrEqual(t, s.Karma, float64(0))
		last = s.Score
	}
}

func TestAchievements_ClickMilestone(t *testing.T) {
	e, _ := newEngineForTest()
	for i := 0; i < 100; i++ {
		e.Click()
	}
	assert.Contains(t, e.Snapshot().Achievements, "click_100")
}

func TestMarkAchievementsViewed(t *testing.T) {
	e, _ := newEngineForTest()
	for i := 0; i < 100; i++ {
		e.Click()
	}
	e.MarkAchievementsViewed()
	s := e.Snapshot()
	assert.True(t, s.AchievementsViewed)
	assert.Equal(t, len(s.Achievements), s.LastViewedAchievementCount)
}

// --- helpers ---

func (e *Engine) setKarma(t *testing.T, v float64) {
	t.Helper()
	e.mu.Lock()
	e.state.Karma = v
	e.mu.Unlock()
}

func (e *Engine) setScore(t *testing.T, v float64) {
	t.Helper()
	e.mu.Lock()
	e.state.Score = v
	e.mu.Unlock()
}

func (e *Engine) setAwards(t *testing.T, v int) {
	t.Helper()
	e.mu.Lock()
	e.state.Awards = v
	e.mu.Unlock()
}

func (e *Engine) injectEffect(t *testing.T, eff model.ActiveEffect) {
	t.Helper()
	e.mu.Lock()
	e.state.ActiveEffects = append(e.state.ActiveEffects, eff)
	e.mu.Unlock()
}

func countOf(list []string, v string) int {
	n := 0
	for _, s := range list {
		if s == v {
			n++
		}
	}
	return n
}
