package game

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"idlepost/internal/catalog"
	"idlepost/internal/config"
	"idlepost/internal/economy"
	"idlepost/internal/model"
)

// Engine owns one player's GameState. Every mutation is a discrete
// apply-and-replace step serialized under a single mutex: the accrual
// tick, expiry sweep, random events and user actions never interleave.
//
// Game-rule rejections (insufficient funds, unknown key, ineligible
// prestige) are silent no-ops reported through the returned bool;
// there is no caller to signal a richer failure to.
type Engine struct {
	mu      sync.Mutex
	balance config.Balance
	state   model.GameState
	clock   Clock
	rng     *rand.Rand
}

type Option func(*Engine)

// WithClock substitutes a deterministic clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand substitutes a seeded random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func New(balance config.Balance, state model.GameState, opts ...Option) *Engine {
	e := &Engine{
		balance: balance,
		state:   state,
		clock:   RealClock{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Normalize()
	return e
}

func (e *Engine) now() int64 { return e.clock.Now().UnixMilli() }

// Snapshot returns a read-only copy of the current state.
func (e *Engine) Snapshot() model.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Balance exposes the tuning the engine was built with.
func (e *Engine) Balance() config.Balance { return e.balance }

// ClickResult reports what a manual (or automated) click produced.
type ClickResult struct {
	Gain     float64  `json:"gain"`
	Award    bool     `json:"award"`
	Unlocked []string `json:"unlocked,omitempty"`
}

// Click applies one manual action: karma and score grow by the click
// value, and one uniform draw decides an award drop.
func (e *Engine) Click() ClickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	gain := economy.ClickValue(e.balance, e.state)
	e.state.Karma += gain
	e.state.Score += gain
	e.state.Stats.TotalClicks++
	e.state.Stats.TotalKarmaEarned += gain

	award := e.rng.Float64() < economy.AwardChance(e.balance, e.state)
	if award {
		e.state.Awards++
	}

	return ClickResult{Gain: gain, Award: award, Unlocked: e.checkAchievementsLocked()}
}

// Autoclick applies one second of autoclicker output. No award roll:
// only manual clicks can drop awards.
func (e *Engine) Autoclick() ClickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	cps := economy.AutoclickerCPS(e.state)
	if cps <= 0 {
		return ClickResult{}
	}

	gain := economy.ClickValue(e.balance, e.state) * float64(cps)
	e.state.Karma += gain
	e.state.Score += gain
	e.state.Stats.TotalClicks += int64(cps)
	e.state.Stats.TotalKarmaEarned += gain

	return ClickResult{Gain: gain, Unlocked: e.checkAchievementsLocked()}
}

// BuyUpgrade levels up the named track. Unknown keys, capped levels
// and insufficient karma all leave the state untouched.
func (e *Engine) BuyUpgrade(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, fam, ok := catalog.LookupUpgrade(key)
	if !ok {
		return false
	}

	level := e.levelRef(fam, key)
	if level == nil {
		return false
	}
	if def.MaxLevel > 0 && *level >= def.MaxLevel {
		return false
	}

	cost := economy.UpgradeCost(def.BaseCost, *level, def.CostMultiplier)
	if math.Floor(e.state.Karma) < cost {
		return false
	}

	e.state.Karma -= cost
	*level++
	e.checkAchievementsLocked()
	return true
}

// levelRef maps a (family, key) pair onto the state field holding its
// level. The mapping is closed: a key outside it is an explicit miss,
// never an indexing accident.
func (e *Engine) levelRef(fam catalog.Family, key string) *int {
	switch fam {
	case catalog.FamilyUpgrade:
		switch key {
		case "reply":
			return &e.state.Upgrades.Reply
		case "pc":
			return &e.state.Upgrades.PC
		case "chair":
			return &e.state.Upgrades.Chair
		}
	case catalog.FamilyPassive:
		switch key {
		case "comment":
			return &e.state.Passives.Comment
		case "post":
			return &e.state.Passives.Post
		case "shitpost":
			return &e.state.Passives.Shitpost
		case "repost":
			return &e.state.Passives.Repost
		case "viralpost":
			return &e.state.Passives.Viralpost
		}
	case catalog.FamilyInfinite:
		switch key {
		case "popular":
			return &e.state.Infinite.Popular
		case "influencer":
			return &e.state.Infinite.Influencer
		}
	}
	return nil
}

// BuyShopItem spends awards on a theme, an autoclicker or a prestige
// reset. Prestige additionally requires the score threshold.
func (e *Engine) BuyShopItem(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := catalog.LookupShopItem(id)
	if !ok {
		return false
	}
	if e.state.Awards < item.Cost {
		return false
	}

	switch item.Type {
	case catalog.ItemTheme:
		e.state.Awards -= item.Cost
		if !e.state.HasTheme(item.Value) {
			e.state.Unlocks.Themes = append(e.state.Unlocks.Themes, item.Value)
		}

	case catalog.ItemAutoclicker:
		e.state.Awards -= item.Cost
		e.state.ActiveEffects = append(e.state.ActiveEffects, model.ActiveEffect{
			ID:              fmt.Sprintf("autoclicker-%s", uuid.NewString()),
			Type:            model.EffectAutoclicker,
			EndsAt:          e.now() + int64(item.DurationS)*1000,
			ClicksPerSecond: item.ClicksPerSecond,
		})
		if !contains(e.state.Unlocks.Autoclickers, item.Value) {
			e.state.Unlocks.Autoclickers = append(e.state.Unlocks.Autoclickers, item.Value)
		}

	case catalog.ItemPrestige:
		if !economy.CanPrestige(e.balance, e.state) {
			return false
		}
		e.prestigeLocked()

	default:
		return false
	}

	e.checkAchievementsLocked()
	return true
}

// prestigeLocked resets the run while preserving prestige level,
// badges, unlocks, achievements, settings and the cumulative
// totalKarmaEarned/timePlayed counters.
func (e *Engine) prestigeLocked() {
	old := e.state
	now := e.now()

	next := model.DefaultState(now)
	next.Prestige = model.Prestige{
		Level:  old.Prestige.Level + 1,
		Badges: append(old.Prestige.Badges, fmt.Sprintf("prestige-%d", old.Prestige.Level+1)),
	}
	next.Unlocks = old.Unlocks
	next.Achievements = old.Achievements
	next.Settings = old.Settings
	next.Stats.TotalKarmaEarned = old.Stats.TotalKarmaEarned
	next.Stats.TimePlayed = old.Stats.TimePlayed
	next.Stats.LastOnline = now

	e.state = next
}

// SetTheme switches the active theme. Unknown or still-locked themes
// are rejected.
func (e *Engine) SetTheme(theme string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.HasTheme(theme) {
		return false
	}
	e.state.Settings.Theme = theme
	return true
}

// SetAnonymous toggles leaderboard visibility.
func (e *Engine) SetAnonymous(anonymous bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Settings.Anonymous = anonymous
}

// MarkAchievementsViewed records that the player has looked at the
// achievements screen.
func (e *Engine) MarkAchievementsViewed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.AchievementsViewed = true
	e.state.LastViewedAchievementCount = len(e.state.Achievements)
}

// Reset discards everything and starts over. Distinct from prestige:
// nothing survives.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = model.DefaultState(e.now())
}

// Tick applies one second of passive accrual. A zero rate skips the
// accrual so idle saves do not churn. Ticked seconds are online time:
// lastOnline advances here so they never count again as offline gap.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sweepLocked()
	e.state.Stats.LastOnline = e.now()

	rate := economy.PassiveRate(e.balance, e.state)
	if rate <= 0 {
		return false
	}

	e.state.Karma += rate
	e.state.Score += rate
	e.state.Stats.TotalKarmaEarned += rate
	e.state.Stats.TimePlayed++
	e.checkAchievementsLocked()
	return true
}

// SweepEffects drops every effect whose endsAt has passed.
func (e *Engine) SweepEffects() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sweepLocked()
}

func (e *Engine) sweepLocked() {
	now := e.now()
	kept := e.state.ActiveEffects[:0]
	for _, eff := range e.state.ActiveEffects {
		if eff.EndsAt > now {
			kept = append(kept, eff)
		}
	}
	e.state.ActiveEffects = kept
}

// TriggerRandomEvent draws a weighted event, attaches its effect and
// unlocks the matching hidden achievement for ban/spam.
func (e *Engine) TriggerRandomEvent() catalog.RandomEventDef {
	e.mu.Lock()
	defer e.mu.Unlock()

	def := catalog.PickEvent(e.rng)

	eff := model.ActiveEffect{
		ID:     fmt.Sprintf("%s-%s", def.ID, uuid.NewString()),
		Type:   def.Effect,
		EndsAt: e.now() + int64(def.DurationS)*1000,
	}
	if def.Multiplier != 0 {
		eff.Multiplier = def.Multiplier
	}
	if def.Effect == model.EffectSpam {
		eff.Target = model.SpamTargets[e.rng.Intn(len(model.SpamTargets))]
	}
	e.state.ActiveEffects = append(e.state.ActiveEffects, eff)

	switch def.Effect {
	case model.EffectBan:
		e.unlockLocked(catalog.AchievementBanned)
	case model.EffectSpam:
		e.unlockLocked(catalog.AchievementSpam)
	}

	return def
}

// ApplyOfflineProgress credits passive gain for the time since
// lastOnline (capped) and re-anchors lastOnline. Runs once at session
// start and whenever the client reports regained visibility.
func (e *Engine) ApplyOfflineProgress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	gain := economy.OfflineGain(e.balance, e.state, now)
	if gain > 0 {
		e.state.Karma += gain
		e.state.Score += gain
	}
	e.state.Stats.LastOnline = now
	e.checkAchievementsLocked()
	return gain
}

// TouchOnline re-anchors lastOnline without crediting anything.
func (e *Engine) TouchOnline() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Stats.LastOnline = e.now()
}

// PrepareSave stamps lastSave and returns the snapshot to persist.
func (e *Engine) PrepareSave() model.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Stats.LastSave = e.now()
	return e.state.Clone()
}

func (e *Engine) unlockLocked(id string) bool {
	if e.state.HasAchievement(id) {
		return false
	}
	e.state.Achievements = append(e.state.Achievements, id)
	return true
}

// checkAchievementsLocked runs every predicate not yet unlocked and
// returns the newly unlocked IDs.
func (e *Engine) checkAchievementsLocked() []string {
	var unlocked []string
	for _, a := range catalog.Achievements {
		if e.state.HasAchievement(a.ID) {
			continue
		}
		if a.Condition(e.state) {
			e.state.Achievements = append(e.state.Achievements, a.ID)
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
