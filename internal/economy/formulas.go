// Package economy holds the pure formulas that turn a GameState into
// derived numbers. Nothing here mutates state or looks at the clock;
// the same functions back the tick loops and the API previews.
package economy

import (
	"math"

	"idlepost/internal/config"
	"idlepost/internal/model"
)

// UpgradeCost is floor(base * mult^level). It applies identically to
// the capped, passive and infinite tracks.
func UpgradeCost(baseCost float64, level int, costMultiplier float64) float64 {
	return math.Floor(baseCost * math.Pow(costMultiplier, float64(level)))
}

// ClickValue is the karma gained by one manual click.
func ClickValue(b config.Balance, s model.GameState) float64 {
	base := b.ReplyBase + float64(s.Upgrades.Reply)*b.ReplyPerLevel
	return math.Floor(base * GlobalMultiplier(b, s))
}

// PassiveRate is karma per second from the generators. A spam effect
// zeroes out its target generator; repost and viralpost cannot be
// targeted.
func PassiveRate(b config.Balance, s model.GameState) float64 {
	total := float64(s.Passives.Repost)*b.RepostBase +
		float64(s.Passives.Viralpost)*b.ViralpostBase

	if !spammed(s, model.GeneratorComment) {
		total += float64(s.Passives.Comment) * b.CommentBase
	}
	if !spammed(s, model.GeneratorPost) {
		total += float64(s.Passives.Post) * b.PostBase
	}
	if !spammed(s, model.GeneratorShitpost) {
		total += float64(s.Passives.Shitpost) * b.ShitpostBase
	}

	return math.Floor(total * GlobalMultiplier(b, s))
}

// GlobalMultiplier is the product of every independent boost source.
// When multiple trending or ban effects coexist only the first of each
// type applies; they never compound within a type.
func GlobalMultiplier(b config.Balance, s model.GameState) float64 {
	m := 1.0
	m *= 1 + float64(s.Upgrades.PC)*b.PCBonusPerLevel
	m *= 1 + float64(s.Infinite.Popular)*b.PopularBonusPerLevel
	m *= 1 + float64(s.Infinite.Influencer)*b.InfluencerBonusPerLevel
	m *= 1 + float64(s.Prestige.Level)*b.PrestigeBonusPerLevel

	if e, ok := FirstEffect(s, model.EffectTrending); ok && e.Multiplier > 0 {
		m *= e.Multiplier
	}
	if e, ok := FirstEffect(s, model.EffectBan); ok && e.Multiplier > 0 {
		m *= e.Multiplier
	}

	return m
}

// AwardChance is the per-click probability of an award drop. The chair
// level cap gives it a hard ceiling.
func AwardChance(b config.Balance, s model.GameState) float64 {
	return b.BaseAwardChance + float64(s.Upgrades.Chair)*b.ChairBonusPerLevel
}

// OfflineGain is the karma credited for time away, computed from the
// current passive rate over the elapsed seconds since lastOnline,
// capped at MaxOfflineHours. Rate changes during the gap are
// unknowable and deliberately ignored.
func OfflineGain(b config.Balance, s model.GameState, now int64) float64 {
	elapsed := float64(now-s.Stats.LastOnline) / 1000
	if elapsed <= 0 {
		return 0
	}
	cap := float64(b.MaxOfflineHours) * 3600
	if elapsed > cap {
		elapsed = cap
	}
	return math.Floor(PassiveRate(b, s) * elapsed)
}

// CanPrestige reports whether lifetime karma has crossed the threshold.
func CanPrestige(b config.Balance, s model.GameState) bool {
	return s.Score >= b.PrestigeThreshold
}

// PrestigeReward is the global multiplier the next prestige level will
// grant, for display before committing.
func PrestigeReward(b config.Balance, s model.GameState) float64 {
	return 1 + float64(s.Prestige.Level+1)*b.PrestigeBonusPerLevel
}

// AutoclickerCPS is the click rate of the active autoclicker, or 0.
// Concurrent autoclickers coexist but only the first drives clicks.
func AutoclickerCPS(s model.GameState) int {
	if e, ok := FirstEffect(s, model.EffectAutoclicker); ok {
		return e.ClicksPerSecond
	}
	return 0
}

// FirstEffect returns the first active effect of the given type.
func FirstEffect(s model.GameState, t model.EffectType) (model.ActiveEffect, bool) {
	for _, e := range s.ActiveEffects {
		if e.Type == t {
			return e, true
		}
	}
	return model.ActiveEffect{}, false
}

func spammed(s model.GameState, g model.GeneratorKey) bool {
	for _, e := range s.ActiveEffects {
		if e.Type == model.EffectSpam && e.Target == g {
			return true
		}
	}
	return false
}
