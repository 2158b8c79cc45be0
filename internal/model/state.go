package model

import "encoding/json"

// GameState is the single root aggregate for one player. The engine in
// internal/game owns all mutation; everything else sees snapshots.
//
// The JSON shape doubles as the save format and must round-trip
// losslessly. Missing fields on load default-fill, never error.
type GameState struct {
	Karma  float64 `json:"karma"`
	Score  float64 `json:"score"`
	Awards int     `json:"awards"`

	Upgrades Upgrades `json:"upgrades"`
	Passives Passives `json:"passives"`
	Infinite Infinite `json:"infinite"`

	Prestige Prestige `json:"prestige"`
	Unlocks  Unlocks  `json:"unlocks"`

	ActiveEffects []ActiveEffect `json:"activeEffects"`

	Achievements               []string `json:"achievements"`
	AchievementsViewed         bool     `json:"achievementsViewed"`
	LastViewedAchievementCount int      `json:"lastViewedAchievementCount"`

	Stats    Stats    `json:"stats"`
	Settings Settings `json:"settings"`
}

// Upgrades are the finite, level-capped tracks.
type Upgrades struct {
	Reply int `json:"reply"`
	PC    int `json:"pc"`
	Chair int `json:"chair"`
}

// Passives are the uncapped per-second generators.
type Passives struct {
	Comment   int `json:"comment"`
	Post      int `json:"post"`
	Shitpost  int `json:"shitpost"`
	Repost    int `json:"repost"`
	Viralpost int `json:"viralpost"`
}

// Infinite are the uncapped global-multiplier tracks.
type Infinite struct {
	Popular    int `json:"popular"`
	Influencer int `json:"influencer"`
}

type Prestige struct {
	Level  int      `json:"level"`
	Badges []string `json:"badges"`
}

type Unlocks struct {
	Themes       []string `json:"themes"`
	Autoclickers []string `json:"autoclickers"`
}

type Stats struct {
	TotalClicks      int64   `json:"totalClicks"`
	TotalKarmaEarned float64 `json:"totalKarmaEarned"`
	TimePlayed       int64   `json:"timePlayed"` // seconds
	LastSave         int64   `json:"lastSave"`   // unix millis
	LastOnline       int64   `json:"lastOnline"` // unix millis
}

type Settings struct {
	Theme     string `json:"theme"`
	Anonymous bool   `json:"anonymous"`
}

// EffectType enumerates the time-bounded modifier kinds.
type EffectType string

const (
	EffectSpam        EffectType = "spam"
	EffectBan         EffectType = "ban"
	EffectTrending    EffectType = "trending"
	EffectAutoclicker EffectType = "autoclicker"
)

// GeneratorKey names a passive generator a spam effect can target.
type GeneratorKey string

const (
	GeneratorComment  GeneratorKey = "comment"
	GeneratorPost     GeneratorKey = "post"
	GeneratorShitpost GeneratorKey = "shitpost"
)

// SpamTargets are the generators a spam effect may disable.
var SpamTargets = []GeneratorKey{GeneratorComment, GeneratorPost, GeneratorShitpost}

// ActiveEffect is a time-bounded modifier. It is created by a shop
// purchase or a random event and filtered out once EndsAt has passed.
type ActiveEffect struct {
	ID              string       `json:"id"`
	Type            EffectType   `json:"type"`
	Target          GeneratorKey `json:"target,omitempty"`          // spam only
	Multiplier      float64      `json:"multiplier,omitempty"`      // trending/ban only
	EndsAt          int64        `json:"endsAt"`                    // unix millis
	ClicksPerSecond int          `json:"clicksPerSecond,omitempty"` // autoclicker only
}

// DefaultState returns a fresh save anchored at now (unix millis).
func DefaultState(now int64) GameState {
	return GameState{
		Unlocks: Unlocks{
			Themes:       []string{"light", "dark"},
			Autoclickers: []string{},
		},
		Prestige:      Prestige{Badges: []string{}},
		ActiveEffects: []ActiveEffect{},
		Achievements:  []string{},
		Stats: Stats{
			LastSave:   now,
			LastOnline: now,
		},
		Settings: Settings{Theme: "light"},
	}
}

// FromJSON decodes a save blob over the default state so that missing
// fields default-fill. Unknown fields are ignored.
func FromJSON(data []byte, now int64) (GameState, error) {
	s := DefaultState(now)
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultState(now), err
	}
	s.Normalize()
	return s, nil
}

// Normalize repairs a state that came from an untrusted blob: nil
// slices become empty and negative counters clamp to zero.
func (s *GameState) Normalize() {
	if s.Karma < 0 {
		s.Karma = 0
	}
	if s.Score < 0 {
		s.Score = 0
	}
	if s.Awards < 0 {
		s.Awards = 0
	}
	if s.Unlocks.Themes == nil {
		s.Unlocks.Themes = []string{"light"}
	}
	if s.Unlocks.Autoclickers == nil {
		s.Unlocks.Autoclickers = []string{}
	}
	if s.Prestige.Badges == nil {
		s.Prestige.Badges = []string{}
	}
	if s.ActiveEffects == nil {
		s.ActiveEffects = []ActiveEffect{}
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	if s.Settings.Theme == "" {
		s.Settings.Theme = "light"
	}
}

// Clone returns a deep copy safe to hand outside the engine. Empty
// slices stay empty rather than collapsing to nil so clones compare
// equal to their source.
func (s GameState) Clone() GameState {
	out := s
	out.Unlocks.Themes = cloneStrings(s.Unlocks.Themes)
	out.Unlocks.Autoclickers = cloneStrings(s.Unlocks.Autoclickers)
	out.Prestige.Badges = cloneStrings(s.Prestige.Badges)
	out.Achievements = cloneStrings(s.Achievements)
	if s.ActiveEffects != nil {
		out.ActiveEffects = make([]ActiveEffect, len(s.ActiveEffects))
		copy(out.ActiveEffects, s.ActiveEffects)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// HasTheme reports whether the theme has been unlocked.
func (s GameState) HasTheme(theme string) bool {
	for _, t := range s.Unlocks.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// HasAchievement reports whether the achievement is already unlocked.
func (s GameState) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
