package config

// Balance holds every tunable number in the economy. All rates are
// per-second, all bonuses are fractional (0.2 = +20% per level).
type Balance struct {
	// Manual clicks
	ReplyBase     float64 `json:"reply_base"`
	ReplyPerLevel float64 `json:"reply_per_level"`

	// Passive generation per level
	CommentBase   float64 `json:"comment_base"`
	PostBase      float64 `json:"post_base"`
	ShitpostBase  float64 `json:"shitpost_base"`
	RepostBase    float64 `json:"repost_base"`
	ViralpostBase float64 `json:"viralpost_base"`

	// Global multiplier sources
	PCBonusPerLevel         float64 `json:"pc_bonus_per_level"`
	PopularBonusPerLevel    float64 `json:"popular_bonus_per_level"`
	InfluencerBonusPerLevel float64 `json:"influencer_bonus_per_level"`
	PrestigeBonusPerLevel   float64 `json:"prestige_bonus_per_level"`

	// Awards
	BaseAwardChance    float64 `json:"base_award_chance"`
	ChairBonusPerLevel float64 `json:"chair_bonus_per_level"`

	// Prestige
	PrestigeThreshold float64 `json:"prestige_threshold"`

	// Offline catch-up
	MaxOfflineHours int `json:"max_offline_hours"`

	// Random events
	EventIntervalMinS int `json:"event_interval_min_s"`
	EventIntervalMaxS int `json:"event_interval_max_s"`
}

// DefaultBalance returns the live tuning.
func DefaultBalance() Balance {
	return Balance{
		ReplyBase:     1,
		ReplyPerLevel: 1,

		CommentBase:   3,
		PostBase:      15,
		ShitpostBase:  75,
		RepostBase:    300,
		ViralpostBase: 1500,

		PCBonusPerLevel:         0.2,
		PopularBonusPerLevel:    0.05,
		InfluencerBonusPerLevel: 0.1,
		PrestigeBonusPerLevel:   0.1,

		BaseAwardChance:    0.004,
		ChairBonusPerLevel: 0.005,

		PrestigeThreshold: 1_000_000,

		MaxOfflineHours: 24,

		EventIntervalMinS: 10 * 60,
		EventIntervalMaxS: 15 * 60,
	}
}
