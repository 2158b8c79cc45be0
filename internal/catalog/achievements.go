package catalog

import "idlepost/internal/model"

// AchievementDef carries a predicate over GameState. Predicates are
// monotonic thresholds on non-decreasing counters, so evaluation order
// does not matter and an unlocked achievement never re-locks. Hidden
// achievements have a false predicate and are unlocked directly by the
// random-event trigger.
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hidden      bool   `json:"hidden,omitempty"`
	Condition   func(model.GameState) bool `json:"-"`
}

const (
	// Unlocked by random events, not by predicate.
	AchievementBanned = "banned"
	AchievementSpam   = "spam"
)

var Achievements = []AchievementDef{
	{ID: "click_100", Name: "Getting Started", Description: "Click 100 times",
		Condition: func(s model.GameState) bool { return s.Stats.TotalClicks >= 100 }},
	{ID: "click_1000", Name: "Dedicated", Description: "Click 1,000 times",
		Condition: func(s model.GameState) bool { return s.Stats.TotalClicks >= 1000 }},
	{ID: "click_10000", Name: "Obsessed", Description: "Click 10,000 times",
		Condition: func(s model.GameState) bool { return s.Stats.TotalClicks >= 10000 }},

	{ID: "score_1k", Name: "First Thousand", Description: "Earn 1,000 total karma",
		Condition: func(s model.GameState) bool { return s.Score >= 1000 }},
	{ID: "score_10k", Name: "Ten Grand", Description: "Earn 10,000 total karma",
		Condition: func(s model.GameState) bool { return s.Score >= 10000 }},
	{ID: "score_100k", Name: "Six Figures", Description: "Earn 100,000 total karma",
		Condition: func(s model.GameState) bool { return s.Score >= 100000 }},
	{ID: "score_1m", Name: "Millionaire", Description: "Earn 1,000,000 total karma",
		Condition: func(s model.GameState) bool { return s.Score >= 1000000 }},

	{ID: "karma_1k", Name: "Loaded", Description: "Have 1,000 karma at once",
		Condition: func(s model.GameState) bool { return s.Karma >= 1000 }},
	{ID: "karma_10k", Name: "Wealthy", Description: "Have 10,000 karma at once",
		Condition: func(s model.GameState) bool { return s.Karma >= 10000 }},
	{ID: "karma_100k", Name: "Rich", Description: "Have 100,000 karma at once",
		Condition: func(s model.GameState) bool { return s.Karma >= 100000 }},

	{ID: "max_reply", Name: "Reply Expert", Description: "Max out Reply upgrades",
		Condition: func(s model.GameState) bool { return s.Upgrades.Reply >= 10 }},
	{ID: "max_pc", Name: "Tech God", Description: "Max out Gaming PC",
		Condition: func(s model.GameState) bool { return s.Upgrades.PC >= 5 }},
	{ID: "max_chair", Name: "Comfortable", Description: "Max out Gaming Chair",
		Condition: func(s model.GameState) bool { return s.Upgrades.Chair >= 5 }},
	{ID: "comment_10", Name: "Commenter", Description: "Buy 10 Comment upgrades",
		Condition: func(s model.GameState) bool { return s.Passives.Comment >= 10 }},
	{ID: "post_10", Name: "Poster", Description: "Buy 10 Post upgrades",
		Condition: func(s model.GameState) bool { return s.Passives.Post >= 10 }},
	{ID: "shitpost_10", Name: "Shitposter", Description: "Buy 10 Shitpost upgrades",
		Condition: func(s model.GameState) bool { return s.Passives.Shitpost >= 10 }},
	{ID: "repost_10", Name: "Reposter", Description: "Buy 10 Repost upgrades",
		Condition: func(s model.GameState) bool { return s.Passives.Repost >= 10 }},
	{ID: "viral_10", Name: "Viral Creator", Description: "Buy 10 Viral Post upgrades",
		Condition: func(s model.GameState) bool { return s.Passives.Viralpost >= 10 }},

	{ID: "award_10", Name: "Awarded", Description: "Earn 10 awards",
		Condition: func(s model.GameState) bool { return s.Awards >= 10 }},
	{ID: "award_50", Name: "Award Collector", Description: "Earn 50 awards",
		Condition: func(s model.GameState) bool { return s.Awards >= 50 }},

	{ID: "prestige_1", Name: "Second Wind", Description: "Prestige once",
		Condition: func(s model.GameState) bool { return s.Prestige.Level >= 1 }},
	{ID: "prestige_5", Name: "Veteran", Description: "Prestige 5 times",
		Condition: func(s model.GameState) bool { return s.Prestige.Level >= 5 }},
	{ID: "prestige_10", Name: "Legend", Description: "Prestige 10 times",
		Condition: func(s model.GameState) bool { return s.Prestige.Level >= 10 }},

	{ID: AchievementBanned, Name: "Troublemaker", Description: "Get banned by a random event",
		Hidden: true, Condition: func(model.GameState) bool { return false }},
	{ID: AchievementSpam, Name: "Spam Filter Victim", Description: "Get flagged for spam",
		Hidden: true, Condition: func(model.GameState) bool { return false }},
}

// LookupAchievement finds an achievement by ID.
func LookupAchievement(id string) (AchievementDef, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementDef{}, false
}
