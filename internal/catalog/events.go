package catalog

import (
	"fmt"
	"math/rand"

	"idlepost/internal/model"
)

// RandomEventDef describes a weighted random event. Multiplier 0 means
// the effect carries no multiplier (spam events).
type RandomEventDef struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Weight      int              `json:"weight"`
	DurationS   int              `json:"duration"`
	Effect      model.EffectType `json:"effect"`
	Multiplier  float64          `json:"multiplier,omitempty"`
}

var RandomEvents = []RandomEventDef{
	{ID: "spam_comment", Name: "Flagged for Spam", Description: "Comments disabled temporarily",
		Weight: 3, DurationS: 45, Effect: model.EffectSpam},
	{ID: "spam_post", Name: "Flagged for Spam", Description: "Posts disabled temporarily",
		Weight: 2, DurationS: 60, Effect: model.EffectSpam},
	{ID: "banned", Name: "Temporarily Banned", Description: "All bonuses disabled",
		Weight: 1, DurationS: 30, Effect: model.EffectBan, Multiplier: 0.5},
	{ID: "trending", Name: "Trending!", Description: "All karma doubled",
		Weight: 2, DurationS: 20, Effect: model.EffectTrending, Multiplier: 2},
	{ID: "pandas_bad", Name: "Keyboard Pandas!", Description: "Pandas are messing with your keyboard!",
		Weight: 1, DurationS: 30, Effect: model.EffectTrending, Multiplier: 0.9},
	{ID: "pandas_good", Name: "Helper Pandas!", Description: "Pandas are boosting your karma!",
		Weight: 1, DurationS: 25, Effect: model.EffectTrending, Multiplier: 1.5},
}

// PickEvent draws one event by cumulative weight over [0, totalWeight).
func PickEvent(rng *rand.Rand) RandomEventDef {
	total := 0
	for _, e := range RandomEvents {
		total += e.Weight
	}

	roll := rng.Intn(total)
	current := 0
	for _, e := range RandomEvents {
		current += e.Weight
		if roll < current {
			return e
		}
	}
	return RandomEvents[0]
}

// Validate sanity-checks all tables. Called once at startup; a failure
// is a programming error in the tables themselves.
func Validate() error {
	seen := map[string]bool{}
	for _, tracks := range [][]UpgradeDef{Upgrades, Passives, Infinites} {
		for _, u := range tracks {
			if u.Key == "" || seen[u.Key] {
				return fmt.Errorf("catalog: duplicate or empty upgrade key %q", u.Key)
			}
			seen[u.Key] = true
			if u.BaseCost <= 0 || u.CostMultiplier <= 1 {
				return fmt.Errorf("catalog: upgrade %q has non-increasing cost curve", u.Key)
			}
		}
	}

	items := map[string]bool{}
	for _, it := range ShopItems {
		if it.ID == "" || items[it.ID] {
			return fmt.Errorf("catalog: duplicate or empty shop item id %q", it.ID)
		}
		items[it.ID] = true
		if it.Cost < 0 {
			return fmt.Errorf("catalog: shop item %q has negative cost", it.ID)
		}
		if it.Type == ItemAutoclicker && (it.DurationS <= 0 || it.ClicksPerSecond <= 0) {
			return fmt.Errorf("catalog: autoclicker %q missing duration or rate", it.ID)
		}
	}

	achievements := map[string]bool{}
	for _, a := range Achievements {
		if a.ID == "" || achievements[a.ID] {
			return fmt.Errorf("catalog: duplicate or empty achievement id %q", a.ID)
		}
		achievements[a.ID] = true
		if a.Condition == nil {
			return fmt.Errorf("catalog: achievement %q has no condition", a.ID)
		}
	}

	events := map[string]bool{}
	for _, e := range RandomEvents {
		if e.ID == "" || events[e.ID] {
			return fmt.Errorf("catalog: duplicate or empty event id %q", e.ID)
		}
		events[e.ID] = true
		if e.Weight <= 0 {
			return fmt.Errorf("catalog: event %q has non-positive weight", e.ID)
		}
		if e.DurationS <= 0 {
			return fmt.Errorf("catalog: event %q has non-positive duration", e.ID)
		}
	}

	return nil
}
