// Package catalog holds the static, read-only game tables: upgrade
// tracks, shop items, achievements and random events. Entries are
// process-lifetime constants; lookups by key are validated and report
// unknown keys explicitly.
package catalog

// Family identifies which upgrade track a key belongs to.
type Family string

const (
	FamilyUpgrade  Family = "upgrade"  // finite, level-capped
	FamilyPassive  Family = "passive"  // uncapped generators
	FamilyInfinite Family = "infinite" // uncapped global multipliers
)

// UpgradeDef describes one purchasable track. MaxLevel 0 means
// uncapped.
type UpgradeDef struct {
	Key            string  `json:"key"`
	Label          string  `json:"label"`
	Description    string  `json:"description"`
	BaseCost       float64 `json:"baseCost"`
	CostMultiplier float64 `json:"costMultiplier"`
	MaxLevel       int     `json:"maxLevel,omitempty"`
	Effect         string  `json:"effect"`
}

var Upgrades = []UpgradeDef{
	{
		Key:            "reply",
		Label:          "Better Replies",
		Description:    "Increase karma per click",
		BaseCost:       10,
		CostMultiplier: 1.5,
		MaxLevel:       10,
		Effect:         "+1 karma per click",
	},
	{
		Key:            "pc",
		Label:          "Gaming PC",
		Description:    "Boost all karma generation",
		BaseCost:       100,
		CostMultiplier: 2,
		MaxLevel:       5,
		Effect:         "+20% global karma per level",
	},
	{
		Key:            "chair",
		Label:          "Gaming Chair",
		Description:    "Increase award drop chance",
		BaseCost:       500,
		CostMultiplier: 2.5,
		MaxLevel:       5,
		Effect:         "+0.5% award chance per level",
	},
}

var Passives = []UpgradeDef{
	{
		Key:            "comment",
		Label:          "Comments",
		Description:    "Passive karma generation",
		BaseCost:       50,
		CostMultiplier: 1.15,
		Effect:         "+3 karma/sec per level",
	},
	{
		Key:            "post",
		Label:          "Posts",
		Description:    "Better passive karma generation",
		BaseCost:       500,
		CostMultiplier: 1.15,
		Effect:         "+15 karma/sec per level",
	},
	{
		Key:            "shitpost",
		Label:          "Shitposts",
		Description:    "Great passive karma generation",
		BaseCost:       5000,
		CostMultiplier: 1.15,
		Effect:         "+75 karma/sec per level",
	},
	{
		Key:            "repost",
		Label:          "Reposts",
		Description:    "Excellent passive karma generation",
		BaseCost:       50000,
		CostMultiplier: 1.15,
		Effect:         "+300 karma/sec per level",
	},
	{
		Key:            "viralpost",
		Label:          "Viral Posts",
		Description:    "Maximum passive karma generation",
		BaseCost:       500000,
		CostMultiplier: 1.15,
		Effect:         "+1500 karma/sec per level",
	},
}

var Infinites = []UpgradeDef{
	{
		Key:            "popular",
		Label:          "Popular",
		Description:    "Moderate global boost",
		BaseCost:       10000,
		CostMultiplier: 1.4,
		Effect:         "+5% global karma per level",
	},
	{
		Key:            "influencer",
		Label:          "Influencer",
		Description:    "Expensive global boost",
		BaseCost:       100000,
		CostMultiplier: 1.6,
		Effect:         "+10% global karma per level",
	},
}

// LookupUpgrade finds a track definition by key across all three
// families.
func LookupUpgrade(key string) (UpgradeDef, Family, bool) {
	for _, u := range Upgrades {
		if u.Key == key {
			return u, FamilyUpgrade, true
		}
	}
	for _, u := range Passives {
		if u.Key == key {
			return u, FamilyPassive, true
		}
	}
	for _, u := range Infinites {
		if u.Key == key {
			return u, FamilyInfinite, true
		}
	}
	return UpgradeDef{}, "", false
}
