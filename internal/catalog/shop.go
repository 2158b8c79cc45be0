package catalog

// ShopItemType branches purchase handling.
type ShopItemType string

const (
	ItemTheme       ShopItemType = "theme"
	ItemAutoclicker ShopItemType = "autoclicker"
	ItemPrestige    ShopItemType = "prestige"
)

// ShopItem is purchasable with awards.
type ShopItem struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Cost            int          `json:"cost"` // in awards
	Type            ShopItemType `json:"type"`
	Value           string       `json:"value,omitempty"`           // theme name, autoclicker speed
	DurationS       int          `json:"duration,omitempty"`        // autoclickers
	ClicksPerSecond int          `json:"clicksPerSecond,omitempty"` // autoclickers
}

var ShopItems = []ShopItem{
	{ID: "dark", Name: "Dark Mode", Description: "Modern dark theme", Cost: 0, Type: ItemTheme, Value: "dark"},
	{ID: "oldschool", Name: "Old School", Description: "Classic look", Cost: 1, Type: ItemTheme, Value: "oldschool"},
	{ID: "terminal", Name: "Terminal", Description: "Hacker aesthetic", Cost: 5, Type: ItemTheme, Value: "terminal"},
	{ID: "win98", Name: "Windows 98", Description: "Nostalgic vibes", Cost: 10, Type: ItemTheme, Value: "win98"},
	{ID: "cherry", Name: "Cherry Blossom", Description: "Serene pink theme", Cost: 10, Type: ItemTheme, Value: "cherry"},
	{ID: "gold", Name: "Gold", Description: "Luxurious golden theme", Cost: 100, Type: ItemTheme, Value: "gold"},

	{ID: "auto_slow", Name: "Slow Autoclicker", Description: "1 click/sec for 60s", Cost: 3, Type: ItemAutoclicker, Value: "slow", DurationS: 60, ClicksPerSecond: 1},
	{ID: "auto_medium", Name: "Medium Autoclicker", Description: "3 clicks/sec for 45s", Cost: 8, Type: ItemAutoclicker, Value: "medium", DurationS: 45, ClicksPerSecond: 3},
	{ID: "auto_fast", Name: "Fast Autoclicker", Description: "10 clicks/sec for 30s", Cost: 20, Type: ItemAutoclicker, Value: "fast", DurationS: 30, ClicksPerSecond: 10},

	{ID: "prestige", Name: "Prestige", Description: "Reset for permanent +10% boost", Cost: 50, Type: ItemPrestige},
}

// LookupShopItem finds a shop item by ID.
func LookupShopItem(id string) (ShopItem, bool) {
	for _, it := range ShopItems {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}
