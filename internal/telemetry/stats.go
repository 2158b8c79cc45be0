package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period          string            `json:"period"`
	EventCounts     map[EventType]int `json:"event_counts"`
	UniquePlayers   int               `json:"unique_players"`
	Clicks          int               `json:"clicks"`
	AwardDrops      int               `json:"award_drops"`
	AwardDropRate   float64           `json:"award_drop_rate"`
	Prestiges       int               `json:"prestiges"`
	RandomEvents    int               `json:"random_events"`
	EventsByKind    map[string]int    `json:"events_by_kind"`
	UpgradesByTrack map[string]int    `json:"upgrades_by_track"`
	ShopByItem      map[string]int    `json:"shop_by_item"`
}

// CalculateStats reduces raw events into balance-tuning numbers.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:          since.Format("2006-01-02"),
		EventCounts:     make(map[EventType]int),
		EventsByKind:    make(map[string]int),
		UpgradesByTrack: make(map[string]int),
		ShopByItem:      make(map[string]int),
	}

	players := map[string]bool{}
	for _, event := range events {
		stats.EventCounts[event.Type]++
		if event.PlayerID != "" {
			players[event.PlayerID] = true
		}

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventClick:
			stats.Clicks++
		case EventAwardDropped:
			stats.AwardDrops++
		case EventPrestige:
			stats.Prestiges++
		case EventRandomEvent:
			stats.RandomEvents++
			if kind, ok := metadata["event_id"].(string); ok {
				stats.EventsByKind[kind]++
			}
		case EventUpgradeBought:
			if track, ok := metadata["key"].(string); ok {
				stats.UpgradesByTrack[track]++
			}
		case EventShopPurchase:
			if item, ok := metadata["item_id"].(string); ok {
				stats.ShopByItem[item]++
			}
		}
	}
	stats.UniquePlayers = len(players)

	if stats.Clicks > 0 {
		stats.AwardDropRate = float64(stats.AwardDrops) / float64(stats.Clicks)
	}

	return stats, nil
}
