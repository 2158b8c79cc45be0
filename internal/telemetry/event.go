package telemetry

import "time"

type EventType string

const (
	EventSessionOpened   EventType = "session_opened"
	EventSessionClosed   EventType = "session_closed"
	EventClick           EventType = "click"
	EventUpgradeBought   EventType = "upgrade_bought"
	EventShopPurchase    EventType = "shop_purchase"
	EventPrestige        EventType = "prestige"
	EventRandomEvent     EventType = "random_event"
	EventAwardDropped    EventType = "award_dropped"
	EventAchievement     EventType = "achievement_unlocked"
	EventOfflineProgress EventType = "offline_progress"
	EventHardReset       EventType = "hard_reset"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	PlayerID  string    `json:"playerId"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
