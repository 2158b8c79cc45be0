package config

import (
	"os"
	"strconv"
)

// BalanceFromEnv loads balance tuning from environment variables,
// falling back to the defaults for anything unset.
func BalanceFromEnv() Balance {
	b := DefaultBalance()

	if v := getEnvFloat("IDLEPOST_REPLY_BASE"); v > 0 {
		b.ReplyBase = v
	}
	if v := getEnvFloat("IDLEPOST_REPLY_PER_LEVEL"); v > 0 {
		b.ReplyPerLevel = v
	}
	if v := getEnvFloat("IDLEPOST_BASE_AWARD_CHANCE"); v > 0 {
		b.BaseAwardChance = v
	}
	if v := getEnvFloat("IDLEPOST_PRESTIGE_THRESHOLD"); v > 0 {
		b.PrestigeThreshold = v
	}
	if v := getEnvInt("IDLEPOST_MAX_OFFLINE_HOURS"); v > 0 {
		b.MaxOfflineHours = v
	}
	if v := getEnvInt("IDLEPOST_EVENT_INTERVAL_MIN_S"); v > 0 {
		b.EventIntervalMinS = v
	}
	if v := getEnvInt("IDLEPOST_EVENT_INTERVAL_MAX_S"); v > 0 {
		b.EventIntervalMaxS = v
	}
	if b.EventIntervalMaxS < b.EventIntervalMinS {
		b.EventIntervalMaxS = b.EventIntervalMinS
	}

	return b
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
