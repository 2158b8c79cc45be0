// Package leaderboard ranks players by lifetime score. Entries are
// upserted on every session flush and removed when a player opts out
// of public ranking.
package leaderboard

import (
	"context"
	"sort"
)

// Entry is one ranked row. Rank is 1-based and only populated on
// reads that compute it.
type Entry struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Prestige int     `json:"prestige"`
	Rank     int     `json:"rank,omitempty"`
}

type Store interface {
	// Upsert inserts or replaces the player's row.
	Upsert(ctx context.Context, e Entry) error
	// Remove deletes the player's row if present.
	Remove(ctx context.Context, playerID string) error
	// TopN returns the best n rows, score descending, ties broken by
	// player ID ascending so pagination is stable.
	TopN(ctx context.Context, n int) ([]Entry, error)
	// RankOf returns the player's row with Rank set, or ok=false.
	RankOf(ctx context.Context, playerID string) (Entry, bool, error)
}

// sortEntries orders rows score-descending with the ID tie-break.
func sortEntries(rows []Entry) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
}
