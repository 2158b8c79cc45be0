package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const boardKey = "leaderboard:global"

// RedisStore keeps the ranking in a sorted set plus one info hash per
// player for the display fields the zset cannot carry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func infoKey(playerID string) string {
	return fmt.Sprintf("player:%s:info", playerID)
}

func (s *RedisStore) Upsert(ctx context.Context, e Entry) error {
	info, err := json.Marshal(Entry{
		PlayerID: e.PlayerID,
		Name:     e.Name,
		Score:    e.Score,
		Prestige: e.Prestige,
	})
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, boardKey, redis.Z{Score: e.Score, Member: e.PlayerID})
	pipe.Set(ctx, infoKey(e.PlayerID), info, 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Remove(ctx context.Context, playerID string) error {
	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, boardKey, playerID)
	pipe.Del(ctx, infoKey(playerID))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	ids, err := s.client.ZRevRange(ctx, boardKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}

	rows := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, err := s.loadInfo(ctx, id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, e)
	}
	// ZREVRANGE orders equal scores by member descending; re-sort so
	// ties break by player ID ascending like the other stores.
	sortEntries(rows)
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (s *RedisStore) RankOf(ctx context.Context, playerID string) (Entry, bool, error) {
	score, err := s.client.ZScore(ctx, boardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	// Rank = players strictly above, plus position within the tie group
	// under the ID-ascending tie-break.
	lit := strconv.FormatFloat(score, 'f', -1, 64)
	higher, err := s.client.ZCount(ctx, boardKey, "("+lit, "+inf").Result()
	if err != nil {
		return Entry{}, false, err
	}
	ties, err := s.client.ZRangeByScore(ctx, boardKey, &redis.ZRangeBy{Min: lit, Max: lit}).Result()
	if err != nil {
		return Entry{}, false, err
	}

	e, err := s.loadInfo(ctx, playerID)
	if err != nil {
		return Entry{}, false, err
	}
	e.Rank = int(higher) + tieRank(ties, playerID)
	return e, true, nil
}

// tieRank returns the 1-based position of playerID among the members
// of one score bucket, ordered by ID ascending.
func tieRank(ties []string, playerID string) int {
	sort.Strings(ties)
	for i, id := range ties {
		if id == playerID {
			return i + 1
		}
	}
	return len(ties) + 1
}

func (s *RedisStore) loadInfo(ctx context.Context, playerID string) (Entry, error) {
	raw, err := s.client.Get(ctx, infoKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Row exists in the zset but the info blob is gone; fall
			// back to the score alone.
			score, serr := s.client.ZScore(ctx, boardKey, playerID).Result()
			if serr != nil {
				return Entry{}, serr
			}
			return Entry{PlayerID: playerID, Name: playerID, Score: score}, nil
		}
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
