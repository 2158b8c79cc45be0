package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"idlepost/internal/game"
	"idlepost/internal/model"
)

// RedisRepo stores each save under player:<id>:save.
type RedisRepo struct {
	client *redis.Client
	clock  game.Clock
}

func NewRedisRepo(client *redis.Client, clock game.Clock) *RedisRepo {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &RedisRepo{client: client, clock: clock}
}

func saveKey(playerID string) string {
	return fmt.Sprintf("player:%s:save", playerID)
}

func (r *RedisRepo) Load(ctx context.Context, playerID string) (model.GameState, bool, error) {
	now := r.clock.Now().UnixMilli()

	raw, err := r.client.Get(ctx, saveKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.DefaultState(now), false, nil
		}
		return model.DefaultState(now), false, err
	}

	state, err := model.FromJSON(raw, now)
	if err != nil {
		return model.DefaultState(now), false, nil
	}
	return state, true, nil
}

func (r *RedisRepo) Save(ctx context.Context, playerID string, state model.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, saveKey(playerID), b, 0).Err()
}

func (r *RedisRepo) Delete(ctx context.Context, playerID string) error {
	return r.client.Del(ctx, saveKey(playerID)).Err()
}
