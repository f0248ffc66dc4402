package abilities

import (
	"context"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

const (
	// Key patterns: abilities:{player_id} and abilities:{player_id}:active
	abilitiesKeyPrefix = "abilities:"
	activeKeySuffix    = ":active"

	errPlayerIDEmpty  = "player ID cannot be empty"
	errAbilityIDEmpty = "ability ID cannot be empty"
)

// Config holds the configuration for the Redis ability store
type Config struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a Redis-backed ability store
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Grant(ctx context.Context, input GrantInput) (*GrantOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.AbilityID == "" {
		return nil, errors.InvalidArgument(errAbilityIDEmpty)
	}

	key := r.buildKey(input.PlayerID)
	var (
		added    *redis.IntCmd
		isActive *redis.BoolCmd
	)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, key, input.AbilityID)
		if input.Activate {
			pipe.SAdd(ctx, key+activeKeySuffix, input.AbilityID)
		}
		isActive = pipe.SIsMember(ctx, key+activeKeySuffix, input.AbilityID)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to grant ability %s", input.AbilityID)
	}

	return &GrantOutput{
		NewlyGranted: added.Val() == 1,
		Active:       isActive.Val(),
	}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := r.buildKey(input.PlayerID)
	granted, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list abilities for player %s", input.PlayerID)
	}
	active, err := r.client.SMembers(ctx, key+activeKeySuffix).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list active abilities for player %s", input.PlayerID)
	}
	sort.Strings(granted)
	sort.Strings(active)

	return &ListOutput{Granted: granted, Active: active}, nil
}

func (r *redisRepository) buildKey(playerID string) string {
	return fmt.Sprintf("%s%s", abilitiesKeyPrefix, playerID)
}
