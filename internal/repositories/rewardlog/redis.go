package rewardlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

const (
	// Key pattern: reward_log:{player_id}, newest entry at the head
	logKeyPrefix = "reward_log:"

	// DefaultTTL is used when Config.TTL is zero
	DefaultTTL = 24 * time.Hour
	// DefaultMaxEntries is used when Config.MaxEntries is zero
	DefaultMaxEntries = 100

	// Error messages
	errEntryNil      = "entry cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client     redisclient.Client
	Clock      clock.Clock
	TTL        time.Duration
	MaxEntries int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	if c.TTL < 0 || c.MaxEntries < 0 {
		return errors.InvalidArgument("ttl and max entries must not be negative")
	}
	return nil
}

type redisRepository struct {
	client     redisclient.Client
	clock      clock.Clock
	ttl        time.Duration
	maxEntries int
}

// NewRedisRepository creates a new Redis repository for the reward ledger
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	maxEntries := cfg.MaxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}

	return &redisRepository{
		client:     cfg.Client,
		clock:      cfg.Clock,
		ttl:        ttl,
		maxEntries: maxEntries,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Append stores the entry at the head of the player's ledger
func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument(errEntryNil)
	}
	if input.Entry.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	entryJSON, err := json.Marshal(input.Entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal reward log entry")
	}

	key := r.buildKey(input.Entry.PlayerID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, entryJSON)
		pipe.LTrim(ctx, key, 0, int64(r.maxEntries-1))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store reward log entry in Redis")
	}

	return &AppendOutput{
		ExpiresAt: r.clock.Now().Add(r.ttl),
	}, nil
}

// List reads the newest entries first
func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgumentf("limit must not be negative, got %d", input.Limit)
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}

	raw, err := r.client.LRange(ctx, r.buildKey(input.PlayerID), 0, stop).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read reward log from Redis")
	}

	entries := make([]*entities.RewardLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry entities.RewardLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal reward log entry")
		}
		entries = append(entries, &entry)
	}

	return &ListOutput{Entries: entries}, nil
}

// buildKey creates the Redis key for a player's ledger
func (r *redisRepository) buildKey(playerID string) string {
	return fmt.Sprintf("%s%s", logKeyPrefix, playerID)
}
