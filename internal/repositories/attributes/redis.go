package attributes

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

const (
	// Key pattern: attributes:{player_id}, one hash field per attribute
	attributesKeyPrefix = "attributes:"

	maxTxRetries = 5

	errPlayerIDEmpty  = "player ID cannot be empty"
	errAttributeEmpty = "attribute cannot be empty"
)

// Config holds the configuration for the Redis attribute store
type Config struct {
	Client redisclient.Client
	// Caps bounds attributes from above; attributes without a cap are unbounded
	Caps map[string]float64
	// Defaults is the base value of an attribute the player has never modified
	Defaults map[string]float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	for attr, limit := range c.Caps {
		if def, ok := c.Defaults[attr]; ok && def > limit {
			vb.Fieldf("Defaults."+attr, "default %g exceeds cap %g", def, limit)
		}
	}
	return vb.Build()
}

type redisRepository struct {
	client   redisclient.Client
	caps     map[string]float64
	defaults map[string]float64
}

// NewRedisRepository creates a Redis-backed attribute store
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client:   cfg.Client,
		caps:     cfg.Caps,
		defaults: cfg.Defaults,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Apply(ctx context.Context, input ApplyInput) (*ApplyOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Attribute == "" {
		return nil, errors.InvalidArgument(errAttributeEmpty)
	}
	if math.IsNaN(input.Magnitude) || math.IsInf(input.Magnitude, 0) {
		return nil, errors.InvalidArgumentf("magnitude must be finite, got %g", input.Magnitude)
	}

	key := r.buildKey(input.PlayerID)
	var out *ApplyOutput

	txf := func(tx *redis.Tx) error {
		previous := r.defaults[input.Attribute]
		raw, err := tx.HGet(ctx, key, input.Attribute).Result()
		switch {
		case err == redis.Nil:
		case err != nil:
			return err
		default:
			previous, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return errors.Internalf("invalid stored value for %s: %q", input.Attribute, raw)
			}
		}

		current := input.Modifier.Apply(previous, input.Magnitude)
		clamped := false
		if limit, ok := r.caps[input.Attribute]; ok && current > limit {
			current = limit
			clamped = true
		}
		out = &ApplyOutput{
			Previous: previous,
			Current:  current,
			Delta:    current - previous,
			Clamped:  clamped,
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, input.Attribute, strconv.FormatFloat(current, 'g', -1, 64))
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			if out.Clamped {
				slog.Debug("Attribute clamped to cap",
					"player_id", input.PlayerID,
					"attribute", input.Attribute,
					"cap", out.Current)
			}
			return out, nil
		}
		if err != redis.TxFailedErr {
			return nil, errors.Wrapf(err, "failed to apply %s", input.Attribute)
		}
	}

	return nil, errors.Unavailablef("attributes for player %s are busy", input.PlayerID)
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	raw, err := r.client.HGetAll(ctx, r.buildKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get attributes for player %s", input.PlayerID)
	}

	values := make(map[string]float64, len(r.defaults)+len(raw))
	for attr, v := range r.defaults {
		values[attr] = v
	}
	for attr, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Internalf("invalid stored value for %s: %q", attr, v)
		}
		values[attr] = f
	}

	return &GetOutput{Values: values}, nil
}

func (r *redisRepository) buildKey(playerID string) string {
	return fmt.Sprintf("%s%s", attributesKeyPrefix, playerID)
}
