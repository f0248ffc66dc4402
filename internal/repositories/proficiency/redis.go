package proficiency

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

const (
	// Key pattern: proficiency:{player_id}, one hash field per proficiency
	proficiencyKeyPrefix = "proficiency:"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a Redis-backed proficiency repository
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.ProficiencyID == "" {
		return nil, errors.InvalidArgument(errProficiencyIDEmpty)
	}

	raw, err := r.client.HGet(ctx, r.buildKey(input.PlayerID), input.ProficiencyID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("proficiency %s not granted to player %s",
				input.ProficiencyID, input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to get proficiency %s", input.ProficiencyID)
	}

	var state entities.ProficiencyState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal proficiency state")
	}

	return &GetOutput{State: &state}, nil
}

func (r *redisRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.ProficiencyID == "" {
		return nil, errors.InvalidArgument(errProficiencyIDEmpty)
	}

	state := &entities.ProficiencyState{
		PlayerID:      input.PlayerID,
		ProficiencyID: input.ProficiencyID,
		CurrentXP:     input.XP,
		UpdatedAt:     r.clock.Now(),
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal proficiency state")
	}

	if err := r.client.HSet(ctx, r.buildKey(input.PlayerID), input.ProficiencyID, data).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to store proficiency %s", input.ProficiencyID)
	}

	return &SetOutput{State: state}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	fields, err := r.client.HGetAll(ctx, r.buildKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list proficiencies for player %s", input.PlayerID)
	}

	states := make([]*entities.ProficiencyState, 0, len(fields))
	for id, raw := range fields {
		var state entities.ProficiencyState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal proficiency %s", id)
		}
		states = append(states, &state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].ProficiencyID < states[j].ProficiencyID
	})

	return &ListOutput{States: states}, nil
}

func (r *redisRepository) buildKey(playerID string) string {
	return fmt.Sprintf("%s%s", proficiencyKeyPrefix, playerID)
}
