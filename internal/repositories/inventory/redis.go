package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

const (
	// Key pattern: inventory:{player_id}, one hash field per slot index
	inventoryKeyPrefix = "inventory:"

	// DefaultCapacity is the slot count used when Config.Capacity is zero
	DefaultCapacity = 30

	maxTxRetries = 5

	errPlayerIDEmpty = "player ID cannot be empty"
)

// Config holds the configuration for the Redis inventory
type Config struct {
	Client   redisclient.Client
	Capacity int
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
	if c.Capacity < 0 {
		vb.InvalidField("Capacity", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client   redisclient.Client
	capacity int
}

// NewRedisRepository creates a Redis-backed inventory
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	return &redisRepository{
		client:   cfg.Client,
		capacity: capacity,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) AddItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Item == nil || input.Item.ID == "" {
		return nil, errors.InvalidArgument("item cannot be empty")
	}
	if input.Quantity < 1 {
		return nil, errors.InvalidArgumentf("quantity must be at least 1, got %d", input.Quantity)
	}

	key := r.buildKey(input.PlayerID)
	var out *AddItemOutput

	txf := func(tx *redis.Tx) error {
		raw, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		slots, err := decodeSlots(raw)
		if err != nil {
			return err
		}

		changed, placed := r.place(slots, input.Item, input.Quantity)
		out = &AddItemOutput{Placed: placed, Remaining: input.Quantity - placed}
		if len(changed) == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for idx, stack := range changed {
				data, err := json.Marshal(stack)
				if err != nil {
					return err
				}
				pipe.HSet(ctx, key, strconv.Itoa(idx), data)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			slog.Debug("Items placed in inventory",
				"player_id", input.PlayerID,
				"item_id", input.Item.ID,
				"placed", out.Placed,
				"remaining", out.Remaining)
			return out, nil
		}
		if err != redis.TxFailedErr {
			return nil, errors.Wrapf(err, "failed to add %s to inventory", input.Item.ID)
		}
	}

	return nil, errors.Unavailablef("inventory for player %s is busy", input.PlayerID)
}

// place mutates slots and returns the slots it touched
func (r *redisRepository) place(slots map[int]entities.ItemStack, item *entities.ItemDefinition, quantity int) (map[int]entities.ItemStack, int) {
	stackMax := item.StackSizeMax
	if stackMax < 1 {
		stackMax = 1
	}

	changed := make(map[int]entities.ItemStack)
	remaining := quantity

	for idx := 0; idx < r.capacity && remaining > 0; idx++ {
		stack, ok := slots[idx]
		if !ok || stack.ItemID != item.ID || stack.Quantity >= stackMax {
			continue
		}
		n := min(stackMax-stack.Quantity, remaining)
		stack.Quantity += n
		remaining -= n
		slots[idx] = stack
		changed[idx] = stack
	}

	for idx := 0; idx < r.capacity && remaining > 0; idx++ {
		if _, ok := slots[idx]; ok {
			continue
		}
		n := min(stackMax, remaining)
		stack := entities.ItemStack{ItemID: item.ID, Quantity: n}
		remaining -= n
		slots[idx] = stack
		changed[idx] = stack
	}

	return changed, quantity - remaining
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	raw, err := r.client.HGetAll(ctx, r.buildKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get inventory for player %s", input.PlayerID)
	}
	slots, err := decodeSlots(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode inventory")
	}

	out := &GetOutput{Capacity: r.capacity, Slots: make([]Slot, 0, len(slots))}
	for idx, stack := range slots {
		out.Slots = append(out.Slots, Slot{Index: idx, Stack: stack})
	}
	sort.Slice(out.Slots, func(i, j int) bool {
		return out.Slots[i].Index < out.Slots[j].Index
	})

	return out, nil
}

func decodeSlots(raw map[string]string) (map[int]entities.ItemStack, error) {
	slots := make(map[int]entities.ItemStack, len(raw))
	for field, value := range raw {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Internalf("invalid inventory slot %q", field)
		}
		var stack entities.ItemStack
		if err := json.Unmarshal([]byte(value), &stack); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal inventory slot %d", idx)
		}
		slots[idx] = stack
	}
	return slots, nil
}

func (r *redisRepository) buildKey(playerID string) string {
	return fmt.Sprintf("%s%s", inventoryKeyPrefix, playerID)
}
