package proficiency

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-rewards/internal/redis"
)

// RepairInput configures a repair pass over every stored proficiency
type RepairInput struct {
	// Normalize returns the XP a state should hold, or false when the
	// proficiency no longer exists and the field should be removed
	Normalize func(state *entities.ProficiencyState) (float64, bool)
	// DryRun counts problems without writing
	DryRun bool
}

// RepairOutput counts what the pass found
type RepairOutput struct {
	Keys    int
	Checked int
	// Corrupt fields could not be decoded and were removed
	Corrupt int
	// Adjusted fields had their XP rewritten by Normalize
	Adjusted int
	// Removed fields referenced a proficiency Normalize rejected
	Removed int
}

// RepairRedis scans every proficiency hash, removes fields that do not decode
// and rewrites XP that Normalize disagrees with.
func RepairRedis(ctx context.Context, client redisclient.Client, input RepairInput) (*RepairOutput, error) {
	if client == nil {
		return nil, errors.InvalidArgument("redis client is required")
	}
	if input.Normalize == nil {
		return nil, errors.InvalidArgument("normalize function is required")
	}

	out := &RepairOutput{}
	iter := client.Scan(ctx, 0, proficiencyKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		out.Keys++

		fields, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return out, errors.Wrapf(err, "failed to read %s", key)
		}

		for field, raw := range fields {
			out.Checked++
			if err := repairField(ctx, client, key, field, raw, input, out); err != nil {
				return out, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return out, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to scan proficiency keys")
	}

	slog.Info("Proficiency repair complete",
		"dry_run", input.DryRun,
		"keys", out.Keys,
		"checked", out.Checked,
		"corrupt", out.Corrupt,
		"adjusted", out.Adjusted,
		"removed", out.Removed)

	return out, nil
}

func repairField(ctx context.Context, client redisclient.Client, key, field, raw string, input RepairInput, out *RepairOutput) error {
	var state entities.ProficiencyState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		slog.Warn("Corrupt proficiency state", "key", key, "field", field, "error", err)
		out.Corrupt++
		return deleteField(ctx, client, key, field, input.DryRun)
	}

	xp, keep := input.Normalize(&state)
	if !keep {
		out.Removed++
		return deleteField(ctx, client, key, field, input.DryRun)
	}
	if xp == state.CurrentXP {
		return nil
	}

	slog.Warn("Proficiency XP out of range",
		"key", key,
		"proficiency_id", field,
		"stored_xp", state.CurrentXP,
		"repaired_xp", xp)
	out.Adjusted++
	if input.DryRun {
		return nil
	}

	state.CurrentXP = xp
	data, err := json.Marshal(&state)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal proficiency state")
	}
	if err := client.HSet(ctx, key, field, data).Err(); err != nil {
		return errors.Wrapf(err, "failed to rewrite %s %s", key, field)
	}
	return nil
}

func deleteField(ctx context.Context, client redisclient.Client, key, field string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := client.HDel(ctx, key, field).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete %s %s", key, field)
	}
	return nil
}
