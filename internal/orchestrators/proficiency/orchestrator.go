// Package proficiency orchestrates per-player proficiency progression:
// storing XP, deriving levels and handing back the milestone slots a level
// up unlocks.
package proficiency

//go:generate mockgen -destination=mock/mock_service.go -package=proficiencymock github.com/KirkDiggler/rpg-rewards/internal/orchestrators/proficiency Service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-rewards/internal/engine/milestones"
	"github.com/KirkDiggler/rpg-rewards/internal/engine/progression"
	"github.com/KirkDiggler/rpg-rewards/internal/entities"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	proficiencyrepo "github.com/KirkDiggler/rpg-rewards/internal/repositories/proficiency"
)

// EventLevelUp is published once per level gained
const EventLevelUp = "proficiency.level_up"

// Event context keys set on level up events
const (
	EventKeyProficiencyID = "proficiency_id"
	EventKeyLevel         = "level"
)

// Definitions looks up authored proficiency definitions
type Definitions interface {
	Proficiency(id string) (*entities.ProficiencyDefinition, error)
}

// Service defines proficiency progression operations
type Service interface {
	Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error)
	AddXP(ctx context.Context, input *AddXPInput) (*AddXPOutput, error)
	GetProgress(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error)
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// Reporting
	Breakdown(ctx context.Context, input *BreakdownInput) (*BreakdownOutput, error)
	TimeToMax(ctx context.Context, input *TimeToMaxInput) (*TimeToMaxOutput, error)
}

// Config holds the dependencies for the proficiency orchestrator
type Config struct {
	Repository  proficiencyrepo.Repository
	Definitions Definitions
	EventBus    events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Definitions == nil {
		vb.RequiredField("Definitions")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	repo        proficiencyrepo.Repository
	definitions Definitions
	eventBus    events.EventBus

	tracksMu sync.RWMutex
	tracks   map[string]*entities.ProficiencyTrack

	// playerLocks holds one *sync.Mutex per player id
	playerLocks sync.Map
}

// NewOrchestrator creates a new proficiency orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:        cfg.Repository,
		definitions: cfg.Definitions,
		eventBus:    cfg.EventBus,
		tracks:      make(map[string]*entities.ProficiencyTrack),
	}, nil
}

func (o *orchestrator) lockPlayer(playerID string) func() {
	mu, _ := o.playerLocks.LoadOrStore(playerID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (o *orchestrator) definition(id string) (*entities.ProficiencyDefinition, error) {
	if id == "" {
		return nil, errors.InvalidArgument("proficiency ID is required")
	}
	def, err := o.definitions.Proficiency(id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load proficiency %s", id)
	}
	return def, nil
}

// track returns the cached milestone track, generating it on first use.
// A definition that cannot produce a track yields an empty one.
func (o *orchestrator) track(def *entities.ProficiencyDefinition) *entities.ProficiencyTrack {
	o.tracksMu.RLock()
	t, ok := o.tracks[def.ID]
	o.tracksMu.RUnlock()
	if ok {
		return t
	}

	t, err := milestones.GenerateTrack(def)
	if err != nil {
		slog.Warn("Proficiency has no milestone track, level ups grant no rewards",
			"proficiency_id", def.ID,
			"error", err)
	}

	o.tracksMu.Lock()
	o.tracks[def.ID] = t
	o.tracksMu.Unlock()
	return t
}

func validatePlayer(player *entities.Player) error {
	if player == nil || player.ID == "" {
		return errors.InvalidArgument("player is required")
	}
	return nil
}

// currentXP returns the stored XP, or false when the proficiency was never granted
func (o *orchestrator) currentXP(ctx context.Context, playerID, proficiencyID string) (float64, bool, error) {
	out, err := o.repo.Get(ctx, proficiencyrepo.GetInput{PlayerID: playerID, ProficiencyID: proficiencyID})
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "failed to read proficiency xp")
	}
	return out.State.CurrentXP, true, nil
}

func (o *orchestrator) Grant(ctx context.Context, input *GrantInput) (*GrantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validatePlayer(input.Player); err != nil {
		return nil, err
	}
	if _, err := o.definition(input.ProficiencyID); err != nil {
		return nil, err
	}

	unlock := o.lockPlayer(input.Player.ID)
	defer unlock()

	existing, err := o.repo.Get(ctx, proficiencyrepo.GetInput{
		PlayerID:      input.Player.ID,
		ProficiencyID: input.ProficiencyID,
	})
	if err == nil {
		return &GrantOutput{State: existing.State}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, "failed to read proficiency xp")
	}

	out, err := o.repo.Set(ctx, proficiencyrepo.SetInput{
		PlayerID:      input.Player.ID,
		ProficiencyID: input.ProficiencyID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to grant proficiency")
	}

	slog.Info("Proficiency granted",
		"player_id", input.Player.ID,
		"proficiency_id", input.ProficiencyID)

	return &GrantOutput{State: out.State, Created: true}, nil
}

func (o *orchestrator) AddXP(ctx context.Context, input *AddXPInput) (*AddXPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validatePlayer(input.Player); err != nil {
		return nil, err
	}
	if !finite(input.Amount) {
		return nil, errors.InvalidArgumentf("xp amount must be finite, got %g", input.Amount)
	}
	if sc := input.Scaling; sc != nil && (!finite(sc.Percentage) || !finite(sc.OverlevelBonus)) {
		return nil, errors.InvalidArgument("xp scaling must be finite")
	}
	def, err := o.definition(input.ProficiencyID)
	if err != nil {
		return nil, err
	}

	unlock := o.lockPlayer(input.Player.ID)
	defer unlock()

	oldXP, granted, err := o.currentXP(ctx, input.Player.ID, def.ID)
	if err != nil {
		return nil, err
	}
	if !granted {
		slog.Debug("Adding XP to ungranted proficiency, granting it",
			"player_id", input.Player.ID,
			"proficiency_id", def.ID)
	}

	amount := input.Amount
	if sc := input.Scaling; sc != nil {
		amount = progression.ScaledXP(def, progression.ClampedLevel(oldXP, def), sc.TargetLevel, sc.Percentage, sc.OverlevelBonus)
	}

	newXP := progression.ClampXP(oldXP+amount, def)
	stored, err := o.repo.Set(ctx, proficiencyrepo.SetInput{
		PlayerID:      input.Player.ID,
		ProficiencyID: def.ID,
		XP:            newXP,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store proficiency xp")
	}

	out := &AddXPOutput{
		State:    stored.State,
		OldLevel: progression.ClampedLevel(oldXP, def),
		NewLevel: progression.ClampedLevel(newXP, def),
		Applied:  newXP - oldXP,
	}

	if out.NewLevel > out.OldLevel {
		track := o.track(def)
		for level := out.OldLevel + 1; level <= out.NewLevel; level++ {
			if slot, ok := track.Slot(level); ok {
				out.GainedSlots = append(out.GainedSlots, *slot)
			}
			o.publishLevelUp(ctx, input.Player, def.ID, level)
		}

		slog.Info("Proficiency level up",
			"player_id", input.Player.ID,
			"proficiency_id", def.ID,
			"old_level", out.OldLevel,
			"new_level", out.NewLevel)
	}

	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (o *orchestrator) publishLevelUp(ctx context.Context, player *entities.Player, proficiencyID string, level int) {
	event := events.NewGameEvent(EventLevelUp, player, nil)
	event.Context().Set(EventKeyProficiencyID, proficiencyID)
	event.Context().Set(EventKeyLevel, level)

	if err := o.eventBus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish level up event",
			"player_id", player.ID,
			"proficiency_id", proficiencyID,
			"level", level,
			"error", err)
	}
}

func (o *orchestrator) GetProgress(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	def, err := o.definition(input.ProficiencyID)
	if err != nil {
		return nil, err
	}

	xp, granted, err := o.currentXP(ctx, input.PlayerID, def.ID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, errors.NotFoundf("player %s has not been granted %s", input.PlayerID, def.ID).
			WithMeta("proficiency_id", def.ID)
	}

	level := progression.ClampedLevel(xp, def)
	out := &GetProgressOutput{
		ProficiencyID: def.ID,
		Name:          def.Name,
		XP:            xp,
		Level:         level,
		MaxLevel:      def.MaxLevel,
		IsMaxLevel:    level >= def.MaxLevel,
	}
	if !out.IsMaxLevel {
		out.XPToNextLevel = progression.XPRemainingForLevel(xp, level+1, def)
	}

	track := o.track(def)
	for next := level + 1; next <= def.MaxLevel; next++ {
		if slot, ok := track.Slot(next); ok && slot.IsKeyMilestone {
			copied := *slot
			out.NextMilestone = &copied
			break
		}
	}

	return out, nil
}

func (o *orchestrator) Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validatePlayer(input.Player); err != nil {
		return nil, err
	}
	def, err := o.definition(input.ProficiencyID)
	if err != nil {
		return nil, err
	}

	unlock := o.lockPlayer(input.Player.ID)
	defer unlock()

	xp := progression.ClampXP(input.SavedXP, def)
	if xp != input.SavedXP {
		slog.Warn("Saved proficiency XP out of range, clamped",
			"player_id", input.Player.ID,
			"proficiency_id", def.ID,
			"saved_xp", input.SavedXP,
			"clamped_xp", xp)
	}

	stored, err := o.repo.Set(ctx, proficiencyrepo.SetInput{
		PlayerID:      input.Player.ID,
		ProficiencyID: def.ID,
		XP:            xp,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore proficiency xp")
	}

	level := progression.ClampedLevel(xp, def)
	out := &RestoreOutput{State: stored.State, Level: level}

	track := o.track(def)
	for l := 2; l <= level; l++ {
		if slot, ok := track.Slot(l); ok {
			out.Rewards = append(out.Rewards, slot.Rewards.ReapplyOnLoad()...)
		}
	}

	slog.Info("Proficiency restored",
		"player_id", input.Player.ID,
		"proficiency_id", def.ID,
		"level", level,
		"reapplied_rewards", len(out.Rewards))

	return out, nil
}

func (o *orchestrator) Breakdown(_ context.Context, input *BreakdownInput) (*BreakdownOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	def, err := o.definition(input.ProficiencyID)
	if err != nil {
		return nil, err
	}

	rows := progression.Breakdown(def)
	if rows == nil {
		return nil, errors.FailedPreconditionf("proficiency %s cannot produce a breakdown", def.ID)
	}

	track := o.track(def)
	out := &BreakdownOutput{
		Definition: def,
		Lines:      make([]BreakdownLine, 0, len(rows)),
		HighGrowth: def.GrowthRate > progression.HighGrowthRate,
	}
	for _, row := range rows {
		line := BreakdownLine{BreakdownRow: row}
		if slot, ok := track.Slot(row.Level); ok {
			line.Milestone = DescribeSlot(slot)
		}
		out.Lines = append(out.Lines, line)
	}

	return out, nil
}

func (o *orchestrator) TimeToMax(_ context.Context, input *TimeToMaxInput) (*TimeToMaxOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	def, err := o.definition(input.ProficiencyID)
	if err != nil {
		return nil, err
	}

	est, ok := progression.TimeToMaxLevel(def, input.ActionsPerMinute)
	if !ok {
		return nil, errors.InvalidArgumentf("actions per minute must be positive, got %g", input.ActionsPerMinute)
	}

	return &TimeToMaxOutput{Definition: def, Estimate: est}, nil
}

// DescribeSlot renders a slot's milestone name and rewards on one line
func DescribeSlot(slot *entities.MilestoneSlot) string {
	var parts []string
	if slot.IsKeyMilestone {
		parts = append(parts, "⭐ "+slot.Name)
	}
	for _, reward := range slot.Rewards {
		switch r := reward.(type) {
		case entities.AttributeReward:
			parts = append(parts, fmt.Sprintf("(%s %s)", r.Attribute, formatModifier(r.Modifier, r.Magnitude)))
		case entities.AbilityReward:
			parts = append(parts, "ability:"+r.AbilityID)
		case entities.ItemReward:
			if r.Item != nil {
				parts = append(parts, fmt.Sprintf("%s x%d", r.Item.ID, r.Quantity))
			}
		case entities.XPReward:
			parts = append(parts, fmt.Sprintf("%s xp %g%%", r.ProficiencyID, r.Percentage*100))
		case entities.LootReward:
			parts = append(parts, fmt.Sprintf("loot x%d", len(r.Tables)))
		}
	}
	return strings.Join(parts, " ")
}

func formatModifier(op entities.ModifierOp, magnitude float64) string {
	switch op {
	case entities.ModifierMultiplicative:
		return fmt.Sprintf("x%.3g", magnitude)
	case entities.ModifierOverride:
		return fmt.Sprintf("=%.3g", magnitude)
	default:
		return fmt.Sprintf("%+.3g", magnitude)
	}
}
