// Package main is the entry point for the rpg-rewards CLI
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-rewards/internal/config"
	"github.com/KirkDiggler/rpg-rewards/internal/errors"
	"github.com/KirkDiggler/rpg-rewards/internal/pkg/telemetry"
)

var (
	// Global flags; each overrides its REWARDS_* environment variable when set
	contentDir   string
	redisAddr    string
	store        string
	sqlitePath   string
	worldTier    string
	otelEndpoint string
	logLevel     string

	cfg             *config.Config
	shutdownTracing telemetry.Shutdown
)

var rootCmd = &cobra.Command{
	Use:   "rpg-rewards",
	Short: "Proficiency progression and reward engine",
	Long: `rpg-rewards inspects proficiency curves, simulates loot tables and grants
XP and rewards to players stored in Redis or SQLite.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&contentDir, "content", "", "content directory (REWARDS_CONTENT_DIR)")
	flags.StringVar(&redisAddr, "redis", "", "redis address (REWARDS_REDIS_ADDR)")
	flags.StringVar(&store, "store", "", "proficiency store: redis or sqlite (REWARDS_STORE)")
	flags.StringVar(&sqlitePath, "sqlite", "", "sqlite database path (REWARDS_SQLITE_PATH)")
	flags.StringVar(&worldTier, "world-tier", "", "world tier scaling legendary and exotic rates (REWARDS_WORLD_TIER)")
	flags.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP HTTP endpoint for traces (REWARDS_OTEL_ENDPOINT)")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (REWARDS_LOG_LEVEL)")

	// Content inspection
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(simulateCmd)

	// Player commands
	rootCmd.AddCommand(grantXPCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(giveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)

	// Maintenance
	rootCmd.AddCommand(repairCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	shutdownTracing, err = telemetry.Setup(cmd.Context(), cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	overrides := map[string]struct {
		value  string
		target *string
	}{
		"content":       {contentDir, &c.ContentDir},
		"redis":         {redisAddr, &c.RedisAddr},
		"store":         {store, &c.Store},
		"sqlite":        {sqlitePath, &c.SQLitePath},
		"world-tier":    {worldTier, &c.WorldTier},
		"otel-endpoint": {otelEndpoint, &c.OTelEndpoint},
		"log-level":     {logLevel, &c.LogLevel},
	}
	for name, o := range overrides {
		if cmd.Flags().Changed(name) {
			*o.target = o.value
		}
	}
}

func teardown(_ *cobra.Command, _ []string) error {
	if shutdownTracing == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownTracing(ctx); err != nil {
		slog.Warn("Failed to flush traces", "error", err)
	}
	return nil
}
