// Package cli implements the companion CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soulkit/companion/internal/companion"
	"github.com/soulkit/companion/internal/config"
	"github.com/soulkit/companion/internal/heart"
)

var (
	heartFlag  string
	configFlag string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Memory core for a living companion",
	Long: "The companion core: a file-backed heart (long-term memory), a bounded\n" +
		"working cache, and a lifecycle/permission state machine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&heartFlag, "heart", "", "Heart file path (default: $COMPANION_HEART or ~/.companion/heart.json)")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "YAML config file path")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig() config.Config {
	cfg, err := config.Load(configFlag)
	if err != nil {
		exitErr("load config", err)
	}
	if heartFlag != "" {
		cfg.HeartPath = heartFlag
	}
	if cfg.HeartPath == "" {
		if env := os.Getenv("COMPANION_HEART"); env != "" {
			cfg.HeartPath = env
		} else {
			home, _ := os.UserHomeDir()
			cfg.HeartPath = filepath.Join(home, ".companion", "heart.json")
		}
	}
	return cfg
}

func openHeart() *heart.Heart {
	cfg := loadConfig()
	h, err := heart.New(cfg.HeartPath, companion.HeartOptions(cfg))
	if err != nil {
		exitErr("open heart", err)
	}
	return h
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
