// crabmix is a terminal workshop for mixing pigments and feeding a crab.
//
// Usage:
//
//	crabmix play                 - Pick a blueprint and open the workshop
//	crabmix play --blueprint id  - Open the workshop on a blueprint
//	crabmix serve                - Start SSH server for remote play
//	crabmix blueprints           - List available blueprints
//	crabmix solve <id>           - Recompute a blueprint and print its colors
//	crabmix scores [id]          - Show best meals
//
// Global flags:
//
//	--config <path>      - Config file (default search: ~/.crabmix/configs, ./configs)
//	--db <path>          - Feedings database (default: ~/.crabmix/feedings.db)
//	--log-level <level>  - debug, info, warn, error
//	--seed <value>       - RNG seed for reproducible cravings
//	--difficulty <name>  - easy, normal, hard, fixed
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/blueprints"
)

var (
	// Global flags
	flagConfig        string
	flagDBPath        string
	flagLogLevel      string
	flagSeed          int64
	flagDifficulty    string
	flagBlueprintsDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crabmix",
	Short: "Crabmix - mix pigments and feed the crab",
	Long: `Crabmix is a terminal workshop where you wire paint factories,
adders, gradientors and storage jars together and feed the mixed
colors to a picky crab.

Available commands:
  play        - Open the workshop
  serve       - Start SSH server for remote play
  blueprints  - List available blueprints
  solve       - Recompute a blueprint headlessly
  scores      - View best meals

Examples:
  crabmix play
  crabmix play --blueprint 01-purple
  crabmix serve
  crabmix solve 03-meadow
  crabmix scores 01-purple`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.crabmix/feedings.db", "Path to feedings database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagBlueprintsDir, "blueprints", "", "Extra directory of blueprint YAML files")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(blueprintsCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger from --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadConfig loads the config file and applies --difficulty.
func loadConfig() (config.CrabmixConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return cfg, fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

// catalog returns the builtin blueprints plus --blueprints overrides.
func catalog() *blueprints.Catalog {
	if flagBlueprintsDir == "" {
		return blueprints.NewCatalog()
	}
	return blueprints.NewCatalog(flagBlueprintsDir)
}
