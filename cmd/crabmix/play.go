package main

import (
	"os"
	"os/user"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/core"
	"github.com/vovakirdan/crabmix/internal/games/crabmix"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/blueprints"
	"github.com/vovakirdan/crabmix/internal/platform/tui"
	"github.com/vovakirdan/crabmix/internal/storage"
)

var flagBlueprint string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the workshop",
	Long: `Open the crab workshop in your terminal.

Without --blueprint a menu lets you pick a blueprint or free play.
Pressing b in the workshop returns to the menu.

Controls:
  Arrows/hjkl  - Move between tiles
  Tab/S-Tab    - Cycle ports on the tile
  Enter        - Pick a port, then another to link them
  f a g s      - Place factory, adder, gradientor, storage
  c / m        - Next factory color / gradientor mode
  x / u        - Delete component / unlink port
  v            - Grab and drop a component
  e            - Feed the selected port's color to the crab
  r            - Reset the grid
  ?            - Full help
  Q/Ctrl+C     - Quit

Examples:
  crabmix play
  crabmix play --blueprint 01-purple
  crabmix play --difficulty hard --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBlueprint, "blueprint", "", "Blueprint ID to open directly")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("crabmix")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat := catalog()

	// Open feedings storage; the workshop still works without it
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open feedings database", "error", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	width, height := 100, 30 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: core.DefaultConfig().TickRate,
		Seed:     flagSeed,
	}

	p := player{cfg: cfg, catalog: cat, store: store, logger: logger, session: uuid.NewString()}

	if flagBlueprint != "" {
		game, err := p.newGame(flagBlueprint)
		if err != nil {
			return err
		}
		_, err = tui.Run(game, rt)
		return err
	}

	bps, err := cat.All()
	if err != nil {
		return err
	}
	items := tui.MenuItems(bps)

	// Menu loop
	for {
		res, err := tui.RunMenu(items, rt)
		if err != nil {
			return err
		}
		rt = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			var source tui.ScoreSource
			if store != nil {
				source = store
			}
			goBack, err := tui.RunScoreboard(source, items, rt.ScreenW, rt.ScreenH)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := p.newGame(res.BlueprintID)
		if err != nil {
			logger.Error("cannot open blueprint", "blueprint", res.BlueprintID, "error", err)
			continue
		}

		// Fresh cravings for each visit unless a seed was given
		if flagSeed == 0 {
			rt.Seed = time.Now().UnixNano()
		}
		goBack, err := tui.Run(game, rt)
		if err != nil {
			return err
		}
		if !goBack {
			return nil
		}
	}
}

// player builds games for the local user.
type player struct {
	cfg     config.CrabmixConfig
	catalog *blueprints.Catalog
	store   *storage.Store
	logger  *log.Logger
	session string
}

func (p player) newGame(blueprintID string) (*crabmix.Game, error) {
	opts := []crabmix.Option{
		crabmix.WithLogger(p.logger),
		crabmix.WithPlayer(localUser()),
		crabmix.WithSessionID(p.session),
	}
	if p.store != nil {
		opts = append(opts, crabmix.WithSaver(p.store))
	}
	if blueprintID != "" && blueprintID != crabmix.FreePlayID {
		bp, err := p.catalog.Find(blueprintID)
		if err != nil {
			return nil, err
		}
		opts = append(opts, crabmix.WithBlueprint(bp))
	}
	return crabmix.New(p.cfg, opts...)
}

// localUser returns the OS user name, falling back to "anonymous".
func localUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "anonymous"
}
