package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/games/crabmix"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
	"github.com/vovakirdan/crabmix/internal/platform/tui"
)

var solveCmd = &cobra.Command{
	Use:   "solve <blueprint>",
	Short: "Recompute a blueprint and print its colors",
	Long: `Loads a blueprint into a fresh grid, propagates colors and prints
every port, storage warnings and how the crab would rate the closest color.

Examples:
  crabmix solve 03-meadow
  crabmix solve 04-dusk --log-level debug`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func runSolve(_ *cobra.Command, args []string) error {
	logger, err := newLogger("crabmix")
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bp, err := catalog().Find(args[0])
	if err != nil {
		return err
	}

	session := grid.NewSession(
		grid.WithLogger(logger),
		grid.WithMaxRounds(cfg.Engine.MaxRounds),
		grid.WithMixer(pigment.NewPalette(cfg.Engine.Brighten, cfg.Engine.Darken)),
	)
	if _, err := bp.Apply(session); err != nil {
		return err
	}
	snap := session.Recompute()

	fmt.Printf("%s (%s)\n\n", bp.Name, bp.ID)
	for _, c := range session.Components() {
		fmt.Printf("%s %-6s %-10s %s\n", tui.Swatch(snap.Display(c.ID), 2), c.Label, c.Kind, paintText(snap.Display(c.ID)))
		for _, p := range c.Ports {
			fmt.Printf("      %-5s %-6s %s\n", p.Name, p.Role, paintText(snap.Color(p.Ref())))
		}
		if snap.Warned(c.ID) {
			fmt.Println("      warning: storage needs an inbound and an outbound link")
		}
	}

	fmt.Println()
	if snap.Converged {
		fmt.Printf("Settled after %d round(s).\n", snap.Rounds)
	} else {
		fmt.Printf("Did not settle within %d rounds.\n", snap.Rounds)
	}

	if bp.Craving.Present {
		return rateBest(cfg, bp.Craving.Color, session, snap)
	}
	return nil
}

// rateBest feeds the output closest to the craving to a pinned crab.
func rateBest(cfg config.CrabmixConfig, craving pigment.Color, session *grid.Session, snap grid.Snapshot) error {
	crab, err := crabmix.NewCrab(cfg.Crab, config.NewDifficultyManager(cfg.Difficulty), flagSeed)
	if err != nil {
		return err
	}
	crab.Pin(craving)

	var (
		best     pigment.Paint
		bestRef  grid.PortRef
		bestDist float64
	)
	for _, c := range session.Components() {
		for _, p := range c.Ports {
			if p.Role == grid.RoleInput {
				continue
			}
			paint := snap.Color(p.Ref())
			if !paint.Present {
				continue
			}
			if d := craving.Distance(paint.Color); !best.Present || d < bestDist {
				best, bestRef, bestDist = paint, p.Ref(), d
			}
		}
	}

	fmt.Printf("Crab craves %s %s\n", tui.Swatch(pigment.Of(craving), 2), craving.Triple())
	f, ok := crab.Feed(best)
	if !ok {
		fmt.Println("Nothing on the grid to feed it.")
		return nil
	}
	label := bestRef.String()
	if c, found := session.Component(bestRef.Component); found {
		if p, hasPort := c.Port(bestRef.Port); hasPort {
			label = c.Label + ":" + p.Name
		}
	}
	fmt.Printf("Closest: %s %s at %s, %d points (%s)\n", tui.Swatch(best, 2), f.Fed.Triple(), label, f.Points, f.Mood)
	return nil
}

func paintText(p pigment.Paint) string {
	if !p.Present {
		return "-"
	}
	return p.Color.Triple()
}
