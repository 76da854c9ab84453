package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/crabmix/internal/games/crabmix"
	"github.com/vovakirdan/crabmix/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [blueprint]",
	Short: "Show best meals",
	Long: `Display the best meals for a blueprint, or a summary of every
blueprint played when no ID is given. Free play is listed as "free".

Examples:
  crabmix scores
  crabmix scores 01-purple
  crabmix scores free --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of meals to show")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open feedings database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}
	return printBlueprint(store, args[0])
}

func printSummary(store *storage.Store) error {
	all, err := store.GetAllBlueprintStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No meals recorded yet.")
		return nil
	}

	bps, err := catalog().All()
	if err != nil {
		return err
	}
	ids := []string{crabmix.FreePlayID}
	for _, bp := range bps {
		ids = append(ids, bp.ID)
	}
	// Blueprints that are no longer installed still have history
	var extra []string
	for id := range all {
		if !slices.Contains(ids, id) {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	ids = append(ids, extra...)

	fmt.Printf("  %-14s  %-6s  %-5s  %-6s  %s\n", "Blueprint", "Meals", "Best", "Avg", "Last played")
	fmt.Printf("  %-14s  %-6s  %-5s  %-6s  %s\n", "---------", "-----", "----", "---", "-----------")
	for _, id := range ids {
		st, ok := all[id]
		if !ok {
			continue
		}
		fmt.Printf("  %-14s  %-6d  %-5d  %-6.1f  %s\n", id, st.Feedings, st.BestPoints, st.AvgPoints, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printBlueprint(store *storage.Store, id string) error {
	entries, err := store.TopFeedings(id, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best meals - %s\n", id)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No meals recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'crabmix play --blueprint %s' and feed the crab!\n", id)
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-6s  %-9s  %-11s  %-11s  %s\n", "Rank", "Player", "Points", "Mood", "Craving", "Fed", "Date")
	fmt.Printf("  %-4s  %-12s  %-6s  %-9s  %-11s  %-11s  %s\n", "----", "------", "------", "----", "-------", "---", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-12s  %-6d  %-9s  %-11s  %-11s  %s\n",
			i+1, e.Player, e.Points, e.Mood, e.Craving, e.Fed, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetBlueprintStats(id)
	if err == nil {
		fmt.Println()
		fmt.Printf("Meals: %d  Best: %d  Delighted: %d\n", stats.Feedings, stats.BestPoints, stats.Delighted)
	}
	return nil
}
