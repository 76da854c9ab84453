package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var blueprintsCmd = &cobra.Command{
	Use:   "blueprints",
	Short: "List available blueprints",
	Long: `Shows every builtin blueprint plus those found in --blueprints.
A blueprint in the extra directory replaces a builtin with the same ID.`,
	Args: cobra.NoArgs,
	RunE: runBlueprints,
}

func runBlueprints(_ *cobra.Command, _ []string) error {
	bps, err := catalog().All()
	if err != nil {
		return err
	}

	if len(bps) == 0 {
		fmt.Println("No blueprints available.")
		return nil
	}

	fmt.Println("Available blueprints:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, bp := range bps {
		maxIDLen = max(maxIDLen, len(bp.ID))
	}

	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "ID", "Craving", "Name")
	fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, "--", "-------", "----")

	for _, bp := range bps {
		craving := "random"
		if bp.Craving.Present {
			craving = bp.Craving.Color.Triple()
		}
		fmt.Printf("  %-*s  %-12s  %s\n", maxIDLen, bp.ID, craving, bp.Name)
	}

	fmt.Println()
	fmt.Println("Run 'crabmix play --blueprint <id>' to open one.")
	return nil
}
