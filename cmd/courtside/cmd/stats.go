package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/courtsideapp/courtside-go/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats [teamID]",
	Short: "Show team statistics",
	Long: `Show season statistics for all teams, or for one team when a team
id is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	if len(args) == 1 {
		teamID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid team id %q", args[0])
		}
		stat, err := a.client.Stats.ForTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if stat == nil {
			fmt.Printf("No stats for team %d.\n", teamID)
			return nil
		}
		if jsonOut {
			return printJSON(stat)
		}
		printStat(*stat)
		return nil
	}

	stats, err := a.client.Stats.List(ctx)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(stats)
	}
	if len(stats) == 0 {
		fmt.Println("No stats available.")
		return nil
	}
	for _, s := range stats {
		printStat(s)
	}
	return nil
}

func printStat(s models.TeamStats) {
	fmt.Printf("team %-4d  %d-%d (%.3f)  %.1f ppg\n", s.TeamID, s.Wins, s.Losses, s.WinPct, s.PointsPG)
}
