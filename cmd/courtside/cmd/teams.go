package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List all teams",
	Long: `List the team catalog. When signed in, favorited teams are marked
with a star.`,
	RunE: runTeams,
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}

func runTeams(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	teams, err := a.client.Teams.List(ctx)
	if err != nil {
		return err
	}

	// Favorites only render for a signed-in user; a failed refresh just
	// means no stars, not a failed listing.
	if sess := a.controller.Session(); sess != nil {
		if _, err := a.reconciler.Refresh(ctx, sess.UserID); err != nil {
			a.logger.Warn("could not load favorites", "error", err)
		}
	}

	if jsonOut {
		return printJSON(teams)
	}

	if len(teams) == 0 {
		fmt.Println("No teams found.")
		return nil
	}
	for _, t := range teams {
		marker := "  "
		if a.reconciler.IsFavorited(t.TeamID) {
			marker = "★ "
		}
		fmt.Printf("%s%-4d %-25s %s / %s\n", marker, t.TeamID, t.Name, t.Conference, t.Division)
	}
	return nil
}
