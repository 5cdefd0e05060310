package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/courtsideapp/courtside-go/internal/favorites"
)

var favsCmd = &cobra.Command{
	Use:   "favs",
	Short: "Show your favorite teams",
	Long: `Show your favorite teams, joined with the team catalog.

Examples:
  courtside favs
  courtside favs toggle 5`,
	RunE: runFavsList,
}

var favsToggleCmd = &cobra.Command{
	Use:   "toggle <teamID>",
	Short: "Favorite or unfavorite a team",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavsToggle,
}

func init() {
	favsCmd.AddCommand(favsToggleCmd)
	rootCmd.AddCommand(favsCmd)
}

func runFavsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	view, err := a.reconciler.Refresh(context.Background(), sess.UserID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(view)
	}

	if len(view) == 0 {
		fmt.Println("You have no favorite teams yet.")
		return nil
	}
	for i, df := range view {
		line := fmt.Sprintf("%d. %s", i+1, df.Name)
		if df.Conference != "" {
			line += fmt.Sprintf(" (%s / %s)", df.Conference, df.Division)
		}
		fmt.Println(line)
	}
	return nil
}

func runFavsToggle(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	teamID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid team id %q", args[0])
	}

	ctx := context.Background()

	teams, err := a.client.Teams.List(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range teams {
		if teams[i].TeamID == teamID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no team with id %d", teamID)
	}
	team := teams[idx]

	if _, err := a.reconciler.Refresh(ctx, sess.UserID); err != nil {
		return err
	}

	outcome, err := a.reconciler.Toggle(ctx, sess.UserID, team)
	if err != nil {
		return err
	}

	if outcome.Action == favorites.Added {
		fmt.Printf("Added %s to your favorites.\n", team.Name)
	} else {
		fmt.Printf("Removed %s from your favorites.\n", team.Name)
	}
	return nil
}
