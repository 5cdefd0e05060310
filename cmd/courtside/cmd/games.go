package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List upcoming games",
	RunE:  runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

func runGames(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	games, err := a.client.Games.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(games)
	}

	if len(games) == 0 {
		fmt.Println("No upcoming games found.")
		return nil
	}
	for _, g := range games {
		fmt.Printf("%s  %s vs %s\n", g.Date, g.HomeTeamName, g.AwayTeamName)
	}
	return nil
}
