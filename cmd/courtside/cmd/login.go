package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with username and password, or with Google",
	Long: `Sign in to Courtside.

Without flags, prompts for username and password. With --google, prints the
Google consent URL and waits for the authorization code (or pass an access
token obtained elsewhere with --google-token).

Examples:
  courtside login
  courtside login --username testUser1
  courtside login --google`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "username")
	loginCmd.Flags().StringP("password", "p", "", "password (prompted when omitted)")
	loginCmd.Flags().Bool("google", false, "sign in with Google")
	loginCmd.Flags().String("google-token", "", "sign in with a Google access token")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	useGoogle, _ := cmd.Flags().GetBool("google")
	googleToken, _ := cmd.Flags().GetString("google-token")

	switch {
	case googleToken != "":
		err = a.controller.LoginWithGoogleToken(ctx, googleToken)
	case useGoogle:
		err = googleConsentLogin(ctx, a)
	default:
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" {
			username = prompt("Username: ")
		}
		if password == "" {
			password = prompt("Password: ")
		}
		err = a.controller.Login(ctx, username, password)
	}

	if err != nil {
		if reason := a.controller.Failure(); reason != nil {
			a.controller.Acknowledge()
			return fmt.Errorf("login failed (%s): %s", reason.Code, reason.Message)
		}
		return err
	}

	sess := a.controller.Session()
	fmt.Printf("Welcome, %s!\n", sess.DisplayName)
	return nil
}

func googleConsentLogin(ctx context.Context, a *app) error {
	url, err := a.controller.AuthURL("courtside-cli")
	if err != nil {
		return err
	}
	fmt.Println("Open this URL in your browser and approve access:")
	fmt.Println("  " + url)
	code := prompt("Authorization code: ")
	return a.controller.LoginWithGoogle(ctx, code)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.controller.Logout()
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sess := a.controller.Session()
	if sess == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	if jsonOut {
		return printJSON(sess)
	}
	fmt.Printf("Signed in as %s (user %d, %s)\n", sess.DisplayName, sess.UserID, sess.AuthMethod)
	return nil
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
