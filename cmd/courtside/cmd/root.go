// Package cmd implements the courtside CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/courtsideapp/courtside-go/internal/api"
	"github.com/courtsideapp/courtside-go/internal/apperrors"
	"github.com/courtsideapp/courtside-go/internal/auth"
	"github.com/courtsideapp/courtside-go/internal/config"
	"github.com/courtsideapp/courtside-go/internal/favorites"
	"github.com/courtsideapp/courtside-go/internal/models"
	"github.com/courtsideapp/courtside-go/internal/session"
)

var (
	jsonOut bool
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "Courtside - follow your favorite teams from the terminal",
	Long: `Courtside is a client for the team-favorites API.

Log in, browse teams, games and stats, and star teams as favorites.

Examples:
  courtside login
  courtside teams
  courtside favs toggle 5
  courtside games`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override the API base URL")
}

// app bundles the wired components behind every command.
type app struct {
	cfg        *config.Config
	client     *api.Client
	store      *session.Store
	controller *auth.Controller
	reconciler *favorites.Reconciler
	logger     *slog.Logger
}

// newApp loads configuration and wires the client, session store, auth
// controller and reconciler together.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	logger := newLogger(cfg.Log.Level)

	store, err := session.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}

	installID, err := store.InstallID()
	if err != nil {
		store.Close()
		return nil, err
	}

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithInstallID(installID),
	)

	var google *auth.GoogleAuthenticator
	if cfg.OAuth.ClientID != "" {
		google = auth.NewGoogleAuthenticator(cfg.OAuth.ClientID, cfg.OAuth.RedirectURI)
	}

	controller := auth.NewController(client.Users, store, google, logger)
	reconciler := favorites.New(client.Favorites, client.Teams, logger)
	controller.OnLogout(reconciler)

	return &app{
		cfg:        cfg,
		client:     client,
		store:      store,
		controller: controller,
		reconciler: reconciler,
		logger:     logger,
	}, nil
}

// close releases the session store.
func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing session store failed", "error", err)
	}
}

// requireSession returns the current session or an error telling the user
// to log in.
func (a *app) requireSession() (*models.Session, error) {
	sess := a.controller.Session()
	if sess == nil {
		return nil, errors.New("not signed in; run `courtside login` first")
	}
	return sess, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
