// Package main provides the gutcheck CLI entry point: an interactive
// dashboard for logging meals and watching gut health scores, plus
// scriptable subcommands over the same backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gutcheck/cmd/gut/config"
	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/api"
	"gutcheck/internal/identity"
)

var (
	// Global flags
	verbose bool

	// Logger, built once per invocation
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gut",
	Short: "gutcheck - terminal client for the Gut Health Tracker",
	Long: `gutcheck logs your meals against the Gut Health Tracker backend and
shows the computed daily and weekly gut health scores.

Run without arguments to start the interactive dashboard. Tab switches
between the daily and weekly views.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive dashboard owns the terminal; keep its logger quiet.
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cmd.CalledAs() == "gut" {
			cfg.OutputPaths = []string{"stderr"}
			cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// app bundles the wired components every command needs.
type app struct {
	cfg     config.Config
	session *identity.Manager
	client  *api.Client
}

// newApp loads the configuration and wires the session manager and API
// client together.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config load failed, using defaults", zap.Error(err))
	}

	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	provider := identity.NewProvider(cfg.IdentityURL, cfg.IdentityKey)
	session := identity.NewManager(provider, dir, logger)
	client := api.NewClient(cfg.APIBaseURL, session, logger)

	return &app{cfg: cfg, session: session, client: client}, nil
}

// styles builds the style set for the configured theme.
func (a *app) styles() ui.Styles {
	if a.cfg.Theme == "dark" {
		return ui.NewStyles(ui.DarkTheme())
	}
	return ui.NewStyles(ui.LightTheme())
}

// requireSession resolves the persisted session and fails when anonymous.
// Used by the non-interactive commands.
func (a *app) requireSession(cmd *cobra.Command) error {
	if a.session.Resolve(cmd.Context()) != identity.StatusAuthenticated {
		return fmt.Errorf("not signed in; run 'gut login' first")
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(tipsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
