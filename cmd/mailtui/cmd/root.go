package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mailtui/mailtui/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	homeDir string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mailtui",
	Short: "Terminal dashboard for the current quarter of email",
	Long: `mailtui is a read-only terminal dashboard for the current quarter of
email in an IMAP mailbox.

The quarter is fetched once at startup and held in memory: browse, read,
and search without touching the server again. Restart to refresh.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "update":
			// These never touch the account config.
			return nil
		}

		logger = newLogger(verbose)

		var err error
		if cfg, err = config.Load(cfgFile, homeDir); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create home directory %s: %w", cfg.HomeDir, err)
		}
		return nil
	},
}

// newLogger builds the process-wide logger, at debug level when --verbose
// is set.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command. Signal-aware callers should use
// ExecuteContext instead.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx so commands abort when the
// process is interrupted.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.mailtui/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides MAILTUI_HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
