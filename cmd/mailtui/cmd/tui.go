package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mailtui/mailtui/internal/tui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the email dashboard",
	Long: `Open the interactive dashboard for the current quarter of email.

The quarter is fetched once at startup; everything after that is local.

Navigation:
  ↑/k, ↓/j     Move up/down
  Enter/→/l    Open the selected email
  Esc/←/h      Back to the email list
  g / G        First / last email
  /            Search subject, sender, and body
  ?            Help
  q            Quit

Use --demo to try the dashboard with built-in sample data, no account
required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return errors.New("stdout is not a terminal (use 'mailtui list' for scripting)")
		}

		demo, _ := cmd.Flags().GetBool("demo")
		client, closeClient, err := newMailClient(demo)
		if err != nil {
			return err
		}
		defer closeClient()

		model := tui.New(client, tui.Options{Logger: logger})
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Bool("demo", false, "Use built-in sample data instead of an IMAP account")
}
