package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print this quarter's emails without the dashboard",
	Long: `Fetch the current quarter and print one line per email.

Useful for scripting and for checking an account before opening the
dashboard. Columns are date, sender, and subject.

Examples:
  mailtui list
  mailtui list --demo
  mailtui list | grep -i invoice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		demo, _ := cmd.Flags().GetBool("demo")
		client, closeClient, err := newMailClient(demo)
		if err != nil {
			return err
		}
		defer closeClient()

		messages, err := client.FetchCurrentQuarter(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch messages: %w", err)
		}

		if len(messages) == 0 {
			fmt.Println("No emails in the current quarter.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tFROM\tSUBJECT")
		for _, msg := range messages {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				msg.Date.Format("2006-01-02 15:04"), msg.Sender, msg.Subject)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("demo", false, "Use built-in sample data instead of an IMAP account")
}
