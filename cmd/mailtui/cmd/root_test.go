package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// freshRootCmd builds a bare root command so tests don't mutate the
// global rootCmd's subcommand set.
func freshRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mailtui",
		Short: "Terminal dashboard for the current quarter of email",
	}
}

// swapRootCmd installs a replacement for the global rootCmd for the
// duration of a test. Tests using it must not run in parallel.
func swapRootCmd(t *testing.T, replacement *cobra.Command) {
	t.Helper()
	saved := rootCmd
	rootCmd = replacement
	t.Cleanup(func() { rootCmd = saved })
}

func TestExecuteContextCancellationPropagates(t *testing.T) {
	testRoot := freshRootCmd()

	started := make(chan struct{})
	testRoot.AddCommand(&cobra.Command{
		Use: "wait-for-cancel",
		RunE: func(cmd *cobra.Command, args []string) error {
			close(started)
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	})
	swapRootCmd(t, testRoot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		testRoot.SetArgs([]string{"wait-for-cancel"})
		done <- ExecuteContext(ctx)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("ExecuteContext error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteContext did not return after cancellation")
	}
}

func TestExecuteUsesBackgroundContext(t *testing.T) {
	testRoot := freshRootCmd()

	var gotCtx context.Context
	testRoot.AddCommand(&cobra.Command{
		Use: "capture-ctx",
		RunE: func(cmd *cobra.Command, args []string) error {
			gotCtx = cmd.Context()
			return nil
		},
	})
	swapRootCmd(t, testRoot)

	testRoot.SetArgs([]string{"capture-ctx"})
	if err := Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if gotCtx == nil {
		t.Fatal("command did not receive a context")
	}
	if deadline, ok := gotCtx.Deadline(); ok {
		t.Errorf("context from Execute should not carry a deadline, got %v", deadline)
	}
	select {
	case <-gotCtx.Done():
		t.Error("context from Execute should not be canceled")
	default:
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "home", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("v"); f == nil || f.Name != "verbose" {
		t.Error("-v should be shorthand for --verbose")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range []string{"tui", "list", "setup", "update", "version"} {
		if !registered[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
