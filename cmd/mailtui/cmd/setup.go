package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/mailtui/mailtui/internal/config"
	"github.com/mailtui/mailtui/internal/imap"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the IMAP account interactively",
	Long: `Configure mailtui interactively.

The wizard asks for the IMAP account details, stores the password in the
credentials directory (never in config.toml), optionally tests the
connection, and writes the config file.

Safe to re-run: existing values are offered as defaults.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Welcome to mailtui setup!")
	fmt.Println()

	if cfg.Account.Address != "" {
		fmt.Printf("Account already configured: %s\n", cfg.Account.Address)
		if !promptBool(reader, "Reconfigure?", false) {
			fmt.Println("Keeping existing configuration.")
			return nil
		}
		fmt.Println()
	}

	address := promptString(reader, "Email address", cfg.Account.Address)
	if address == "" {
		return errors.New("an email address is required")
	}

	server := promptString(reader, "IMAP server", defaultTo(cfg.Account.Server, "outlook.office365.com"))
	starttls := promptBool(reader, "Use STARTTLS (port 143) instead of implicit TLS (port 993)?", false)

	defaultPort := 993
	if starttls {
		defaultPort = 143
	}
	port := promptInt(reader, "Port", defaultPort)

	mailbox := promptString(reader, "Mailbox", defaultTo(cfg.Account.Mailbox, "INBOX"))

	account := config.AccountConfig{
		Address:  address,
		Server:   server,
		Port:     port,
		STARTTLS: starttls,
		Mailbox:  mailbox,
	}
	imapCfg := imapConfigFromAccount(account)

	fmt.Println()
	fmt.Printf("Password for %s: ", address)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	password := string(raw)
	if password == "" {
		return errors.New("the password cannot be empty")
	}

	fmt.Println()
	if promptBool(reader, "Test the connection now?", true) {
		fmt.Printf("Connecting to %s...\n", imapCfg.Addr())
		client := imap.NewClient(imapCfg, password, imap.WithLogger(logger))
		count, err := client.CheckConnection(cmd.Context())
		_ = client.Close()
		if err != nil {
			return fmt.Errorf("test connection: %w", err)
		}
		fmt.Printf("Connected successfully, %d messages in %s\n", count, imapCfg.MailboxName())
	}

	if err := imap.SaveCredentials(cfg.CredentialsDir(), imapCfg.Identifier(), password); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	cfg.Account = account
	// The password lives in the credentials store, never in config.toml.
	cfg.Account.Password = ""

	configPath := cfgFile
	if configPath == "" {
		configPath = config.ConfigFilePath(cfg.HomeDir)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", configPath)

	fmt.Println()
	fmt.Println("Done. Try:")
	fmt.Println()
	fmt.Println("  mailtui tui     open the quarter dashboard")
	fmt.Println("  mailtui list    print the message list to stdout")

	return nil
}

// defaultTo returns value unless it is empty, in which case fallback wins.
func defaultTo(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func promptString(reader *bufio.Reader, prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	response, _ := reader.ReadString('\n')
	if response = strings.TrimSpace(response); response == "" {
		return defaultValue
	}
	return response
}

// promptBool asks a yes/no question. Empty input picks def; the capitalized
// side of the [Y/n] hint shows which answer that is.
func promptBool(reader *bufio.Reader, prompt string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", prompt, hint)
	response, _ := reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}

func promptInt(reader *bufio.Reader, prompt string, defaultValue int) int {
	for {
		fmt.Printf("%s [%d]: ", prompt, defaultValue)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(response)
		if response == "" {
			return defaultValue
		}
		if value, err := strconv.Atoi(response); err == nil && value > 0 {
			return value
		}
		fmt.Println("Enter a positive port number.")
	}
}
