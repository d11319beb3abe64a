package cmd

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/mailtui/mailtui/internal/config"
	"github.com/mailtui/mailtui/internal/imap"
	"github.com/mailtui/mailtui/internal/mail"
	"golang.org/x/term"
)

// newMailClient builds the mail backend shared by the tui and list
// commands. With demo set it returns the built-in sample data; otherwise it
// connects to the configured IMAP account. The returned closer is a no-op
// for the demo backend.
func newMailClient(demo bool) (mail.Client, func() error, error) {
	if demo {
		return mail.NewDemoClient(), func() error { return nil }, nil
	}

	if cfg.Account.Address == "" {
		return nil, nil, errors.New("no account configured (run 'mailtui setup' or use --demo)")
	}

	imapCfg := imapConfigFromAccount(cfg.Account)

	password, err := resolvePassword(cfg, imapCfg.Identifier())
	if err != nil {
		return nil, nil, err
	}

	client := imap.NewClient(imapCfg, password, imap.WithLogger(logger))
	return client, client.Close, nil
}

// imapConfigFromAccount maps the [account] table onto IMAP connection
// settings. STARTTLS means a plain dial with an upgrade; anything else is
// implicit TLS.
func imapConfigFromAccount(acct config.AccountConfig) *imap.Config {
	return &imap.Config{
		Host:     acct.Server,
		Port:     acct.Port,
		TLS:      !acct.STARTTLS,
		STARTTLS: acct.STARTTLS,
		Username: acct.Address,
		Mailbox:  acct.Mailbox,
	}
}

// resolvePassword finds the account password, falling back to an
// interactive prompt when no stored source has one.
func resolvePassword(cfg *config.Config, identifier string) (string, error) {
	if pw, ok := storedPassword(cfg, identifier); ok {
		return pw, nil
	}

	// There is no --password flag; the prompt is the last resort.
	fmt.Printf("Password for %s: ", cfg.Account.Address)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("the password cannot be empty")
	}
	return string(raw), nil
}

// storedPassword checks the non-interactive password sources. Order: the
// config file (which already folds in MAILTUI_PASSWORD), then the saved
// credentials file keyed by the account identifier.
func storedPassword(cfg *config.Config, identifier string) (string, bool) {
	if cfg.Account.Password != "" {
		return cfg.Account.Password, true
	}
	if pw, err := imap.LoadCredentials(cfg.CredentialsDir(), identifier); err == nil && pw != "" {
		return pw, true
	}
	return "", false
}
