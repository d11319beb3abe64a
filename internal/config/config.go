// Package config handles loading and managing mailtui configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AccountConfig holds the IMAP account settings.
type AccountConfig struct {
	Address  string `toml:"address"`  // Login email address
	Password string `toml:"password"` // Optional; MAILTUI_PASSWORD and the credentials store are preferred
	Server   string `toml:"server"`   // IMAP host (default: outlook.office365.com)
	Port     int    `toml:"port"`     // IMAP port; 0 derives it from the TLS mode (993 or 143)
	STARTTLS bool   `toml:"starttls"` // STARTTLS upgrade instead of implicit TLS
	Mailbox  string `toml:"mailbox"`  // Mailbox to read (default: INBOX)
}

// Config represents the mailtui configuration.
type Config struct {
	Account AccountConfig `toml:"account"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
}

// DefaultHome returns the default mailtui home directory.
// Respects MAILTUI_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("MAILTUI_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mailtui"
	}
	return filepath.Join(home, ".mailtui")
}

// Load reads the configuration from the specified file. If path is empty,
// uses <home>/config.toml; if home is empty, uses the default home.
// A missing config file is not an error; defaults apply.
func Load(path, home string) (*Config, error) {
	homeDir := home
	if homeDir == "" {
		homeDir = DefaultHome()
	}
	homeDir = expandPath(homeDir)

	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}

	cfg := &Config{
		HomeDir: homeDir,
		// Defaults. Port stays 0 so the dialer can derive it from the TLS
		// mode.
		Account: AccountConfig{
			Server:  "outlook.office365.com",
			Mailbox: "INBOX",
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
// MAILTUI_PASSWORD takes precedence over the config file password.
func (c *Config) applyEnv() {
	if pw := os.Getenv("MAILTUI_PASSWORD"); pw != "" {
		c.Account.Password = pw
	}
}

// Save writes the configuration to path, creating the parent directory.
// The file is written 0600 since it may contain a password.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// ConfigFilePath returns the config file location inside home.
// An empty home selects the default home directory.
func ConfigFilePath(home string) string {
	if home == "" {
		home = DefaultHome()
	}
	return filepath.Join(expandPath(home), "config.toml")
}

// CredentialsDir returns the directory holding saved account credentials.
func (c *Config) CredentialsDir() string {
	return filepath.Join(c.HomeDir, "credentials")
}

// EnsureHomeDir creates the home directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0700)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
