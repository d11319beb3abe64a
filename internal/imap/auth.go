package imap

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Passwords live one JSON file per account under the credentials directory.
// Files are named by a hash of the account identifier so any identifier is
// filename safe; the identifier is stored inside the file to keep the hashed
// names auditable.

type storedCredentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// credentialsPath returns the file that holds the password for identifier.
func credentialsPath(dir, identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return filepath.Join(dir, fmt.Sprintf("imap_%x.json", sum[:8]))
}

// SaveCredentials stores the password for identifier, replacing any
// previous one.
func SaveCredentials(dir, identifier, password string) error {
	data, err := json.Marshal(storedCredentials{Identifier: identifier, Password: password})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(credentialsPath(dir, identifier), data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// LoadCredentials returns the stored password for identifier.
func LoadCredentials(dir, identifier string) (string, error) {
	data, err := os.ReadFile(credentialsPath(dir, identifier))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("no credentials found for %s (run 'setup' first)", identifier)
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	return creds.Password, nil
}

// HasCredentials reports whether a password is stored for identifier.
func HasCredentials(dir, identifier string) bool {
	_, err := os.Stat(credentialsPath(dir, identifier))
	return err == nil
}
