// Package common provides shared constants, types, and utilities
// used across the VPN Panel application.
package common

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/google/uuid"
)

// NewOperationID returns an identifier used to correlate the log lines of
// a single connect or disconnect.
func NewOperationID() string {
	return uuid.NewString()
}

// GetConfigDir returns the path to the application configuration directory.
// It creates the directory if it doesn't exist.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", WrapError(err, "failed to create config directory")
	}

	return configDir, nil
}

// InvokingUser returns the name of the unprivileged user who started the
// panel through sudo, or the current user when SUDO_USER is unset.
func InvokingUser() string {
	if name := os.Getenv("SUDO_USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

// HomeDirFor returns the home directory of the named user.
// It falls back to /home/<name> when the account database has no entry.
func HomeDirFor(name string) string {
	if u, err := user.Lookup(name); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	return filepath.Join("/home", name)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Truncate shortens s to at most n bytes, appending "..." when cut.
func Truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
