// Package common provides shared constants, types, and utilities
// used across the VPN Panel application.
package common

import (
	"context"
	"time"
)

// ProcessOutcome is the result of a VPN client invocation that ran to completion.
type ProcessOutcome struct {
	// ExitCode is the process exit status; -1 if it was killed.
	ExitCode int
	// Stdout and Stderr hold the captured output streams.
	Stdout []byte
	Stderr []byte
	// Duration is the wall time between start and exit.
	Duration time.Duration
}

// Success reports whether the process exited with status zero.
func (o ProcessOutcome) Success() bool {
	return o.ExitCode == 0
}

// ProcessRunner launches the VPN client and waits for it to exit.
// argv[0] is the executable. Implementations do not interpret exit codes.
type ProcessRunner interface {
	Run(ctx context.Context, argv []string) (ProcessOutcome, error)
}

// Identity is the public address and location observed from outside.
type Identity struct {
	IP          string
	Country     string
	Region      string
	ISP         string
	CountryCode string
	City        string
}

// IdentityLookup queries an IP-geolocation service once.
type IdentityLookup interface {
	FetchIdentity(ctx context.Context) (Identity, error)
}

// Credentials holds the account fields the panel displays.
type Credentials struct {
	Username string
	// Source names where the credentials were read from.
	Source string
}

// CredentialReader loads the saved VPN account for a local user.
// Implementations are read-only and never cache.
type CredentialReader interface {
	Load(ctx context.Context, forUser string) (Credentials, error)
}

// Notifier defines the interface for sending notifications.
type Notifier interface {
	// NotifyWithIcon sends a notification with a custom icon.
	NotifyWithIcon(title, message, icon string) error
}

// Logger defines the interface for structured logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...interface{})
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Warn logs a warning message.
	Warn(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
}
