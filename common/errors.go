// Package common provides shared constants, types, and utilities
// used across the VPN Panel application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for panel operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Connection errors.
	ErrAlreadyConnected  = errors.New("connection already active")
	ErrAlreadyInProgress = errors.New("another connection operation is in progress")
	ErrUnknownCountry    = errors.New("unknown country")
	ErrCancelled         = errors.New("operation cancelled")

	// Credential errors.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Permission errors.
	ErrRootRequired       = errors.New("root privileges required")
	ErrClientNotInstalled = errors.New("vpn client not installed")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// PreconditionError reports a startup check that failed.
// It is fatal: the panel refuses to start.
type PreconditionError struct {
	Check string
	Err   error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition %q failed: %v", e.Check, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// UnknownCountryError is returned when a country name is not in the catalog.
type UnknownCountryError struct {
	Name string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("unknown country %q", e.Name)
}

func (e *UnknownCountryError) Is(target error) bool { return target == ErrUnknownCountry }

// LaunchError reports that the VPN client could not be found or started.
type LaunchError struct {
	Binary string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Binary, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ProcessError reports a failed VPN client invocation: either the process
// could not be launched (Err is a *LaunchError) or it exited non-zero.
type ProcessError struct {
	Op       string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	msg := fmt.Sprintf("%s: %s exited with code %d", e.Op, e.command(), e.ExitCode)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (e *ProcessError) command() string {
	if len(e.Args) == 0 {
		return "process"
	}
	return e.Args[0]
}

// LookupErrorKind distinguishes transport failures from unusable responses.
type LookupErrorKind int

const (
	LookupNetwork LookupErrorKind = iota
	LookupBadResponse
)

// String returns a human-readable kind.
func (k LookupErrorKind) String() string {
	switch k {
	case LookupNetwork:
		return "network"
	case LookupBadResponse:
		return "bad response"
	default:
		return "unknown"
	}
}

// LookupError reports a failed geolocation query.
type LookupError struct {
	Kind LookupErrorKind
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("ip lookup failed (%s): %v", e.Kind, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// VerificationError is returned by a connect whose tunnel came up but whose
// identity lookup failed. The connection itself is still considered active.
type VerificationError struct {
	CountryCode string
	Err         error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("connected to %s but could not verify public identity: %v", e.CountryCode, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// CredentialErrorKind classifies credential read failures.
type CredentialErrorKind int

const (
	CredentialFileNotFound CredentialErrorKind = iota
	CredentialMissingField
	CredentialMalformed
	CredentialUnavailable
)

// String returns a human-readable kind.
func (k CredentialErrorKind) String() string {
	switch k {
	case CredentialFileNotFound:
		return "file not found"
	case CredentialMissingField:
		return "missing field"
	case CredentialMalformed:
		return "malformed"
	case CredentialUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// CredentialError reports a failed credential read.
type CredentialError struct {
	Kind CredentialErrorKind
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("credentials %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("credentials %s (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

func (e *CredentialError) Is(target error) bool {
	return target == ErrCredentialsNotFound &&
		(e.Kind == CredentialFileNotFound || e.Kind == CredentialUnavailable)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
