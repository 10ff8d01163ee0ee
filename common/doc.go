// Package common provides shared constants, types, utilities, and interfaces
// used throughout the VPN Panel application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: Client defaults, timeouts, and file names
//   - Errors: Sentinel and typed errors shared by the controller, the
//     external collaborators, and the presentation layers
//   - Interfaces: Capabilities the controller depends on (ProcessRunner,
//     IdentityLookup, CredentialReader) and the notifier
//   - Logger: Leveled logging with console and rotated file output
//   - Preconditions: Root and installation checks performed at startup
//
// # Usage
//
//	common.LogInfo("Connecting to %s", countryCode)
//
//	if errors.Is(err, common.ErrAlreadyInProgress) {
//	    // Tell the user to wait for the running operation
//	}
//
//	var perr *common.ProcessError
//	if errors.As(err, &perr) {
//	    // The VPN client failed; perr.ExitCode and perr.Stderr explain why
//	}
package common
