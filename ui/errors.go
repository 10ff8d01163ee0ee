package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yllada/vpn-panel/common"
)

// operation names used in error titles.
const (
	opConnect = "Connect"
	opStop    = "Stop Connection"
	opAuth    = "Auth Information"
	opIPInfo  = "Get IP Info"
)

// describeError renders err for the user. The title names the operation,
// the body names the reason.
func describeError(op string, err error) (title, body string) {
	title = op + " failed"

	var (
		unknown  *common.UnknownCountryError
		procErr  *common.ProcessError
		launch   *common.LaunchError
		verify   *common.VerificationError
		lookup   *common.LookupError
		credErr  *common.CredentialError
		precheck *common.PreconditionError
	)

	switch {
	case errors.Is(err, common.ErrAlreadyInProgress):
		body = "Another connect or stop is still running. Wait for it to finish."
	case errors.Is(err, common.ErrAlreadyConnected):
		body = "A VPN connection is already active. Stop it before connecting again."
	case errors.As(err, &unknown):
		body = fmt.Sprintf("%q is not in the country list.", unknown.Name)

	case errors.As(err, &verify):
		title = op + ": identity not verified"
		body = fmt.Sprintf("The VPN client reported a connection to %s, but the public IP could not be checked.\n\n%s",
			verify.CountryCode, describeLookup(verify.Err))

	case errors.As(err, &launch):
		body = fmt.Sprintf("The VPN client %q could not be started: %v", launch.Binary, launch.Err)
	case errors.As(err, &procErr):
		body = describeProcess(procErr)

	case errors.As(err, &lookup):
		body = describeLookup(lookup)

	case errors.As(err, &credErr):
		body = describeCredentials(credErr)

	case errors.As(err, &precheck):
		body = precheck.Error()

	default:
		body = err.Error()
	}

	return title, body
}

func describeProcess(e *common.ProcessError) string {
	if e.Err != nil {
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return fmt.Sprintf("The VPN client did not finish in time and was stopped (%v).", e.Err)
		}
		if errors.Is(e.Err, context.Canceled) {
			return "The VPN client was interrupted."
		}
		return e.Err.Error()
	}

	msg := fmt.Sprintf("The VPN client exited with code %d.", e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n\n" + common.Truncate(stderr, 400)
	}
	return msg
}

func describeLookup(err error) string {
	var lookup *common.LookupError
	if !errors.As(err, &lookup) {
		return fmt.Sprintf("IP lookup failed: %v", err)
	}
	switch lookup.Kind {
	case common.LookupNetwork:
		return fmt.Sprintf("The IP lookup service could not be reached: %v", lookup.Err)
	default:
		return fmt.Sprintf("The IP lookup service returned an unusable answer: %v", lookup.Err)
	}
}

func describeCredentials(e *common.CredentialError) string {
	switch e.Kind {
	case common.CredentialFileNotFound:
		return fmt.Sprintf("No account file at %s. Log in with the VPN client first.", e.Path)
	case common.CredentialMissingField:
		return fmt.Sprintf("The saved account in %s has no username: %v", e.Path, e.Err)
	case common.CredentialMalformed:
		return fmt.Sprintf("The account file %s could not be parsed: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("Credentials are unavailable (%s): %v", e.Path, e.Err)
	}
}
