package common

import (
	"fmt"
	"os"
	"os/exec"
)

// Environment probes, replaceable in tests.
var (
	geteuid  = os.Geteuid
	lookPath = exec.LookPath
)

// CheckPreconditions verifies the panel can operate: it must run as root
// and the VPN client binary must be installed.
func CheckPreconditions(clientBinary string) error {
	if geteuid() != 0 {
		return &PreconditionError{Check: "root", Err: ErrRootRequired}
	}

	if _, err := lookPath(clientBinary); err != nil {
		return &PreconditionError{
			Check: "client-installed",
			Err:   fmt.Errorf("%w: %s not found in PATH", ErrClientNotInstalled, clientBinary),
		}
	}

	return nil
}
