// Package vpn provides VPN connection management functionality.
// This file contains the ExecRunner that launches the VPN client binary.
package vpn

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/yllada/vpn-panel/common"
)

// ClientCommands builds argument vectors for the VPN client.
type ClientCommands struct {
	Binary string
}

// ConnectArgs returns the argv that starts a session in the given country.
func (c ClientCommands) ConnectArgs(countryCode string) []string {
	return []string{c.Binary, "--connect", "--country-code", countryCode}
}

// StopArgs returns the argv that ends the current session.
func (c ClientCommands) StopArgs() []string {
	return []string{c.Binary, "--stop"}
}

// ExecRunner runs the VPN client as a child process. Output is captured
// in memory, not streamed.
type ExecRunner struct {
	// Env, when non-nil, replaces the child's environment.
	Env []string
}

// Ensure ExecRunner implements the ProcessRunner interface.
var _ common.ProcessRunner = (*ExecRunner)(nil)

// NewExecRunner creates a runner that inherits the panel's environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts argv[0] with the remaining arguments and waits for it to exit.
// A non-zero exit is reported in the outcome, not as an error. The error is
// a *common.LaunchError when the binary cannot be found or started, or the
// context error when ctx ended before the process did (the process is killed).
func (r *ExecRunner) Run(ctx context.Context, argv []string) (common.ProcessOutcome, error) {
	if len(argv) == 0 {
		return common.ProcessOutcome{}, &common.LaunchError{Err: errors.New("empty command")}
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return common.ProcessOutcome{}, &common.LaunchError{Binary: argv[0], Err: err}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Env != nil {
		cmd.Env = r.Env
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return common.ProcessOutcome{}, &common.LaunchError{Binary: argv[0], Err: err}
	}

	waitErr := cmd.Wait()
	outcome := common.ProcessOutcome{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil && waitErr != nil {
		return outcome, ctxErr
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return outcome, &common.LaunchError{Binary: argv[0], Err: waitErr}
	}

	return outcome, nil
}
