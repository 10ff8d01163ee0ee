// Package vpn provides VPN connection management functionality.
// This file contains the Controller type which sequences VPN client
// invocations and identity verification, and owns the connection state.
package vpn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yllada/vpn-panel/common"
)

// Common errors - re-exported from common package for convenience.
var (
	ErrAlreadyConnected  = common.ErrAlreadyConnected
	ErrAlreadyInProgress = common.ErrAlreadyInProgress
	ErrUnknownCountry    = common.ErrUnknownCountry
	ErrCancelled         = common.ErrCancelled
)

// ControllerConfig holds the collaborators of a Controller.
type ControllerConfig struct {
	// Catalog resolves country names to codes.
	Catalog *Catalog
	// Runner launches the VPN client.
	Runner common.ProcessRunner
	// Lookup queries the public identity.
	Lookup common.IdentityLookup
	// Credentials reads the saved VPN account.
	Credentials common.CredentialReader
	// Commands builds the client argument vectors.
	Commands ClientCommands
	// User is the unprivileged user whose credentials are displayed.
	User string
	// ProcessTimeout bounds each client invocation. Zero waits forever.
	ProcessTimeout time.Duration
	// Logger receives the operation log. Defaults to the application logger.
	Logger common.Logger
}

// StateObserver is invoked after every state transition with the previous
// and the new state. Observers must not call Connect, Disconnect or
// Acknowledge.
type StateObserver func(old, new ConnectionState)

// Controller orchestrates the VPN client. At most one Connect or Disconnect
// runs at a time; a second one is rejected, not queued.
type Controller struct {
	cfg ControllerConfig
	log common.Logger

	mu        sync.Mutex
	state     ConnectionState
	observers []StateObserver

	// notifyMu keeps observer delivery in commit order.
	notifyMu sync.Mutex
}

// NewController creates a controller in the Disconnected state.
func NewController(cfg ControllerConfig) (*Controller, error) {
	switch {
	case cfg.Catalog == nil:
		return nil, errors.New("controller: catalog is required")
	case cfg.Runner == nil:
		return nil, errors.New("controller: process runner is required")
	case cfg.Lookup == nil:
		return nil, errors.New("controller: identity lookup is required")
	case cfg.Credentials == nil:
		return nil, errors.New("controller: credential reader is required")
	case cfg.Commands.Binary == "":
		return nil, errors.New("controller: client binary is required")
	}

	log := cfg.Logger
	if log == nil {
		log = common.GetLogger()
	}

	return &Controller{
		cfg:   cfg,
		log:   log,
		state: disconnectedState(),
	}, nil
}

// Catalog returns the country catalog the controller resolves against.
func (c *Controller) Catalog() *Catalog {
	return c.cfg.Catalog
}

// State returns the latest committed state.
func (c *Controller) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanConnect returns true if Connect would be accepted in the current state.
func (c *Controller) CanConnect() bool {
	s := c.State().Status
	return !s.InProgress() && s != StatusConnected
}

// CanDisconnect returns true if Disconnect would be accepted in the current state.
func (c *Controller) CanDisconnect() bool {
	return !c.State().Status.InProgress()
}

// Subscribe registers an observer for state transitions.
func (c *Controller) Subscribe(observer StateObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, observer)
}

// Connect starts a VPN session in the named country and verifies the
// resulting public identity.
//
// If the client cannot be launched or exits non-zero the state becomes
// Failed and a *common.ProcessError is returned; no lookup is made. If the
// client succeeds but the lookup fails the state stays Connected and a
// *common.VerificationError is returned.
func (c *Controller) Connect(ctx context.Context, countryName string) (common.Identity, error) {
	opID := common.NewOperationID()

	var code string
	err := c.begin(connectingState(), func(s ConnectionStatus) error {
		switch {
		case s.InProgress():
			return ErrAlreadyInProgress
		case s == StatusConnected:
			return ErrAlreadyConnected
		}
		var ok bool
		if code, ok = c.cfg.Catalog.Code(countryName); !ok {
			return &common.UnknownCountryError{Name: countryName}
		}
		return nil
	})
	if err != nil {
		c.log.Warn("[%s] connect to %q rejected: %v", opID, countryName, err)
		return common.Identity{}, err
	}

	c.log.Info("[%s] Connecting to %s (%s)", opID, countryName, code)

	if err := c.run(ctx, opID, "connect", c.cfg.Commands.ConnectArgs(code)); err != nil {
		c.transition(failedState(err))
		return common.Identity{}, err
	}

	c.transition(connectedState(code))

	identity, err := c.lookup(ctx, opID)
	if err != nil {
		return common.Identity{}, &common.VerificationError{CountryCode: code, Err: err}
	}

	if identity.CountryCode != "" && identity.CountryCode != code {
		c.log.Warn("[%s] exit country mismatch: requested %s, observed %s", opID, code, identity.CountryCode)
	}

	return identity, nil
}

// Disconnect stops the VPN session. The caller must have obtained explicit
// user confirmation; without it ErrCancelled is returned and nothing changes.
func (c *Controller) Disconnect(ctx context.Context, confirmed bool) error {
	opID := common.NewOperationID()

	if !confirmed {
		c.log.Info("[%s] Disconnect cancelled by user", opID)
		return ErrCancelled
	}

	err := c.begin(disconnectingState(), func(s ConnectionStatus) error {
		if s.InProgress() {
			return ErrAlreadyInProgress
		}
		return nil
	})
	if err != nil {
		c.log.Warn("[%s] disconnect rejected: %v", opID, err)
		return err
	}

	c.log.Info("[%s] Stopping VPN session", opID)

	if err := c.run(ctx, opID, "stop", c.cfg.Commands.StopArgs()); err != nil {
		c.transition(failedState(err))
		return err
	}

	c.transition(disconnectedState())
	return nil
}

// QueryIdentity looks up the current public identity. It is allowed in
// every state and never changes it.
func (c *Controller) QueryIdentity(ctx context.Context) (common.Identity, error) {
	return c.lookup(ctx, common.NewOperationID())
}

// QueryCredentials reads the saved VPN account of the invoking user.
// It is allowed in every state and never changes it.
func (c *Controller) QueryCredentials(ctx context.Context) (common.Credentials, error) {
	creds, err := c.cfg.Credentials.Load(ctx, c.cfg.User)
	if err != nil {
		c.log.Warn("Reading credentials for %s failed: %v", c.cfg.User, err)
		return common.Credentials{}, err
	}
	c.log.Debug("Read credentials for %s from %s", c.cfg.User, creds.Source)
	return creds, nil
}

// Acknowledge clears a Failed state back to Disconnected once the user has
// seen the error. It reports whether a transition happened.
func (c *Controller) Acknowledge() bool {
	c.mu.Lock()
	if c.state.Status != StatusFailed {
		c.mu.Unlock()
		return false
	}
	c.commitLocked(disconnectedState())
	return true
}

// begin atomically checks the current status and enters the guard state.
func (c *Controller) begin(guard ConnectionState, check func(ConnectionStatus) error) error {
	c.mu.Lock()
	if err := check(c.state.Status); err != nil {
		c.mu.Unlock()
		return err
	}
	c.commitLocked(guard)
	return nil
}

// transition commits a new state and notifies observers.
func (c *Controller) transition(next ConnectionState) {
	c.mu.Lock()
	c.commitLocked(next)
}

// commitLocked must be called with c.mu held; it releases it.
func (c *Controller) commitLocked(next ConnectionState) {
	old := c.state
	c.state = next
	observers := append([]StateObserver(nil), c.observers...)

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	c.log.Debug("State: %s -> %s", old.Status, next.Status)
	for _, observer := range observers {
		observer(old, next)
	}
}

// run invokes the client and converts every failure into a *common.ProcessError.
func (c *Controller) run(ctx context.Context, opID, op string, argv []string) error {
	if c.cfg.ProcessTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ProcessTimeout)
		defer cancel()
	}

	command := strings.Join(argv, " ")
	c.log.Info("[%s] Command: %s", opID, command)

	outcome, err := c.cfg.Runner.Run(ctx, argv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v: %w", c.cfg.ProcessTimeout, err)
		}
		c.log.Error("[%s] %s failed: %v", opID, op, err)
		return &common.ProcessError{
			Op:       op,
			Args:     argv,
			ExitCode: outcome.ExitCode,
			Stderr:   string(outcome.Stderr),
			Err:      err,
		}
	}

	if len(outcome.Stdout) > 0 {
		c.log.Debug("[%s] %s stdout: %s", opID, op, strings.TrimSpace(string(outcome.Stdout)))
	}

	if !outcome.Success() {
		c.log.Error("[%s] %s exited with code %d after %v: %s",
			opID, op, outcome.ExitCode, outcome.Duration, common.Truncate(strings.TrimSpace(string(outcome.Stderr)), 512))
		return &common.ProcessError{
			Op:       op,
			Args:     argv,
			ExitCode: outcome.ExitCode,
			Stderr:   string(outcome.Stderr),
		}
	}

	c.log.Info("[%s] %s succeeded in %v", opID, op, outcome.Duration)
	return nil
}

func (c *Controller) lookup(ctx context.Context, opID string) (common.Identity, error) {
	identity, err := c.cfg.Lookup.FetchIdentity(ctx)
	if err != nil {
		c.log.Warn("[%s] IP lookup failed: %v", opID, err)
		return common.Identity{}, err
	}
	c.log.Info("[%s] Public identity: %s (%s, %s, %s)",
		opID, identity.IP, identity.Country, identity.Region, identity.ISP)
	return identity, nil
}
