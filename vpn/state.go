// Package vpn provides VPN connection management functionality.
// This file contains the connection state owned by the Controller.
package vpn

import (
	"fmt"
	"time"
)

// ConnectionStatus represents the current state of the VPN connection.
type ConnectionStatus int

const (
	// StatusDisconnected indicates no active connection.
	StatusDisconnected ConnectionStatus = iota
	// StatusConnecting indicates the client is being started.
	StatusConnecting
	// StatusConnected indicates the client reported an established session.
	StatusConnected
	// StatusDisconnecting indicates the client is being stopped.
	StatusDisconnecting
	// StatusFailed indicates the last client invocation failed.
	StatusFailed
)

// String returns a human-readable representation of the connection status.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "Disconnected"
	case StatusConnecting:
		return "Connecting..."
	case StatusConnected:
		return "Connected"
	case StatusDisconnecting:
		return "Disconnecting..."
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// InProgress reports whether s is one of the transient guard states.
func (s ConnectionStatus) InProgress() bool {
	return s == StatusConnecting || s == StatusDisconnecting
}

// ConnectionState is a snapshot of the controller's state.
type ConnectionState struct {
	Status ConnectionStatus
	// CountryCode is set only when Status is StatusConnected.
	CountryCode string
	// Reason is set only when Status is StatusFailed.
	Reason error
	// Since is when the state was entered.
	Since time.Time
}

// String returns a one-line description for status bars.
func (s ConnectionState) String() string {
	switch s.Status {
	case StatusConnected:
		return fmt.Sprintf("%s (%s)", s.Status, s.CountryCode)
	case StatusFailed:
		if s.Reason != nil {
			return fmt.Sprintf("%s: %v", s.Status, s.Reason)
		}
	}
	return s.Status.String()
}

// Uptime returns how long the connection has been up.
func (s ConnectionState) Uptime() time.Duration {
	if s.Status != StatusConnected {
		return 0
	}
	return time.Since(s.Since)
}

func disconnectedState() ConnectionState {
	return ConnectionState{Status: StatusDisconnected, Since: time.Now()}
}

func connectingState() ConnectionState {
	return ConnectionState{Status: StatusConnecting, Since: time.Now()}
}

func connectedState(code string) ConnectionState {
	return ConnectionState{Status: StatusConnected, CountryCode: code, Since: time.Now()}
}

func disconnectingState() ConnectionState {
	return ConnectionState{Status: StatusDisconnecting, Since: time.Now()}
}

func failedState(reason error) ConnectionState {
	return ConnectionState{Status: StatusFailed, Reason: reason, Since: time.Now()}
}
