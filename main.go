// Package main provides the entry point for the VPN Panel application.
// VPN Panel is a terminal control panel for an installed VPN client: it
// connects through a chosen exit country, stops the connection, and shows
// the public identity the outside world sees.
//
// Features:
//   - Interactive country picker and action bar in the terminal
//   - Scriptable subcommands for every panel action
//   - Public IP verification after every connect
//   - Read-only display of the account saved by the VPN client
//   - Optional desktop notifications for connection events
//
// Usage:
//
//	sudo vpn-panel [command] [flags]
//
// Environment:
//
//	The panel must run as root and the VPN client must be installed.
//	SUDO_USER selects whose saved account is displayed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/vpn-panel/cli"
	"github.com/yllada/vpn-panel/common"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals (SIGINT, SIGTERM)
	setupSignalHandler(cancel)

	err := cli.Execute(ctx, cli.BuildInfo{
		Version:   appVersion,
		BuildTime: buildTime,
		Commit:    commitSHA,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// setupSignalHandler configures graceful shutdown on SIGINT/SIGTERM.
// When a signal is received, it cancels the context so a running client
// invocation is killed and the panel exits.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()
}
