// Package ui provides the terminal user interface for VPN Panel.
// This file contains the Application that owns the bubbletea program.
package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/config"
	"github.com/yllada/vpn-panel/vpn"
)

// Application represents the interactive panel
type Application struct {
	ctrl    *vpn.Controller
	config  *config.Config
	version string
}

// NewApplication creates a new application
func NewApplication(ctrl *vpn.Controller, cfg *config.Config, version string) *Application {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Application{
		ctrl:    ctrl,
		config:  cfg,
		version: version,
	}
}

// Run shows the panel until the user quits or ctx is cancelled. Quitting,
// Ctrl+C and an interrupt signal all return nil. Cancelling ctx kills a
// client invocation that is still running.
func (a *Application) Run(ctx context.Context) error {
	ApplyTheme(a.config.Theme)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		NewModel(ctx, a.ctrl, a.version),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	forwardState(a.ctrl, program)

	if a.config.Notifications {
		if notifier := a.setupNotifications(); notifier != nil {
			defer notifier.Close()
		}
	}

	common.LogInfo("Starting %s %s", common.AppName, a.version)

	_, err := program.Run()
	switch {
	case err == nil,
		errors.Is(err, tea.ErrProgramKilled),
		errors.Is(err, tea.ErrInterrupted):
		common.LogInfo("Panel closed")
		return nil
	default:
		return common.WrapError(err, "terminal interface failed")
	}
}

// forwardState delivers controller transitions to program. Send blocks
// until the event loop takes the message, so Update must never commit a
// controller transition itself.
func forwardState(ctrl *vpn.Controller, program *tea.Program) {
	ctrl.Subscribe(func(old, new vpn.ConnectionState) {
		program.Send(stateMsg{old: old, new: new})
	})
}

// setupNotifications announces state changes on the desktop. A missing
// session bus only disables them.
func (a *Application) setupNotifications() *DesktopNotifier {
	notifier, err := NewDesktopNotifier()
	if err != nil {
		common.LogWarn("Desktop notifications disabled: %v", err)
		return nil
	}
	a.ctrl.Subscribe(NotificationObserver(notifier, a.ctrl.Catalog()))
	return notifier
}
