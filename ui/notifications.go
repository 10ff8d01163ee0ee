// Package ui provides the terminal user interface for VPN Panel.
// This file contains the desktop notification system for connection events.
package ui

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = notificationsDest + ".Notify"
)

// Icons named after the freedesktop icon theme.
const (
	iconConnected    = "network-vpn"
	iconDisconnected = "network-vpn-disconnected"
	iconError        = "network-vpn-error"
)

// DesktopNotifier sends notifications over the session bus.
type DesktopNotifier struct {
	conn    *dbus.Conn
	appName string
	timeout time.Duration
}

// NewDesktopNotifier connects to the session bus. It fails when no session
// bus is reachable, which is common when running under sudo.
func NewDesktopNotifier() (*DesktopNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DesktopNotifier{
		conn:    conn,
		appName: common.AppName,
		timeout: common.NotificationTimeout,
	}, nil
}

// NotifyWithIcon sends a notification with a custom icon.
func (n *DesktopNotifier) NotifyWithIcon(title, message, icon string) error {
	obj := n.conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notificationsNotify, 0,
		n.appName,
		uint32(0),
		icon,
		title,
		message,
		[]string{},
		map[string]dbus.Variant{},
		int32(n.timeout.Milliseconds()),
	)
	return call.Err
}

// Close releases the bus connection.
func (n *DesktopNotifier) Close() error {
	return n.conn.Close()
}

// NotifyConnected shows a notification when the VPN connects
func NotifyConnected(n common.Notifier, country string) {
	send(n, "VPN Connected", "Connected to "+country, iconConnected)
}

// NotifyDisconnected shows a notification when the VPN is stopped
func NotifyDisconnected(n common.Notifier) {
	send(n, "VPN Disconnected", "Your VPN connection has been stopped.", iconDisconnected)
}

// NotifyError shows a notification for a failed connect or stop
func NotifyError(n common.Notifier, reason string) {
	send(n, "Connection Error", reason, iconError)
}

func send(n common.Notifier, title, message, icon string) {
	if err := n.NotifyWithIcon(title, message, icon); err != nil {
		common.LogWarn("Error showing notification: %v", err)
	}
}

// NotificationObserver turns controller transitions into desktop
// notifications. Clearing a Failed state is not announced.
func NotificationObserver(n common.Notifier, catalog *vpn.Catalog) vpn.StateObserver {
	return func(old, new vpn.ConnectionState) {
		switch new.Status {
		case vpn.StatusConnected:
			country := new.CountryCode
			if name, ok := catalog.NameForCode(new.CountryCode); ok {
				country = fmt.Sprintf("%s (%s)", name, new.CountryCode)
			}
			NotifyConnected(n, country)
		case vpn.StatusDisconnected:
			if old.Status == vpn.StatusDisconnecting {
				NotifyDisconnected(n)
			}
		case vpn.StatusFailed:
			reason := "VPN client failed"
			if new.Reason != nil {
				reason = common.Truncate(new.Reason.Error(), 200)
			}
			NotifyError(n, reason)
		}
	}
}
