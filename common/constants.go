// Package common provides shared constants, types, and utilities
// used across the VPN Panel application.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "VPN Panel"
	// BinaryName is the name of the panel executable.
	BinaryName = "vpn-panel"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "vpn-panel"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "vpn-panel.log"
)

// External client defaults.
const (
	// DefaultClientBinary is the VPN client executable driven by the panel.
	DefaultClientBinary = "cyberghostvpn"
	// DefaultGeoEndpoint is the IP-geolocation service queried after connecting.
	DefaultGeoEndpoint = "http://ip-api.com/json"
	// DefaultCredentialsPath is the client's account file, relative to the user's home.
	DefaultCredentialsPath = ".cyberghost/config.ini"
	// DefaultCredentialsSection is the INI section holding the account.
	DefaultCredentialsSection = "account"
	// DefaultCredentialsKey is the key holding the account username.
	DefaultCredentialsKey = "username"
	// DefaultKeyringService is the keyring service consulted when the keyring source is used.
	DefaultKeyringService = "cyberghostvpn"
)

// Credential sources.
const (
	CredentialSourceFile    = "file"
	CredentialSourceKeyring = "keyring"
)

// Default timeouts.
const (
	// LookupTimeout bounds a single geolocation request.
	LookupTimeout = 10 * time.Second
	// ProcessTimeout bounds a single invocation of the VPN client.
	ProcessTimeout = 2 * time.Minute
	// NotificationTimeout is how long desktop notifications stay visible.
	NotificationTimeout = 5 * time.Second
)

// Theme values.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)
