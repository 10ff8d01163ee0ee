// Package ui provides the terminal user interface for VPN Panel.
// This file contains the lipgloss styles and theming.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

// Palette shared by every view. Adaptive colors follow the terminal
// background unless a theme is forced.
var (
	colorAccent   = lipgloss.AdaptiveColor{Light: "#1a5fb4", Dark: "#3584e4"}
	colorSuccess  = lipgloss.AdaptiveColor{Light: "#26a269", Dark: "#2ec27e"}
	colorWarning  = lipgloss.AdaptiveColor{Light: "#c64600", Dark: "#e5a50a"}
	colorError    = lipgloss.AdaptiveColor{Light: "#c01c28", Dark: "#e01b24"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#77767b", Dark: "#9a9996"}
	colorSelected = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSelected).
			Background(colorAccent).
			Padding(0, 1)

	statusLabelStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[vpn.ConnectionStatus]lipgloss.Style{
		vpn.StatusDisconnected:  lipgloss.NewStyle().Foreground(colorMuted),
		vpn.StatusConnecting:    lipgloss.NewStyle().Foreground(colorWarning),
		vpn.StatusConnected:     lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		vpn.StatusDisconnecting: lipgloss.NewStyle().Foreground(colorWarning),
		vpn.StatusFailed:        lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}

	actionStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	activeActionStyle = actionStyle.
				BorderForeground(colorAccent).
				Foreground(colorAccent).
				Bold(true)

	dimActionStyle = actionStyle.Foreground(colorMuted)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			Width(56)

	modalTitleStyles = map[modalKind]lipgloss.Style{
		modalProgress: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		modalInfo:     lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		modalWarning:  lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
		modalError:    lipgloss.NewStyle().Bold(true).Foreground(colorError),
		modalConfirm:  lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
	}

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	activeButtonStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(colorSelected).
				Background(colorAccent)

	mismatchStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(1, 0, 0, 1)
)

// statusStyle returns the style for a connection status.
func statusStyle(s vpn.ConnectionStatus) lipgloss.Style {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// modalBorder colors the modal frame after its kind.
func modalBorder(kind modalKind) lipgloss.Style {
	switch kind {
	case modalError:
		return modalStyle.BorderForeground(colorError)
	case modalWarning, modalConfirm:
		return modalStyle.BorderForeground(colorWarning)
	case modalInfo:
		return modalStyle.BorderForeground(colorSuccess)
	default:
		return modalStyle.BorderForeground(colorAccent)
	}
}

// ApplyTheme forces the light or dark palette.
// Supported values: "auto" (detect from the terminal), "light", "dark"
func ApplyTheme(theme string) {
	switch theme {
	case common.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case common.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	default: // "auto": lipgloss queries the terminal
	}
}
