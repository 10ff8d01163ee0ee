// Package ui provides the terminal user interface for VPN Panel.
//
// The panel is a single bubbletea program:
//
//   - Country picker listing the catalog
//   - Action bar: Connect, Stop Connection, Auth Information, Get IP Info, Quit
//   - Status line fed by controller transitions
//   - One modal at a time for progress, results, errors and yes/no questions
//
// # Threading
//
// Controller calls run inside tea.Cmd goroutines and report back as
// messages. State transitions are forwarded with Program.Send from the
// controller's observer, so the model is only ever touched by the
// program's event loop.
//
// While a progress modal is open all input except Ctrl+C is ignored.
// Quit and Stop Connection ask for confirmation first. Dismissing the
// error modal of a failed client invocation returns the controller to
// Disconnected.
//
// # Notifications
//
// When enabled in the configuration, connected, stopped and failed
// transitions are also announced through org.freedesktop.Notifications
// on the session bus.
//
// # File Organization
//
//   - app.go: Program lifecycle and controller wiring
//   - model.go: Main screen model
//   - dialogs.go: Modal overlay
//   - errors.go: Error descriptions shown to the user
//   - keys.go: Key bindings
//   - styles.go: lipgloss styles and theme support
//   - notifications.go: Desktop notification integration
package ui
