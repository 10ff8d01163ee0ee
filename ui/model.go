// Package ui provides the terminal user interface for VPN Panel.
// This file contains the main screen: country picker, action bar and
// status line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

// action is an entry of the action bar.
type action int

const (
	actionConnect action = iota
	actionStop
	actionAuth
	actionIPInfo
	actionQuit
	actionCount
)

func (a action) String() string {
	switch a {
	case actionConnect:
		return "Connect"
	case actionStop:
		return "Stop Connection"
	case actionAuth:
		return "Auth Information"
	case actionIPInfo:
		return "Get IP Info"
	case actionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// countryItem is a catalog entry shown in the picker.
type countryItem struct {
	name string
	code string
}

func (i countryItem) Title() string       { return i.name }
func (i countryItem) Description() string { return i.code }
func (i countryItem) FilterValue() string { return i.name }

// Messages delivered to the model.
type (
	stateMsg struct {
		old vpn.ConnectionState
		new vpn.ConnectionState
	}

	connectDoneMsg struct {
		country  string
		code     string
		identity common.Identity
		err      error
	}

	stopDoneMsg struct {
		err error
	}

	identityMsg struct {
		identity common.Identity
		err      error
	}

	credentialsMsg struct {
		creds common.Credentials
		err   error
	}
)

// Model is the bubbletea model of the panel.
type Model struct {
	// ctx bounds every controller call started from the panel.
	ctx     context.Context
	ctrl    *vpn.Controller
	version string

	keys      keyMap
	help      help.Model
	countries list.Model
	spinner   spinner.Model

	action action
	modal  modal
	state  vpn.ConnectionState

	width  int
	height int

	quitting bool
}

// NewModel builds the main screen for ctrl.
func NewModel(ctx context.Context, ctrl *vpn.Controller, version string) Model {
	catalog := ctrl.Catalog()
	names := catalog.Names()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		code, _ := catalog.Code(name)
		items = append(items, countryItem{name: name, code: code})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	countries := list.New(items, delegate, 40, 14)
	countries.Title = "Select Country:"
	countries.SetShowStatusBar(false)
	countries.SetShowHelp(false)
	countries.SetFilteringEnabled(false)
	countries.DisableQuitKeybindings()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		version:   version,
		keys:      defaultKeyMap(),
		help:      help.New(),
		countries: countries,
		spinner:   spin,
		state:     ctrl.State(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		listHeight := msg.Height - 10
		if listHeight < 5 {
			listHeight = 5
		}
		m.countries.SetSize(min(msg.Width, 48), listHeight)
		return m, nil

	case stateMsg:
		m.state = msg.new
		return m, nil

	case spinner.TickMsg:
		if m.modal.kind != modalProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case connectDoneMsg:
		m.state = m.ctrl.State()
		m.modal = m.connectResult(msg)
		return m, nil

	case stopDoneMsg:
		m.state = m.ctrl.State()
		if msg.err != nil {
			m.modal = failureModal(opStop, msg.err)
		} else {
			m.modal = infoModal("Your VPN connection has been stopped.")
		}
		return m, nil

	case identityMsg:
		if msg.err != nil {
			m.modal = failureModal(opIPInfo, msg.err)
		} else {
			m.modal = infoModal(formatIdentity(msg.identity, m.expectedCountry()))
		}
		return m, nil

	case credentialsMsg:
		if msg.err != nil {
			m.modal = failureModal(opAuth, msg.err)
		} else {
			m.modal = modal{kind: modalInfo, title: "INFO", message: formatCredentials(msg.creds)}
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.modal.open() {
			return m.updateModal(msg)
		}
		return m.updateMain(msg)
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up, m.keys.Down):
		var cmd tea.Cmd
		m.countries, cmd = m.countries.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		m.action = (m.action + 1) % actionCount
	case key.Matches(msg, m.keys.Prev):
		m.action = (m.action + actionCount - 1) % actionCount
	case key.Matches(msg, m.keys.Activate):
		return m.run(m.action)
	case key.Matches(msg, m.keys.Connect):
		return m.run(actionConnect)
	case key.Matches(msg, m.keys.Stop):
		return m.run(actionStop)
	case key.Matches(msg, m.keys.Auth):
		return m.run(actionAuth)
	case key.Matches(msg, m.keys.IPInfo):
		return m.run(actionIPInfo)
	case key.Matches(msg, m.keys.Quit):
		return m.run(actionQuit)
	}
	return m, nil
}

// updateModal handles input while a modal is open. Progress modals swallow
// every key; the work they wait on cannot be cancelled except by exiting.
func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal.kind {
	case modalProgress:
		return m, nil

	case modalConfirm:
		switch msg.String() {
		case "left", "right", "tab", "shift+tab", "h", "l":
			m.modal.yes = !m.modal.yes
			return m, nil
		case "y", "Y":
			return m.answer(true)
		case "n", "N", "esc", "q":
			return m.answer(false)
		case "enter":
			return m.answer(m.modal.yes)
		}
		return m, nil

	default:
		switch msg.String() {
		case "enter", "esc", " ", "q":
			ack := m.modal.acknowledge
			m.modal = modal{}
			if ack {
				// Observers post back to the program, so the commit must
				// happen off the event loop. The stateMsg updates m.state.
				return m, acknowledgeCmd(m.ctrl)
			}
		}
		return m, nil
	}
}

// acknowledgeCmd clears a Failed state after its error was shown.
func acknowledgeCmd(ctrl *vpn.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Acknowledge()
		return nil
	}
}

// answer closes a confirm modal and performs the guarded action on yes.
func (m Model) answer(yes bool) (tea.Model, tea.Cmd) {
	guarded := m.modal.onConfirm
	m.modal = modal{}

	switch guarded {
	case confirmQuit:
		if yes {
			m.quitting = true
			return m, tea.Quit
		}
	case confirmStop:
		if !yes {
			// Records the cancellation; the controller state is untouched.
			_ = m.ctrl.Disconnect(m.ctx, false)
			return m, nil
		}
		m.modal = progressModal("Disabling VPN connection please wait...")
		return m, tea.Batch(m.spinner.Tick, m.stopCmd())
	}
	return m, nil
}

// run starts the action a.
func (m Model) run(a action) (tea.Model, tea.Cmd) {
	m.action = a

	switch a {
	case actionConnect:
		item, ok := m.countries.SelectedItem().(countryItem)
		if !ok {
			m.modal = warningModal("Select a country first.")
			return m, nil
		}
		m.modal = progressModal(fmt.Sprintf("Connecting to: %s", item.name))
		return m, tea.Batch(m.spinner.Tick, m.connectCmd(item))

	case actionStop:
		m.modal = confirmModal("Are you sure to stop VPN connection?", confirmStop)

	case actionAuth:
		m.modal = progressModal("Reading account information...")
		return m, tea.Batch(m.spinner.Tick, m.credentialsCmd())

	case actionIPInfo:
		m.modal = progressModal("Requesting IP information please wait...")
		return m, tea.Batch(m.spinner.Tick, m.identityCmd())

	case actionQuit:
		m.modal = confirmModal("Are you sure to quit?", confirmQuit)
	}

	return m, nil
}

func (m Model) connectCmd(item countryItem) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		identity, err := ctrl.Connect(ctx, item.name)
		return connectDoneMsg{country: item.name, code: item.code, identity: identity, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return stopDoneMsg{err: ctrl.Disconnect(ctx, true)}
	}
}

func (m Model) identityCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		identity, err := ctrl.QueryIdentity(ctx)
		return identityMsg{identity: identity, err: err}
	}
}

func (m Model) credentialsCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		creds, err := ctrl.QueryCredentials(ctx)
		return credentialsMsg{creds: creds, err: err}
	}
}

func (m Model) connectResult(msg connectDoneMsg) modal {
	if msg.err == nil {
		return infoModal(formatIdentity(msg.identity, msg.code))
	}

	var verr *common.VerificationError
	if errors.As(msg.err, &verr) {
		title, body := describeError(opConnect, msg.err)
		d := warningModal(body)
		d.title = title
		return d
	}

	return failureModal(opConnect, msg.err)
}

// failureModal builds the error modal for op. A failed client invocation
// leaves the controller in Failed; dismissing the modal acknowledges it.
func failureModal(op string, err error) modal {
	title, body := describeError(op, err)
	d := errorModal(title, body)

	var perr *common.ProcessError
	d.acknowledge = errors.As(err, &perr)
	return d
}

// expectedCountry is the exit country an identity should match, if any.
func (m Model) expectedCountry() string {
	if m.state.Status == vpn.StatusConnected {
		return m.state.CountryCode
	}
	return ""
}

// formatIdentity renders a lookup result. A country code that differs from
// requested is marked.
func formatIdentity(id common.Identity, requested string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IP Address: %s\nCountry: %s\nRegion: %s\nISP: %s", id.IP, id.Country, id.Region, id.ISP)
	if id.City != "" {
		fmt.Fprintf(&b, "\nCity: %s", id.City)
	}
	if requested != "" && id.CountryCode != "" && id.CountryCode != requested {
		b.WriteString("\n\n")
		b.WriteString(mismatchStyle.Render(fmt.Sprintf("! Exit country is %s, requested %s", id.CountryCode, requested)))
	}
	return b.String()
}

func formatCredentials(c common.Credentials) string {
	return fmt.Sprintf("User: %s\nSource: %s", c.Username, c.Source)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s %s", common.AppName, m.version)),
		"",
		m.statusLine(),
		"",
		m.countries.View(),
		m.actionBar(),
		helpStyle.Render(m.help.View(m.keys)),
	)

	if !m.modal.open() {
		return screen
	}

	overlay := m.modal.render(m.spinner.View())
	if m.width == 0 || m.height == 0 {
		return screen + "\n\n" + overlay
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
}

func (m Model) statusLine() string {
	label := m.state.Status.String()
	switch m.state.Status {
	case vpn.StatusConnected:
		if name, ok := m.ctrl.Catalog().NameForCode(m.state.CountryCode); ok {
			label = fmt.Sprintf("Connected to %s (%s)", name, m.state.CountryCode)
		} else {
			label = m.state.String()
		}
	case vpn.StatusFailed:
		if m.state.Reason != nil {
			label = "Failed: " + common.Truncate(m.state.Reason.Error(), 60)
		}
	}
	return statusLabelStyle.Render("Status: ") + statusStyle(m.state.Status).Render(label)
}

func (m Model) actionBar() string {
	buttons := make([]string, 0, actionCount)
	for a := action(0); a < actionCount; a++ {
		style := actionStyle
		switch {
		case a == m.action:
			style = activeActionStyle
		case a == actionConnect && m.state.Status == vpn.StatusConnected:
			style = dimActionStyle
		}
		buttons = append(buttons, style.Render(a.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
