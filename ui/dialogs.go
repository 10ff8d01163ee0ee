package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// modalKind selects the title, frame color and buttons of a modal.
type modalKind int

const (
	modalNone modalKind = iota
	modalProgress
	modalInfo
	modalWarning
	modalError
	modalConfirm
)

// modal is the single overlay shown above the main screen. While one is
// open the main screen does not receive input.
type modal struct {
	kind    modalKind
	title   string
	message string

	// onConfirm is run when a confirm modal is answered with yes.
	onConfirm confirmAction
	// yes is the highlighted button of a confirm modal.
	yes bool
	// acknowledge is set when dismissing the modal clears a Failed state.
	acknowledge bool
}

// confirmAction names what a yes/no modal guards.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmQuit
	confirmStop
)

func progressModal(message string) modal {
	return modal{kind: modalProgress, title: "PROGRESS", message: message}
}

func infoModal(message string) modal {
	return modal{kind: modalInfo, title: "NOTIFICATION", message: message}
}

func warningModal(message string) modal {
	return modal{kind: modalWarning, title: "WARNING", message: message}
}

func errorModal(title, message string) modal {
	return modal{kind: modalError, title: title, message: message}
}

// confirmModal defaults to "No" so an accidental enter is harmless.
func confirmModal(message string, action confirmAction) modal {
	return modal{kind: modalConfirm, title: "WARNING", message: message, onConfirm: action}
}

func (d modal) open() bool {
	return d.kind != modalNone
}

// render draws the modal. spin is the spinner frame for progress modals.
func (d modal) render(spin string) string {
	var b strings.Builder

	b.WriteString(modalTitleStyles[d.kind].Render(d.title))
	b.WriteString("\n\n")

	if d.kind == modalProgress {
		b.WriteString(spin)
		b.WriteString(" ")
	}
	b.WriteString(d.message)

	switch d.kind {
	case modalConfirm:
		no, yes := activeButtonStyle, buttonStyle
		if d.yes {
			no, yes = buttonStyle, activeButtonStyle
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Yes"), "  ", no.Render("No")))
	case modalInfo, modalWarning, modalError:
		b.WriteString("\n\n")
		b.WriteString(activeButtonStyle.Render("OK"))
	}

	return modalBorder(d.kind).Render(b.String())
}
