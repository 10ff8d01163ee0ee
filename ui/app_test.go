package ui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/vpn"
)

// watchedModel reports the modal shown after every update.
type watchedModel struct {
	Model
	modals chan modalKind
}

func (w watchedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := w.Model.Update(msg)
	w.Model = next.(Model)
	select {
	case w.modals <- w.Model.modal.kind:
	default:
	}
	return w, cmd
}

func waitForModal(t *testing.T, modals <-chan modalKind, want modalKind) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-modals:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("modal %v never shown", want)
		}
	}
}

func waitForStatus(t *testing.T, states <-chan vpn.ConnectionState, want vpn.ConnectionStatus) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if s.Status == want {
				return
			}
		case <-timeout:
			t.Fatalf("status %v never committed", want)
		}
	}
}

func TestProgram_DismissingFailureReturnsToMainMenu(t *testing.T) {
	h := newHarness(t)
	h.runner.outcome = common.ProcessOutcome{ExitCode: 1, Stderr: []byte("not logged in")}
	h.selectCountry(t, "Germany")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modals := make(chan modalKind, 64)
	program := tea.NewProgram(
		watchedModel{Model: h.model, modals: modals},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	forwardState(h.ctrl, program)

	states := make(chan vpn.ConnectionState, 16)
	h.ctrl.Subscribe(func(old, new vpn.ConnectionState) { states <- new })

	type result struct {
		model tea.Model
		err   error
	}
	done := make(chan result, 1)
	go func() {
		m, err := program.Run()
		done <- result{m, err}
	}()

	program.Send(keyMsg("c"))
	waitForModal(t, modals, modalError)

	program.Send(keyMsg("enter"))
	waitForStatus(t, states, vpn.StatusDisconnected)

	program.Send(keyMsg("ctrl+c"))

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Run() error = %v", r.err)
		}
		final := r.model.(watchedModel).Model
		if final.state.Status != vpn.StatusDisconnected {
			t.Errorf("panel status = %v, want %v", final.state.Status, vpn.StatusDisconnected)
		}
		if final.modal.open() {
			t.Errorf("modal = %v, want main menu", final.modal.kind)
		}
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("panel did not exit after the error was dismissed")
	}
}
