package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/yllada/vpn-panel/vpn"
)

type sentNotification struct {
	title, message, icon string
}

type recordingNotifier struct {
	sent []sentNotification
	err  error
}

func (r *recordingNotifier) NotifyWithIcon(title, message, icon string) error {
	r.sent = append(r.sent, sentNotification{title, message, icon})
	return r.err
}

func TestNotificationObserver(t *testing.T) {
	disconnected := vpn.ConnectionState{Status: vpn.StatusDisconnected}
	connecting := vpn.ConnectionState{Status: vpn.StatusConnecting}
	connected := vpn.ConnectionState{Status: vpn.StatusConnected, CountryCode: "DE"}
	disconnecting := vpn.ConnectionState{Status: vpn.StatusDisconnecting}
	failed := vpn.ConnectionState{Status: vpn.StatusFailed, Reason: errors.New("connect: cyberghostvpn exited with code 1")}

	tests := []struct {
		name      string
		old, new  vpn.ConnectionState
		wantTitle string
		wantText  string
	}{
		{"connecting is silent", disconnected, connecting, "", ""},
		{"connected", connecting, connected, "VPN Connected", "Germany (DE)"},
		{"stopped", disconnecting, disconnected, "VPN Disconnected", "stopped"},
		{"failed", connecting, failed, "Connection Error", "exited with code 1"},
		{"acknowledge is silent", failed, disconnected, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			NotificationObserver(n, vpn.DefaultCatalog())(tt.old, tt.new)

			if tt.wantTitle == "" {
				if len(n.sent) != 0 {
					t.Errorf("sent %v, want nothing", n.sent)
				}
				return
			}
			if len(n.sent) != 1 {
				t.Fatalf("sent %d notifications, want 1", len(n.sent))
			}
			if n.sent[0].title != tt.wantTitle {
				t.Errorf("title = %q, want %q", n.sent[0].title, tt.wantTitle)
			}
			if !strings.Contains(n.sent[0].message, tt.wantText) {
				t.Errorf("message = %q, want it to contain %q", n.sent[0].message, tt.wantText)
			}
		})
	}
}

func TestNotificationObserver_DeliveryErrorIsNotFatal(t *testing.T) {
	n := &recordingNotifier{err: errors.New("no notification daemon")}

	NotificationObserver(n, vpn.DefaultCatalog())(
		vpn.ConnectionState{Status: vpn.StatusDisconnecting},
		vpn.ConnectionState{Status: vpn.StatusDisconnected},
	)

	if len(n.sent) != 1 {
		t.Errorf("sent %d notifications, want 1", len(n.sent))
	}
}
