package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/yllada/vpn-panel/common"
)

type cannedReader struct {
	creds common.Credentials
	err   error
	calls int
}

func (r *cannedReader) Load(ctx context.Context, forUser string) (common.Credentials, error) {
	r.calls++
	return r.creds, r.err
}

func TestFallbackReader_Load(t *testing.T) {
	fromFile := common.Credentials{Username: "operator", Source: "/home/alice/.cyberghost/config.ini"}
	fromKeyring := common.Credentials{Username: "keyring-user", Source: "keyring:vpn-panel"}

	tests := []struct {
		name          string
		primaryErr    error
		wantUser      string
		wantKind      common.CredentialErrorKind
		wantErr       bool
		wantSecondary int
	}{
		{
			name:     "primary answers",
			wantUser: "keyring-user",
		},
		{
			name:          "primary unavailable",
			primaryErr:    &common.CredentialError{Kind: common.CredentialUnavailable, Path: "keyring:vpn-panel", Err: errors.New("no session bus")},
			wantUser:      "operator",
			wantSecondary: 1,
		},
		{
			name:       "primary missing entry",
			primaryErr: &common.CredentialError{Kind: common.CredentialMissingField, Path: "keyring:vpn-panel", Err: errors.New("secret not found")},
			wantKind:   common.CredentialMissingField,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &cannedReader{creds: fromKeyring, err: tt.primaryErr}
			if tt.primaryErr != nil {
				primary.creds = common.Credentials{}
			}
			secondary := &cannedReader{creds: fromFile}
			r := &FallbackReader{Primary: primary, Secondary: secondary}

			got, err := r.Load(context.Background(), "alice")

			if secondary.calls != tt.wantSecondary {
				t.Errorf("secondary called %d times, want %d", secondary.calls, tt.wantSecondary)
			}
			if tt.wantErr {
				var cerr *common.CredentialError
				if !errors.As(err, &cerr) || cerr.Kind != tt.wantKind {
					t.Fatalf("Load() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Username != tt.wantUser {
				t.Errorf("Load() username = %q, want %q", got.Username, tt.wantUser)
			}
		})
	}
}
