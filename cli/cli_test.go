package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yllada/vpn-panel/common"
	"github.com/yllada/vpn-panel/config"
	"github.com/yllada/vpn-panel/credentials"
	"github.com/yllada/vpn-panel/keyring"
	"github.com/yllada/vpn-panel/vpn"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	outcome common.ProcessOutcome
	err     error
}

func (r *fakeRunner) Run(ctx context.Context, argv []string) (common.ProcessOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, argv)
	if r.err != nil {
		return common.ProcessOutcome{ExitCode: -1}, r.err
	}
	return r.outcome, nil
}

func (r *fakeRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeLookup struct {
	identity common.Identity
	err      error
}

func (l *fakeLookup) FetchIdentity(ctx context.Context) (common.Identity, error) {
	return l.identity, l.err
}

type fakeCredentials struct {
	creds common.Credentials
	err   error
}

func (c *fakeCredentials) Load(ctx context.Context, forUser string) (common.Credentials, error) {
	return c.creds, c.err
}

type testEnv struct {
	runner *fakeRunner
	lookup *fakeLookup
	creds  *fakeCredentials
	ctrl   *vpn.Controller
	out    *bytes.Buffer
	cli    *CLI
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		runner: &fakeRunner{},
		lookup: &fakeLookup{identity: common.Identity{
			IP: "1.2.3.4", Country: "Germany", Region: "Berlin", ISP: "ExampleISP", CountryCode: "DE",
		}},
		creds: &fakeCredentials{creds: common.Credentials{Username: "operator", Source: "/home/alice/.cyberghost/config.ini"}},
		out:   &bytes.Buffer{},
	}

	ctrl, err := vpn.NewController(vpn.ControllerConfig{
		Catalog:     vpn.DefaultCatalog(),
		Runner:      e.runner,
		Lookup:      e.lookup,
		Credentials: e.creds,
		Commands:    vpn.ClientCommands{Binary: "cyberghostvpn"},
		User:        "alice",
	})
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	e.ctrl = ctrl
	e.cli = New(ctrl, e.out)
	return e
}

func TestCLI_ListCountries(t *testing.T) {
	e := newTestEnv(t)

	if err := e.cli.ListCountries(); err != nil {
		t.Fatalf("ListCountries() error = %v", err)
	}

	out := e.out.String()
	for _, want := range []string{"COUNTRY", "CODE", "Germany", "DE", "United States", "US"} {
		if !strings.Contains(out, want) {
			t.Errorf("ListCountries() output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 22 {
		t.Errorf("ListCountries() printed %d lines, want 22", lines)
	}
}

func TestCLI_FindCountry(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		query  string
		want   string
		wantOK bool
	}{
		{"Germany", "Germany", true},
		{"germany", "Germany", true},
		{" Germany ", "Germany", true},
		{"DE", "Germany", true},
		{"de", "Germany", true},
		{"united states", "United States", true},
		{"Atlantis", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := e.cli.findCountry(tt.query)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("findCountry(%q) = %q, %v, want %q, %v", tt.query, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCLI_Connect(t *testing.T) {
	e := newTestEnv(t)

	if err := e.cli.Connect(context.Background(), "de"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	out := e.out.String()
	for _, want := range []string{"Connecting to Germany...", "✓ Connected to Germany", "1.2.3.4", "Berlin", "ExampleISP"} {
		if !strings.Contains(out, want) {
			t.Errorf("Connect() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("Connect() printed a warning for a matching exit country:\n%s", out)
	}
}

func TestCLI_ConnectUnknownCountry(t *testing.T) {
	e := newTestEnv(t)

	err := e.cli.Connect(context.Background(), "Atlantis")
	if !errors.Is(err, common.ErrUnknownCountry) {
		t.Errorf("Connect() error = %v, want ErrUnknownCountry", err)
	}
	if e.runner.count() != 0 {
		t.Error("the client must not run for an unknown country")
	}
}

func TestCLI_ConnectProcessFailure(t *testing.T) {
	e := newTestEnv(t)
	e.runner.outcome = common.ProcessOutcome{ExitCode: 1}

	err := e.cli.Connect(context.Background(), "Germany")

	var perr *common.ProcessError
	if !errors.As(err, &perr) {
		t.Errorf("Connect() error = %v, want *common.ProcessError", err)
	}
}

func TestCLI_ConnectVerificationIsAWarning(t *testing.T) {
	e := newTestEnv(t)
	e.lookup.err = &common.LookupError{Kind: common.LookupNetwork, Err: errors.New("no route to host")}

	if err := e.cli.Connect(context.Background(), "Germany"); err != nil {
		t.Fatalf("Connect() error = %v, want nil", err)
	}
	if out := e.out.String(); !strings.Contains(out, "Warning: public identity not verified") {
		t.Errorf("Connect() output missing the verification warning:\n%s", out)
	}
}

func TestCLI_ConnectCountryMismatch(t *testing.T) {
	e := newTestEnv(t)
	e.lookup.identity.CountryCode = "FR"

	if err := e.cli.Connect(context.Background(), "Germany"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if out := e.out.String(); !strings.Contains(out, "exit country is FR, requested DE") {
		t.Errorf("Connect() output missing the mismatch warning:\n%s", out)
	}
}

func TestCLI_ConnectInterrupted(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.runner.err = context.Canceled

	if err := e.cli.Connect(ctx, "Germany"); err != nil {
		t.Fatalf("Connect() error = %v, want nil after interrupt", err)
	}
	if !strings.Contains(e.out.String(), "Interrupted.") {
		t.Errorf("Connect() output = %q, want Interrupted.", e.out.String())
	}
}

func TestCLI_Disconnect(t *testing.T) {
	e := newTestEnv(t)

	if err := e.cli.Disconnect(context.Background(), false); err != nil {
		t.Fatalf("Disconnect(false) error = %v", err)
	}
	if e.runner.count() != 0 {
		t.Error("the client must not run without confirmation")
	}
	if !strings.Contains(e.out.String(), "Cancelled.") {
		t.Errorf("Disconnect(false) output = %q, want Cancelled.", e.out.String())
	}

	e.out.Reset()
	if err := e.cli.Disconnect(context.Background(), true); err != nil {
		t.Fatalf("Disconnect(true) error = %v", err)
	}
	if e.runner.count() != 1 {
		t.Errorf("runner called %d times, want 1", e.runner.count())
	}
	if !strings.Contains(e.out.String(), "stopped") {
		t.Errorf("Disconnect(true) output = %q", e.out.String())
	}
}

func TestCLI_IPInfoAndAuth(t *testing.T) {
	e := newTestEnv(t)

	if err := e.cli.IPInfo(context.Background()); err != nil {
		t.Fatalf("IPInfo() error = %v", err)
	}
	if err := e.cli.Auth(context.Background()); err != nil {
		t.Fatalf("Auth() error = %v", err)
	}

	out := e.out.String()
	for _, want := range []string{"IP Address:", "1.2.3.4", "User:", "operator", "/home/alice/.cyberghost/config.ini"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	e.creds.err = &common.CredentialError{Kind: common.CredentialMissingField, Err: errors.New("no username")}
	var cerr *common.CredentialError
	if err := e.cli.Auth(context.Background()); !errors.As(err, &cerr) {
		t.Errorf("Auth() error = %v, want *common.CredentialError", err)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.input), &out, "Stop?")
			if err != nil {
				t.Fatalf("confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Stop? [y/N]") {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestConfirm_RefusesNonTerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers")
	if err := os.WriteFile(path, []byte("y\n"), 0600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := confirm(f, &bytes.Buffer{}, "Stop?")
	if !errors.Is(err, errNotInteractive) || got {
		t.Errorf("confirm() = %v, %v, want false, errNotInteractive", got, err)
	}
}

func TestCredentialReaderSelection(t *testing.T) {
	fallback, ok := credentialReader(config.CredentialsConfig{Source: common.CredentialSourceKeyring}).(*credentials.FallbackReader)
	if !ok {
		t.Fatal("keyring source should use credentials.FallbackReader")
	}
	if _, ok := fallback.Primary.(*keyring.Reader); !ok {
		t.Errorf("Primary = %T, want *keyring.Reader", fallback.Primary)
	}
	if _, ok := fallback.Secondary.(*credentials.FileStore); !ok {
		t.Errorf("Secondary = %T, want *credentials.FileStore", fallback.Secondary)
	}
	if _, ok := credentialReader(config.CredentialsConfig{Source: common.CredentialSourceFile}).(*credentials.FileStore); !ok {
		t.Error("file source should use credentials.FileStore")
	}
}
