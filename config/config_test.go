package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yllada/vpn-panel/common"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ClientBinary != common.DefaultClientBinary {
		t.Errorf("ClientBinary = %q, want %q", cfg.ClientBinary, common.DefaultClientBinary)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
	if !common.FileExists(path) {
		t.Error("Load() should write the default configuration")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %v, want 0600", perm)
	}
}

func TestLoad_ParsesAndNormalises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `client_binary: /opt/vpn/bin/client
lookup_timeout: 3s
process_timeout: -1s
credentials:
  source: vault
  section: login
theme: neon
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"ClientBinary", cfg.ClientBinary, "/opt/vpn/bin/client"},
		{"GeoEndpoint", cfg.GeoEndpoint, common.DefaultGeoEndpoint},
		{"LookupTimeout", cfg.LookupTimeout, 3 * time.Second},
		{"ProcessTimeout", cfg.ProcessTimeout, time.Duration(0)},
		{"Credentials.Source", cfg.Credentials.Source, common.CredentialSourceFile},
		{"Credentials.Section", cfg.Credentials.Section, "login"},
		{"Credentials.Key", cfg.Credentials.Key, common.DefaultCredentialsKey},
		{"Theme", cfg.Theme, common.ThemeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auto_reconnect: true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should reject unknown fields")
	}
	if !errors.Is(err, common.ErrConfigLoad) {
		t.Errorf("Load() error = %v, want ErrConfigLoad", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LookupTimeout != common.LookupTimeout {
		t.Errorf("LookupTimeout = %v, want %v", cfg.LookupTimeout, common.LookupTimeout)
	}
	if cfg.ProcessTimeout != common.ProcessTimeout {
		t.Errorf("ProcessTimeout = %v, want %v", cfg.ProcessTimeout, common.ProcessTimeout)
	}
	if cfg.Credentials.Path != ".cyberghost/config.ini" {
		t.Errorf("Credentials.Path = %q, want .cyberghost/config.ini", cfg.Credentials.Path)
	}
	if cfg.Notifications {
		t.Error("Notifications should be off by default")
	}
}
