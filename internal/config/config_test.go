package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Worker.Endpoint != "127.0.0.1:50051" {
		t.Errorf("unexpected default endpoint: %s", cfg.Worker.Endpoint)
	}
	if cfg.Worker.ConnectAttempts != 90 {
		t.Errorf("expected 90 connect attempts, got %d", cfg.Worker.ConnectAttempts)
	}
	if cfg.Worker.ConnectIntervalMS != 1000 {
		t.Errorf("expected 1000ms interval, got %d", cfg.Worker.ConnectIntervalMS)
	}
	if cfg.Vault.Path == "" {
		t.Error("vault path should default to the data dir")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Worker.Endpoint != New().Worker.Endpoint {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFile_PartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[worker]
endpoint = "127.0.0.1:60000"

[vault]
path = "/tmp/custom-vault.json"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Worker.Endpoint != "127.0.0.1:60000" {
		t.Errorf("endpoint not overridden: %s", cfg.Worker.Endpoint)
	}
	if cfg.Vault.Path != "/tmp/custom-vault.json" {
		t.Errorf("vault path not overridden: %s", cfg.Vault.Path)
	}
	if cfg.Worker.ConnectAttempts != 90 {
		t.Errorf("unset field should keep default, got %d", cfg.Worker.ConnectAttempts)
	}
	if cfg.Worker.Command != "python3" {
		t.Errorf("unset command should keep default, got %s", cfg.Worker.Command)
	}
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[worker\nbroken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}
