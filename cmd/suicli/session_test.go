package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/suitools/suicli/internal/agent"
	"github.com/suitools/suicli/internal/config"
	"github.com/suitools/suicli/internal/vault"
)

func TestSelectRecord_ByName(t *testing.T) {
	store := vault.Open(filepath.Join(t.TempDir(), "vault.json"))
	key := hex.EncodeToString(bytes.Repeat([]byte{0x22}, 32))
	if _, err := store.Add("main", key, "pw"); err != nil {
		t.Fatalf("add: %v", err)
	}

	rec, err := selectRecord(store, "main")
	if err != nil {
		t.Fatalf("select error: %v", err)
	}
	if rec.Name != "main" {
		t.Errorf("expected record main, got %s", rec.Name)
	}
}

func TestSelectRecord_UnknownName(t *testing.T) {
	store := vault.Open(filepath.Join(t.TempDir(), "vault.json"))
	if _, err := selectRecord(store, "ghost"); !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// Setup failures must surface from runSession so the command can hold
// them on screen instead of exiting immediately.
func TestRunSession_SpawnFailure(t *testing.T) {
	cfg := config.New()
	cfg.Worker.Command = "suicli-no-such-worker"
	cfg.Session.TranscriptDir = t.TempDir()
	rec := &vault.Record{Name: "main", Address: "0xabc"}

	err := runSession(&runContext{cfg: cfg}, rec, "secret")
	var spawn *agent.SpawnError
	if !errors.As(err, &spawn) {
		t.Fatalf("expected a SpawnError, got %v", err)
	}
}

func TestRunSession_ConnectTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a sleep binary")
	}
	cfg := config.New()
	cfg.Worker.Command = "sleep"
	cfg.Worker.Args = []string{"60"}
	cfg.Worker.Endpoint = "127.0.0.1:1"
	cfg.Worker.ConnectAttempts = 2
	cfg.Worker.ConnectIntervalMS = 10
	cfg.Session.TranscriptDir = t.TempDir()
	rec := &vault.Record{Name: "main", Address: "0xabc"}

	err := runSession(&runContext{cfg: cfg}, rec, "secret")
	var timeout *agent.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected a TimeoutError, got %v", err)
	}
	if timeout.Attempts != 2 {
		t.Errorf("expected 2 attempts in the error, got %d", timeout.Attempts)
	}
}

func TestSelectRecord_EmptyVault(t *testing.T) {
	store := vault.Open(filepath.Join(t.TempDir(), "vault.json"))
	if _, err := selectRecord(store, ""); err == nil {
		t.Error("expected an error for an empty vault")
	}
}
