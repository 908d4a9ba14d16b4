package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/suitools/suicli/internal/agent"
	"github.com/suitools/suicli/internal/chat"
	"github.com/suitools/suicli/internal/vault"
)

// fatalGrace keeps a fatal session error on screen long enough to read
// before the process exits.
const fatalGrace = 15 * time.Second

var spinnerFrames = []string{"~", "-", "≈", "-"}

func (c *SessionCmd) Run(rc *runContext) error {
	store := vault.Open(rc.cfg.Vault.Path)

	rec, err := selectRecord(store, c.Name)
	if err != nil {
		return err
	}

	password, err := readSecret("Vault password")
	if err != nil {
		return err
	}
	secret, err := store.Decrypt(rec.Name, password)
	if err != nil {
		return err
	}

	// Everything from the worker spawn onward ends the process through
	// fatalSession so the failure stays on screen before exiting.
	if err := runSession(rc, rec, secret); err != nil {
		fatalSession(err)
	}
	return nil
}

// runSession spawns the worker, connects, and runs the interaction loop.
// Any error it returns is fatal to the session.
func runSession(rc *runContext, rec *vault.Record, secret string) error {
	sup, err := agent.StartWorker(rc.cfg.Worker, secret)
	if err != nil {
		return err
	}
	// The worker must die on every exit path, including panics.
	defer sup.Stop()

	conn, err := connect(rc)
	if err != nil {
		return err
	}
	client := agent.NewClient(conn)
	defer client.Close()

	transcript, err := chat.NewTranscript(rc.cfg.Session.TranscriptDir)
	if err != nil {
		return err
	}
	defer transcript.Close()

	model := chat.New(client, transcript, sup.Done(), rec.Name, rec.Address)
	prog := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return err
	}
	if err := model.Err(); err != nil {
		return err
	}

	fmt.Printf("Session ended. Transcript: %s\n", transcript.Path())
	return nil
}

// selectRecord resolves the record by name, or via a numbered menu when
// no name was given.
func selectRecord(store *vault.Store, name string) (*vault.Record, error) {
	if name != "" {
		return store.Get(name)
	}

	recs, err := store.List()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("the vault is empty; import a key with: suicli add <name>")
	}

	fmt.Println("Stored keys:")
	for i, rec := range recs {
		fmt.Printf("%3d. %-20s %s\n", i+1, rec.Name, rec.Address)
	}
	for {
		answer, err := readLine(fmt.Sprintf("Select a key [1-%d]", len(recs)))
		if err != nil {
			return nil, err
		}
		idx, err := strconv.Atoi(answer)
		if err != nil || idx < 1 || idx > len(recs) {
			fmt.Fprintf(os.Stderr, "Please enter a number between 1 and %d\n", len(recs))
			continue
		}
		return &recs[idx-1], nil
	}
}

// connect waits for the worker endpoint, animating progress on stderr.
func connect(rc *runContext) (net.Conn, error) {
	d := &agent.Dialer{
		Endpoint: rc.cfg.Worker.Endpoint,
		Attempts: rc.cfg.Worker.ConnectAttempts,
		Interval: time.Duration(rc.cfg.Worker.ConnectIntervalMS) * time.Millisecond,
		Progress: func(attempt int) {
			frame := spinnerFrames[(attempt-1)%len(spinnerFrames)]
			fmt.Fprintf(os.Stderr, "\r%s Waiting for agent (%d/%d)...",
				frame, attempt, rc.cfg.Worker.ConnectAttempts)
		},
	}
	c, err := d.Connect(context.Background())
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// fatalSession reports the error, holds it on screen, and exits
// non-zero. The worker is already stopped by runSession's defer.
func fatalSession(err error) {
	fmt.Fprintf(os.Stderr, "\nSession failed: %v\n", err)
	fmt.Fprintf(os.Stderr, "Exiting in %s...\n", fatalGrace)
	time.Sleep(fatalGrace)
	os.Exit(1)
}
