package chat

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suitools/suicli/internal/agent"
)

func newTestModel(done <-chan error) *Model {
	return New(nil, nil, done, "main", "0xabcdef0123456789")
}

func TestSubmit_AppendsUserMessageAndStreams(t *testing.T) {
	m := newTestModel(make(chan error))
	m.input.SetValue("hello agent")

	cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit should return a request command")
	}
	if m.state != stateStreaming {
		t.Errorf("expected streaming state, got %d", m.state)
	}
	if len(m.messages) != 1 || m.messages[0].Role != RoleUser || m.messages[0].Text != "hello agent" {
		t.Errorf("user message not appended optimistically: %+v", m.messages)
	}
	if m.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}
}

func TestSubmit_IgnoresBlankInput(t *testing.T) {
	m := newTestModel(make(chan error))
	m.input.SetValue("   ")
	if cmd := m.submit(); cmd != nil {
		t.Error("blank input should not start a request")
	}
	if m.state != stateAwaitingInput {
		t.Error("state should stay awaiting input")
	}
}

func TestDrain_FinalizesOnTerminator(t *testing.T) {
	m := newTestModel(make(chan error))
	m.state = stateStreaming

	m.bridge.Push("Hello")
	m.bridge.Push(", world")
	m.bridge.Push(agent.Terminator)
	m.drain()

	if m.state != stateAwaitingInput {
		t.Errorf("terminator should return the loop to input, got state %d", m.state)
	}
	if len(m.messages) != 1 {
		t.Fatalf("expected one finalized message, got %d", len(m.messages))
	}
	if m.messages[0].Role != RoleAgent || m.messages[0].Text != "Hello, world" {
		t.Errorf("unexpected finalized message: %+v", m.messages[0])
	}
}

func TestDrain_PartialFragmentsStayBuffered(t *testing.T) {
	m := newTestModel(make(chan error))
	m.state = stateStreaming

	m.bridge.Push("partial")
	m.drain()

	if len(m.messages) != 0 {
		t.Error("no message should be finalized before the terminator")
	}
	if m.streaming.String() != "partial" {
		t.Errorf("fragment not buffered: %q", m.streaming.String())
	}
	if m.state != stateStreaming {
		t.Error("state should remain streaming")
	}
}

func TestDrain_WorkerExitTerminates(t *testing.T) {
	done := make(chan error, 1)
	done <- errors.New("exit status 1")

	m := newTestModel(done)
	cmd := m.drain()

	if cmd == nil {
		t.Fatal("worker exit should quit the loop")
	}
	if m.state != stateTerminated {
		t.Errorf("expected terminated state, got %d", m.state)
	}
	if m.Err() == nil {
		t.Error("session error should be recorded")
	}
}

func TestDrain_CleanWorkerExitTerminates(t *testing.T) {
	done := make(chan error, 1)
	done <- nil

	m := newTestModel(done)
	cmd := m.drain()

	if cmd == nil {
		t.Fatal("worker exit should quit the loop")
	}
	if m.state != stateTerminated {
		t.Errorf("expected terminated state, got %d", m.state)
	}
	err := m.Err()
	if err == nil {
		t.Fatal("session error should be recorded")
	}
	if strings.Contains(err.Error(), "%!w") {
		t.Errorf("error message mangled for a nil exit: %q", err)
	}
}

func TestTranscript_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tr, err := NewTranscript(dir)
	if err != nil {
		t.Fatalf("new transcript: %v", err)
	}

	first := NewMessage(RoleUser, "hi")
	second := NewMessage(RoleAgent, "hello back")
	for _, msg := range []Message{first, second} {
		if err := tr.Append(msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	msgs, err := ReadTranscript(tr.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != first.ID || msgs[1].ID != second.ID {
		t.Error("message ids should survive the round trip")
	}
	if msgs[0].ID == msgs[1].ID {
		t.Error("message ids should be unique")
	}
	if filepath.Dir(tr.Path()) != dir {
		t.Errorf("transcript written outside dir: %s", tr.Path())
	}
}
