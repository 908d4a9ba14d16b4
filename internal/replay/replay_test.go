package replay

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/suitools/suicli/internal/chat"
)

func writeTranscript(t *testing.T, msgs []chat.Message) string {
	t.Helper()
	dir := t.TempDir()
	tr, err := chat.NewTranscript(dir)
	if err != nil {
		t.Fatalf("new transcript: %v", err)
	}
	for _, m := range msgs {
		if err := tr.Append(m); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return tr.Path()
}

func TestRender_IncludesMessages(t *testing.T) {
	path := writeTranscript(t, []chat.Message{
		chat.NewMessage(chat.RoleUser, "what is my balance"),
		chat.NewMessage(chat.RoleAgent, "checking your balance now"),
	})

	out, err := Render(path)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "what is my balance") {
		t.Error("user message missing from output")
	}
	if !strings.Contains(out, "checking your balance now") {
		t.Error("agent message missing from output")
	}
	if !strings.Contains(out, "2 messages") {
		t.Error("summary count missing from output")
	}
}

func TestRender_MissingFile(t *testing.T) {
	if _, err := Render(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for a missing transcript")
	}
}

func TestRender_EmptyTranscript(t *testing.T) {
	path := writeTranscript(t, nil)
	out, err := Render(path)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "0 messages") {
		t.Error("empty transcript should render a zero count")
	}
}
