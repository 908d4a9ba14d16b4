// Package chat implements the interactive session loop and transcript.
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a message.
const (
	RoleUser  = "you"
	RoleAgent = "agent"
)

// Message is one finalized chat entry.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message with a fresh id.
func NewMessage(role, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// Transcript appends finalized messages to a JSONL file, one object per
// line, so a crashed session keeps everything written so far.
type Transcript struct {
	file *os.File
	path string
}

// NewTranscript creates a timestamped transcript file in dir.
func NewTranscript(dir string) (*Transcript, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("chat: transcript dir: %w", err)
	}
	name := fmt.Sprintf("session-%s.jsonl", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("chat: open transcript: %w", err)
	}
	return &Transcript{file: f, path: path}, nil
}

// Path returns the transcript file location.
func (t *Transcript) Path() string { return t.path }

// Append writes one message line.
func (t *Transcript) Append(msg Message) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := t.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("chat: append transcript: %w", err)
	}
	return nil
}

// Close flushes and closes the transcript file.
func (t *Transcript) Close() error {
	return t.file.Close()
}

// ReadTranscript loads all messages from a transcript file.
func ReadTranscript(path string) ([]Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chat: read transcript: %w", err)
	}
	var msgs []Message
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var m Message
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("chat: parse transcript %s: %w", path, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
