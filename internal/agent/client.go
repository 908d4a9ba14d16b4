package agent

import (
	"encoding/json"
	"fmt"
	"net"
)

// The worker speaks newline-delimited JSON over the loopback connection.
// One request message per user prompt; the worker answers with any
// number of fragment messages followed by a done marker.
const (
	msgChat     = "chat"
	msgFragment = "fragment"
	msgDone     = "done"
	msgError    = "error"
)

type wireMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Client is the session connection to the worker.
type Client struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

// NewClient wraps an established worker connection.
func NewClient(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}
}

// SendChat submits one user prompt.
func (c *Client) SendChat(text string) error {
	if err := c.enc.Encode(wireMessage{Type: msgChat, Text: text}); err != nil {
		return fmt.Errorf("agent: send: %w", err)
	}
	return nil
}

// Next reads the next response fragment. done is true once the worker
// has finished the current response. A worker-reported error or an
// unknown message type is a protocol violation.
func (c *Client) Next() (fragment string, done bool, err error) {
	var msg wireMessage
	if err := c.dec.Decode(&msg); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStreamProtocol, err)
	}
	switch msg.Type {
	case msgFragment:
		return msg.Text, false, nil
	case msgDone:
		return "", true, nil
	case msgError:
		return "", false, fmt.Errorf("%w: worker error: %s", ErrStreamProtocol, msg.Text)
	default:
		return "", false, fmt.Errorf("%w: unexpected message type %q", ErrStreamProtocol, msg.Type)
	}
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}
