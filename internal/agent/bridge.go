package agent

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Terminator is the in-band sentinel marking the end of one streamed
// response. It travels through the bridge after the last fragment, so a
// reader that drains in order always sees a complete response before
// the end marker.
const Terminator = "[STREAM_END]"

const bridgeCapacity = 100

// Bridge is the bounded fragment channel between the network goroutine
// and the UI loop. Pushes block when the reader falls behind, which
// backpressures the connection instead of growing memory.
type Bridge struct {
	ch chan string
}

// NewBridge returns a bridge with the standard capacity.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan string, bridgeCapacity)}
}

// Push enqueues one fragment, blocking while the bridge is full.
func (b *Bridge) Push(fragment string) {
	b.ch <- fragment
}

// TryNext returns the next buffered fragment without blocking.
func (b *Bridge) TryNext() (string, bool) {
	select {
	case f := <-b.ch:
		return f, true
	default:
		return "", false
	}
}

// Stream runs one request: it submits the prompt and forwards response
// fragments into the bridge in arrival order. The Terminator is pushed
// on every path, including errors, so readers never wait forever. Meant
// to run on its own goroutine, one per request.
func (b *Bridge) Stream(ctx context.Context, client *Client, prompt string) {
	_, span := startSpan(ctx, "agent.stream")
	span.SetAttributes(attribute.Int("prompt.len", len(prompt)))
	defer span.End()
	defer b.Push(Terminator)

	if err := client.SendChat(prompt); err != nil {
		span.RecordError(err)
		b.Push("Error: " + err.Error())
		return
	}

	fragments := 0
	for {
		fragment, done, err := client.Next()
		if err != nil {
			span.RecordError(err)
			b.Push("Error: " + err.Error())
			return
		}
		if done {
			span.SetAttributes(attribute.Int("fragments", fragments))
			return
		}
		b.Push(fragment)
		fragments++
	}
}
