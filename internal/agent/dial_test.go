package agent

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestDialer_ConnectsToListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	var attempts int
	d := &Dialer{
		Endpoint: ln.Addr().String(),
		Attempts: 5,
		Interval: 10 * time.Millisecond,
		Progress: func(int) { attempts++ },
	}
	conn, err := d.Connect(context.Background())
	if err != nil {
		t.Fatalf("connect error: %v", err)
	}
	conn.Close()
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDialer_ExhaustsAttempts(t *testing.T) {
	// Grab a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	endpoint := ln.Addr().String()
	ln.Close()

	var attempts int
	d := &Dialer{
		Endpoint: endpoint,
		Attempts: 3,
		Interval: 10 * time.Millisecond,
		Progress: func(int) { attempts++ },
	}
	_, err = d.Connect(context.Background())

	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Endpoint != endpoint {
		t.Errorf("error should carry the endpoint, got %s", te.Endpoint)
	}
	if te.Attempts != 3 {
		t.Errorf("error should carry the attempt count, got %d", te.Attempts)
	}
	if attempts != 3 {
		t.Errorf("expected 3 progress calls, got %d", attempts)
	}
}

func TestDialer_NoSleepAfterFinalAttempt(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	endpoint := ln.Addr().String()
	ln.Close()

	// Two attempts against a closed loopback port fail near-instantly,
	// so the total time should be close to the single sleep between them.
	d := &Dialer{Endpoint: endpoint, Attempts: 2, Interval: 100 * time.Millisecond}
	start := time.Now()
	if _, err := d.Connect(context.Background()); err == nil {
		t.Fatal("expected exhaustion error")
	}
	if elapsed := time.Since(start); elapsed >= 2*d.Interval {
		t.Errorf("dialer slept after the final attempt: took %v", elapsed)
	}
}

func TestDialer_ContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	endpoint := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &Dialer{Endpoint: endpoint, Attempts: 100, Interval: 10 * time.Millisecond}
	if _, err := d.Connect(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
