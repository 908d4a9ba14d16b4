package agent

import (
	"context"
	"net"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Dialer retries a loopback endpoint until the worker starts listening.
type Dialer struct {
	Endpoint string
	Attempts int
	Interval time.Duration

	// Progress, when set, is called before each attempt with the
	// 1-based attempt number.
	Progress func(attempt int)
}

// Connect dials the endpoint once per interval until it answers or the
// attempt budget runs out. Exhaustion yields a TimeoutError carrying the
// endpoint and attempt count; context cancellation aborts early.
func (d *Dialer) Connect(ctx context.Context) (net.Conn, error) {
	ctx, span := startSpan(ctx, "agent.connect")
	span.SetAttributes(
		attribute.String("endpoint", d.Endpoint),
		attribute.Int("attempts.max", d.Attempts),
	)
	defer span.End()

	for attempt := 1; attempt <= d.Attempts; attempt++ {
		if d.Progress != nil {
			d.Progress(attempt)
		}
		conn, err := net.DialTimeout("tcp", d.Endpoint, d.Interval)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts.used", attempt))
			return conn, nil
		}
		if attempt == d.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return nil, ctx.Err()
		case <-time.After(d.Interval):
		}
	}

	err := &TimeoutError{Endpoint: d.Endpoint, Attempts: d.Attempts}
	span.RecordError(err)
	return nil, err
}
