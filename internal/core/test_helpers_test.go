package core

import (
	"context"
	"testing"
	"time"

	"zoocore/internal/seed"
)

const (
	lionsID     = "0938aa23-f153-4937-9f88-4858b24d6bce"
	bearsID     = "baa6e93a-f295-44e7-8f70-2bcdc6f6948d"
	giraffesID  = "b5fc4e2b-eee2-4d5a-b8a3-1e907a6e8e25"
	nigelID     = "c5b83cb3-a451-49e2-ac45-ff3f54fbe7e1"
	burlID      = "0e7b460e-acf4-4e17-bcb3-ee472265db83"
	stephanieID = "9e7d4524-363c-416a-8759-8aa7e50c0992"
	wilburnID   = "56d43ba3-a5a7-40f6-8dd7-cbb05082383f"
)

func newSeedService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	return NewInMemoryService(seed.Snapshot(), opts...)
}

type stubClock struct{ t time.Time }

func (s stubClock) Now() time.Time { return s.t }

// steppingClock advances by step on every call.
type steppingClock struct {
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) count(prefix string) int {
	n := 0
	for _, call := range c.calls {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}
