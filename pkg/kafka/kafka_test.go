package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	applogger "SentiCast/pkg/logger"
)

type flakyHandler struct {
	failures int
	calls    int
}

func (h *flakyHandler) Topic() string { return "t" }

func (h *flakyHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("transient")
	}
	return nil
}

func TestHandleWithRetrySucceeds(t *testing.T) {
	h := &flakyHandler{failures: 2}
	attempts, err := handleWithRetry(make(chan struct{}), h, nil, 3, time.Millisecond, 2*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts: got %d want 3", attempts)
	}
}

func TestHandleWithRetryExhausts(t *testing.T) {
	h := &flakyHandler{failures: 10}
	attempts, err := handleWithRetry(make(chan struct{}), h, nil, 2, time.Millisecond, 2*time.Millisecond)
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 3 || h.calls != 3 {
		t.Fatalf("attempts=%d calls=%d, want 3/3", attempts, h.calls)
	}
}

func TestHandleWithRetryStops(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	h := &flakyHandler{failures: 10}
	attempts, err := handleWithRetry(stop, h, nil, 5, time.Second, time.Second)
	if err == nil || attempts != 1 {
		t.Fatalf("got attempts=%d err=%v, want 1 and an error", attempts, err)
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	min, max := 10*time.Millisecond, 80*time.Millisecond
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoffWithJitter(min, max, attempt)
		if d <= 0 || d > max {
			t.Fatalf("attempt %d: backoff %v out of (0, %v]", attempt, d, max)
		}
	}
}

func TestPartitionLockIsStable(t *testing.T) {
	c, err := NewConsumer(applogger.Nop(), WithConsumerBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	if c.partitionLock("a", 0) != c.partitionLock("a", 0) {
		t.Fatalf("expected same lock for same partition")
	}
	if c.partitionLock("a", 0) == c.partitionLock("a", 1) {
		t.Fatalf("expected distinct locks per partition")
	}
}

func TestConstructorsRequireBrokers(t *testing.T) {
	if _, err := NewConsumer(applogger.Nop()); err == nil {
		t.Fatalf("consumer without brokers should fail")
	}
	if _, err := NewProducer(); err == nil {
		t.Fatalf("producer without brokers should fail")
	}
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue(map[string]bool{"force": true})
	if err != nil || string(b) != `{"force":true}` {
		t.Fatalf("json: got %s, %v", b, err)
	}
	b, _ = encodeValue("raw")
	if string(b) != "raw" {
		t.Fatalf("string: got %s", b)
	}
	if _, err := encodeValue(func() {}); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestParseCompression(t *testing.T) {
	if parseCompression("zstd") != kafka.Zstd || parseCompression("unknown") != kafka.Gzip {
		t.Fatalf("unexpected compression mapping")
	}
}
