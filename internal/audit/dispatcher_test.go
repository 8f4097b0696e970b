package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type blockingSink struct {
	gate chan struct{}
}

func (s *blockingSink) Emit(context.Context, Event) {
	<-s.gate
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("disabled config must produce a nil dispatcher")
	}

	// All methods must be safe on the nil dispatcher.
	d.Emit(context.Background(), Event{EventType: "login_success"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher must report zero drops")
	}
}

func TestCloseDrainsBufferedEvents(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "login_failure"})
	}
	d.Close()

	if got := sink.count.Load(); got != 10 {
		t.Fatalf("sink received %d events after Close, want 10", got)
	}
}

func TestDropIfFullCountsDrops(t *testing.T) {
	sink := &blockingSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event parks in the sink, second fills the buffer, the rest drop.
	for i := 0; i < 6; i++ {
		d.Emit(context.Background(), Event{EventType: "login_failure"})
	}
	time.Sleep(20 * time.Millisecond)

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer and DropIfFull")
	}

	close(sink.gate)
	d.Close()
}

func TestEmitAfterCloseIsIgnored(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), Event{EventType: "logout"})
	if got := sink.count.Load(); got != 0 {
		t.Fatalf("sink received %d events after Close, want 0", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{
		EventType:   "login_success",
		PrincipalID: "p-1",
		TenantID:    "lab-west",
		ClientKey:   "203.0.113.1",
		Success:     true,
	})
	sink.Emit(context.Background(), Event{
		EventType: "login_rate_limited",
		ClientKey: "203.0.113.1",
		Error:     "rate limited",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if first.EventType != "login_success" || first.PrincipalID != "p-1" || !first.Success {
		t.Fatalf("unexpected decoded event: %+v", first)
	}
}

func TestChannelSinkDeliversEvents(t *testing.T) {
	sink := NewChannelSink(4)
	sink.Emit(context.Background(), Event{EventType: "refresh_success", TokenID: "rt-1"})

	select {
	case ev := <-sink.Events():
		if ev.EventType != "refresh_success" || ev.TokenID != "rt-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}
