package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func txEvent(slave uint8, op Op, addr uint16, outcome Outcome) Event {
	ev := Event{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		BusID:     "bus-1",
		SlaveID:   slave,
		Category:  CategoryTransaction,
		Transaction: &TransactionEvent{
			Op:       op,
			Address:  addr,
			Count:    1,
			Words:    []uint16{42},
			Outcome:  outcome,
			Duration: 3 * time.Millisecond,
		},
	}
	if outcome != OutcomeOK {
		ev.Error = &ErrorEventData{Message: "transport timeout"}
	}
	return ev
}

func TestEncodeDecodeEvent(t *testing.T) {
	in := txEvent(3, OpWrite, 0x0D08, OutcomeOK)
	in.Transaction.Words = []uint16{10000, 0}
	in.Transaction.Count = 2
	in.Transaction.QueueWait = 1500 * time.Microsecond

	data, err := EncodeEvent(in)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	out, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", out.Timestamp, in.Timestamp)
	}
	if out.SlaveID != 3 || out.BusID != "bus-1" {
		t.Errorf("ids: got slave %d bus %q", out.SlaveID, out.BusID)
	}
	if out.Transaction == nil {
		t.Fatal("Transaction is nil")
	}
	if out.Transaction.Address != 0x0D08 || out.Transaction.Op != OpWrite {
		t.Errorf("transaction: got %+v", out.Transaction)
	}
	if len(out.Transaction.Words) != 2 || out.Transaction.Words[0] != 10000 {
		t.Errorf("Words: got %v", out.Transaction.Words)
	}
	if out.Transaction.QueueWait != in.Transaction.QueueWait {
		t.Errorf("QueueWait: got %v, want %v", out.Transaction.QueueWait, in.Transaction.QueueWait)
	}
	if out.Slave != nil || out.Error != nil {
		t.Error("unexpected payloads set")
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{OpRead.String(), "READ"},
		{OpWrite.String(), "WRITE"},
		{Op(9).String(), "UNKNOWN"},
		{CategoryTransaction.String(), "TRANSACTION"},
		{CategorySlave.String(), "SLAVE"},
		{CategoryError.String(), "ERROR"},
		{OutcomeTimeout.String(), "TIMEOUT"},
		{OutcomeDropped.String(), "DROPPED"},
		{SlaveReleased.String(), "RELEASED"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if op, ok := ParseOp("Write"); !ok || op != OpWrite {
		t.Errorf("ParseOp(Write) = %v, %v", op, ok)
	}
	if _, ok := ParseOp("erase"); ok {
		t.Error("ParseOp(erase) should fail")
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bus"+FileExt)

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Log(txEvent(1, OpRead, 0x1200, OutcomeOK))
	logger.Log(txEvent(2, OpWrite, 0x0000, OutcomeTimeout))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Ignored after close.
	logger.Log(txEvent(3, OpRead, 0x1200, OutcomeOK))
	if err := logger.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// Appends on reopen.
	logger, err = NewFileLogger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	logger.Log(txEvent(4, OpRead, 0x0C0E, OutcomeOK))
	logger.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	events, err := r.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []uint8{1, 2, 4} {
		if events[i].SlaveID != want {
			t.Errorf("event %d: slave %d, want %d", i, events[i].SlaveID, want)
		}
	}
	if logger.Dropped() != 0 {
		t.Errorf("Dropped: %d", logger.Dropped())
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bus.blog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(slave uint8) {
			defer wg.Done()
			for range 25 {
				logger.Log(txEvent(slave, OpRead, 0x1200, OutcomeOK))
			}
		}(uint8(i + 1))
	}
	wg.Wait()
	logger.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()
	events, err := r.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(events) != 200 {
		t.Errorf("got %d events, want 200", len(events))
	}
}

func TestNewFileLoggerError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLogger(filepath.Join(blocker, "bus.blog")); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestFilter(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	events := []Event{
		txEvent(1, OpRead, 0x1200, OutcomeOK),
		txEvent(1, OpWrite, 0x0000, OutcomeTimeout),
		txEvent(2, OpRead, 0x1200, OutcomeOK),
		{Timestamp: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), BusID: "bus-1", SlaveID: 2,
			Category: CategorySlave, Slave: &SlaveEvent{Action: SlaveReleased}},
		txEvent(3, OpRead, 0x1200, OutcomeOK),
	}
	events[4].BusID = "bus-2"
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			t.Fatal(err)
		}
	}
	data := buf.Bytes()

	one := uint8(1)
	two := uint8(2)
	write := OpWrite
	slaveCat := CategorySlave
	after := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 5},
		{"slave 1", Filter{SlaveID: &one}, 2},
		{"slave 2", Filter{SlaveID: &two}, 2},
		{"writes", Filter{Op: &write}, 1},
		{"errors", Filter{ErrorsOnly: true}, 1},
		{"category", Filter{Category: &slaveCat}, 1},
		{"bus", Filter{BusID: "bus-2"}, 1},
		{"after", Filter{TimeStart: &after}, 1},
		{"before", Filter{TimeEnd: &after}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStreamReader(bytes.NewReader(data), tt.filter)
			got, err := r.All()
			if err != nil {
				t.Fatalf("All: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
			if err := r.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestReaderEOF(t *testing.T) {
	r := NewStreamReader(bytes.NewReader(nil), Filter{})
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestReaderCorrupt(t *testing.T) {
	r := NewStreamReader(bytes.NewReader([]byte{0xff, 0x00, 0x13}), Filter{})
	if _, err := r.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected decode error, got %v", err)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Log(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func TestMultiLogger(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := NewMultiLogger(a, nil, b, NoopLogger{})
	if m.Len() != 3 {
		t.Errorf("Len: got %d, want 3", m.Len())
	}
	m.Log(txEvent(1, OpRead, 0, OutcomeOK))
	m.Log(txEvent(2, OpRead, 0, OutcomeOK))
	if len(a.events) != 2 || len(b.events) != 2 {
		t.Errorf("got %d and %d events, want 2 each", len(a.events), len(b.events))
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewSlogAdapter(logger)

	a.Log(txEvent(5, OpWrite, 0x0A02, OutcomeTimeout))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse: %v", err)
	}
	checks := map[string]any{
		"level":   "WARN",
		"msg":     "bus",
		"slave":   float64(5),
		"op":      "WRITE",
		"addr":    "0x0A02",
		"outcome": "TIMEOUT",
		"error":   "transport timeout",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: got %v, want %v", k, entry[k], want)
		}
	}

	buf.Reset()
	a.Log(Event{BusID: "bus-1", SlaveID: 7, Category: CategorySlave, Slave: &SlaveEvent{Action: SlaveRegistered}})
	entry = nil
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entry["level"] != "DEBUG" || entry["action"] != "REGISTERED" {
		t.Errorf("slave event: got %v", entry)
	}
}
