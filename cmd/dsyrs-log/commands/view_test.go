package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
)

func TestFormatTransactionEvent(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 15, 32, 123456000, time.UTC)
	event := txEvent(ts, 5, log.OpWrite, 0x0007, log.OutcomeOK, 3000)
	event.Transaction.Seq = 42

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-03-02T09:15:32.123456Z",
		"[bus:0f5c2a9e]",
		"slave   5",
		"WRITE",
		"OK",
		"Seq: 42",
		"P00.07 0x0007 (max_speed)",
		"Words: 0x0BB8",
		"Duration: 3.0ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatFailedTransaction(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	event := txEvent(ts, 1, log.OpRead, 0x1200, log.OutcomeTimeout)
	event.Error.Context = "read P18.00"

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "TIMEOUT") {
		t.Errorf("expected TIMEOUT outcome, got: %s", output)
	}
	if !strings.Contains(output, "Error: TIMEOUT") {
		t.Errorf("expected error details, got: %s", output)
	}
	if !strings.Contains(output, "Context: read P18.00") {
		t.Errorf("expected error context, got: %s", output)
	}
	if strings.Contains(output, "Words:") {
		t.Errorf("expected no words for failed read, got: %s", output)
	}
}

func TestFormatUnknownAddress(t *testing.T) {
	event := txEvent(time.Now(), 1, log.OpRead, 0x3F3F, log.OutcomeOK, 1)

	var buf bytes.Buffer
	formatEvent(&buf, event)
	if strings.Contains(buf.String(), "(") {
		t.Errorf("expected no register name for unmapped address, got: %s", buf.String())
	}
}

func TestFormatSlaveEvent(t *testing.T) {
	event := log.Event{
		Timestamp: time.Now(),
		BusID:     testBus,
		SlaveID:   7,
		Category:  log.CategorySlave,
		Slave:     &log.SlaveEvent{Action: log.SlaveRegistered},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	if !strings.Contains(buf.String(), "slave   7 REGISTERED") {
		t.Errorf("expected registration line, got: %s", buf.String())
	}
}

func TestRunViewFilters(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		txEvent(ts, 1, log.OpRead, 0x1200, log.OutcomeOK, 0),
		txEvent(ts, 2, log.OpRead, 0x1200, log.OutcomeOK, 1),
		txEvent(ts, 2, log.OpWrite, 0x0007, log.OutcomeTimeout, 3000),
	}
	path := createTestLogFile(t, events)

	slave := uint8(2)
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{SlaveID: &slave}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if n := strings.Count(buf.String(), "[bus:"); n != 2 {
		t.Errorf("expected 2 events for slave 2, got %d", n)
	}

	buf.Reset()
	if err := RunView(path, ViewFilter{ErrorsOnly: true}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if n := strings.Count(buf.String(), "[bus:"); n != 1 {
		t.Errorf("expected 1 failed event, got %d", n)
	}
}

func TestParseFlags(t *testing.T) {
	if id, err := ParseSlaveFlag("0x10"); err != nil || id != 16 {
		t.Errorf("ParseSlaveFlag(0x10) = %d, %v", id, err)
	}
	if _, err := ParseSlaveFlag("300"); err == nil {
		t.Error("expected error for slave 300")
	}
	if op, err := ParseOpFlag("W"); err != nil || op != log.OpWrite {
		t.Errorf("ParseOpFlag(W) = %v, %v", op, err)
	}
	if _, err := ParseOpFlag("erase"); err == nil {
		t.Error("expected error for unknown op")
	}
	if c, err := ParseCategoryFlag("tx"); err != nil || c != log.CategoryTransaction {
		t.Errorf("ParseCategoryFlag(tx) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("frame"); err == nil {
		t.Error("expected error for unknown category")
	}
}
