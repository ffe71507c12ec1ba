package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
)

const testBus = "0f5c2a9e-1d7b-4c3a-9e8f-123456789abc"

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func txEvent(ts time.Time, slave uint8, op log.Op, addr uint16, outcome log.Outcome, words ...uint16) log.Event {
	e := log.Event{
		Timestamp: ts,
		BusID:     testBus,
		SlaveID:   slave,
		Category:  log.CategoryTransaction,
		Transaction: &log.TransactionEvent{
			Op:       op,
			Address:  addr,
			Count:    uint16(len(words)),
			Words:    words,
			Outcome:  outcome,
			Duration: 3 * time.Millisecond,
		},
	}
	if outcome != log.OutcomeOK {
		e.Error = &log.ErrorEventData{Message: outcome.String()}
	}
	return e
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		txEvent(ts, 1, log.OpWrite, 0x0007, log.OutcomeOK, 3000),
		txEvent(ts.Add(time.Millisecond), 1, log.OpRead, 0x1200, log.OutcomeTimeout),
	}
	path := createTestLogFile(t, events)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev log.Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if ev.BusID != testBus {
			t.Errorf("expected bus id %s, got %s", testBus, ev.BusID)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		txEvent(ts, 2, log.OpWrite, 0x0D00, log.OutcomeOK, 0x2710, 0x0000),
		{Timestamp: ts, BusID: testBus, SlaveID: 2, Category: log.CategorySlave, Slave: &log.SlaveEvent{Action: log.SlaveReleased}},
	}
	path := createTestLogFile(t, events)
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", rows[0])
	}
	tx := rows[1]
	if tx[4] != "WRITE" || tx[5] != "0x0D00" || tx[6] != "2" || tx[7] != "OK" {
		t.Errorf("unexpected transaction row: %v", tx)
	}
	if tx[10] != "0x2710 0x0000" {
		t.Errorf("expected words column, got %q", tx[10])
	}
	if rows[2][4] != "RELEASED" {
		t.Errorf("expected RELEASED action, got %q", rows[2][4])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)
	if err := RunExport(path, "xml", ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
