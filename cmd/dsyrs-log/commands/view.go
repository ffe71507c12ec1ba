// Package commands implements the dsyrs-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	SlaveID    *uint8
	Op         *log.Op
	Category   *log.Category
	ErrorsOnly bool
}

func (f ViewFilter) filter() log.Filter {
	return log.Filter{
		SlaveID:    f.SlaveID,
		Op:         f.Op,
		Category:   f.Category,
		ErrorsOnly: f.ErrorsOnly,
	}
}

// RunView prints every matching event of the trace in readable form.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.filter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format(timeLayout)
	bus := shortenID(event.BusID)

	switch {
	case event.Transaction != nil:
		tx := event.Transaction
		fmt.Fprintf(w, "%s [bus:%s] slave %3d %-5s %s\n", ts, bus, event.SlaveID, tx.Op, tx.Outcome)
		formatTransactionDetails(w, tx)
	case event.Slave != nil:
		fmt.Fprintf(w, "%s [bus:%s] slave %3d %s\n", ts, bus, event.SlaveID, event.Slave.Action)
	default:
		fmt.Fprintf(w, "%s [bus:%s] slave %3d %s\n", ts, bus, event.SlaveID, event.Category)
	}
	if event.Error != nil {
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTransactionDetails(w io.Writer, tx *log.TransactionEvent) {
	fmt.Fprintf(w, "  Seq: %d\n", tx.Seq)
	fmt.Fprintf(w, "  Address: %s 0x%04X", register.Address(tx.Address), tx.Address)
	if name := registerName(tx.Address); name != "" {
		fmt.Fprintf(w, " (%s)", name)
	}
	fmt.Fprintf(w, "  Count: %d\n", tx.Count)
	if len(tx.Words) > 0 {
		fmt.Fprintf(w, "  Words: %s\n", formatWords(tx.Words))
	}
	if tx.QueueWait > 0 || tx.Duration > 0 {
		fmt.Fprintf(w, "  Wait: %s  Duration: %s\n", formatDuration(tx.QueueWait), formatDuration(tx.Duration))
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// registerName returns the schema name of the parameter at addr, if any.
func registerName(addr uint16) string {
	d, err := param.Default().LookupAddress(register.Address(addr))
	if err != nil {
		return ""
	}
	return d.Name
}

func formatWords(words []uint16) string {
	parts := make([]string, len(words))
	for i, v := range words {
		parts[i] = fmt.Sprintf("0x%04X", v)
	}
	return strings.Join(parts, " ")
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	default:
		return d.Round(time.Millisecond).String()
	}
}

// ParseSlaveFlag parses a slave address flag value.
func ParseSlaveFlag(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid slave %q: %w", s, err)
	}
	return uint8(n), nil
}

// ParseOpFlag parses an operation flag value.
func ParseOpFlag(s string) (log.Op, error) {
	op, ok := log.ParseOp(s)
	if !ok {
		return 0, fmt.Errorf("invalid op: %s (valid: read, write)", s)
	}
	return op, nil
}

// ParseCategoryFlag parses a category flag value.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "transaction", "tx":
		return log.CategoryTransaction, nil
	case "slave":
		return log.CategorySlave, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (valid: transaction, slave, error)", s)
	}
}
