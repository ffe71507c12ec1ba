package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
)

// RunExport exports the trace to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

var csvHeader = []string{"timestamp", "bus_id", "slave", "category", "op", "address", "count", "outcome", "seq", "duration_us", "words", "error"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(event log.Event) []string {
	row := make([]string, len(csvHeader))
	row[0] = event.Timestamp.UTC().Format(timeLayout)
	row[1] = event.BusID
	row[2] = strconv.Itoa(int(event.SlaveID))
	row[3] = event.Category.String()
	switch {
	case event.Transaction != nil:
		tx := event.Transaction
		row[4] = tx.Op.String()
		row[5] = fmt.Sprintf("0x%04X", tx.Address)
		row[6] = strconv.Itoa(int(tx.Count))
		row[7] = tx.Outcome.String()
		row[8] = strconv.FormatUint(tx.Seq, 10)
		row[9] = strconv.FormatInt(tx.Duration.Microseconds(), 10)
		if len(tx.Words) > 0 {
			row[10] = formatWords(tx.Words)
		}
	case event.Slave != nil:
		row[4] = event.Slave.Action.String()
	}
	if event.Error != nil {
		row[11] = event.Error.Message
	}
	return row
}
