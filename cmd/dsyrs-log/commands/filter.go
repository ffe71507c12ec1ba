package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output     string
	BusID      string
	Slave      string
	Op         string
	Category   string
	ErrorsOnly bool
	TimeStart  string
	TimeEnd    string
}

func (opts FilterOptions) filter() (log.Filter, error) {
	filter := log.Filter{BusID: opts.BusID, ErrorsOnly: opts.ErrorsOnly}

	if opts.Slave != "" {
		id, err := ParseSlaveFlag(opts.Slave)
		if err != nil {
			return filter, err
		}
		filter.SlaveID = &id
	}
	if opts.Op != "" {
		op, err := ParseOpFlag(opts.Op)
		if err != nil {
			return filter, err
		}
		filter.Op = &op
	}
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	return filter, nil
}

// RunFilter writes the matching events of the trace to a new file and
// returns how many were written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := opts.filter()
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}
	if n := logger.Dropped(); n > 0 {
		return count, fmt.Errorf("%d events could not be written to %s", n, opts.Output)
	}
	return count, nil
}
