package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
)

// Stats holds aggregate statistics about a trace.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByOutcome  map[log.Outcome]int
	Buses            map[string]int
	Slaves           map[uint8]*SlaveStats
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SlaveStats holds transaction statistics for one slave.
type SlaveStats struct {
	Reads    int
	Writes   int
	Timeouts int
	Failures int
	Dropped  int

	// TotalTime and MaxTime cover wire time of completed transactions.
	TotalTime time.Duration
	MaxTime   time.Duration
	timed     int
}

// MeanTime is the average wire time per timed transaction.
func (s *SlaveStats) MeanTime() time.Duration {
	if s.timed == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.timed)
}

// RunStats analyzes the trace and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats, err := collectStats(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(reader *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByOutcome:  make(map[log.Outcome]int),
		Buses:            make(map[string]int),
		Slaves:           make(map[uint8]*SlaveStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.Buses[event.BusID]++
		if event.Error != nil {
			stats.Errors++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		tx := event.Transaction
		if tx == nil {
			continue
		}
		stats.EventsByOutcome[tx.Outcome]++

		s, ok := stats.Slaves[event.SlaveID]
		if !ok {
			s = &SlaveStats{}
			stats.Slaves[event.SlaveID] = s
		}
		switch tx.Op {
		case log.OpRead:
			s.Reads++
		case log.OpWrite:
			s.Writes++
		}
		switch tx.Outcome {
		case log.OutcomeTimeout:
			s.Timeouts++
		case log.OutcomeError:
			s.Failures++
		case log.OutcomeDropped:
			s.Dropped++
		}
		if tx.Duration > 0 {
			s.timed++
			s.TotalTime += tx.Duration
			if tx.Duration > s.MaxTime {
				s.MaxTime = tx.Duration
			}
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== DSY-RS Bus Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Buses:        %d\n", len(stats.Buses))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTransaction, log.CategorySlave, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Transactions by Outcome:")
	for _, o := range []log.Outcome{log.OutcomeOK, log.OutcomeTimeout, log.OutcomeError, log.OutcomeDropped} {
		if count := stats.EventsByOutcome[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Slaves: %d\n", len(stats.Slaves))
	ids := make([]uint8, 0, len(stats.Slaves))
	for id := range stats.Slaves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := stats.Slaves[id]
		fmt.Fprintf(w, "  [%3d] %d reads, %d writes", id, s.Reads, s.Writes)
		if s.Timeouts > 0 {
			fmt.Fprintf(w, ", %d timeouts", s.Timeouts)
		}
		if s.Failures > 0 {
			fmt.Fprintf(w, ", %d errors", s.Failures)
		}
		if s.Dropped > 0 {
			fmt.Fprintf(w, ", %d dropped", s.Dropped)
		}
		fmt.Fprintln(w)
		if s.timed > 0 {
			fmt.Fprintf(w, "        mean %s, max %s\n", formatDuration(s.MeanTime()), formatDuration(s.MaxTime))
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
