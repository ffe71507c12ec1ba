// Command dsyrsctl inspects and configures DSY-RS servo drives over Modbus
// RTU.
//
// Usage:
//
//	dsyrsctl [flags] [command [args...]]
//
// Without a command dsyrsctl starts an interactive shell.
//
// Flags:
//
//	-config string        Configuration file path
//	-port string          Serial port, overrides the file
//	-baud int             Baud rate, overrides the file
//	-slave int            Slave address to talk to (default 1)
//	-timeout duration     Per-transaction timeout, overrides the file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write a bus trace to this file
//	-simulate             Use simulated drives instead of a serial port
//
// Examples:
//
//	# Show the state of drive 3
//	dsyrsctl -port /dev/ttyUSB0 -slave 3 status
//
//	# Apply every configured section to drive 1 and record the traffic
//	dsyrsctl -config axes.yaml -protocol-log bus.blog apply
//
//	# Explore the register map against a simulated drive
//	dsyrsctl -simulate
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/config"
	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/transport/rtu"
	"github.com/FrenchPOC/dsyrs-go/pkg/transport/sim"
)

// Flags holds the command line settings.
type Flags struct {
	ConfigFile  string
	Port        string
	Baud        int
	Slave       uint
	Timeout     time.Duration
	LogLevel    string
	ProtocolLog string
	Simulate    bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Port, "port", "", "Serial port, overrides the file")
	flag.IntVar(&flags.Baud, "baud", 0, "Baud rate, overrides the file")
	flag.UintVar(&flags.Slave, "slave", 1, "Slave address to talk to (1-247)")
	flag.DurationVar(&flags.Timeout, "timeout", 0, "Per-transaction timeout, overrides the file")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Write a bus trace to this file")
	flag.BoolVar(&flags.Simulate, "simulate", false, "Use simulated drives instead of a serial port")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		if errors.Is(err, errUnknownCommand) {
			printUsage(os.Stderr)
		}
		fatal(err)
	}
}

func run() error {
	logger := setupLogging(flags.LogLevel)

	file, err := loadConfig()
	if err != nil {
		return err
	}
	if flags.Slave == uint(bus.BroadcastID) || flags.Slave > uint(bus.MaxSlaveID) {
		return fmt.Errorf("%w: %d (want 1..%d)", bus.ErrInvalidSlaveID, flags.Slave, bus.MaxSlaveID)
	}

	transport, closeTransport, err := openTransport(file)
	if err != nil {
		return err
	}
	defer closeTransport()

	cfg := file.Bus.ManagerConfig(logger)
	if flags.Simulate {
		cfg.Port = "sim"
	}
	debug := logger.Enabled(context.Background(), slog.LevelDebug)
	if file.Bus.ProtocolLog != "" {
		fl, err := log.NewFileLogger(file.Bus.ProtocolLog)
		if err != nil {
			return fmt.Errorf("protocol log: %w", err)
		}
		defer func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("protocol log dropped events", "count", n)
			}
			_ = fl.Close()
		}()
		cfg.ProtocolLogger = fl
		if debug {
			cfg.ProtocolLogger = log.NewMultiLogger(fl, log.NewSlogAdapter(logger))
		}
	} else if debug {
		cfg.ProtocolLogger = log.NewSlogAdapter(logger)
	}

	// Deferred in reverse: sessions, then the manager, then the trace file
	// and the port.
	mgr := bus.NewManager(transport, cfg)
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, file, mgr, logger, uint8(flags.Slave))
	defer a.close()

	args := flag.Args()
	if len(args) == 0 || args[0] == "shell" {
		return runShell(ctx, a)
	}
	return a.run(ctx, args)
}

func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were given explicitly.
func loadConfig() (*config.File, error) {
	file := config.Default()
	if flags.ConfigFile != "" {
		var err error
		if file, err = config.Load(flags.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			file.Bus.Port = flags.Port
		case "baud":
			file.Bus.Baud = flags.Baud
		case "timeout":
			file.Bus.Timeout = flags.Timeout
		case "protocol-log":
			file.Bus.ProtocolLog = flags.ProtocolLog
		}
	})

	if err := file.Validate(); err != nil {
		return nil, err
	}
	if file.Bus.Port == "" && !flags.Simulate {
		return nil, fmt.Errorf("%w: no serial port (use -port or -simulate)", config.ErrInvalidConfig)
	}
	return file, nil
}

func openTransport(file *config.File) (bus.Transport, func(), error) {
	if flags.Simulate {
		line := sim.New()
		for _, s := range file.Servos {
			line.AddServo(s.Slave)
		}
		if line.Drive(uint8(flags.Slave)) == nil {
			line.AddServo(uint8(flags.Slave))
		}
		return line, func() {}, nil
	}

	b := file.Bus
	t, err := rtu.Open(rtu.Config{
		Port:     b.Port,
		Baud:     uint(b.Baud),
		DataBits: uint(b.DataBits),
		Parity:   b.ParityCode(),
		StopBits: uint(b.StopBits),
		Timeout:  b.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return t, func() { _ = t.Close() }, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		if c.shell {
			continue
		}
		fmt.Fprintf(w, "  %-12s %-36s %s\n", c.name, c.args, c.help)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
