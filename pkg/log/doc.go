// Package log records register transactions on a shared serial bus.
//
// It is separate from operational logging (slog): the bus manager emits
// one Event per transaction it executes, and the Logger decides where the
// event goes. Operational messages stay in slog; this package produces a
// complete machine-readable trace that can be replayed or filtered later.
//
// # Basic Usage
//
//	// Console output while developing
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary capture for later analysis with dsyrs-log
//	fl, _ := log.NewFileLogger("/var/log/dsyrs/bus0.blog")
//	cfg.ProtocolLogger = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # File Format
//
// Log files are a plain concatenation of CBOR-encoded events with integer
// map keys (.blog extension). Use Reader to stream them back.
package log
