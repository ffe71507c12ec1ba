// Package bus multiplexes logical slave contexts over one physical
// register transport.
//
// A Modbus RTU line is half-duplex and multi-drop: a request frame and
// its reply must complete before the next frame starts. The Manager owns
// the Transport and runs a single worker goroutine that executes
// transactions one at a time, in arrival order, for every Slave it has
// handed out. A timeout or transport failure is reported to the caller
// that issued the transaction only; the worker moves on to the next one.
//
// Both scheduling models are supported. Slave.Read and Slave.Write block
// until the transaction finishes or the caller's context is done;
// Slave.ReadAsync and Slave.WriteAsync return a *Call that can be awaited
// later. A caller abandoning a call never interrupts a frame already on
// the wire, and an abandoned request still waiting in the queue is
// dropped without being sent.
//
//	m := bus.NewManager(transport, bus.DefaultConfig())
//	defer m.Close()
//
//	drive, err := m.Register(1)
//	words, err := drive.Read(ctx, 0x1200, 10)
package bus
