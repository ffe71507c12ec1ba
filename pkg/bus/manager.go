package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/FrenchPOC/dsyrs-go/pkg/log"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Default manager settings.
const (
	DefaultTimeout    = 100 * time.Millisecond
	DefaultQueueDepth = 64
)

// Config configures a Manager.
type Config struct {
	// Timeout bounds every transaction on the wire.
	Timeout time.Duration

	// QueueDepth is the number of transactions that may wait for the bus
	// before submitters block.
	QueueDepth int

	// Port names the physical port in logs.
	Port string

	// ID identifies the manager in the transaction log. A random id is
	// generated when zero.
	ID uuid.UUID

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger

	// ProtocolLogger receives one event per transaction. Nil disables it.
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    DefaultTimeout,
		QueueDepth: DefaultQueueDepth,
	}
}

// Stats are cumulative transaction counters.
type Stats struct {
	Transactions uint64
	Failures     uint64
	Timeouts     uint64
	Dropped      uint64
	Queued       int
}

type request struct {
	ctx      context.Context
	slave    uint8
	op       log.Op
	addr     register.Address
	count    uint16
	words    []uint16
	enqueued time.Time
	call     *Call
}

// Manager serializes register transactions of many slaves over one Transport.
type Manager struct {
	transport Transport
	async     AsyncTransport
	cfg       Config
	id        string
	logger    *slog.Logger
	plog      log.Logger

	queue   chan *request
	closing chan struct{}
	done    chan struct{}

	mu     sync.RWMutex
	slaves map[uint8]*Slave
	closed bool

	seq          atomic.Uint64
	transactions atomic.Uint64
	failures     atomic.Uint64
	timeouts     atomic.Uint64
	dropped      atomic.Uint64
}

// NewManager starts a manager owning t. Close stops it.
func NewManager(t Transport, cfg Config) *Manager {
	return newManager(t, nil, cfg)
}

// NewAsyncManager starts a manager over a suspend-style transport. A
// transaction that outlives the bus timeout fails with ErrTransportTimeout
// at the deadline, but the port stays occupied until its Call finishes.
func NewAsyncManager(a AsyncTransport, cfg Config) *Manager {
	return newManager(nil, a, cfg)
}

func newManager(t Transport, a AsyncTransport, cfg Config) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	plog := cfg.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	m := &Manager{
		transport: t,
		async:     a,
		cfg:       cfg,
		id:        cfg.ID.String(),
		logger:    logger.With("bus", cfg.ID.String(), "port", cfg.Port),
		plog:      plog,
		queue:     make(chan *request, cfg.QueueDepth),
		closing:   make(chan struct{}),
		done:      make(chan struct{}),
		slaves:    make(map[uint8]*Slave),
	}
	go m.run()
	return m
}

// ID returns the manager's log correlation id.
func (m *Manager) ID() string { return m.id }

// Timeout returns the per-transaction timeout.
func (m *Manager) Timeout() time.Duration { return m.cfg.Timeout }

// Register hands out the context for slave id. Id 0 is the broadcast
// context; it can only write.
func (m *Manager) Register(id uint8) (*Slave, error) {
	if id > MaxSlaveID {
		return nil, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidSlaveID, id, MaxSlaveID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrBusClosed
	}
	if _, ok := m.slaves[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateSlave, id)
	}
	s := &Slave{m: m, id: id}
	m.slaves[id] = s

	m.logger.Debug("slave registered", "slave", id)
	m.logLifecycle(id, log.SlaveRegistered)
	return s, nil
}

// Release relinquishes s. Its id can be registered again afterwards.
func (m *Manager) Release(s *Slave) error {
	if s == nil || s.m != m {
		return fmt.Errorf("%w: not owned by this bus", ErrContextReleased)
	}
	if !s.released.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: slave %d", ErrContextReleased, s.id)
	}

	m.mu.Lock()
	if m.slaves[s.id] == s {
		delete(m.slaves, s.id)
	}
	m.mu.Unlock()

	m.logger.Debug("slave released", "slave", s.id)
	m.logLifecycle(s.id, log.SlaveReleased)
	return nil
}

// Slaves returns the ids of the registered contexts.
func (m *Manager) Slaves() []uint8 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]uint8, 0, len(m.slaves))
	for id := range m.slaves {
		out = append(out, id)
	}
	return out
}

// Stats returns a snapshot of the transaction counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Transactions: m.transactions.Load(),
		Failures:     m.failures.Load(),
		Timeouts:     m.timeouts.Load(),
		Dropped:      m.dropped.Load(),
		Queued:       len(m.queue),
	}
}

// Closed reports whether Close has been called.
func (m *Manager) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Close stops the worker after the transaction in flight, if any, and
// fails everything still queued with ErrBusClosed. It does not close the
// Transport. Close is idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.done
		return nil
	}
	m.closed = true
	close(m.closing)
	m.mu.Unlock()

	<-m.done
	return nil
}

// submit enqueues a request. The read lock keeps Close from racing a send.
func (m *Manager) submit(req *request) *Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return CompletedCall(nil, ErrBusClosed)
	}
	req.enqueued = time.Now()
	select {
	case m.queue <- req:
		return req.call
	case <-req.ctx.Done():
		return CompletedCall(nil, req.ctx.Err())
	}
}

func (m *Manager) run() {
	defer close(m.done)
	for {
		select {
		case <-m.closing:
			m.drain()
			return
		case req := <-m.queue:
			select {
			case <-m.closing:
				req.call.complete(nil, ErrBusClosed)
				m.drain()
				return
			default:
			}
			m.execute(req)
		}
	}
}

func (m *Manager) drain() {
	for {
		select {
		case req := <-m.queue:
			req.call.complete(nil, ErrBusClosed)
		default:
			return
		}
	}
}

func (m *Manager) execute(req *request) {
	seq := m.seq.Add(1)
	start := time.Now()
	wait := start.Sub(req.enqueued)

	if err := req.ctx.Err(); err != nil {
		m.dropped.Add(1)
		m.logTransaction(req, seq, nil, log.OutcomeDropped, err, wait, 0)
		req.call.complete(nil, err)
		return
	}

	// The caller's cancellation must not cut a frame short; only the bus
	// timeout bounds the transaction.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(req.ctx), m.cfg.Timeout)
	words, pending, err := m.perform(ctx, req)
	if err == nil && req.op == log.OpRead && len(words) != int(req.count) {
		err = fmt.Errorf("%w: got %d words, want %d", ErrTransport, len(words), req.count)
	}
	cancel()
	elapsed := time.Since(start)

	m.transactions.Add(1)
	outcome := log.OutcomeOK
	if err != nil {
		m.failures.Add(1)
		outcome = log.OutcomeError
		err = classify(err)
		if errors.Is(err, ErrTransportTimeout) {
			m.timeouts.Add(1)
			outcome = log.OutcomeTimeout
		}
		err = &TransactionError{Op: req.op, Slave: req.slave, Address: req.addr, Count: req.count, Err: err}
		words = nil
		m.logger.Debug("transaction failed", "slave", req.slave, "op", req.op.String(),
			"addr", req.addr.String(), "error", err)
	}

	// Logged before completion so a caller observing the result also
	// observes its event.
	logged := words
	if req.op == log.OpWrite {
		logged = req.words
	}
	m.logTransaction(req, seq, logged, outcome, err, wait, elapsed)
	req.call.complete(words, err)

	if pending != nil {
		<-pending.Done()
		m.logger.Debug("abandoned transaction finished", "slave", req.slave, "op", req.op.String(),
			"addr", req.addr.String(), "after", time.Since(start))
	}
}

// perform runs one transaction on the port. For a suspend-style transport
// whose operation is still running at the deadline it returns the pending
// Call, which the caller must wait for before using the port again.
func (m *Manager) perform(ctx context.Context, req *request) ([]uint16, *Call, error) {
	if m.async == nil {
		if req.op == log.OpRead {
			words, err := m.transport.ReadRegisters(ctx, req.slave, req.addr, req.count)
			return words, nil, err
		}
		return nil, nil, m.transport.WriteRegisters(ctx, req.slave, req.addr, req.words)
	}

	var call *Call
	if req.op == log.OpRead {
		call = m.async.StartRead(ctx, req.slave, req.addr, req.count)
	} else {
		call = m.async.StartWrite(ctx, req.slave, req.addr, req.words)
	}
	select {
	case <-call.Done():
		words, err := call.Result()
		return words, nil, err
	case <-ctx.Done():
		return nil, call, fmt.Errorf("%w: no reply within %s", ErrTransportTimeout, m.cfg.Timeout)
	}
}

// classify maps transport errors onto the two transport sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrTransportTimeout), errors.Is(err, ErrTransport):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTransportTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}

func (m *Manager) logTransaction(req *request, seq uint64, words []uint16, outcome log.Outcome, err error, wait, elapsed time.Duration) {
	ev := log.Event{
		Timestamp: time.Now(),
		BusID:     m.id,
		Port:      m.cfg.Port,
		SlaveID:   req.slave,
		Category:  log.CategoryTransaction,
		Transaction: &log.TransactionEvent{
			Op:        req.op,
			Address:   uint16(req.addr),
			Count:     req.count,
			Words:     words,
			Outcome:   outcome,
			Seq:       seq,
			QueueWait: wait,
			Duration:  elapsed,
		},
	}
	if err != nil {
		ev.Error = &log.ErrorEventData{Message: err.Error(), Context: req.op.String() + " " + req.addr.String()}
	}
	m.plog.Log(ev)
}

func (m *Manager) logLifecycle(id uint8, action log.SlaveAction) {
	m.plog.Log(log.Event{
		Timestamp: time.Now(),
		BusID:     m.id,
		Port:      m.cfg.Port,
		SlaveID:   id,
		Category:  log.CategorySlave,
		Slave:     &log.SlaveEvent{Action: action},
	})
}
