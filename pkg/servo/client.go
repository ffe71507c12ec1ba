package servo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
	"github.com/FrenchPOC/dsyrs-go/pkg/retry"
)

// Registers is the register access of one slave address.
// *bus.Slave implements it.
type Registers interface {
	ID() uint8
	Read(ctx context.Context, addr register.Address, count uint16) ([]uint16, error)
	Write(ctx context.Context, addr register.Address, words []uint16) error
}

var _ Registers = (*bus.Slave)(nil)

// Defaults.
const (
	DefaultMaxSpeed            = 4500
	DefaultReadAttempts        = 3
	DefaultRetryDelay          = 20 * time.Millisecond
	DefaultWriteVerifyAttempts = 1
)

// Config configures a Client.
type Config struct {
	// Written by Init.
	ControlMode ControlMode
	Direction   Direction
	MaxSpeed    int

	// Expected motor parameters. Init compares them with what the drive
	// reports and logs a warning on mismatch. Nil skips the check.
	MotorModelCode    *uint16
	RatedCurrent      *float64
	EncoderType       *EncoderType
	EncoderResolution *uint32

	// ReadAttempts is the number of tries for every read.
	ReadAttempts int

	// RetryDelay is the pause between read attempts.
	RetryDelay time.Duration

	// WriteVerifyAttempts is how many times a write that timed out may be
	// resent after the read-back showed it did not take effect.
	WriteVerifyAttempts int

	// Schema defaults to param.Default().
	Schema *param.Schema

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns a position-mode configuration with the default
// retry policy.
func DefaultConfig() Config {
	return Config{
		ControlMode:         PositionMode,
		Direction:           CCWForward,
		MaxSpeed:            DefaultMaxSpeed,
		ReadAttempts:        DefaultReadAttempts,
		RetryDelay:          DefaultRetryDelay,
		WriteVerifyAttempts: DefaultWriteVerifyAttempts,
	}
}

// Identity is what the drive reports about itself.
type Identity struct {
	ProductCode     uint16
	SoftwareVersion uint16
	FPGAVersion     uint16
}

func (id Identity) String() string {
	return fmt.Sprintf("product 0x%04X software %d.%02d fpga 0x%04X",
		id.ProductCode, id.SoftwareVersion>>8, id.SoftwareVersion&0xFF, id.FPGAVersion)
}

// MotorInfo are the motor parameters of group P01.
type MotorInfo struct {
	Model             uint16
	RatedCurrent      float64
	EncoderType       EncoderType
	EncoderResolution uint32
}

// Client drives one servo. A Client must not be used from several
// goroutines at once.
type Client struct {
	regs   Registers
	cfg    Config
	schema *param.Schema
	policy retry.Policy
	logger *slog.Logger

	mu       sync.Mutex
	identity Identity
	motor    MotorInfo
	ready    bool
}

// New creates a client over regs. It performs no I/O; call Init.
func New(regs Registers, cfg Config) *Client {
	if cfg.Schema == nil {
		cfg.Schema = param.Default()
	}
	if cfg.ReadAttempts < 1 {
		cfg.ReadAttempts = 1
	}
	if cfg.WriteVerifyAttempts < 0 {
		cfg.WriteVerifyAttempts = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		regs:   regs,
		cfg:    cfg,
		schema: cfg.Schema,
		policy: retry.Policy{Attempts: cfg.ReadAttempts, Delay: cfg.RetryDelay},
		logger: logger.With("slave", regs.ID()),
	}
}

// SlaveID returns the slave address of the drive.
func (c *Client) SlaveID() uint8 { return c.regs.ID() }

// Config returns the client configuration.
func (c *Client) Config() Config { return c.cfg }

// Schema returns the parameter schema in use.
func (c *Client) Schema() *param.Schema { return c.schema }

// Init identifies the drive, applies control mode, direction and maximum
// speed, and checks the motor parameters against the expectations in the
// configuration.
func (c *Client) Init(ctx context.Context) error {
	id, err := c.readIdentity(ctx)
	if err != nil {
		return fmt.Errorf("%w: slave %d: %w", ErrDeviceUnreachable, c.regs.ID(), err)
	}

	p := c.plan()
	p.code(param.ControlMode, uint16(c.cfg.ControlMode))
	p.code(param.Direction, uint16(c.cfg.Direction))
	p.raw(param.MaxSpeed, int64(c.cfg.MaxSpeed))
	if err := c.apply(ctx, "init", p); err != nil {
		return err
	}

	motor, err := c.MotorInfo(ctx)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	c.checkMotor(motor)

	c.mu.Lock()
	c.identity, c.motor, c.ready = id, motor, true
	c.mu.Unlock()

	c.logger.Info("servo initialized", "identity", id.String(),
		"mode", c.cfg.ControlMode.String(), "max_speed", c.cfg.MaxSpeed)
	return nil
}

// Identity returns what Init read from the drive. The flag is false before
// a successful Init.
func (c *Client) Identity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, c.ready
}

// Motor returns the motor parameters read by Init.
func (c *Client) Motor() (MotorInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.motor, c.ready
}

func (c *Client) readIdentity(ctx context.Context) (Identity, error) {
	first := c.schema.MustLookup(param.SoftwareVersion)
	last := c.schema.MustLookup(param.ProductCode)
	n := uint16(last.Address()-first.Address()) + 1
	words, err := c.read(ctx, first.Address(), n)
	if err != nil {
		return Identity{}, err
	}
	fpga := c.schema.MustLookup(param.FPGAVersion)
	return Identity{
		SoftwareVersion: words[0],
		FPGAVersion:     words[fpga.Address()-first.Address()],
		ProductCode:     words[n-1],
	}, nil
}

// MotorInfo reads the motor model, rated current, encoder type and encoder
// resolution.
func (c *Client) MotorInfo(ctx context.Context) (MotorInfo, error) {
	var info MotorInfo
	model, err := c.readValue(ctx, param.MotorModel)
	if err != nil {
		return info, err
	}
	current, err := c.readValue(ctx, param.RatedCurrent)
	if err != nil {
		return info, err
	}
	encoder, err := c.readValue(ctx, param.EncoderType)
	if err != nil {
		return info, err
	}
	resolution, err := c.readValue(ctx, param.EncoderResolution)
	if err != nil {
		return info, err
	}
	info.Model = model.Code()
	info.RatedCurrent = current.Float64()
	info.EncoderType = EncoderType(encoder.Code())
	info.EncoderResolution = uint32(resolution.Int())
	return info, nil
}

func (c *Client) checkMotor(got MotorInfo) {
	if want := c.cfg.MotorModelCode; want != nil && *want != got.Model {
		c.logger.Warn("motor model mismatch", "expected", *want, "read", got.Model)
	}
	if want := c.cfg.RatedCurrent; want != nil && math.Abs(*want-got.RatedCurrent) > 0.01 {
		c.logger.Warn("rated current mismatch", "expected", *want, "read", got.RatedCurrent)
	}
	if want := c.cfg.EncoderType; want != nil && *want != got.EncoderType {
		c.logger.Warn("encoder type mismatch", "expected", want.String(), "read", got.EncoderType.String())
	}
	if want := c.cfg.EncoderResolution; want != nil && *want != got.EncoderResolution {
		c.logger.Warn("encoder resolution mismatch", "expected", *want, "read", got.EncoderResolution)
	}
}

// ReadParam reads and decodes a parameter by name or PXX.YY code.
func (c *Client) ReadParam(ctx context.Context, name string) (param.Value, error) {
	return c.readValue(ctx, name)
}

// WriteParam writes a logical value to a parameter by name or PXX.YY code.
// Enum parameters take their code.
func (c *Client) WriteParam(ctx context.Context, name string, v float64) error {
	p := c.plan()
	p.num(name, v)
	return c.apply(ctx, "", p)
}

// WriteSymbol writes an enum parameter by symbol.
func (c *Client) WriteSymbol(ctx context.Context, name, symbol string) error {
	p := c.plan()
	p.symbol(name, symbol)
	return c.apply(ctx, "", p)
}

// WriteString writes a parameter from its textual form: a symbol or code
// for enums, any integer notation for bitfields, a decimal otherwise.
func (c *Client) WriteString(ctx context.Context, name, s string) error {
	p := c.plan()
	p.text(name, s)
	return c.apply(ctx, "", p)
}

func (c *Client) readValue(ctx context.Context, name string) (param.Value, error) {
	d, err := c.schema.LookupByName(name)
	if err != nil {
		return param.Value{}, err
	}
	return c.readDescriptor(ctx, d)
}

func (c *Client) readDescriptor(ctx context.Context, d param.Descriptor) (param.Value, error) {
	if err := d.Readable(); err != nil {
		return param.Value{}, err
	}
	words, err := c.read(ctx, d.Address(), uint16(d.Words()))
	if err != nil {
		return param.Value{}, fmt.Errorf("read %s: %w", d, err)
	}
	return param.Decode(d, words)
}

// read reads a register block, retrying transport failures.
func (c *Client) read(ctx context.Context, addr register.Address, count uint16) ([]uint16, error) {
	return retry.Value(ctx, c.policy, func(ctx context.Context) ([]uint16, error) {
		return c.regs.Read(ctx, addr, count)
	}, transient)
}

func transient(err error) bool {
	return errors.Is(err, bus.ErrTransportTimeout) || errors.Is(err, bus.ErrTransport)
}

// step is one validated register write of a plan.
type step struct {
	d      param.Descriptor
	words  []uint16
	encode func() ([]uint16, error)
}

// plan collects the writes of one operation. The first validation error
// sticks; later additions are ignored.
type plan struct {
	schema *param.Schema
	steps  []step
	err    error
}

func (c *Client) plan() *plan { return &plan{schema: c.schema} }

func (p *plan) add(name string, encode func(param.Descriptor) ([]uint16, error)) {
	if p.err != nil {
		return
	}
	d, err := p.schema.LookupByName(name)
	if err == nil {
		err = d.Writable()
	}
	if err != nil {
		p.err = err
		return
	}
	enc := func() ([]uint16, error) { return encode(d) }
	words, err := enc()
	if err != nil {
		p.err = fmt.Errorf("%s: %w", d, err)
		return
	}
	p.steps = append(p.steps, step{d: d, words: words, encode: enc})
}

func (p *plan) num(name string, v float64) {
	p.add(name, func(d param.Descriptor) ([]uint16, error) { return param.Encode(d, v) })
}

func (p *plan) raw(name string, v int64) {
	p.add(name, func(d param.Descriptor) ([]uint16, error) { return param.EncodeRaw(d, v) })
}

func (p *plan) code(name string, v uint16) {
	p.add(name, func(d param.Descriptor) ([]uint16, error) { return param.EncodeCode(d, v) })
}

func (p *plan) symbol(name, s string) {
	p.add(name, func(d param.Descriptor) ([]uint16, error) { return param.EncodeSymbol(d, s) })
}

func (p *plan) text(name, s string) {
	p.add(name, func(d param.Descriptor) ([]uint16, error) { return param.EncodeString(d, s) })
}

func (p *plan) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// apply runs a plan. A named op reports failures as *StepError; an unnamed
// single write returns the write error.
func (c *Client) apply(ctx context.Context, op string, p *plan) error {
	if p.err != nil {
		if op == "" {
			return p.err
		}
		return fmt.Errorf("%s: %w", op, p.err)
	}
	for i, s := range p.steps {
		if err := c.write(ctx, s); err != nil {
			if op == "" {
				return fmt.Errorf("write %s: %w", s.d, err)
			}
			return &StepError{Op: op, Step: i + 1, Param: s.d.Name, Completed: i, Err: err}
		}
	}
	return nil
}

// write sends one step. After a timeout a readable register is read back;
// the write counts as done when the drive holds the value and is resent,
// up to WriteVerifyAttempts times, only when the drive reports a different
// value. A failed read-back leaves the outcome unknown and ends the write.
func (c *Client) write(ctx context.Context, s step) error {
	addr := s.d.Address()
	words := s.words
	for attempt := 0; ; attempt++ {
		err := c.regs.Write(ctx, addr, words)
		if err == nil {
			c.logger.Debug("parameter written", "param", s.d.String(), "words", words)
			return nil
		}
		if !bus.IsTimeout(err) || !s.d.Access.CanRead() || c.regs.ID() == bus.BroadcastID ||
			attempt >= c.cfg.WriteVerifyAttempts {
			return err
		}

		got, rerr := c.read(ctx, addr, uint16(len(words)))
		if rerr != nil {
			c.logger.Warn("write unconfirmed, read-back failed", "param", s.d.String(), "error", rerr)
			return fmt.Errorf("%w; read-back: %w", err, rerr)
		}
		if slices.Equal(got, words) {
			c.logger.Info("write confirmed by read-back", "param", s.d.String())
			return nil
		}
		c.logger.Warn("write not applied, resending", "param", s.d.String(), "attempt", attempt+1, "readback", got)

		if words, err = s.encode(); err != nil {
			return err
		}
	}
}
