package servo

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// P04 position control.

// SetPositionSource selects the main position command source.
func (c *Client) SetPositionSource(ctx context.Context, src PositionSource) error {
	return c.setCode(ctx, param.PositionSource, uint16(src))
}

// SetStepAmount sets the step amount (-9999..9999).
func (c *Client) SetStepAmount(ctx context.Context, amount int) error {
	return c.setRaw(ctx, param.StepAmount, int64(amount))
}

// SetGearRatio writes electronic gear 1, numerator then denominator.
func (c *Client) SetGearRatio(ctx context.Context, numerator, denominator uint32) error {
	p := c.plan()
	p.raw(param.Gear1Numerator, int64(numerator))
	p.raw(param.Gear1Denominator, int64(denominator))
	return c.apply(ctx, "set gear ratio", p)
}

// SetPulseShape selects the pulse input format.
func (c *Client) SetPulseShape(ctx context.Context, shape PulseShape) error {
	return c.setCode(ctx, param.PulseShape, uint16(shape))
}

// SetPositioningRange sets the positioning completion range in pulses.
func (c *Client) SetPositioningRange(ctx context.Context, pulses int) error {
	return c.setRaw(ctx, param.PositioningRange, int64(pulses))
}

// P05 speed control.

// SetSpeedCommand sets the keyboard speed command in rpm.
func (c *Client) SetSpeedCommand(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.SpeedCommand, int64(rpm))
}

// SetJogSpeed sets the jog speed in rpm.
func (c *Client) SetJogSpeed(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.JogSpeed, int64(rpm))
}

// SetAccelTime sets the acceleration time in ms.
func (c *Client) SetAccelTime(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.AccelTime, int64(ms))
}

// SetDecelTime sets the deceleration time in ms.
func (c *Client) SetDecelTime(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.DecelTime, int64(ms))
}

// SetForwardSpeedLimit sets the forward speed limit in rpm.
func (c *Client) SetForwardSpeedLimit(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.ForwardSpeedLimit, int64(rpm))
}

// SetBackwardSpeedLimit sets the backward speed limit in rpm.
func (c *Client) SetBackwardSpeedLimit(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.BackwardSpeedLimit, int64(rpm))
}

// JogConfig is the jog speed and ramps.
type JogConfig struct {
	Speed     int // rpm
	AccelTime int // ms
	DecelTime int // ms
}

// DefaultJogConfig returns 200 rpm with 50 ms ramps.
func DefaultJogConfig() JogConfig {
	return JogConfig{Speed: 200, AccelTime: 50, DecelTime: 50}
}

// ApplyJogConfig writes jog speed, acceleration and deceleration time.
func (c *Client) ApplyJogConfig(ctx context.Context, cfg JogConfig) error {
	p := c.plan()
	p.raw(param.JogSpeed, int64(cfg.Speed))
	p.raw(param.AccelTime, int64(cfg.AccelTime))
	p.raw(param.DecelTime, int64(cfg.DecelTime))
	return c.apply(ctx, "apply jog config", p)
}

// P06 torque control. Torques are in percent of rated torque.

// SetTorqueCommand sets the keyboard torque command (-300.0..300.0 %).
func (c *Client) SetTorqueCommand(ctx context.Context, percent float64) error {
	return c.setNum(ctx, param.TorqueCommand, percent)
}

// SetForwardTorqueLimit sets the forward internal torque limit (0..500.0 %).
func (c *Client) SetForwardTorqueLimit(ctx context.Context, percent float64) error {
	return c.setNum(ctx, param.ForwardTorqueLimit, percent)
}

// SetBackwardTorqueLimit sets the backward internal torque limit (0..500.0 %).
func (c *Client) SetBackwardTorqueLimit(ctx context.Context, percent float64) error {
	return c.setNum(ctx, param.BackwardTorqueLimit, percent)
}

// P07 gains.

// SetPositionGain sets position loop gain 1 in Hz.
func (c *Client) SetPositionGain(ctx context.Context, hz float64) error {
	return c.setNum(ctx, param.PositionGain, hz)
}

// SetSpeedGain sets speed loop gain 1 in Hz.
func (c *Client) SetSpeedGain(ctx context.Context, hz float64) error {
	return c.setNum(ctx, param.SpeedGain, hz)
}

// SetSpeedIntegral sets speed loop integral time 1 in ms.
func (c *Client) SetSpeedIntegral(ctx context.Context, ms float64) error {
	return c.setNum(ctx, param.SpeedIntegral, ms)
}

// SetSpeedFilter sets speed detection filter 1 in ms.
func (c *Client) SetSpeedFilter(ctx context.Context, ms float64) error {
	return c.setNum(ctx, param.SpeedFilter, ms)
}

// GainParams is the first gain set.
type GainParams struct {
	PositionGain  float64 // Hz
	SpeedGain     float64 // Hz
	SpeedIntegral float64 // ms
	SpeedFilter   float64 // ms
}

// DefaultGainParams returns a moderate tuning: 32 Hz position gain, 18 Hz
// speed gain, 3.1 ms integral time and 0.2 ms filter.
func DefaultGainParams() GainParams {
	return GainParams{PositionGain: 32, SpeedGain: 18, SpeedIntegral: 3.1, SpeedFilter: 0.2}
}

// ApplyGainParams writes position gain, speed gain, integral time and
// speed filter in that order.
func (c *Client) ApplyGainParams(ctx context.Context, g GainParams) error {
	p := c.plan()
	p.num(param.PositionGain, g.PositionGain)
	p.num(param.SpeedGain, g.SpeedGain)
	p.num(param.SpeedIntegral, g.SpeedIntegral)
	p.num(param.SpeedFilter, g.SpeedFilter)
	return c.apply(ctx, "apply gain params", p)
}

// P14 multi-speed.

// SetMultiSpeedMode sets the multi-speed operation mode (same symbols as
// the multi-segment mode).
func (c *Client) SetMultiSpeedMode(ctx context.Context, mode MultiSegMode) error {
	return c.setCode(ctx, param.MultiSpeedMode, uint16(mode))
}

// SetMultiSpeedEnd sets the last step of the multi-speed table (1-16).
func (c *Client) SetMultiSpeedEnd(ctx context.Context, step int) error {
	return c.setRaw(ctx, param.MultiSpeedEnd, int64(step))
}

// SpeedStepConfig is one entry of the multi-speed table.
type SpeedStepConfig struct {
	Step        int // 1-16
	Speed       int // rpm
	RunTime     int // in the multi-speed time unit
	AccelSelect int // accel/decel time 1-4
}

// ConfigureSpeedStep writes speed, run time and accel/decel selector of one
// multi-speed step.
func (c *Client) ConfigureSpeedStep(ctx context.Context, cfg SpeedStepConfig) error {
	p := c.plan()
	c.planSpeedStep(p, cfg)
	return c.apply(ctx, fmt.Sprintf("configure speed step %d", cfg.Step), p)
}

func (c *Client) planSpeedStep(p *plan, cfg SpeedStepConfig) {
	ds, err := c.schema.SpeedStepParams(cfg.Step)
	if err != nil {
		p.fail(err)
		return
	}
	if cfg.AccelSelect < 1 || cfg.AccelSelect > 4 {
		p.fail(fmt.Errorf("%w: accel select %d (want 1..4)", param.ErrOutOfRange, cfg.AccelSelect))
		return
	}
	p.raw(ds.Speed.Name, int64(cfg.Speed))
	p.raw(ds.RunTime.Name, int64(cfg.RunTime))
	p.code(ds.AccelSelect.Name, uint16(cfg.AccelSelect-1))
}
