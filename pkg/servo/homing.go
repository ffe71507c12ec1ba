package servo

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// SetHomingEnableMode selects how homing is started.
func (c *Client) SetHomingEnableMode(ctx context.Context, mode HomingEnableMode) error {
	return c.setCode(ctx, param.HomingEnableMode, uint16(mode))
}

// SetHomingMode selects the homing search pattern.
func (c *Client) SetHomingMode(ctx context.Context, mode HomingMode) error {
	return c.setCode(ctx, param.HomingMode, uint16(mode))
}

// SetHomingHighSpeed sets the search speed in rpm (10-3000).
func (c *Client) SetHomingHighSpeed(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.HomingHighSpeed, int64(rpm))
}

// SetHomingLowSpeed sets the approach speed in rpm (10-1000).
func (c *Client) SetHomingLowSpeed(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.HomingLowSpeed, int64(rpm))
}

// SetHomingAccel sets the homing acceleration limit in ms.
func (c *Client) SetHomingAccel(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.HomingAccel, int64(ms))
}

// SetHomingTimeout sets the homing timeout in ms.
func (c *Client) SetHomingTimeout(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.HomingTimeout, int64(ms))
}

// SetHomeOffset sets the mechanical home offset.
func (c *Client) SetHomeOffset(ctx context.Context, offset int32) error {
	return c.setRaw(ctx, param.HomeOffset, int64(offset))
}

// HomingConfig is a complete homing setup.
type HomingConfig struct {
	Mode       HomingMode
	HighSpeed  int // rpm
	LowSpeed   int // rpm, not above HighSpeed
	AccelLimit int // ms
	Timeout    int // ms
	Offset     int32

	// Enable, when set, is written last and may start homing at once.
	Enable *HomingEnableMode
}

// DefaultHomingConfig returns mode0 at 100/10 rpm with a 1 s ramp and a
// 10 s timeout.
func DefaultHomingConfig() HomingConfig {
	return HomingConfig{
		Mode:       0,
		HighSpeed:  100,
		LowSpeed:   10,
		AccelLimit: 1000,
		Timeout:    10000,
	}
}

// ApplyHomingConfig writes mode, high speed, low speed, acceleration limit,
// timeout and offset, then the enable mode if one is given.
func (c *Client) ApplyHomingConfig(ctx context.Context, cfg HomingConfig) error {
	p := c.plan()
	if cfg.LowSpeed > cfg.HighSpeed {
		p.fail(fmt.Errorf("%w: homing low speed %d above high speed %d",
			param.ErrOutOfRange, cfg.LowSpeed, cfg.HighSpeed))
	}
	p.code(param.HomingMode, uint16(cfg.Mode))
	p.raw(param.HomingHighSpeed, int64(cfg.HighSpeed))
	p.raw(param.HomingLowSpeed, int64(cfg.LowSpeed))
	p.raw(param.HomingAccel, int64(cfg.AccelLimit))
	p.raw(param.HomingTimeout, int64(cfg.Timeout))
	p.raw(param.HomeOffset, int64(cfg.Offset))
	if cfg.Enable != nil {
		p.code(param.HomingEnableMode, uint16(*cfg.Enable))
	}
	return c.apply(ctx, "apply homing config", p)
}
