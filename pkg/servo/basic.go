package servo

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// P00 basic control.

// SetControlMode selects position, speed or torque control.
func (c *Client) SetControlMode(ctx context.Context, mode ControlMode) error {
	return c.setCode(ctx, param.ControlMode, uint16(mode))
}

// ReadControlMode reads the active control mode.
func (c *Client) ReadControlMode(ctx context.Context) (ControlMode, error) {
	v, err := c.readValue(ctx, param.ControlMode)
	return ControlMode(v.Code()), err
}

// SetDirection selects which rotation is forward.
func (c *Client) SetDirection(ctx context.Context, dir Direction) error {
	return c.setCode(ctx, param.Direction, uint16(dir))
}

// SetRigidity sets the rigidity level (0-31).
func (c *Client) SetRigidity(ctx context.Context, level int) error {
	return c.setRaw(ctx, param.Rigidity, int64(level))
}

// SetInertiaRatio sets the load inertia ratio (0.00-30.00).
func (c *Client) SetInertiaRatio(ctx context.Context, ratio float64) error {
	return c.setNum(ctx, param.InertiaRatio, ratio)
}

// SetMaxSpeed sets the system maximum speed in rpm.
func (c *Client) SetMaxSpeed(ctx context.Context, rpm int) error {
	return c.setRaw(ctx, param.MaxSpeed, int64(rpm))
}

// SetBrakeOnDelay sets the brake output ON delay in ms.
func (c *Client) SetBrakeOnDelay(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.BrakeOnDelay, int64(ms))
}

// SetBrakeOffDelay sets the brake output OFF delay in ms.
func (c *Client) SetBrakeOffDelay(ctx context.Context, ms int) error {
	return c.setRaw(ctx, param.BrakeOffDelay, int64(ms))
}

// P02 digital I/O.

func checkTerminal(kind string, n, limit int) error {
	if n < 1 || n > limit {
		return fmt.Errorf("%w: %s%d (want 1..%d)", ErrInvalidTerminal, kind, n, limit)
	}
	return nil
}

// SetDIFunction assigns a function to digital input n.
func (c *Client) SetDIFunction(ctx context.Context, n int, fn DIFunction) error {
	if err := checkTerminal("DI", n, param.DigitalInputs); err != nil {
		return err
	}
	return c.setCode(ctx, param.DIFunctionName(n), uint16(fn))
}

// SetDILogic sets the active level of digital input n.
func (c *Client) SetDILogic(ctx context.Context, n int, logic DILogic) error {
	if err := checkTerminal("DI", n, param.DigitalInputs); err != nil {
		return err
	}
	return c.setCode(ctx, param.DILogicName(n), uint16(logic))
}

// SetDOFunction assigns a function to digital output n.
func (c *Client) SetDOFunction(ctx context.Context, n int, fn DOFunction) error {
	if err := checkTerminal("DO", n, param.DigitalOutputs); err != nil {
		return err
	}
	return c.setCode(ctx, param.DOFunctionName(n), uint16(fn))
}

// SetDOLogic sets the contact type of digital output n.
func (c *Client) SetDOLogic(ctx context.Context, n int, logic DOLogic) error {
	if err := checkTerminal("DO", n, param.DigitalOutputs); err != nil {
		return err
	}
	return c.setCode(ctx, param.DOLogicName(n), uint16(logic))
}

func (c *Client) setCode(ctx context.Context, name string, code uint16) error {
	p := c.plan()
	p.code(name, code)
	return c.apply(ctx, "", p)
}

func (c *Client) setRaw(ctx context.Context, name string, v int64) error {
	p := c.plan()
	p.raw(name, v)
	return c.apply(ctx, "", p)
}

func (c *Client) setNum(ctx context.Context, name string, v float64) error {
	p := c.plan()
	p.num(name, v)
	return c.apply(ctx, "", p)
}
