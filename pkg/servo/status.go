package servo

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// State is the operating state in the low nibble of the status register.
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateFault
	StateAlarm
	StateUnknown
)

const stateMask = 0x000F

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateFault:
		return "FAULT"
	case StateAlarm:
		return "ALARM"
	default:
		return "UNKNOWN"
	}
}

// ClassifyState maps a raw status register value to its state and the
// state code it was derived from. Codes other than 0-3 are StateUnknown.
func ClassifyState(status uint16) (State, uint16) {
	code := status & stateMask
	if code <= uint16(StateAlarm) {
		return State(code), code
	}
	return StateUnknown, code
}

// Status is a snapshot of the monitoring group P18.
type Status struct {
	State State

	// StateCode is the low nibble the state was derived from.
	StateCode uint16

	// Raw is the full status register.
	Raw uint16

	Speed           int     // rpm
	LoadRate        float64 // %
	SpeedReference  int     // rpm
	Torque          float64 // % of rated
	Current         float64 // A rms
	BusVoltage      float64 // V
	Position        int32
	ElectricalAngle float64 // degrees
}

func (s Status) String() string {
	return fmt.Sprintf("%s speed=%drpm ref=%drpm load=%.1f%% torque=%.1f%% current=%.2fA bus=%.1fV pos=%d angle=%.1f",
		s.State, s.Speed, s.SpeedReference, s.LoadRate, s.Torque, s.Current, s.BusVoltage, s.Position, s.ElectricalAngle)
}

// Status reads the whole monitoring block in one transaction.
func (c *Client) Status(ctx context.Context) (Status, error) {
	first := c.schema.MustLookup(param.ServoStatus)
	last := c.schema.MustLookup(param.ElectricalAngle)
	base := first.Address()
	n := uint16(last.Address()-base) + uint16(last.Words())

	words, err := c.read(ctx, base, n)
	if err != nil {
		return Status{}, fmt.Errorf("read status: %w", err)
	}

	var st Status
	for _, d := range c.schema.Group(first.Group) {
		off := int(d.Address() - base)
		if off+d.Words() > len(words) {
			continue
		}
		v, err := param.Decode(d, words[off:off+d.Words()])
		if err != nil {
			return Status{}, fmt.Errorf("decode %s: %w", d, err)
		}
		switch d.Name {
		case param.ServoStatus:
			st.Raw = v.Code()
			st.State, st.StateCode = ClassifyState(st.Raw)
		case param.MotorSpeed:
			st.Speed = int(v.Int())
		case param.LoadRate:
			st.LoadRate = v.Float64()
		case param.SpeedReference:
			st.SpeedReference = int(v.Int())
		case param.InternalTorque:
			st.Torque = v.Float64()
		case param.PhaseCurrent:
			st.Current = v.Float64()
		case param.BusVoltage:
			st.BusVoltage = v.Float64()
		case param.AbsolutePosition:
			st.Position = int32(v.Int())
		case param.ElectricalAngle:
			st.ElectricalAngle = v.Float64()
		}
	}
	return st, nil
}

// ServoState reads and classifies the status register.
func (c *Client) ServoState(ctx context.Context) (State, error) {
	v, err := c.readValue(ctx, param.ServoStatus)
	if err != nil {
		return StateUnknown, err
	}
	s, _ := ClassifyState(v.Code())
	return s, nil
}

// MotorSpeed reads the speed feedback in rpm.
func (c *Client) MotorSpeed(ctx context.Context) (int, error) {
	v, err := c.readValue(ctx, param.MotorSpeed)
	return int(v.Int()), err
}

// LoadRate reads the average load rate in percent.
func (c *Client) LoadRate(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, param.LoadRate)
}

// SpeedReference reads the active speed command in rpm.
func (c *Client) SpeedReference(ctx context.Context) (int, error) {
	v, err := c.readValue(ctx, param.SpeedReference)
	return int(v.Int()), err
}

// Torque reads the internal torque in percent of rated torque.
func (c *Client) Torque(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, param.InternalTorque)
}

// PhaseCurrent reads the phase current RMS in A.
func (c *Client) PhaseCurrent(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, param.PhaseCurrent)
}

// BusVoltage reads the DC bus voltage in V.
func (c *Client) BusVoltage(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, param.BusVoltage)
}

// Position reads the absolute position.
func (c *Client) Position(ctx context.Context) (int32, error) {
	v, err := c.readValue(ctx, param.AbsolutePosition)
	return int32(v.Int()), err
}

// ElectricalAngle reads the electrical angle in degrees.
func (c *Client) ElectricalAngle(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, param.ElectricalAngle)
}

// P12 identification.

// SoftwareVersion reads the firmware version number.
func (c *Client) SoftwareVersion(ctx context.Context) (uint16, error) {
	v, err := c.readValue(ctx, param.SoftwareVersion)
	return v.Code(), err
}

// FPGAVersion reads the FPGA version number.
func (c *Client) FPGAVersion(ctx context.Context) (uint16, error) {
	v, err := c.readValue(ctx, param.FPGAVersion)
	return v.Code(), err
}

// ProductCode reads the product series code.
func (c *Client) ProductCode(ctx context.Context) (uint16, error) {
	v, err := c.readValue(ctx, param.ProductCode)
	return v.Code(), err
}

func (c *Client) readFloat(ctx context.Context, name string) (float64, error) {
	v, err := c.readValue(ctx, name)
	if err != nil {
		return 0, err
	}
	return v.Float64(), nil
}
