package servo

import (
	"context"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// P10 communication.

// SetCommAddress sets the RS485 slave address (0-247). It takes effect
// according to the address source and usually after a save and restart.
func (c *Client) SetCommAddress(ctx context.Context, addr uint8) error {
	return c.setRaw(ctx, param.CommAddress, int64(addr))
}

// SetBaudRate sets the Modbus baud rate.
func (c *Client) SetBaudRate(ctx context.Context, baud BaudRate) error {
	return c.setCode(ctx, param.BaudRate, uint16(baud))
}

// SetDataFormat sets the Modbus character format.
func (c *Client) SetDataFormat(ctx context.Context, f DataFormat) error {
	return c.setCode(ctx, param.DataFormat, uint16(f))
}

// SetAddressSource selects DIP switch or host addressing.
func (c *Client) SetAddressSource(ctx context.Context, src AddressSource) error {
	return c.setCode(ctx, param.AddressSource, uint16(src))
}

// SaveToEEPROM stores the communication parameters in the drive EEPROM.
func (c *Client) SaveToEEPROM(ctx context.Context) error {
	return c.setCode(ctx, param.SaveEEPROM, 1)
}

// CommConfig is a complete communication setup.
type CommConfig struct {
	Address       uint8
	BaudRate      BaudRate
	DataFormat    DataFormat
	AddressSource AddressSource

	// Save writes the settings to EEPROM as the last step.
	Save bool
}

// DefaultCommConfig returns address 1 at 115200 baud, 8N1, DIP addressing.
func DefaultCommConfig() CommConfig {
	return CommConfig{
		Address:       1,
		BaudRate:      Baud115200,
		DataFormat:    NoParity1Stop,
		AddressSource: AddressFromDIP,
	}
}

// ApplyCommConfig writes address, baud rate, data format and address source,
// then saves to EEPROM if requested.
func (c *Client) ApplyCommConfig(ctx context.Context, cfg CommConfig) error {
	p := c.plan()
	p.raw(param.CommAddress, int64(cfg.Address))
	p.code(param.BaudRate, uint16(cfg.BaudRate))
	p.code(param.DataFormat, uint16(cfg.DataFormat))
	p.code(param.AddressSource, uint16(cfg.AddressSource))
	if cfg.Save {
		p.code(param.SaveEEPROM, 1)
	}
	return c.apply(ctx, "apply comm config", p)
}

// P11 auxiliary functions.

// ResetFault clears a latched fault.
func (c *Client) ResetFault(ctx context.Context) error {
	return c.setCode(ctx, param.FaultReset, 1)
}

// SoftReset restarts the drive firmware.
func (c *Client) SoftReset(ctx context.Context) error {
	return c.setCode(ctx, param.SoftReset, 1)
}

// FactoryReset restores every parameter to its factory value.
func (c *Client) FactoryReset(ctx context.Context) error {
	return c.setCode(ctx, param.SystemInit, 1)
}

// ClearFaultRecord erases the fault history.
func (c *Client) ClearFaultRecord(ctx context.Context) error {
	return c.setCode(ctx, param.SystemInit, 2)
}

// ResetEncoder clears encoder warnings or resets the multi-turn count.
func (c *Client) ResetEncoder(ctx context.Context, mode EncoderResetMode) error {
	return c.setCode(ctx, param.EncoderReset, uint16(mode))
}

// EmergencyStop triggers the software emergency stop.
func (c *Client) EmergencyStop(ctx context.Context) error {
	return c.setCode(ctx, param.EmergencyStop, 1)
}

// ClearEmergencyStop releases the software emergency stop.
func (c *Client) ClearEmergencyStop(ctx context.Context) error {
	return c.setCode(ctx, param.EmergencyStop, 0)
}
