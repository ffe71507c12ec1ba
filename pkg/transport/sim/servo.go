package sim

import (
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Identification values reported by simulated servo drives.
const (
	ProductCode     uint16 = 0x5253
	SoftwareVersion uint16 = 0x0103
	FPGAVersion     uint16 = 0x0021
)

// Status codes in the low nibble of the servo status register.
const (
	StatusReady   uint16 = 0
	StatusRunning uint16 = 1
	StatusFault   uint16 = 2
	StatusAlarm   uint16 = 3
)

func addr(name string) register.Address {
	return param.Default().MustLookup(name).Address()
}

// AddServo attaches a drive preloaded with DSY-RS identification and
// monitoring values. It reacts to fault reset, emergency stop and speed
// commands the way a drive in speed mode would.
func (b *Bus) AddServo(id uint8) *Drive {
	d := b.AddDrive(id)
	d.Set(addr(param.ProductCode), ProductCode)
	d.Set(addr(param.SoftwareVersion), SoftwareVersion)
	d.Set(addr(param.FPGAVersion), FPGAVersion)
	d.Set(addr(param.MaxSpeed), 3000)
	d.Set(addr(param.MotorModel), 0x0310)
	d.Set(addr(param.RatedCurrent), 280)
	d.Set(addr(param.EncoderType), 3)
	resolution := register.Pack32(1 << 23)
	d.Set(addr(param.EncoderResolution), resolution[:]...)
	d.Set(addr(param.BusVoltage), 3105)
	d.Set(addr(param.ServoStatus), StatusReady)
	d.OnWrite(servoBehavior)
	return d
}

// SetState replaces the status code, keeping the upper bits of the register.
func (d *Drive) SetState(code uint16) {
	a := addr(param.ServoStatus)
	cur := d.Get(a, 1)[0]
	d.Set(a, cur&^0x000F|code&0x000F)
}

// State returns the current status code.
func (d *Drive) State() uint16 {
	return d.Get(addr(param.ServoStatus), 1)[0] & 0x000F
}

func servoBehavior(d *Drive, at register.Address, words []uint16) {
	v := words[0]
	switch at {
	case addr(param.FaultReset):
		if v != 0 && (d.State() == StatusFault || d.State() == StatusAlarm) {
			d.SetState(StatusReady)
		}
		d.Set(at, 0)
	case addr(param.EmergencyStop):
		if v != 0 {
			d.SetState(StatusAlarm)
			d.Set(addr(param.MotorSpeed), 0)
		} else if d.State() == StatusAlarm {
			d.SetState(StatusReady)
		}
	case addr(param.SpeedCommand):
		if d.Get(addr(param.ControlMode), 1)[0] != 1 || d.State() >= StatusFault {
			return
		}
		d.Set(addr(param.MotorSpeed), v)
		d.Set(addr(param.SpeedReference), v)
		if v == 0 {
			d.SetState(StatusReady)
		} else {
			d.SetState(StatusRunning)
		}
	case addr(param.SaveEEPROM), addr(param.SoftReset), addr(param.SystemInit), addr(param.EncoderReset):
		d.Set(at, 0)
	}
}
