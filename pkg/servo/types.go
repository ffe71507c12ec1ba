package servo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// symbolOf renders code through the enum table of the named parameter.
func symbolOf(name string, code uint16) string {
	d := param.Default().MustLookup(name)
	if d.Enum != nil {
		if s, ok := d.Enum.Symbol(code); ok {
			return s
		}
	}
	return fmt.Sprintf("%s(%d)", name, code)
}

// parseSymbol resolves a symbol, case-insensitively, through the enum
// table of the named parameter.
func parseSymbol[T ~uint16](name, s string) (T, error) {
	d := param.Default().MustLookup(name)
	code, ok := d.Enum.Code(strings.TrimSpace(s))
	if !ok {
		return 0, fmt.Errorf("%w: %q for %s", param.ErrUnknownVariant, s, d)
	}
	return T(code), nil
}

// ControlMode selects the control loop (P00.00).
type ControlMode uint16

const (
	PositionMode ControlMode = 0
	SpeedMode    ControlMode = 1
	TorqueMode   ControlMode = 2
)

func (m ControlMode) String() string { return symbolOf(param.ControlMode, uint16(m)) }

// ParseControlMode parses "position", "speed" or "torque".
func ParseControlMode(s string) (ControlMode, error) {
	return parseSymbol[ControlMode](param.ControlMode, s)
}

// Direction selects which rotation counts as forward (P00.01).
type Direction uint16

const (
	CCWForward Direction = 0
	CWForward  Direction = 1
)

func (d Direction) String() string { return symbolOf(param.Direction, uint16(d)) }

// ParseDirection parses "ccw_forward" or "cw_forward".
func ParseDirection(s string) (Direction, error) {
	return parseSymbol[Direction](param.Direction, s)
}

// EncoderType is the encoder selection reported in P01.18.
type EncoderType uint16

const (
	EncoderLine2500 EncoderType = 0
	EncoderInc17Bit EncoderType = 1
	EncoderAbs17Bit EncoderType = 2
	EncoderInc23Bit EncoderType = 3
	EncoderAbs23Bit EncoderType = 4
)

func (e EncoderType) String() string { return symbolOf(param.EncoderType, uint16(e)) }

// ParseEncoderType parses an encoder symbol such as "abs_23bit".
func ParseEncoderType(s string) (EncoderType, error) {
	return parseSymbol[EncoderType](param.EncoderType, s)
}

// DIFunction is the function assigned to a digital input (P02.01-P02.03).
type DIFunction uint16

// Frequently used DI functions. Any code of the function table is valid.
const (
	DINone               DIFunction = 0
	DIServoEnable        DIFunction = 1
	DIAlarmReset         DIFunction = 2
	DIForwardOvertravel  DIFunction = 13
	DIBackwardOvertravel DIFunction = 14
	DIForwardJog         DIFunction = 17
	DIBackwardJog        DIFunction = 18
	DIHomeSwitch         DIFunction = 32
	DIHomingStart        DIFunction = 33
	DIEmergencyStop      DIFunction = 34
)

func (f DIFunction) String() string { return symbolOf(param.DIFunctionName(1), uint16(f)) }

// ParseDIFunction parses a DI function symbol such as "servo_enable".
func ParseDIFunction(s string) (DIFunction, error) {
	return parseSymbol[DIFunction](param.DIFunctionName(1), s)
}

// DILogic is the active level of a digital input (P02.11-P02.13).
type DILogic uint16

const (
	DILow       DILogic = 0
	DIHigh      DILogic = 1
	DIRising    DILogic = 2
	DIFalling   DILogic = 3
	DIBothEdges DILogic = 4
)

func (l DILogic) String() string { return symbolOf(param.DILogicName(1), uint16(l)) }

// DOFunction is the function assigned to a digital output (P02.21-P02.22).
type DOFunction uint16

// Frequently used DO functions.
const (
	DONone             DOFunction = 0
	DOServoReady       DOFunction = 1
	DOFault            DOFunction = 2
	DOWarning          DOFunction = 3
	DOMotorRotating    DOFunction = 4
	DOZeroSpeed        DOFunction = 5
	DOPositionComplete DOFunction = 7
	DOBrakeRelease     DOFunction = 11
	DOHomingDone       DOFunction = 19
)

func (f DOFunction) String() string { return symbolOf(param.DOFunctionName(1), uint16(f)) }

// DOLogic is the contact type of a digital output (P02.31-P02.32).
type DOLogic uint16

const (
	DONormallyOpen   DOLogic = 0
	DONormallyClosed DOLogic = 1
)

func (l DOLogic) String() string { return symbolOf(param.DOLogicName(1), uint16(l)) }

// PositionSource is the main position command source (P04.00).
type PositionSource uint16

const (
	SourceLowSpeedPulse  PositionSource = 0
	SourceHighSpeedPulse PositionSource = 1
	SourceStepAmount     PositionSource = 2
	SourceMultiSegment   PositionSource = 4
	SourceCommunication  PositionSource = 5
)

func (s PositionSource) String() string { return symbolOf(param.PositionSource, uint16(s)) }

// PulseShape is the pulse input format (P04.21).
type PulseShape uint16

const (
	PulseDirPositive PulseShape = 0
	PulseDirNegative PulseShape = 1
	QuadraturePos    PulseShape = 2
	QuadratureNeg    PulseShape = 3
	CCWCWPositive    PulseShape = 4
	CCWCWNegative    PulseShape = 5
)

func (p PulseShape) String() string { return symbolOf(param.PulseShape, uint16(p)) }

// BaudRate is the Modbus baud rate selector (P10.02).
type BaudRate uint16

const (
	Baud2400   BaudRate = 0
	Baud4800   BaudRate = 1
	Baud9600   BaudRate = 2
	Baud19200  BaudRate = 3
	Baud38400  BaudRate = 4
	Baud57600  BaudRate = 5
	Baud115200 BaudRate = 6
)

var baudBits = [...]int{2400, 4800, 9600, 19200, 38400, 57600, 115200}

func (b BaudRate) String() string { return symbolOf(param.BaudRate, uint16(b)) }

// BitsPerSecond returns the line speed, or 0 for an unknown selector.
func (b BaudRate) BitsPerSecond() int {
	if int(b) < len(baudBits) {
		return baudBits[b]
	}
	return 0
}

// BaudRateFor returns the selector for a line speed in bits per second.
func BaudRateFor(bps int) (BaudRate, error) {
	for i, v := range baudBits {
		if v == bps {
			return BaudRate(i), nil
		}
	}
	return 0, fmt.Errorf("%w: baud rate %d", param.ErrUnknownVariant, bps)
}

// DataFormat is the Modbus character format (P10.03).
type DataFormat uint16

const (
	NoParity2Stop   DataFormat = 0
	EvenParity1Stop DataFormat = 1
	OddParity1Stop  DataFormat = 2
	NoParity1Stop   DataFormat = 3
)

func (f DataFormat) String() string { return symbolOf(param.DataFormat, uint16(f)) }

// ParseDataFormat parses a format symbol such as "even_parity_1stop".
func ParseDataFormat(s string) (DataFormat, error) {
	return parseSymbol[DataFormat](param.DataFormat, s)
}

// Parity returns "N", "E" or "O".
func (f DataFormat) Parity() string {
	switch f {
	case EvenParity1Stop:
		return "E"
	case OddParity1Stop:
		return "O"
	default:
		return "N"
	}
}

// StopBits returns the number of stop bits.
func (f DataFormat) StopBits() int {
	if f == NoParity2Stop {
		return 2
	}
	return 1
}

// AddressSource selects where the RS485 address comes from (P10.06).
type AddressSource uint16

const (
	AddressFromDIP  AddressSource = 0
	AddressFromHost AddressSource = 1
)

func (a AddressSource) String() string { return symbolOf(param.AddressSource, uint16(a)) }

// EncoderResetMode is the absolute encoder reset action (P11.06).
type EncoderResetMode uint16

const (
	EncoderClearWarnings  EncoderResetMode = 1
	EncoderResetMultiTurn EncoderResetMode = 2
)

func (e EncoderResetMode) String() string { return symbolOf(param.EncoderReset, uint16(e)) }

// MultiSegMode is the multi-segment operation mode (P13.00).
type MultiSegMode uint16

const (
	SegmentsSingle   MultiSegMode = 0
	SegmentsCycle    MultiSegMode = 1
	SegmentsDISwitch MultiSegMode = 2
)

func (m MultiSegMode) String() string { return symbolOf(param.MultiSegMode, uint16(m)) }

// ParseMultiSegMode parses "single", "cycle" or "di_switch".
func ParseMultiSegMode(s string) (MultiSegMode, error) {
	return parseSymbol[MultiSegMode](param.MultiSegMode, s)
}

// SegPositionMode selects incremental or absolute segment targets (P13.05).
type SegPositionMode uint16

const (
	SegmentIncremental SegPositionMode = 0
	SegmentAbsolute    SegPositionMode = 1
)

func (m SegPositionMode) String() string { return symbolOf(param.MultiSegPositionMode, uint16(m)) }

// WaitUnit is the unit of segment wait times (P13.04).
type WaitUnit uint16

const (
	WaitMillis  WaitUnit = 0
	WaitSeconds WaitUnit = 1
)

func (u WaitUnit) String() string { return symbolOf(param.MultiSegWaitUnit, uint16(u)) }

// HomingEnableMode selects how homing is started (P16.08).
type HomingEnableMode uint16

const (
	HomingOff             HomingEnableMode = 0
	HomingByDI            HomingEnableMode = 1
	HomingAtPowerOn       HomingEnableMode = 2
	HomingImmediate       HomingEnableMode = 3
	HomingCurrentPosition HomingEnableMode = 4
	HomingSetByDI         HomingEnableMode = 5
	HomingByHost          HomingEnableMode = 6
)

func (m HomingEnableMode) String() string { return symbolOf(param.HomingEnableMode, uint16(m)) }

// ParseHomingEnableMode parses an enable mode symbol such as "immediate".
func ParseHomingEnableMode(s string) (HomingEnableMode, error) {
	return parseSymbol[HomingEnableMode](param.HomingEnableMode, s)
}

// HomingMode is one of the 18 homing search patterns (P16.09).
type HomingMode uint16

// MaxHomingMode is the highest homing pattern.
const MaxHomingMode HomingMode = 17

func (m HomingMode) String() string { return symbolOf(param.HomingMode, uint16(m)) }

// ParseHomingMode parses "mode0" through "mode17", or the bare number.
func ParseHomingMode(s string) (HomingMode, error) {
	if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16); err == nil && n <= uint64(MaxHomingMode) {
		return HomingMode(n), nil
	}
	return parseSymbol[HomingMode](param.HomingMode, s)
}
