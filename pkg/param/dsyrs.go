package param

import (
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/register"
)

// Names of the parameters used by the servo client. Every other entry of
// the built-in table is still reachable through LookupByName.
const (
	ControlMode     = "control_mode"
	Direction       = "direction"
	Rigidity        = "rigidity"
	InertiaRatio    = "inertia_ratio"
	AbsoluteSystem  = "absolute_system"
	MaxSpeed        = "max_speed"
	ServoOffStop    = "servo_off_stop_mode"
	OvertravelStop  = "overtravel_stop_mode"
	BrakeOnDelay    = "brake_on_delay"
	BrakeOffDelay   = "brake_off_delay"
	BrakingResistor = "braking_resistor"

	MotorModel        = "motor_model"
	RatedCurrent      = "rated_current"
	RatedTorque       = "rated_torque"
	PolePairs         = "pole_pairs"
	EncoderType       = "encoder_type"
	EncoderResolution = "encoder_resolution"

	PositionSource      = "position_source"
	StepAmount          = "step_amount"
	Gear1Numerator      = "gear1_numerator"
	Gear1Denominator    = "gear1_denominator"
	PulseShape          = "pulse_shape"
	DeviationClear      = "deviation_clear"
	PositioningRange    = "positioning_range"
	SpeedCommand        = "speed_command"
	JogSpeed            = "jog_speed"
	AccelTime           = "accel_time"
	DecelTime           = "decel_time"
	ForwardSpeedLimit   = "forward_speed_limit"
	BackwardSpeedLimit  = "backward_speed_limit"
	TorqueCommand       = "torque_command"
	ForwardTorqueLimit  = "forward_torque_limit"
	BackwardTorqueLimit = "backward_torque_limit"

	PositionGain  = "position_gain1"
	SpeedGain     = "speed_gain1"
	SpeedIntegral = "speed_integral1"
	SpeedFilter   = "speed_filter1"

	CommAddress   = "comm_address"
	BaudRate      = "baud_rate"
	DataFormat    = "data_format"
	SaveEEPROM    = "save_eeprom"
	RS232BaudRate = "rs232_baud_rate"
	AddressSource = "address_source"

	FaultReset    = "fault_reset"
	SoftReset     = "soft_reset"
	EncoderReset  = "encoder_reset"
	SystemInit    = "system_init"
	EmergencyStop = "emergency_stop"

	NonStandardVersion = "nonstandard_version"
	SoftwareVersion    = "software_version"
	FPGAVersion        = "fpga_version"
	ProductCode        = "product_code"

	MultiSegMode         = "multi_seg_mode"
	MultiSegStart        = "multi_seg_start"
	MultiSegEnd          = "multi_seg_end"
	MultiSegInterrupt    = "multi_seg_interrupt"
	MultiSegWaitUnit     = "multi_seg_wait_unit"
	MultiSegPositionMode = "multi_seg_position_mode"

	MultiSpeedMode     = "multi_speed_mode"
	MultiSpeedEnd      = "multi_speed_end"
	MultiSpeedTimeUnit = "multi_speed_time_unit"

	HomingEnableMode = "homing_enable_mode"
	HomingMode       = "homing_mode"
	HomingHighSpeed  = "homing_high_speed"
	HomingLowSpeed   = "homing_low_speed"
	HomingAccel      = "homing_accel"
	HomingTimeout    = "homing_timeout"
	HomeOffset       = "home_offset"

	ServoStatus      = "servo_status"
	MotorSpeed       = "motor_speed"
	LoadRate         = "load_rate"
	SpeedReference   = "speed_reference"
	InternalTorque   = "internal_torque"
	PhaseCurrent     = "phase_current"
	BusVoltage       = "bus_voltage"
	AbsolutePosition = "absolute_position"
	ElectricalAngle  = "electrical_angle"
)

// Segment table layout in group P13.
const (
	SegmentCount     = 16
	SegmentStride    = 5
	SegmentBaseIndex = 8
)

// Multi-speed table layout in group P14.
const (
	SpeedStepCount     = 16
	SpeedStepStride    = 3
	SpeedStepBaseIndex = 7
)

// DI and DO terminals with configurable function and logic.
const (
	DigitalInputs  = 3
	DigitalOutputs = 2
)

const (
	displacementMin = -1 << 30
	displacementMax = 1<<30 - 1
)

var (
	onOff    = symbols("off", "on")
	disabled = symbols("disabled", "enabled")
	noYes    = symbols("no", "yes")
	rotation = symbols("ccw_forward", "cw_forward")

	baudRates = MustEnum(
		EnumEntry{0, "2400"},
		EnumEntry{1, "4800"},
		EnumEntry{2, "9600"},
		EnumEntry{3, "19200"},
		EnumEntry{4, "38400"},
		EnumEntry{5, "57600"},
		EnumEntry{6, "115200"},
	)

	diFunctions = symbols(
		"none", "servo_enable", "alarm_reset", "proportional_switch", "main_aux_switch",
		"pulse_deviation_clear", "multi_seg_switch1", "multi_seg_switch2", "multi_seg_switch3",
		"multi_seg_switch4", "mode_switch", "zero_fixed", "pulse_inhibit", "forward_overtravel",
		"backward_overtravel", "forward_torque_limit", "backward_torque_limit", "forward_jog",
		"backward_jog", "position_step", "handwheel_mag1", "handwheel_mag2", "handwheel_enable",
		"gear_select", "position_reverse", "speed_reverse", "torque_reverse", "handwheel_a",
		"handwheel_b", "multi_seg_enable", "fixed_length_confirm", "fixed_length_inhibit",
		"home_switch", "homing_start", "emergency_stop", "constant_speed_running",
		"fixed_length_reset", "fixed_length_pause", "multi_seg_torque_switch1",
		"multi_step_torque_switch1", "speed_a1_sw1", "speed_a1_sw2",
	)
	diLogic = symbols("low", "high", "rising", "falling", "both_edges")

	doFunctions = symbols(
		"none", "servo_ready", "fault", "warning", "motor_rotating", "zero_speed",
		"speed_consistent", "position_complete", "position_near", "torque_limited",
		"speed_limited", "brake_release", "torque_reached", "speed_reached", "angle_identified",
		"alarm_code1", "alarm_code2", "alarm_code3", "fixed_length_done", "homing_done",
		"reserved20", "multi_seg_done1", "multi_seg_done2", "multi_seg_done3", "multi_seg_done4",
	)
	doLogic = symbols("normally_open", "normally_closed")

	homingModes = func() *Enum {
		names := make([]string, 18)
		for i := range names {
			names[i] = fmt.Sprintf("mode%d", i)
		}
		return symbols(names...)
	}()
)

var defaultSchema = MustSchema(dsyrsTable())

// Default returns the built-in DSY-RS parameter table.
func Default() *Schema { return defaultSchema }

func dsyrsTable() []Descriptor {
	var t []Descriptor
	t = append(t, groupP00()...)
	t = append(t, groupP01()...)
	t = append(t, groupP02()...)
	t = append(t, groupP04()...)
	t = append(t, groupP05()...)
	t = append(t, groupP06()...)
	t = append(t, groupP07()...)
	t = append(t, groupP08()...)
	t = append(t, groupP09()...)
	t = append(t, groupP10()...)
	t = append(t, groupP11()...)
	t = append(t, groupP12()...)
	t = append(t, groupP13()...)
	t = append(t, groupP14()...)
	t = append(t, groupP16()...)
	t = append(t, groupP18()...)
	return t
}

// P00 basic control.
func groupP00() []Descriptor {
	return []Descriptor{
		enum(0, 0, ControlMode, symbols("position", "speed", "torque"), "control mode selection"),
		enum(0, 1, Direction, rotation, "direction of rotation"),
		enum(0, 2, "pulse_output_direction", rotation, "pulse output forward direction"),
		num(0, 4, Rigidity, 0, 31, "rigidity level"),
		num(0, 5, InertiaRatio, 0, 3000, "load inertia ratio").scaled(register.Hundredth),
		enum(0, 6, AbsoluteSystem, symbols("incremental", "absolute_linear", "absolute_rotation"), "absolute value system"),
		num(0, 7, MaxSpeed, 0, 10000, "system maximum speed").unit("rpm"),
		enum(0, 10, ServoOffStop, symbols("freewheel", "zero_speed"), "servo OFF stop mode"),
		enum(0, 11, "fault1_stop_mode", symbols("freewheel", "reserved"), "No.1 fault stop mode"),
		enum(0, 12, "fault2_stop_mode", symbols("freewheel", "zero_speed"), "No.2 fault stop mode"),
		enum(0, 13, OvertravelStop, symbols("freewheel", "decel_lock", "decel_freewheel"), "overtravel stop mode"),
		num(0, 14, BrakeOnDelay, 0, 10000, "brake output ON delay").unit("ms"),
		num(0, 15, BrakeOffDelay, 10, 10000, "brake output OFF delay").unit("ms"),
		num(0, 16, "brake_off_speed", 0, 1000, "speed threshold for brake OFF").unit("rpm"),
		num(0, 17, "fault_brake_delay", 0, 10000, "servo OFF to brake OFF delay on fault").unit("ms"),
		enum(0, 18, BrakingResistor, symbols("builtin", "external_natural", "external_forced", "none"), "energy consumption resistor"),
		num(0, 19, "resistor_power", 1, 65535, "external resistor power").unit("W"),
		num(0, 20, "resistor_value", 1, 1000, "external resistance").unit("ohm"),
		num(0, 21, "resistor_time_constant", 1000, 65535, "external resistor heating time constant").unit("ms"),
		num(0, 22, "braking_voltage", 0, 1000, "braking start voltage").unit("V"),
		num(0, 37, "pulse_increment_threshold", 0, 200, "pulse increment threshold"),
		num(0, 38, "pulseless_cycles", 1, 200, "continuous pulseless reception cycles"),
	}
}

// P01 motor parameters. The drive reports them; they are not writable.
func groupP01() []Descriptor {
	return []Descriptor{
		num(1, 0, MotorModel, 0, 65535, "motor model code").ro(),
		enum(1, 1, "motor_phase_sequence", symbols("ccw", "cw"), "power line phase sequence").ro(),
		num(1, 2, "rated_voltage", 1, 1000, "rated voltage").unit("V").ro(),
		num(1, 3, "rated_power", 0, 65535, "rated power").scaled(register.Hundredth).unit("kW").ro(),
		num(1, 4, RatedCurrent, 1, 10000, "rated current").scaled(register.Hundredth).unit("A").ro(),
		num(1, 5, RatedTorque, 0, 65535, "rated torque").scaled(register.Hundredth).unit("Nm").ro(),
		num(1, 8, "motor_max_speed", 0, 9000, "motor maximum speed").unit("rpm").ro(),
		num(1, 9, "rotor_inertia", 0, 10000, "rotor inertia").scaled(register.Hundredth).unit("kg.cm2").ro(),
		num(1, 10, PolePairs, 1, 50, "pole pairs").ro(),
		num(1, 11, "stator_resistance", 1, 65535, "stator resistance").scaled(-3).unit("ohm").ro(),
		num(1, 12, "q_inductance", 1, 65535, "Q-axis inductance").scaled(register.Hundredth).unit("mH").ro(),
		num(1, 13, "d_inductance", 1, 65535, "D-axis inductance").scaled(register.Hundredth).unit("mH").ro(),
		num(1, 14, "back_emf", 1, 65535, "back EMF").scaled(register.Hundredth).unit("mV/rpm").ro(),
		num(1, 15, "torque_factor", 1, 65535, "torque factor").scaled(-3).unit("Nm/A").ro(),
		enum(1, 18, EncoderType, symbols("line_2500", "inc_17bit", "abs_17bit", "inc_23bit", "abs_23bit"), "encoder selection").ro(),
		num(1, 20, EncoderResolution, 1, 1<<30, "encoder resolution").wide().ro(),
		num(1, 22, "z_angle", 0, 3600, "Z electrical angle").scaled(register.Tenth).unit("deg").ro(),
		num(1, 23, "u_angle", 0, 3600, "U rising-edge electrical angle").scaled(register.Tenth).unit("deg").ro(),
		num(1, 24, "fpga_motor_model", 0, 65535, "FPGA upload motor model").ro(),
	}
}

// DIFunctionName returns the name of the function selector of DI terminal n (1-based).
func DIFunctionName(n int) string { return fmt.Sprintf("di%d_function", n) }

// DILogicName returns the name of the logic selector of DI terminal n.
func DILogicName(n int) string { return fmt.Sprintf("di%d_logic", n) }

// DOFunctionName returns the name of the function selector of DO terminal n.
func DOFunctionName(n int) string { return fmt.Sprintf("do%d_function", n) }

// DOLogicName returns the name of the logic selector of DO terminal n.
func DOLogicName(n int) string { return fmt.Sprintf("do%d_logic", n) }

// P02 digital I/O.
func groupP02() []Descriptor {
	t := []Descriptor{
		bits(2, 0, "funin_low_unassigned", 0xFFFF, "FunIN.1-16 unassigned state"),
		bits(2, 10, "funin_high_unassigned", 0xFFFF, "FunIN.17-32 unassigned state"),
	}
	for n := 1; n <= DigitalInputs; n++ {
		t = append(t,
			enum(2, uint8(n), DIFunctionName(n), diFunctions, fmt.Sprintf("DI%d terminal function", n)),
			enum(2, uint8(10+n), DILogicName(n), diLogic, fmt.Sprintf("DI%d terminal logic", n)),
		)
	}
	for n := 1; n <= DigitalOutputs; n++ {
		t = append(t,
			enum(2, uint8(20+n), DOFunctionName(n), doFunctions, fmt.Sprintf("DO%d terminal function", n)),
			enum(2, uint8(30+n), DOLogicName(n), doLogic, fmt.Sprintf("DO%d terminal logic", n)),
		)
	}
	return t
}

// P04 position control.
func groupP04() []Descriptor {
	positionSources := MustEnum(
		EnumEntry{0, "low_speed_pulse"},
		EnumEntry{1, "high_speed_pulse"},
		EnumEntry{2, "step_amount"},
		EnumEntry{4, "multi_segment"},
		EnumEntry{5, "communication"},
	)
	return []Descriptor{
		enum(4, 0, PositionSource, positionSources, "main position command source"),
		num(4, 2, StepAmount, -9999, 9999, "step amount"),
		num(4, 3, "position_smoothing", 0, 65535, "position command smoothing filter").scaled(register.Tenth).unit("ms"),
		num(4, 4, "position_fir", 0, 1280, "position command FIR filter").scaled(register.Tenth).unit("ms"),
		num(4, 5, "units_per_revolution", 0, 1<<30, "units per motor revolution").wide(),
		num(4, 7, Gear1Numerator, 1, 1<<30, "electronic gear 1 numerator").wide(),
		num(4, 9, Gear1Denominator, 1, 1<<30, "electronic gear 1 denominator").wide(),
		num(4, 11, "gear2_numerator", 1, 1<<30, "electronic gear 2 numerator").wide(),
		num(4, 13, "gear2_denominator", 1, 1<<30, "electronic gear 2 denominator").wide(),
		enum(4, 21, PulseShape, symbols("pulse_dir_pos", "dir_pulse_neg", "quad_pos", "quad_neg", "ccw_cw_pos", "ccw_cw_neg"), "pulse shape"),
		enum(4, 22, DeviationClear, symbols("on_fault_or_off", "on_fault", "by_di"), "position deviation clear"),
		enum(4, 23, "coin_condition", symbols("in_range", "in_range_filtered_zero", "in_range_command_zero"), "COIN output condition"),
		num(4, 24, PositioningRange, 1, 65535, "positioning completion range").unit("pulse"),
		num(4, 25, "positioning_near_range", 1, 65535, "positioning close range").unit("pulse"),
	}
}

// P05 speed control.
func groupP05() []Descriptor {
	selection := MustEnum(
		EnumEntry{0, "main_a"},
		EnumEntry{2, "aux_b"},
		EnumEntry{3, "ab_switch"},
	)
	return []Descriptor{
		enum(5, 0, "speed_source_a", symbols("digital", "reserved1", "reserved2"), "main speed command source"),
		enum(5, 1, "speed_source_b", symbols("digital", "reserved1", "reserved2", "multi_speed"), "auxiliary speed command source"),
		enum(5, 2, "speed_command_select", selection, "speed command selection"),
		num(5, 3, SpeedCommand, -9000, 9000, "speed command keyboard setting").unit("rpm"),
		num(5, 4, JogSpeed, 0, 9000, "jog speed").unit("rpm"),
		num(5, 5, AccelTime, 0, 10000, "acceleration time").unit("ms"),
		num(5, 6, DecelTime, 0, 10000, "deceleration time").unit("ms"),
		enum(5, 7, "speed_limit_select", symbols("internal"), "speed limit selection"),
		num(5, 8, ForwardSpeedLimit, 0, 9000, "forward speed limit").unit("rpm"),
		num(5, 9, BackwardSpeedLimit, 0, 9000, "backward speed limit").unit("rpm"),
		enum(5, 14, "speed_direction", symbols("unchanged", "reversed", "by_di25", "by_di40_41"), "speed direction selection"),
		num(5, 15, "zero_fixed_speed", 0, 6000, "zero fixed speed value").unit("rpm"),
		num(5, 16, "running_speed_threshold", 0, 1000, "motor running signal threshold").unit("rpm"),
		num(5, 17, "speed_uniform_width", 0, 100, "speed uniform signal width").unit("rpm"),
		num(5, 18, "speed_reached", 0, 6000, "speed reached threshold").unit("rpm"),
		num(5, 20, "zero_speed_threshold", 0, 6000, "zero-speed judgment threshold").unit("rpm"),
	}
}

// P06 torque control.
func groupP06() []Descriptor {
	return []Descriptor{
		enum(6, 0, "torque_source_a", symbols("digital", "reserved"), "main torque command source"),
		enum(6, 2, "torque_command_select", symbols("a", "b", "a_plus_b", "ab_switch"), "torque command selection"),
		num(6, 4, "torque_filter", -3000, 3000, "torque command filter time").scaled(register.Hundredth).unit("ms"),
		num(6, 5, TorqueCommand, -3000, 3000, "torque command keyboard setting").scaled(register.Tenth).unit("%"),
		enum(6, 6, "torque_limit_source", symbols("internal", "external"), "torque limit source"),
		num(6, 8, ForwardTorqueLimit, 0, 5000, "forward internal torque limit").scaled(register.Tenth).unit("%"),
		num(6, 9, BackwardTorqueLimit, 0, 5000, "backward internal torque limit").scaled(register.Tenth).unit("%"),
		num(6, 10, "forward_external_torque_limit", 0, 5000, "forward external torque limit").scaled(register.Tenth).unit("%"),
		num(6, 11, "backward_external_torque_limit", 0, 5000, "backward external torque limit").scaled(register.Tenth).unit("%"),
		enum(6, 13, "torque_speed_limit_source", symbols("internal", "reserved"), "speed limit source in torque mode"),
		num(6, 15, "torque_forward_speed_limit", 0, 9000, "positive speed limit in torque mode").unit("rpm"),
		num(6, 16, "torque_backward_speed_limit", 0, 9000, "negative speed limit in torque mode").unit("rpm"),
		num(6, 21, "multi_torque1", -3000, 3000, "multi-segment torque command 1").scaled(register.Tenth).unit("%"),
		num(6, 22, "multi_torque2", -3000, 3000, "multi-segment torque command 2").scaled(register.Tenth).unit("%"),
		num(6, 23, "multi_torque3", -3000, 3000, "multi-segment torque command 3").scaled(register.Tenth).unit("%"),
	}
}

// P07 gain parameters.
func groupP07() []Descriptor {
	return []Descriptor{
		num(7, 0, PositionGain, 10, 20000, "position loop gain 1").scaled(register.Tenth).unit("Hz"),
		num(7, 1, SpeedGain, 10, 20000, "speed loop gain 1").scaled(register.Tenth).unit("Hz"),
		num(7, 2, SpeedIntegral, 15, 512, "speed loop integral time 1").scaled(register.Hundredth).unit("ms"),
		num(7, 3, SpeedFilter, 0, 200, "speed detection filter 1").scaled(register.Hundredth).unit("ms"),
		num(7, 5, "position_gain2", 10, 20000, "position loop gain 2").scaled(register.Tenth).unit("Hz"),
		num(7, 6, "speed_gain2", 10, 20000, "speed loop gain 2").scaled(register.Tenth).unit("Hz"),
		enum(7, 10, "gain_switch_action", symbols("pi_p_switch", "gain_switching"), "GAINSWITCH action"),
		num(7, 11, "gain_switch_mode", 0, 13, "gain switching mode"),
	}
}

// P08 advanced adjustment.
func groupP08() []Descriptor {
	return []Descriptor{
		num(8, 0, "adaptive_filter_mode", 0, 5, "adaptive filter mode"),
		num(8, 2, "notch1_frequency", 10, 4000, "1st notch filter frequency").unit("Hz"),
		num(8, 3, "notch1_width", 0, 8, "1st notch filter width"),
		num(8, 4, "notch1_depth", 0, 100, "1st notch filter depth"),
		enum(8, 15, "damping_filter", onOff, "damping filter switch"),
		enum(8, 17, "damping_filter_select", symbols("filter_a", "filter_b"), "damping filter selection"),
		enum(8, 23, "inertia_identification", symbols("offline_triangle", "offline_jog"), "inertia identification mode"),
		enum(8, 26, "hf_suppression", onOff, "high frequency vibration suppression"),
		enum(8, 33, "disturbance_compensation", onOff, "anti-disturbance compensation"),
		enum(8, 39, "speed_compensation", onOff, "momentary speed compensation"),
		enum(8, 45, "model_compensation", symbols("off", "rigid", "vector2"), "model compensation"),
	}
}

// P09 fault and protection.
func groupP09() []Descriptor {
	return []Descriptor{
		num(9, 2, "undervoltage_delay", 100, 20000, "undervoltage detection delay").scaled(register.Tenth).unit("ms"),
		enum(9, 4, "runaway_protection", symbols("enabled", "disabled"), "out-of-control protection"),
		num(9, 5, "overload_warning", 1, 100, "overload warning value").unit("%"),
		num(9, 6, "motor_overload_factor", 10, 300, "motor overload factor").unit("%"),
		num(9, 7, "undervoltage_point", 50, 100, "undervoltage protection point").unit("%"),
		num(9, 8, "overspeed_point", 50, 120, "overspeed fault point").unit("%"),
		num(9, 9, "deviation_threshold", 1, 1<<30, "position deviation excessive threshold").wide().unit("pulse"),
		enum(9, 24, "locked_rotor_protection", disabled, "locked-rotor over-temperature protection"),
		enum(9, 25, "overload_protection", symbols("all", "motor_only", "average_only", "none"), "overload protection"),
	}
}

// P10 communication.
func groupP10() []Descriptor {
	return []Descriptor{
		num(10, 0, CommAddress, 0, 247, "communication address"),
		enum(10, 2, BaudRate, baudRates, "Modbus baud rate"),
		enum(10, 3, DataFormat, symbols("no_parity_2stop", "even_parity_1stop", "odd_parity_1stop", "no_parity_1stop"), "Modbus data format"),
		enum(10, 4, SaveEEPROM, noYes, "write communication parameters to EEPROM").wo(),
		enum(10, 5, RS232BaudRate, baudRates, "RS232 baud rate"),
		enum(10, 6, AddressSource, symbols("dip_switch", "host"), "RS485 address source"),
	}
}

// P11 auxiliary functions. Most entries are triggers.
func groupP11() []Descriptor {
	return []Descriptor{
		enum(11, 1, FaultReset, symbols("none", "reset"), "fault reset").wo(),
		enum(11, 2, SoftReset, symbols("none", "reset"), "soft reset").wo(),
		enum(11, 3, "inertia_recognition", symbols("none", "execute"), "inertia recognition").wo(),
		enum(11, 6, EncoderReset, symbols("none", "clear_warnings", "reset_multi_turn"), "absolute encoder reset").wo(),
		enum(11, 7, "soft_limit_set", symbols("none", "set_negative", "set_positive"), "absolute system soft limit set").wo(),
		enum(11, 9, SystemInit, symbols("none", "factory_reset", "clear_fault_record"), "system initialization").wo(),
		enum(11, 10, "forced_dido", symbols("none", "force_di", "force_do", "force_both"), "forced DI/DO enable"),
		bits(11, 11, "forced_di", 0x01FF, "forced DI input"),
		bits(11, 12, "forced_do", 0x001F, "forced DO output"),
		enum(11, 13, EmergencyStop, symbols("none", "stop"), "emergency stop"),
	}
}

// P12 display and identification.
func groupP12() []Descriptor {
	return []Descriptor{
		enum(12, 0, "led_warning_display", symbols("show", "hide"), "LED warning display"),
		num(12, 1, "default_display", 0, 100, "default display"),
		num(12, 3, "speed_display_filter", 0, 10000, "speed display filter time").scaled(register.Tenth).unit("ms"),
		num(12, 11, NonStandardVersion, 0, 65535, "non-standard version number").ro(),
		num(12, 12, SoftwareVersion, 0, 65535, "software version number").ro(),
		num(12, 13, FPGAVersion, 0, 65535, "FPGA version number").ro(),
		num(12, 14, ProductCode, 0, 65535, "product series code").ro(),
	}
}

// SegmentNames returns the displacement, speed, accel/decel and wait time
// parameter names of multi-segment position n (1-based).
func SegmentNames(n int) [4]string {
	return [4]string{
		fmt.Sprintf("seg%d_displacement", n),
		fmt.Sprintf("seg%d_speed", n),
		fmt.Sprintf("seg%d_accel", n),
		fmt.Sprintf("seg%d_wait", n),
	}
}

// P13 multi-segment position.
func groupP13() []Descriptor {
	t := []Descriptor{
		enum(13, 0, MultiSegMode, symbols("single", "cycle", "di_switch"), "multi-segment operation mode"),
		num(13, 1, MultiSegStart, 1, SegmentCount, "start segment"),
		num(13, 2, MultiSegEnd, 1, SegmentCount, "end segment"),
		enum(13, 3, MultiSegInterrupt, symbols("continue", "restart"), "interrupt handling"),
		enum(13, 4, MultiSegWaitUnit, symbols("ms", "s"), "wait time unit"),
		enum(13, 5, MultiSegPositionMode, symbols("incremental", "absolute"), "position mode"),
	}
	for n := 1; n <= SegmentCount; n++ {
		base := uint8(SegmentBaseIndex + SegmentStride*(n-1))
		names := SegmentNames(n)
		t = append(t,
			num(13, base, names[0], displacementMin, displacementMax, fmt.Sprintf("segment %d displacement", n)).wide(),
			num(13, base+2, names[1], 0, 10000, fmt.Sprintf("segment %d max speed", n)).unit("rpm"),
			num(13, base+3, names[2], 0, 65535, fmt.Sprintf("segment %d accel/decel time", n)).unit("ms"),
			num(13, base+4, names[3], 0, 65535, fmt.Sprintf("segment %d wait time", n)),
		)
	}
	return t
}

// SpeedStepNames returns the speed, run time and accel selector parameter
// names of multi-speed step n (1-based).
func SpeedStepNames(n int) [3]string {
	return [3]string{
		fmt.Sprintf("step%d_speed", n),
		fmt.Sprintf("step%d_time", n),
		fmt.Sprintf("step%d_accel_select", n),
	}
}

// P14 multi-speed.
func groupP14() []Descriptor {
	t := []Descriptor{
		enum(14, 0, MultiSpeedMode, symbols("single", "cycle", "di_switch"), "multi-speed operation mode"),
		num(14, 1, MultiSpeedEnd, 1, SpeedStepCount, "end segment"),
		enum(14, 2, MultiSpeedTimeUnit, symbols("s", "min"), "run time unit"),
	}
	for i := 1; i <= 4; i++ {
		t = append(t, num(14, uint8(2+i), fmt.Sprintf("accel_decel_time%d", i), 0, 10000,
			fmt.Sprintf("accel/decel time %d", i)).unit("ms"))
	}
	accel := symbols("time1", "time2", "time3", "time4")
	for n := 1; n <= SpeedStepCount; n++ {
		base := uint8(SpeedStepBaseIndex + SpeedStepStride*(n-1))
		names := SpeedStepNames(n)
		t = append(t,
			num(14, base, names[0], -9000, 9000, fmt.Sprintf("step %d speed", n)).unit("rpm"),
			num(14, base+1, names[1], 0, 65535, fmt.Sprintf("step %d run time", n)),
			enum(14, base+2, names[2], accel, fmt.Sprintf("step %d accel/decel time selector", n)),
		)
	}
	return t
}

// P16 special functions and homing.
func groupP16() []Descriptor {
	enableModes := symbols("off", "di_start", "power_on", "immediate", "current_position", "di_set", "host")
	return []Descriptor{
		enum(16, 0, "fixed_length_enable", disabled, "fixed length interrupt enable"),
		num(16, 1, "fixed_length1_displacement", 0, 1<<30, "fixed length 1 displacement").wide(),
		num(16, 3, "fixed_length1_speed", 0, 9000, "fixed length 1 speed").unit("rpm"),
		num(16, 4, "fixed_length_accel", 0, 1000, "fixed length accel time").unit("ms"),
		num(16, 5, "fixed_length_decel", 0, 1000, "fixed length decel time").unit("ms"),
		enum(16, 6, "lock_release_enable", disabled, "lock release enable"),
		enum(16, 8, HomingEnableMode, enableModes, "homing enable mode"),
		enum(16, 9, HomingMode, homingModes, "homing mode"),
		num(16, 10, HomingHighSpeed, 10, 3000, "homing high speed").unit("rpm"),
		num(16, 11, HomingLowSpeed, 10, 1000, "homing low speed").unit("rpm"),
		num(16, 12, HomingAccel, 0, 65535, "homing acceleration limit").unit("ms"),
		num(16, 13, HomingTimeout, 0, 65535, "homing timeout").unit("ms"),
		num(16, 14, HomeOffset, displacementMin, displacementMax, "mechanical home offset").wide(),
		num(16, 28, "encoder_origin", 0, 1<<32-1, "absolute encoder origin").wide(),
		num(16, 30, "origin_turns", 0, 32767, "encoder turns at origin").unit("turn"),
		num(16, 31, "zero_wait", 0, 65535, "zero wait count").unit("ms"),
		num(16, 37, "fixed_length2_displacement", displacementMin, displacementMax, "fixed length 2 displacement").wide(),
		num(16, 39, "fixed_length2_speed", 0, 9000, "fixed length 2 speed").unit("rpm"),
	}
}

// P18 monitoring. All read-only.
func groupP18() []Descriptor {
	return []Descriptor{
		bits(18, 0, ServoStatus, 0xFFFF, "servo status").ro(),
		num(18, 1, MotorSpeed, -9000, 9000, "motor speed feedback").unit("rpm").ro(),
		num(18, 2, LoadRate, 0, 3000, "average load rate").scaled(register.Tenth).unit("%").ro(),
		num(18, 3, SpeedReference, -9000, 9000, "speed command").unit("rpm").ro(),
		num(18, 4, InternalTorque, -5000, 5000, "internal torque").scaled(register.Tenth).unit("%").ro(),
		num(18, 5, PhaseCurrent, 0, 10000, "phase current RMS").scaled(register.Hundredth).unit("A").ro(),
		num(18, 6, BusVoltage, 0, 10000, "DC bus voltage").scaled(register.Tenth).unit("V").ro(),
		num(18, 7, AbsolutePosition, displacementMin, displacementMax, "absolute position").wide().ro(),
		num(18, 9, ElectricalAngle, 0, 3600, "electrical angle").scaled(register.Tenth).unit("deg").ro(),
	}
}
