// Package config loads the YAML description of a servo bus: the serial
// line, the retry policy and the drives on it with their settings.
//
// Every symbolic or numeric setting is checked against the parameter schema
// by Validate, so a bad file fails before any frame is sent.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/servo"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Line defaults.
const (
	DefaultBaud     = 115200
	DefaultDataBits = 8
	DefaultParity   = "N"
	DefaultStopBits = 1
)

// File is the root of a configuration file.
type File struct {
	Bus    Bus     `yaml:"bus"`
	Retry  Retry   `yaml:"retry"`
	Servos []Servo `yaml:"servos"`
}

// Bus describes the serial line.
type Bus struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	DataBits    int           `yaml:"data_bits"`
	Parity      string        `yaml:"parity"`
	StopBits    int           `yaml:"stop_bits"`
	Timeout     time.Duration `yaml:"timeout"`
	QueueDepth  int           `yaml:"queue_depth"`
	ProtocolLog string        `yaml:"protocol_log"`
}

// Retry is the read retry and write verification policy.
type Retry struct {
	ReadAttempts        int           `yaml:"read_attempts"`
	Delay               time.Duration `yaml:"delay"`
	WriteVerifyAttempts int           `yaml:"write_verify_attempts"`
}

// Servo describes one drive.
type Servo struct {
	Slave       uint8  `yaml:"slave"`
	Name        string `yaml:"name"`
	ControlMode string `yaml:"control_mode"`
	Direction   string `yaml:"direction"`
	MaxSpeed    int    `yaml:"max_speed"`

	Expect   *Expect   `yaml:"expect,omitempty"`
	Homing   *Homing   `yaml:"homing,omitempty"`
	Segments []Segment `yaml:"segments,omitempty"`
	Jog      *Jog      `yaml:"jog,omitempty"`
	Gains    *Gains    `yaml:"gains,omitempty"`
	Comm     *Comm     `yaml:"comm,omitempty"`
}

// Expect lists motor parameters the drive must report.
type Expect struct {
	MotorModel        *uint16  `yaml:"motor_model,omitempty"`
	RatedCurrent      *float64 `yaml:"rated_current,omitempty"`
	EncoderType       string   `yaml:"encoder_type,omitempty"`
	EncoderResolution *uint32  `yaml:"encoder_resolution,omitempty"`
}

// Homing is a homing setup.
type Homing struct {
	Mode      string `yaml:"mode"`
	HighSpeed int    `yaml:"high_speed"`
	LowSpeed  int    `yaml:"low_speed"`
	Accel     int    `yaml:"accel"`
	Timeout   int    `yaml:"timeout"`
	Offset    int32  `yaml:"offset"`
	Enable    string `yaml:"enable,omitempty"`
}

// Segment is one multi-segment position entry.
type Segment struct {
	Segment      int   `yaml:"segment"`
	Displacement int32 `yaml:"displacement"`
	Speed        int   `yaml:"speed"`
	Accel        int   `yaml:"accel"`
	Wait         int   `yaml:"wait"`
}

// Jog is a jog setup.
type Jog struct {
	Speed int `yaml:"speed"`
	Accel int `yaml:"accel"`
	Decel int `yaml:"decel"`
}

// Gains is the first gain set.
type Gains struct {
	PositionGain  float64 `yaml:"position_gain"`
	SpeedGain     float64 `yaml:"speed_gain"`
	SpeedIntegral float64 `yaml:"speed_integral"`
	SpeedFilter   float64 `yaml:"speed_filter"`
}

// Comm is a drive communication setup.
type Comm struct {
	Address       uint8  `yaml:"address"`
	Baud          int    `yaml:"baud"`
	DataFormat    string `yaml:"data_format"`
	AddressSource string `yaml:"address_source"`
	Save          bool   `yaml:"save"`
}

// Default returns a configuration for a 115200 8N1 line with no drives.
func Default() *File {
	sc := servo.DefaultConfig()
	return &File{
		Bus: Bus{
			Baud:       DefaultBaud,
			DataBits:   DefaultDataBits,
			Parity:     DefaultParity,
			StopBits:   DefaultStopBits,
			Timeout:    bus.DefaultTimeout,
			QueueDepth: bus.DefaultQueueDepth,
		},
		Retry: Retry{
			ReadAttempts:        sc.ReadAttempts,
			Delay:               sc.RetryDelay,
			WriteVerifyAttempts: sc.WriteVerifyAttempts,
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for i := range f.Servos {
		f.Servos[i].applyDefaults()
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Servo) applyDefaults() {
	if s.ControlMode == "" {
		s.ControlMode = servo.PositionMode.String()
	}
	if s.Direction == "" {
		s.Direction = servo.CCWForward.String()
	}
	if s.MaxSpeed == 0 {
		s.MaxSpeed = servo.DefaultMaxSpeed
	}
}

// Marshal encodes the configuration as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Servo returns the drive configured at slave id.
func (f *File) Servo(id uint8) (Servo, bool) {
	for _, s := range f.Servos {
		if s.Slave == id {
			return s, true
		}
	}
	return Servo{}, false
}

// Validate checks the whole file and reports every problem found.
func (f *File) Validate() error {
	var errs []error
	add := func(path string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}

	add("bus", f.Bus.validate())
	if f.Retry.ReadAttempts < 1 {
		add("retry.read_attempts", fmt.Errorf("%d (want >= 1)", f.Retry.ReadAttempts))
	}
	if f.Retry.Delay < 0 {
		add("retry.delay", fmt.Errorf("negative delay %s", f.Retry.Delay))
	}
	if f.Retry.WriteVerifyAttempts < 0 {
		add("retry.write_verify_attempts", fmt.Errorf("%d (want >= 0)", f.Retry.WriteVerifyAttempts))
	}

	seen := make(map[uint8]bool)
	for i, s := range f.Servos {
		path := fmt.Sprintf("servos[%d]", i)
		if s.Slave == bus.BroadcastID || s.Slave > bus.MaxSlaveID {
			add(path+".slave", fmt.Errorf("%w: %d (want 1..%d)", bus.ErrInvalidSlaveID, s.Slave, bus.MaxSlaveID))
		}
		if seen[s.Slave] {
			add(path+".slave", fmt.Errorf("%w: %d", bus.ErrDuplicateSlave, s.Slave))
		}
		seen[s.Slave] = true
		for _, err := range s.validate() {
			add(path+"."+err.path, err.err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (b Bus) validate() error {
	var errs []error
	if b.Baud <= 0 {
		errs = append(errs, fmt.Errorf("baud %d", b.Baud))
	}
	if b.DataBits != 7 && b.DataBits != 8 {
		errs = append(errs, fmt.Errorf("data_bits %d (want 7 or 8)", b.DataBits))
	}
	switch strings.ToUpper(b.Parity) {
	case "N", "E", "O", "NONE", "EVEN", "ODD":
	default:
		errs = append(errs, fmt.Errorf("parity %q (want N, E or O)", b.Parity))
	}
	if b.StopBits != 1 && b.StopBits != 2 {
		errs = append(errs, fmt.Errorf("stop_bits %d (want 1 or 2)", b.StopBits))
	}
	if b.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %s", b.Timeout))
	}
	return errors.Join(errs...)
}

// ParityCode returns the parity as "N", "E" or "O".
func (b Bus) ParityCode() string {
	switch strings.ToUpper(b.Parity) {
	case "E", "EVEN":
		return "E"
	case "O", "ODD":
		return "O"
	default:
		return "N"
	}
}

// ManagerConfig returns the bus manager settings of the line.
func (b Bus) ManagerConfig(logger *slog.Logger) bus.Config {
	cfg := bus.DefaultConfig()
	cfg.Port = b.Port
	cfg.Logger = logger
	if b.Timeout > 0 {
		cfg.Timeout = b.Timeout
	}
	if b.QueueDepth > 0 {
		cfg.QueueDepth = b.QueueDepth
	}
	return cfg
}

type fieldError struct {
	path string
	err  error
}

func (s Servo) validate() []fieldError {
	var errs []fieldError
	check := func(path string, err error) {
		if err != nil {
			errs = append(errs, fieldError{path, err})
		}
	}

	_, err := s.ClientConfig(Retry{ReadAttempts: 1}, nil)
	check("settings", err)

	if s.Homing != nil {
		_, err := s.HomingConfig()
		check("homing", err)
	}
	for i, seg := range s.Segments {
		check(fmt.Sprintf("segments[%d]", i), seg.validate())
	}
	if s.Jog != nil {
		check("jog.speed", checkRaw(param.JogSpeed, int64(s.Jog.Speed)))
		check("jog.accel", checkRaw(param.AccelTime, int64(s.Jog.Accel)))
		check("jog.decel", checkRaw(param.DecelTime, int64(s.Jog.Decel)))
	}
	if s.Gains != nil {
		g := s.Gains
		check("gains.position_gain", checkValue(param.PositionGain, g.PositionGain))
		check("gains.speed_gain", checkValue(param.SpeedGain, g.SpeedGain))
		check("gains.speed_integral", checkValue(param.SpeedIntegral, g.SpeedIntegral))
		check("gains.speed_filter", checkValue(param.SpeedFilter, g.SpeedFilter))
	}
	if s.Comm != nil {
		_, err := s.CommConfig()
		check("comm", err)
	}
	return errs
}

func (seg Segment) validate() error {
	ds, err := param.Default().SegmentParams(seg.Segment)
	if err != nil {
		return err
	}
	return errors.Join(
		encodeErr(param.EncodeRaw(ds.Displacement, int64(seg.Displacement))),
		encodeErr(param.EncodeRaw(ds.Speed, int64(seg.Speed))),
		encodeErr(param.EncodeRaw(ds.AccelDecel, int64(seg.Accel))),
		encodeErr(param.EncodeRaw(ds.Wait, int64(seg.Wait))),
	)
}

func encodeErr(_ []uint16, err error) error { return err }

func checkRaw(name string, v int64) error {
	return encodeErr(param.EncodeRaw(param.Default().MustLookup(name), v))
}

func checkValue(name string, v float64) error {
	return encodeErr(param.Encode(param.Default().MustLookup(name), v))
}

// ClientConfig builds the servo client configuration of the drive.
func (s Servo) ClientConfig(r Retry, logger *slog.Logger) (servo.Config, error) {
	cfg := servo.DefaultConfig()
	cfg.ReadAttempts = r.ReadAttempts
	cfg.RetryDelay = r.Delay
	cfg.WriteVerifyAttempts = r.WriteVerifyAttempts
	cfg.Logger = logger
	cfg.MaxSpeed = s.MaxSpeed

	var errs []error
	mode, err := servo.ParseControlMode(s.ControlMode)
	errs = append(errs, err)
	cfg.ControlMode = mode

	dir, err := servo.ParseDirection(s.Direction)
	errs = append(errs, err)
	cfg.Direction = dir

	errs = append(errs, checkRaw(param.MaxSpeed, int64(s.MaxSpeed)))

	if e := s.Expect; e != nil {
		cfg.MotorModelCode = e.MotorModel
		cfg.RatedCurrent = e.RatedCurrent
		cfg.EncoderResolution = e.EncoderResolution
		if e.EncoderType != "" {
			et, err := servo.ParseEncoderType(e.EncoderType)
			errs = append(errs, err)
			cfg.EncoderType = &et
		}
	}
	return cfg, errors.Join(errs...)
}

// HomingConfig resolves the homing section.
func (s Servo) HomingConfig() (servo.HomingConfig, error) {
	if s.Homing == nil {
		return servo.DefaultHomingConfig(), nil
	}
	h := s.Homing
	cfg := servo.HomingConfig{
		HighSpeed:  h.HighSpeed,
		LowSpeed:   h.LowSpeed,
		AccelLimit: h.Accel,
		Timeout:    h.Timeout,
		Offset:     h.Offset,
	}

	var errs []error
	mode, err := servo.ParseHomingMode(h.Mode)
	errs = append(errs, err)
	cfg.Mode = mode
	if h.Enable != "" {
		em, err := servo.ParseHomingEnableMode(h.Enable)
		errs = append(errs, err)
		cfg.Enable = &em
	}

	errs = append(errs,
		checkRaw(param.HomingHighSpeed, int64(h.HighSpeed)),
		checkRaw(param.HomingLowSpeed, int64(h.LowSpeed)),
		checkRaw(param.HomingAccel, int64(h.Accel)),
		checkRaw(param.HomingTimeout, int64(h.Timeout)),
	)
	if h.LowSpeed > h.HighSpeed {
		errs = append(errs, fmt.Errorf("%w: low_speed %d above high_speed %d", param.ErrOutOfRange, h.LowSpeed, h.HighSpeed))
	}
	return cfg, errors.Join(errs...)
}

// SegmentConfigs converts the segment list.
func (s Servo) SegmentConfigs() []servo.SegmentConfig {
	out := make([]servo.SegmentConfig, 0, len(s.Segments))
	for _, seg := range s.Segments {
		out = append(out, servo.SegmentConfig{
			Segment:      seg.Segment,
			Displacement: seg.Displacement,
			Speed:        seg.Speed,
			AccelDecel:   seg.Accel,
			Wait:         seg.Wait,
		})
	}
	return out
}

// JogConfig converts the jog section, or returns the defaults.
func (s Servo) JogConfig() servo.JogConfig {
	if s.Jog == nil {
		return servo.DefaultJogConfig()
	}
	return servo.JogConfig{Speed: s.Jog.Speed, AccelTime: s.Jog.Accel, DecelTime: s.Jog.Decel}
}

// GainParams converts the gains section, or returns the defaults.
func (s Servo) GainParams() servo.GainParams {
	if s.Gains == nil {
		return servo.DefaultGainParams()
	}
	return servo.GainParams{
		PositionGain:  s.Gains.PositionGain,
		SpeedGain:     s.Gains.SpeedGain,
		SpeedIntegral: s.Gains.SpeedIntegral,
		SpeedFilter:   s.Gains.SpeedFilter,
	}
}

// CommConfig resolves the comm section.
func (s Servo) CommConfig() (servo.CommConfig, error) {
	cfg := servo.DefaultCommConfig()
	if s.Comm == nil {
		return cfg, nil
	}
	c := s.Comm
	cfg.Address = c.Address
	cfg.Save = c.Save

	var errs []error
	errs = append(errs, checkRaw(param.CommAddress, int64(c.Address)))
	if c.Baud != 0 {
		b, err := servo.BaudRateFor(c.Baud)
		errs = append(errs, err)
		cfg.BaudRate = b
	}
	if c.DataFormat != "" {
		df, err := servo.ParseDataFormat(c.DataFormat)
		errs = append(errs, err)
		cfg.DataFormat = df
	}
	switch strings.ToLower(c.AddressSource) {
	case "", "dip", "dip_switch":
		cfg.AddressSource = servo.AddressFromDIP
	case "host":
		cfg.AddressSource = servo.AddressFromHost
	default:
		errs = append(errs, fmt.Errorf("%w: address_source %q", param.ErrUnknownVariant, c.AddressSource))
	}
	return cfg, errors.Join(errs...)
}
