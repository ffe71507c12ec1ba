package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/config"
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/servo"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
)

// app runs dsyrsctl commands against the drives of one bus.
type app struct {
	out    io.Writer
	file   *config.File
	mgr    *bus.Manager
	logger *slog.Logger

	slave    uint8
	sessions map[uint8]session
}

type session struct {
	slave  *bus.Slave
	client *servo.Client
}

func newApp(out io.Writer, file *config.File, mgr *bus.Manager, logger *slog.Logger, slave uint8) *app {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &app{
		out:      out,
		file:     file,
		mgr:      mgr,
		logger:   logger,
		slave:    slave,
		sessions: make(map[uint8]session),
	}
}

type command struct {
	name  string
	args  string
	help  string
	run   func(a *app, ctx context.Context, args []string) error
	shell bool // only meaningful in the interactive shell
}

var commands []command

func init() {
	commands = []command{
		{name: "status", help: "Show state and monitoring values", run: (*app).cmdStatus},
		{name: "info", help: "Show identification and motor parameters", run: (*app).cmdInfo},
		{name: "init", help: "Check identity and apply control mode, direction and max speed", run: (*app).cmdInit},
		{name: "get", args: "<param>...", help: "Read parameters by name or PXX.YY code", run: (*app).cmdGet},
		{name: "set", args: "<param> <value>", help: "Write a parameter (symbol, code or number)", run: (*app).cmdSet},
		{name: "params", args: "[group]", help: "List the parameter table", run: (*app).cmdParams},
		{name: "home", help: "Apply the homing setup and start homing", run: (*app).cmdHome},
		{name: "segment", args: "[<n> <disp> [speed] [accel] [wait]]", help: "Configure one segment, or the configured list", run: (*app).cmdSegment},
		{name: "apply", help: "Apply every configured section to the drive", run: (*app).cmdApply},
		{name: "save", help: "Store communication parameters to EEPROM", run: (*app).cmdSave},
		{name: "reset-fault", help: "Clear a latched fault", run: (*app).cmdResetFault},
		{name: "estop", args: "[clear]", help: "Trigger or clear the emergency stop", run: (*app).cmdEstop},
		{name: "slaves", help: "List configured and registered slaves", run: (*app).cmdSlaves},
		{name: "slave", args: "<id>", help: "Switch the current slave", run: (*app).cmdSlave, shell: true},
	}
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// run executes one command line already split into words.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := lookupCommand(strings.ToLower(args[0]))
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}
	if err := cmd.run(a, ctx, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return fmt.Errorf("usage: %s %s", cmd.name, cmd.args)
		}
		return err
	}
	return nil
}

// client returns the session of the current slave, registering it on the
// bus on first use.
func (a *app) client() (*servo.Client, error) {
	if s, ok := a.sessions[a.slave]; ok {
		return s.client, nil
	}
	s, err := a.mgr.Register(a.slave)
	if err != nil {
		return nil, err
	}
	cfg, err := a.servoConfig().ClientConfig(a.file.Retry, a.logger)
	if err != nil {
		_ = s.Release()
		return nil, err
	}
	c := servo.New(s, cfg)
	a.sessions[a.slave] = session{slave: s, client: c}
	return c, nil
}

// servoConfig returns the configured drive at the current slave, or the
// defaults for an unlisted one.
func (a *app) servoConfig() config.Servo {
	if sc, ok := a.file.Servo(a.slave); ok {
		return sc
	}
	return config.Servo{
		Slave:       a.slave,
		ControlMode: servo.PositionMode.String(),
		Direction:   servo.CCWForward.String(),
		MaxSpeed:    servo.DefaultMaxSpeed,
	}
}

func (a *app) cmdStatus(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Slave\t%d\n", c.SlaveID())
	fmt.Fprintf(tw, "State\t%s (code %d, raw 0x%04X)\n", st.State, st.StateCode, st.Raw)
	fmt.Fprintf(tw, "Speed\t%d rpm (ref %d rpm)\n", st.Speed, st.SpeedReference)
	fmt.Fprintf(tw, "Load\t%.1f %%\n", st.LoadRate)
	fmt.Fprintf(tw, "Torque\t%.1f %%\n", st.Torque)
	fmt.Fprintf(tw, "Current\t%.2f A\n", st.Current)
	fmt.Fprintf(tw, "Bus voltage\t%.1f V\n", st.BusVoltage)
	fmt.Fprintf(tw, "Position\t%d\n", st.Position)
	fmt.Fprintf(tw, "Electrical angle\t%.1f deg\n", st.ElectricalAngle)
	return tw.Flush()
}

func (a *app) cmdInfo(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	product, err := c.ProductCode(ctx)
	if err != nil {
		return err
	}
	sw, err := c.SoftwareVersion(ctx)
	if err != nil {
		return err
	}
	fpga, err := c.FPGAVersion(ctx)
	if err != nil {
		return err
	}
	motor, err := c.MotorInfo(ctx)
	if err != nil {
		return err
	}
	id := servo.Identity{ProductCode: product, SoftwareVersion: sw, FPGAVersion: fpga}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Slave\t%d\n", c.SlaveID())
	fmt.Fprintf(tw, "Identity\t%s\n", id)
	fmt.Fprintf(tw, "Motor model\t0x%04X\n", motor.Model)
	fmt.Fprintf(tw, "Rated current\t%.2f A\n", motor.RatedCurrent)
	fmt.Fprintf(tw, "Encoder\t%s, %d counts/rev\n", motor.EncoderType, motor.EncoderResolution)
	return tw.Flush()
}

func (a *app) cmdInit(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	id, _ := c.Identity()
	fmt.Fprintf(a.out, "slave %d initialized: %s\n", c.SlaveID(), id)
	return nil
}

func (a *app) cmdGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	for _, name := range args {
		v, err := c.ReadParam(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s = %s\n", v.Descriptor, v)
	}
	return nil
}

func (a *app) cmdSet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.WriteString(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *app) cmdParams(_ context.Context, args []string) error {
	schema := param.Default()
	ds := schema.Descriptors()
	if len(args) > 0 {
		g, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(args[0]), "P"), 10, 8)
		if err != nil {
			return fmt.Errorf("invalid group %q", args[0])
		}
		ds = schema.Group(uint8(g))
		if len(ds) == 0 {
			return fmt.Errorf("%w: group P%02d", param.ErrUnknownParameter, g)
		}
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tACCESS\tRANGE\tUNIT\tDESCRIPTION")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", d.Code(), d.Name, d.Access, rangeOf(d), d.Unit, d.Description)
	}
	return tw.Flush()
}

func rangeOf(d param.Descriptor) string {
	if d.Kind == param.KindEnum && d.Enum != nil {
		entries := d.Enum.Entries()
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Symbol
		}
		return strings.Join(names, "|")
	}
	return d.MinValue().String() + ".." + d.MaxValue().String()
}

func (a *app) cmdHome(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	cfg, err := a.servoConfig().HomingConfig()
	if err != nil {
		return err
	}
	if cfg.Enable == nil {
		start := servo.HomingImmediate
		cfg.Enable = &start
	}
	if err := c.ApplyHomingConfig(ctx, cfg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "homing %s started (%s)\n", cfg.Mode, *cfg.Enable)
	return nil
}

func (a *app) cmdSegment(ctx context.Context, args []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		segs := a.servoConfig().SegmentConfigs()
		if len(segs) == 0 {
			return fmt.Errorf("no segments configured for slave %d", a.slave)
		}
		if err := c.ConfigureSegments(ctx, segs); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%d segments written\n", len(segs))
		return nil
	}
	if len(args) < 2 || len(args) > 5 {
		return errUsage
	}

	nums := make([]int64, len(args))
	for i, s := range args {
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		nums[i] = n
	}
	seg := servo.DefaultSegmentConfig(int(nums[0]))
	seg.Displacement = int32(nums[1])
	if len(nums) > 2 {
		seg.Speed = int(nums[2])
	}
	if len(nums) > 3 {
		seg.AccelDecel = int(nums[3])
	}
	if len(nums) > 4 {
		seg.Wait = int(nums[4])
	}
	if err := c.ConfigureSegment(ctx, seg); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "segment %d written\n", seg.Segment)
	return nil
}

func (a *app) cmdApply(ctx context.Context, _ []string) error {
	sc, ok := a.file.Servo(a.slave)
	if !ok {
		return fmt.Errorf("slave %d is not configured", a.slave)
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}
	if sc.Gains != nil {
		if err := c.ApplyGainParams(ctx, sc.GainParams()); err != nil {
			return err
		}
	}
	if sc.Jog != nil {
		if err := c.ApplyJogConfig(ctx, sc.JogConfig()); err != nil {
			return err
		}
	}
	if segs := sc.SegmentConfigs(); len(segs) > 0 {
		if err := c.ConfigureSegments(ctx, segs); err != nil {
			return err
		}
	}
	if sc.Homing != nil {
		h, err := sc.HomingConfig()
		if err != nil {
			return err
		}
		if err := c.ApplyHomingConfig(ctx, h); err != nil {
			return err
		}
	}
	if sc.Comm != nil {
		cc, err := sc.CommConfig()
		if err != nil {
			return err
		}
		if err := c.ApplyCommConfig(ctx, cc); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.out, "slave %d configured\n", a.slave)
	return nil
}

func (a *app) cmdSave(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.SaveToEEPROM(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *app) cmdResetFault(ctx context.Context, _ []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	if err := c.ResetFault(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *app) cmdEstop(ctx context.Context, args []string) error {
	c, err := a.client()
	if err != nil {
		return err
	}
	switch {
	case len(args) == 0:
		err = c.EmergencyStop(ctx)
	case len(args) == 1 && args[0] == "clear":
		err = c.ClearEmergencyStop(ctx)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *app) cmdSlaves(_ context.Context, _ []string) error {
	ids := map[uint8]string{}
	for _, s := range a.file.Servos {
		ids[s.Slave] = s.Name
	}
	registered := map[uint8]bool{}
	for _, id := range a.mgr.Slaves() {
		registered[id] = true
		if _, ok := ids[id]; !ok {
			ids[id] = ""
		}
	}
	sorted := make([]uint8, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLAVE\tNAME\tSESSION")
	for _, id := range sorted {
		mark := ""
		if id == a.slave {
			mark = "*"
		}
		session := "-"
		if registered[id] {
			session = "open"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%s\n", id, mark, ids[id], session)
	}
	return tw.Flush()
}

func (a *app) cmdSlave(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil || n == uint64(bus.BroadcastID) || n > uint64(bus.MaxSlaveID) {
		return fmt.Errorf("%w: %s (want 1..%d)", bus.ErrInvalidSlaveID, args[0], bus.MaxSlaveID)
	}
	a.slave = uint8(n)
	fmt.Fprintf(a.out, "slave %d\n", a.slave)
	return nil
}

// close releases every open session.
func (a *app) close() {
	for id, s := range a.sessions {
		if err := s.slave.Release(); err != nil {
			a.logger.Warn("release session", "slave", id, "error", err)
		}
		delete(a.sessions, id)
	}
}
