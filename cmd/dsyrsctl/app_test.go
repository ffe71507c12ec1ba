package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FrenchPOC/dsyrs-go/pkg/bus"
	"github.com/FrenchPOC/dsyrs-go/pkg/config"
	"github.com/FrenchPOC/dsyrs-go/pkg/param"
	"github.com/FrenchPOC/dsyrs-go/pkg/register"
	"github.com/FrenchPOC/dsyrs-go/pkg/transport/sim"
)

const testConfig = `
retry:
  delay: 1ms
servos:
  - slave: 1
    name: x-axis
    direction: cw_forward
    max_speed: 2000
    jog:
      speed: 150
      accel: 200
      decel: 300
    segments:
      - segment: 2
        displacement: -500
        speed: 400
`

type harness struct {
	line *sim.Bus
	mgr  *bus.Manager
	app  *app
	out  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	file, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)

	line := sim.New()
	line.AddServo(1)
	line.AddServo(2)
	mgr := bus.NewManager(line, bus.DefaultConfig())
	t.Cleanup(func() { _ = mgr.Close() })

	var out bytes.Buffer
	a := newApp(&out, file, mgr, nil, 1)
	t.Cleanup(a.close)
	return &harness{line: line, mgr: mgr, app: a, out: &out}
}

func (h *harness) run(t *testing.T, args ...string) string {
	t.Helper()
	h.out.Reset()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.app.run(ctx, args))
	return h.out.String()
}

func (h *harness) fail(args ...string) error {
	h.out.Reset()
	return h.app.run(context.Background(), args)
}

func addr(name string) register.Address {
	return param.Default().MustLookup(name).Address()
}

func TestStatusCommand(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "status")
	assert.Contains(t, out, "READY")
	assert.Contains(t, out, "310.5 V")
}

func TestInfoCommand(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "info")
	assert.Contains(t, out, "product 0x5253")
	assert.Contains(t, out, "0x0310")
	assert.Contains(t, out, "2.80 A")
}

func TestGetAndSet(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "get", "max_speed")
	assert.Contains(t, out, "P00.07 max_speed = 3000 rpm")

	h.run(t, "set", "max_speed", "2500")
	assert.Equal(t, []uint16{2500}, h.line.Drive(1).Get(addr(param.MaxSpeed), 1))

	out = h.run(t, "get", "P00.07")
	assert.Contains(t, out, "= 2500 rpm")

	h.run(t, "set", "control_mode", "speed")
	assert.Equal(t, []uint16{1}, h.line.Drive(1).Get(addr(param.ControlMode), 1))
}

func TestSetRejectsOutOfRange(t *testing.T) {
	h := newHarness(t)
	err := h.fail("set", "max_speed", "20000")
	assert.ErrorIs(t, err, param.ErrOutOfRange)
	assert.Empty(t, h.line.Writes())
}

func TestParamsCommand(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "params", "0")
	assert.Contains(t, out, "P00.07")
	assert.Contains(t, out, "max_speed")
	assert.NotContains(t, out, "P18.")

	out = h.run(t, "params", "P18")
	assert.Contains(t, out, "P18.00")

	assert.ErrorIs(t, h.fail("params", "99"), param.ErrUnknownParameter)
	assert.Error(t, h.fail("params", "x"))
}

func TestEstopAndReset(t *testing.T) {
	h := newHarness(t)
	drive := h.line.Drive(1)

	h.run(t, "estop")
	assert.Equal(t, sim.StatusAlarm, drive.State())
	assert.Contains(t, h.run(t, "status"), "ALARM")

	h.run(t, "estop", "clear")
	assert.Equal(t, sim.StatusReady, drive.State())

	drive.SetState(sim.StatusFault)
	h.run(t, "reset-fault")
	assert.Equal(t, sim.StatusReady, drive.State())

	assert.ErrorContains(t, h.fail("estop", "now"), "usage: estop [clear]")
}

func TestSlaveSwitching(t *testing.T) {
	h := newHarness(t)

	h.run(t, "status")
	out := h.run(t, "slave", "2")
	assert.Equal(t, "slave 2\n", out)

	h.run(t, "set", "max_speed", "1000")
	assert.Equal(t, []uint16{1000}, h.line.Drive(2).Get(addr(param.MaxSpeed), 1))
	assert.Equal(t, []uint16{3000}, h.line.Drive(1).Get(addr(param.MaxSpeed), 1))

	out = h.run(t, "slaves")
	assert.Contains(t, out, "1")
	assert.Contains(t, out, "x-axis")
	assert.Contains(t, out, "2*")
	assert.ElementsMatch(t, []uint8{1, 2}, h.mgr.Slaves())

	assert.ErrorIs(t, h.fail("slave", "0"), bus.ErrInvalidSlaveID)
	assert.ErrorIs(t, h.fail("slave", "248"), bus.ErrInvalidSlaveID)
}

func TestSegmentCommand(t *testing.T) {
	h := newHarness(t)
	drive := h.line.Drive(1)
	seg, err := param.Default().SegmentParams(1)
	require.NoError(t, err)

	h.run(t, "segment", "1", "10000")
	assert.Equal(t, []uint16{10000, 0}, drive.Get(seg.Displacement.Address(), 2))
	assert.Equal(t, []uint16{200}, drive.Get(seg.Speed.Address(), 1))

	h.run(t, "segment", "1", "-1", "300", "40", "5")
	assert.Equal(t, []uint16{0xFFFF, 0xFFFF}, drive.Get(seg.Displacement.Address(), 2))
	assert.Equal(t, []uint16{300}, drive.Get(seg.Speed.Address(), 1))
	assert.Equal(t, []uint16{40}, drive.Get(seg.AccelDecel.Address(), 1))
	assert.Equal(t, []uint16{5}, drive.Get(seg.Wait.Address(), 1))

	out := h.run(t, "segment")
	assert.Equal(t, "1 segments written\n", out)
	seg2, err := param.Default().SegmentParams(2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{400}, drive.Get(seg2.Speed.Address(), 1))

	assert.ErrorIs(t, h.fail("segment", "17", "1"), param.ErrInvalidSegment)
	assert.Error(t, h.fail("segment", "1", "x"))
	assert.ErrorContains(t, h.fail("segment", "1"), "usage: segment")
}

func TestApplyCommand(t *testing.T) {
	h := newHarness(t)
	drive := h.line.Drive(1)

	out := h.run(t, "apply")
	assert.Equal(t, "slave 1 configured\n", out)
	assert.Equal(t, []uint16{1}, drive.Get(addr(param.Direction), 1))
	assert.Equal(t, []uint16{2000}, drive.Get(addr(param.MaxSpeed), 1))
	assert.Equal(t, []uint16{150}, drive.Get(addr(param.JogSpeed), 1))
	assert.Equal(t, []uint16{200}, drive.Get(addr(param.AccelTime), 1))
	assert.Equal(t, []uint16{300}, drive.Get(addr(param.DecelTime), 1))

	h.run(t, "slave", "2")
	assert.ErrorContains(t, h.fail("apply"), "slave 2 is not configured")
}

func TestInitCommand(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "init")
	assert.Contains(t, out, "slave 1 initialized: product 0x5253")
}

func TestCommandErrors(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.fail("spin"), errUnknownCommand)
	assert.ErrorContains(t, h.fail("get"), "usage: get <param>...")
	assert.ErrorContains(t, h.fail("set", "max_speed"), "usage: set <param> <value>")
	assert.ErrorIs(t, h.fail("get", "no_such_param"), param.ErrUnknownParameter)
	assert.NoError(t, h.fail())
}

func TestUnreachableSlave(t *testing.T) {
	h := newHarness(t)
	h.run(t, "slave", "9")
	err := h.fail("status")
	assert.ErrorIs(t, err, bus.ErrTransportTimeout)
}

func TestCloseReleasesSessions(t *testing.T) {
	h := newHarness(t)
	h.run(t, "status")
	h.run(t, "slave", "2")
	h.run(t, "status")
	require.Len(t, h.mgr.Slaves(), 2)

	h.app.close()
	assert.Empty(t, h.mgr.Slaves())
	assert.Empty(t, h.app.sessions)

	// A new command registers the slave again.
	h.run(t, "status")
	assert.Equal(t, []uint8{2}, h.mgr.Slaves())
}

func TestShellLine(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.False(t, shellLine(ctx, h.app, `get "max_speed"`))
	assert.Contains(t, h.out.String(), "= 3000 rpm")

	h.out.Reset()
	assert.False(t, shellLine(ctx, h.app, "warp 9"))
	assert.Contains(t, h.out.String(), "Unknown command: warp")

	h.out.Reset()
	assert.False(t, shellLine(ctx, h.app, `get "max_speed`))
	assert.Contains(t, h.out.String(), "Error:")

	h.out.Reset()
	assert.False(t, shellLine(ctx, h.app, "help"))
	assert.Contains(t, h.out.String(), "reset-fault")

	assert.False(t, shellLine(ctx, h.app, "   "))
	assert.True(t, shellLine(ctx, h.app, "quit"))
	assert.True(t, shellLine(ctx, h.app, "EXIT"))
}
