package servo

import (
	"context"
	"fmt"

	"github.com/FrenchPOC/dsyrs-go/pkg/param"
)

// SetMultiSegMode sets the multi-segment operation mode.
func (c *Client) SetMultiSegMode(ctx context.Context, mode MultiSegMode) error {
	return c.setCode(ctx, param.MultiSegMode, uint16(mode))
}

// SetMultiSegStart sets the first segment run (1-16).
func (c *Client) SetMultiSegStart(ctx context.Context, segment int) error {
	return c.setRaw(ctx, param.MultiSegStart, int64(segment))
}

// SetMultiSegEnd sets the last segment run (1-16).
func (c *Client) SetMultiSegEnd(ctx context.Context, segment int) error {
	return c.setRaw(ctx, param.MultiSegEnd, int64(segment))
}

// SetMultiSegPositionMode selects incremental or absolute displacements.
func (c *Client) SetMultiSegPositionMode(ctx context.Context, mode SegPositionMode) error {
	return c.setCode(ctx, param.MultiSegPositionMode, uint16(mode))
}

// SetMultiSegWaitUnit sets the unit of segment wait times.
func (c *Client) SetMultiSegWaitUnit(ctx context.Context, unit WaitUnit) error {
	return c.setCode(ctx, param.MultiSegWaitUnit, uint16(unit))
}

// SegmentConfig is one multi-segment position entry.
type SegmentConfig struct {
	Segment      int   // 1-16
	Displacement int32 // pulses
	Speed        int   // rpm
	AccelDecel   int   // ms
	Wait         int   // in the multi-segment wait unit
}

// DefaultSegmentConfig returns segment n with no displacement, 200 rpm and
// a 50 ms ramp.
func DefaultSegmentConfig(n int) SegmentConfig {
	return SegmentConfig{Segment: n, Speed: 200, AccelDecel: 50}
}

// ConfigureSegment writes displacement, speed, accel/decel time and wait
// time of one segment, in that order.
func (c *Client) ConfigureSegment(ctx context.Context, seg SegmentConfig) error {
	p := c.plan()
	c.planSegment(p, seg)
	return c.apply(ctx, fmt.Sprintf("configure segment %d", seg.Segment), p)
}

// ConfigureSegments validates every segment and then writes them in slice
// order.
func (c *Client) ConfigureSegments(ctx context.Context, segs []SegmentConfig) error {
	p := c.plan()
	for _, seg := range segs {
		c.planSegment(p, seg)
	}
	return c.apply(ctx, "configure segments", p)
}

func (c *Client) planSegment(p *plan, seg SegmentConfig) {
	ds, err := c.schema.SegmentParams(seg.Segment)
	if err != nil {
		p.fail(err)
		return
	}
	p.raw(ds.Displacement.Name, int64(seg.Displacement))
	p.raw(ds.Speed.Name, int64(seg.Speed))
	p.raw(ds.AccelDecel.Name, int64(seg.AccelDecel))
	p.raw(ds.Wait.Name, int64(seg.Wait))
}
