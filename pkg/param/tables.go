package param

import "fmt"

// Segment holds the descriptors of one multi-segment position entry.
type Segment struct {
	Displacement Descriptor
	Speed        Descriptor
	AccelDecel   Descriptor
	Wait         Descriptor
}

// SegmentParams returns the descriptors of multi-segment position n (1-16).
func (s *Schema) SegmentParams(n int) (Segment, error) {
	if n < 1 || n > SegmentCount {
		return Segment{}, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidSegment, n, SegmentCount)
	}
	var ds [4]Descriptor
	for i, name := range SegmentNames(n) {
		d, err := s.LookupByName(name)
		if err != nil {
			return Segment{}, err
		}
		ds[i] = d
	}
	return Segment{Displacement: ds[0], Speed: ds[1], AccelDecel: ds[2], Wait: ds[3]}, nil
}

// SpeedStep holds the descriptors of one multi-speed step.
type SpeedStep struct {
	Speed       Descriptor
	RunTime     Descriptor
	AccelSelect Descriptor
}

// SpeedStepParams returns the descriptors of multi-speed step n (1-16).
func (s *Schema) SpeedStepParams(n int) (SpeedStep, error) {
	if n < 1 || n > SpeedStepCount {
		return SpeedStep{}, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidSegment, n, SpeedStepCount)
	}
	var ds [3]Descriptor
	for i, name := range SpeedStepNames(n) {
		d, err := s.LookupByName(name)
		if err != nil {
			return SpeedStep{}, err
		}
		ds[i] = d
	}
	return SpeedStep{Speed: ds[0], RunTime: ds[1], AccelSelect: ds[2]}, nil
}
