package judge

import (
	"time"
)

type Direction int8

const (
	Down    Direction = -1
	Neutral Direction = 0
	Up      Direction = 1
)

// Scratch turns a signed turntable axis into lane inputs. An axis must go
// past Press to start a direction and fall under Release to end it.
type Scratch struct {
	Lane    int
	Press   float64
	Release float64

	dir Direction
}

func NewScratch(lane int, press, release float64) *Scratch {
	if release > press {
		release = press
	}
	return &Scratch{Lane: lane, Press: press, Release: release}
}

func (s *Scratch) Direction() Direction {
	return s.dir
}

func (s *Scratch) target(value float64) Direction {
	switch {
	case value >= s.Press:
		return Up
	case value <= -s.Press:
		return Down
	case value > -s.Release && value < s.Release:
		return Neutral
	}
	// between the thresholds the current direction holds, unless the axis
	// already swung to the other side
	if (value > 0) == (s.dir == Up) {
		return s.dir
	}
	return Neutral
}

// Update feeds an axis sample and returns the input it causes, if any
func (s *Scratch) Update(value float64, at time.Duration) []Input {
	next := s.target(value)
	prev := s.dir
	s.dir = next
	switch {
	case prev == Neutral && next == Neutral:
		return nil
	case prev == Neutral:
		return []Input{{Lane: s.Lane, Kind: InputPress, At: at}}
	case next == Neutral:
		return []Input{{Lane: s.Lane, Kind: InputRelease, At: at}}
	case prev == next:
		return []Input{{Lane: s.Lane, Kind: InputHold, At: at}}
	}
	return []Input{{Lane: s.Lane, Kind: InputReverse, At: at}}
}
