package game

import (
	"time"
)

type BarTiming struct {
	Time     time.Duration // The time the bar line is crossed
	Position float64       // Whole notes elapsed since the start of the chart
}

// BPMChange is a tempo change at an absolute time
type BPMChange struct {
	Time time.Duration
	BPM  float64
}
