package game

import "sort"

const (
	FlagHead = 1 << iota
	FlagTail
)

// Event is a single non-zero token of a bar's note data
type Event struct {
	Offset int // Subdivision index within the bar, 0 <= Offset < Resolution
	Value  int // Decoded token, a resource index or a raw control value
	Flags  int
}

// Sequence holds the events of one lane in one bar, quantized to Resolution
// subdivisions per bar.
type Sequence struct {
	Resolution int
	Events     []Event
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / gcd(a, b) * b
}

// LCM is exported for callers that need to reconcile resolutions themselves
func LCM(a, b int) int {
	return lcm(a, b)
}

func (s *Sequence) Empty() bool {
	return len(s.Events) == 0
}

// Position returns the fractional bar position of the i-th event
func (s *Sequence) Position(i int) float64 {
	return float64(s.Events[i].Offset) / float64(s.Resolution)
}

// Rescale moves the sequence onto res subdivisions. res must be a multiple
// of the current resolution, otherwise nothing happens.
func (s *Sequence) Rescale(res int) {
	if s.Resolution == 0 {
		s.Resolution = res
		return
	}
	if res == s.Resolution || res%s.Resolution != 0 {
		return
	}
	k := res / s.Resolution
	for i := range s.Events {
		s.Events[i].Offset *= k
	}
	s.Resolution = res
}

// Merge folds o into s. Both end up at lcm(s.Resolution, o.Resolution), and
// an event of o replaces an event of s at the same offset.
func (s *Sequence) Merge(o Sequence) {
	if o.Resolution == 0 {
		return
	}
	res := lcm(s.Resolution, o.Resolution)
	s.Rescale(res)
	k := res / o.Resolution
	for _, ev := range o.Events {
		ev.Offset *= k
		s.Insert(ev)
	}
}

// Insert places ev in offset order, replacing any event at the same offset.
// ev.Offset must already be in the sequence's resolution.
func (s *Sequence) Insert(ev Event) {
	i := sort.Search(len(s.Events), func(i int) bool {
		return s.Events[i].Offset >= ev.Offset
	})
	if i < len(s.Events) && s.Events[i].Offset == ev.Offset {
		s.Events[i] = ev
		return
	}
	s.Events = append(s.Events, Event{})
	copy(s.Events[i+1:], s.Events[i:])
	s.Events[i] = ev
}

// Remove drops the event at offset, reporting whether one was there
func (s *Sequence) Remove(offset int) bool {
	for i, ev := range s.Events {
		if ev.Offset == offset {
			s.Events = append(s.Events[:i], s.Events[i+1:]...)
			return true
		}
	}
	return false
}

func (s Sequence) Clone() Sequence {
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return Sequence{Resolution: s.Resolution, Events: events}
}
