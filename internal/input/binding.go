package input

import (
	"sort"
	"time"

	"git.lost.host/meutraa/eotb/internal/judge"
)

// evdev codes of the keys a binding can name
var codes = map[rune]rune{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39, '\'': 40,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

// Code is the evdev key code of r, 0 when there is none
func Code(r rune) rune {
	return codes[r]
}

// Binding turns input events into lane inputs
type Binding struct {
	lanes map[rune]int
	tap   time.Duration

	// terminal keys waiting for their synthesized release
	pending map[int]time.Duration

	scratch   map[rune]*judge.Scratch // by axis code
	axisRange float64
}

// NewBinding binds the keys, one per lane. unbound marks lanes without a
// key. When evdev is set the keys are matched by evdev code, otherwise by
// the typed rune and every press is released again after tap.
func NewBinding(keys []rune, unbound rune, evdev bool, tap time.Duration) *Binding {
	b := &Binding{
		lanes:     map[rune]int{},
		tap:       tap,
		pending:   map[int]time.Duration{},
		scratch:   map[rune]*judge.Scratch{},
		axisRange: 128,
	}
	if evdev {
		b.tap = 0
	}
	for lane, r := range keys {
		if r == unbound {
			continue
		}
		if evdev {
			r = Code(r)
			if r == 0 {
				continue
			}
		}
		if _, ok := b.lanes[r]; !ok {
			b.lanes[r] = lane
		}
	}
	return b
}

// Scratch routes an absolute axis to a turntable lane
func (b *Binding) Scratch(axis rune, s *judge.Scratch) {
	b.scratch[axis] = s
}

// Lane is the lane bound to a key, -1 when the key is not bound
func (b *Binding) Lane(code rune) int {
	if lane, ok := b.lanes[code]; ok {
		return lane
	}
	return -1
}

// Translate converts an event that happened at session time at
func (b *Binding) Translate(ev *Event, at time.Duration) []judge.Input {
	if ev.Axis {
		s, ok := b.scratch[ev.Code]
		if !ok {
			return nil
		}
		v := float64(ev.Value) / b.axisRange
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		return s.Update(v, at)
	}

	lane := b.Lane(ev.Code)
	if lane < 0 {
		return nil
	}
	switch {
	case ev.Pressed && b.tap > 0:
		var inputs []judge.Input
		if _, held := b.pending[lane]; held {
			inputs = append(inputs, judge.Input{Lane: lane, Kind: judge.InputRelease, At: at})
		}
		b.pending[lane] = at + b.tap
		return append(inputs, judge.Input{Lane: lane, Kind: judge.InputPress, At: at})
	case ev.Pressed:
		return []judge.Input{{Lane: lane, Kind: judge.InputPress, At: at}}
	case ev.Released:
		return []judge.Input{{Lane: lane, Kind: judge.InputRelease, At: at}}
	case ev.Repeat:
		return []judge.Input{{Lane: lane, Kind: judge.InputHold, At: at}}
	}
	return nil
}

// Due returns the synthesized releases that fall at or before at, in time
// order.
func (b *Binding) Due(at time.Duration) []judge.Input {
	var inputs []judge.Input
	for lane, t := range b.pending {
		if t <= at {
			inputs = append(inputs, judge.Input{Lane: lane, Kind: judge.InputRelease, At: t})
			delete(b.pending, lane)
		}
	}
	sort.Slice(inputs, func(i, j int) bool {
		if inputs[i].At != inputs[j].At {
			return inputs[i].At < inputs[j].At
		}
		return inputs[i].Lane < inputs[j].Lane
	})
	return inputs
}
