package input

import (
	"testing"
	"time"

	"git.lost.host/meutraa/eotb/internal/judge"
)

const ms = time.Millisecond

func equal(p, q []judge.Input) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func TestEvdev(t *testing.T) {
	b := NewBinding([]rune("zsx..a"), '.', true, 80*ms)
	tests := []struct {
		ev       Event
		expected []judge.Input
	}{
		{Event{Pressed: true, Code: 44}, []judge.Input{{Lane: 0, Kind: judge.InputPress, At: 10 * ms}}},
		{Event{Repeat: true, Code: 44}, []judge.Input{{Lane: 0, Kind: judge.InputHold, At: 10 * ms}}},
		{Event{Released: true, Code: 44}, []judge.Input{{Lane: 0, Kind: judge.InputRelease, At: 10 * ms}}},
		{Event{Pressed: true, Code: 30}, []judge.Input{{Lane: 5, Kind: judge.InputPress, At: 10 * ms}}},
		{Event{Pressed: true, Code: 'z'}, nil},
		{Event{Pressed: true, Code: 52}, nil},
	}
	for _, test := range tests {
		ev := test.ev
		if out := b.Translate(&ev, 10*ms); !equal(out, test.expected) {
			t.Log("event   ", test.ev)
			t.Log("out     ", out)
			t.Log("expected", test.expected)
			t.Fail()
		}
	}
	if due := b.Due(time.Hour); len(due) != 0 {
		t.Log("evdev releases are never synthesized", due)
		t.Fail()
	}
}

func TestTerminalTap(t *testing.T) {
	b := NewBinding([]rune("zsx"), '.', false, 80*ms)
	press := func(r rune, at time.Duration) []judge.Input {
		return b.Translate(&Event{Pressed: true, Code: r}, at)
	}

	if out := press('s', 100*ms); !equal(out, []judge.Input{{Lane: 1, Kind: judge.InputPress, At: 100 * ms}}) {
		t.Log("press", out)
		t.Fail()
	}
	press('z', 120*ms)
	if due := b.Due(179 * ms); len(due) != 0 {
		t.Log("released early", due)
		t.Fail()
	}
	expected := []judge.Input{
		{Lane: 1, Kind: judge.InputRelease, At: 180 * ms},
		{Lane: 0, Kind: judge.InputRelease, At: 200 * ms},
	}
	if due := b.Due(250 * ms); !equal(due, expected) {
		t.Log("due     ", due)
		t.Log("expected", expected)
		t.Fail()
	}

	// a second press before the release ends the first one
	press('x', 300*ms)
	expected = []judge.Input{
		{Lane: 2, Kind: judge.InputRelease, At: 330 * ms},
		{Lane: 2, Kind: judge.InputPress, At: 330 * ms},
	}
	if out := press('x', 330*ms); !equal(out, expected) {
		t.Log("out     ", out)
		t.Log("expected", expected)
		t.Fail()
	}
	if due := b.Due(410 * ms); !equal(due, []judge.Input{{Lane: 2, Kind: judge.InputRelease, At: 410 * ms}}) {
		t.Log("due", due)
		t.Fail()
	}
}

func TestAxis(t *testing.T) {
	b := NewBinding(nil, '.', true, 0)
	b.Scratch(0, judge.NewScratch(7, 0.5, 0.2))
	steps := []struct {
		value int32
		kind  judge.InputKind
		none  bool
	}{
		{10, 0, true},
		{100, judge.InputPress, false},
		{127, judge.InputHold, false},
		{-100, judge.InputReverse, false},
		{0, judge.InputRelease, false},
	}
	for i, step := range steps {
		out := b.Translate(&Event{Axis: true, Code: 0, Value: step.value}, time.Duration(i)*ms)
		if step.none {
			if len(out) != 0 {
				t.Log("step", i, "out", out)
				t.Fail()
			}
			continue
		}
		if len(out) != 1 || out[0].Kind != step.kind || out[0].Lane != 7 {
			t.Log("step", i, "out", out, "expected", step.kind)
			t.Fail()
		}
	}
	if out := b.Translate(&Event{Axis: true, Code: 1, Value: 127}, 0); len(out) != 0 {
		t.Log("unbound axis", out)
		t.Fail()
	}
}
