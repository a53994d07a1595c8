package judge

import (
	"testing"
	"time"
)

type axisStep struct {
	value float64
	kind  InputKind
	none  bool
}

func TestScratchUpdate(t *testing.T) {
	steps := []axisStep{
		{0, 0, true},
		{0.3, 0, true},
		{0.6, InputPress, false},
		{0.4, InputHold, false},
		{0.1, InputRelease, false},
		{-0.6, InputPress, false},
		{-0.3, InputHold, false},
		{0.7, InputReverse, false},
		{0.2, InputRelease, false},
		{-0.4, 0, true},
	}
	s := NewScratch(7, 0.5, 0.25)
	for i, step := range steps {
		at := time.Duration(i) * time.Millisecond
		in := s.Update(step.value, at)
		if step.none {
			if len(in) != 0 {
				t.Log("step ", i, step.value)
				t.Log("input", in)
				t.Fail()
			}
			continue
		}
		if len(in) != 1 || in[0].Kind != step.kind || in[0].Lane != 7 || in[0].At != at {
			t.Log("step    ", i, step.value)
			t.Log("input   ", in)
			t.Log("expected", step.kind)
			t.Fail()
		}
	}
}

func TestScratchThresholds(t *testing.T) {
	s := NewScratch(0, 0.2, 0.5)
	if s.Release != s.Press {
		t.Log("release above press", s.Release)
		t.Fail()
	}
}
