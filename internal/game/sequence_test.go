package game

import (
	"testing"
)

var lcmTests = map[[2]int]int{
	{1, 1}:   1,
	{2, 3}:   6,
	{4, 6}:   12,
	{16, 12}: 48,
	{0, 5}:   5,
	{192, 1}: 192,
}

func TestLCM(t *testing.T) {
	for in, expected := range lcmTests {
		if out := LCM(in[0], in[1]); out != expected {
			t.Log("in      ", in)
			t.Log("out     ", out)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestMerge(t *testing.T) {
	for in := range lcmTests {
		a, b := in[0], in[1]
		if a == 0 || b == 0 {
			continue
		}
		s := Sequence{Resolution: a}
		for i := 0; i < a; i++ {
			s.Events = append(s.Events, Event{Offset: i, Value: 1})
		}
		o := Sequence{Resolution: b, Events: []Event{{Offset: b - 1, Value: 2}}}
		s.Merge(o)

		res := LCM(a, b)
		if s.Resolution != res {
			t.Log("resolution", s.Resolution, "expected", res)
			t.Fail()
			continue
		}
		// every event of s moved by res/a, the merged one sits at res-res/b
		for _, ev := range s.Events {
			if ev.Value == 1 && ev.Offset%(res/a) != 0 {
				t.Log("unscaled offset", ev.Offset, "in", in)
				t.Fail()
			}
			if ev.Value == 2 && ev.Offset != res-res/b {
				t.Log("merged offset", ev.Offset, "in", in)
				t.Fail()
			}
		}
		for i := 1; i < len(s.Events); i++ {
			if s.Events[i-1].Offset >= s.Events[i].Offset {
				t.Log("unordered", s.Events)
				t.Fail()
				break
			}
		}
	}
}

func TestMergeReplaces(t *testing.T) {
	s := Sequence{Resolution: 2, Events: []Event{{Offset: 1, Value: 1}}}
	s.Merge(Sequence{Resolution: 4, Events: []Event{{Offset: 2, Value: 9}, {Offset: 1, Value: 3}}})
	if s.Resolution != 4 || len(s.Events) != 2 || s.Events[0].Value != 3 || s.Events[1].Value != 9 {
		t.Log("events", s.Events)
		t.Fail()
	}
}

func TestRemove(t *testing.T) {
	s := Sequence{Resolution: 4, Events: []Event{{Offset: 0, Value: 1}, {Offset: 3, Value: 2}}}
	if !s.Remove(3) || s.Remove(3) || len(s.Events) != 1 {
		t.Log("events", s.Events)
		t.Fail()
	}
}

func TestGrid(t *testing.T) {
	g := NewGrid(2)
	g.Place(5, 3, 4, Event{Offset: 1, Value: 7})
	g.Place(5, 3, 3, Event{Offset: 2, Value: 8})
	if g.Lanes() != 6 || g.Count() != 2 || g.LastBar() != 3 || g.LaneCount(5) != 2 {
		t.Log("lanes", g.Lanes(), "count", g.Count(), "last", g.LastBar())
		t.Fail()
	}
	s := g.At(5, 3)
	if s == nil || s.Resolution != 12 || s.Events[0].Offset != 3 || s.Events[1].Offset != 8 {
		t.Log("cell", s)
		t.Fail()
	}
	g.Place(0, MaxBars, 1, Event{Value: 1})
	if g.At(0, MaxBars) != nil || g.At(-1, 0) != nil || g.At(100, 0) != nil {
		t.Log("out of range cell")
		t.Fail()
	}
	taken, ok := g.Take(5, 3)
	if !ok || len(taken.Events) != 2 || g.LastBar() != -1 {
		t.Log("taken", taken, "last", g.LastBar())
		t.Fail()
	}
	if !g.Equal(NewGrid(0)) {
		t.Log("emptied grid differs from a new one")
		t.Fail()
	}
}

func TestDefaultTotal(t *testing.T) {
	if total := DefaultTotal(1000); total < 460 || total > 461 {
		t.Log("total", total)
		t.Fail()
	}
}
