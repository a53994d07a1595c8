package replay

import (
	"testing"
)

func TestAppendOrder(t *testing.T) {
	l := New(7, "abc", Snapshot{Gauge: "groove"})
	for _, ms := range []int64{10, 30, 20, 40} {
		l.Append(Command{Ms: ms, Kind: Press})
	}
	expected := []int64{10, 30, 30, 40}
	for i, c := range l.Commands {
		if c.Ms != expected[i] {
			t.Log("commands", l.Commands)
			t.Fail()
			break
		}
	}
	if l.Last() != 40 || l.Len() != 4 || l.ID == "" {
		t.Log("last", l.Last(), "len", l.Len(), "id", l.ID)
		t.Fail()
	}
}

func TestCursor(t *testing.T) {
	l := &Log{}
	c := l.Cursor()
	if _, ok := c.Peek(); ok || !c.Done() {
		t.Log("empty cursor has a command")
		t.Fail()
	}
	l.Append(Command{Ms: 5, Kind: Press, Lane: 1})
	l.Append(Command{Ms: 5, Kind: Release, Lane: 1})
	l.Append(Command{Ms: 9, Kind: HiSpeed, Value: 2})

	if due := c.Due(4); len(due) != 0 {
		t.Log("due early", due)
		t.Fail()
	}
	if due := c.Due(5); len(due) != 2 || due[1].Kind != Release {
		t.Log("due at 5", due)
		t.Fail()
	}
	// a cursor keeps up with a growing log
	l.Append(Command{Ms: 12, Kind: Press})
	if due := c.Due(100); len(due) != 2 || !c.Done() {
		t.Log("due at 100", due)
		t.Fail()
	}
}

func TestMarshal(t *testing.T) {
	l := New(3, "hash", Snapshot{Gauge: "hard", Profile: "normal", Arrange: "mirror"})
	l.Append(Command{Ms: 1, Kind: Press, Lane: 7})
	l.Append(Command{Ms: 2, Kind: CoverTop, Value: 0.25})
	data, err := l.Marshal()
	if nil != err {
		t.Fatal(err)
	}
	out, err := Unmarshal(data)
	if nil != err {
		t.Fatal(err)
	}
	if out.ID != l.ID || out.Seed != 3 || out.Options.Arrange != "mirror" || len(out.Commands) != 2 || out.Commands[1].Value != 0.25 {
		t.Log("out", out)
		t.Fail()
	}
	if _, err := Unmarshal([]byte("{")); nil == err {
		t.Log("no error for truncated log")
		t.Fail()
	}
}

func TestKindInput(t *testing.T) {
	for k := Press; k <= CoverEnabled; k++ {
		if k.Input() != (k == Press || k == Release || k == Reverse) {
			t.Log("kind", k)
			t.Fail()
		}
	}
}
