package score

import (
	"testing"

	"git.lost.host/meutraa/eotb/internal/replay"
)

var compactTests = map[string][]replay.Command{
	"empty": {},
	"presses": {
		{Ms: 100, Kind: replay.Press, Lane: 0},
		{Ms: 150, Kind: replay.Release, Lane: 0},
		{Ms: 200, Kind: replay.Press, Lane: 3},
		{Ms: 220, Kind: replay.Press, Lane: 0},
	},
	"options": {
		{Ms: 0, Kind: replay.HiSpeed, Value: 1.5},
		{Ms: 10, Kind: replay.Press, Lane: 7},
		{Ms: 10, Kind: replay.Reverse, Lane: 7},
		{Ms: 30, Kind: replay.CoverTop, Value: 0.25},
		{Ms: 40, Kind: replay.HiSpeed, Value: 2},
	},
}

func TestCompactCommands(t *testing.T) {
	for name, in := range compactTests {
		out, err := uncompactCommands(compactCommands(in))
		if nil != err || len(out) != len(in) {
			t.Log("name", name, err)
			t.Log("out     ", out)
			t.Log("expected", in)
			t.Fail()
			continue
		}
		for i := range in {
			if out[i] != in[i] {
				t.Log("name    ", name, "command", i)
				t.Log("out     ", out[i])
				t.Log("expected", in[i])
				t.Fail()
			}
		}
	}
}

func TestCompactGroups(t *testing.T) {
	groups := compactCommands(compactTests["presses"])
	if len(groups) != 3 {
		t.Fatal("groups", groups)
	}
	first := groups[0]
	if first.Kind != replay.Press || first.Lane != 0 || len(first.Seq) != 2 || first.Seq[1] != 3 || first.Ms[1] != 220 {
		t.Log("first group", first)
		t.Fail()
	}
	if len(first.Values) != 0 {
		t.Log("inputs carry values", first.Values)
		t.Fail()
	}
}

var badCompactTests = map[string][]CommandsCompact{
	"hole":      {{Kind: replay.Press, Seq: []int{0, 5}, Ms: []int64{10, 20}}},
	"negative":  {{Kind: replay.Press, Seq: []int{-1}, Ms: []int64{10}}},
	"twice":     {{Kind: replay.Press, Seq: []int{0}, Ms: []int64{10}}, {Kind: replay.Release, Seq: []int{0}, Ms: []int64{20}}},
	"times":     {{Kind: replay.Press, Seq: []int{0, 1}, Ms: []int64{10}}},
	"backwards": {{Kind: replay.Press, Seq: []int{1, 0}, Ms: []int64{10, 20}}},
}

func TestUncompactRejects(t *testing.T) {
	for name, groups := range badCompactTests {
		if out, err := uncompactCommands(groups); nil == err {
			t.Log("name", name, "out", out)
			t.Fail()
		}
	}
}
