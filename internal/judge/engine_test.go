package judge

import (
	"io"
	"log"
	"math"
	"testing"
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/parser"
	"git.lost.host/meutraa/eotb/internal/replay"
	"git.lost.host/meutraa/eotb/internal/testdata"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

const ms = time.Millisecond

func build(t testing.TB, name string) *timeline.Timeline {
	text, ok := testdata.GetChart(name)
	if !ok {
		t.Fatalf("no fixture %s", name)
	}
	p := parser.DefaultParser{Logger: log.New(io.Discard, "", 0)}
	chart, err := p.ParseText(text, game.LayoutBeat, 1)
	if nil != err {
		t.Fatalf("unable to parse %s: %v", name, err)
	}
	return timeline.Build(chart, timeline.Slot1P, timeline.Options{})
}

func perfectLog(times ...time.Duration) *replay.Log {
	l := replay.New(1, "", replay.Snapshot{})
	for _, at := range times {
		l.Append(replay.Command{Ms: at.Milliseconds(), Kind: replay.Press})
		l.Append(replay.Command{Ms: at.Milliseconds() + 50, Kind: replay.Release})
	}
	return l
}

func TestAllPerfect(t *testing.T) {
	tl := build(t, "five")
	e := Replay(tl, Options{Profile: Normal, Gauge: Groove}, perfectLog(2000*ms, 2500*ms, 3000*ms, 3500*ms, 4000*ms))
	s := e.State()

	g := NewGauge(Groove, game.DefaultTotal(5), 5)
	health := math.Min(1, g.Health+5*g.Delta(game.TierPerfect))

	if s.Counts[game.ExactPerfect] != 5 || s.Count(game.TierPerfect) != 5 {
		t.Log("counts", s.Counts)
		t.Fail()
	}
	if s.Combo != 5 || s.MaxCombo != 5 || s.ExScore != 10 {
		t.Log("combo", s.Combo, "max", s.MaxCombo, "ex", s.ExScore)
		t.Fail()
	}
	if math.Abs(s.Health-health) > 1e-9 {
		t.Log("health  ", s.Health)
		t.Log("expected", health)
		t.Fail()
	}
	if s.Fast != 0 || s.Slow != 0 || s.FirstBreak != -1 {
		t.Log("fast", s.Fast, "slow", s.Slow, "break", s.FirstBreak)
		t.Fail()
	}
	if s.Accuracy != 1 || s.TotalAccuracy != 1 {
		t.Log("accuracy", s.Accuracy, s.TotalAccuracy)
		t.Fail()
	}
	if s.Outcome != Finished {
		t.Log("outcome", s.Outcome)
		t.Fail()
	}
	if len(e.Judgements()) != 5 {
		t.Log("judgements", e.Judgements())
		t.Fail()
	}
}

func TestMisses(t *testing.T) {
	e := New(build(t, "five"), Options{Profile: Normal, Gauge: Groove})
	e.Advance(2200 * ms)
	if e.State().Judged != 0 {
		t.Log("miss committed at the edge of the window")
		t.Fail()
	}
	e.Advance(2201 * ms)
	s := e.State()
	if s.Counts[game.Miss] != 1 || s.FirstBreak != 2200*ms {
		t.Log("counts", s.Counts, "break", s.FirstBreak)
		t.Fail()
	}
	e.Advance(10 * time.Second)
	s = e.State()
	if s.Counts[game.Miss] != 5 || s.Combo != 0 || s.Score != 0 {
		t.Log("counts", s.Counts, "combo", s.Combo, "score", s.Score)
		t.Fail()
	}
	if s.Outcome != Finished {
		t.Log("outcome", s.Outcome)
		t.Fail()
	}
}

type pressTest struct {
	at     time.Duration
	area   game.JudgeArea
	judged bool
}

func TestPress(t *testing.T) {
	tests := []pressTest{
		{2000 * ms, game.ExactPerfect, true},
		{2010 * ms, game.LatePerfect, true},
		{1970 * ms, game.EarlyGreat, true},
		{2150 * ms, game.LateBad, true},
		{1780 * ms, game.EarlyPoor, true},
		{1700 * ms, game.Miss, false},
	}
	tl := build(t, "five")
	for _, test := range tests {
		e := New(tl, Options{Profile: Normal})
		e.Press(0, test.at)
		js := e.Judgements()
		if !test.judged {
			if len(js) != 0 {
				t.Log("press at", test.at, "judged", js)
				t.Fail()
			}
			continue
		}
		if len(js) != 1 || js[0].Area != test.area {
			t.Log("press at", test.at)
			t.Log("judged  ", js)
			t.Log("expected", test.area)
			t.Fail()
		}
	}
}

func TestClosestNote(t *testing.T) {
	tl := build(t, "dense")
	e := New(tl, Options{Profile: Normal})
	e.Press(0, 2130*ms)
	js := e.Judgements()
	if len(js) != 1 || js[0].Offset != -120*ms || js[0].Area != game.EarlyBad {
		t.Log("judged", js)
		t.Fail()
	}
	// the note at 2000ms is still pending and expires unhit
	e.Advance(2201 * ms)
	if e.State().Counts[game.Miss] != 1 {
		t.Log("counts", e.State().Counts)
		t.Fail()
	}

	tie := New(tl, Options{Profile: Normal})
	tie.Press(0, 2125*ms)
	js = tie.Judgements()
	if len(js) != 1 || js[0].Offset != 125*ms || js[0].Area != game.LateBad {
		t.Log("tie judged", js)
		t.Fail()
	}
}

type lnTest struct {
	press, release time.Duration
	area           game.JudgeArea
}

func TestLongNote(t *testing.T) {
	tests := []lnTest{
		{2000 * ms, 3500 * ms, game.ExactPerfect},
		{2010 * ms, 3450 * ms, game.EarlyGood},
		// the tail closes itself before a late release
		{1990 * ms, 3600 * ms, game.EarlyPerfect},
		{2000 * ms, 2500 * ms, game.EarlyBad},
		// held through, the tail closes itself
		{2000 * ms, 0, game.ExactPerfect},
	}
	tl := build(t, "long")
	for _, test := range tests {
		e := New(tl, Options{Profile: Normal})
		e.Press(0, test.press)
		if !e.State().LNOpen[0] {
			t.Log("long note not open after", test.press)
			t.Fail()
			continue
		}
		if test.release > 0 {
			e.Release(0, test.release)
		}
		e.Advance(3800 * ms)
		js := e.Judgements()
		if len(js) != 1 || js[0].Area != test.area || js[0].Category != game.LongTail {
			t.Log("test    ", test)
			t.Log("judged  ", js)
			t.Fail()
		}
		if e.State().LNOpen[0] {
			t.Log("long note still open")
			t.Fail()
		}
	}
}

func TestLongNoteBadHead(t *testing.T) {
	e := New(build(t, "long"), Options{Profile: Normal})
	e.Press(0, 1850*ms)
	e.Advance(3800 * ms)
	js := e.Judgements()
	if len(js) != 1 || js[0].Area != game.EarlyBad || e.State().LNOpen[0] {
		t.Log("judged", js)
		t.Fail()
	}
}

func TestLongNoteRepress(t *testing.T) {
	e := New(build(t, "long"), Options{Profile: Normal})
	e.Press(0, 2000*ms)
	e.Press(0, 2600*ms)
	e.Hold(0, 2700*ms)
	e.Advance(3800 * ms)
	js := e.Judgements()
	if len(js) != 1 || js[0].Area != game.EarlyBad {
		t.Log("judged", js)
		t.Fail()
	}
}

func TestMine(t *testing.T) {
	tl := build(t, "mine")

	held := New(tl, Options{Profile: Normal})
	held.Press(0, 1990*ms)
	held.Hold(0, 2000*ms)
	held.Advance(2100 * ms)
	s := held.State()
	if s.Counts[game.MinePoor] != 1 || s.Judged != 0 || s.FirstBreak != -1 {
		t.Log("counts", s.Counts, "judged", s.Judged)
		t.Fail()
	}

	released := New(tl, Options{Profile: Normal})
	released.Press(0, 1990*ms)
	released.Release(0, 1995*ms)
	released.Advance(2100 * ms)
	if released.State().Counts[game.MinePoor] != 0 {
		t.Log("counts", released.State().Counts)
		t.Fail()
	}

	exact := New(tl, Options{Profile: Normal})
	exact.Press(0, 2000*ms)
	exact.Advance(2100 * ms)
	if exact.State().Counts[game.MinePoor] != 1 {
		t.Log("mine missed by a press at its own time", exact.State().Counts)
		t.Fail()
	}
	if r := Replay(tl, Options{Profile: Normal}, exact.Log()); r.State().Counts[game.MinePoor] != 1 {
		t.Log("replayed", r.State().Counts)
		t.Fail()
	}

	late := New(tl, Options{Profile: Normal})
	late.Press(0, 2001*ms)
	late.Advance(2100 * ms)
	if late.State().Counts[game.MinePoor] != 0 {
		t.Log("mine hit by a press after it passed", late.State().Counts)
		t.Fail()
	}
}

func TestScratchReverse(t *testing.T) {
	e := New(build(t, "scratch"), Options{Profile: Normal})
	s := NewScratch(game.ScratchLane, 0.5, 0.25)
	e.Step(2000*ms, s.Update(1, 2000*ms))
	if !e.State().LNOpen[game.ScratchLane] {
		t.Log("scratch long note not open")
		t.FailNow()
	}
	e.Step(2100*ms, s.Update(0.8, 2100*ms))
	e.Step(2500*ms, s.Update(-1, 2500*ms))
	st := e.State()
	if st.Counts[game.Miss] != 1 || st.LNOpen[game.ScratchLane] || st.Combo != 0 {
		t.Log("counts", st.Counts, "open", st.LNOpen)
		t.Fail()
	}
	if n := len(e.Log().Commands); n != 2 || e.Log().Commands[1].Kind != replay.Reverse {
		t.Log("log", e.Log().Commands)
		t.Fail()
	}
}

func TestHazardFreezes(t *testing.T) {
	e := New(build(t, "five"), Options{Profile: Normal, Gauge: Hazard})
	e.Advance(2201 * ms)
	if e.Outcome() != Failed {
		t.Log("outcome", e.Outcome())
		t.FailNow()
	}
	e.Press(0, 2500*ms)
	e.Advance(10 * time.Second)
	s := e.State()
	if s.Judged != 1 || s.ExScore != 0 || e.Log().Len() != 0 {
		t.Log("judged", s.Judged, "ex", s.ExScore)
		t.Fail()
	}
}

func TestAutoPlay(t *testing.T) {
	for _, name := range []string{"five", "long", "scratch"} {
		tl := build(t, name)
		e := New(tl, Options{Role: AutoPlay})
		e.Press(0, 2000*ms)
		e.Advance(tl.End + time.Second)
		s := e.State()
		if s.Judged != tl.Stats.Notes || s.Counts[game.ExactPerfect] != tl.Stats.Notes {
			t.Log("chart ", name)
			t.Log("counts", s.Counts)
			t.Fail()
		}
		if e.Log().Len() != 0 || s.Outcome == Playing {
			t.Log("chart", name, "log", e.Log().Commands, "outcome", s.Outcome)
			t.Fail()
		}
	}
}

func TestInvalidLane(t *testing.T) {
	e := New(build(t, "five"), Options{})
	e.Press(-1, 2000*ms)
	e.Press(100, 2000*ms)
	e.Release(100, 2000*ms)
	if len(e.Judgements()) != 0 || e.Log().Len() != 0 {
		t.Log("judged", e.Judgements())
		t.Fail()
	}
}

func TestOptionsRecorded(t *testing.T) {
	tl := build(t, "five")
	e := New(tl, Options{})
	e.SetHiSpeed(2.5, 100*ms)
	e.SetLaneCover(0.2, 0.1, 150*ms)
	e.SetLaneCoverEnabled(true, 200*ms)
	s := e.State()
	if s.HiSpeed != 2.5 || s.CoverTop != 0.2 || s.CoverBottom != 0.1 || !s.CoverEnabled {
		t.Log("state", s)
		t.Fail()
	}
	if e.Log().Len() != 4 {
		t.Log("log", e.Log().Commands)
		t.Fail()
	}
	r := Replay(tl, Options{}, e.Log())
	if rs := r.State(); rs.HiSpeed != 2.5 || !rs.CoverEnabled {
		t.Log("replayed", rs)
		t.Fail()
	}
}

func TestReplayDeterminism(t *testing.T) {
	tl := build(t, "five")
	live := New(tl, Options{Profile: Normal, Gauge: HardGauge})
	live.Step(2005*ms, []Input{{Lane: 0, Kind: InputPress, At: 2004*ms + 700*time.Microsecond}})
	live.Step(2100*ms, []Input{{Lane: 0, Kind: InputRelease, At: 2100 * ms}})
	live.Step(2480*ms, []Input{{Lane: 0, Kind: InputPress, At: 2470 * ms}})
	live.Step(2600*ms, []Input{{Lane: 0, Kind: InputRelease, At: 2600 * ms}, {Lane: 0, Kind: InputPress, At: 2620 * ms}})
	live.Step(3700*ms, []Input{{Lane: 0, Kind: InputPress, At: 3610 * ms}})
	live.Finish(tl.End + 201*ms)

	a := Replay(tl, Options{Profile: Normal, Gauge: HardGauge}, live.Log())
	b := Replay(tl, Options{Profile: Normal, Gauge: HardGauge}, live.Log())
	for i, e := range []*Engine{a, b} {
		x, y := live.State(), e.State()
		if x.Counts != y.Counts || x.Combo != y.Combo || x.MaxCombo != y.MaxCombo || x.ExScore != y.ExScore || x.Health != y.Health {
			t.Log("replay  ", i)
			t.Log("live    ", x.Counts, x.Combo, x.ExScore, x.Health)
			t.Log("replayed", y.Counts, y.Combo, y.ExScore, y.Health)
			t.Fail()
		}
	}
	if live.Timeline() == tl || a.Timeline() == b.Timeline() {
		t.Log("engines share note state")
		t.Fail()
	}
}

func TestReplaySameMillisecond(t *testing.T) {
	tl := build(t, "short")
	live := New(tl, Options{Profile: Normal})
	live.Press(0, 2010*ms)
	live.Release(0, 2010*ms)
	live.Finish(tl.End + 201*ms)

	r := Replay(tl, Options{Profile: Normal}, live.Log())
	x, y := live.Judgements(), r.Judgements()
	if len(x) == 0 || len(x) != len(y) {
		t.Log("live    ", x)
		t.Log("replayed", y)
		t.FailNow()
	}
	for i := range x {
		if x[i] != y[i] {
			t.Log("live    ", x[i])
			t.Log("replayed", y[i])
			t.Fail()
		}
	}
	if x[0].Category != game.LongTail || x[0].At != 2005*ms {
		t.Log("tail", x[0])
		t.Fail()
	}
}

func TestSince(t *testing.T) {
	e := New(build(t, "five"), Options{})
	e.Press(0, 2000*ms)
	e.Press(0, 2500*ms)
	if n := len(e.Since(1)); n != 1 {
		t.Log("since 1", n)
		t.Fail()
	}
	if e.Since(2) != nil || len(e.Since(-1)) != 2 {
		t.Log("since out of range")
		t.Fail()
	}
}

func BenchmarkReplay(b *testing.B) {
	tl := build(b, "five")
	l := perfectLog(2000*ms, 2500*ms, 3000*ms, 3500*ms, 4000*ms)
	for n := 0; n < b.N; n++ {
		Replay(tl, Options{}, l)
	}
}
