package timeline

import (
	"math/rand"
	"sort"
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Slot selects which side of the chart is played
type Slot uint8

const (
	Slot1P Slot = iota
	Slot2P
	SlotDouble
)

// Arrange is the lane permutation applied to the key lanes
type Arrange uint8

const (
	ArrangeNormal Arrange = iota
	ArrangeMirror
	ArrangeRandom
)

var arrangeNames = [...]string{"normal", "mirror", "random"}

func (a Arrange) String() string {
	if int(a) < len(arrangeNames) {
		return arrangeNames[a]
	}
	return "normal"
}

func ParseArrange(s string) (Arrange, bool) {
	for i, n := range arrangeNames {
		if n == s {
			return Arrange(i), true
		}
	}
	return ArrangeNormal, false
}

type Options struct {
	Arrange Arrange
	Seed    int64
}

// anchor is a point inside a bar where the tempo or the clock changes
type anchor struct {
	pos    float64 // fraction of the bar
	ms     float64 // time from here on
	before float64 // time of a note placed exactly at pos
	bpm    float64
}

type control struct {
	pos  float64
	bpm  float64 // > 0 for a tempo change
	stop float64 // beats, > 0 for a stop
}

type builder struct {
	chart *game.Chart
	tl    *Timeline
	lanes map[int]int // chart lane to timeline lane, missing means not played
}

// Build converts a parsed chart into absolute time streams for one slot.
// It never fails, a chart without bars gives an empty timeline.
func Build(chart *game.Chart, slot Slot, opts Options) *Timeline {
	b := &builder{chart: chart, tl: &Timeline{}}
	b.mapLanes(slot, opts)
	b.run()
	return b.tl
}

func (b *builder) keyLanes() []int {
	n := 7
	switch b.chart.Mode {
	case game.Beat5K, game.Beat10K:
		n = 5
	case game.Popn9K:
		n = 9
	}
	lanes := make([]int, n)
	for i := range lanes {
		lanes[i] = i
	}
	return lanes
}

func (b *builder) mapLanes(slot Slot, opts Options) {
	b.lanes = map[int]int{}
	rng := rand.New(rand.NewSource(opts.Seed))
	add := func(side, base int) {
		keys := b.keyLanes()
		perm := make([]int, len(keys))
		copy(perm, keys)
		switch opts.Arrange {
		case ArrangeMirror:
			for i := range perm {
				perm[i] = keys[len(keys)-1-i]
			}
		case ArrangeRandom:
			rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
		case ArrangeNormal:
		}
		for lane := 0; lane < game.LanesPerSide; lane++ {
			b.lanes[game.Lane(side, lane)] = base + lane
		}
		for i, k := range keys {
			b.lanes[game.Lane(side, k)] = base + perm[i]
		}
	}
	switch slot {
	case Slot1P:
		add(game.Side1, 0)
		b.tl.Keys = game.LanesPerSide
	case Slot2P:
		add(game.Side2, 0)
		b.tl.Keys = game.LanesPerSide
	case SlotDouble:
		add(game.Side1, 0)
		add(game.Side2, game.LanesPerSide)
		b.tl.Keys = 2 * game.LanesPerSide
	}
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func beatMs(beats, bpm float64) float64 {
	return beats * 60000 / bpm
}

// controls gathers the tempo changes and stops of a bar, ordered by position
// with a tempo change sorting before a stop at the same position.
func (b *builder) controls(bar int) []control {
	t := b.chart.Table
	out := []control{}
	if s := t.BPM.At(0, bar); s != nil {
		for i, ev := range s.Events {
			out = append(out, control{pos: s.Position(i), bpm: float64(ev.Value)})
		}
	}
	if s := t.ExtBPM.At(0, bar); s != nil {
		for i, ev := range s.Events {
			if bpm := b.chart.BPMs[ev.Value]; bpm > 0 {
				out = append(out, control{pos: s.Position(i), bpm: bpm})
			}
		}
	}
	if s := t.Stop.At(0, bar); s != nil {
		for i, ev := range s.Events {
			if beats := float64(b.chart.Stops[ev.Value]) / 48; beats > 0 {
				out = append(out, control{pos: s.Position(i), stop: beats})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].pos != out[j].pos {
			return out[i].pos < out[j].pos
		}
		return out[i].bpm > 0 && out[j].bpm <= 0
	})
	return out
}

func timeAt(anchors []anchor, pos, beats float64) float64 {
	a := anchors[0]
	for _, x := range anchors[1:] {
		if x.pos > pos {
			break
		}
		a = x
	}
	if a.pos == pos {
		return a.before
	}
	return a.ms + beatMs((pos-a.pos)*beats, a.bpm)
}

func (b *builder) run() {
	t := b.chart.Table
	last := t.LastBar()

	bpm := b.chart.BPM
	if bpm <= 0 {
		bpm = 130
	}
	st := &b.tl.Stats
	st.MinBPM, st.MaxBPM = bpm, bpm
	b.tl.BPMs = append(b.tl.BPMs, game.BPMChange{Time: 0, BPM: bpm})

	ms, position := 0.0, 0.0
	weighted, playing := 0.0, 0.0
	for bar := 0; bar <= last; bar++ {
		length := t.Length(bar)
		beats := 4 * length
		b.tl.Bars = append(b.tl.Bars, game.BarTiming{Time: msToDuration(ms), Position: position})

		anchors := []anchor{{pos: 0, ms: ms, before: ms, bpm: bpm}}
		for _, c := range b.controls(bar) {
			a := anchors[len(anchors)-1]
			at := a.ms + beatMs((c.pos-a.pos)*beats, a.bpm)
			if c.pos == a.pos {
				at = a.ms
			}
			weighted += (at - a.ms) * a.bpm
			playing += at - a.ms
			next := anchor{pos: c.pos, ms: at, before: at, bpm: a.bpm}
			if c.pos == a.pos {
				next.before = a.before
			}
			if c.bpm > 0 {
				next.bpm = c.bpm
				b.see(msToDuration(at), c.bpm)
			}
			if c.stop > 0 {
				next.ms = at + beatMs(c.stop, next.bpm)
			}
			anchors = append(anchors, next)
		}

		b.place(bar, anchors, beats)

		a := anchors[len(anchors)-1]
		end := a.ms + beatMs((1-a.pos)*beats, a.bpm)
		weighted += (end - a.ms) * a.bpm
		playing += end - a.ms
		ms = end
		bpm = a.bpm
		position += length
	}

	b.tl.End = msToDuration(ms)
	st.Duration = b.tl.End
	st.AvgBPM = bpm
	if playing > 0 {
		st.AvgBPM = weighted / playing
	}
	b.link()
}

func (b *builder) see(at time.Duration, bpm float64) {
	st := &b.tl.Stats
	if bpm < st.MinBPM {
		st.MinBPM = bpm
	}
	if bpm > st.MaxBPM {
		st.MaxBPM = bpm
	}
	last := &b.tl.BPMs[len(b.tl.BPMs)-1]
	if last.Time == at {
		last.BPM = bpm
		return
	}
	b.tl.BPMs = append(b.tl.BPMs, game.BPMChange{Time: at, BPM: bpm})
}

// place emits every note of a bar
func (b *builder) place(bar int, anchors []anchor, beats float64) {
	t := b.chart.Table
	emit := func(g *game.Grid, lane int, fn func(ev game.Event, at time.Duration)) {
		s := g.At(lane, bar)
		if s == nil {
			return
		}
		for i, ev := range s.Events {
			fn(ev, msToDuration(timeAt(anchors, s.Position(i), beats)))
		}
	}

	for chartLane := 0; chartLane < 2*game.LanesPerSide; chartLane++ {
		lane, ok := b.lanes[chartLane]
		if !ok {
			continue
		}
		for _, c := range []game.Category{game.Regular, game.Invisible, game.Mine} {
			var g *game.Grid
			switch c {
			case game.Regular:
				g = t.Regular
			case game.Invisible:
				g = t.Invisible
			case game.Mine:
				g = t.Mine
			}
			cat := c
			emit(g, chartLane, func(ev game.Event, at time.Duration) {
				s := b.tl.stream(cat, lane)
				s.Notes = append(s.Notes, game.Note{Time: at, Category: cat, Lane: lane, Value: ev.Value, Tail: -1})
			})
		}
		emit(t.LongNote, chartLane, func(ev game.Event, at time.Duration) {
			cat := game.LongHead
			if ev.Flags&game.FlagTail != 0 {
				cat = game.LongTail
			}
			s := b.tl.stream(game.LongHead, lane)
			s.Notes = append(s.Notes, game.Note{Time: at, Category: cat, Lane: lane, Value: ev.Value, Tail: -1})
		})
	}

	for layer := 0; layer < t.BGM.Lanes(); layer++ {
		emit(t.BGM, layer, func(ev game.Event, at time.Duration) {
			s := b.tl.stream(game.BGM, layer)
			s.Notes = append(s.Notes, game.Note{Time: at, Category: game.BGM, Lane: layer, Value: ev.Value, Tail: -1})
		})
	}
	for layer, g := range []*game.Grid{t.BGABase, t.BGAPoor, t.BGALayer} {
		layer := layer
		emit(g, 0, func(ev game.Event, at time.Duration) {
			s := b.tl.stream(game.BGA, layer)
			s.Notes = append(s.Notes, game.Note{Time: at, Category: game.BGA, Lane: layer, Value: ev.Value, Tail: -1})
		})
	}
}

// link pairs every long note head with the tail following it and counts
// the judgeable notes.
func (b *builder) link() {
	st := &b.tl.Stats
	for lane := 0; lane < b.tl.Lanes(game.Regular); lane++ {
		st.Notes += len(b.tl.Stream(game.Regular, lane).Notes)
	}
	for lane := 0; lane < b.tl.Lanes(game.LongHead); lane++ {
		s := b.tl.Stream(game.LongHead, lane)
		head := -1
		for i := range s.Notes {
			switch s.Notes[i].Category {
			case game.LongHead:
				head = i
				st.Notes++
			case game.LongTail:
				if head >= 0 {
					s.Notes[head].Tail = i
				}
				head = -1
			}
		}
	}
}
