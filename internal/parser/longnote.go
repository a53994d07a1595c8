package parser

import (
	"sort"

	"git.lost.host/meutraa/eotb/internal/game"
)

// ref points at one event of a grid cell
type ref struct {
	bar    int
	offset int
	res    int
	value  int
	long   bool // read from the LN grid rather than the regular grid
}

func (r ref) before(o ref) bool {
	if r.bar != o.bar {
		return r.bar < o.bar
	}
	// compare offset/res against o.offset/o.res without rounding
	return r.offset*o.res < o.offset*r.res
}

func (r ref) same(o ref) bool {
	return r.bar == o.bar && r.offset*o.res == o.offset*r.res
}

func collect(g *game.Grid, lane int, long bool) []ref {
	refs := []ref{}
	for bar := 0; bar < game.MaxBars; bar++ {
		seq := g.At(lane, bar)
		if seq == nil {
			continue
		}
		for _, ev := range seq.Events {
			refs = append(refs, ref{bar: bar, offset: ev.Offset, res: seq.Resolution, value: ev.Value, long: long})
		}
	}
	return refs
}

func remove(g *game.Grid, lane int, r ref) {
	if seq := g.At(lane, r.bar); seq != nil {
		seq.Remove(r.offset)
	}
}

func place(g *game.Grid, lane int, r ref, flags int) {
	g.Place(lane, r.bar, r.res, game.Event{Offset: r.offset, Value: r.value, Flags: flags})
}

func (s *state) resolveLongNotes() {
	t := s.chart.Table
	for lane := 0; lane < 2*game.LanesPerSide; lane++ {
		s.pairChannels(t, lane)
		if len(s.chart.LNObjects) > 0 {
			s.pairMarkers(t, lane)
		}
	}
}

// pairChannels matches the explicit LN channel of a lane. Events alternate
// head and tail. A regular note met while a head is open closes it as an
// implicit tail, which is what charts written for older clients rely on.
func (s *state) pairChannels(t *game.Table, lane int) {
	heads := collect(t.LongNote, lane, true)
	if len(heads) == 0 {
		return
	}
	events := append(heads, collect(t.Regular, lane, false)...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].same(events[j]) {
			return events[i].long && !events[j].long
		}
		return events[i].before(events[j])
	})

	// rebuild the LN lane from scratch
	for bar := 0; bar < game.MaxBars; bar++ {
		t.LongNote.Take(lane, bar)
	}

	var open *ref
	for i := range events {
		ev := events[i]
		switch {
		case open == nil && ev.long:
			open = &events[i]
		case open == nil:
			// plain note, nothing to do
		case ev.long:
			place(t.LongNote, lane, *open, game.FlagHead)
			place(t.LongNote, lane, ev, game.FlagTail)
			open = nil
		default:
			remove(t.Regular, lane, ev)
			place(t.LongNote, lane, *open, game.FlagHead)
			place(t.LongNote, lane, ev, game.FlagTail)
			open = nil
		}
	}
	if open != nil {
		s.logger.Printf("unmatched long note head on lane %d bar %03d dropped", lane, open.bar)
	}
}

// pairMarkers turns an #LNOBJ note and the regular note right before it on
// the same lane into a long note.
func (s *state) pairMarkers(t *game.Table, lane int) {
	events := collect(t.Regular, lane, false)
	var prev *ref
	for i := range events {
		ev := events[i]
		if !s.chart.IsLNObject(ev.value) {
			prev = &events[i]
			continue
		}
		remove(t.Regular, lane, ev)
		if prev == nil {
			s.logger.Printf("long note marker without head on lane %d bar %03d dropped", lane, ev.bar)
			continue
		}
		remove(t.Regular, lane, *prev)
		place(t.LongNote, lane, *prev, game.FlagHead)
		place(t.LongNote, lane, ev, game.FlagTail)
		prev = nil
	}
}
