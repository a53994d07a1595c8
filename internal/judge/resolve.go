package judge

import (
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

type dueKind uint8

const (
	dueRegular dueKind = iota
	dueLong
	dueMine
)

// due is a note whose resolution no longer depends on input
type due struct {
	at     time.Duration
	strict bool // resolved only once the clock is past at
	lane   int
	kind   dueKind
}

func (d due) ready(t time.Duration) bool {
	return d.at < t || (!d.strict && d.at == t)
}

// front skips resolved notes and returns the first pending one
func front(c *timeline.Cursor) *game.Note {
	for n := c.Peek(); n != nil && !n.Pending(); n = c.Peek() {
		c.Next()
	}
	return c.Peek()
}

func (e *Engine) dues(i int, fn func(due)) {
	l := &e.lanes[i]
	auto := e.opts.Role == AutoPlay
	if n := front(l.regular); n != nil {
		if auto {
			fn(due{at: n.Time, lane: i, kind: dueRegular})
		} else {
			fn(due{at: n.Time + e.window.Bad, strict: true, lane: i, kind: dueRegular})
		}
	}
	if n := front(l.long); n != nil {
		switch {
		case n.Category == game.LongTail:
			fn(due{at: n.Time, lane: i, kind: dueLong})
		case auto:
			fn(due{at: n.Time, lane: i, kind: dueLong})
		default:
			fn(due{at: n.Time + e.window.Bad, strict: true, lane: i, kind: dueLong})
		}
	}
	if n := front(l.mine); n != nil {
		// a press landing on the mine's own ms still counts
		fn(due{at: n.Time, strict: true, lane: i, kind: dueMine})
	}
}

// next finds the earliest due note, ties going to the lower lane and then
// the lower kind.
func (e *Engine) next(t time.Duration) (due, bool) {
	var best due
	found := false
	for i := range e.lanes {
		e.dues(i, func(d due) {
			if !d.ready(t) {
				return
			}
			if !found || d.at < best.at {
				best, found = d, true
			}
		})
	}
	return best, found
}

// settle resolves everything due up to t in time order
func (e *Engine) settle(t time.Duration) {
	for !e.state.Outcome.Terminal() {
		d, ok := e.next(t)
		if !ok {
			break
		}
		e.fire(d)
	}
	if t > e.now {
		e.now = t
	}
	if !e.state.Outcome.Terminal() && t >= e.tl.End && e.state.Judged >= e.state.Notes && !e.anyOpen() && !e.minesLeft() {
		e.finish()
	}
}

func (e *Engine) minesLeft() bool {
	for i := range e.lanes {
		if front(e.lanes[i].mine) != nil {
			return true
		}
	}
	return false
}

func (e *Engine) anyOpen() bool {
	for i := range e.lanes {
		if e.lanes[i].open >= 0 {
			return true
		}
	}
	return false
}

func (e *Engine) fire(d due) {
	l := &e.lanes[d.lane]
	switch d.kind {
	case dueRegular:
		n := front(l.regular)
		n.Expired = true
		if e.opts.Role == AutoPlay {
			n.Hit = true
			e.commit(d.lane, n, game.ExactPerfect, 0, n.Time)
			return
		}
		e.commit(d.lane, n, game.Miss, 0, d.at)
	case dueLong:
		n := front(l.long)
		idx := l.long.Index()
		if n.Category == game.LongTail {
			if l.open >= 0 {
				e.close(d.lane, game.ExactPerfect, n.Time)
				return
			}
			n.Expired = true
			return
		}
		if e.opts.Role == AutoPlay {
			n.Hit, n.Expired = true, true
			e.open(d.lane, idx, game.ExactPerfect, 0)
			return
		}
		n.Expired = true
		if tail := l.long.Note(n.Tail); tail != nil {
			tail.Expired = true
		}
		e.commit(d.lane, n, game.Miss, 0, d.at)
	case dueMine:
		n := front(l.mine)
		n.Expired = true
		if e.opts.Role != AutoPlay && l.held && l.pressedAt <= n.Time {
			n.Hit = true
			e.commit(d.lane, n, game.MinePoor, 0, n.Time)
		}
	}
}

func (e *Engine) open(i, idx int, area game.JudgeArea, offset time.Duration) {
	l := &e.lanes[i]
	l.open = idx
	l.headArea = area
	l.headOffset = offset
	e.state.LNOpen[i] = true
}

func worse(a, b game.JudgeArea) game.JudgeArea {
	if b.Tier() > a.Tier() {
		return b
	}
	return a
}

// close ends the open long note of lane i. The committed area is the worse
// of the head and the release.
func (e *Engine) close(i int, release game.JudgeArea, at time.Duration) {
	l := &e.lanes[i]
	head := l.long.Note(l.open)
	l.open = -1
	e.state.LNOpen[i] = false
	area := worse(l.headArea, release)
	if tail := l.long.Note(head.Tail); tail != nil {
		tail.Expired = true
		tail.Hit = area.Combo()
		e.commit(i, tail, area, l.headOffset, at)
		return
	}
	e.commit(i, head, area, l.headOffset, at)
}

func (e *Engine) press(i int, at time.Duration) {
	l := &e.lanes[i]
	if l.open >= 0 {
		// pressed again without a release, the rest of the note is lost
		e.close(i, game.EarlyBad, at)
	}
	l.held = true
	l.pressedAt = at

	var best *game.Note
	bestD := time.Duration(0)
	for k := l.regular.Index(); ; k++ {
		n := l.regular.Note(k)
		if n == nil {
			break
		}
		if !n.Pending() {
			continue
		}
		off := at - n.Time
		if off < -e.window.Poor {
			break
		}
		if off > e.window.Bad {
			continue
		}
		if d := abs(off); best == nil || d < bestD {
			best, bestD = n, d
		} else {
			break
		}
	}
	long := false
	if h := front(l.long); h != nil && h.Category == game.LongHead {
		off := at - h.Time
		d := abs(off)
		if e.window.Hittable(off) && (best == nil || d < bestD || (d == bestD && h.Time < best.Time)) {
			best, bestD, long = h, d, true
		}
	}
	if best == nil {
		return
	}

	off := at - best.Time
	area, _ := e.window.Classify(off)
	best.Expired = true
	if long {
		if area.Combo() {
			best.Hit = true
			e.open(i, l.long.Index(), area, off)
			return
		}
		if tail := l.long.Note(best.Tail); tail != nil {
			tail.Expired = true
		}
		e.commit(i, best, area, off, at)
		return
	}
	best.Hit = area.Combo()
	e.commit(i, best, area, off, at)
}

func (e *Engine) release(i int, at time.Duration) {
	l := &e.lanes[i]
	l.held = false
	if l.open < 0 {
		return
	}
	head := l.long.Note(l.open)
	tail := l.long.Note(head.Tail)
	if tail == nil {
		e.close(i, l.headArea, at)
		return
	}
	area, ok := e.window.Classify(at - tail.Time)
	if !ok || area.Tier() > game.TierBad {
		area = game.EarlyBad
	}
	e.close(i, area, at)
}

func (e *Engine) reverse(i int, at time.Duration) {
	l := &e.lanes[i]
	if l.open >= 0 {
		e.close(i, game.Miss, at)
	}
	e.press(i, at)
}

// commit applies one resolved note to the running state
func (e *Engine) commit(i int, n *game.Note, area game.JudgeArea, offset, at time.Duration) {
	s := &e.state
	j := game.Judgement{
		At:       at,
		Lane:     i,
		Category: n.Category,
		Area:     area,
		Offset:   offset,
		Value:    n.Value,
	}
	s.Counts[area]++
	tier := area.Tier()
	if area != game.MinePoor {
		s.Judged++
		if area.Combo() {
			s.Combo++
			if s.Combo > s.MaxCombo {
				s.MaxCombo = s.Combo
			}
		} else {
			s.Combo = 0
			if s.FirstBreak < 0 {
				s.FirstBreak = at
			}
		}
		if area.Fast() {
			s.Fast++
		} else if area.Slow() {
			s.Slow++
		}
		switch tier {
		case game.TierPerfect:
			s.ExScore += 2
			e.weight += 1
		case game.TierGreat:
			s.ExScore++
			e.weight += 0.5
		case game.TierGood:
			e.weight += 0.2
		}
		if s.Notes > 0 {
			s.Score = e.opts.MaxScore * e.weight / float64(s.Notes)
			s.TotalAccuracy = float64(s.ExScore) / float64(2*s.Notes)
		}
		s.Accuracy = float64(s.ExScore) / float64(2*s.Judged)
	}
	failed := e.gauge.Apply(tier)
	s.Health = e.gauge.Health
	s.Last = j
	s.HasLast = true
	e.judgements = append(e.judgements, j)
	if failed {
		s.Outcome = Failed
	}
}
