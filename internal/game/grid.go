package game

// MaxBars is the number of bars addressable by a three digit bar index
const MaxBars = 1000

// Grid is a flat arena of sequences addressed by (lane, bar). Slots hold an
// index into seqs, or -1 when the cell has never been written.
type Grid struct {
	lanes int
	slots []int32
	seqs  []Sequence
}

func NewGrid(lanes int) *Grid {
	g := &Grid{}
	g.grow(lanes)
	return g
}

func (g *Grid) grow(lanes int) {
	if lanes <= g.lanes {
		return
	}
	slots := make([]int32, lanes*MaxBars)
	copy(slots, g.slots)
	for i := len(g.slots); i < len(slots); i++ {
		slots[i] = -1
	}
	g.slots = slots
	g.lanes = lanes
}

func (g *Grid) Lanes() int {
	return g.lanes
}

func (g *Grid) valid(lane, bar int) bool {
	return lane >= 0 && bar >= 0 && bar < MaxBars
}

// At returns the sequence stored at (lane, bar), or nil
func (g *Grid) At(lane, bar int) *Sequence {
	if !g.valid(lane, bar) || lane >= g.lanes {
		return nil
	}
	idx := g.slots[lane*MaxBars+bar]
	if idx < 0 {
		return nil
	}
	return &g.seqs[idx]
}

// Put merges seq into the cell at (lane, bar), growing the lane count if
// needed. Writes outside the bar range are dropped.
func (g *Grid) Put(lane, bar int, seq Sequence) {
	if !g.valid(lane, bar) {
		return
	}
	g.grow(lane + 1)
	slot := lane*MaxBars + bar
	if idx := g.slots[slot]; idx >= 0 {
		g.seqs[idx].Merge(seq)
		return
	}
	g.slots[slot] = int32(len(g.seqs))
	g.seqs = append(g.seqs, seq.Clone())
}

// Place inserts a single event given at resolution res into (lane, bar)
func (g *Grid) Place(lane, bar, res int, ev Event) {
	g.Put(lane, bar, Sequence{Resolution: res, Events: []Event{ev}})
}

// Take empties the cell at (lane, bar) and returns what it held
func (g *Grid) Take(lane, bar int) (Sequence, bool) {
	s := g.At(lane, bar)
	if s == nil {
		return Sequence{}, false
	}
	out := *s
	*s = Sequence{}
	return out, true
}

// LastBar is the highest bar holding at least one event, -1 if none
func (g *Grid) LastBar() int {
	last := -1
	g.Each(func(lane, bar int, s *Sequence) {
		if bar > last && !s.Empty() {
			last = bar
		}
	})
	return last
}

// Count is the number of events across every cell
func (g *Grid) Count() int {
	n := 0
	for i := range g.seqs {
		n += len(g.seqs[i].Events)
	}
	return n
}

// LaneCount is the number of events in a single lane
func (g *Grid) LaneCount(lane int) int {
	n := 0
	for bar := 0; bar < MaxBars; bar++ {
		if s := g.At(lane, bar); s != nil {
			n += len(s.Events)
		}
	}
	return n
}

// Each visits non-nil cells in (lane, bar) order
func (g *Grid) Each(fn func(lane, bar int, s *Sequence)) {
	for lane := 0; lane < g.lanes; lane++ {
		for bar := 0; bar < MaxBars; bar++ {
			if idx := g.slots[lane*MaxBars+bar]; idx >= 0 {
				fn(lane, bar, &g.seqs[idx])
			}
		}
	}
}

// Equal reports whether both grids hold the same events at the same places
func (g *Grid) Equal(o *Grid) bool {
	lanes := g.lanes
	if o.lanes > lanes {
		lanes = o.lanes
	}
	for lane := 0; lane < lanes; lane++ {
		for bar := 0; bar < MaxBars; bar++ {
			a, b := g.At(lane, bar), o.At(lane, bar)
			if (a == nil || a.Empty()) && (b == nil || b.Empty()) {
				continue
			}
			if a == nil || b == nil || a.Resolution != b.Resolution || len(a.Events) != len(b.Events) {
				return false
			}
			for i := range a.Events {
				if a.Events[i] != b.Events[i] {
					return false
				}
			}
		}
	}
	return true
}
