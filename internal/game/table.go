package game

// LanesPerSide is the number of playable lanes reserved for each side.
// Beat charts use 0..6 for keys and 7 for the scratch, popn uses 0..8.
const LanesPerSide = 9

const (
	Side1 = 0
	Side2 = 1
)

// ScratchLane is the per-side lane index of the turntable in beat layout
const ScratchLane = 7

// Lane addresses a lane in a note grid
func Lane(side, lane int) int {
	return side*LanesPerSide + lane
}

// Table is the channel indexed note table of a parsed chart
type Table struct {
	Regular   *Grid
	Invisible *Grid
	LongNote  *Grid
	Mine      *Grid
	BGM       *Grid // lane = layer index

	BPM      *Grid // channel 03, values are plain BPM
	ExtBPM   *Grid // channel 08, values index Metadata.BPMs
	Stop     *Grid // channel 09, values index Metadata.Stops
	BGABase  *Grid
	BGAPoor  *Grid
	BGALayer *Grid

	// BarLength is the bar length as a multiple of 4/4, 0 until defaulted
	BarLength [MaxBars]float64
}

func NewTable() *Table {
	return &Table{
		Regular:   NewGrid(2 * LanesPerSide),
		Invisible: NewGrid(2 * LanesPerSide),
		LongNote:  NewGrid(2 * LanesPerSide),
		Mine:      NewGrid(2 * LanesPerSide),
		BGM:       NewGrid(1),
		BPM:       NewGrid(1),
		ExtBPM:    NewGrid(1),
		Stop:      NewGrid(1),
		BGABase:   NewGrid(1),
		BGAPoor:   NewGrid(1),
		BGALayer:  NewGrid(1),
	}
}

func (t *Table) grids() []*Grid {
	return []*Grid{
		t.Regular, t.Invisible, t.LongNote, t.Mine, t.BGM,
		t.BPM, t.ExtBPM, t.Stop, t.BGABase, t.BGAPoor, t.BGALayer,
	}
}

// LastBar is the highest bar carrying any event in any grid, -1 if none
func (t *Table) LastBar() int {
	last := -1
	for _, g := range t.grids() {
		if b := g.LastBar(); b > last {
			last = b
		}
	}
	return last
}

// Length returns the bar length of bar, 1.0 when unset or out of range
func (t *Table) Length(bar int) float64 {
	if bar < 0 || bar >= MaxBars || t.BarLength[bar] <= 0 {
		return 1.0
	}
	return t.BarLength[bar]
}

func (t *Table) Equal(o *Table) bool {
	a, b := t.grids(), o.grids()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return t.BarLength == o.BarLength
}
