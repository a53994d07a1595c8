package timeline

import (
	"math"
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
)

const (
	// InvalidDuration is returned for bar queries outside the chart
	InvalidDuration = time.Duration(math.MinInt64)
	// MaxPosition is returned for bar position queries outside the chart
	MaxPosition = math.MaxFloat64
)

// Stream is every note of one category on one lane, ascending by time
type Stream struct {
	Category game.Category
	Lane     int
	Notes    []game.Note
}

type Stats struct {
	MinBPM   float64
	MaxBPM   float64
	AvgBPM   float64 // weighted by the time spent at each tempo, stops excluded
	Duration time.Duration
	Notes    int // judgeable notes, a long note counts once
}

type Timeline struct {
	Bars []game.BarTiming
	End  time.Duration
	Keys int // number of playable lanes
	BPMs []game.BPMChange

	Stats Stats

	streams [game.NumCategories][]*Stream
}

var none = &Stream{}

// slot maps a category onto where its stream is stored. Long note tails
// live in the same stream as their heads.
func slot(c game.Category) game.Category {
	if c == game.LongTail {
		return game.LongHead
	}
	return c
}

// Stream returns the stream for (category, lane), or an empty one
func (t *Timeline) Stream(c game.Category, lane int) *Stream {
	c = slot(c)
	if int(c) >= game.NumCategories || lane < 0 || lane >= len(t.streams[c]) || t.streams[c][lane] == nil {
		return none
	}
	return t.streams[c][lane]
}

// Lanes is the number of lanes carrying a stream of category c
func (t *Timeline) Lanes(c game.Category) int {
	c = slot(c)
	if int(c) >= game.NumCategories {
		return 0
	}
	return len(t.streams[c])
}

func (t *Timeline) stream(c game.Category, lane int) *Stream {
	for len(t.streams[c]) <= lane {
		t.streams[c] = append(t.streams[c], nil)
	}
	if t.streams[c][lane] == nil {
		t.streams[c][lane] = &Stream{Category: c, Lane: lane}
	}
	return t.streams[c][lane]
}

func (t *Timeline) BarTime(i int) time.Duration {
	if i < 0 || i >= len(t.Bars) {
		return InvalidDuration
	}
	return t.Bars[i].Time
}

func (t *Timeline) BarPosition(i int) float64 {
	if i < 0 || i >= len(t.Bars) {
		return MaxPosition
	}
	return t.Bars[i].Position
}

// Clone copies every stream so the per play note flags of the copy are
// independent of the original.
func (t *Timeline) Clone() *Timeline {
	c := *t
	for cat := range t.streams {
		c.streams[cat] = make([]*Stream, len(t.streams[cat]))
		for lane, s := range t.streams[cat] {
			if s == nil {
				continue
			}
			notes := make([]game.Note, len(s.Notes))
			copy(notes, s.Notes)
			c.streams[cat][lane] = &Stream{Category: s.Category, Lane: s.Lane, Notes: notes}
		}
	}
	return &c
}

// Reset clears every per play flag
func (t *Timeline) Reset() {
	for cat := range t.streams {
		for _, s := range t.streams[cat] {
			if s == nil {
				continue
			}
			for i := range s.Notes {
				s.Notes[i].Hit = false
				s.Notes[i].Expired = false
			}
		}
	}
}

// Cursor walks a stream forward. It holds an index rather than a pointer so
// the stream may be copied without invalidating it.
type Cursor struct {
	stream *Stream
	pos    int
}

func (t *Timeline) Cursor(c game.Category, lane int) *Cursor {
	return &Cursor{stream: t.Stream(c, lane)}
}

func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.stream.Notes)
}

// Peek returns the next note without consuming it, nil when exhausted
func (c *Cursor) Peek() *game.Note {
	if c.Exhausted() {
		return nil
	}
	return &c.stream.Notes[c.pos]
}

// PeekAt looks ahead n notes past the cursor
func (c *Cursor) PeekAt(n int) *game.Note {
	i := c.pos + n
	if n < 0 || i >= len(c.stream.Notes) {
		return nil
	}
	return &c.stream.Notes[i]
}

func (c *Cursor) Next() *game.Note {
	n := c.Peek()
	if n != nil {
		c.pos++
	}
	return n
}

// Index is the stream index of the note Peek would return
func (c *Cursor) Index() int {
	return c.pos
}

// Note returns the stream note at index i, nil outside the stream
func (c *Cursor) Note(i int) *game.Note {
	if i < 0 || i >= len(c.stream.Notes) {
		return nil
	}
	return &c.stream.Notes[i]
}

// BPMCursor answers "current BPM" for a monotonically increasing time
type BPMCursor struct {
	changes []game.BPMChange
	pos     int
}

func (t *Timeline) BPMCursor() *BPMCursor {
	return &BPMCursor{changes: t.BPMs}
}

// At returns the BPM in effect at time at. Times earlier than a previous
// call answer with the later state, the cursor never rewinds.
func (c *BPMCursor) At(at time.Duration) float64 {
	if len(c.changes) == 0 {
		return 0
	}
	for c.pos+1 < len(c.changes) && c.changes[c.pos+1].Time <= at {
		c.pos++
	}
	return c.changes[c.pos].BPM
}
