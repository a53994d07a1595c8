package judge

import (
	"strings"

	"git.lost.host/meutraa/eotb/internal/game"
)

type GaugeType uint8

const (
	AssistEasy GaugeType = iota
	EasyGauge
	Groove
	HardGauge
	ExHard
	Hazard
	Class
	ExClass
	ExHardClass
	PerfectAttack
)

// Deltas are indexed by game.Tier, in percent of a full gauge
type gaugeSpec struct {
	name     string
	floor    float64
	initial  float64
	clear    float64
	fail     bool // reaching the floor ends the session
	gain     bool // perfect/great/good deltas are multiples of total/notes
	scaled   bool // damage grows on short charts and charts with a low total
	discount bool // damage is reduced while health is low
	deltas   [7]float64
}

var gauges = [...]gaugeSpec{
	AssistEasy:    {"assist-easy", 2, 20, 60, false, true, false, false, [7]float64{1, 1, 0.5, -1.6, -1.6, -4.8, -1.6}},
	EasyGauge:     {"easy", 2, 20, 80, false, true, false, false, [7]float64{1, 1, 0.5, -1.6, -1.6, -4.8, -1.6}},
	Groove:        {"groove", 2, 20, 80, false, true, false, false, [7]float64{1, 1, 0.5, -2, -2, -6, -2}},
	HardGauge:     {"hard", 0, 100, 0, true, false, true, true, [7]float64{0.16, 0.16, 0, -5, -5, -10, -10}},
	ExHard:        {"exhard", 0, 100, 0, true, false, true, false, [7]float64{0.15, 0.06, 0, -8, -8, -16, -16}},
	Hazard:        {"hazard", 0, 100, 0, true, false, false, false, [7]float64{0.15, 0.06, 0, -100, -100, -100, -100}},
	Class:         {"class", 0, 100, 0, true, false, false, true, [7]float64{0.15, 0.12, 0.06, -1.5, -1.5, -3, -1.5}},
	ExClass:       {"exclass", 0, 100, 0, true, false, false, true, [7]float64{0.15, 0.12, 0.03, -3, -3, -6, -3}},
	ExHardClass:   {"exhard-class", 0, 100, 0, true, false, false, false, [7]float64{0.15, 0.06, 0, -5, -5, -10, -10}},
	PerfectAttack: {"perfect-attack", 0, 100, 0, true, false, false, false, [7]float64{0, -100, -100, -100, -100, -100, -100}},
}

const (
	discountBelow = 0.30
	discountScale = 0.6
)

func (t GaugeType) String() string {
	if int(t) < len(gauges) {
		return gauges[t].name
	}
	return "groove"
}

func ParseGauge(s string) (GaugeType, bool) {
	s = strings.ToLower(s)
	for i, g := range gauges {
		if g.name == s {
			return GaugeType(i), true
		}
	}
	return Groove, false
}

// totalScale grows as the declared total drops
func totalScale(total float64) float64 {
	switch {
	case total >= 240:
		return 1.0
	case total >= 230:
		return 1.11
	case total >= 210:
		return 1.25
	case total >= 200:
		return 1.5
	case total >= 180:
		return 1.666
	case total >= 160:
		return 2.0
	case total >= 150:
		return 2.5
	case total >= 130:
		return 3.333
	case total >= 120:
		return 5.0
	}
	return 10.0
}

// densityScale grows as the judgeable note count drops
func densityScale(notes int) float64 {
	n := float64(notes)
	switch {
	case notes >= 1000:
		return 1.0
	case notes >= 500:
		return 1.0 + (1000-n)*0.002
	case notes >= 250:
		return 2.0 + (500-n)*0.004
	case notes >= 125:
		return 3.0 + (250-n)*0.008
	case notes >= 60:
		return 4.0 + (125-n)/65
	case notes >= 30:
		return 5.0 + (60-n)/30
	case notes >= 20:
		return 6.0 + (30-n)*0.2
	}
	return 10.0
}

// DamageScale is the multiplier applied to the damage of scaled gauges
func DamageScale(total float64, notes int) float64 {
	t, d := totalScale(total), densityScale(notes)
	if t > d {
		return t
	}
	return d
}

// Gauge is the live health of one session, health is a fraction of 1
type Gauge struct {
	Type   GaugeType
	Health float64
	Floor  float64
	Clear  float64
	Fail   bool

	deltas   [7]float64
	discount bool
}

// NewGauge fixes the delta table for a chart with the given total and
// judgeable note count.
func NewGauge(t GaugeType, total float64, notes int) *Gauge {
	if int(t) >= len(gauges) {
		t = Groove
	}
	spec := gauges[t]
	g := &Gauge{
		Type:     t,
		Health:   spec.initial / 100,
		Floor:    spec.floor / 100,
		Clear:    spec.clear / 100,
		Fail:     spec.fail,
		discount: spec.discount,
	}
	if notes < 1 {
		notes = 1
	}
	scale := DamageScale(total, notes)
	for i, d := range spec.deltas {
		switch {
		case spec.gain && d > 0:
			d *= total / float64(notes)
		case spec.scaled && d < 0:
			d *= scale
		}
		g.deltas[i] = d / 100
	}
	return g
}

// Delta is the unmodified health change for a tier
func (g *Gauge) Delta(t game.Tier) float64 {
	if int(t) >= len(g.deltas) {
		return 0
	}
	return g.deltas[t]
}

// Apply changes the health for one judgement and reports whether the gauge
// has emptied under a fail on empty policy.
func (g *Gauge) Apply(t game.Tier) bool {
	d := g.Delta(t)
	if g.discount && d < 0 && g.Health < discountBelow {
		d *= discountScale
	}
	g.Health += d
	if g.Health > 1 {
		g.Health = 1
	}
	if g.Health < g.Floor {
		g.Health = g.Floor
	}
	return g.Failed()
}

func (g *Gauge) Failed() bool {
	return g.Fail && g.Health <= g.Floor
}

func (g *Gauge) Cleared() bool {
	return !g.Failed() && g.Health >= g.Clear
}
