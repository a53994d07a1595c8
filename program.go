package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/eotb/internal/audio"
	"git.lost.host/meutraa/eotb/internal/config"
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/input"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/parser"
	"git.lost.host/meutraa/eotb/internal/render"
	"git.lost.host/meutraa/eotb/internal/replay"
	"git.lost.host/meutraa/eotb/internal/score"
	"git.lost.host/meutraa/eotb/internal/theme"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

const (
	keyEsc       = 1 // evdev code
	axisX        = 0 // evdev ABS_X
	laneWidth    = 3
	fieldTop     = 2
	statusRows   = 6
	finishLinger = 2 * time.Second
)

type Program struct {
	Parser   parser.Parser
	Scorer   score.Scorer
	Theme    theme.Theme
	Renderer render.Renderer
	Config   *config.Config

	file  string
	chart *game.Chart

	engine *judge.Engine
	best   *judge.Engine // my-best shadow, nil without a stored play
	role   judge.Role

	bank   *audio.Bank
	player *audio.Player
	bgm    []*timeline.Cursor
	shown  int // judgements already sounded and drawn

	binding    *input.Binding
	events     chan *input.Event
	closeInput func()
	evdev      bool
	pressed    []bool
	start      time.Time

	// screen layout
	columns []int // terminal column of every lane, 0 when hidden
	hitRow  int
	height  int
	sideCol int
}

// Load parses the chart file with seed, a negative seed picks one
func (p *Program) Load(file string, seed int64) error {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	chart, err := p.Parser.Parse(file, seed)
	if nil != err {
		return errors.Wrapf(err, "unable to load %s", file)
	}
	p.file = file
	p.chart = chart
	return nil
}

// snapshot is the option set of a new session under the current config
func (p *Program) snapshot() replay.Snapshot {
	profile := judge.ProfileOf(p.chart.Rank)
	if parsed, ok := judge.ParseProfile(p.Config.Profile); ok {
		profile = parsed
	}
	return replay.Snapshot{
		Gauge:   p.Config.Gauge,
		Profile: profile.String(),
		Arrange: p.Config.Arrange,
	}
}

// chartFor returns the chart parsed with seed. #RANDOM draws depend on the
// seed, so a log recorded with another seed needs its own parse.
func (p *Program) chartFor(seed int64) (*game.Chart, error) {
	if seed == p.chart.Seed {
		return p.chart, nil
	}
	chart, err := p.Parser.Parse(p.file, seed)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to load %s", p.file)
	}
	return chart, nil
}

// session builds the engine for role. A shadow role plays source, any
// other role starts a fresh log.
func (p *Program) session(role judge.Role, source *replay.Log) (*judge.Engine, *game.Chart, error) {
	l := source
	if l == nil {
		l = replay.New(p.chart.Seed, p.chart.Hash, p.snapshot())
	}
	chart, err := p.chartFor(l.Seed)
	if nil != err {
		return nil, nil, err
	}
	opts, arrange := score.Options(chart, l)
	opts.Role = role
	if role.Shadow() {
		opts.Source = l
	} else {
		opts.Record = l
	}
	tl := timeline.Build(chart, score.Slot(chart), arrange)
	return judge.New(tl, opts), chart, nil
}

func (p *Program) openInput() error {
	p.events = make(chan *input.Event, 128)
	keys := p.Config.KeysFor(p.chart.Mode)
	if p.Config.Device != "" {
		if err := input.ReadInput(p.Config.Device, p.events); nil != err {
			return err
		}
		p.evdev = true
		p.closeInput = func() {}
		p.binding = input.NewBinding(keys, config.Unbound, true, 0)
		p.binding.Scratch(axisX, judge.NewScratch(game.ScratchLane, p.Config.ScratchPress, p.Config.ScratchRelease))
		return nil
	}
	closer, err := input.ReadKeyboard(p.events)
	if nil != err {
		return err
	}
	p.closeInput = closer
	p.binding = input.NewBinding(keys, config.Unbound, false, p.Config.Tap)
	return nil
}

func (p *Program) openAudio() {
	p.bank = audio.NewBank(44100)
	p.bank.Volume = p.Config.Volume
	p.bank.LoadChart(filepath.Dir(p.file), p.chart)
	if p.bank.Missing > 0 {
		log.Printf("%d of the chart's samples are missing\n", p.bank.Missing)
	}
	player, err := audio.NewPlayer(p.bank)
	if nil != err {
		log.Println(err, "playing without sound")
		return
	}
	p.player = player
	tl := p.engine.Timeline()
	for layer := 0; layer < tl.Lanes(game.BGM); layer++ {
		p.bgm = append(p.bgm, tl.Cursor(game.BGM, layer))
	}
}

// layout places the lanes in the middle of the terminal, the scratch on the
// outer side of each side
func (p *Program) layout() {
	width, height := p.Renderer.Size()
	keys := p.engine.Timeline().Keys
	order := make([]int, 0, keys)
	for side := 0; side*game.LanesPerSide < keys; side++ {
		lanes := []int{}
		for l := 0; l < game.LanesPerSide; l++ {
			if p.chart.Layout == game.LayoutBeat && l == game.ScratchLane {
				continue
			}
			if p.chart.Layout == game.LayoutBeat && l > game.ScratchLane {
				break
			}
			lanes = append(lanes, game.Lane(side, l))
		}
		if p.chart.Layout == game.LayoutBeat {
			scratch := game.Lane(side, game.ScratchLane)
			if side == 0 {
				lanes = append([]int{scratch}, lanes...)
			} else {
				lanes = append(lanes, scratch)
			}
		}
		order = append(order, lanes...)
	}

	p.columns = make([]int, keys)
	left := width/2 - len(order)*laneWidth/2
	if left < 1 {
		left = 1
	}
	for i, lane := range order {
		p.columns[lane] = left + i*laneWidth
	}
	p.height = height
	p.hitRow = height - statusRows
	p.sideCol = left + len(order)*laneWidth + 4
	p.pressed = make([]bool, keys)
}

// Play runs one session on the terminal until it ends or is quit
func (p *Program) Play(role judge.Role, source *replay.Log) error {
	if role == judge.Single && p.chart.Mode.Double() {
		role = judge.Double
	}
	engine, chart, err := p.session(role, source)
	if nil != err {
		return err
	}
	p.engine = engine
	p.chart = chart
	p.role = role
	if role.Live() {
		if best, err := p.Scorer.Best(p.chart); nil != err {
			log.Println(err)
		} else if nil != best {
			if p.best, _, err = p.session(judge.MyBest, best.Log); nil != err {
				log.Println(err)
			}
		}
	}

	if err := p.openInput(); nil != err {
		return err
	}
	defer p.closeInput()
	p.openAudio()
	if nil != p.player {
		defer p.player.Close()
	}

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	p.layout()
	p.engine.SetHiSpeed(p.Config.HiSpeed, 0)
	p.start = time.Now().Add(p.Config.Delay)

	var end time.Duration
	p.Renderer.RenderLoop(p.Config.Delay, p.Config.FramePeriod, func(duration time.Duration) bool {
		now := duration + p.Config.Offset
		end = now
		if !p.update(now) {
			return false
		}
		p.render(now)
		if p.engine.Outcome().Terminal() {
			return now < p.engine.Now()+finishLinger
		}
		if now > p.engine.Timeline().End+finishLinger {
			p.engine.Finish(now)
		}
		return true
	})
	if err := p.Renderer.Deinit(); nil != err {
		log.Println(err)
	}

	p.engine.Finish(end)
	p.summary()
	if !role.Live() {
		return nil
	}
	return p.Scorer.Save(p.chart, p.engine.Log(), p.engine.State())
}

// update feeds pending input and moves both sessions to now. It returns
// false once the player quits.
func (p *Program) update(now time.Duration) bool {
	for len(p.events) > 0 {
		ev := <-p.events
		if ev.Quit || (p.evdev && ev.Pressed && ev.Code == keyEsc) {
			return false
		}
		at := ev.Time.Sub(p.start) + p.Config.Offset
		inputs := append(p.binding.Due(at), p.binding.Translate(ev, at)...)
		p.apply(inputs)
	}
	p.apply(p.binding.Due(now))
	p.engine.Advance(now)
	if nil != p.best {
		p.best.Advance(now)
	}

	for _, c := range p.bgm {
		for n := c.Peek(); n != nil && n.Time <= now; n = c.Peek() {
			c.Next()
			p.play(n.Value)
		}
	}
	return true
}

func (p *Program) apply(inputs []judge.Input) {
	for _, in := range inputs {
		if in.Lane >= 0 && in.Lane < len(p.pressed) {
			p.pressed[in.Lane] = in.Kind != judge.InputRelease
		}
	}
	p.engine.Step(p.engine.Now(), inputs)
}

func (p *Program) play(index int) {
	if nil != p.player {
		p.player.Play(index)
	}
}

func (p *Program) render(now time.Duration) {
	r, th := p.Renderer, p.Theme
	st := p.engine.State()
	tl := p.engine.Timeline()

	// the field shows two seconds of chart at hispeed 1
	window := time.Duration(float64(2*time.Second) / st.HiSpeed)
	rows := p.hitRow - fieldTop
	for lane, col := range p.columns {
		if col == 0 {
			continue
		}
		for row := fieldTop; row < p.hitRow; row++ {
			r.Fill(uint16(row), uint16(col), "  ")
		}
		for _, c := range []game.Category{game.Regular, game.LongHead, game.Mine} {
			notes := tl.Stream(c, lane).Notes
			for i := range notes {
				n := &notes[i]
				if n.Time < now || !n.Pending() {
					continue
				}
				if n.Time > now+window {
					break
				}
				row := p.hitRow - 1 - int(float64(rows)*float64(n.Time-now)/float64(window))
				if row >= fieldTop {
					r.Fill(uint16(row), uint16(col), th.RenderNote(lane, n.Category))
				}
			}
		}
		r.Fill(uint16(p.hitRow), uint16(col), th.RenderHitField(lane, p.pressed[lane]))
	}

	for _, j := range p.engine.Since(p.shown) {
		p.shown++
		if j.Area != game.Miss && j.Area != game.MinePoor && j.Category != game.LongTail {
			p.play(j.Value)
		}
		if j.Lane >= 0 && j.Lane < len(p.columns) && p.columns[j.Lane] > 0 {
			r.AddDecoration(uint16(p.columns[j.Lane]), uint16(p.hitRow+1), "**", 30)
		}
	}

	col := uint16(p.sideCol)
	if st.HasLast {
		r.Fill(4, col, fmt.Sprintf("%-24s", th.RenderArea(st.Last.Area)))
	}
	r.Fill(5, col, fmt.Sprintf("Combo   %6d", st.Combo))
	r.Fill(6, col, fmt.Sprintf("EX      %6d", st.ExScore))
	r.Fill(7, col, fmt.Sprintf("Score   %6.0f", st.Score))
	r.Fill(8, col, fmt.Sprintf("Fast %4d  Slow %4d", st.Fast, st.Slow))
	if nil != p.best {
		r.Fill(9, col, fmt.Sprintf("Best    %+6d", st.ExScore-p.best.State().ExScore))
	}
	r.Fill(11, col, fmt.Sprintf("%s %5.1f%%", p.engine.Gauge(), 100*st.Health))
	r.Fill(12, col, th.RenderGauge(st.Health, clearLine(p.engine.Gauge()), 25))
	r.Fill(uint16(p.height), 1, fmt.Sprintf("%s  %s  %d/%d", p.chart.Title, p.role, st.Judged, st.Notes))
}

func clearLine(g judge.GaugeType) float64 {
	return judge.NewGauge(g, 0, 1).Clear
}

func (p *Program) summary() {
	st := p.engine.State()
	fmt.Printf("%s [%s] %s\n", p.chart.Title, p.chart.Mode, st.Outcome)
	for t := game.TierPerfect; t <= game.TierMine; t++ {
		fmt.Printf("%8s %6d\n", t, st.Count(t))
	}
	fmt.Printf("%8s %6d / %d\n", "EX", st.ExScore, 2*st.Notes)
	fmt.Printf("%8s %6s\n", "SCORE", humanize.Comma(int64(st.Score)))
	fmt.Printf("%8s %6d\n", "COMBO", st.MaxCombo)
	fmt.Printf("%8s %5.2f%%\n", "RATE", 100*st.TotalAccuracy)
	fmt.Printf("%8s %d / %d\n", "FAST", st.Fast, st.Slow)
}
