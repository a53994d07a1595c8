package judge

import (
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/replay"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

type InputKind uint8

const (
	InputPress InputKind = iota
	InputHold
	InputRelease
	InputReverse
)

// Input is one lane transition
type Input struct {
	Lane int
	Kind InputKind
	At   time.Duration
}

type Options struct {
	Profile  Profile
	Gauge    GaugeType
	Role     Role
	Total    float64 // chart #TOTAL, the default total is used when <= 0
	MaxScore float64 // money score of an all perfect play

	// Source drives the shadow roles
	Source *replay.Log
	// Record receives live input, a new log is created when nil
	Record *replay.Log
}

type lane struct {
	regular *timeline.Cursor
	long    *timeline.Cursor
	mine    *timeline.Cursor

	held      bool
	pressedAt time.Duration

	open       int // long stream index of the open head, -1 when closed
	headArea   game.JudgeArea
	headOffset time.Duration
}

// Engine judges one session. It is not safe for concurrent use, each
// session owns its engine and its copy of the timeline.
type Engine struct {
	tl     *timeline.Timeline
	opts   Options
	window Window
	gauge  *Gauge
	lanes  []lane

	state      State
	weight     float64
	judgements []game.Judgement

	log    *replay.Log
	source *replay.Cursor
	now    time.Duration
}

func New(tl *timeline.Timeline, opts Options) *Engine {
	tl = tl.Clone()
	notes := tl.Stats.Notes
	total := opts.Total
	if total <= 0 {
		total = game.DefaultTotal(notes)
	}
	if opts.MaxScore <= 0 {
		opts.MaxScore = game.Beat7K.MaxScore()
	}

	e := &Engine{
		tl:     tl,
		opts:   opts,
		window: opts.Profile.Window(),
		gauge:  NewGauge(opts.Gauge, total, notes),
		log:    opts.Record,
	}
	if e.log == nil {
		e.log = &replay.Log{}
	}
	if opts.Source != nil {
		e.source = opts.Source.Cursor()
	}
	e.lanes = make([]lane, tl.Keys)
	for i := range e.lanes {
		e.lanes[i] = lane{
			regular: tl.Cursor(game.Regular, i),
			long:    tl.Cursor(game.LongHead, i),
			mine:    tl.Cursor(game.Mine, i),
			open:    -1,
		}
	}
	e.state = State{
		Notes:      notes,
		Health:     e.gauge.Health,
		FirstBreak: -1,
		LNOpen:     make([]bool, tl.Keys),
		HiSpeed:    1,
	}
	return e
}

// Replay plays a log against a fresh engine through to the end
func Replay(tl *timeline.Timeline, opts Options, log *replay.Log) *Engine {
	if !opts.Role.Shadow() {
		opts.Role = MyBest
	}
	opts.Source = log
	e := New(tl, opts)
	end := tl.End
	if last := time.Duration(log.Last()) * time.Millisecond; last > end {
		end = last
	}
	e.Finish(end + e.window.Bad + time.Millisecond)
	return e
}

func quantize(at time.Duration) time.Duration {
	return at.Truncate(time.Millisecond)
}

func (e *Engine) State() State {
	return e.state.clone()
}

func (e *Engine) Outcome() Outcome {
	return e.state.Outcome
}

// Judgements returns every committed result so far. The slice must not be
// modified, later results are appended after it.
func (e *Engine) Judgements() []game.Judgement {
	return e.judgements[:len(e.judgements):len(e.judgements)]
}

// Since returns the results committed after the first n
func (e *Engine) Since(n int) []game.Judgement {
	if n < 0 {
		n = 0
	}
	if n >= len(e.judgements) {
		return nil
	}
	return e.judgements[n:len(e.judgements):len(e.judgements)]
}

func (e *Engine) Log() *replay.Log {
	return e.log
}

// Timeline is the engine's own copy, carrying this session's note flags
func (e *Engine) Timeline() *timeline.Timeline {
	return e.tl
}

func (e *Engine) Window() Window {
	return e.window
}

func (e *Engine) Gauge() GaugeType {
	return e.gauge.Type
}

func (e *Engine) Now() time.Duration {
	return e.now
}

// Feed appends a command to the source of a remote shadow session
func (e *Engine) Feed(c replay.Command) {
	if e.opts.Source != nil {
		e.opts.Source.Append(c)
	}
}

func (e *Engine) valid(lane int) bool {
	return lane >= 0 && lane < len(e.lanes)
}

// accept prepares a live input at time at, reporting false when the input
// must be ignored.
func (e *Engine) accept(lane int, at time.Duration) (time.Duration, bool) {
	if !e.opts.Role.Live() || e.state.Outcome.Terminal() || !e.valid(lane) {
		return 0, false
	}
	at = quantize(at)
	if at < e.now {
		at = e.now
	}
	e.advance(at)
	if e.state.Outcome.Terminal() {
		return 0, false
	}
	return at, true
}

func (e *Engine) record(kind replay.Kind, lane int, value float64, at time.Duration) {
	if !e.opts.Role.Live() {
		return
	}
	e.log.Append(replay.Command{Ms: at.Milliseconds(), Kind: kind, Lane: lane, Value: value})
}

func (e *Engine) Press(lane int, at time.Duration) {
	at, ok := e.accept(lane, at)
	if !ok {
		return
	}
	e.record(replay.Press, lane, 0, at)
	e.press(lane, at)
}

func (e *Engine) Release(lane int, at time.Duration) {
	at, ok := e.accept(lane, at)
	if !ok {
		return
	}
	e.record(replay.Release, lane, 0, at)
	e.release(lane, at)
}

// Reverse is a scratch turning the other way, which ends any long note
// still held on the lane before pressing in the new direction.
func (e *Engine) Reverse(lane int, at time.Duration) {
	at, ok := e.accept(lane, at)
	if !ok {
		return
	}
	e.record(replay.Reverse, lane, 0, at)
	e.reverse(lane, at)
}

// Hold is reported for every tick a lane stays down. It only moves the
// clock, holds follow from presses and releases so they are not logged.
func (e *Engine) Hold(lane int, at time.Duration) {
	e.accept(lane, at)
}

// Step applies inputs in arrival order and then advances to at
func (e *Engine) Step(at time.Duration, inputs []Input) {
	for _, in := range inputs {
		switch in.Kind {
		case InputPress:
			e.Press(in.Lane, in.At)
		case InputHold:
			e.Hold(in.Lane, in.At)
		case InputRelease:
			e.Release(in.Lane, in.At)
		case InputReverse:
			e.Reverse(in.Lane, in.At)
		}
	}
	e.Advance(at)
}

// Advance moves the session clock, expiring notes whose window has passed
func (e *Engine) Advance(at time.Duration) {
	if e.state.Outcome.Terminal() {
		return
	}
	at = quantize(at)
	if at < e.now {
		at = e.now
	}
	e.advance(at)
}

// Finish advances to at and ends the session
func (e *Engine) Finish(at time.Duration) {
	e.Advance(at)
	e.finish()
}

func (e *Engine) option(kind replay.Kind, value float64, at time.Duration) {
	if e.state.Outcome.Terminal() || e.opts.Role.Shadow() {
		return
	}
	at = quantize(at)
	if at < e.now {
		at = e.now
	}
	e.advance(at)
	e.record(kind, 0, value, at)
	e.setOption(kind, value)
}

func (e *Engine) setOption(kind replay.Kind, value float64) {
	switch kind {
	case replay.HiSpeed:
		e.state.HiSpeed = value
	case replay.CoverTop:
		e.state.CoverTop = value
	case replay.CoverBottom:
		e.state.CoverBottom = value
	case replay.CoverEnabled:
		e.state.CoverEnabled = value != 0
	case replay.Press, replay.Release, replay.Reverse:
	}
}

func (e *Engine) SetHiSpeed(v float64, at time.Duration) {
	e.option(replay.HiSpeed, v, at)
}

func (e *Engine) SetLaneCover(top, bottom float64, at time.Duration) {
	e.option(replay.CoverTop, top, at)
	e.option(replay.CoverBottom, bottom, at)
}

func (e *Engine) SetLaneCoverEnabled(enabled bool, at time.Duration) {
	v := 0.0
	if enabled {
		v = 1
	}
	e.option(replay.CoverEnabled, v, at)
}

// advance feeds due shadow commands, each after settling up to its time
func (e *Engine) advance(at time.Duration) {
	for e.source != nil && !e.state.Outcome.Terminal() {
		c, ok := e.source.Peek()
		if !ok {
			break
		}
		t := time.Duration(c.Ms) * time.Millisecond
		if t > at {
			break
		}
		if t < e.now {
			t = e.now
		}
		for _, c := range e.source.Due(c.Ms) {
			// a live input settles before it lands, even within one ms
			e.settle(t)
			if e.state.Outcome.Terminal() {
				break
			}
			e.apply(c, t)
		}
	}
	e.settle(at)
}

func (e *Engine) apply(c replay.Command, at time.Duration) {
	switch c.Kind {
	case replay.Press, replay.Release, replay.Reverse:
		if !e.valid(c.Lane) {
			return
		}
		switch c.Kind {
		case replay.Press:
			e.press(c.Lane, at)
		case replay.Release:
			e.release(c.Lane, at)
		case replay.Reverse:
			e.reverse(c.Lane, at)
		}
	case replay.HiSpeed, replay.CoverTop, replay.CoverBottom, replay.CoverEnabled:
		e.setOption(c.Kind, c.Value)
	}
}

func (e *Engine) finish() {
	if e.state.Outcome.Terminal() {
		return
	}
	if e.gauge.Cleared() {
		e.state.Outcome = Cleared
	} else {
		e.state.Outcome = Finished
	}
}
