package judge

import (
	"strings"
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Profile names one of the timing window sets
type Profile uint8

const (
	VeryHard Profile = iota
	Hard
	Normal
	Easy
)

// Window is a one sided set of thresholds, an offset whose magnitude is at
// or under a threshold falls in that area.
type Window struct {
	Perfect time.Duration
	Great   time.Duration
	Good    time.Duration
	Bad     time.Duration
	Poor    time.Duration // early only
}

var windows = [...]Window{
	VeryHard: {8 * time.Millisecond, 24 * time.Millisecond, 40 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond},
	Hard:     {15 * time.Millisecond, 30 * time.Millisecond, 60 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond},
	Normal:   {18 * time.Millisecond, 40 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond},
	Easy:     {21 * time.Millisecond, 60 * time.Millisecond, 120 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond},
}

var profileNames = [...]string{"veryhard", "hard", "normal", "easy"}

func (p Profile) String() string {
	if int(p) < len(profileNames) {
		return profileNames[p]
	}
	return "normal"
}

func (p Profile) Window() Window {
	if int(p) < len(windows) {
		return windows[p]
	}
	return windows[Normal]
}

func ParseProfile(s string) (Profile, bool) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	for i, n := range profileNames {
		if n == s {
			return Profile(i), true
		}
	}
	return Normal, false
}

// ProfileOf maps a chart's #RANK onto a window profile
func ProfileOf(r game.Rank) Profile {
	switch r {
	case game.RankVeryHard:
		return VeryHard
	case game.RankHard:
		return Hard
	case game.RankNormal:
		return Normal
	case game.RankEasy:
		return Easy
	}
	return Normal
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Classify buckets e = hit time - note time. It reports false when the
// offset is outside every window.
func (w Window) Classify(e time.Duration) (game.JudgeArea, bool) {
	if e == 0 {
		return game.ExactPerfect, true
	}
	early := e < 0
	a := abs(e)
	pick := func(earlyArea, lateArea game.JudgeArea) (game.JudgeArea, bool) {
		if early {
			return earlyArea, true
		}
		return lateArea, true
	}
	switch {
	case a <= w.Perfect:
		return pick(game.EarlyPerfect, game.LatePerfect)
	case a <= w.Great:
		return pick(game.EarlyGreat, game.LateGreat)
	case a <= w.Good:
		return pick(game.EarlyGood, game.LateGood)
	case a <= w.Bad:
		return pick(game.EarlyBad, game.LateBad)
	case early && a <= w.Poor:
		return game.EarlyPoor, true
	}
	return game.Miss, false
}

// Hittable reports whether a press at offset e can take the note
func (w Window) Hittable(e time.Duration) bool {
	return e >= -w.Poor && e <= w.Bad
}
