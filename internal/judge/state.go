package judge

import (
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Role is the part a session plays on screen
type Role uint8

const (
	Single Role = iota
	Double
	LocalVersus
	GhostVersus
	AutoPlay
	MyBest
	RemoteShadow
)

var roleNames = [...]string{"single", "double", "versus", "ghost", "auto", "my-best", "remote"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "single"
}

// Shadow roles are driven by a replay log instead of live input
func (r Role) Shadow() bool {
	switch r {
	case GhostVersus, MyBest, RemoteShadow:
		return true
	case Single, Double, LocalVersus, AutoPlay:
		return false
	}
	return false
}

// Live roles take input from a player
func (r Role) Live() bool {
	return !r.Shadow() && r != AutoPlay
}

type Outcome uint8

const (
	Playing Outcome = iota
	Failed
	Cleared
	Finished // reached the end without clearing
)

var outcomeNames = [...]string{"playing", "failed", "cleared", "finished"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "playing"
}

func (o Outcome) Terminal() bool {
	return o != Playing
}

// State is a snapshot of a session
type State struct {
	Combo      int
	MaxCombo   int
	Counts     [game.NumJudgeAreas]int
	Fast, Slow int

	Health  float64
	Score   float64 // money score, MaxScore for an all perfect play
	ExScore int

	Judged        int // notes committed, mines excluded
	Notes         int
	Accuracy      float64 // ex score over the notes judged so far
	TotalAccuracy float64 // ex score over every note of the chart

	// FirstBreak is when the combo first broke, -1 while unbroken
	FirstBreak time.Duration

	Last    game.Judgement
	HasLast bool
	LNOpen  []bool

	HiSpeed      float64
	CoverTop     float64
	CoverBottom  float64
	CoverEnabled bool

	Outcome Outcome
}

// Count sums the counters of every area of a tier
func (s *State) Count(t game.Tier) int {
	n := 0
	for a := 0; a < game.NumJudgeAreas; a++ {
		if game.JudgeArea(a).Tier() == t {
			n += s.Counts[a]
		}
	}
	return n
}

func (s State) clone() State {
	c := s
	c.LNOpen = make([]bool, len(s.LNOpen))
	copy(c.LNOpen, s.LNOpen)
	return c
}
