package game

import (
	"time"
)

// JudgeArea is the bucket a hit or a miss is classified into
type JudgeArea uint8

const (
	EarlyPoor JudgeArea = iota
	EarlyBad
	EarlyGood
	EarlyGreat
	EarlyPerfect
	ExactPerfect
	LatePerfect
	LateGreat
	LateGood
	LateBad
	Miss
	MinePoor
	numJudgeAreas
)

const NumJudgeAreas = int(numJudgeAreas)

// Tier collapses early and late areas
type Tier uint8

const (
	TierPerfect Tier = iota
	TierGreat
	TierGood
	TierBad
	TierPoor
	TierMiss
	TierMine
)

var tierNames = [...]string{"PERFECT", "GREAT", "GOOD", "BAD", "POOR", "MISS", "MINE"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "?"
}

var areaNames = [...]string{
	"early poor", "early bad", "early good", "early great", "early perfect",
	"perfect",
	"late perfect", "late great", "late good", "late bad",
	"miss", "mine poor",
}

func (a JudgeArea) String() string {
	if int(a) < len(areaNames) {
		return areaNames[a]
	}
	return "?"
}

func (a JudgeArea) Tier() Tier {
	switch a {
	case EarlyPerfect, ExactPerfect, LatePerfect:
		return TierPerfect
	case EarlyGreat, LateGreat:
		return TierGreat
	case EarlyGood, LateGood:
		return TierGood
	case EarlyBad, LateBad:
		return TierBad
	case EarlyPoor:
		return TierPoor
	case Miss:
		return TierMiss
	case MinePoor:
		return TierMine
	}
	return TierMiss
}

// Combo reports whether the area keeps the combo going
func (a JudgeArea) Combo() bool {
	return a.Tier() <= TierGood
}

// Fast is derived from the area, never from the raw offset, so the exact
// area is neither fast nor slow.
func (a JudgeArea) Fast() bool {
	return a <= EarlyPerfect
}

func (a JudgeArea) Slow() bool {
	return a >= LatePerfect && a <= LateBad
}

// Judgement is one committed result
type Judgement struct {
	At       time.Duration // Session time the result was committed
	Lane     int
	Category Category
	Area     JudgeArea
	Offset   time.Duration // hit time minus note time, 0 for misses
	Value    int
}
