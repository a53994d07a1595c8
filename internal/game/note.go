package game

import (
	"time"
)

// Category tags a timestamped note with the stream it belongs to
type Category uint8

const (
	Regular Category = iota
	Invisible
	LongHead
	LongTail
	Mine
	BGM
	BGA
	numCategories
)

// NumCategories is the number of distinct note categories
const NumCategories = int(numCategories)

var categoryNames = [...]string{"regular", "invisible", "ln-head", "ln-tail", "mine", "bgm", "bga"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Judgeable reports whether notes of this category are scored
func (c Category) Judgeable() bool {
	switch c {
	case Regular, LongHead, LongTail, Mine:
		return true
	case Invisible, BGM, BGA:
		return false
	}
	return false
}

type Note struct {
	Time     time.Duration // The time the note should be hit
	Category Category
	Lane     int // The chart column, or layer for BGM/BGA
	Value    int // Sample index for sounding notes, image index for BGA
	Tail     int // Index of the paired tail within the same stream, -1 otherwise

	// This is state, owned by one judgement session
	Hit     bool
	Expired bool
}

// Pending is true until the note was either hit or expired
func (n *Note) Pending() bool {
	return !n.Hit && !n.Expired
}
