package parser

import (
	"git.lost.host/meutraa/eotb/internal/game"
)

// parseDigit decodes one character in the given base, letters case insensitive
func parseDigit(c byte, base int) (int, bool) {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	default:
		return 0, false
	}
	if v >= base {
		return 0, false
	}
	return v, true
}

// parseToken decodes a two character token
func parseToken(s string, base int) (int, bool) {
	if len(s) != 2 {
		return 0, false
	}
	hi, ok := parseDigit(s[0], base)
	if !ok {
		return 0, false
	}
	lo, ok := parseDigit(s[1], base)
	if !ok {
		return 0, false
	}
	return hi*base + lo, true
}

type gridKind uint8

const (
	gridNone gridKind = iota
	gridRegular
	gridInvisible
	gridLong
	gridMine
)

type target struct {
	kind gridKind
	side int
	lane int
}

// Channel lead character, shared by both layouts
var channelKinds = map[byte]target{
	'1': {gridRegular, game.Side1, 0},
	'2': {gridRegular, game.Side2, 0},
	'3': {gridInvisible, game.Side1, 0},
	'4': {gridInvisible, game.Side2, 0},
	'5': {gridLong, game.Side1, 0},
	'6': {gridLong, game.Side2, 0},
	'D': {gridMine, game.Side1, 0},
	'E': {gridMine, game.Side2, 0},
}

// x7 is the free zone and carries nothing playable
var beatLanes = map[byte]int{
	'1': 0, '2': 1, '3': 2, '4': 3, '5': 4,
	'8': 5, '9': 6,
	'6': game.ScratchLane,
}

// Side 2 buttons land on lanes 1..4 and are folded into side 1 lanes 5..8
// once the whole chart has been read.
var popnLanes = [2]map[byte]int{
	{'1': 0, '2': 1, '3': 2, '4': 3, '5': 4, '6': 5, '7': 6, '8': 7, '9': 8},
	{'2': 1, '3': 2, '4': 3, '5': 4},
}

func lookup(layout game.Layout, ch string) (target, bool) {
	if len(ch) != 2 {
		return target{}, false
	}
	t, ok := channelKinds[upper(ch[0])]
	if !ok {
		return target{}, false
	}
	var lanes map[byte]int
	switch layout {
	case game.LayoutPopn:
		lanes = popnLanes[t.side]
	case game.LayoutBeat:
		lanes = beatLanes
	}
	lane, ok := lanes[ch[1]]
	if !ok {
		return target{}, false
	}
	t.lane = lane
	return t, true
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func (t target) grid(table *game.Table) *game.Grid {
	switch t.kind {
	case gridRegular:
		return table.Regular
	case gridInvisible:
		return table.Invisible
	case gridLong:
		return table.LongNote
	case gridMine:
		return table.Mine
	}
	return nil
}
