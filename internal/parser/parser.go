package parser

import "git.lost.host/meutraa/eotb/internal/game"

type Parser interface {
	// Parse reads a chart file, picking the layout from its extension
	Parse(file string, seed int64) (*game.Chart, error)
	// ParseBytes parses raw chart bytes, decoding them to text first
	ParseBytes(data []byte, layout game.Layout, seed int64) (*game.Chart, error)
}
