package theme

import (
	"git.lost.host/meutraa/eotb/internal/game"
)

type Theme interface {
	RenderArea(area game.JudgeArea) string
	RenderNote(lane int, category game.Category) string
	RenderHitField(lane int, pressed bool) string
	RenderGauge(health, clear float64, width int) string
}
