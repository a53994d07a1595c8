package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"git.lost.host/meutraa/eotb/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderArea(area game.JudgeArea) string {
	return areaStyle(area).Render(strings.ToUpper(area.String()))
}

func (t *DefaultTheme) RenderNote(lane int, category game.Category) string {
	style := lipgloss.NewStyle().Foreground(laneColor(lane))
	switch category {
	case game.Mine:
		return styleMine.Render(mineSym)
	case game.LongHead, game.LongTail:
		return style.Render(longSym)
	case game.Regular:
		return style.Render(noteSym)
	case game.Invisible, game.BGM, game.BGA:
	}
	return " "
}

func (t *DefaultTheme) RenderHitField(lane int, pressed bool) string {
	if pressed {
		return lipgloss.NewStyle().Foreground(laneColor(lane)).Bold(true).Render(pressedSym)
	}
	return styleDim.Render(barSym)
}

// RenderGauge draws health as a bar of width cells, the part past the clear
// line in the clear color
func (t *DefaultTheme) RenderGauge(health, clear float64, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	filled := int(health*float64(width) + 0.5)
	line := int(clear * float64(width))
	for i := 0; i < width; i++ {
		sym := gaugeEmpty
		if i < filled {
			sym = gaugeFull
		}
		if i >= line {
			b.WriteString(styleGaugeClear.Render(sym))
		} else {
			b.WriteString(styleGauge.Render(sym))
		}
	}
	return b.String()
}

const (
	noteSym    = "▬"
	longSym    = "█"
	mineSym    = "⨯"
	barSym     = "-"
	pressedSym = "▀"
	gaugeFull  = "▮"
	gaugeEmpty = "▯"
)

var (
	colorWhite   = lipgloss.Color("255")
	colorBlue    = lipgloss.Color("33")
	colorScratch = lipgloss.Color("196")

	styleDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleMine       = lipgloss.NewStyle().Foreground(lipgloss.Color("124"))
	styleGauge      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styleGaugeClear = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	tierStyles = map[game.Tier]lipgloss.Style{
		game.TierPerfect: lipgloss.NewStyle().Foreground(lipgloss.Color("153")).Bold(true),
		game.TierGreat:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		game.TierGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		game.TierBad:     lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
		game.TierPoor:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		game.TierMiss:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		game.TierMine:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
	}
)

func areaStyle(a game.JudgeArea) lipgloss.Style {
	style, ok := tierStyles[a.Tier()]
	if !ok {
		return styleDim
	}
	return style
}

// Keys alternate white and blue like a controller, the scratch is red
func laneColor(lane int) lipgloss.Color {
	l := lane % game.LanesPerSide
	switch {
	case l == game.ScratchLane:
		return colorScratch
	case l%2 == 1:
		return colorBlue
	}
	return colorWhite
}
