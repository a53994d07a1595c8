package parser

import (
	"regexp"
	"strings"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Tried in order, the first pattern that matches splits the title
var subtitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*\S)\s*(\[[^\[\]]*\])$`),
	regexp.MustCompile(`^(.*\S)\s*(\([^()]*\))$`),
	regexp.MustCompile(`^(.*\S)\s*(<[^<>]*>)$`),
	regexp.MustCompile(`^(.*\S)\s*(-[^-]+-)$`),
	regexp.MustCompile(`^(.*\S)\s*([〜~][^〜~]+[〜~])$`),
	regexp.MustCompile(`^(.*\S)\s+-\s+(\S.*)$`),
}

// SplitSubtitle splits a trailing subtitle off a title
func SplitSubtitle(title string) (string, string) {
	for _, re := range subtitlePatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
	}
	return title, ""
}

// Hardest first so "ANOTHER (HYPER MIX)" reads as another
var difficultyKeywords = []struct {
	word       string
	difficulty game.Difficulty
}{
	{"LEGGENDARIA", game.DifficultyInsane},
	{"INSANE", game.DifficultyInsane},
	{"BLACK", game.DifficultyInsane},
	{"ANOTHER", game.DifficultyAnother},
	{"HYPER", game.DifficultyHyper},
	{"NORMAL", game.DifficultyNormal},
	{"LIGHT", game.DifficultyNormal},
	{"BEGINNER", game.DifficultyBeginner},
}

// GuessDifficulty searches the given texts in order for a difficulty keyword
func GuessDifficulty(texts ...string) game.Difficulty {
	for _, text := range texts {
		text = strings.ToUpper(text)
		for _, k := range difficultyKeywords {
			if strings.Contains(text, k.word) {
				return k.difficulty
			}
		}
	}
	return game.DifficultyUnknown
}

func (s *state) derive() {
	m := &s.chart.Metadata
	t := s.chart.Table

	if m.Subtitle == "" {
		m.Title, m.Subtitle = SplitSubtitle(m.Title)
	}
	if m.Difficulty == game.DifficultyUnknown {
		m.Difficulty = GuessDifficulty(m.Subtitle, m.Title)
	}

	m.RegularCount = t.Regular.Count()
	m.InvisibleCount = t.Invisible.Count()
	m.MineCount = t.Mine.Count()
	m.LongCount = 0
	t.LongNote.Each(func(lane, bar int, seq *game.Sequence) {
		for _, ev := range seq.Events {
			if ev.Flags&game.FlagHead != 0 {
				m.LongCount++
			}
		}
	})
	m.NoteCount = m.RegularCount + m.LongCount
	if !m.TotalSet {
		m.Total = game.DefaultTotal(m.NoteCount)
	}

	if m.BPM <= 0 {
		m.BPM = 130
	}
	m.StartBPM, m.MinBPM, m.MaxBPM = m.BPM, m.BPM, m.BPM
	see := func(bpm float64) {
		if bpm <= 0 {
			return
		}
		if bpm < m.MinBPM {
			m.MinBPM = bpm
		}
		if bpm > m.MaxBPM {
			m.MaxBPM = bpm
		}
	}
	t.BPM.Each(func(lane, bar int, seq *game.Sequence) {
		for _, ev := range seq.Events {
			see(float64(ev.Value))
		}
	})
	t.ExtBPM.Each(func(lane, bar int, seq *game.Sequence) {
		for _, ev := range seq.Events {
			see(m.BPMs[ev.Value])
		}
	})

	for bar := range t.BarLength {
		if t.BarLength[bar] <= 0 {
			t.BarLength[bar] = 1.0
		}
	}

	m.Mode = s.mode()
}

func (s *state) mode() game.Mode {
	if s.chart.Layout == game.LayoutPopn {
		return game.Popn9K
	}
	t := s.chart.Table
	used := func(lane int) bool {
		for _, g := range []*game.Grid{t.Regular, t.LongNote, t.Invisible, t.Mine} {
			if g.LaneCount(lane) > 0 {
				return true
			}
		}
		return false
	}

	double := s.chart.Player == 3
	seven := false
	for side := game.Side1; side <= game.Side2; side++ {
		for lane := 0; lane < game.LanesPerSide; lane++ {
			if !used(game.Lane(side, lane)) {
				continue
			}
			if side == game.Side2 {
				double = true
			}
			if lane == 5 || lane == 6 {
				seven = true
			}
		}
	}
	switch {
	case double && seven:
		return game.Beat14K
	case double:
		return game.Beat10K
	case seven:
		return game.Beat7K
	}
	return game.Beat5K
}
