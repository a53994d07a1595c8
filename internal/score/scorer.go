package score

import (
	"time"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/replay"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the replay of this performance along with how it ended
	Save(chart *game.Chart, log *replay.Log, state judge.State) error

	// Load up previous plays of the chart, oldest first
	Load(chart *game.Chart) ([]History, error)

	// Best is the play with the highest ex score, nil when there is none
	Best(chart *game.Chart) (*History, error)

	// Score plays a history again against a fresh engine
	Score(chart *game.Chart, history *History) Score
}

type History struct {
	ID       string
	Sum      string
	Played   time.Time
	Log      *replay.Log
	ExScore  int
	MaxCombo int
	Outcome  string
}

type Score struct {
	ExScore  int
	MaxCombo int
	Counts   [game.NumJudgeAreas]int
	Health   float64
	Accuracy float64
	Outcome  judge.Outcome
}
