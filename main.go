package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/eotb/internal/config"
	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/parser"
	"git.lost.host/meutraa/eotb/internal/render"
	"git.lost.host/meutraa/eotb/internal/replay"
	"git.lost.host/meutraa/eotb/internal/score"
	"git.lost.host/meutraa/eotb/internal/theme"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load(config.Path())
	if nil != err {
		return err
	}

	app := kingpin.New("eotb", "Play BMS charts in a terminal")
	app.Version("0.3.0")
	cfg.Bind(app)
	seed := app.Flag("seed", "Seed for #RANDOM and random arrange, picked at random when negative").Default("-1").Int64()

	info := app.Command("info", "Show what a chart contains")
	infoFile := info.Arg("chart", "Chart file").Required().ExistingFile()
	play := app.Command("play", "Play a chart")
	playFile := play.Arg("chart", "Chart file").Required().ExistingFile()
	auto := app.Command("auto", "Watch a chart played perfectly")
	autoFile := auto.Arg("chart", "Chart file").Required().ExistingFile()
	watch := app.Command("replay", "Watch a stored play of a chart")
	watchFile := watch.Arg("chart", "Chart file").Required().ExistingFile()
	watchID := watch.Flag("id", "Replay to watch, the best play when empty").String()
	list := app.Command("scores", "List the stored plays of a chart")
	listFile := list.Arg("chart", "Chart file").Required().ExistingFile()

	command, err := app.Parse(args)
	if nil != err {
		return err
	}
	if err := cfg.Validate(); nil != err {
		return err
	}

	// Ensure our Default implementations are used as interfaces
	var psr parser.Parser = &parser.DefaultParser{}
	var scorer score.Scorer = &score.DefaultScorer{}
	p := &Program{
		Parser:   psr,
		Scorer:   scorer,
		Theme:    &theme.DefaultTheme{},
		Renderer: &render.DefaultRenderer{},
		Config:   cfg,
	}

	if command == info.FullCommand() {
		if err := p.Load(*infoFile, *seed); nil != err {
			return err
		}
		printInfo(p.chart)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); nil != err {
		return errors.Wrap(err, "unable to create the score directory")
	}
	if err := scorer.Init(cfg.DBPath); nil != err {
		return err
	}
	defer scorer.Deinit()

	switch command {
	case play.FullCommand():
		if err := p.Load(*playFile, *seed); nil != err {
			return err
		}
		return p.Play(judge.Single, nil)
	case auto.FullCommand():
		if err := p.Load(*autoFile, *seed); nil != err {
			return err
		}
		return p.Play(judge.AutoPlay, nil)
	case watch.FullCommand():
		if err := p.Load(*watchFile, 0); nil != err {
			return err
		}
		l, err := findReplay(scorer, p.chart, *watchID)
		if nil != err {
			return err
		}
		return p.Play(judge.MyBest, l)
	case list.FullCommand():
		if err := p.Load(*listFile, 0); nil != err {
			return err
		}
		return printScores(scorer, p)
	}
	return nil
}

func findReplay(scorer score.Scorer, chart *game.Chart, id string) (*replay.Log, error) {
	if id == "" {
		best, err := scorer.Best(chart)
		if nil != err {
			return nil, err
		}
		if nil == best {
			return nil, errors.New("no stored play of this chart")
		}
		return best.Log, nil
	}
	histories, err := scorer.Load(chart)
	if nil != err {
		return nil, err
	}
	for _, h := range histories {
		if h.ID == id {
			return h.Log, nil
		}
	}
	return nil, errors.Errorf("no replay %s for this chart", id)
}

func printInfo(c *game.Chart) {
	tl := timeline.Build(c, score.Slot(c), timeline.Options{})
	fmt.Printf("%s %s\n", c.Title, c.Subtitle)
	fmt.Printf("%s / %s\n", c.Artist, c.Genre)
	fmt.Printf("%-10s %s %s\n", "Mode", c.Mode, c.Layout)
	fmt.Printf("%-10s %s lv.%d\n", "Difficulty", c.Difficulty, c.PlayLevel)
	fmt.Printf("%-10s %s\n", "Rank", c.Rank)
	fmt.Printf("%-10s %.1f\n", "Total", c.Total)
	if c.MinBPM != c.MaxBPM {
		fmt.Printf("%-10s %.0f-%.0f (%.0f)\n", "BPM", c.MinBPM, c.MaxBPM, tl.Stats.AvgBPM)
	} else {
		fmt.Printf("%-10s %.0f\n", "BPM", c.StartBPM)
	}
	fmt.Printf("%-10s %s\n", "Notes", humanize.Comma(int64(c.NoteCount)))
	fmt.Printf("%-10s %s\n", "Long", humanize.Comma(int64(c.LongCount)))
	fmt.Printf("%-10s %s\n", "Mines", humanize.Comma(int64(c.MineCount)))
	fmt.Printf("%-10s %s\n", "Length", tl.Stats.Duration.Round(time.Second))
	if c.ResourceUnstable {
		fmt.Println("Resources change with the seed")
	}
	fmt.Printf("%-10s %s\n", "sha256", c.Hash)
}

func printScores(scorer score.Scorer, p *Program) error {
	histories, err := scorer.Load(p.chart)
	if nil != err {
		return err
	}
	if len(histories) == 0 {
		fmt.Println("No plays yet")
		return nil
	}
	for _, h := range histories {
		chart, err := p.chartFor(h.Log.Seed)
		if nil != err {
			return err
		}
		s := scorer.Score(chart, &h)
		fmt.Printf("%s  %-14s %5d EX %5d combo %6.2f%%  %-8s %s\n",
			h.ID, humanize.Time(h.Played), s.ExScore, s.MaxCombo, 100*s.Accuracy, s.Outcome, h.Log.Options.Gauge)
	}
	return nil
}
