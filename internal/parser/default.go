package parser

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/eotb/internal/game"
)

type DefaultParser struct {
	// Logger receives warnings about skipped lines, log.Default() when nil
	Logger *log.Logger
}

// state is the scratch space of a single parse
type state struct {
	logger *log.Logger
	chart  *game.Chart
	rng    *rand.Rand
	block  block
	line   int
	seen   map[string]bool
	layers [game.MaxBars]int // next free BGM layer per bar
}

func (s *state) warnf(format string, args ...interface{}) {
	s.logger.Printf("line %d: "+format, append([]interface{}{s.line}, args...)...)
}

func (p *DefaultParser) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

// LayoutOf picks the channel layout from a chart's file name
func LayoutOf(file string) game.Layout {
	if strings.EqualFold(filepath.Ext(file), ".pms") {
		return game.LayoutPopn
	}
	return game.LayoutBeat
}

func (p *DefaultParser) Parse(file string, seed int64) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, &Error{Kind: ErrFile, Err: errors.Wrap(err, "unable to read chart")}
	}
	return p.ParseBytes(data, LayoutOf(file), seed)
}

func (p *DefaultParser) ParseBytes(data []byte, layout game.Layout, seed int64) (*game.Chart, error) {
	text, err := decode(data)
	if nil != err {
		return nil, &Error{Kind: ErrFile, Err: err}
	}
	chart, err := p.ParseText(text, layout, seed)
	if nil != err {
		return nil, err
	}
	sum := sha256.Sum256(data)
	chart.Hash = hex.EncodeToString(sum[:])
	md := md5.Sum(data)
	chart.MD5 = hex.EncodeToString(md[:])
	return chart, nil
}

// ParseText parses already decoded chart text. The hash fields are computed
// over the text in this case.
func (p *DefaultParser) ParseText(text string, layout game.Layout, seed int64) (*game.Chart, error) {
	s := &state{
		logger: p.logger(),
		chart: &game.Chart{
			Table: game.NewTable(),
			Seed:  seed,
		},
		rng:  newRand(seed),
		seen: map[string]bool{},
	}
	s.chart.Layout = layout
	s.chart.Rank = game.RankNormal

	text = strings.ReplaceAll(text, "\r", "")
	for i, line := range strings.Split(text, "\n") {
		s.line = i + 1
		if err := s.command(strings.TrimSpace(line)); nil != err {
			return nil, err
		}
	}
	s.finishBlock()

	s.resolveLongNotes()
	if layout == game.LayoutPopn {
		s.remapPopn()
	}
	s.derive()

	sum := sha256.Sum256([]byte(text))
	s.chart.Hash = hex.EncodeToString(sum[:])
	md := md5.Sum([]byte(text))
	s.chart.MD5 = hex.EncodeToString(md[:])
	return s.chart, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (s *state) command(line string) error {
	if !strings.HasPrefix(line, "#") {
		return nil
	}
	body := line[1:]

	if len(body) >= 3 && isDigit(body[0]) && isDigit(body[1]) && isDigit(body[2]) {
		if s.block.skip() {
			return nil
		}
		return s.noteData(body)
	}

	key, value := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		key, value = body[:i], strings.TrimSpace(body[i+1:])
	}
	key = strings.ToUpper(key)
	if key == "" {
		return nil
	}

	if ok, err := s.control(key, value); ok || nil != err {
		return err
	}
	// tables differ between draws whichever clause this one is
	if s.block.inside() && resourcePrefix(key) != "" {
		s.chart.Metadata.ResourceUnstable = true
	}
	if s.block.skip() {
		return nil
	}
	return s.header(key, value)
}

func (s *state) malformed(format string, args ...interface{}) error {
	return &Error{Kind: ErrMalformedNote, Line: s.line, Err: errors.Errorf(format, args...)}
}

// noteData applies a #BBBCC:data command
func (s *state) noteData(body string) error {
	if len(body) < 6 || body[5] != ':' {
		return s.malformed("expected #BBBCC:data")
	}
	bar, _ := strconv.Atoi(body[:3])
	ch := strings.ToUpper(body[3:5])
	data := strings.TrimSpace(body[6:])

	if ch == "02" {
		f, err := strconv.ParseFloat(data, 64)
		if nil != err || f <= 0 {
			s.warnf("bad bar length %q skipped", data)
			return nil
		}
		s.chart.Table.BarLength[bar] = f
		return nil
	}

	if len(data)%2 != 0 {
		return s.malformed("odd length data in channel %s", ch)
	}
	base := 36
	if ch == "03" {
		base = 16
	}
	seq := game.Sequence{Resolution: len(data) / 2}
	for i := 0; i < seq.Resolution; i++ {
		v, ok := parseToken(data[2*i:2*i+2], base)
		if !ok {
			return s.malformed("bad token %q in channel %s", data[2*i:2*i+2], ch)
		}
		if v == 0 {
			continue
		}
		seq.Events = append(seq.Events, game.Event{Offset: i, Value: v})
	}
	if seq.Resolution == 0 {
		return nil
	}

	t := s.chart.Table
	switch ch {
	case "01":
		layer := s.layers[bar]
		s.layers[bar]++
		t.BGM.Put(layer, bar, seq)
	case "03":
		t.BPM.Put(0, bar, seq)
	case "04":
		t.BGABase.Put(0, bar, seq)
	case "06":
		t.BGAPoor.Put(0, bar, seq)
	case "07":
		t.BGALayer.Put(0, bar, seq)
	case "08":
		t.ExtBPM.Put(0, bar, seq)
	case "09":
		t.Stop.Put(0, bar, seq)
	default:
		target, ok := lookup(s.chart.Layout, ch)
		if !ok {
			s.warnf("unknown channel %s skipped", ch)
			return nil
		}
		target.grid(t).Put(game.Lane(target.side, target.lane), bar, seq)
	}
	return nil
}

// remapPopn folds the side 2 buttons onto side 1 lanes 5..8
func (s *state) remapPopn() {
	t := s.chart.Table
	for _, g := range []*game.Grid{t.Regular, t.Invisible, t.LongNote, t.Mine} {
		for lane := 1; lane <= 4; lane++ {
			from, to := game.Lane(game.Side2, lane), game.Lane(game.Side1, lane+4)
			for bar := 0; bar < game.MaxBars; bar++ {
				if seq, ok := g.Take(from, bar); ok && !seq.Empty() {
					g.Put(to, bar, seq)
				}
			}
		}
	}
}
