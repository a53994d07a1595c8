package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"git.lost.host/meutraa/eotb/internal/game"
)

func (s *state) numericType(key, value string, err error) error {
	return &Error{Kind: ErrNumericType, Line: s.line, Err: errors.Wrapf(err, "#%s %q", key, value)}
}

func (s *state) numericValue(key string, v interface{}) error {
	return &Error{Kind: ErrNumericValue, Line: s.line, Err: errors.Errorf("#%s %v out of range", key, v)}
}

func (s *state) parseInt(key, value string, min, max int) (int, error) {
	n, err := strconv.Atoi(value)
	if nil != err {
		return 0, s.numericType(key, value, err)
	}
	if n < min || n > max {
		return 0, s.numericValue(key, n)
	}
	return n, nil
}

func (s *state) parsePositive(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if nil != err {
		return 0, s.numericType(key, value, err)
	}
	if f <= 0 {
		return 0, s.numericValue(key, f)
	}
	return f, nil
}

// once reports whether key is seen for the first time, logging duplicates
func (s *state) once(key string) bool {
	if s.seen[key] {
		s.warnf("duplicate #%s skipped", key)
		return false
	}
	s.seen[key] = true
	return true
}

var stringHeaders = map[string]func(m *game.Metadata, v string){
	"TITLE":     func(m *game.Metadata, v string) { m.Title = v },
	"SUBTITLE":  func(m *game.Metadata, v string) { m.Subtitle = v },
	"ARTIST":    func(m *game.Metadata, v string) { m.Artist = v },
	"SUBARTIST": func(m *game.Metadata, v string) { m.Subartist = v },
	"GENRE":     func(m *game.Metadata, v string) { m.Genre = v },
	"STAGEFILE": func(m *game.Metadata, v string) { m.StageFile = v },
	"BANNER":    func(m *game.Metadata, v string) { m.Banner = v },
	"BACKBMP":   func(m *game.Metadata, v string) { m.BackBMP = v },
	"PREVIEW":   func(m *game.Metadata, v string) { m.Preview = v },
}

// header applies a KEY VALUE command
func (s *state) header(key, value string) error {
	m := &s.chart.Metadata

	if set, ok := stringHeaders[key]; ok {
		if s.once(key) {
			set(m, value)
		}
		return nil
	}

	switch key {
	case "PLAYER":
		n, err := s.parseInt(key, value, 1, 4)
		if nil != err {
			return err
		}
		if s.once(key) {
			m.Player = n
		}
	case "BPM":
		f, err := s.parsePositive(key, value)
		if nil != err {
			return err
		}
		if s.once(key) {
			m.BPM = f
		}
	case "PLAYLEVEL":
		n, err := s.parseInt(key, value, 0, 1<<16)
		if nil != err {
			return err
		}
		if s.once(key) {
			m.PlayLevel = n
		}
	case "RANK":
		n, err := s.parseInt(key, value, 0, 4)
		if nil != err {
			return err
		}
		if n > int(game.RankEasy) {
			n = int(game.RankEasy)
		}
		if s.once(key) {
			m.Rank = game.Rank(n)
		}
	case "TOTAL":
		f, err := s.parsePositive(key, value)
		if nil != err {
			return err
		}
		if s.once(key) {
			m.Total = f
			m.TotalSet = true
		}
	case "DIFFICULTY":
		n, err := s.parseInt(key, value, 0, int(game.DifficultyInsane))
		if nil != err {
			return err
		}
		if s.once(key) {
			m.Difficulty = game.Difficulty(n)
		}
	case "LNOBJ":
		v, ok := parseToken(value, 36)
		if !ok {
			return s.numericType(key, value, errors.New("not a base36 pair"))
		}
		if v == 0 {
			return s.numericValue(key, value)
		}
		if !m.IsLNObject(v) {
			m.LNObjects = append(m.LNObjects, v)
		}
	case "LNTYPE":
		n, err := s.parseInt(key, value, 1, 2)
		if nil != err {
			return err
		}
		if n != 1 {
			s.warnf("#LNTYPE %d is read as LNTYPE 1", n)
		}
	default:
		return s.resource(key, value)
	}
	return nil
}

var resourcePrefixes = []string{"WAV", "BMP", "EXBPM", "BPM", "STOP"}

// resourcePrefix is the table a KEYxx command writes to, empty for others
func resourcePrefix(key string) string {
	for _, p := range resourcePrefixes {
		if strings.HasPrefix(key, p) && len(key) == len(p)+2 {
			return p
		}
	}
	return ""
}

// resource applies a KEYxx VALUE command
func (s *state) resource(key, value string) error {
	prefix := resourcePrefix(key)
	if prefix == "" {
		s.warnf("unknown command #%s skipped", key)
		return nil
	}
	idx, ok := parseToken(key[len(prefix):], 36)
	if !ok {
		s.warnf("bad index in #%s skipped", key)
		return nil
	}
	if !s.once(key) {
		return nil
	}

	m := &s.chart.Metadata
	switch prefix {
	case "WAV":
		m.WAVs[idx] = value
	case "BMP":
		m.BMPs[idx] = value
	case "BPM", "EXBPM":
		f, err := s.parsePositive(key, value)
		if nil != err {
			return err
		}
		m.BPMs[idx] = f
	case "STOP":
		n, err := s.parseInt(key, value, 0, 1<<30)
		if nil != err {
			return err
		}
		m.Stops[idx] = n
	}
	return nil
}
