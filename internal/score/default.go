package score

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/replay"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

type DefaultScorer struct {
	db *sql.DB
}

// CommandsCompact holds every command of one kind on one lane. Seq is the
// position of each command in the full log so the order can be restored.
type CommandsCompact struct {
	Kind   replay.Kind `json:"k"`
	Lane   int         `json:"l,omitempty"`
	Seq    []int       `json:"s"`
	Ms     []int64     `json:"t"`
	Values []float64   `json:"v,omitempty"`
}

func compactCommands(commands []replay.Command) []CommandsCompact {
	type key struct {
		kind replay.Kind
		lane int
	}
	index := map[key]int{}
	out := []CommandsCompact{}
	for seq, c := range commands {
		k := key{c.Kind, c.Lane}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CommandsCompact{Kind: c.Kind, Lane: c.Lane, Seq: []int{}, Ms: []int64{}})
		}
		out[i].Seq = append(out[i].Seq, seq)
		out[i].Ms = append(out[i].Ms, c.Ms)
		if !c.Kind.Input() {
			out[i].Values = append(out[i].Values, c.Value)
		}
	}
	return out
}

// uncompactCommands restores the log order. Every position must be
// claimed exactly once and times may not go backwards.
func uncompactCommands(groups []CommandsCompact) ([]replay.Command, error) {
	n := 0
	for _, g := range groups {
		n += len(g.Seq)
	}
	commands := make([]replay.Command, n)
	seen := make([]bool, n)
	for _, g := range groups {
		if len(g.Ms) != len(g.Seq) {
			return nil, errors.Errorf("%d times for %d %s commands", len(g.Ms), len(g.Seq), g.Kind)
		}
		for j, seq := range g.Seq {
			if seq < 0 || seq >= n || seen[seq] {
				return nil, errors.Errorf("bad command position %d", seq)
			}
			seen[seq] = true
			c := replay.Command{Ms: g.Ms[j], Kind: g.Kind, Lane: g.Lane}
			if j < len(g.Values) {
				c.Value = g.Values[j]
			}
			commands[seq] = c
		}
	}
	for i := 1; i < n; i++ {
		if commands[i].Ms < commands[i-1].Ms {
			return nil, errors.Errorf("command %d goes back to %dms", i, commands[i].Ms)
		}
	}
	return commands, nil
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return errors.Wrap(err, "unable to open score database")
	}

	initStatement := `
	create table if not exists replays
	  (
		  id text not null primary key,
		  sum text not null,
		  seed integer,
		  options text,
		  commands blob,
		  ex_score integer,
		  max_combo integer,
		  outcome text,
		  played integer
	  );
	create index if not exists replays_sum on replays(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return errors.Wrap(err, "unable to create score tables")
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func (s *DefaultScorer) hashChart(c *game.Chart) string {
	if c.Hash != "" {
		return c.Hash
	}
	return c.MD5
}

func (s *DefaultScorer) Save(c *game.Chart, l *replay.Log, state judge.State) error {
	if nil == s.db {
		return errors.New("score database is not open")
	}
	options, err := json.Marshal(l.Options)
	if nil != err {
		return errors.Wrap(err, "unable to marshal options")
	}
	commands, err := json.Marshal(compactCommands(l.Commands))
	if nil != err {
		return errors.Wrap(err, "unable to marshal commands")
	}
	_, err = s.db.Exec(
		"insert into replays(id, sum, seed, options, commands, ex_score, max_combo, outcome, played) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, s.hashChart(c), l.Seed, string(options), commands, state.ExScore, state.MaxCombo, state.Outcome.String(), time.Now().UnixNano(),
	)
	if nil != err {
		return errors.Wrapf(err, "unable to save replay %s", l.ID)
	}
	return nil
}

const selectHistory = "select id, sum, seed, options, commands, ex_score, max_combo, outcome, played from replays"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHistory(row scanner) (History, error) {
	var h History
	var seed, played int64
	var options string
	var commands []byte
	if err := row.Scan(&h.ID, &h.Sum, &seed, &options, &commands, &h.ExScore, &h.MaxCombo, &h.Outcome, &played); nil != err {
		return h, err
	}
	l := &replay.Log{ID: h.ID, Seed: seed, Hash: h.Sum}
	if err := json.Unmarshal([]byte(options), &l.Options); nil != err {
		return h, errors.Wrapf(err, "unable to unmarshal options of %s", h.ID)
	}
	var groups []CommandsCompact
	if err := json.Unmarshal(commands, &groups); nil != err {
		return h, errors.Wrapf(err, "unable to unmarshal commands of %s", h.ID)
	}
	var err error
	if l.Commands, err = uncompactCommands(groups); nil != err {
		return h, errors.Wrapf(err, "unable to restore commands of %s", h.ID)
	}
	h.Log = l
	h.Played = time.Unix(0, played)
	return h, nil
}

func (s *DefaultScorer) Load(c *game.Chart) ([]History, error) {
	histories := []History{}
	if nil == s.db {
		return histories, errors.New("score database is not open")
	}
	rows, err := s.db.Query(selectHistory+" where sum = ? order by played, rowid", s.hashChart(c))
	if nil != err {
		return histories, errors.Wrap(err, "unable to load replays")
	}
	defer rows.Close()
	for rows.Next() {
		h, err := scanHistory(rows)
		if nil != err {
			log.Println("skipping unreadable replay", err)
			continue
		}
		histories = append(histories, h)
	}
	return histories, errors.Wrap(rows.Err(), "unable to read replays")
}

func (s *DefaultScorer) Best(c *game.Chart) (*History, error) {
	if nil == s.db {
		return nil, errors.New("score database is not open")
	}
	row := s.db.QueryRow(selectHistory+" where sum = ? order by ex_score desc, played, rowid limit 1", s.hashChart(c))
	h, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if nil != err {
		return nil, errors.Wrap(err, "unable to load best replay")
	}
	return &h, nil
}

// Options rebuilds the engine options a log was recorded with
func Options(c *game.Chart, l *replay.Log) (judge.Options, timeline.Options) {
	profile, ok := judge.ParseProfile(l.Options.Profile)
	if !ok {
		profile = judge.ProfileOf(c.Rank)
	}
	gauge, _ := judge.ParseGauge(l.Options.Gauge)
	arrange, _ := timeline.ParseArrange(l.Options.Arrange)
	return judge.Options{
			Profile:  profile,
			Gauge:    gauge,
			Total:    c.Total,
			MaxScore: c.Mode.MaxScore(),
		}, timeline.Options{
			Arrange: arrange,
			Seed:    l.Seed,
		}
}

// Slot is the timeline slot a chart is played on
func Slot(c *game.Chart) timeline.Slot {
	if c.Mode.Double() {
		return timeline.SlotDouble
	}
	return timeline.Slot1P
}

func (s *DefaultScorer) Score(c *game.Chart, history *History) Score {
	opts, arrange := Options(c, history.Log)
	tl := timeline.Build(c, Slot(c), arrange)
	st := judge.Replay(tl, opts, history.Log).State()
	return Score{
		ExScore:  st.ExScore,
		MaxCombo: st.MaxCombo,
		Counts:   st.Counts,
		Health:   st.Health,
		Accuracy: st.TotalAccuracy,
		Outcome:  st.Outcome,
	}
}
