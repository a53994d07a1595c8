package replay

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Kind is what a command does
type Kind uint8

const (
	Press Kind = iota
	Release
	Reverse // scratch direction flip, press in the new direction
	HiSpeed
	CoverTop
	CoverBottom
	CoverEnabled
)

var kindNames = [...]string{"press", "release", "reverse", "hispeed", "cover-top", "cover-bottom", "cover-enabled"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Input reports whether the command is a lane transition
func (k Kind) Input() bool {
	return k <= Reverse
}

type Command struct {
	Ms    int64   `json:"ms"`
	Kind  Kind    `json:"kind"`
	Lane  int     `json:"lane,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Snapshot is the option set a session was played with
type Snapshot struct {
	Gauge   string   `json:"gauge"`
	Profile string   `json:"profile"`
	Arrange string   `json:"arrange"`
	Assist  []string `json:"assist,omitempty"`
}

// Log is everything needed to play a session again. Only one goroutine may
// append to a log.
type Log struct {
	ID       string    `json:"id"`
	Seed     int64     `json:"seed"`
	Hash     string    `json:"hash"`
	Options  Snapshot  `json:"options"`
	Commands []Command `json:"commands"`
}

func New(seed int64, hash string, opts Snapshot) *Log {
	return &Log{
		ID:      uuid.NewString(),
		Seed:    seed,
		Hash:    hash,
		Options: opts,
	}
}

// Append adds c to the end of the log. The log is ordered by time, so a
// command older than the last one is moved up to the last one's time.
func (l *Log) Append(c Command) {
	if n := len(l.Commands); n > 0 && c.Ms < l.Commands[n-1].Ms {
		c.Ms = l.Commands[n-1].Ms
	}
	l.Commands = append(l.Commands, c)
}

func (l *Log) Len() int {
	return len(l.Commands)
}

// Last is the time of the last command, 0 for an empty log
func (l *Log) Last() int64 {
	if len(l.Commands) == 0 {
		return 0
	}
	return l.Commands[len(l.Commands)-1].Ms
}

func (l *Log) Marshal() ([]byte, error) {
	data, err := json.Marshal(l)
	if nil != err {
		return nil, errors.Wrap(err, "unable to marshal replay")
	}
	return data, nil
}

func Unmarshal(data []byte) (*Log, error) {
	var l Log
	if err := json.Unmarshal(data, &l); nil != err {
		return nil, errors.Wrap(err, "unable to unmarshal replay")
	}
	return &l, nil
}

// Cursor hands out the commands of a log in order. The log may keep growing
// while a cursor reads it.
type Cursor struct {
	log *Log
	pos int
}

func (l *Log) Cursor() *Cursor {
	return &Cursor{log: l}
}

// Peek returns the next command without consuming it
func (c *Cursor) Peek() (Command, bool) {
	if c.pos >= len(c.log.Commands) {
		return Command{}, false
	}
	return c.log.Commands[c.pos], true
}

// Due consumes and returns every command at or before ms
func (c *Cursor) Due(ms int64) []Command {
	start := c.pos
	for c.pos < len(c.log.Commands) && c.log.Commands[c.pos].Ms <= ms {
		c.pos++
	}
	return c.log.Commands[start:c.pos]
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.log.Commands)
}
