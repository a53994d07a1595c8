package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/eotb/internal/game"
	"git.lost.host/meutraa/eotb/internal/judge"
	"git.lost.host/meutraa/eotb/internal/timeline"
)

// Unbound marks a lane without a key in a key string
const Unbound = '.'

type Config struct {
	// Keys holds one rune per lane for every mode, lane order as in the
	// chart. Double modes list the first side then the second.
	Keys map[string]string `toml:"keys"`

	Profile string  `toml:"profile"` // empty follows the chart #RANK
	Gauge   string  `toml:"gauge"`
	Arrange string  `toml:"arrange"`
	HiSpeed float64 `toml:"hispeed"`

	Offset      time.Duration `toml:"offset"`
	Delay       time.Duration `toml:"delay"`
	Tap         time.Duration `toml:"tap"` // how long a terminal key counts as held
	FramePeriod time.Duration `toml:"frame_period"`

	Device         string  `toml:"device"` // evdev keyboard, the terminal is used when empty
	ScratchPress   float64 `toml:"scratch_press"`
	ScratchRelease float64 `toml:"scratch_release"`

	Volume float64 `toml:"volume"` // in beep volume steps, 0 is unchanged
	DBPath string  `toml:"db_path"`
}

func Default() *Config {
	home, err := os.UserHomeDir()
	if nil != err {
		home = "."
	}
	return &Config{
		Keys: map[string]string{
			game.Beat5K.String():  "zsxdc..a.",
			game.Beat7K.String():  "zsxdcfva.",
			game.Beat10K.String(): "zsxdc..a.nj,k...;.",
			game.Beat14K.String(): "zsxdcfva.nj,kl./;.",
			game.Popn9K.String():  "asdfghjkl",
		},
		Gauge:          judge.Groove.String(),
		Arrange:        timeline.ArrangeNormal.String(),
		HiSpeed:        1,
		Delay:          1500 * time.Millisecond,
		Tap:            80 * time.Millisecond,
		FramePeriod:    4 * time.Millisecond,
		ScratchPress:   0.5,
		ScratchRelease: 0.2,
		DBPath:         filepath.Join(home, ".config", "eotb", "scores.db"),
	}
}

// Path is where Load looks when no file is given
func Path() string {
	if p := os.Getenv("EOTB_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if nil != err {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "eotb", "config.toml")
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	c := Default()
	if _, err := os.Stat(path); nil != err {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, c); nil != err {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}
	if home, err := os.UserHomeDir(); nil == err {
		c.DBPath = expandHome(c.DBPath, home)
		c.Device = expandHome(c.Device, home)
	}
	return c, c.Validate()
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) Validate() error {
	if _, ok := judge.ParseGauge(c.Gauge); !ok {
		return errors.Errorf("unknown gauge %q", c.Gauge)
	}
	if _, ok := timeline.ParseArrange(c.Arrange); !ok {
		return errors.Errorf("unknown arrange %q", c.Arrange)
	}
	if _, ok := judge.ParseProfile(c.Profile); c.Profile != "" && !ok {
		return errors.Errorf("unknown judge profile %q", c.Profile)
	}
	if c.HiSpeed <= 0 {
		return errors.Errorf("hispeed must be positive, not %v", c.HiSpeed)
	}
	if c.ScratchRelease > c.ScratchPress {
		return errors.New("scratch release threshold is above the press threshold")
	}
	return nil
}

func float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Bind registers flags on app that override the loaded values
func (c *Config) Bind(app *kingpin.Application) {
	app.Flag("profile", "Judge profile, the chart rank when empty").Default(c.Profile).StringVar(&c.Profile)
	app.Flag("gauge", "Gauge type").Short('g').Default(c.Gauge).StringVar(&c.Gauge)
	app.Flag("arrange", "Lane arrangement").Short('a').Default(c.Arrange).EnumVar(&c.Arrange, "normal", "mirror", "random")
	app.Flag("hispeed", "Scroll speed multiplier").Short('s').Default(float(c.HiSpeed)).Float64Var(&c.HiSpeed)
	app.Flag("offset", "Global input offset").Short('o').Default(c.Offset.String()).DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Short('d').Default(c.Delay.String()).DurationVar(&c.Delay)
	app.Flag("tap", "Hold time of a terminal key press").Default(c.Tap.String()).DurationVar(&c.Tap)
	app.Flag("frame-period", "Render frame period").Short('p').Default(c.FramePeriod.String()).DurationVar(&c.FramePeriod)
	app.Flag("device", "evdev keyboard device").Default(c.Device).StringVar(&c.Device)
	app.Flag("volume", "Keysound volume").Default(float(c.Volume)).Float64Var(&c.Volume)
	app.Flag("db", "Score database").Default(c.DBPath).StringVar(&c.DBPath)
}

// KeysFor returns the lane bindings for a mode, Unbound where a lane has
// no key. The result always has one entry per lane of the mode.
func (c *Config) KeysFor(mode game.Mode) []rune {
	keys := []rune(c.Keys[mode.String()])
	if len(keys) == 0 {
		keys = []rune(Default().Keys[mode.String()])
	}
	out := make([]rune, mode.Keys())
	for i := range out {
		out[i] = Unbound
		if i < len(keys) {
			out[i] = keys[i]
		}
	}
	return out
}

// Lane is the lane bound to r, -1 when r is not bound
func (c *Config) Lane(r rune, mode game.Mode) int {
	if r == Unbound {
		return -1
	}
	for i, k := range c.KeysFor(mode) {
		if r == k {
			return i
		}
	}
	return -1
}
