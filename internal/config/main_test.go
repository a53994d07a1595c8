package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/eotb/internal/game"
)

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); nil != err {
		t.Fatal(err)
	}
	for _, mode := range []game.Mode{game.Beat5K, game.Beat7K, game.Beat10K, game.Beat14K, game.Popn9K} {
		if keys := c.KeysFor(mode); len(keys) != mode.Keys() {
			t.Log("mode", mode, "keys", string(keys))
			t.Fail()
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
gauge = "hard"
offset = "12ms"
hispeed = 2.5
[keys]
7K = "qwe"
`
	if err := os.WriteFile(path, []byte(data), 0o644); nil != err {
		t.Fatal(err)
	}
	c, err := Load(path)
	if nil != err {
		t.Fatal(err)
	}
	if c.Gauge != "hard" || c.Offset != 12*time.Millisecond || c.HiSpeed != 2.5 {
		t.Log("config", c)
		t.Fail()
	}
	// untouched values keep their defaults
	if c.Tap != Default().Tap || c.Arrange != "normal" {
		t.Log("tap", c.Tap, "arrange", c.Arrange)
		t.Fail()
	}
	if keys := string(c.KeysFor(game.Beat7K)); keys != "qwe......" {
		t.Log("keys", keys)
		t.Fail()
	}
	if string(c.KeysFor(game.Popn9K)) != "asdfghjkl" {
		t.Log("popn keys lost")
		t.Fail()
	}
}

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if nil != err || c.Gauge != Default().Gauge {
		t.Log("config", c, "err", err)
		t.Fail()
	}
}

var invalidConfigs = map[string]string{
	"gauge":   `gauge = "impossible"`,
	"arrange": `arrange = "sideways"`,
	"profile": `profile = "brutal"`,
	"hispeed": `hispeed = -1.0`,
	"scratch": "scratch_press = 0.1\nscratch_release = 0.3",
	"syntax":  `gauge = `,
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, data := range invalidConfigs {
		path := filepath.Join(dir, name+".toml")
		if err := os.WriteFile(path, []byte(data), 0o644); nil != err {
			t.Fatal(err)
		}
		if _, err := Load(path); nil == err {
			t.Log("accepted invalid", name)
			t.Fail()
		}
	}
}

func TestBind(t *testing.T) {
	c := Default()
	c.Gauge = "exhard"
	app := kingpin.New("eotb", "")
	c.Bind(app)
	if _, err := app.Parse([]string{"--arrange", "mirror", "-s", "3", "--offset=-5ms"}); nil != err {
		t.Fatal(err)
	}
	if c.Arrange != "mirror" || c.HiSpeed != 3 || c.Offset != -5*time.Millisecond {
		t.Log("config", c)
		t.Fail()
	}
	if c.Gauge != "exhard" {
		t.Log("flag default replaced the loaded gauge", c.Gauge)
		t.Fail()
	}
}

func TestLane(t *testing.T) {
	c := Default()
	for r, lane := range map[rune]int{'z': 0, 'v': 6, 'a': game.ScratchLane, 'q': -1, Unbound: -1} {
		if got := c.Lane(r, game.Beat7K); got != lane {
			t.Log("rune", string(r), "lane", got, "expected", lane)
			t.Fail()
		}
	}
}
