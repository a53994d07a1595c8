package audio

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"git.lost.host/meutraa/eotb/internal/game"
)

// Charts often name a .wav that was shipped converted to another format
var extensions = []string{".wav", ".ogg", ".mp3"}

// Bank holds the decoded keysounds of a chart, indexed like #WAVxx
type Bank struct {
	Format  beep.Format
	Volume  float64
	Missing int

	sounds [game.ResourceCount]*beep.Buffer
}

func NewBank(rate beep.SampleRate) *Bank {
	return &Bank{Format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}}
}

func candidates(dir, name string) []string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	paths := []string{filepath.Join(dir, name)}
	for _, ext := range extensions {
		if p := filepath.Join(dir, base+ext); p != paths[0] {
			paths = append(paths, p)
		}
	}
	return paths
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var s beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		s, format, err = vorbis.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	default:
		s, format, err = wav.Decode(f)
	}
	if nil != err {
		f.Close()
		return nil, format, errors.Wrapf(err, "unable to decode %s", path)
	}
	return s, format, nil
}

// Load decodes the file named by a #WAVxx entry into slot index
func (b *Bank) Load(dir string, index int, name string) error {
	if index < 0 || index >= game.ResourceCount {
		return errors.Errorf("sample index %d out of range", index)
	}
	var err error
	for _, path := range candidates(dir, name) {
		var s beep.StreamSeekCloser
		var format beep.Format
		s, format, err = decode(path)
		if nil != err {
			continue
		}
		buf := beep.NewBuffer(b.Format)
		if format.SampleRate == b.Format.SampleRate {
			buf.Append(s)
		} else {
			buf.Append(beep.Resample(3, format.SampleRate, b.Format.SampleRate, s))
		}
		s.Close()
		b.sounds[index] = buf
		return nil
	}
	return errors.Wrapf(err, "unable to load sample %s", name)
}

// LoadChart loads every sample a chart declares, relative to dir. Samples
// that cannot be read are logged and counted in Missing.
func (b *Bank) LoadChart(dir string, chart *game.Chart) {
	for i, name := range chart.WAVs {
		if name == "" {
			continue
		}
		if err := b.Load(dir, i, name); nil != err {
			log.Println(err)
			b.Missing++
		}
	}
}

// Len is the length of a sample in frames, 0 when it is not loaded
func (b *Bank) Len(index int) int {
	if index < 0 || index >= game.ResourceCount || b.sounds[index] == nil {
		return 0
	}
	return b.sounds[index].Len()
}

// Streamer plays sample index from the start, nil when it is not loaded
func (b *Bank) Streamer(index int) beep.Streamer {
	if b.Len(index) == 0 {
		return nil
	}
	buf := b.sounds[index]
	s := buf.Streamer(0, buf.Len())
	if b.Volume == 0 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: b.Volume}
}

// Player mixes keysounds on the speaker
type Player struct {
	bank  *Bank
	mixer *beep.Mixer
}

func NewPlayer(bank *Bank) (*Player, error) {
	sr := bank.Format.SampleRate
	if err := speaker.Init(sr, sr.N(time.Second/60)); nil != err {
		return nil, errors.Wrap(err, "unable to open speaker")
	}
	p := &Player{bank: bank, mixer: &beep.Mixer{}}
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts sample index, unknown samples are silent
func (p *Player) Play(index int) {
	if s := p.bank.Streamer(index); s != nil {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
}

// Close silences everything still playing
func (p *Player) Close() {
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
}
