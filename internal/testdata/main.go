package testdata

import (
	"sort"
	"strings"
)

const header = `#PLAYER 1
#GENRE TEST
#TITLE fixture
#ARTIST eotb
#BPM 120
#PLAYLEVEL 3
#RANK 2
#WAV01 kick.wav
#WAV02 snare.wav
`

// At 120 BPM a 4/4 bar lasts 2000ms, so bar 1 starts at 2000ms.
var charts = map[string]string{
	// five notes on the first key, 2000ms to 4000ms every 500ms
	"five": header + `
#00111:01010101
#00211:01
`,
	// eight notes on the first key, 2000ms to 3750ms every 250ms
	"dense": header + `
#00111:0101010101010101
`,
	// a long note on the first key from 2000ms to 3500ms and a note on the
	// second key at 4000ms
	"long": header + `
#00151:01000001
#00212:01
`,
	// a long note on the scratch from 2000ms to 3500ms
	"scratch": header + `
#00156:02000002
`,
	// a mine on the first key at 2000ms and a note at 3000ms
	"mine": header + `
#001D1:01
#00111:0001
`,
	// a long note written with an end marker
	"lnobj": header + `#LNOBJ ZZ
#00111:0100ZZ00
`,
	// one of two branches, the first key or the second
	"random": header + `
#RANDOM 2
#IF 1
#WAV03 one.wav
#00111:01
#ENDIF
#IF 2
#WAV04 two.wav
#00112:01
#ENDIF
#ENDRANDOM
`,
	// a stop of one beat at the middle of bar 1
	"stop": header + `#STOP01 48
#00109:0001
#00111:0101
#00211:01
`,
	// an unmatched head followed by a plain note on the same lane
	"implicit": header + `
#00151:01
#00211:01
`,
	// a long note on the first key from 2000ms to 2005ms
	"short": header + `
#00151:0101` + strings.Repeat("00", 398) + `
`,
	"empty": "",
}

// GetChart returns the text of a named fixture chart
func GetChart(name string) (string, bool) {
	c, ok := charts[name]
	return c, ok
}

func Names() []string {
	names := make([]string, 0, len(charts))
	for n := range charts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
