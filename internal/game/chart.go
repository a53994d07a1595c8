package game

// ResourceCount is the size of every two character indexed resource table
const ResourceCount = 36 * 36

// Metadata is everything a chart declares or derives outside its note data
type Metadata struct {
	Player     int
	Title      string
	Subtitle   string
	Artist     string
	Subartist  string
	Genre      string
	StageFile  string
	Banner     string
	BackBMP    string
	Preview    string
	PlayLevel  int
	Rank       Rank
	Difficulty Difficulty
	Total      float64
	TotalSet   bool

	BPM      float64 // #BPM header
	StartBPM float64
	MinBPM   float64
	MaxBPM   float64

	LNObjects []int // #LNOBJ markers

	WAVs  [ResourceCount]string
	BMPs  [ResourceCount]string
	BPMs  [ResourceCount]float64
	Stops [ResourceCount]int // 1/192 of a whole note

	Layout Layout
	Mode   Mode

	// Set when a resource table was written inside a #RANDOM block, the
	// tables then depend on the seed and must not be cached across seeds.
	ResourceUnstable bool

	NoteCount      int // regular + long notes, each pair once
	RegularCount   int
	LongCount      int
	MineCount      int
	InvisibleCount int

	Hash string // sha256 of the raw bytes, hex
	MD5  string
}

// Chart is the parser output. It is read only once parsing returns.
type Chart struct {
	Metadata
	Table *Table
	Seed  int64
}

// IsLNObject reports whether v is one of the declared #LNOBJ markers
func (m *Metadata) IsLNObject(v int) bool {
	for _, o := range m.LNObjects {
		if o == v {
			return true
		}
	}
	return false
}

// DefaultTotal is the gauge total used when a chart does not declare one
func DefaultTotal(notes int) float64 {
	n := float64(notes)
	return 7.605 * n / (0.01*n + 6.5)
}
