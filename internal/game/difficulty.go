package game

// Layout selects the channel lookup used while parsing
type Layout uint8

const (
	LayoutBeat Layout = iota
	LayoutPopn
)

func (l Layout) String() string {
	if l == LayoutPopn {
		return "popn"
	}
	return "beat"
}

// Mode is the physical key configuration a chart is played on
type Mode uint8

const (
	Beat5K Mode = iota
	Beat7K
	Beat10K
	Beat14K
	Popn9K
)

type modeInfo struct {
	Name     string
	Keys     int // lanes the engine tracks
	Double   bool
	MaxScore float64
}

var modes = map[Mode]modeInfo{
	Beat5K:  {"5K", LanesPerSide, false, 100000},
	Beat7K:  {"7K", LanesPerSide, false, 200000},
	Beat10K: {"10K", 2 * LanesPerSide, true, 100000},
	Beat14K: {"14K", 2 * LanesPerSide, true, 200000},
	Popn9K:  {"9K", LanesPerSide, false, 200000},
}

func (m Mode) String() string {
	return modes[m].Name
}

func (m Mode) Keys() int {
	return modes[m].Keys
}

func (m Mode) Double() bool {
	return modes[m].Double
}

// MaxScore is the money score awarded for an all perfect play
func (m Mode) MaxScore() float64 {
	return modes[m].MaxScore
}

// Rank is the judge difficulty declared by #RANK
type Rank uint8

const (
	RankVeryHard Rank = iota
	RankHard
	RankNormal
	RankEasy
)

var rankNames = [...]string{"VERY HARD", "HARD", "NORMAL", "EASY"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return "NORMAL"
}

// Difficulty label, 0 when unknown
type Difficulty uint8

const (
	DifficultyUnknown Difficulty = iota
	DifficultyBeginner
	DifficultyNormal
	DifficultyHyper
	DifficultyAnother
	DifficultyInsane
)

var difficultyNames = [...]string{"UNKNOWN", "BEGINNER", "NORMAL", "HYPER", "ANOTHER", "INSANE"}

func (d Difficulty) String() string {
	if int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return difficultyNames[0]
}
