package glass

// State classifies how broken the pane is. The eight base states are
// ordered by destructiveness; Rebuild and Recovery are override states
// reachable only through the idle-timeout or reset paths, never through
// the level thresholds.
type State int

const (
	Normal State = iota
	TinyCrack
	SmallCrack
	Cracked
	BigCrack
	Shatter
	HeavyShatter
	Silence
	Rebuild
	Recovery
)

var stateNames = map[State]string{
	Normal:       "normal",
	TinyCrack:    "tiny_crack",
	SmallCrack:   "small_crack",
	Cracked:      "crack",
	BigCrack:     "big_crack",
	Shatter:      "shatter",
	HeavyShatter: "heavy_shatter",
	Silence:      "silence",
	Rebuild:      "rebuild",
	Recovery:     "recovery",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Severity is the ordinal of a base state (Normal = 0 .. Silence = 7).
// Override states report the severity of the damage they are repairing
// from, which the caller tracks; here they map to -1.
func (s State) Severity() int {
	if s > Silence {
		return -1
	}
	return int(s)
}

func (s State) Destructive() bool {
	return s >= TinyCrack && s <= Silence
}

func (s State) Override() bool {
	return s == Rebuild || s == Recovery
}

// levelBands maps the destruction level to a base state. Bands are
// left-inclusive; the last band closes at 1.0.
var levelBands = []struct {
	upper float64
	state State
}{
	{0.05, Normal},
	{0.15, TinyCrack},
	{0.30, SmallCrack},
	{0.50, Cracked},
	{0.65, BigCrack},
	{0.75, Shatter},
	{0.85, HeavyShatter},
}

func StateForLevel(level float64) State {
	for _, band := range levelBands {
		if level < band.upper {
			return band.state
		}
	}
	return Silence
}

// LowerBound returns the left edge of a base state's level band.
func LowerBound(s State) float64 {
	if s <= Normal || s > Silence {
		return 0
	}
	return levelBands[int(s)-1].upper
}
