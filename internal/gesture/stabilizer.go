package gesture

// Stabilization parameters.
const (
	// HistorySize is the number of recent labels kept per hand.
	HistorySize = 10
	// WindowSize is the trailing slice of the history that votes.
	WindowSize = 5
	// MajorityThreshold is the vote count at which a label counts as held.
	MajorityThreshold = 4
)

// Stabilizer smooths the per-frame labels of one tracked hand. It keeps the
// last HistorySize labels, None included, and reports a label as held once it
// wins at least MajorityThreshold of the last WindowSize observations.
//
// The zero value is an empty stabilizer ready for use. It is not safe for
// concurrent use.
type Stabilizer struct {
	history [HistorySize]Label
	start   int // index of the oldest entry
	size    int
}

// NewStabilizer returns a stabilizer with an empty history.
func NewStabilizer() *Stabilizer {
	return &Stabilizer{}
}

// Observe records label and reports the majority label of the trailing window
// and whether it is held.
func (s *Stabilizer) Observe(label Label) (Label, bool) {
	s.push(label)
	winner, count := s.Majority()
	return winner, count >= MajorityThreshold
}

func (s *Stabilizer) push(label Label) {
	if s.size < HistorySize {
		s.history[(s.start+s.size)%HistorySize] = label
		s.size++
		return
	}
	s.history[s.start] = label
	s.start = (s.start + 1) % HistorySize
}

// Majority returns the most frequent label among the last WindowSize entries
// (or all entries when fewer are recorded) and its count. Ties go to the label
// that appears first in the window. An empty history yields (None, 0).
func (s *Stabilizer) Majority() (Label, int) {
	n := s.size
	if n > WindowSize {
		n = WindowSize
	}

	var counts [numLabels]int
	window := make([]Label, 0, WindowSize)
	for i := s.size - n; i < s.size; i++ {
		l := s.at(i)
		counts[l]++
		window = append(window, l)
	}

	best, bestCount := None, 0
	for _, l := range window {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best, bestCount
}

// at returns the i-th oldest entry.
func (s *Stabilizer) at(i int) Label {
	return s.history[(s.start+i)%HistorySize]
}

// History returns the recorded labels, oldest first.
func (s *Stabilizer) History() []Label {
	out := make([]Label, s.size)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// Len returns the number of recorded labels.
func (s *Stabilizer) Len() int {
	return s.size
}

// Idle reports whether the history is full and holds only None.
func (s *Stabilizer) Idle() bool {
	if s.size < HistorySize {
		return false
	}
	for i := 0; i < s.size; i++ {
		if s.at(i) != None {
			return false
		}
	}
	return true
}

// Reset empties the history.
func (s *Stabilizer) Reset() {
	s.start = 0
	s.size = 0
}
