package translator

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/gesture"
)

// HandResult is the per-frame output for one detected hand.
type HandResult struct {
	Hand      string                 `json:"hand"`
	Result    gesture.Result         `json:"result"`
	Analysis  gesture.Analysis       `json:"analysis"`
	Landmarks detector.HandLandmarks `json:"landmarks"`
}

// FrameResult is everything produced while processing one frame.
type FrameResult struct {
	Timestamp time.Time    `json:"timestamp"`
	Hands     []HandResult `json:"hands"`
	Tokens    []Token      `json:"tokens"`
}

// Stats summarizes a session.
type Stats struct {
	Frames      uint64        `json:"frames"`
	Commits     uint64        `json:"commits"`
	Tracked     int           `json:"tracked_hands"`
	LastGesture gesture.Label `json:"last_gesture"`
	Confidence  float64       `json:"confidence"`
	Detecting   bool          `json:"detecting"`
}

// Snapshot is a read-only view of the session for presentation and speech.
type Snapshot struct {
	Text    string  `json:"text"`
	History []Token `json:"history"`
	Stats   Stats   `json:"stats"`
}

// Options configures a Session.
type Options struct {
	// HistorySize caps the interaction log (default 10).
	HistorySize int
	// Now supplies commit timestamps (default time.Now).
	Now func() time.Time
	// OnCommit is called, under the session lock, for every committed token.
	OnCommit func(Token)
}

// Session owns the translated output of one user session and the per-hand
// stabilizers feeding it. Frames, observations and Clear are serialized, so a
// clear is never visible halfway through a frame.
type Session struct {
	mu          sync.Mutex
	stabilizers map[string]*gesture.Stabilizer
	transcript  *Transcript
	now         func() time.Time
	onCommit    func(Token)
	log         *logrus.Entry

	frames  uint64
	commits uint64
	last    gesture.Result
	seen    bool
}

// NewSession creates an empty session.
func NewSession(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		stabilizers: make(map[string]*gesture.Stabilizer),
		transcript:  NewTranscript(opts.HistorySize),
		now:         opts.Now,
		onCommit:    opts.OnCommit,
		log:         logrus.WithField("component", "translator.Session"),
	}
}

// HandKey identifies a hand across frames: the tracker's handedness when
// reported, otherwise its position in the frame.
func HandKey(hand *detector.HandLandmarks, position int) string {
	if hand.Handedness != "" {
		return hand.Handedness
	}
	return fmt.Sprintf("hand-%d", position)
}

// Observe feeds one label for the named hand and commits its text if the
// label is held and not a repeat of the transcript's tail.
func (s *Session) Observe(hand string, label gesture.Label) (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observe(hand, label)
}

func (s *Session) observe(hand string, label gesture.Label) (Token, bool) {
	st, ok := s.stabilizers[hand]
	if !ok {
		st = gesture.NewStabilizer()
		s.stabilizers[hand] = st
	}

	stable, held := st.Observe(label)
	if !held {
		return Token{}, false
	}

	tok, ok := s.transcript.Commit(stable, hand, s.now())
	if !ok {
		return Token{}, false
	}

	s.commits++
	s.log.WithFields(logrus.Fields{
		"hand":    hand,
		"gesture": stable.String(),
		"text":    tok.Text,
	}).Info("committed token")

	if s.onCommit != nil {
		s.onCommit(tok)
	}
	return tok, true
}

// ProcessFrame classifies every hand in the frame, in order, and feeds the
// labels to their stabilizers. Hands tracked earlier but absent from this
// frame receive a None observation; once a hand's whole history is None it is
// forgotten.
func (s *Session) ProcessFrame(hands []detector.HandLandmarks) FrameResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := FrameResult{
		Timestamp: s.now(),
		Hands:     make([]HandResult, 0, len(hands)),
	}
	s.frames++

	present := make(map[string]bool, len(hands))
	for i := range hands {
		hand := &hands[i]
		key := HandKey(hand, i)
		if present[key] {
			// two hands reported with the same handedness
			key = fmt.Sprintf("%s-%d", key, i)
		}
		present[key] = true

		result, analysis := gesture.Explain(hand)
		res.Hands = append(res.Hands, HandResult{
			Hand:      key,
			Result:    result,
			Analysis:  analysis,
			Landmarks: *hand,
		})

		if tok, ok := s.observe(key, result.Label); ok {
			res.Tokens = append(res.Tokens, tok)
		}
	}

	// Sorted so that the miss order does not depend on map iteration.
	missing := make([]string, 0, len(s.stabilizers))
	for key := range s.stabilizers {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		if tok, ok := s.observe(key, gesture.None); ok {
			res.Tokens = append(res.Tokens, tok)
		}
		if s.stabilizers[key].Idle() {
			delete(s.stabilizers, key)
		}
	}

	if len(res.Hands) > 0 {
		s.last = res.Hands[0].Result
		s.seen = true
	} else {
		s.last = gesture.Result{}
		s.seen = false
	}

	return res
}

// Clear empties the transcript, the history and every hand's buffer.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript.Reset()
	for key := range s.stabilizers {
		delete(s.stabilizers, key)
	}
	s.last = gesture.Result{}
	s.seen = false
	s.log.Info("session cleared")
}

// Text returns the translated text so far.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Text()
}

// History returns the recent committed tokens, oldest first.
func (s *Session) History() []Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.History()
}

// Snapshot returns text, history and stats as of now.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Text:    s.transcript.Text(),
		History: s.transcript.History(),
		Stats: Stats{
			Frames:      s.frames,
			Commits:     s.commits,
			Tracked:     len(s.stabilizers),
			LastGesture: s.last.Label,
			Confidence:  s.last.Confidence,
			Detecting:   s.seen,
		},
	}
}

// Buffer returns a copy of the label history kept for hand, oldest first.
func (s *Session) Buffer(hand string) []gesture.Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stabilizers[hand]
	if !ok {
		return nil
	}
	return st.History()
}
