package translator

import (
	"sync"
	"testing"
	"time"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/gesture"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestSession_CommitsOnFourthObservation(t *testing.T) {
	s := NewSession(Options{Now: fixedClock()})

	var committedAt []int
	for i := 0; i < 5; i++ {
		if _, ok := s.Observe("Right", gesture.Fist); ok {
			committedAt = append(committedAt, i)
		}
	}

	if len(committedAt) != 1 || committedAt[0] != 3 {
		t.Fatalf("commits at %v, want [3]", committedAt)
	}
	if s.Text() != "A " {
		t.Errorf("Text() = %q, want %q", s.Text(), "A ")
	}
}

func TestSession_NoRecommitWhileHeld(t *testing.T) {
	s := NewSession(Options{Now: fixedClock()})
	for i := 0; i < 4; i++ {
		s.Observe("Right", gesture.Fist)
	}
	for i := 0; i < 4; i++ {
		if _, ok := s.Observe("Right", gesture.Fist); ok {
			t.Fatalf("observation %d re-committed", i)
		}
	}
	if s.Text() != "A " {
		t.Errorf("Text() = %q, want %q", s.Text(), "A ")
	}
}

func TestSession_AlternatingNeverCommits(t *testing.T) {
	s := NewSession(Options{})
	seq := []gesture.Label{
		gesture.Fist, gesture.Peace, gesture.Fist, gesture.Peace,
		gesture.Fist, gesture.Peace, gesture.Fist, gesture.Peace,
	}
	for _, l := range seq {
		if tok, ok := s.Observe("Right", l); ok {
			t.Fatalf("unexpected commit %+v", tok)
		}
	}
	if s.Text() != "" {
		t.Errorf("Text() = %q, want empty", s.Text())
	}
}

func TestSession_ClearAllowsRecommit(t *testing.T) {
	s := NewSession(Options{})
	for i := 0; i < 4; i++ {
		s.Observe("Right", gesture.Fist)
	}

	s.Clear()
	snap := s.Snapshot()
	if snap.Text != "" || len(snap.History) != 0 {
		t.Fatalf("expected empty snapshot after clear, got %+v", snap)
	}
	if s.Buffer("Right") != nil {
		t.Error("expected hand buffers to be dropped")
	}

	// Clearing twice is harmless
	s.Clear()

	var commits int
	for i := 0; i < 4; i++ {
		if _, ok := s.Observe("Right", gesture.Fist); ok {
			commits++
		}
	}
	if commits != 1 || s.Text() != "A " {
		t.Errorf("after clear: commits=%d text=%q, want 1 %q", commits, s.Text(), "A ")
	}
}

func TestSession_HistoryCapped(t *testing.T) {
	s := NewSession(Options{})
	// Alternate two gestures, each held long enough to commit
	labels := []gesture.Label{gesture.Fist, gesture.Peace}
	for i := 0; i < 12; i++ {
		for j := 0; j < 5; j++ {
			s.Observe("Right", labels[i%2])
		}
	}

	hist := s.History()
	if len(hist) != DefaultHistorySize {
		t.Fatalf("history length = %d, want %d", len(hist), DefaultHistorySize)
	}
	// 12 commits, the first two evicted: oldest kept is commit #2 (fist)
	if hist[0].Gesture != gesture.Fist || hist[9].Gesture != gesture.Peace {
		t.Errorf("unexpected history order: first=%s last=%s", hist[0].Gesture, hist[9].Gesture)
	}
	if got := s.Snapshot().Stats.Commits; got != 12 {
		t.Errorf("Stats.Commits = %d, want 12", got)
	}
}

func TestSession_OnCommit(t *testing.T) {
	var got []Token
	s := NewSession(Options{OnCommit: func(tok Token) { got = append(got, tok) }})
	for i := 0; i < 4; i++ {
		s.Observe("Left", gesture.OpenPalm)
	}
	if len(got) != 1 || got[0].Text != "Stop" || got[0].Hand != "Left" {
		t.Errorf("OnCommit received %+v", got)
	}
}

func TestSession_ProcessFrame(t *testing.T) {
	t.Run("classifies and commits", func(t *testing.T) {
		s := NewSession(Options{Now: fixedClock()})
		hands := []detector.HandLandmarks{detector.PeaceLandmarks()}

		var last FrameResult
		var tokens []Token
		for i := 0; i < 4; i++ {
			last = s.ProcessFrame(hands)
			tokens = append(tokens, last.Tokens...)
		}

		if len(last.Hands) != 1 {
			t.Fatalf("expected 1 hand result, got %d", len(last.Hands))
		}
		hr := last.Hands[0]
		if hr.Hand != "Right" || hr.Result.Label != gesture.Peace {
			t.Errorf("unexpected hand result %+v", hr.Result)
		}
		if hr.Analysis.ExtendedCount != 2 {
			t.Errorf("expected analysis with 2 extended fingers, got %d", hr.Analysis.ExtendedCount)
		}
		if len(tokens) != 1 || tokens[0].Text != "V" {
			t.Errorf("tokens = %+v, want one V", tokens)
		}

		stats := s.Snapshot().Stats
		if stats.Frames != 4 || !stats.Detecting || stats.LastGesture != gesture.Peace {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("empty frame feeds a miss to tracked hands", func(t *testing.T) {
		s := NewSession(Options{})
		s.ProcessFrame([]detector.HandLandmarks{detector.FistLandmarks()})
		res := s.ProcessFrame(nil)

		if len(res.Hands) != 0 {
			t.Errorf("expected no hand results, got %d", len(res.Hands))
		}
		buf := s.Buffer("Right")
		if len(buf) != 2 || buf[0] != gesture.Fist || buf[1] != gesture.None {
			t.Errorf("Buffer(Right) = %v, want [fist none]", buf)
		}
		if s.Snapshot().Stats.Detecting {
			t.Error("expected detecting=false after an empty frame")
		}
	})

	t.Run("forgets hands after a full history of misses", func(t *testing.T) {
		s := NewSession(Options{})
		s.ProcessFrame([]detector.HandLandmarks{detector.FistLandmarks()})
		for i := 0; i < gesture.HistorySize; i++ {
			s.ProcessFrame(nil)
		}
		if s.Buffer("Right") != nil {
			t.Error("expected idle hand to be forgotten")
		}
		if s.Snapshot().Stats.Tracked != 0 {
			t.Error("expected no tracked hands")
		}
	})

	t.Run("hands keep independent buffers", func(t *testing.T) {
		s := NewSession(Options{})
		left := detector.FistLandmarks()
		left.Handedness = "Left"
		right := detector.PeaceLandmarks()

		var texts []string
		for i := 0; i < 4; i++ {
			res := s.ProcessFrame([]detector.HandLandmarks{left, right})
			for _, tok := range res.Tokens {
				texts = append(texts, tok.Text)
			}
		}

		// Both hands commit on the 4th frame, in frame order
		if len(texts) != 2 || texts[0] != "A" || texts[1] != "V" {
			t.Errorf("committed %v, want [A V]", texts)
		}
		if s.Text() != "A V " {
			t.Errorf("Text() = %q, want %q", s.Text(), "A V ")
		}
	})

	t.Run("hands without handedness are keyed by position", func(t *testing.T) {
		s := NewSession(Options{})
		a := detector.FistLandmarks()
		a.Handedness = ""
		b := detector.FistLandmarks()
		b.Handedness = ""

		res := s.ProcessFrame([]detector.HandLandmarks{a, b})
		if res.Hands[0].Hand != "hand-0" || res.Hands[1].Hand != "hand-1" {
			t.Errorf("unexpected keys %s, %s", res.Hands[0].Hand, res.Hands[1].Hand)
		}
	})

	t.Run("duplicate handedness gets its own buffer", func(t *testing.T) {
		s := NewSession(Options{})
		res := s.ProcessFrame([]detector.HandLandmarks{detector.FistLandmarks(), detector.PeaceLandmarks()})
		if res.Hands[0].Hand == res.Hands[1].Hand {
			t.Errorf("both hands keyed %s", res.Hands[0].Hand)
		}
	})
}

func TestSession_ConcurrentClear(t *testing.T) {
	s := NewSession(Options{})
	hands := []detector.HandLandmarks{detector.FistLandmarks()}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.ProcessFrame(hands)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			s.Clear()
		}
	}()
	wg.Wait()

	text := s.Text()
	if text != "" && text != "A " {
		t.Errorf("Text() = %q, want empty or %q", text, "A ")
	}
}
