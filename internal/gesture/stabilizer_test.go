package gesture

import (
	"reflect"
	"testing"
)

func TestStabilizer_HeldAfterFourOfFive(t *testing.T) {
	s := NewStabilizer()

	for i := 0; i < 3; i++ {
		if _, held := s.Observe(Fist); held {
			t.Fatalf("observation %d: should not be held yet", i)
		}
	}

	label, held := s.Observe(Fist)
	if !held || label != Fist {
		t.Fatalf("4th observation: got (%s, %v), want (fist, true)", label, held)
	}

	label, held = s.Observe(Fist)
	if !held || label != Fist {
		t.Errorf("5th observation: got (%s, %v), want (fist, true)", label, held)
	}
}

func TestStabilizer_AlternatingNeverHeld(t *testing.T) {
	s := NewStabilizer()
	seq := []Label{Fist, Peace, Fist, Peace, Fist, Peace, Fist, Peace}

	for i, l := range seq {
		if winner, held := s.Observe(l); held {
			t.Fatalf("observation %d: %s held unexpectedly", i, winner)
		}
	}
}

func TestStabilizer_NoneParticipates(t *testing.T) {
	s := NewStabilizer()
	for _, l := range []Label{Fist, Fist, Fist, None, None} {
		s.Observe(l)
	}
	label, count := s.Majority()
	if label != Fist || count != 3 {
		t.Errorf("Majority() = (%s, %d), want (fist, 3)", label, count)
	}

	// A run of misses is itself a held label
	for i := 0; i < 2; i++ {
		s.Observe(None)
	}
	label, held := s.Observe(None)
	if label != None || !held {
		t.Errorf("expected none to be held, got (%s, %v)", label, held)
	}
}

func TestStabilizer_TieGoesToFirstSeen(t *testing.T) {
	s := NewStabilizer()
	for _, l := range []Label{OKSign, Fist, OKSign, Fist} {
		s.Observe(l)
	}
	label, count := s.Majority()
	if label != OKSign || count != 2 {
		t.Errorf("Majority() = (%s, %d), want (ok_sign, 2)", label, count)
	}
}

func TestStabilizer_WindowOnlyCountsRecent(t *testing.T) {
	s := NewStabilizer()
	for i := 0; i < 6; i++ {
		s.Observe(Peace)
	}
	// Two pointing frames leave peace with 3 of the last 5
	s.Observe(Pointing)
	label, held := s.Observe(Pointing)
	if held {
		t.Errorf("expected no held label, got %s", label)
	}
	if label != Peace {
		t.Errorf("expected peace to lead the window, got %s", label)
	}
}

func TestStabilizer_HistoryBounded(t *testing.T) {
	s := NewStabilizer()
	labels := Labels()
	var fed []Label
	for i := 0; i < 13; i++ {
		l := labels[i%len(labels)]
		fed = append(fed, l)
		s.Observe(l)
	}

	if s.Len() != HistorySize {
		t.Fatalf("Len() = %d, want %d", s.Len(), HistorySize)
	}
	want := fed[len(fed)-HistorySize:]
	if got := s.History(); !reflect.DeepEqual(got, want) {
		t.Errorf("History() = %v, want %v", got, want)
	}
}

func TestStabilizer_IdleAndReset(t *testing.T) {
	s := NewStabilizer()
	if s.Idle() {
		t.Error("empty stabilizer should not be idle")
	}

	s.Observe(Fist)
	for i := 0; i < HistorySize-1; i++ {
		s.Observe(None)
	}
	if s.Idle() {
		t.Error("history still holds a fist")
	}
	s.Observe(None)
	if !s.Idle() {
		t.Error("expected idle after a full history of misses")
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}
	if label, count := s.Majority(); label != None || count != 0 {
		t.Errorf("Majority() after Reset = (%s, %d), want (none, 0)", label, count)
	}
}
