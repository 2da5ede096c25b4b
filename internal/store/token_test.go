package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	older := &Session{ID: "older", StartedAt: time.Now().Add(-time.Hour)}
	newer := &Session{ID: "newer"}
	if err := repo.Create(older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if newer.StartedAt.IsZero() {
		t.Error("StartedAt should default to now")
	}

	t.Run("list newest first", func(t *testing.T) {
		sessions, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != "newer" || sessions[1].ID != "older" {
			t.Errorf("unexpected order %s, %s", sessions[0].ID, sessions[1].ID)
		}
	})

	t.Run("end sets ended_at", func(t *testing.T) {
		at := time.Now()
		if err := repo.End("older", at); err != nil {
			t.Fatalf("End() error = %v", err)
		}
		got, err := repo.GetByID("older")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.EndedAt == nil {
			t.Fatal("EndedAt should be set")
		}
		if got.EndedAt.Unix() != at.Unix() {
			t.Errorf("EndedAt = %v, want %v", got.EndedAt, at)
		}

		fresh, _ := repo.GetByID("newer")
		if fresh.EndedAt != nil {
			t.Error("newer session should still be open")
		}
	})

	t.Run("missing session", func(t *testing.T) {
		if _, err := repo.GetByID("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if err := repo.End("nope", time.Now()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound from End, got %v", err)
		}
		if err := repo.Delete("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound from Delete, got %v", err)
		}
	})
}

func TestTokenRepository(t *testing.T) {
	s := newTestStore(t)
	if err := s.Sessions().Create(&Session{ID: "sess"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	repo := s.Tokens()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	tokens := []*Token{
		{ID: "t1", SessionID: "sess", Text: "A", Gesture: "fist", Hand: "Right", CreatedAt: base},
		{ID: "t2", SessionID: "sess", Text: "V", Gesture: "peace", Hand: "Right", CreatedAt: base.Add(time.Second)},
		{ID: "t3", SessionID: "sess", Text: "A", Gesture: "fist", Hand: "Left", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, tok := range tokens {
		if err := repo.Create(tok); err != nil {
			t.Fatalf("create %s: %v", tok.ID, err)
		}
	}

	t.Run("list in commit order", func(t *testing.T) {
		got, err := repo.ListBySession("sess")
		if err != nil {
			t.Fatalf("ListBySession() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 tokens, got %d", len(got))
		}
		for i, want := range []string{"t1", "t2", "t3"} {
			if got[i].ID != want {
				t.Errorf("tokens[%d].ID = %s, want %s", i, got[i].ID, want)
			}
		}
		if got[2].Hand != "Left" || got[1].Gesture != "peace" {
			t.Errorf("fields not round-tripped: %+v", got)
		}
	})

	t.Run("session token count", func(t *testing.T) {
		sess, err := s.Sessions().GetByID("sess")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if sess.Tokens != 3 {
			t.Errorf("Tokens = %d, want 3", sess.Tokens)
		}
	})

	t.Run("count by gesture", func(t *testing.T) {
		counts, err := repo.CountByGesture("sess")
		if err != nil {
			t.Fatalf("CountByGesture() error = %v", err)
		}
		if counts["fist"] != 2 || counts["peace"] != 1 {
			t.Errorf("unexpected counts %v", counts)
		}
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		err := repo.Create(&Token{ID: "orphan", SessionID: "missing", Text: "A", Gesture: "fist"})
		if err == nil {
			t.Error("expected error for token without session")
		}
	})

	t.Run("delete by session", func(t *testing.T) {
		if err := repo.DeleteBySession("sess"); err != nil {
			t.Fatalf("DeleteBySession() error = %v", err)
		}
		got, _ := repo.ListBySession("sess")
		if len(got) != 0 {
			t.Errorf("expected no tokens, got %d", len(got))
		}
		sess, err := s.Sessions().GetByID("sess")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if sess.Tokens != 0 {
			t.Errorf("Tokens = %d after delete, want 0", sess.Tokens)
		}
		if err := repo.DeleteBySession("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing session, got %v", err)
		}
	})

	t.Run("deleting session cascades", func(t *testing.T) {
		s.Sessions().Create(&Session{ID: "other"})
		repo.Create(&Token{ID: "t9", SessionID: "other", Text: "O", Gesture: "ok_sign"})

		if err := s.Sessions().Delete("other"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		got, _ := repo.ListBySession("other")
		if len(got) != 0 {
			t.Errorf("expected tokens to be cascaded, got %d", len(got))
		}
	})
}
