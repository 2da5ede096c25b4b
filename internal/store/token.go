package store

import (
	"database/sql"
	"time"
)

// Token is a committed translation stored in the database.
type Token struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Gesture   string    `json:"gesture"`
	Hand      string    `json:"hand"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenRepository provides access to committed tokens.
type TokenRepository struct {
	db *sql.DB
}

// Tokens returns the token repository for this store.
func (s *Store) Tokens() *TokenRepository {
	return &TokenRepository{db: s.db}
}

// Create inserts a token and bumps the token count on its session in a
// single transaction.
func (r *TokenRepository) Create(tok *Token) error {
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO tokens (id, session_id, text, gesture, hand, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tok.ID, tok.SessionID, tok.Text, tok.Gesture, tok.Hand, tok.CreatedAt,
	)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE sessions SET tokens = tokens + 1 WHERE id = ?`, tok.SessionID)
	if err != nil {
		return err
	}
	if err := expectOneRow(result); err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession retrieves the tokens of a session in commit order.
func (r *TokenRepository) ListBySession(sessionID string) ([]Token, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, text, gesture, hand, created_at
		 FROM tokens
		 WHERE session_id = ?
		 ORDER BY created_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []Token
	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Text, &t.Gesture, &t.Hand, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// CountByGesture returns how many tokens each gesture committed in a session.
func (r *TokenRepository) CountByGesture(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) FROM tokens WHERE session_id = ? GROUP BY gesture`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var gesture string
		var n int
		if err := rows.Scan(&gesture, &n); err != nil {
			return nil, err
		}
		counts[gesture] = n
	}

	return counts, rows.Err()
}

// DeleteBySession removes all tokens of a session and resets its token
// count in a single transaction. It returns ErrNotFound if the session does
// not exist.
func (r *TokenRepository) DeleteBySession(sessionID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE sessions SET tokens = 0 WHERE id = ?`, sessionID)
	if err != nil {
		return err
	}
	if err := expectOneRow(result); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM tokens WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	return tx.Commit()
}
