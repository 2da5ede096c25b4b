package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per translation session, a clear starts a new one
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			tokens INTEGER NOT NULL DEFAULT 0
		)`,

		// Tokens table - committed translations
		`CREATE TABLE IF NOT EXISTS tokens (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			gesture TEXT NOT NULL,
			hand TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tokens_session_id ON tokens(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_created_at ON tokens(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
