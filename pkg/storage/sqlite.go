package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
)

const sessionsKey = "chat_sessions"

// SQLiteStore keeps the whole session list as one keyed JSON blob in a local
// SQLite database. The UI survives a corrupt blob: Load falls back to an
// empty list instead of failing.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// modernc's driver takes pragmas as _pragma=name(value) pairs.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := migrate.Exec(db, "sqlite3", migrations(), migrate.Up); err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func migrations() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "20240101_create_blobs",
				Up: []string{`
					CREATE TABLE IF NOT EXISTS blobs (
						key        TEXT PRIMARY KEY,
						value      TEXT NOT NULL,
						updated_at INTEGER NOT NULL
					)`,
				},
				Down: []string{`DROP TABLE blobs`},
			},
		},
	}
}

// Load reads the persisted session list. A missing or unparseable blob is
// logged and treated as empty so persistence corruption never reaches the UI.
func (s *SQLiteStore) Load(ctx context.Context) []domain.ChatSession {
	const query = `SELECT value FROM blobs WHERE key = ?`

	var raw string
	err := s.db.QueryRowContext(ctx, query, sessionsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Reading session blob, starting empty", logger.Err(err))
		return nil
	}

	sessions, err := decodeSessions([]byte(raw))
	if err != nil {
		slog.WarnContext(ctx, "Session blob is corrupt, starting empty", logger.Err(err))
		return nil
	}
	return sessions
}

// Save rewrites the whole session list.
func (s *SQLiteStore) Save(ctx context.Context, sessions []domain.ChatSession) error {
	raw, err := encodeSessions(sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	const query = `
		INSERT INTO blobs (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, sessionsKey, string(raw), time.Now().Unix()); err != nil {
		return fmt.Errorf("saving session blob: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
