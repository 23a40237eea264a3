// Package sqlite provides durable conversation history storage.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llmspace/whatsapp-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

// Ensure TurnStore implements the interface.
var _ driven.TurnStore = (*TurnStore)(nil)

// TurnStore persists conversation turns in a SQLite database.
type TurnStore struct {
	db   *sql.DB
	path string
}

// NewTurnStore creates a SQLite turn store in the given data directory.
// If dataDir is empty, defaults to ~/.assistant/data.
func NewTurnStore(dataDir string) (*TurnStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".assistant", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &TurnStore{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *TurnStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *TurnStore) Path() string {
	return s.path
}

// Save stores a completed turn.
func (s *TurnStore) Save(ctx context.Context, turn domain.ConversationTurn) error {
	var metadataJSON sql.NullString
	if turn.Metadata != nil {
		data, err := json.Marshal(turn.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (id, question, answer, asked_at, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			asked_at = excluded.asked_at,
			metadata = excluded.metadata
	`, turn.ID, turn.Question, turn.Answer, turn.AskedAt.UTC(), metadataJSON)

	if err != nil {
		return fmt.Errorf("saving turn: %w", err)
	}
	return nil
}

// Recent returns up to n turns in chronological order.
func (s *TurnStore) Recent(ctx context.Context, n int) ([]domain.ConversationTurn, error) {
	if n <= 0 {
		return []domain.ConversationTurn{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, asked_at, metadata
		FROM turns ORDER BY asked_at DESC, rowid DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var turn domain.ConversationTurn
		var metadataJSON sql.NullString

		if err := rows.Scan(&turn.ID, &turn.Question, &turn.Answer, &turn.AskedAt, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}

		if metadataJSON.Valid {
			if err := json.Unmarshal([]byte(metadataJSON.String), &turn.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling metadata: %w", err)
			}
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	// Query is newest-first; reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// migrate runs all pending migrations.
func (s *TurnStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
