// Package journal persists the lifecycle notifications the daemon relays,
// so hosts can inspect what the wallet did while they were away. The
// connector itself stays stateless; only the daemon writes here.
package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Event kinds.
const (
	KindUpdate     = "update"
	KindDeactivate = "deactivate"
)

// Event is one recorded lifecycle notification.
type Event struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Account   string `json:"account,omitempty"`
	ChainID   string `json:"chainId,omitempty"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Store wraps the sql.DB connection with journal-specific methods.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens a SQLite journal at the given path with WAL mode and busy timeout.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %q: %w", dir, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %q: %w", path, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the journal connection.
func (s *Store) Close() error {
	slog.Info("closing journal", "path", s.path)
	return s.conn.Close()
}

// RunMigrations applies all pending SQL migration files from the embedded filesystem.
func (s *Store) RunMigrations() error {
	if _, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d", &version); err != nil {
			slog.Warn("skipping migration with unparseable version", "file", entry.Name())
			continue
		}

		var count int
		if err := s.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("failed to check migration status for version %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		slog.Info("applying journal migration", "version", version, "file", entry.Name())

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}

// RecordUpdate stores an update notification. Empty fields are stored empty;
// the notification shape allows partial payloads.
func (s *Store) RecordUpdate(account, chainID string) error {
	_, err := s.conn.Exec(
		"INSERT INTO session_events (kind, account, chain_id) VALUES (?, ?, ?)",
		KindUpdate, account, chainID,
	)
	if err != nil {
		return fmt.Errorf("failed to record update event: %w", err)
	}
	return nil
}

// RecordDeactivate stores a deactivation notification.
func (s *Store) RecordDeactivate(reason string) error {
	_, err := s.conn.Exec(
		"INSERT INTO session_events (kind, reason) VALUES (?, ?)",
		KindDeactivate, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record deactivate event: %w", err)
	}
	return nil
}

// ListEvents returns a page of events, newest first, plus the total count.
// page is 1-based.
func (s *Store) ListEvents(page, pageSize int) ([]Event, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM session_events").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	rows, err := s.conn.Query(`
		SELECT id, kind, account, chain_id, reason, created_at
		FROM session_events
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Account, &ev.ChainID, &ev.Reason, &ev.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate event rows: %w", err)
	}

	return events, total, nil
}
