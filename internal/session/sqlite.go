package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/resumatch/internal/flow"
)

// MemoryDSN keeps the database in process memory.
const MemoryDSN = ":memory:"

// SQLiteStore implements Store on SQLite. Session bodies are stored as JSON;
// API keys stay in an in-process map and never reach SQL.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	creds map[string]string
}

// NewSQLiteStore opens dsn (a file path or ":memory:") and initializes the schema.
// Sessions idle longer than ttl are evicted; ttl <= 0 disables eviction.
func NewSQLiteStore(dsn string, ttl time.Duration) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	memory := dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
	if !memory {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if memory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return newSQLiteStore(db, ttl), nil
}

func newSQLiteStore(db *sql.DB, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{db: db, ttl: ttl, now: time.Now, creds: make(map[string]string)}
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
	`)
	return err
}

// Create inserts a new Idle session and evicts expired ones.
func (s *SQLiteStore) Create(ctx context.Context) (*Session, error) {
	if _, err := s.EvictExpired(ctx); err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session{ID: uuid.NewString(), State: flow.Idle, CreatedAt: now, UpdatedAt: now}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.State.String(), string(data), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get loads a session. Expired sessions are deleted and reported as ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var data string
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&data, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s.expired(time.Unix(0, updated)) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	s.mu.RLock()
	sess.APIKey = s.creds[id]
	s.mu.RUnlock()
	return &sess, nil
}

// Save writes the session and records its API key in memory.
func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET state = ?, data = ?, updated_at = ? WHERE id = ?`,
		sess.State.String(), string(data), sess.UpdatedAt.UnixNano(), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	s.mu.Lock()
	if sess.APIKey == "" {
		delete(s.creds, sess.ID)
	} else {
		s.creds[sess.ID] = sess.APIKey
	}
	s.mu.Unlock()
	return nil
}

// Delete removes a session and its credential.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.mu.Lock()
	delete(s.creds, id)
	s.mu.Unlock()
	return nil
}

// EvictExpired deletes sessions idle longer than the TTL and returns how many were removed.
func (s *SQLiteStore) EvictExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).UnixNano()
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to evict sessions: %w", err)
	}
	s.mu.Lock()
	for _, id := range ids {
		delete(s.creds, id)
	}
	s.mu.Unlock()
	return res.RowsAffected()
}

func (s *SQLiteStore) expired(updated time.Time) bool {
	return s.ttl > 0 && s.now().Sub(updated) > s.ttl
}

// Count returns the number of stored sessions.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
