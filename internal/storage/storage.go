// Package storage persists the task collection as one JSON blob in a SQLite
// key-value slot and serialises every read-modify-write over it.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"duely/internal/task"
)

const (
	// TasksKey is the slot holding the task collection.
	TasksKey = "tasks"
	// CorruptKey keeps the last blob that failed to load, for manual recovery.
	CorruptKey = TasksKey + ".corrupt"
)

// DB is the storage adapter. Every call reads or overwrites the whole
// collection; there is no partial update.
type DB struct {
	db     *sql.DB
	key    string
	logger *log.Logger
}

// Open opens (creating if needed) the SQLite file at dbPath.
func Open(dbPath string, logger *log.Logger) (*DB, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &DB{db: db, key: TasksKey, logger: logger}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return s, nil
}

func (s *DB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *DB) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load returns the persisted collection. A missing slot yields an empty
// collection. So does a blob that cannot be decoded: it is copied to
// [CorruptKey], logged and treated as empty rather than failing the caller.
func (s *DB) Load(ctx context.Context) ([]task.Task, error) {
	raw, ok, err := s.Raw(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []task.Task{}, nil
	}
	tasks, err := decodeTasks(raw)
	if err != nil {
		s.logger.Warn("discarding unreadable task blob", "key", s.key, "saved_as", CorruptKey, "err", err)
		if perr := s.put(ctx, CorruptKey, raw); perr != nil {
			return nil, perr
		}
		return []task.Task{}, nil
	}
	return tasks, nil
}

// Save overwrites the persisted collection in a single statement.
func (s *DB) Save(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return s.PutRaw(ctx, data)
}

// Raw returns the stored blob untouched. ok is false when the slot is empty.
func (s *DB) Raw(ctx context.Context) (blob []byte, ok bool, err error) {
	return s.get(ctx, s.key)
}

func (s *DB) PutRaw(ctx context.Context, blob []byte) error {
	return s.put(ctx, s.key, blob)
}

// Corrupt returns the blob last set aside by [DB.Load].
func (s *DB) Corrupt(ctx context.Context) (blob []byte, ok bool, err error) {
	return s.get(ctx, CorruptKey)
}

func (s *DB) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *DB) put(ctx context.Context, key string, blob []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
		key, string(blob), now)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
