package context

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned by Get for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    agent_source TEXT NOT NULL,
    project_path TEXT NOT NULL,
    title TEXT NOT NULL,
    summary TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    key_decisions TEXT NOT NULL DEFAULT '[]',
    files_modified TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_path);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);

CREATE VIRTUAL TABLE IF NOT EXISTS sessions_fts USING fts5(
    id UNINDEXED,
    title,
    summary,
    content=sessions,
    content_rowid=rowid
);

CREATE TRIGGER IF NOT EXISTS sessions_ai AFTER INSERT ON sessions BEGIN
    INSERT INTO sessions_fts(rowid, id, title, summary)
    VALUES (new.rowid, new.id, new.title, new.summary);
END;

CREATE TRIGGER IF NOT EXISTS sessions_ad AFTER DELETE ON sessions BEGIN
    INSERT INTO sessions_fts(sessions_fts, rowid, id, title, summary)
    VALUES ('delete', old.rowid, old.id, old.title, old.summary);
END;

CREATE TRIGGER IF NOT EXISTS sessions_au AFTER UPDATE ON sessions BEGIN
    INSERT INTO sessions_fts(sessions_fts, rowid, id, title, summary)
    VALUES ('delete', old.rowid, old.id, old.title, old.summary);
    INSERT INTO sessions_fts(rowid, id, title, summary)
    VALUES (new.rowid, new.id, new.title, new.summary);
END;
`

// Store is the SQLite-backed session store. Titles and summaries are indexed
// with FTS5; list fields are stored as JSON text columns.
type Store struct {
	dbPath string
	db     *sqlx.DB
}

// Open opens or creates the session database at dbPath, configures WAL mode,
// and applies the schema.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return &Store{dbPath: dbPath, db: db}, nil
}

// configure sets up SQLite pragmas for WAL mode.
func configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=1000",
		"PRAGMA temp_store=memory",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled. Current mode: %s", journalMode)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// sessionRow mirrors the sessions table. List fields are JSON text.
type sessionRow struct {
	ID            string `db:"id"`
	AgentSource   string `db:"agent_source"`
	ProjectPath   string `db:"project_path"`
	Title         string `db:"title"`
	Summary       string `db:"summary"`
	Tags          string `db:"tags"`
	KeyDecisions  string `db:"key_decisions"`
	FilesModified string `db:"files_modified"`
	CreatedAt     string `db:"created_at"`
	Metadata      string `db:"metadata"`
}

func toRow(sess *Session) (*sessionRow, error) {
	tags, err := json.Marshal(orEmpty(sess.Tags))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal tags")
	}
	decisions, err := json.Marshal(orEmpty(sess.KeyDecisions))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal key decisions")
	}
	files, err := json.Marshal(orEmpty(sess.FilesModified))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal modified files")
	}
	meta := sess.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metadata, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal metadata")
	}
	return &sessionRow{
		ID:            sess.ID,
		AgentSource:   sess.AgentSource,
		ProjectPath:   sess.ProjectPath,
		Title:         sess.Title,
		Summary:       sess.Summary,
		Tags:          string(tags),
		KeyDecisions:  string(decisions),
		FilesModified: string(files),
		CreatedAt:     sess.CreatedAt.UTC().Format(time.RFC3339Nano),
		Metadata:      string(metadata),
	}, nil
}

func (r *sessionRow) toSession() (*Session, error) {
	sess := &Session{
		ID:          r.ID,
		AgentSource: r.AgentSource,
		ProjectPath: r.ProjectPath,
		Title:       r.Title,
		Summary:     r.Summary,
	}
	if err := json.Unmarshal([]byte(r.Tags), &sess.Tags); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal tags")
	}
	if err := json.Unmarshal([]byte(r.KeyDecisions), &sess.KeyDecisions); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal key decisions")
	}
	if err := json.Unmarshal([]byte(r.FilesModified), &sess.FilesModified); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal modified files")
	}
	if err := json.Unmarshal([]byte(r.Metadata), &sess.Metadata); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal metadata")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse created_at")
	}
	sess.CreatedAt = createdAt
	return sess, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Write upserts a session.
func (s *Store) Write(ctx context.Context, sess *Session) error {
	row, err := toRow(sess)
	if err != nil {
		return err
	}
	// ON CONFLICT DO UPDATE (not INSERT OR REPLACE) so the FTS update
	// trigger fires and the index never holds stale rows.
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO sessions
		(id, agent_source, project_path, title, summary, tags, key_decisions, files_modified, created_at, metadata)
		VALUES (:id, :agent_source, :project_path, :title, :summary, :tags, :key_decisions, :files_modified, :created_at, :metadata)
		ON CONFLICT(id) DO UPDATE SET
			agent_source = excluded.agent_source,
			project_path = excluded.project_path,
			title = excluded.title,
			summary = excluded.summary,
			tags = excluded.tags,
			key_decisions = excluded.key_decisions,
			files_modified = excluded.files_modified,
			created_at = excluded.created_at,
			metadata = excluded.metadata`,
		row)
	return errors.Wrap(err, "failed to write session")
}

// Get returns the session with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrSessionNotFound, "id %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get session")
	}
	return row.toSession()
}

// List returns the most recent sessions, optionally filtered by project path.
func (s *Store) List(ctx context.Context, projectPath string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []sessionRow
	var err error
	if projectPath != "" {
		err = s.db.SelectContext(ctx, &rows,
			"SELECT * FROM sessions WHERE project_path = ? ORDER BY created_at DESC LIMIT ?",
			projectPath, limit)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			"SELECT * FROM sessions ORDER BY created_at DESC LIMIT ?", limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	return toSessions(rows)
}

// Query runs a full-text search across session titles and summaries, with
// optional project and agent filters.
func (s *Store) Query(ctx context.Context, query, projectPath, agentSource string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 10
	}
	sqlStr := `
		SELECT s.* FROM sessions s
		JOIN sessions_fts fts ON s.id = fts.id
		WHERE sessions_fts MATCH ?`
	args := []any{query}
	if projectPath != "" {
		sqlStr += " AND s.project_path = ?"
		args = append(args, projectPath)
	}
	if agentSource != "" {
		sqlStr += " AND s.agent_source = ?"
		args = append(args, agentSource)
	}
	sqlStr += " ORDER BY s.created_at DESC LIMIT ?"
	args = append(args, limit)

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, errors.Wrap(err, "failed to query sessions")
	}
	return toSessions(rows)
}

// Delete removes a session. Returns true when a row was deleted.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete session")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

func toSessions(rows []sessionRow) ([]*Session, error) {
	sessions := make([]*Session, 0, len(rows))
	for i := range rows {
		sess, err := rows[i].toSession()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
