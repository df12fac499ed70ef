// Package store persists review sessions in a local SQLite database so
// proposals can be applied in a later invocation. Each session records
// one review of one file: what produced it, a hash of the source it
// reviewed, and the full proposal set in order.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/yaklabco/gorevise/pkg/config"
	"github.com/yaklabco/gorevise/pkg/review"
)

// Sentinel errors for session lookups.
var (
	// ErrSessionNotFound is returned when no session matches the id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAmbiguousSession is returned when an id prefix matches more
	// than one session.
	ErrAmbiguousSession = errors.New("ambiguous session id")
)

// minPrefixLen is the shortest id prefix accepted for lookup. Shorter
// prefixes match too much to be useful.
const minPrefixLen = 4

// Session is one persisted review of one file.
type Session struct {
	// ID is the session's UUID.
	ID string `json:"id"`

	// Path is the reviewed file, stored absolute.
	Path string `json:"path"`

	// Language, Provider, and Model record what produced the review.
	Language string `json:"language,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Summary is the model's free-text assessment.
	Summary string `json:"summary,omitempty"`

	// Score is the mechanical quality score at review time.
	Score int `json:"score"`

	// SourceHash is the hex SHA-256 of the content that was reviewed.
	// Apply compares it against the file on disk to detect staleness.
	SourceHash string `json:"sourceHash"`

	// CreatedAt is when the review completed (UTC).
	CreatedAt time.Time `json:"createdAt"`

	// Proposals holds the session's proposals in review order. List
	// leaves it nil and fills ProposalCount instead.
	Proposals []review.Proposal `json:"proposals,omitempty"`

	// ProposalCount is the number of proposals in the session.
	ProposalCount int `json:"proposalCount"`
}

// Store is a SQLite-backed session store. Safe for use from one
// process; WAL mode keeps concurrent readers out of writers' way.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the XDG data directory location for the session
// database ($XDG_DATA_HOME/gorevise/sessions.db).
func DefaultPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "gorevise", "sessions.db"), nil
}

// Open creates or opens the session database at path, creating parent
// directories as needed. An empty path means DefaultPath.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	dsn := "file:" + path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			source_hash TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS proposals (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			proposal_id TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			anchor_text TEXT NOT NULL DEFAULT '',
			replacement_text TEXT NOT NULL DEFAULT '',
			line_start INTEGER NOT NULL DEFAULT 1,
			line_end INTEGER NOT NULL DEFAULT 1,
			severity TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'style',
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_path ON sessions(path);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts a session and its proposals in one transaction. Saving
// an existing id replaces its proposal set entirely.
func (s *Store) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session requires an id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, path, language, provider, model, summary, score, source_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path=excluded.path,
			language=excluded.language,
			provider=excluded.provider,
			model=excluded.model,
			summary=excluded.summary,
			score=excluded.score,
			source_hash=excluded.source_hash,
			created_at=excluded.created_at
	`, session.ID, session.Path, session.Language, session.Provider, session.Model,
		session.Summary, session.Score, session.SourceHash, session.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM proposals WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear proposals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO proposals (session_id, position, proposal_id, description, anchor_text,
			replacement_text, line_start, line_end, severity, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare proposals: %w", err)
	}
	defer stmt.Close()

	for position, p := range session.Proposals {
		_, err := stmt.ExecContext(ctx, session.ID, position, p.ID, p.Description,
			p.AnchorText, p.ReplacementText, p.LineStart, p.LineEnd,
			string(p.Severity), string(p.Category))
		if err != nil {
			return fmt.Errorf("save proposal %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Get loads a session with its proposals. A full UUID matches exactly;
// anything at least four characters long is also tried as an id prefix,
// which fails with ErrAmbiguousSession when it matches more than one.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	session, err := s.getExact(ctx, id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) || len(id) < minPrefixLen {
		return nil, err
	}
	return s.getByPrefix(ctx, id)
}

func (s *Store) getExact(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, language, provider, model, summary, score, source_hash, created_at
		FROM sessions WHERE id = ?
	`, id)
	return s.scanSession(ctx, row)
}

func (s *Store) getByPrefix(ctx context.Context, prefix string) (*Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM sessions WHERE id LIKE ? LIMIT 2`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, prefix)
	case 1:
		return s.getExact(ctx, ids[0])
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousSession, prefix)
	}
}

func (s *Store) scanSession(ctx context.Context, row *sql.Row) (*Session, error) {
	var session Session
	err := row.Scan(&session.ID, &session.Path, &session.Language, &session.Provider,
		&session.Model, &session.Summary, &session.Score, &session.SourceHash, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	proposals, err := s.loadProposals(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.Proposals = proposals
	session.ProposalCount = len(proposals)

	return &session, nil
}

func (s *Store) loadProposals(ctx context.Context, sessionID string) ([]review.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT proposal_id, description, anchor_text, replacement_text,
			line_start, line_end, severity, category
		FROM proposals WHERE session_id = ? ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()

	var proposals []review.Proposal
	for rows.Next() {
		var p review.Proposal
		var severity, category string
		err := rows.Scan(&p.ID, &p.Description, &p.AnchorText, &p.ReplacementText,
			&p.LineStart, &p.LineEnd, &severity, &category)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		p.Severity = config.ParseSeverity(severity)
		p.Category = review.ParseCategory(category)
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return proposals, nil
}

// List returns sessions newest first, with proposal counts but without
// the proposals themselves. A non-positive limit returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unlimited.
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.path, s.language, s.provider, s.model, s.summary,
			s.score, s.source_hash, s.created_at, COUNT(p.session_id)
		FROM sessions s
		LEFT JOIN proposals p ON p.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		err := rows.Scan(&session.ID, &session.Path, &session.Language, &session.Provider,
			&session.Model, &session.Summary, &session.Score, &session.SourceHash,
			&session.CreatedAt, &session.ProposalCount)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LatestForPath returns the newest session recorded for path.
func (s *Store) LatestForPath(ctx context.Context, path string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, language, provider, model, summary, score, source_hash, created_at
		FROM sessions WHERE path = ?
		ORDER BY created_at DESC, id LIMIT 1
	`, path)

	session, err := s.scanSession(ctx, row)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: no sessions for %s", ErrSessionNotFound, path)
	}
	return session, err
}

// Delete removes a session by exact id. Proposals cascade.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Prune deletes all but the keep newest sessions and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY created_at DESC, id LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return int(affected), nil
}

// Count returns the number of stored sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// escapeLike strips LIKE wildcards from an id prefix. UUIDs never
// contain them, so stripping beats declaring an ESCAPE character.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "%", "")
	return strings.ReplaceAll(s, "_", "")
}

// FromReview builds a Session from a completed review and the hash of
// the source it reviewed.
func FromReview(id string, r *review.Review, sourceHash string) *Session {
	absPath := r.Path
	if abs, err := filepath.Abs(r.Path); err == nil {
		absPath = abs
	}
	return &Session{
		ID:            id,
		Path:          absPath,
		Language:      r.Language,
		Provider:      r.Provider,
		Model:         r.Model,
		Summary:       r.Summary,
		Score:         r.Score,
		SourceHash:    sourceHash,
		CreatedAt:     r.CreatedAt,
		Proposals:     r.Proposals,
		ProposalCount: len(r.Proposals),
	}
}
