// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps finished articles in a local SQLite database so they
// can be listed, reopened and exported after the session that produced them
// is gone.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/melchior/pkg/types"
)

const (
	dbFile = "articles.db"

	// timeLayout is fixed width so created_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("article not found")

// Entry is one archived article.
type Entry struct {
	ID         string                `json:"id" yaml:"id"`
	SessionID  string                `json:"session_id" yaml:"session_id"`
	TopicTitle string                `json:"topic_title" yaml:"topic_title"`
	Title      string                `json:"title" yaml:"title"`
	Keywords   []string              `json:"keywords" yaml:"keywords"`
	Words      int                   `json:"words" yaml:"words"`
	Sections   []types.SectionReport `json:"sections,omitempty" yaml:"sections,omitempty"`
	HTML       string                `json:"html,omitempty" yaml:"html,omitempty"`
	CreatedAt  time.Time             `json:"created_at" yaml:"created_at"`
}

// NewEntry builds an entry for an article produced in a session.
func NewEntry(sessionID, topicTitle string, keywords []string, a *types.Article) Entry {
	return Entry{
		SessionID:  sessionID,
		TopicTitle: topicTitle,
		Title:      a.Title,
		Keywords:   keywords,
		Words:      a.TotalWords,
		Sections:   a.Sections,
		HTML:       a.HTML,
	}
}

// Store manages the archive database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates dir/articles.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT,
			topic_title TEXT,
			title TEXT NOT NULL,
			keywords TEXT,
			words INTEGER,
			sections TEXT,
			html TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_session ON articles(session_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores e and returns its id. An empty id is assigned a new UUID and
// a zero CreatedAt is set to the current time.
func (s *Store) Save(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	keywordsJSON, err := json.Marshal(e.Keywords)
	if err != nil {
		return "", fmt.Errorf("encoding keywords: %w", err)
	}
	sectionsJSON, err := json.Marshal(e.Sections)
	if err != nil {
		return "", fmt.Errorf("encoding sections: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (id, session_id, topic_title, title, keywords, words, sections, html, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			session_id=excluded.session_id, topic_title=excluded.topic_title,
			title=excluded.title, keywords=excluded.keywords, words=excluded.words,
			sections=excluded.sections, html=excluded.html`,
		e.ID, e.SessionID, e.TopicTitle, e.Title, string(keywordsJSON), e.Words,
		string(sectionsJSON), e.HTML, e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("saving article %s: %w", e.ID, err)
	}
	return e.ID, nil
}

// likeEscaper makes LIKE wildcards in a search query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const listColumns = `id, session_id, topic_title, title, keywords, words, sections, created_at`

// List returns up to limit entries, newest first, without their HTML.
// A non-positive limit returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, "", limit)
}

// Search returns entries whose title, topic or keywords contain query,
// newest first, without their HTML.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}
	return s.query(ctx, query, limit)
}

func (s *Store) query(ctx context.Context, match string, limit int) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + listColumns + ` FROM articles WHERE 1=1`)
	if match != "" {
		like := "%" + likeEscaper.Replace(match) + "%"
		qb.WriteString(` AND (title LIKE ? ESCAPE '\' OR topic_title LIKE ? ESCAPE '\' OR keywords LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	qb.WriteString(` ORDER BY created_at DESC, rowid DESC`)
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Get returns the entry with id, including its HTML.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+`, html FROM articles WHERE id = ?`, id)
	e, err := scanEntry(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Delete removes the entry with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting article %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner, withHTML bool) (*Entry, error) {
	var (
		e            Entry
		sessionID    sql.NullString
		topicTitle   sql.NullString
		keywordsJSON sql.NullString
		sectionsJSON sql.NullString
		words        sql.NullInt64
		created      string
	)
	dest := []any{&e.ID, &sessionID, &topicTitle, &e.Title, &keywordsJSON, &words, &sectionsJSON, &created}
	if withHTML {
		dest = append(dest, &e.HTML)
	}
	if err := sc.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning article: %w", err)
	}

	e.SessionID = sessionID.String
	e.TopicTitle = topicTitle.String
	e.Words = int(words.Int64)
	if keywordsJSON.Valid {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &e.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of %s: %w", e.ID, err)
		}
	}
	if sectionsJSON.Valid {
		if err := json.Unmarshal([]byte(sectionsJSON.String), &e.Sections); err != nil {
			return nil, fmt.Errorf("decoding sections of %s: %w", e.ID, err)
		}
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	return &e, nil
}
