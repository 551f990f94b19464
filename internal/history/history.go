// Package history keeps a SQLite log of finished evaluations so repeated
// checks of the same title can be compared over time.
package history

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

	"github.com/brandnamegen/brandcheck/internal/history/migrations"
	"github.com/brandnamegen/brandcheck/internal/models"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned by Get for an unknown report ID.
	ErrNotFound = errors.New("report not found")
	// ErrAlreadyExists is returned by Record when the report ID is taken.
	ErrAlreadyExists = errors.New("report already recorded")
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Entry is the summary row of one recorded evaluation.
type Entry struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Score       int          `json:"overall_score"`
	Grade       models.Grade `json:"grade"`
	Matcher     string       `json:"matcher"`
	Locales     []string     `json:"locales"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
	DurationMs  int64        `json:"duration_ms"`
}

// ListOptions filters List. A zero value lists the most recent entries.
type ListOptions struct {
	Title string
	Limit int
}

// Store persists evaluation history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the history database at path and applies
// the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts one finished report.
func (s *Store) Record(ctx context.Context, report *models.UniquenessReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("history is not configured")
	}
	if report == nil || strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("report id is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	locales, err := json.Marshal(localeLabels(report.Locales))
	if err != nil {
		return fmt.Errorf("marshaling locales: %w", err)
	}
	evaluatedAt := report.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO reports (
		   id,
		   title,
		   overall_score,
		   grade,
		   matcher,
		   locales,
		   evaluated_at,
		   duration_ms,
		   report_json
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Title,
		report.OverallScore,
		string(report.Grade),
		report.Matcher,
		string(locales),
		toMillis(evaluatedAt),
		report.DurationMs,
		payload,
	)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("record report: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("history is not configured")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, title, overall_score, grade, matcher, locales, evaluated_at, duration_ms
		 FROM reports`
	args := []any{}
	if title := strings.TrimSpace(opts.Title); title != "" {
		query += ` WHERE title = ? COLLATE NOCASE`
		args = append(args, title)
	}
	query += ` ORDER BY evaluated_at DESC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			grade       string
			locales     string
			evaluatedAt int64
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Score, &grade, &e.Matcher, &locales, &evaluatedAt, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if err := json.Unmarshal([]byte(locales), &e.Locales); err != nil {
			return nil, fmt.Errorf("decode locales for %s: %w", e.ID, err)
		}
		e.Grade = models.Grade(grade)
		e.EvaluatedAt = fromMillis(evaluatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return entries, nil
}

// Get returns the full report recorded under id.
func (s *Store) Get(ctx context.Context, id string) (*models.UniquenessReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("history is not configured")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, strings.TrimSpace(id)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	var report models.UniquenessReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &report, nil
}

func localeLabels(locales []models.LocaleReport) []string {
	out := make([]string, 0, len(locales))
	for _, l := range locales {
		out = append(out, l.Locale.Label())
	}
	return out
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
