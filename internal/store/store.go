// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/minutetype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width UTC so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Store wraps SQLite access for test results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			word_source TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			cpm INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			incorrect_words INTEGER NOT NULL,
			typed_chars INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			tier TEXT NOT NULL,
			tier_icon TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_mistakes (
			result_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			typed TEXT NOT NULL,
			PRIMARY KEY (result_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_mistakes_word ON result_mistakes(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a finished test and its mistyped words. An empty ID is
// replaced with a new UUID; the stored ID is returned.
func (s *Store) InsertResult(ctx context.Context, r model.Result, mistakes []model.Mistake) (id string, err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO results (id, started_at, ended_at, lang, word_source, wpm, cpm, correct_words, incorrect_words, typed_chars, accuracy, tier, tier_icon)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		formatTime(r.StartedAt),
		formatTime(r.EndedAt),
		r.Lang,
		r.WordSource,
		r.WPM,
		r.CPM,
		r.CorrectWords,
		r.IncorrectWords,
		r.TypedChars,
		r.Accuracy,
		r.Tier,
		r.TierIcon,
	)
	if err != nil {
		return "", err
	}

	if len(mistakes) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_mistakes (result_id, position, word, typed) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, m := range mistakes {
			if _, err = stmt.ExecContext(ctx, r.ID, m.Position, m.Word, m.Typed); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return r.ID, nil
}

// ListResults returns results matching the filter, oldest first.
func (s *Store) ListResults(ctx context.Context, f model.HistoryFilter) ([]model.Result, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, f.Lang)
	}
	if f.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*f.Since))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, lang, word_source, wpm, cpm, correct_words, incorrect_words, typed_chars, accuracy, tier, tier_icon
		FROM results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.Result
	for rows.Next() {
		var r model.Result
		var startedAt, endedAt string
		if err := rows.Scan(&r.ID, &startedAt, &endedAt, &r.Lang, &r.WordSource, &r.WPM, &r.CPM,
			&r.CorrectWords, &r.IncorrectWords, &r.TypedChars, &r.Accuracy, &r.Tier, &r.TierIcon); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if r.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestWPM returns the highest stored WPM for a language ("" for all), or 0 when none exist.
func (s *Store) BestWPM(ctx context.Context, lang string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(wpm) FROM results WHERE (? = '' OR lang = ?)`, lang, lang).Scan(&best)
	if err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// ListMissedWords aggregates mistyped words across results, most missed first.
func (s *Store) ListMissedWords(ctx context.Context, resultIDs []string, limit int) ([]model.WordAggregate, error) {
	if len(resultIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, 0, len(resultIDs)+1)
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT word, COUNT(*) AS misses
		FROM result_mistakes
		WHERE result_id IN (%s)
		GROUP BY word
		ORDER BY misses DESC, word ASC
		LIMIT ?`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Misses); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
