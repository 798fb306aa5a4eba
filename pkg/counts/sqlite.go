package counts

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// DefaultQuery selects (term, count) pairs for one dataset.
const DefaultQuery = "SELECT term, count FROM counts WHERE dataset = ?"

// SQLiteSource reads counts from a SQLite database.
type SQLiteSource struct {
	db    *sql.DB
	query string
}

// OpenSQLite opens the database at path read-only. An empty query uses
// [DefaultQuery]; a custom query must take the dataset as its only
// parameter and return two columns.
func OpenSQLite(path, query string) (*SQLiteSource, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	return NewSQLiteSource(db, query), nil
}

// NewSQLiteSource wraps an open database.
func NewSQLiteSource(db *sql.DB, query string) *SQLiteSource {
	if query == "" {
		query = DefaultQuery
	}
	return &SQLiteSource{db: db, query: query}
}

// Counts runs the query for dataset. A term listed twice has its counts
// summed.
func (s *SQLiteSource) Counts(ctx context.Context, dataset string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, s.query, dataset)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			term  string
			count float64
		)
		if err := rows.Scan(&term, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[term] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "dataset %q has no counts", dataset)
	}
	return out, nil
}

// Datasets lists the distinct datasets of the default counts table.
func (s *SQLiteSource) Datasets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT dataset FROM counts ORDER BY dataset")
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var _ Source = (*SQLiteSource)(nil)
