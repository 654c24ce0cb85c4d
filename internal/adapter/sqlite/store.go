// Package sqlite keeps a local log of predictions in a SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/couchcryptid/raincast/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT    NOT NULL,
	date         TEXT    NOT NULL,
	rain         INTEGER NOT NULL,
	probability  REAL    NOT NULL,
	bucket       TEXT    NOT NULL,
	analogues    INTEGER NOT NULL,
	predicted_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(date);
`

// Store persists prediction results. It implements pipeline.BatchLoader.
type Store struct {
	db *sqlx.DB
}

type predictionRow struct {
	ID          int64   `db:"id"`
	RunID       string  `db:"run_id"`
	Date        string  `db:"date"`
	Rain        bool    `db:"rain"`
	Probability float64 `db:"probability"`
	Bucket      string  `db:"bucket"`
	Analogues   int     `db:"analogues"`
	PredictedAt string  `db:"predicted_at"`
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// LoadBatch appends results in a single transaction.
func (s *Store) LoadBatch(ctx context.Context, results []domain.PredictionResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const insert = `INSERT INTO predictions (run_id, date, rain, probability, bucket, analogues, predicted_at)
		VALUES (:run_id, :date, :rain, :probability, :bucket, :analogues, :predicted_at)`
	for _, r := range results {
		if _, err := tx.NamedExecContext(ctx, insert, toRow(r)); err != nil {
			return fmt.Errorf("insert prediction %s: %w", r.Date.Format(time.DateOnly), err)
		}
	}
	return tx.Commit()
}

// List returns up to limit of the most recent predictions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.PredictionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []predictionRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, run_id, date, rain, probability, bucket, analogues, predicted_at
		 FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]domain.PredictionResult, 0, len(rows))
	for _, row := range rows {
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func toRow(r domain.PredictionResult) predictionRow {
	return predictionRow{
		RunID:       r.RunID,
		Date:        r.Date.Format(time.DateOnly),
		Rain:        r.Rain,
		Probability: r.Probability,
		Bucket:      string(r.Bucket),
		Analogues:   r.Analogues,
		PredictedAt: r.PredictedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromRow(row predictionRow) (domain.PredictionResult, error) {
	date, err := time.Parse(time.DateOnly, row.Date)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("prediction %d: bad date: %w", row.ID, err)
	}
	at, err := time.Parse(time.RFC3339Nano, row.PredictedAt)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("prediction %d: bad timestamp: %w", row.ID, err)
	}
	return domain.PredictionResult{
		Date:        date,
		Rain:        row.Rain,
		Probability: row.Probability,
		Bucket:      domain.Bucket(row.Bucket),
		Analogues:   row.Analogues,
		RunID:       row.RunID,
		PredictedAt: at,
	}, nil
}
