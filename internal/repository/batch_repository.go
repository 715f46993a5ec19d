package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"velocity/internal/model"
)

var batchSchemas = map[string]string{
	DialectSQLite: `
		CREATE TABLE IF NOT EXISTS insight_batch (
			id            TEXT    PRIMARY KEY,
			ticker        TEXT    NOT NULL,
			created_at    INTEGER NOT NULL,
			insight_count INTEGER NOT NULL,
			payload       BLOB    NOT NULL
		)`,
	DialectPostgres: `
		CREATE TABLE IF NOT EXISTS insight_batch (
			id            UUID    PRIMARY KEY,
			ticker        TEXT    NOT NULL,
			created_at    BIGINT  NOT NULL,
			insight_count INTEGER NOT NULL,
			payload       BYTEA   NOT NULL
		)`,
}

// BatchRepository keeps every gathered batch so past runs stay readable
// after their cache entry expires.
type BatchRepository struct {
	db *sql.DB
}

func NewBatchRepository(ctx context.Context, db *sql.DB, dialect string) (*BatchRepository, error) {
	schema, ok := batchSchemas[dialect]
	if !ok {
		return nil, fmt.Errorf("unknown batch dialect %q", dialect)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create insight_batch: %w", err)
	}

	return &BatchRepository{db: db}, nil
}

func (r *BatchRepository) SaveBatch(ctx context.Context, batch *model.Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO insight_batch(id, ticker, created_at, insight_count, payload)
		VALUES($1, $2, $3, $4, $5)
	`, batch.ID.String(), batch.Ticker, batch.CreatedAt.UnixMilli(), batch.Count(), payload)
	return err
}

func (r *BatchRepository) GetBatches(ctx context.Context, ticker string, limit, offset int) ([]model.Batch, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload
		FROM insight_batch
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ticker, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var b model.Batch
		if err := json.Unmarshal(payload, &b); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *BatchRepository) GetBatchTotal(ctx context.Context, ticker string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insight_batch WHERE ticker = $1`, ticker).Scan(&total)
	return total, err
}
