package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"velocity/internal/model"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

var cacheSchemas = map[string]string{
	DialectSQLite: `
		CREATE TABLE IF NOT EXISTS cache_entry (
			namespace  TEXT    NOT NULL,
			cache_key  TEXT    NOT NULL,
			payload    BLOB    NOT NULL,
			written_at INTEGER NOT NULL,
			PRIMARY KEY (namespace, cache_key)
		)`,
	DialectPostgres: `
		CREATE TABLE IF NOT EXISTS cache_entry (
			namespace  TEXT   NOT NULL,
			cache_key  TEXT   NOT NULL,
			payload    BYTEA  NOT NULL,
			written_at BIGINT NOT NULL,
			PRIMARY KEY (namespace, cache_key)
		)`,
}

// CacheRepository stores cache entries in a SQL table. The same queries run
// on SQLite and Postgres; only the schema differs.
type CacheRepository struct {
	db *sql.DB
}

func NewCacheRepository(ctx context.Context, db *sql.DB, dialect string) (*CacheRepository, error) {
	schema, ok := cacheSchemas[dialect]
	if !ok {
		return nil, fmt.Errorf("unknown cache dialect %q", dialect)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create cache_entry: %w", err)
	}

	return &CacheRepository{db: db}, nil
}

func (r *CacheRepository) GetEntry(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	var payload []byte
	var writtenAt int64

	err := r.db.QueryRowContext(ctx, `
		SELECT payload, written_at
		FROM cache_entry
		WHERE namespace = $1 AND cache_key = $2
	`, namespace, key).Scan(&payload, &writtenAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &model.CacheEntry{
		Payload:   payload,
		WrittenAt: time.UnixMilli(writtenAt),
	}, nil
}

func (r *CacheRepository) PutEntry(ctx context.Context, namespace, key string, entry model.CacheEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cache_entry(namespace, cache_key, payload, written_at)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (namespace, cache_key)
		DO UPDATE SET payload = excluded.payload, written_at = excluded.written_at
	`, namespace, key, entry.Payload, entry.WrittenAt.UnixMilli())
	return err
}

func (r *CacheRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
