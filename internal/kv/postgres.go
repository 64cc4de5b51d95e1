package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps each slot as a single row, preserving the
// whole-document-per-key model while sharing a server-side database.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the slot table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS kv_slots (
			key     TEXT PRIMARY KEY,
			data    JSONB NOT NULL,
			version BIGINT NOT NULL
		)`)
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var data []byte
	var version int64
	err := p.pool.QueryRow(ctx,
		`SELECT data, version FROM kv_slots WHERE key = $1`, key,
	).Scan(&data, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, &ReadError{Key: key, Err: err}
	}
	return data, version, nil
}

func (p *Postgres) Put(ctx context.Context, key string, data []byte, version int64) error {
	if version == 0 {
		tag, err := p.pool.Exec(ctx,
			`INSERT INTO kv_slots (key, data, version) VALUES ($1, $2, 1)
			 ON CONFLICT (key) DO NOTHING`, key, data)
		if err != nil {
			return &WriteError{Key: key, Err: err}
		}
		if tag.RowsAffected() == 0 {
			// lost to a concurrent first write
			return ErrVersionMismatch
		}
		return nil
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE kv_slots SET data = $2, version = version + 1
		 WHERE key = $1 AND version = $3`, key, data, version)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionMismatch
	}
	return nil
}
