package kv

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/daybook/internal/infra/metrics"
)

type Postgres struct{ pool *pgxpool.Pool }

// ConnectPostgres opens a pool and pings it. The kv_store table itself is
// created by the goose migrations run from main.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	metrics.KVOps.WithLabelValues("get", "postgres").Inc()
	var v string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	metrics.KVOps.WithLabelValues("set", "postgres").Inc()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_store (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	metrics.KVOps.WithLabelValues("remove", "postgres").Inc()
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE key=$1`, key)
	return err
}

func (p *Postgres) Clear(ctx context.Context) error {
	metrics.KVOps.WithLabelValues("clear", "postgres").Inc()
	_, err := p.pool.Exec(ctx, `DELETE FROM kv_store`)
	return err
}

func (p *Postgres) Close() { p.pool.Close() }
