package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every record in a single table:
//
//	CREATE TABLE IF NOT EXISTS records (
//	    collection TEXT NOT NULL,
//	    id         TEXT NOT NULL,
//	    data       JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (collection, id)
//	);
type Postgres struct {
	pool *pgxpool.Pool

	cbMu      sync.Mutex
	callbacks map[int]ChangeFunc
	nextCB    int
}

func NewPostgres(dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	p := &Postgres{
		pool:      pool,
		callbacks: make(map[int]ChangeFunc),
	}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	fmt.Println("[DB] Postgres record store ready")
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) ([]byte, bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select %s/%s: %w", collection, id, err)
	}
	return data, true, nil
}

func (p *Postgres) Set(ctx context.Context, collection, id string, data []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO records (collection, id, data, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (collection, id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		collection, id, data,
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	p.notify(collection, id, data)
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM records WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	p.notify(collection, id, nil)
	return nil
}

func (p *Postgres) Keys(ctx context.Context, collection string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id FROM records WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", collection, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		keys = append(keys, id)
	}
	return keys, rows.Err()
}

func (p *Postgres) OnChange(fn ChangeFunc) func() {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()

	id := p.nextCB
	p.nextCB++
	p.callbacks[id] = fn
	return func() {
		p.cbMu.Lock()
		defer p.cbMu.Unlock()
		delete(p.callbacks, id)
	}
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) notify(collection, id string, data []byte) {
	p.cbMu.Lock()
	fns := make([]ChangeFunc, 0, len(p.callbacks))
	for _, fn := range p.callbacks {
		fns = append(fns, fn)
	}
	p.cbMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Printf("[STORE] onChange callback panic: %v\n", r)
				}
			}()
			fn(collection, id, data)
		}()
	}
}
