package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"signal_bot/pkg/logger"
)

const (
	defaultMaxConns    = 4
	defaultPingTimeout = 5 * time.Second
)

// PgTxManager owns the pool and runs short read-committed transactions on it.
type PgTxManager struct {
	pool *pgxpool.Pool
}

func NewPgTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{pool: pool}
}

// Open parses the DSN, connects and pings. The pool is closed again if the
// ping fails.
func Open(ctx context.Context, dsn string) (*PgTxManager, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse dsn")
	}
	if pcfg.MaxConns > defaultMaxConns {
		pcfg.MaxConns = defaultMaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping")
	}
	return NewPgTxManager(pool), nil
}

func (m *PgTxManager) Close() {
	m.pool.Close()
}

// Conn is for single statements that need no transaction.
func (m *PgTxManager) Conn() Transaction {
	return m.pool
}

// InTx commits when fn returns nil and rolls back otherwise. A panic in fn
// rolls back and is re-raised.
func (m *PgTxManager) InTx(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("[DB] tx panic: %v", p)
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = errors.Wrap(cerr, "commit tx")
		}
	}()

	return fn(ctx, tx)
}
