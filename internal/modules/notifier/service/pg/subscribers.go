package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal_bot/pkg/db"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS signal_subscribers (
	chat_id    BIGINT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	insertSubscriber = `INSERT INTO signal_subscribers (chat_id) VALUES ($1) ON CONFLICT (chat_id) DO NOTHING`
	deleteSubscriber = `DELETE FROM signal_subscribers WHERE chat_id = $1`
	selectSubscriber = `SELECT chat_id FROM signal_subscribers ORDER BY chat_id`
)

// Subscribers stores chat ids in the signal_subscribers table.
type Subscribers struct {
	db db.TxManager
}

func NewSubscribers(db db.TxManager) *Subscribers {
	return &Subscribers{db: db}
}

// Migrate creates the table when missing.
func (s *Subscribers) Migrate(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Subscribers.Migrate: %w", err)
		}
	}()
	_, err = s.db.Conn().Exec(ctx, createTable)
	return err
}

func (s *Subscribers) Load(ctx context.Context) (ids []int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Subscribers.Load: %w", err)
		}
	}()

	rows, err := s.db.Conn().Query(ctx, selectSubscriber)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (s *Subscribers) Add(ctx context.Context, id int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Subscribers.Add: %w", err)
		}
	}()
	return s.db.InTx(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertSubscriber, id)
		return err
	})
}

func (s *Subscribers) Remove(ctx context.Context, id int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Subscribers.Remove: %w", err)
		}
	}()
	return s.db.InTx(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, deleteSubscriber, id)
		return err
	})
}
