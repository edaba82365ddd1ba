package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"signal_bot/pkg/db"
)

// MockConn records statements sent through either the pool or a tx.
type MockConn struct {
	mock.Mock
}

func (m *MockConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	a := m.Called(sql, args)
	return pgconn.NewCommandTag(""), a.Error(0)
}

func (m *MockConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not used")
}

func (m *MockConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not used")
}

// fakeTx forwards Exec to the conn mock; the rest of pgx.Tx is unused.
type fakeTx struct {
	pgx.Tx
	conn *MockConn
}

func (t fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

type fakeManager struct {
	conn    *MockConn
	txCalls int
}

func (f *fakeManager) InTx(ctx context.Context, fn func(ctxTx context.Context, tx pgx.Tx) error) error {
	f.txCalls++
	return fn(ctx, fakeTx{conn: f.conn})
}

func (f *fakeManager) Conn() db.Transaction { return f.conn }

func TestSubscribers_AddRunsInTx(t *testing.T) {
	conn := &MockConn{}
	conn.On("Exec", insertSubscriber, []any{int64(42)}).Return(nil).Once()
	m := &fakeManager{conn: conn}

	require.NoError(t, NewSubscribers(m).Add(context.Background(), 42))

	assert.Equal(t, 1, m.txCalls)
	conn.AssertExpectations(t)
}

func TestSubscribers_RemoveWrapsError(t *testing.T) {
	conn := &MockConn{}
	boom := errors.New("boom")
	conn.On("Exec", deleteSubscriber, []any{int64(7)}).Return(boom).Once()

	err := NewSubscribers(&fakeManager{conn: conn}).Remove(context.Background(), 7)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pg.Subscribers.Remove")
}

func TestSubscribers_MigrateUsesConn(t *testing.T) {
	conn := &MockConn{}
	conn.On("Exec", createTable, []any(nil)).Return(nil).Once()
	m := &fakeManager{conn: conn}

	require.NoError(t, NewSubscribers(m).Migrate(context.Background()))

	assert.Zero(t, m.txCalls)
	conn.AssertExpectations(t)
}
