package notifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/notifier/service"
	"signal_bot/pkg/db"
)

type nopTransport struct{}

func (nopTransport) Deliver(ctx context.Context, recipient int64, text string) error { return nil }

func newTestApp(t *testing.T, cfg *config.Config, subs **service.Subscribers) *fx.App {
	t.Helper()
	return fx.New(
		fx.NopLogger,
		fx.Provide(
			func() *config.Config { return cfg },
			func() *db.PgTxManager { return nil },
			func() service.Transport { return nopTransport{} },
		),
		Module(),
		fx.Populate(subs),
	)
}

func TestModule_StartsWithCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var subs *service.Subscribers
	app := newTestApp(t, &config.Config{SubscribersFile: path}, &subs)
	require.NoError(t, app.Err())

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() { require.NoError(t, app.Stop(ctx)) }()

	assert.Zero(t, subs.Len())

	// the set keeps working; the unreadable file is not overwritten
	added, err := subs.Add(ctx, 42)
	assert.True(t, added)
	assert.Error(t, err)
	assert.True(t, subs.Contains(42))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(b))
}

func TestModule_RestoresSnapshotOnStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.json")

	var first *service.Subscribers
	app := newTestApp(t, &config.Config{SubscribersFile: path}, &first)
	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	_, err := first.Add(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, app.Stop(ctx))

	var second *service.Subscribers
	app = newTestApp(t, &config.Config{SubscribersFile: path}, &second)
	require.NoError(t, app.Start(ctx))
	defer func() { require.NoError(t, app.Stop(ctx)) }()

	assert.Equal(t, []int64{7}, second.Snapshot())
}
