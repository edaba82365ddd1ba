package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"signal_bot/internal/models"
	notifier "signal_bot/internal/modules/notifier/service"
)

type MockUniverse struct{ mock.Mock }

func (m *MockUniverse) GetAssets(ctx context.Context) ([]models.Instrument, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]models.Instrument)
	return list, args.Error(1)
}

type MockTradability struct{ mock.Mock }

func (m *MockTradability) CheckTradable(ctx context.Context, ids []string) (map[string]bool, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).(map[string]bool)
	return out, args.Error(1)
}

type MockIndicators struct{ mock.Mock }

func (m *MockIndicators) GetEMA(ctx context.Context, id string, length int, interval models.Interval) ([]models.IndicatorPoint, error) {
	args := m.Called(ctx, id, length, interval)
	pts, _ := args.Get(0).([]models.IndicatorPoint)
	return pts, args.Error(1)
}

type MockPrices struct{ mock.Mock }

func (m *MockPrices) GetLastPrice(ctx context.Context, id string) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

type MockSink struct{ mock.Mock }

func (m *MockSink) Notify(ctx context.Context, ev models.SignalEvent) notifier.BroadcastResult {
	args := m.Called(ctx, ev)
	return args.Get(0).(notifier.BroadcastResult)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) RecordCycle(id string, at time.Time, ok bool, tracked int) {
	m.Called(id, at, ok, tracked)
}
