package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Deliver(ctx context.Context, recipient int64, text string) error {
	args := m.Called(ctx, recipient, text)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *MockStore) Add(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
