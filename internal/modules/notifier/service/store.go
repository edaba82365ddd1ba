package service

import "context"

// Store persists the subscriber set. Membership lives in Subscribers; the
// store only mirrors it so subscriptions survive a restart.
type Store interface {
	Load(ctx context.Context) ([]int64, error)
	Add(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
}
