package service

import (
	"context"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Transport delivers one text to one recipient. No retries.
type Transport interface {
	Deliver(ctx context.Context, recipient int64, text string) error
}

// BroadcastResult counts per-recipient outcomes of one broadcast.
type BroadcastResult struct {
	Delivered int
	Failed    []*models.DeliveryError
}

// Sink formats signal events and fans them out to a snapshot of the
// subscriber set.
type Sink struct {
	subs      *Subscribers
	transport Transport
}

func NewSink(subs *Subscribers, transport Transport) *Sink {
	return &Sink{subs: subs, transport: transport}
}

// Notify broadcasts Buy/Sell events. Hold is logged and dropped.
func (s *Sink) Notify(ctx context.Context, ev models.SignalEvent) BroadcastResult {
	if !ev.Signal.Actionable() {
		logger.Debug("[NOTIFY] %s (%s): %s suppressed", ev.Ticker, ev.InstrumentID, ev.Signal)
		return BroadcastResult{}
	}
	return s.Broadcast(ctx, formatSignal(ev))
}

// Broadcast delivers text to every current subscriber. A failure for one
// recipient is logged and does not stop the rest.
func (s *Sink) Broadcast(ctx context.Context, text string) BroadcastResult {
	var res BroadcastResult
	for _, id := range s.subs.Snapshot() {
		if err := s.transport.Deliver(ctx, id, text); err != nil {
			derr := &models.DeliveryError{Recipient: id, Err: err}
			logger.Error("[NOTIFY] %v", derr)
			metrics.DeliveriesTotal.WithLabelValues(metrics.ResultFailed).Inc()
			res.Failed = append(res.Failed, derr)
			continue
		}
		metrics.DeliveriesTotal.WithLabelValues(metrics.ResultOK).Inc()
		res.Delivered++
	}
	return res
}
