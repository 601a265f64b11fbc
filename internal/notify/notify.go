// Package notify fans operator notifications out on a best-effort basis.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/metrics"
)

// Notifier delivers one text message to one operator.
type Notifier interface {
	Notify(ctx context.Context, operatorID int64, text string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, operatorID int64, text string) error

func (f NotifierFunc) Notify(ctx context.Context, operatorID int64, text string) error {
	return f(ctx, operatorID, text)
}

// Dispatcher sends the same text to every operator. A failed delivery is logged
// and counted, and never stops delivery to the remaining operators.
type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewDispatcher creates a dispatcher. logger and collector may be nil.
func NewDispatcher(notifier Notifier, logger *zap.Logger, collector *metrics.Collector) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{notifier: notifier, logger: logger, metrics: collector}
}

// Broadcast notifies each operator once and returns how many deliveries failed.
func (d *Dispatcher) Broadcast(ctx context.Context, operatorIDs []int64, text string) (failed int) {
	if d == nil || d.notifier == nil {
		return 0
	}
	for _, id := range operatorIDs {
		if id == 0 {
			continue
		}
		if err := d.deliver(ctx, id, text); err != nil {
			failed++
			d.metrics.IncNotifyFailure()
			d.logger.Warn("operator notification failed",
				zap.Int64("operator_id", id),
				zap.Error(err),
			)
		}
	}
	return failed
}

// deliver converts a panicking notifier into an error.
func (d *Dispatcher) deliver(ctx context.Context, id int64, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return d.notifier.Notify(ctx, id, text)
}

type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("notifier panicked: %v", p.value)
}
