package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UpdateSource fetches updates by long polling.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]Update, error)
	DeleteWebhook(ctx context.Context, dropPending bool) error
}

// UpdateHandler processes one update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update Update) error
}

// Poller feeds updates from getUpdates to a handler, one at a time, in order.
type Poller struct {
	source   UpdateSource
	handler  UpdateHandler
	logger   *zap.Logger
	timeout  time.Duration
	interval time.Duration
	limit    int
}

// NewPoller creates a poller. interval is the back-off after a failed poll.
func NewPoller(source UpdateSource, handler UpdateHandler, logger *zap.Logger, timeout, interval time.Duration, limit int) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		source:   source,
		handler:  handler,
		logger:   logger,
		timeout:  timeout,
		interval: interval,
		limit:    limit,
	}
}

// Run polls until ctx is cancelled. Any webhook is removed first, since
// Telegram refuses getUpdates while one is set.
func (p *Poller) Run(ctx context.Context) {
	if err := p.source.DeleteWebhook(ctx, false); err != nil {
		p.logger.Warn("telegram delete webhook failed", zap.Error(err))
	}

	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout, p.limit)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Warn("telegram get updates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if err := p.handler.HandleUpdate(ctx, update); err != nil {
				p.logger.Error("failed to handle telegram update",
					zap.Int64("update_id", update.UpdateID),
					zap.Error(err),
				)
			}
		}
	}
}
