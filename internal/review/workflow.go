// Package review implements the operator review panel: listing applications,
// showing details, changing status and deleting.
package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/config"
	"github.com/hpungsan/scout/internal/errors"
	"github.com/hpungsan/scout/internal/metrics"
)

// RecordStore is the part of the record store the review panel needs.
type RecordStore interface {
	FindByID(ctx context.Context, id int64) (*application.Application, error)
	ListAll(ctx context.Context) ([]application.Application, error)
	ListByReferrer(ctx context.Context, referrerID int64) ([]application.Application, error)
	UpdateStatus(ctx context.Context, id int64, status application.Status) error
	Delete(ctx context.Context, id int64) error
}

// Options configures a Workflow.
type Options struct {
	Operators []config.Operator
	Labels    application.LabelTable
	Logger    *zap.Logger
	Metrics   *metrics.Collector
}

// Workflow renders review screens for operators.
type Workflow struct {
	store     RecordStore
	operators []config.Operator
	labels    application.LabelTable
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// NewWorkflow creates a workflow. Nil labels use application.DefaultLabels.
func NewWorkflow(store RecordStore, opts Options) *Workflow {
	w := &Workflow{
		store:     store,
		operators: opts.Operators,
		labels:    opts.Labels,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
	if w.labels == nil {
		w.labels = application.DefaultLabels()
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

func (w *Workflow) operator(id int64) (config.Operator, bool) {
	for _, op := range w.operators {
		if op.ID == id {
			return op, true
		}
	}
	return config.Operator{}, false
}

// IsOperator reports whether id is on the operator roster.
func (w *Workflow) IsOperator(id int64) bool {
	_, ok := w.operator(id)
	return ok
}

// Menu returns the main menu, or nil for callers outside the roster.
func (w *Workflow) Menu(callerID int64) *View {
	if !w.IsOperator(callerID) {
		return nil
	}
	return w.menuView()
}

// HandleData decodes callback data and handles it.
func (w *Workflow) HandleData(ctx context.Context, callerID int64, data string) (*View, error) {
	if !w.IsOperator(callerID) {
		return nil, errors.NewForbidden(callerID)
	}
	cmd, err := ParseCommand(data)
	if err != nil {
		w.logger.Warn("rejected review command", zap.Int64("operator_id", callerID), zap.String("data", data))
		return nil, err
	}
	return w.Handle(ctx, callerID, cmd)
}

// Handle runs one command. Callers outside the roster get FORBIDDEN and nothing is touched.
// A command naming a missing application yields the main menu with a notice.
func (w *Workflow) Handle(ctx context.Context, callerID int64, cmd Command) (*View, error) {
	if !w.IsOperator(callerID) {
		return nil, errors.NewForbidden(callerID)
	}
	w.metrics.IncReviewAction(string(cmd.Action))

	switch cmd.Action {
	case ActionMenu:
		return w.menuView(), nil

	case ActionListAll:
		items, err := w.store.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list all: %w", err)
		}
		if len(items) == 0 {
			return &View{Screen: ScreenUnchanged, Notice: &Notice{Text: textEmptyAll}}, nil
		}
		return w.listView("📋 All applications", items), nil

	case ActionListReferrals:
		items, err := w.store.ListByReferrer(ctx, cmd.ReferrerID)
		if err != nil {
			return nil, fmt.Errorf("list referrals: %w", err)
		}
		name := w.ReferralLabel(cmd.ReferrerID)
		if len(items) == 0 {
			return &View{Screen: ScreenUnchanged, Notice: &Notice{Text: name + " has no referrals yet."}}, nil
		}
		return w.listView("👥 Referrals of "+name, items), nil

	case ActionView:
		a, err := w.store.FindByID(ctx, cmd.ApplicationID)
		if err != nil {
			return w.staleOr(err, cmd)
		}
		return w.detailView(a), nil

	case ActionSetStatus:
		if err := w.store.UpdateStatus(ctx, cmd.ApplicationID, cmd.Status); err != nil {
			return w.staleOr(err, cmd)
		}
		a, err := w.store.FindByID(ctx, cmd.ApplicationID)
		if err != nil {
			return w.staleOr(err, cmd)
		}
		w.logger.Info("application status changed",
			zap.Int64("id", a.ID),
			zap.String("status", string(a.Status)),
			zap.Int64("operator_id", callerID),
		)
		v := w.detailView(a)
		v.Notice = &Notice{Text: "Status changed to: " + w.labels.For(cmd.Status).String(), Alert: true}
		return v, nil

	case ActionDelete:
		if _, err := w.store.FindByID(ctx, cmd.ApplicationID); err != nil {
			return w.staleOr(err, cmd)
		}
		return confirmDeleteView(cmd.ApplicationID), nil

	case ActionConfirmDelete:
		if err := w.store.Delete(ctx, cmd.ApplicationID); err != nil {
			return w.staleOr(err, cmd)
		}
		w.logger.Info("application deleted",
			zap.Int64("id", cmd.ApplicationID),
			zap.Int64("operator_id", callerID),
		)
		v := w.menuView()
		v.Notice = &Notice{Text: fmt.Sprintf("Application #%d deleted.", cmd.ApplicationID), Alert: true}
		return v, nil

	default:
		return nil, errors.NewMalformedCommand(cmd.String())
	}
}

// staleOr maps NOT_FOUND to the main menu with a notice and passes other errors through.
func (w *Workflow) staleOr(err error, cmd Command) (*View, error) {
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, fmt.Errorf("%s %d: %w", cmd.Action, cmd.ApplicationID, err)
	}
	w.logger.Info("stale review action", zap.String("action", string(cmd.Action)), zap.Int64("id", cmd.ApplicationID))
	v := w.menuView()
	v.Notice = &Notice{Text: textStale}
	return v, nil
}
