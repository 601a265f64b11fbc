// Package intake runs the applicant questionnaire.
package intake

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/config"
	"github.com/hpungsan/scout/internal/errors"
	"github.com/hpungsan/scout/internal/metrics"
	"github.com/hpungsan/scout/internal/notify"
	"github.com/hpungsan/scout/internal/referral"
	"github.com/hpungsan/scout/internal/session"
)

// Keyboard is the reply keyboard attached to an engine reply.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardYesNo
	KeyboardShareContact
	KeyboardRemove
)

// Reply is a message for the requester.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Requester identifies who sent an inbound event.
type Requester struct {
	ID       int64
	Username string
}

// Input is one answer. Contact holds the number of a shared contact, if any.
type Input struct {
	Text    string
	Contact string
}

// RecordStore is the part of the record store the engine writes to.
type RecordStore interface {
	Insert(ctx context.Context, a *application.Application) (int64, error)
	ExistsBySubmitter(ctx context.Context, submitterID int64) (bool, error)
}

// Options configures an Engine.
type Options struct {
	Operators   []config.Operator
	BotUsername string
	Now         func() time.Time
	Logger      *zap.Logger
	Metrics     *metrics.Collector
}

// Engine drives questionnaires for non-operators and hands operators their referral link.
type Engine struct {
	store       RecordStore
	sessions    session.Store
	dispatcher  *notify.Dispatcher
	operators   []config.Operator
	botUsername string
	now         func() time.Time
	logger      *zap.Logger
	metrics     *metrics.Collector
}

// NewEngine creates an engine.
func NewEngine(store RecordStore, sessions session.Store, dispatcher *notify.Dispatcher, opts Options) *Engine {
	e := &Engine{
		store:       store,
		sessions:    sessions,
		dispatcher:  dispatcher,
		operators:   opts.Operators,
		botUsername: opts.BotUsername,
		now:         opts.Now,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

func (e *Engine) operator(id int64) (config.Operator, bool) {
	for _, op := range e.operators {
		if op.ID == id {
			return op, true
		}
	}
	return config.Operator{}, false
}

// Start handles the start event with its raw payload.
// Operators get their referral link; submitters with an application get a notice;
// everyone else gets a fresh session and the first question.
func (e *Engine) Start(ctx context.Context, req Requester, payload string) (*Reply, error) {
	if op, ok := e.operator(req.ID); ok {
		return &Reply{Text: operatorGreeting(op.Name, e.botUsername, op.ID)}, nil
	}

	applied, err := e.store.ExistsBySubmitter(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if applied {
		return &Reply{Text: textAlreadyApplied}, nil
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	s := &session.Session{
		ID:          id,
		SubmitterID: req.ID,
		Step:        string(StepAwaitingName),
		ReferrerID:  referral.Resolve(payload),
		StartedAt:   e.now(),
	}
	if err := e.sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("session put: %w", err)
	}

	e.logger.Debug("questionnaire started",
		zap.Int64("submitter_id", req.ID),
		zap.String("session_id", s.ID),
		zap.Int64("referrer_id", s.ReferrerID),
	)

	r := prompt(StepAwaitingName)
	return &r, nil
}

// Answer feeds one input into the requester's session.
// It returns nil when the requester has no session in progress.
func (e *Engine) Answer(ctx context.Context, req Requester, in Input) (*Reply, error) {
	s, ok, err := e.sessions.Get(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return nil, nil
	}

	step := Step(s.Step)

	switch step {
	case StepAwaitingName, StepAwaitingDOB, StepAwaitingEnglish,
		StepAwaitingCPU, StepAwaitingGPU, StepAwaitingConnectivity:
		if strings.TrimSpace(in.Text) == "" {
			r := prompt(step)
			return &r, nil
		}
		record(&s.Answers, step, in.Text)
		next, _ := step.Next()
		s.Step = string(next)
		if err := e.sessions.Put(ctx, s); err != nil {
			return nil, fmt.Errorf("session put: %w", err)
		}
		r := prompt(next)
		return &r, nil

	case StepAwaitingPhone:
		phone, valid := acceptPhone(in)
		if !valid {
			return &Reply{Text: textBadPhone, Keyboard: KeyboardShareContact}, nil
		}
		return e.complete(ctx, req, s, phone)

	case StepCompleted:
		// A completed session should already be gone.
		return nil, e.sessions.Clear(ctx, req.ID)

	default:
		e.logger.Warn("discarding session with unknown step",
			zap.Int64("submitter_id", req.ID),
			zap.String("step", s.Step),
		)
		return nil, e.sessions.Clear(ctx, req.ID)
	}
}

func record(a *session.Answers, step Step, text string) {
	switch step {
	case StepAwaitingName:
		a.FullName = text
	case StepAwaitingDOB:
		a.DateOfBirth = text
	case StepAwaitingEnglish:
		a.EnglishLevel = text
	case StepAwaitingCPU:
		a.CPU = text
	case StepAwaitingGPU:
		a.GPU = text
	case StepAwaitingConnectivity:
		a.Connectivity = text
	}
}

// acceptPhone prefers a shared contact over typed text.
func acceptPhone(in Input) (string, bool) {
	if in.Contact != "" {
		if phone := application.NormalizeContactPhone(in.Contact); phone != "" {
			return phone, true
		}
	}
	return application.NormalizePhone(in.Text)
}

func (e *Engine) complete(ctx context.Context, req Requester, s *session.Session, phone string) (*Reply, error) {
	a := &application.Application{
		FullName:           s.Answers.FullName,
		DateOfBirth:        s.Answers.DateOfBirth,
		EnglishLevel:       s.Answers.EnglishLevel,
		CPU:                s.Answers.CPU,
		GPU:                s.Answers.GPU,
		ConnectivityAnswer: s.Answers.Connectivity,
		Phone:              phone,
		ContactHandle:      application.HandleFor(req.Username),
		Status:             application.StatusNew,
		SubmittedAt:        application.Today(e.now()),
		ReferrerID:         s.ReferrerID,
		SubmitterID:        req.ID,
	}

	id, err := e.store.Insert(ctx, a)
	if errors.Is(err, errors.ErrAlreadyApplied) {
		if err := e.sessions.Clear(ctx, req.ID); err != nil {
			return nil, fmt.Errorf("session clear: %w", err)
		}
		return &Reply{Text: textAlreadyApplied, Keyboard: KeyboardRemove}, nil
	}
	if err != nil {
		// Session stays at the phone step so the submitter can retry.
		return nil, fmt.Errorf("insert application: %w", err)
	}

	if err := e.sessions.Clear(ctx, req.ID); err != nil {
		e.logger.Warn("session clear failed", zap.Int64("submitter_id", req.ID), zap.Error(err))
	}

	e.metrics.IncSubmission()
	e.logger.Info("application submitted",
		zap.Int64("id", id),
		zap.Int64("submitter_id", req.ID),
		zap.Int64("referrer_id", a.ReferrerID),
		zap.String("session_id", s.ID),
	)

	ids := make([]int64, 0, len(e.operators))
	for _, op := range e.operators {
		ids = append(ids, op.ID)
	}
	e.dispatcher.Broadcast(ctx, ids, newApplicationNotice(a.FullName))

	r := prompt(StepCompleted)
	return &r, nil
}

func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
