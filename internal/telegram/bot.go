// Package telegram connects the questionnaire and the review panel to the Telegram Bot API.
package telegram

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/hpungsan/scout/internal/errors"
	"github.com/hpungsan/scout/internal/intake"
	"github.com/hpungsan/scout/internal/metrics"
	"github.com/hpungsan/scout/internal/ratelimit"
	"github.com/hpungsan/scout/internal/review"
)

const textFailure = "⚠️ Something went wrong. Please try again later."

// handledTTL bounds how long an update id is remembered for redelivery checks.
const handledTTL = 10 * time.Minute

// Sender is the part of the Bot API the router talks to.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyMarkup any) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string, showAlert bool) error
}

// Bot routes inbound updates to the questionnaire engine and the review workflow.
// Updates from the same user are handled one at a time.
type Bot struct {
	sender  Sender
	engine  *intake.Engine
	review  *review.Workflow
	limiter ratelimit.Limiter
	metrics *metrics.Collector
	logger  *zap.Logger
	locks   *userLocks
	handled *cache.Cache
}

// NewBot creates a router. limiter, collector and logger may be nil.
func NewBot(sender Sender, engine *intake.Engine, workflow *review.Workflow, limiter ratelimit.Limiter, collector *metrics.Collector, logger *zap.Logger) *Bot {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		sender:  sender,
		engine:  engine,
		review:  workflow,
		limiter: limiter,
		metrics: collector,
		logger:  logger,
		locks:   newUserLocks(),
		handled: cache.New(handledTTL, 2*handledTTL),
	}
}

// HandleUpdate processes one update to completion. Only delivery failures are returned;
// everything else is answered to the user or logged. An update id that was already
// handled is dropped, so a redelivered answer is never applied twice.
func (b *Bot) HandleUpdate(ctx context.Context, update Update) error {
	var userID int64
	kind := "other"
	switch {
	case update.Message != nil:
		userID, kind = update.Message.From.ID, "message"
	case update.CallbackQuery != nil:
		userID, kind = update.CallbackQuery.From.ID, "callback"
	}
	b.metrics.IncUpdate(kind)
	if userID == 0 {
		return nil
	}

	if !b.limiter.Allow(userID) {
		b.metrics.IncThrottled()
		b.logger.Debug("update throttled", zap.Int64("user_id", userID), zap.Int64("update_id", update.UpdateID))
		return nil
	}

	unlock := b.locks.Lock(userID)
	defer unlock()

	if update.UpdateID != 0 {
		key := strconv.FormatInt(update.UpdateID, 10)
		if _, dup := b.handled.Get(key); dup {
			b.logger.Debug("duplicate update dropped", zap.Int64("user_id", userID), zap.Int64("update_id", update.UpdateID))
			return nil
		}
		// Recorded even when the reply fails to send; the answer has already been applied.
		defer b.handled.SetDefault(key, struct{}{})
	}

	logger := b.logger.With(
		zap.String("trace_id", newTraceID()),
		zap.Int64("update_id", update.UpdateID),
		zap.Int64("user_id", userID),
	)

	if update.Message != nil {
		return b.handleMessage(ctx, logger, update.Message)
	}
	return b.handleCallback(ctx, logger, update.CallbackQuery)
}

func (b *Bot) handleMessage(ctx context.Context, logger *zap.Logger, msg *Message) error {
	if msg.Chat.Type != "" && msg.Chat.Type != "private" {
		return nil
	}
	chatID := msg.Chat.ID
	req := intake.Requester{ID: msg.From.ID, Username: msg.From.Username}

	if msg.Contact != nil {
		reply, err := b.engine.Answer(ctx, req, intake.Input{Contact: msg.Contact.PhoneNumber})
		return b.sendReply(ctx, logger, chatID, reply, err)
	}

	text := strings.TrimSpace(msg.Text)
	command, arg := parseCommand(text)
	switch command {
	case "/start":
		reply, err := b.engine.Start(ctx, req, arg)
		return b.sendReply(ctx, logger, chatID, reply, err)
	case "/admin":
		view := b.review.Menu(req.ID)
		if view == nil {
			return nil
		}
		return b.sender.SendMessage(ctx, chatID, view.Text, inlineMarkup(view.Rows))
	default:
		reply, err := b.engine.Answer(ctx, req, intake.Input{Text: msg.Text})
		return b.sendReply(ctx, logger, chatID, reply, err)
	}
}

func (b *Bot) sendReply(ctx context.Context, logger *zap.Logger, chatID int64, reply *intake.Reply, err error) error {
	if err != nil {
		logger.Error("questionnaire step failed", zap.Error(err))
		return b.sender.SendMessage(ctx, chatID, textFailure, nil)
	}
	if reply == nil {
		return nil
	}
	return b.sender.SendMessage(ctx, chatID, reply.Text, replyMarkup(reply.Keyboard))
}

func (b *Bot) handleCallback(ctx context.Context, logger *zap.Logger, cb *CallbackQuery) error {
	view, err := b.review.HandleData(ctx, cb.From.ID, cb.Data)
	if err != nil {
		if errors.Is(err, errors.ErrForbidden) {
			logger.Debug("ignoring callback from non-operator")
			return nil
		}
		if errors.Is(err, errors.ErrMalformedCommand) {
			return b.sender.AnswerCallbackQuery(ctx, cb.ID, "", false)
		}
		logger.Error("review action failed", zap.String("data", cb.Data), zap.Error(err))
		return b.sender.AnswerCallbackQuery(ctx, cb.ID, textFailure, true)
	}
	if view == nil {
		return nil
	}

	if view.Screen != review.ScreenUnchanged {
		if cb.Message != nil {
			if err := b.sender.EditMessageText(ctx, cb.Message.Chat.ID, cb.Message.MessageID, view.Text, inlineMarkup(view.Rows)); err != nil {
				logger.Warn("edit review message failed", zap.Error(err))
				// The original message may be too old to edit; fall back to a new one.
				if err := b.sender.SendMessage(ctx, cb.From.ID, view.Text, inlineMarkup(view.Rows)); err != nil {
					return err
				}
			}
		} else if err := b.sender.SendMessage(ctx, cb.From.ID, view.Text, inlineMarkup(view.Rows)); err != nil {
			return err
		}
	}

	var notice string
	var alert bool
	if view.Notice != nil {
		notice, alert = view.Notice.Text, view.Notice.Alert
	}
	return b.sender.AnswerCallbackQuery(ctx, cb.ID, notice, alert)
}

func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	command := fields[0]
	if idx := strings.Index(command, "@"); idx != -1 {
		command = command[:idx]
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	return command, arg
}

func replyMarkup(k intake.Keyboard) any {
	switch k {
	case intake.KeyboardYesNo:
		return &ReplyKeyboardMarkup{
			Keyboard:       [][]KeyboardButton{{{Text: intake.ButtonYes}, {Text: intake.ButtonNo}}},
			ResizeKeyboard: true,
		}
	case intake.KeyboardShareContact:
		return &ReplyKeyboardMarkup{
			Keyboard:       [][]KeyboardButton{{{Text: intake.ButtonShareContact, RequestContact: true}}},
			ResizeKeyboard: true,
		}
	case intake.KeyboardRemove:
		return &ReplyKeyboardRemove{RemoveKeyboard: true}
	case intake.KeyboardNone:
		return nil
	default:
		return nil
	}
}

func inlineMarkup(rows [][]review.Button) *InlineKeyboardMarkup {
	markup := &InlineKeyboardMarkup{InlineKeyboard: make([][]InlineKeyboardButton, 0, len(rows))}
	for _, row := range rows {
		out := make([]InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			out = append(out, InlineKeyboardButton{Text: btn.Text, CallbackData: btn.Command.String()})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, out)
	}
	return markup
}

func newTraceID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}
