package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Handler routes Telegram updates into the session and runs the session's event loop.
type Handler struct {
	bot      BotAPI
	logger   *zap.Logger
	session  Session
	renderer *Renderer
	events   <-chan func()
}

// NewHandler creates a handler. events is the loop the session posts timers and loads to.
func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	session Session,
	renderer *Renderer,
	events <-chan func(),
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		session:  session,
		renderer: renderer,
		events:   events,
	}
}

// Run processes updates and loop events one at a time until ctx is done.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		case fn := <-h.events:
			fn()
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil || !h.accept(cb.Message.Chat.ID, false) {
			h.answerCallback(cb.ID)
			return
		}
		h.logger.Debug("callback received",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", cb.Data),
		)
		h.handleCallback(ctx, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	msg := update.Message
	isStart := msg.IsCommand() && msg.Command() == cmdStart
	if !h.accept(msg.Chat.ID, isStart) {
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("text", msg.Text),
	)

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	h.renderer.SendText(md(labelsFor(h.session.Language()).UnknownCommand))
}

// accept reports whether updates from chatID are served. An unbound bot
// binds to the first chat that sends /start.
func (h *Handler) accept(chatID int64, isStart bool) bool {
	if h.renderer.ChatID() == 0 {
		if !isStart {
			h.logger.Debug("ignoring update before /start", zap.Int64("chat_id", chatID))
			return false
		}
		return h.renderer.Bind(chatID)
	}
	if h.renderer.ChatID() != chatID {
		h.logger.Debug("ignoring update from another chat", zap.Int64("chat_id", chatID))
		return false
	}
	return true
}

func (h *Handler) answerCallback(id string) {
	// Remove the user's "clock".
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
