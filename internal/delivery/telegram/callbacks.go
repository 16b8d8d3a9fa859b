package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb.ID)

	data := decodeCallback(cb.Data)
	chatID := cb.Message.Chat.ID

	var fn HandlerFunc
	switch data.Action {
	case actionTopic:
		fn = h.topicCallback(data)
	case actionMode:
		fn = h.modeCallback(data)
	case actionLearn:
		fn = h.learnCallback(data)
	case actionAnswer:
		fn = h.answerQuizCallback(data)
	case actionBack:
		fn = func(ctx context.Context, _ int64) error { return h.session.Back(ctx) }
	case actionLang:
		fn = h.languageCallback(data)
	case actionAudio:
		h.renderer.SendAudio()
		return
	case actionNoop:
		return
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	// The tapped message becomes the screen the session redraws.
	h.renderer.SetScreen(cb.Message.MessageID)
	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) topicCallback(data callbackData) HandlerFunc {
	return func(ctx context.Context, _ int64) error {
		return h.session.SelectTopic(ctx, data.param(0))
	}
}

func (h *Handler) modeCallback(data callbackData) HandlerFunc {
	return func(_ context.Context, _ int64) error {
		switch data.param(0) {
		case modeLearn:
			return h.session.StartLearning()
		case modeTest:
			return h.session.StartTesting()
		default:
			return errInvalidCallback(data)
		}
	}
}

func (h *Handler) learnCallback(data callbackData) HandlerFunc {
	return func(_ context.Context, _ int64) error {
		switch data.param(0) {
		case learnNext:
			return h.session.NextWord()
		case learnPrev:
			return h.session.PreviousWord()
		default:
			return errInvalidCallback(data)
		}
	}
}

func (h *Handler) answerQuizCallback(data callbackData) HandlerFunc {
	return func(_ context.Context, _ int64) error {
		ordinal, ok1 := data.intParam(0)
		option, ok2 := data.intParam(1)
		if !ok1 || !ok2 {
			return errInvalidCallback(data)
		}
		return h.session.Answer(ordinal, option)
	}
}

func (h *Handler) languageCallback(data callbackData) HandlerFunc {
	return func(ctx context.Context, _ int64) error {
		lang, ok := entities.ParseLanguage(data.param(0))
		if !ok {
			return errInvalidCallback(data)
		}
		return h.session.SetLanguage(ctx, lang)
	}
}
