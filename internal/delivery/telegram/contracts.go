package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// BotAPI is the subset of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Session is the learner-facing state machine driven by updates.
type Session interface {
	ShowTopics(ctx context.Context) error
	SelectTopic(ctx context.Context, id string) error
	StartLearning() error
	StartTesting() error
	NextWord() error
	PreviousWord() error
	Answer(ordinal, option int) error
	Back(ctx context.Context) error
	SetLanguage(ctx context.Context, lang entities.Language) error
	Language() entities.Language
}
