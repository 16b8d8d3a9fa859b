package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot commands.
const (
	cmdStart    = "start"
	cmdTopics   = "topics"
	cmdLanguage = "language"
	cmdHelp     = "help"
)

// Commands lists the bot menu, registered at startup.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: cmdStart, Description: "Start learning"},
		{Command: cmdTopics, Description: "Choose a topic"},
		{Command: cmdLanguage, Description: "Change the interface language"},
		{Command: cmdHelp, Description: "Help"},
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case cmdStart:
		_ = h.withErrorHandling(h.handleStart)(ctx, chatID)
	case cmdTopics:
		_ = h.withErrorHandling(h.handleTopics)(ctx, chatID)
	case cmdLanguage:
		h.renderer.NewScreen()
		h.renderer.ShowLanguages(h.session.Language())
	case cmdHelp:
		h.renderer.SendText(md(labelsFor(h.session.Language()).Help))
	default:
		h.renderer.SendText(md(labelsFor(h.session.Language()).UnknownCommand))
	}
}

// handleStart greets the learner and opens the topic list.
func (h *Handler) handleStart(ctx context.Context, _ int64) error {
	h.renderer.SendText(welcomeText(h.session.Language()))
	return h.handleTopics(ctx, 0)
}

// handleTopics abandons any activity and shows the topic list as a new message.
func (h *Handler) handleTopics(ctx context.Context, _ int64) error {
	h.renderer.NewScreen()
	return h.session.Back(ctx)
}
