package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
	"github.com/myfrench/myfrench-bot/internal/service"
)

// Renderer draws session screens into a single chat. Every screen replaces
// the previous one by editing the current screen message in place.
//
// It is owned by the event loop, like the controller that calls it.
type Renderer struct {
	bot    BotAPI
	logger *zap.Logger

	chatID   int64
	screenID int

	audioURL     string
	audioCaption string
}

var _ service.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer. A zero chatID is bound later with Bind.
func NewRenderer(bot BotAPI, chatID int64, logger *zap.Logger) *Renderer {
	return &Renderer{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}
}

// Bind attaches the renderer to chatID unless it already serves another chat.
func (r *Renderer) Bind(chatID int64) bool {
	if r.chatID == 0 {
		r.chatID = chatID
		r.logger.Info("bound to chat", zap.Int64("chat_id", chatID))
	}
	return r.chatID == chatID
}

func (r *Renderer) ChatID() int64 { return r.chatID }

// NewScreen makes the next screen a fresh message at the bottom of the chat.
func (r *Renderer) NewScreen() { r.screenID = 0 }

// SetScreen makes msgID the message subsequent screens edit.
func (r *Renderer) SetScreen(msgID int) { r.screenID = msgID }

// ShowTopics implements service.Renderer.
func (r *Renderer) ShowTopics(view service.TopicListView) {
	r.clearAudio()
	r.show(topicsText(view), buildTopicsKeyboard(view))
}

// ShowModeSelect implements service.Renderer.
func (r *Renderer) ShowModeSelect(topic entities.Topic, lang entities.Language) {
	r.clearAudio()
	kb := buildModeKeyboard(lang)
	r.show(modeSelectText(topic, lang), &kb)
}

// ShowWord implements service.Renderer.
func (r *Renderer) ShowWord(view service.WordView) {
	r.setAudio(view.Word)
	kb := buildWordKeyboard(view)
	r.show(wordText(view), &kb)
}

// ShowRound implements service.Renderer.
func (r *Renderer) ShowRound(view service.RoundView) {
	r.setAudio(view.Round.Correct)
	kb := buildRoundKeyboard(view, nil, r.audioURL != "")
	r.show(roundText(view, nil), &kb)
}

// UpdateCountdown implements service.Renderer.
func (r *Renderer) UpdateCountdown(view service.RoundView) {
	kb := buildRoundKeyboard(view, nil, r.audioURL != "")
	r.show(roundText(view, nil), &kb)
}

// ShowResolution implements service.Renderer.
func (r *Renderer) ShowResolution(view service.RoundView, res entities.Resolution) {
	kb := buildRoundKeyboard(view, &res, false)
	r.show(roundText(view, &res), &kb)
}

// ShowSummary implements service.Renderer.
func (r *Renderer) ShowSummary(view service.SummaryView) {
	r.clearAudio()
	kb := buildSummaryKeyboard(view.Language)
	r.show(summaryText(view), &kb)
}

// ShowError implements service.Renderer. Errors go to their own message so
// the screen they refer to stays visible above them.
func (r *Renderer) ShowError(err error, lang entities.Language) {
	if r.chatID == 0 {
		return
	}
	r.send(newMessage(r.chatID, errorText(err, lang)))
	r.NewScreen()
}

// ShowLanguages shows the interface language picker.
func (r *Renderer) ShowLanguages(current entities.Language) {
	kb := buildLanguageKeyboard(current)
	r.show(md(labelsFor(current).ChooseLanguage), &kb)
}

// SendText sends a standalone MarkdownV2 message.
func (r *Renderer) SendText(text string) {
	if r.chatID == 0 {
		return
	}
	r.send(newMessage(r.chatID, text))
}

// SendAudio sends the pronunciation of the word on screen, if any.
func (r *Renderer) SendAudio() {
	if r.chatID == 0 || r.audioURL == "" {
		return
	}
	a := tgbotapi.NewAudio(r.chatID, tgbotapi.FileURL(r.audioURL))
	a.Caption = r.audioCaption
	r.send(a)
}

func (r *Renderer) setAudio(w *entities.Word) {
	if w == nil {
		r.clearAudio()
		return
	}
	r.audioURL = w.Media.AudioURL
	r.audioCaption = w.SourceText
}

func (r *Renderer) clearAudio() {
	r.audioURL = ""
	r.audioCaption = ""
}

// show edits the screen message, or sends a new one when there is none or the edit fails.
func (r *Renderer) show(text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if r.chatID == 0 {
		return
	}

	if r.screenID != 0 {
		edit := newEdit(r.chatID, r.screenID, text)
		edit.ReplyMarkup = kb
		_, err := r.bot.Send(edit)
		if err == nil || isNotModified(err) {
			return
		}
		r.logger.Warn("failed to edit screen, sending a new one",
			zap.Int("message_id", r.screenID),
			zap.Error(err),
		)
	}

	msg := newMessage(r.chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := r.bot.Send(msg)
	if err != nil {
		r.logger.Error("failed to send telegram message", zap.Error(err))
		return
	}
	r.screenID = sent.MessageID
}

func (r *Renderer) send(c tgbotapi.Chattable) {
	if _, err := r.bot.Send(c); err != nil {
		r.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// isNotModified reports Telegram's refusal to apply an edit that changes nothing.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
