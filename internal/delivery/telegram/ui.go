package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
	"github.com/myfrench/myfrench-bot/internal/service"
)

// topicsPerRow keeps topic buttons readable on phones.
const topicsPerRow = 2

// buildTopicsKeyboard builds one button per topic in manifest order.
func buildTopicsKeyboard(view service.TopicListView) *tgbotapi.InlineKeyboardMarkup {
	if len(view.Topics) == 0 {
		return nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range view.Topics {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			topicButtonText(t, view.Pending, view.Language),
			buildTopicCallback(t.ID),
		))
		if len(row) == topicsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildModeKeyboard builds keyboard for mode selection.
func buildModeKeyboard(lang entities.Language) tgbotapi.InlineKeyboardMarkup {
	l := labelsFor(lang)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 "+l.LearningMode, buildModeCallback(modeLearn)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 "+l.TestingMode, buildModeCallback(modeTest)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« "+l.BackToTopics, buildBackCallback()),
		),
	)
}

// buildWordKeyboard builds flashcard navigation.
func buildWordKeyboard(view service.WordView) tgbotapi.InlineKeyboardMarkup {
	l := labelsFor(view.Language)

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ "+l.Previous, buildLearnCallback(learnPrev)),
			tgbotapi.NewInlineKeyboardButtonData(l.Next+" ▶️", buildLearnCallback(learnNext)),
		),
	}
	if view.Word.Media.AudioURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 "+l.Listen, buildAudioCallback()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« "+l.BackToTopics, buildBackCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRoundKeyboard builds one button per option. Resolved rounds keep their
// buttons, marked, but tapping them does nothing.
func buildRoundKeyboard(view service.RoundView, res *entities.Resolution, audio bool) tgbotapi.InlineKeyboardMarkup {
	l := labelsFor(view.Language)

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := range view.Round.Options {
		data := buildAnswerCallback(view.Round.Ordinal, i)
		if res != nil {
			data = buildNoopCallback()
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(optionText(view, i, res), data),
		))
	}
	if audio {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔊 "+l.Listen, buildAudioCallback()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« "+l.BackToTopics, buildBackCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildSummaryKeyboard builds keyboard for quiz results screen.
func buildSummaryKeyboard(lang entities.Language) tgbotapi.InlineKeyboardMarkup {
	l := labelsFor(lang)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 "+l.PlayAgain, buildModeCallback(modeTest)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« "+l.BackToTopics, buildBackCallback()),
		),
	)
}

// buildLanguageKeyboard lists the supported interface languages.
func buildLanguageKeyboard(current entities.Language) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, info := range entities.SupportedLanguages {
		text := info.Name
		if info.Key == current {
			text = "✅ " + text
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, buildLanguageCallback(info.Key)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
