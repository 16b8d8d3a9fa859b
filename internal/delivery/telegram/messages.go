// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
	"github.com/myfrench/myfrench-bot/internal/service"
)

// labels is the UI text of one language.
type labels struct {
	Welcome        string
	Help           string
	SelectTopic    string
	NoTopics       string
	ChooseMode     string
	LearningMode   string
	TestingMode    string
	BackToTopics   string
	Previous       string
	Next           string
	Listen         string
	Example        string
	Question       string
	Score          string
	Time           string
	Correct        string
	Wrong          string
	TimeUp         string
	Answer         string
	Summary        string
	FinalScore     string
	Accuracy       string
	PlayAgain      string
	ChooseLanguage string
	NotEnoughWords string // topic id, have, need
	EmptyTopic     string
	ManifestFailed string
	TopicFailed    string // topic name
	InternalError  string
	UnknownCommand string
}

var labelsByLanguage = map[entities.Language]labels{
	entities.LanguageEnglish: {
		Welcome:        "Bonjour! Pick a topic to study French words with flashcards or a timed quiz.",
		Help:           "/topics — choose a topic\n/language — change the interface language\n/help — show this help",
		SelectTopic:    "Select Topic",
		NoTopics:       "No topics are available yet.",
		ChooseMode:     "Choose Mode",
		LearningMode:   "Learning Mode",
		TestingMode:    "Testing Mode",
		BackToTopics:   "Back to Topics",
		Previous:       "Previous",
		Next:           "Next",
		Listen:         "Listen",
		Example:        "Example",
		Question:       "Question",
		Score:          "Score",
		Time:           "Time",
		Correct:        "Correct!",
		Wrong:          "Wrong.",
		TimeUp:         "Time is up.",
		Answer:         "Answer",
		Summary:        "Summary",
		FinalScore:     "Final Score",
		Accuracy:       "Accuracy",
		PlayAgain:      "Play again",
		ChooseLanguage: "Choose the interface language",
		NotEnoughWords: "Topic %q has %d words, a quiz needs at least %d. Try learning mode.",
		EmptyTopic:     "This topic has no words yet.",
		ManifestFailed: "Could not load the topic list. Try /topics again later.",
		TopicFailed:    "Could not load %q. Tap it again to retry.",
		InternalError:  "Something went wrong. Please try again later.",
		UnknownCommand: "Unknown command. Use /help to see what I can do.",
	},
	entities.LanguageUkrainian: {
		Welcome:        "Bonjour! Оберіть тему, щоб вивчати французькі слова з картками або проходити тест на час.",
		Help:           "/topics — обрати тему\n/language — змінити мову інтерфейсу\n/help — показати довідку",
		SelectTopic:    "Оберіть тему",
		NoTopics:       "Поки що немає доступних тем.",
		ChooseMode:     "Оберіть режим",
		LearningMode:   "Режим навчання",
		TestingMode:    "Режим тестування",
		BackToTopics:   "Назад до тем",
		Previous:       "Попереднє",
		Next:           "Наступне",
		Listen:         "Слухати",
		Example:        "Приклад",
		Question:       "Питання",
		Score:          "Бали",
		Time:           "Час",
		Correct:        "Правильно!",
		Wrong:          "Неправильно.",
		TimeUp:         "Час вийшов.",
		Answer:         "Відповідь",
		Summary:        "Підсумок",
		FinalScore:     "Фінальний рахунок",
		Accuracy:       "Точність",
		PlayAgain:      "Ще раз",
		ChooseLanguage: "Оберіть мову інтерфейсу",
		NotEnoughWords: "Тема %q має %d слів, для тесту потрібно щонайменше %d. Спробуйте режим навчання.",
		EmptyTopic:     "У цій темі ще немає слів.",
		ManifestFailed: "Не вдалося завантажити список тем. Спробуйте /topics пізніше.",
		TopicFailed:    "Не вдалося завантажити %q. Натисніть ще раз, щоб повторити.",
		InternalError:  "Щось пішло не так. Спробуйте пізніше.",
		UnknownCommand: "Невідома команда. Скористайтеся /help.",
	},
}

// labelsFor returns the label table for lang, falling back to English.
func labelsFor(lang entities.Language) labels {
	if l, ok := labelsByLanguage[lang]; ok {
		return l
	}
	return labelsByLanguage[entities.LanguageEnglish]
}

// Topic list markers.
const (
	markLoaded  = "✓"
	markLoading = "⏳"
	markError   = "⚠"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

var linkURLEscaper = strings.NewReplacer(`\`, `\\`, `)`, `\)`)

// previewLink renders an invisible link so Telegram shows url as the message preview.
func previewLink(url string) string {
	if url == "" {
		return ""
	}
	return "[\u200b](" + linkURLEscaper.Replace(url) + ")"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeText(lang entities.Language) string {
	l := labelsFor(lang)
	return md(l.Welcome) + "\n\n" + md(l.Help)
}

// topicButtonText prefixes a topic name with its load marker.
func topicButtonText(t entities.Topic, pending string, lang entities.Language) string {
	name := t.DisplayName(lang)
	switch {
	case t.ID == pending || t.State == entities.TopicLoading:
		return markLoading + " " + name
	case t.State == entities.TopicLoaded:
		return markLoaded + " " + name
	case t.State == entities.TopicError:
		return markError + " " + name
	default:
		return name
	}
}

func topicsText(view service.TopicListView) string {
	l := labelsFor(view.Language)
	if len(view.Topics) == 0 {
		return bold(l.SelectTopic) + "\n\n" + md(l.NoTopics)
	}
	return bold(l.SelectTopic)
}

func modeSelectText(topic entities.Topic, lang entities.Language) string {
	l := labelsFor(lang)
	return previewLink(topic.ImageURL) + bold(topic.DisplayName(lang)) + "\n\n" + md(l.ChooseMode)
}

func wordText(view service.WordView) string {
	l := labelsFor(view.Language)

	var sb strings.Builder
	sb.WriteString(previewLink(view.Word.Media.ImageURL))
	sb.WriteString(md(view.Topic.DisplayName(view.Language)))
	sb.WriteString(md(fmt.Sprintf(" · %d/%d", view.Index+1, view.Total)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(view.Word.SourceText))
	sb.WriteString("\n")
	sb.WriteString(md(view.Word.Translation(view.Language)))
	if view.Word.Example != "" {
		sb.WriteString("\n\n")
		sb.WriteString(italic(l.Example + ": " + view.Word.Example))
	}
	return sb.String()
}

// roundText renders a question. When res is set the outcome is appended.
func roundText(view service.RoundView, res *entities.Resolution) string {
	l := labelsFor(view.Language)

	var sb strings.Builder
	sb.WriteString(md(fmt.Sprintf("%s %d/%d · %s: %d · ⏱ %s: %d",
		l.Question, view.Round.Ordinal, view.Rounds,
		l.Score, view.Score,
		l.Time, view.Remaining,
	)))
	sb.WriteString("\n\n")
	sb.WriteString(bold(view.Round.Correct.SourceText))

	if res != nil {
		sb.WriteString("\n\n")
		switch {
		case res.Correct:
			sb.WriteString(md("✅ " + l.Correct))
		case res.TimedOut:
			sb.WriteString(md("⌛ " + l.TimeUp))
		default:
			sb.WriteString(md("❌ " + l.Wrong))
		}
		if !res.Correct {
			sb.WriteString(md(" " + l.Answer + ": " + view.Round.Correct.Translation(view.Language)))
		}
	}
	return sb.String()
}

// optionText labels an answer button, marking the outcome once the round is resolved.
func optionText(view service.RoundView, i int, res *entities.Resolution) string {
	text := view.Round.Options[i].Translation(view.Language)
	if res == nil {
		return text
	}
	switch {
	case i == res.CorrectIndex:
		return "✅ " + text
	case i == res.Selected:
		return "❌ " + text
	default:
		return text
	}
}

func summaryText(view service.SummaryView) string {
	l := labelsFor(view.Language)
	return bold(l.Summary) + md(" · "+view.Topic.DisplayName(view.Language)) + "\n\n" +
		md(fmt.Sprintf("%s: %d/%d", l.FinalScore, view.Summary.Score, view.Summary.Rounds)) + "\n" +
		md(fmt.Sprintf("%s: %d%%", l.Accuracy, view.Summary.Accuracy))
}

// errorText maps a session error to a message the learner can act on.
func errorText(err error, lang entities.Language) string {
	l := labelsFor(lang)

	var (
		insufficient *entities.InsufficientWordsError
		empty        *entities.EmptyTopicError
		manifest     *entities.ManifestError
		topicErr     *entities.TopicLoadError
	)
	switch {
	case errors.As(err, &insufficient):
		return md(fmt.Sprintf(l.NotEnoughWords, insufficient.TopicID, insufficient.Have, insufficient.Need))
	case errors.As(err, &empty):
		return md(l.EmptyTopic)
	case errors.As(err, &manifest):
		return md(l.ManifestFailed)
	case errors.As(err, &topicErr):
		return md(fmt.Sprintf(l.TopicFailed, topicErr.TopicID))
	default:
		return md(l.InternalError)
	}
}
