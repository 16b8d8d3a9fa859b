package telegram

import (
	"strconv"
	"strings"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionTopic  = "topic"
	actionMode   = "mode"
	actionLearn  = "learn"
	actionAnswer = "answer"
	actionBack   = "back"
	actionLang   = "lang"
	actionAudio  = "audio"
	actionNoop   = "noop"
)

// Mode sub-actions.
const (
	modeLearn = "learn"
	modeTest  = "test"
)

// Learning sub-actions.
const (
	learnNext = "next"
	learnPrev = "prev"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < len(cd.Params) {
		return cd.Params[i]
	}
	return ""
}

// intParam parses the i-th parameter as a non-negative integer.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// buildTopicCallback selects or retries a topic. Topic ids never contain ':'.
func buildTopicCallback(id string) string {
	return callbackData{Action: actionTopic, Params: []string{id}}.encode()
}

func buildModeCallback(mode string) string {
	return callbackData{Action: actionMode, Params: []string{mode}}.encode()
}

func buildLearnCallback(direction string) string {
	return callbackData{Action: actionLearn, Params: []string{direction}}.encode()
}

// buildAnswerCallback ties an option to its round so late clicks can be recognised.
func buildAnswerCallback(ordinal, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(ordinal), strconv.Itoa(option)},
	}.encode()
}

func buildBackCallback() string {
	return actionBack
}

func buildLanguageCallback(lang entities.Language) string {
	return callbackData{Action: actionLang, Params: []string{string(lang)}}.encode()
}

func buildAudioCallback() string {
	return actionAudio
}

func buildNoopCallback() string {
	return actionNoop
}
