package service

import (
	"context"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// TopicStore provides the topic catalog and lazily loaded word lists.
type TopicStore interface {
	ListTopics(ctx context.Context) ([]entities.Topic, error)
	Topic(id string) (entities.Topic, bool)
	LoadTopic(ctx context.Context, id string) ([]*entities.Word, error)
}

// ManifestStore re-reads the manifest.
type ManifestStore interface {
	RefreshManifest(ctx context.Context) (int, error)
}

// TopicListView is the topic selection screen.
type TopicListView struct {
	Topics   []entities.Topic
	Pending  string // topic whose load is in flight
	Language entities.Language
}

// WordView is a flashcard.
type WordView struct {
	Topic    entities.Topic
	Word     *entities.Word
	Index    int // zero-based cursor
	Total    int
	Language entities.Language
}

// RoundView is a quiz question with its running state.
type RoundView struct {
	Topic     entities.Topic
	Round     entities.Round
	Rounds    int
	Score     int
	Remaining int
	Language  entities.Language
}

// SummaryView is the quiz result screen.
type SummaryView struct {
	Topic    entities.Topic
	Summary  entities.Summary
	Language entities.Language
}

// Renderer draws session screens. Calls happen on the event loop.
type Renderer interface {
	ShowTopics(view TopicListView)
	ShowModeSelect(topic entities.Topic, lang entities.Language)
	ShowWord(view WordView)
	ShowRound(view RoundView)
	UpdateCountdown(view RoundView)
	ShowResolution(view RoundView, res entities.Resolution)
	ShowSummary(view SummaryView)
	ShowError(err error, lang entities.Language)
}
