package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// SessionState is the screen the learner is on.
type SessionState int

const (
	StateTopicSelect SessionState = iota
	StateModeSelect
	StateLearning
	StateTesting
	StateSummary
)

func (s SessionState) String() string {
	switch s {
	case StateModeSelect:
		return "mode_select"
	case StateLearning:
		return "learning"
	case StateTesting:
		return "testing"
	case StateSummary:
		return "summary"
	default:
		return "topic_select"
	}
}

// Controller drives one learner through topic selection, flashcards and quizzes.
//
// All methods must be called from the event loop. Topic loads run on their own
// goroutine and post the result back to the loop; a result that arrives after
// the learner moved on is dropped.
type Controller struct {
	store    TopicStore
	renderer Renderer
	loop     EventLoop
	engine   *QuizEngine
	logger   *zap.Logger

	state     SessionState
	language  entities.Language
	topic     entities.Topic
	session   *entities.Session
	navigator *Navigator

	pendingID  string
	pendingSeq uint64
}

// NewController creates a controller on the topic selection screen.
func NewController(
	store TopicStore,
	renderer Renderer,
	loop EventLoop,
	quizCfg QuizConfig,
	options *OptionGenerator,
	lang entities.Language,
	logger *zap.Logger,
) *Controller {
	c := &Controller{
		store:    store,
		renderer: renderer,
		loop:     loop,
		logger:   logger,
		state:    StateTopicSelect,
		language: lang,
	}
	c.engine = NewQuizEngine(quizCfg, options, loop, c)
	return c
}

// ShowTopics renders the topic list, loading the manifest on first use.
func (c *Controller) ShowTopics(ctx context.Context) error {
	topics, err := c.store.ListTopics(ctx)
	if err != nil {
		c.logger.Error("failed to list topics", zap.Error(err))
		c.renderer.ShowError(err, c.language)
		return err
	}

	c.renderer.ShowTopics(TopicListView{
		Topics:   topics,
		Pending:  c.pendingID,
		Language: c.language,
	})
	return nil
}

// SelectTopic opens the topic. An unloaded topic is fetched in the background
// and the mode selection appears once its words arrive.
func (c *Controller) SelectTopic(ctx context.Context, id string) error {
	if c.state != StateTopicSelect {
		return c.invalid("select topic")
	}

	topic, ok := c.store.Topic(id)
	if !ok {
		return fmt.Errorf("%w: %s", entities.ErrTopicNotFound, id)
	}
	if topic.Loaded() {
		c.enterModeSelect(topic)
		return nil
	}
	if c.pendingID == id {
		return nil
	}

	c.pendingSeq++
	seq := c.pendingSeq
	c.pendingID = id

	if err := c.ShowTopics(ctx); err != nil {
		return err
	}

	go func() {
		words, err := c.store.LoadTopic(ctx, id)
		c.loop.Post(func() { c.topicLoaded(ctx, seq, id, words, err) })
	}()
	return nil
}

func (c *Controller) topicLoaded(ctx context.Context, seq uint64, id string, words []*entities.Word, err error) {
	if seq != c.pendingSeq || c.state != StateTopicSelect {
		c.logger.Debug("dropping stale topic load", zap.String("topic", id))
		return
	}
	c.pendingID = ""

	if err != nil {
		c.logger.Warn("failed to load topic", zap.String("topic", id), zap.Error(err))
		_ = c.ShowTopics(ctx)
		c.renderer.ShowError(err, c.language)
		return
	}

	topic, ok := c.store.Topic(id)
	if !ok {
		return
	}
	c.logger.Info("topic loaded", zap.String("topic", id), zap.Int("words", len(words)))
	c.enterModeSelect(topic)
}

func (c *Controller) enterModeSelect(topic entities.Topic) {
	c.topic = topic
	c.state = StateModeSelect
	c.renderer.ShowModeSelect(topic, c.language)
}

// StartLearning opens flashcards at the first word.
func (c *Controller) StartLearning() error {
	if c.state != StateModeSelect {
		return c.invalid("start learning")
	}

	nav, err := NewNavigator(c.topic.ID, c.topic.Words)
	if err != nil {
		c.renderer.ShowError(err, c.language)
		return err
	}

	c.navigator = nav
	c.session = entities.NewSession(c.topic.ID, entities.ModeLearning)
	c.state = StateLearning
	c.logger.Info("learning started",
		zap.String("session", c.session.ID.String()),
		zap.String("topic", c.topic.ID),
	)
	c.showWord()
	return nil
}

// NextWord moves to the next flashcard.
func (c *Controller) NextWord() error {
	if c.state != StateLearning {
		return c.invalid("next word")
	}
	c.navigator.Next()
	c.showWord()
	return nil
}

// PreviousWord moves to the previous flashcard.
func (c *Controller) PreviousWord() error {
	if c.state != StateLearning {
		return c.invalid("previous word")
	}
	c.navigator.Previous()
	c.showWord()
	return nil
}

// StartTesting begins a quiz from mode selection or restarts it from the summary.
func (c *Controller) StartTesting() error {
	if c.state != StateModeSelect && c.state != StateSummary {
		return c.invalid("start testing")
	}

	prev, prevSession := c.state, c.session
	c.state = StateTesting
	c.session = entities.NewSession(c.topic.ID, entities.ModeTesting)

	if err := c.engine.Start(c.topic.ID, c.topic.Words); err != nil {
		c.state, c.session = prev, prevSession
		c.renderer.ShowError(err, c.language)
		return err
	}

	c.logger.Info("quiz started",
		zap.String("session", c.session.ID.String()),
		zap.String("topic", c.topic.ID),
	)
	return nil
}

// Answer submits the option picked for the given round. Answers for rounds
// other than the open one are ignored.
func (c *Controller) Answer(ordinal, option int) error {
	if c.state != StateTesting {
		return c.invalid("answer")
	}

	current := c.engine.Current()
	if current == nil || current.Ordinal != ordinal {
		return nil
	}

	_, err := c.engine.CheckAnswer(option)
	return err
}

// Back abandons the current activity and returns to the topic list.
func (c *Controller) Back(ctx context.Context) error {
	c.engine.Stop()
	if c.session != nil {
		c.logger.Info("session closed",
			zap.String("session", c.session.ID.String()),
			zap.String("state", c.state.String()),
		)
	}

	c.navigator = nil
	c.session = nil
	c.topic = entities.Topic{}
	c.pendingID = ""
	c.pendingSeq++
	c.state = StateTopicSelect

	return c.ShowTopics(ctx)
}

// SetLanguage switches the UI language and redraws the current screen.
// An open quiz round keeps its options and countdown; a scored round keeps its outcome.
func (c *Controller) SetLanguage(ctx context.Context, lang entities.Language) error {
	c.language = lang

	switch c.state {
	case StateTopicSelect:
		return c.ShowTopics(ctx)
	case StateModeSelect:
		c.renderer.ShowModeSelect(c.topic, lang)
	case StateLearning:
		c.showWord()
	case StateTesting:
		round := c.engine.Current()
		if round == nil {
			break
		}
		if res, ok := c.engine.Resolution(); ok {
			c.renderer.ShowResolution(c.roundView(*round, res.Score, 0), res)
			break
		}
		c.renderer.ShowRound(c.roundView(*round, c.engine.Score(), c.engine.Remaining()))
	case StateSummary:
		if summary, ok := c.engine.Summary(); ok {
			c.renderer.ShowSummary(SummaryView{Topic: c.topic, Summary: summary, Language: lang})
		}
	}
	return nil
}

func (c *Controller) State() SessionState { return c.state }

func (c *Controller) Language() entities.Language { return c.language }

// ActiveTopic returns the topic of the current activity.
func (c *Controller) ActiveTopic() (entities.Topic, bool) {
	return c.topic, c.topic.ID != ""
}

// Session returns the running learning or testing session.
func (c *Controller) Session() *entities.Session { return c.session }

// Quiz exposes the engine for inspection.
func (c *Controller) Quiz() *QuizEngine { return c.engine }

// CurrentWord returns the flashcard under the cursor in learning mode.
func (c *Controller) CurrentWord() (*entities.Word, int, bool) {
	if c.state != StateLearning || c.navigator == nil {
		return nil, 0, false
	}
	return c.navigator.Current(), c.navigator.Index(), true
}

// RoundStarted implements QuizObserver.
func (c *Controller) RoundStarted(round entities.Round, score, remaining int) {
	c.renderer.ShowRound(c.roundView(round, score, remaining))
}

// CountdownTicked implements QuizObserver.
func (c *Controller) CountdownTicked(round entities.Round, score, remaining int) {
	c.renderer.UpdateCountdown(c.roundView(round, score, remaining))
}

// RoundResolved implements QuizObserver.
func (c *Controller) RoundResolved(round entities.Round, res entities.Resolution) {
	c.logger.Debug("round resolved",
		zap.Int("round", res.Ordinal),
		zap.Bool("correct", res.Correct),
		zap.Bool("timed_out", res.TimedOut),
		zap.Int("score", res.Score),
	)
	c.renderer.ShowResolution(c.roundView(round, res.Score, 0), res)
}

// QuizCompleted implements QuizObserver.
func (c *Controller) QuizCompleted(summary entities.Summary) {
	c.state = StateSummary
	if c.session != nil {
		c.logger.Info("quiz completed",
			zap.String("session", c.session.ID.String()),
			zap.String("topic", c.topic.ID),
			zap.Int("score", summary.Score),
			zap.Int("accuracy", summary.Accuracy),
		)
	}
	c.renderer.ShowSummary(SummaryView{Topic: c.topic, Summary: summary, Language: c.language})
}

func (c *Controller) showWord() {
	c.renderer.ShowWord(WordView{
		Topic:    c.topic,
		Word:     c.navigator.Current(),
		Index:    c.navigator.Index(),
		Total:    c.navigator.Len(),
		Language: c.language,
	})
}

func (c *Controller) roundView(round entities.Round, score, remaining int) RoundView {
	return RoundView{
		Topic:     c.topic,
		Round:     round,
		Rounds:    c.engine.Rounds(),
		Score:     score,
		Remaining: remaining,
		Language:  c.language,
	}
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s in %s", entities.ErrInvalidTransition, action, c.state)
}

// IsUserError reports whether err should be shown to the learner rather than logged as a failure.
func IsUserError(err error) bool {
	var insufficient *entities.InsufficientWordsError
	var empty *entities.EmptyTopicError
	return errors.Is(err, entities.ErrInvalidTransition) ||
		errors.Is(err, entities.ErrInvalidOption) ||
		errors.Is(err, entities.ErrTopicNotFound) ||
		errors.As(err, &insufficient) ||
		errors.As(err, &empty)
}
