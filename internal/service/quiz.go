package service

import (
	"fmt"
	"time"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

const (
	correctReward = 1
	wrongPenalty  = 2
)

// QuizConfig holds the quiz pacing.
type QuizConfig struct {
	Rounds       int           // questions per quiz
	Countdown    int           // ticks per question
	Tick         time.Duration // countdown tick length
	CorrectDelay time.Duration // pause after a correct answer
	WrongDelay   time.Duration // pause after a wrong answer or timeout
}

// DefaultQuizConfig returns ten questions with a ten second countdown.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		Rounds:       10,
		Countdown:    10,
		Tick:         time.Second,
		CorrectDelay: time.Second,
		WrongDelay:   1500 * time.Millisecond,
	}
}

// QuizState is the phase of the quiz engine.
type QuizState int

const (
	QuizIdle QuizState = iota
	QuizAwaitingAnswer
	QuizScored
	QuizComplete
)

func (s QuizState) String() string {
	switch s {
	case QuizAwaitingAnswer:
		return "awaiting_answer"
	case QuizScored:
		return "scored"
	case QuizComplete:
		return "complete"
	default:
		return "idle"
	}
}

// QuizObserver receives quiz events. Calls happen on the event loop.
type QuizObserver interface {
	RoundStarted(round entities.Round, score, remaining int)
	CountdownTicked(round entities.Round, score, remaining int)
	RoundResolved(round entities.Round, res entities.Resolution)
	QuizCompleted(summary entities.Summary)
}

// QuizEngine runs a timed multiple-choice quiz over one topic.
//
// It is not safe for concurrent use: every method and every scheduled callback
// must run on the same event loop. At most one countdown and one advance timer
// are pending; callbacks from superseded timers are ignored.
type QuizEngine struct {
	cfg       QuizConfig
	options   *OptionGenerator
	scheduler Scheduler
	observer  QuizObserver
	now       func() time.Time

	topicID   string
	words     []*entities.Word
	state     QuizState
	round     int
	score     int
	remaining int
	current   *entities.Round
	resolved  *entities.Resolution
	summary   *entities.Summary

	countdown  Timer
	advance    Timer
	generation uint64
}

// NewQuizEngine creates an idle engine. A nil observer discards events.
func NewQuizEngine(cfg QuizConfig, options *OptionGenerator, scheduler Scheduler, observer QuizObserver) *QuizEngine {
	if observer == nil {
		observer = noopObserver{}
	}
	return &QuizEngine{
		cfg:       cfg,
		options:   options,
		scheduler: scheduler,
		observer:  observer,
		now:       time.Now,
	}
}

// Start resets the engine for the topic and opens the first round.
func (e *QuizEngine) Start(topicID string, words []*entities.Word) error {
	if len(words) < entities.MinQuizWords {
		return &entities.InsufficientWordsError{TopicID: topicID, Have: len(words), Need: entities.MinQuizWords}
	}

	e.topicID = topicID
	e.words = words
	e.Reset()
	return e.GenerateQuestion()
}

// Reset cancels pending timers and zeroes the round counter and score.
func (e *QuizEngine) Reset() {
	e.cancelTimers()
	e.state = QuizIdle
	e.round = 0
	e.score = 0
	e.remaining = 0
	e.current = nil
	e.resolved = nil
	e.summary = nil
}

// GenerateQuestion opens the next round or completes the quiz after the last one.
func (e *QuizEngine) GenerateQuestion() error {
	if len(e.words) < entities.MinQuizWords {
		return &entities.InsufficientWordsError{TopicID: e.topicID, Have: len(e.words), Need: entities.MinQuizWords}
	}
	if e.state == QuizComplete {
		return fmt.Errorf("%w: quiz is complete", entities.ErrInvalidTransition)
	}

	e.cancelTimers()
	e.resolved = nil
	e.round++
	if e.round > e.cfg.Rounds {
		e.complete()
		return nil
	}

	correct := e.options.PickCorrect(e.words)
	opts, idx := e.options.GenerateOptions(correct, e.words)

	e.remaining = e.cfg.Countdown
	e.current = &entities.Round{
		Ordinal:      e.round,
		Correct:      correct,
		Options:      opts,
		CorrectIndex: idx,
		Deadline:     e.now().Add(time.Duration(e.cfg.Countdown) * e.cfg.Tick),
	}
	e.state = QuizAwaitingAnswer

	e.observer.RoundStarted(*e.current, e.score, e.remaining)

	gen := e.generation
	e.countdown = e.scheduler.Schedule(e.cfg.Tick, func() { e.tick(gen) })
	return nil
}

// CheckAnswer scores the selected option of the current round.
// Outside an open round it does nothing and reports false.
func (e *QuizEngine) CheckAnswer(selected int) (bool, error) {
	if e.state != QuizAwaitingAnswer || e.current == nil {
		return false, nil
	}
	if selected < 0 || selected >= len(e.current.Options) {
		return false, fmt.Errorf("%w: %d", entities.ErrInvalidOption, selected)
	}

	e.resolve(selected, selected == e.current.CorrectIndex, false)
	return true, nil
}

// HandleTimeout resolves the current round as unanswered. It reports whether a round was open.
func (e *QuizEngine) HandleTimeout() bool {
	if e.state != QuizAwaitingAnswer || e.current == nil {
		return false
	}
	e.resolve(-1, false, true)
	return true
}

// Stop cancels all pending timers and returns the engine to idle.
func (e *QuizEngine) Stop() {
	e.cancelTimers()
	e.state = QuizIdle
	e.current = nil
	e.resolved = nil
}

func (e *QuizEngine) State() QuizState { return e.state }

func (e *QuizEngine) Score() int { return e.score }

func (e *QuizEngine) Round() int { return e.round }

func (e *QuizEngine) Remaining() int { return e.remaining }

func (e *QuizEngine) Rounds() int { return e.cfg.Rounds }

// Current returns the open or just scored round, nil otherwise.
func (e *QuizEngine) Current() *entities.Round { return e.current }

// Resolution returns the outcome of the current round while it waits to advance.
func (e *QuizEngine) Resolution() (entities.Resolution, bool) {
	if e.state != QuizScored || e.resolved == nil {
		return entities.Resolution{}, false
	}
	return *e.resolved, true
}

// Summary returns the result of a completed quiz.
func (e *QuizEngine) Summary() (entities.Summary, bool) {
	if e.summary == nil {
		return entities.Summary{}, false
	}
	return *e.summary, true
}

func (e *QuizEngine) tick(gen uint64) {
	if gen != e.generation || e.state != QuizAwaitingAnswer {
		return
	}

	e.countdown = nil
	if e.remaining > 0 {
		e.remaining--
	}
	e.observer.CountdownTicked(*e.current, e.score, e.remaining)

	if e.remaining == 0 {
		e.HandleTimeout()
		return
	}
	e.countdown = e.scheduler.Schedule(e.cfg.Tick, func() { e.tick(gen) })
}

func (e *QuizEngine) resolve(selected int, correct, timedOut bool) {
	e.cancelTimers()
	e.state = QuizScored

	delay := e.cfg.WrongDelay
	if correct {
		e.score += correctReward
		delay = e.cfg.CorrectDelay
	} else {
		e.score = max(0, e.score-wrongPenalty)
	}

	res := entities.Resolution{
		Ordinal:      e.current.Ordinal,
		Selected:     selected,
		CorrectIndex: e.current.CorrectIndex,
		Correct:      correct,
		TimedOut:     timedOut,
		Score:        e.score,
		Delay:        delay,
	}
	e.resolved = &res
	e.observer.RoundResolved(*e.current, res)

	gen := e.generation
	e.advance = e.scheduler.Schedule(delay, func() { e.advanceRound(gen) })
}

func (e *QuizEngine) advanceRound(gen uint64) {
	if gen != e.generation || e.state != QuizScored {
		return
	}
	e.advance = nil
	if err := e.GenerateQuestion(); err != nil {
		e.Stop()
	}
}

func (e *QuizEngine) complete() {
	e.state = QuizComplete
	e.current = nil
	e.remaining = 0

	summary := entities.NewSummary(e.score, e.cfg.Rounds)
	e.summary = &summary
	e.observer.QuizCompleted(summary)
}

// cancelTimers stops pending callbacks and invalidates any already queued.
func (e *QuizEngine) cancelTimers() {
	e.generation++
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
	if e.advance != nil {
		e.advance.Stop()
		e.advance = nil
	}
}

type noopObserver struct{}

func (noopObserver) RoundStarted(entities.Round, int, int)             {}
func (noopObserver) CountdownTicked(entities.Round, int, int)          {}
func (noopObserver) RoundResolved(entities.Round, entities.Resolution) {}
func (noopObserver) QuizCompleted(entities.Summary)                    {}
