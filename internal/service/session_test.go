package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

type controllerFixture struct {
	c        *Controller
	store    *fakeStore
	loop     *fakeLoop
	renderer *recordingRenderer
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		store:    newFakeStore(),
		loop:     newFakeLoop(),
		renderer: &recordingRenderer{},
	}
	f.c = NewController(
		f.store,
		f.renderer,
		f.loop,
		DefaultQuizConfig(),
		NewOptionGenerator(rand.New(rand.NewSource(11))),
		entities.LanguageEnglish,
		zap.NewNop(),
	)
	return f
}

// open selects the topic and waits for the background load to land.
func (f *controllerFixture) open(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	if err := f.c.SelectTopic(ctx, id); err != nil {
		t.Fatalf("SelectTopic(%q): %v", id, err)
	}
	if f.c.State() != StateModeSelect {
		f.loop.runPosted(t)
	}
	if f.c.State() != StateModeSelect {
		t.Fatalf("state = %s, want mode_select", f.c.State())
	}
}

func TestAnimalsQuizScenario(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))

	if err := f.c.ShowTopics(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.open(t, "animals")

	if err := f.c.StartTesting(); err != nil {
		t.Fatal(err)
	}
	if f.c.State() != StateTesting || len(f.renderer.rounds) != 1 {
		t.Fatalf("state = %s rounds rendered = %d", f.c.State(), len(f.renderer.rounds))
	}
	first := f.renderer.rounds[0]
	if first.Round.Ordinal != 1 || len(first.Round.Options) != 4 || first.Remaining != 10 || first.Rounds != 10 {
		t.Errorf("first round view = %+v", first)
	}

	if err := f.c.Answer(1, first.Round.CorrectIndex); err != nil {
		t.Fatal(err)
	}
	if f.c.Quiz().Score() != 1 || len(f.renderer.resolutions) != 1 {
		t.Errorf("score = %d resolutions = %d", f.c.Quiz().Score(), len(f.renderer.resolutions))
	}

	f.loop.fire(t)
	if len(f.renderer.rounds) != 2 || f.renderer.rounds[1].Round.Ordinal != 2 {
		t.Fatalf("second round not shown: %d rounds", len(f.renderer.rounds))
	}

	second := f.c.Quiz().Current()
	_ = f.c.Answer(2, second.CorrectIndex)
	f.loop.fire(t)

	third := f.c.Quiz().Current()
	_ = f.c.Answer(3, (third.CorrectIndex+1)%len(third.Options))
	if f.c.Quiz().Score() != 0 {
		t.Errorf("score after wrong answer = %d, want 2-2 = 0", f.c.Quiz().Score())
	}
	res := f.renderer.resolutions[len(f.renderer.resolutions)-1]
	if res.Correct || res.Ordinal != 3 {
		t.Errorf("resolution = %+v", res)
	}

	if d := f.loop.fire(t); d != 1500*time.Millisecond {
		t.Errorf("advance delay = %v", d)
	}
	if f.c.Quiz().Current().Ordinal != 4 {
		t.Errorf("round = %d, want 4", f.c.Quiz().Current().Ordinal)
	}
}

func TestPerfectQuizShowsSummary(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(6))
	f.open(t, "animals")
	_ = f.c.StartTesting()

	for i := 1; i <= 10; i++ {
		round := f.c.Quiz().Current()
		if err := f.c.Answer(i, round.CorrectIndex); err != nil {
			t.Fatal(err)
		}
		f.loop.fire(t)
	}

	if f.c.State() != StateSummary {
		t.Fatalf("state = %s, want summary", f.c.State())
	}
	if len(f.renderer.summaries) != 1 {
		t.Fatalf("summaries = %d", len(f.renderer.summaries))
	}
	if s := f.renderer.summaries[0].Summary; s.Score != 10 || s.Accuracy != 100 {
		t.Errorf("summary = %+v", s)
	}

	// the quiz can be replayed from the summary
	if err := f.c.StartTesting(); err != nil {
		t.Fatal(err)
	}
	if f.c.Quiz().Score() != 0 || f.c.Quiz().Round() != 1 {
		t.Errorf("restart: score = %d round = %d", f.c.Quiz().Score(), f.c.Quiz().Round())
	}
}

func TestSmallTopicCanBeLearnedButNotTested(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("tiny", makeWords(3))
	f.open(t, "tiny")

	err := f.c.StartTesting()
	var insufficient *entities.InsufficientWordsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("StartTesting err = %v, want InsufficientWordsError", err)
	}
	if f.c.State() != StateModeSelect || len(f.renderer.rounds) != 0 {
		t.Errorf("state = %s rounds = %d", f.c.State(), len(f.renderer.rounds))
	}
	if len(f.renderer.errors) != 1 {
		t.Errorf("errors shown = %d, want 1", len(f.renderer.errors))
	}

	if err := f.c.StartLearning(); err != nil {
		t.Fatalf("StartLearning: %v", err)
	}
	if f.c.State() != StateLearning || len(f.renderer.words) != 1 {
		t.Errorf("state = %s words shown = %d", f.c.State(), len(f.renderer.words))
	}
}

func TestLearningNavigation(t *testing.T) {
	f := newControllerFixture(t)
	words := makeWords(3)
	f.store.add("colors", words)
	f.open(t, "colors")
	_ = f.c.StartLearning()

	_ = f.c.PreviousWord()
	if w, idx, _ := f.c.CurrentWord(); w != words[2] || idx != 2 {
		t.Errorf("after Previous: idx = %d", idx)
	}
	_ = f.c.NextWord()
	_ = f.c.NextWord()
	if w, idx, _ := f.c.CurrentWord(); w != words[1] || idx != 1 {
		t.Errorf("after two Next: idx = %d", idx)
	}

	last := f.renderer.words[len(f.renderer.words)-1]
	if last.Total != 3 || last.Index != 1 || last.Topic.ID != "colors" {
		t.Errorf("word view = %+v", last)
	}
}

func TestEmptyTopicCannotBeLearned(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("empty", nil)
	f.open(t, "empty")

	err := f.c.StartLearning()
	var empty *entities.EmptyTopicError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyTopicError", err)
	}
	if f.c.State() != StateModeSelect {
		t.Errorf("state = %s", f.c.State())
	}
}

func TestStaleTopicLoadIsDropped(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	gate := f.store.gate("animals")
	ctx := context.Background()

	if err := f.c.SelectTopic(ctx, "animals"); err != nil {
		t.Fatal(err)
	}
	if last := f.renderer.topics[len(f.renderer.topics)-1]; last.Pending != "animals" {
		t.Errorf("pending = %q, want animals", last.Pending)
	}

	if err := f.c.Back(ctx); err != nil {
		t.Fatal(err)
	}
	close(gate)
	f.loop.runPosted(t)

	if f.c.State() != StateTopicSelect || len(f.renderer.modeSelects) != 0 {
		t.Errorf("state = %s mode selects = %d, late load must be dropped", f.c.State(), len(f.renderer.modeSelects))
	}
	if last := f.renderer.topics[len(f.renderer.topics)-1]; last.Pending != "" {
		t.Errorf("pending = %q after back", last.Pending)
	}
}

func TestLatestTopicSelectionWins(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.store.add("colors", makeWords(5))
	gate := f.store.gate("animals")
	ctx := context.Background()

	_ = f.c.SelectTopic(ctx, "animals")
	_ = f.c.SelectTopic(ctx, "colors")
	f.loop.runPosted(t)

	topic, ok := f.c.ActiveTopic()
	if !ok || topic.ID != "colors" || f.c.State() != StateModeSelect {
		t.Fatalf("active = %q state = %s", topic.ID, f.c.State())
	}

	close(gate)
	f.loop.runPosted(t)
	if topic, _ := f.c.ActiveTopic(); topic.ID != "colors" || len(f.renderer.modeSelects) != 1 {
		t.Errorf("stale load replaced the active topic: %q", topic.ID)
	}
}

func TestTopicLoadErrorThenRetry(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.store.failWith("animals", errors.New("connection reset"))
	ctx := context.Background()

	_ = f.c.SelectTopic(ctx, "animals")
	f.loop.runPosted(t)

	var loadErr *entities.TopicLoadError
	if len(f.renderer.errors) != 1 || !errors.As(f.renderer.errors[0], &loadErr) {
		t.Fatalf("errors = %v, want TopicLoadError", f.renderer.errors)
	}
	if f.c.State() != StateTopicSelect {
		t.Fatalf("state = %s", f.c.State())
	}
	last := f.renderer.topics[len(f.renderer.topics)-1]
	if last.Topics[0].State != entities.TopicError || last.Pending != "" {
		t.Errorf("topic list = %+v", last)
	}

	f.open(t, "animals")
}

func TestBackCancelsQuizTimers(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.open(t, "animals")
	_ = f.c.StartTesting()
	tick := f.loop.pending()[0]

	if err := f.c.Back(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(f.loop.pending()) != 0 {
		t.Fatal("timers still pending after back")
	}
	tick.fn()
	if len(f.renderer.countdowns) != 0 {
		t.Error("countdown rendered after back")
	}
	if f.c.State() != StateTopicSelect || f.c.Session() != nil {
		t.Errorf("state = %s", f.c.State())
	}
}

func TestStaleAnswerIgnored(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.open(t, "animals")
	_ = f.c.StartTesting()

	round := f.c.Quiz().Current()
	if err := f.c.Answer(round.Ordinal+1, round.CorrectIndex); err != nil {
		t.Fatal(err)
	}
	if f.c.Quiz().State() != QuizAwaitingAnswer {
		t.Error("answer for another round resolved the current one")
	}
}

func TestInvalidTransitions(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))

	checks := map[string]func() error{
		"next":     f.c.NextWord,
		"previous": f.c.PreviousWord,
		"learn":    f.c.StartLearning,
		"test":     f.c.StartTesting,
		"answer":   func() error { return f.c.Answer(1, 0) },
	}
	for name, fn := range checks {
		if err := fn(); !errors.Is(err, entities.ErrInvalidTransition) {
			t.Errorf("%s in topic_select: err = %v", name, err)
		}
	}

	f.open(t, "animals")
	_ = f.c.StartLearning()
	if err := f.c.SelectTopic(context.Background(), "animals"); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Errorf("select topic while learning: err = %v", err)
	}
}

func TestUnknownTopic(t *testing.T) {
	f := newControllerFixture(t)

	err := f.c.SelectTopic(context.Background(), "missing")
	if !errors.Is(err, entities.ErrTopicNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestManifestErrorIsShown(t *testing.T) {
	f := newControllerFixture(t)
	f.store.listErr = errors.New("404")

	err := f.c.ShowTopics(context.Background())

	var manifestErr *entities.ManifestError
	if !errors.As(err, &manifestErr) || len(f.renderer.errors) != 1 {
		t.Errorf("err = %v shown = %d", err, len(f.renderer.errors))
	}
}

func TestSetLanguageKeepsRound(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.open(t, "animals")
	_ = f.c.StartTesting()
	f.loop.fire(t)
	before := f.c.Quiz().Current()

	if err := f.c.SetLanguage(context.Background(), entities.LanguageUkrainian); err != nil {
		t.Fatal(err)
	}

	if f.c.Quiz().Current() != before || f.c.Quiz().Round() != 1 {
		t.Error("language change must not start a new round")
	}
	last := f.renderer.rounds[len(f.renderer.rounds)-1]
	if last.Language != entities.LanguageUkrainian || last.Remaining != 9 {
		t.Errorf("rerendered view = %+v", last)
	}
	if f.c.Language() != entities.LanguageUkrainian {
		t.Errorf("language = %s", f.c.Language())
	}
}

func TestSetLanguageKeepsScoredRoundResolved(t *testing.T) {
	f := newControllerFixture(t)
	f.store.add("animals", makeWords(5))
	f.open(t, "animals")
	_ = f.c.StartTesting()

	round := f.c.Quiz().Current()
	wrong := (round.CorrectIndex + 1) % len(round.Options)
	if err := f.c.Answer(round.Ordinal, wrong); err != nil {
		t.Fatal(err)
	}
	rounds, resolutions := len(f.renderer.rounds), len(f.renderer.resolutions)

	if err := f.c.SetLanguage(context.Background(), entities.LanguageUkrainian); err != nil {
		t.Fatal(err)
	}

	if f.c.Quiz().State() != QuizScored || f.c.Quiz().Round() != 1 {
		t.Fatalf("state = %s round = %d, want scored round 1", f.c.Quiz().State(), f.c.Quiz().Round())
	}
	if len(f.renderer.rounds) != rounds {
		t.Error("a scored round must not be redrawn as an open question")
	}
	if len(f.renderer.resolutions) != resolutions+1 {
		t.Fatalf("resolutions = %d, want %d", len(f.renderer.resolutions), resolutions+1)
	}
	res := f.renderer.resolutions[len(f.renderer.resolutions)-1]
	if res.Selected != wrong || res.CorrectIndex != round.CorrectIndex || res.Correct {
		t.Errorf("redrawn resolution = %+v", res)
	}

	f.loop.fire(t)
	if _, ok := f.c.Quiz().Resolution(); ok || f.c.Quiz().Round() != 2 {
		t.Error("next round must clear the resolution")
	}
}
