package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeLoop records scheduled callbacks and fires them on demand.
type fakeLoop struct {
	timers []*fakeTimer
	posted chan func()
}

func newFakeLoop() *fakeLoop {
	return &fakeLoop{posted: make(chan func(), 16)}
}

func (l *fakeLoop) Schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{d: d, fn: fn}
	l.timers = append(l.timers, t)
	return t
}

func (l *fakeLoop) Post(fn func()) {
	l.posted <- fn
}

func (l *fakeLoop) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range l.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the single pending timer and returns its delay.
func (l *fakeLoop) fire(t *testing.T) time.Duration {
	t.Helper()
	p := l.pending()
	if len(p) != 1 {
		t.Fatalf("pending timers = %d, want 1", len(p))
	}
	p[0].fired = true
	p[0].fn()
	return p[0].d
}

// runPosted executes the next event posted from another goroutine.
func (l *fakeLoop) runPosted(t *testing.T) {
	t.Helper()
	select {
	case fn := <-l.posted:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no event posted")
	}
}

type recordingObserver struct {
	started   []entities.Round
	ticks     []int
	resolved  []entities.Resolution
	completed []entities.Summary
}

func (o *recordingObserver) RoundStarted(r entities.Round, _, _ int) {
	o.started = append(o.started, r)
}

func (o *recordingObserver) CountdownTicked(_ entities.Round, _, remaining int) {
	o.ticks = append(o.ticks, remaining)
}

func (o *recordingObserver) RoundResolved(_ entities.Round, res entities.Resolution) {
	o.resolved = append(o.resolved, res)
}

func (o *recordingObserver) QuizCompleted(s entities.Summary) {
	o.completed = append(o.completed, s)
}

type recordingRenderer struct {
	topics      []TopicListView
	modeSelects []entities.Topic
	words       []WordView
	rounds      []RoundView
	countdowns  []RoundView
	resolutions []entities.Resolution
	summaries   []SummaryView
	errors      []error
}

func (r *recordingRenderer) ShowTopics(v TopicListView) { r.topics = append(r.topics, v) }

func (r *recordingRenderer) ShowModeSelect(t entities.Topic, _ entities.Language) {
	r.modeSelects = append(r.modeSelects, t)
}

func (r *recordingRenderer) ShowWord(v WordView) { r.words = append(r.words, v) }

func (r *recordingRenderer) ShowRound(v RoundView) { r.rounds = append(r.rounds, v) }

func (r *recordingRenderer) UpdateCountdown(v RoundView) { r.countdowns = append(r.countdowns, v) }

func (r *recordingRenderer) ShowResolution(_ RoundView, res entities.Resolution) {
	r.resolutions = append(r.resolutions, res)
}

func (r *recordingRenderer) ShowSummary(v SummaryView) { r.summaries = append(r.summaries, v) }

func (r *recordingRenderer) ShowError(err error, _ entities.Language) {
	r.errors = append(r.errors, err)
}

// fakeStore is an in-memory TopicStore. LoadTopic may be gated per topic.
type fakeStore struct {
	mu      sync.Mutex
	order   []string
	topics  map[string]*entities.Topic
	data    map[string][]*entities.Word
	loadErr map[string]error
	gates   map[string]chan struct{}
	listErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		topics:  make(map[string]*entities.Topic),
		data:    make(map[string][]*entities.Word),
		loadErr: make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (s *fakeStore) add(id string, words []*entities.Word) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, id)
	s.topics[id] = &entities.Topic{ID: id, SourceFile: id + ".json"}
	s.data[id] = words
}

func (s *fakeStore) gate(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[id] = ch
	return ch
}

func (s *fakeStore) failWith(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr[id] = err
}

func (s *fakeStore) ListTopics(context.Context) ([]entities.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, &entities.ManifestError{Err: s.listErr}
	}
	out := make([]entities.Topic, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.topics[id])
	}
	return out, nil
}

func (s *fakeStore) Topic(id string) (entities.Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.topics[id]
	if !ok {
		return entities.Topic{}, false
	}
	return *t, true
}

func (s *fakeStore) LoadTopic(_ context.Context, id string) ([]*entities.Word, error) {
	s.mu.Lock()
	gate := s.gates[id]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.topics[id]
	if err := s.loadErr[id]; err != nil {
		delete(s.loadErr, id)
		t.State = entities.TopicError
		t.Err = err
		return nil, &entities.TopicLoadError{TopicID: id, Err: err}
	}
	t.Words = s.data[id]
	t.State = entities.TopicLoaded
	t.Err = nil
	return t.Words, nil
}

func makeWords(n int) []*entities.Word {
	words := make([]*entities.Word, n)
	for i := range words {
		words[i] = &entities.Word{
			SourceText: fmt.Sprintf("mot%d", i),
			Translations: map[entities.Language]string{
				entities.LanguageEnglish:   fmt.Sprintf("word%d", i),
				entities.LanguageUkrainian: fmt.Sprintf("слово%d", i),
			},
		}
	}
	return words
}
