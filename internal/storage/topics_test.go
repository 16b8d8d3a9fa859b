package storage

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

type fakeSource struct {
	mu          sync.Mutex
	manifest    []entities.TopicMeta
	manifestErr error
	topics      map[string]*entities.TopicData
	topicErr    error
	block       chan struct{}
	topicCalls  atomic.Int32
}

func (f *fakeSource) LoadManifest(_ context.Context) ([]entities.TopicMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.manifestErr != nil {
		return nil, f.manifestErr
	}
	return append([]entities.TopicMeta(nil), f.manifest...), nil
}

func (f *fakeSource) LoadTopicWords(_ context.Context, file string) (*entities.TopicData, error) {
	f.topicCalls.Add(1)
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topicErr != nil {
		return nil, f.topicErr
	}
	data, ok := f.topics[file]
	if !ok {
		return nil, errors.New("not found")
	}

	words := make([]*entities.Word, 0, len(data.Words))
	for _, w := range data.Words {
		c := *w
		words = append(words, &c)
	}
	return &entities.TopicData{Names: data.Names, Words: words}, nil
}

type fakeMedia struct{}

func (fakeMedia) Resolve(w *entities.Word) entities.Media {
	return entities.Media{AudioURL: "/audio/" + w.SourceText + ".mp3"}
}

func (fakeMedia) TopicImageURL(id string) string {
	return "/images/" + id + ".jpg"
}

func newAnimalsSource() *fakeSource {
	return &fakeSource{
		manifest: []entities.TopicMeta{
			{ID: "animals", SourceFile: "animals.json"},
			{ID: "colors", SourceFile: "colors.json"},
		},
		topics: map[string]*entities.TopicData{
			"animals.json": {
				Names: map[entities.Language]string{entities.LanguageEnglish: "Animals"},
				Words: []*entities.Word{
					{SourceText: "chat", Translations: map[entities.Language]string{entities.LanguageEnglish: "cat"}},
					{SourceText: "chien", Translations: map[entities.Language]string{entities.LanguageEnglish: "dog"}},
				},
			},
		},
	}
}

func TestListTopicsIsLazyAndOrdered(t *testing.T) {
	src := newAnimalsSource()
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())

	topics, err := store.ListTopics(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(topics) != 2 || topics[0].ID != "animals" || topics[1].ID != "colors" {
		t.Fatalf("unexpected topics: %+v", topics)
	}
	if topics[0].ImageURL != "/images/animals.jpg" {
		t.Fatalf("unexpected cover: %q", topics[0].ImageURL)
	}
	for _, tp := range topics {
		if tp.State != entities.TopicUnloaded || len(tp.Words) != 0 {
			t.Fatalf("expected metadata only, got %+v", tp)
		}
	}
	if src.topicCalls.Load() != 0 {
		t.Fatal("listing must not fetch word lists")
	}
}

func TestListTopicsManifestError(t *testing.T) {
	src := newAnimalsSource()
	src.manifestErr = errors.New("boom")
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())

	_, err := store.ListTopics(context.Background())
	var me *entities.ManifestError
	if !errors.As(err, &me) {
		t.Fatalf("expected ManifestError, got %v", err)
	}

	src.manifestErr = nil
	if _, err := store.ListTopics(context.Background()); err != nil {
		t.Fatalf("retry after manifest error: %v", err)
	}
}

func TestLoadTopicCachesAndResolvesMedia(t *testing.T) {
	src := newAnimalsSource()
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())
	ctx := context.Background()

	if _, err := store.ListTopics(ctx); err != nil {
		t.Fatal(err)
	}

	words, err := store.LoadTopic(ctx, "animals")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[0].Media.AudioURL != "/audio/chat.mp3" {
		t.Fatalf("unexpected words: %+v", words)
	}

	again, err := store.LoadTopic(ctx, "animals")
	if err != nil {
		t.Fatal(err)
	}
	if again[0] != words[0] {
		t.Fatal("expected cached word pointers")
	}
	if src.topicCalls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", src.topicCalls.Load())
	}

	tp, ok := store.Topic("animals")
	if !ok || !tp.Loaded() || tp.DisplayName(entities.LanguageUkrainian) != "Animals" {
		t.Fatalf("unexpected topic snapshot: %+v", tp)
	}
}

func TestLoadTopicUnknown(t *testing.T) {
	store := NewTopicStore(newAnimalsSource(), fakeMedia{}, zap.NewNop())
	if _, err := store.ListTopics(context.Background()); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadTopic(context.Background(), "space")
	if !errors.Is(err, entities.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestLoadTopicErrorThenRetry(t *testing.T) {
	src := newAnimalsSource()
	src.topicErr = errors.New("503")
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())
	ctx := context.Background()

	if _, err := store.ListTopics(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadTopic(ctx, "animals")
	var le *entities.TopicLoadError
	if !errors.As(err, &le) || le.TopicID != "animals" {
		t.Fatalf("expected TopicLoadError, got %v", err)
	}

	tp, _ := store.Topic("animals")
	if tp.State != entities.TopicError || tp.Err == nil {
		t.Fatalf("expected error state, got %v", tp.State)
	}

	src.mu.Lock()
	src.topicErr = nil
	src.mu.Unlock()

	if _, err := store.LoadTopic(ctx, "animals"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	tp, _ = store.Topic("animals")
	if tp.State != entities.TopicLoaded || tp.Err != nil {
		t.Fatalf("expected loaded after retry, got %v (%v)", tp.State, tp.Err)
	}
}

func TestFetchAfterCompletedFlightKeepsWords(t *testing.T) {
	src := newAnimalsSource()
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())
	ctx := context.Background()

	if _, err := store.ListTopics(ctx); err != nil {
		t.Fatal(err)
	}
	words, err := store.LoadTopic(ctx, "animals")
	if err != nil {
		t.Fatal(err)
	}

	// A caller that saw the topic loading before the first flight ended.
	again, err := store.fetchTopic(ctx, "animals", "animals.json")
	if err != nil {
		t.Fatal(err)
	}
	if again[0] != words[0] {
		t.Fatal("a late flight must not replace the loaded word pointers")
	}
	if n := src.topicCalls.Load(); n != 1 {
		t.Fatalf("expected a single fetch, got %d", n)
	}
}

func TestLoadTopicSharesInFlightFetch(t *testing.T) {
	src := newAnimalsSource()
	src.block = make(chan struct{})
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())
	ctx := context.Background()

	if _, err := store.ListTopics(ctx); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([][]*entities.Word, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			words, err := store.LoadTopic(ctx, "animals")
			if err != nil {
				t.Errorf("load %d: %v", i, err)
			}
			results[i] = words
		}(i)
	}

	for src.topicCalls.Load() == 0 {
		runtime.Gosched()
	}
	close(src.block)
	wg.Wait()

	if results[0][0] != results[1][0] {
		t.Fatal("expected both callers to receive the same word list")
	}
	if n := src.topicCalls.Load(); n != 1 {
		t.Fatalf("expected a single fetch, got %d", n)
	}
}

func TestRefreshManifestOnlyAdds(t *testing.T) {
	src := newAnimalsSource()
	store := NewTopicStore(src, fakeMedia{}, zap.NewNop())
	ctx := context.Background()

	if _, err := store.ListTopics(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadTopic(ctx, "animals"); err != nil {
		t.Fatal(err)
	}

	src.mu.Lock()
	src.manifest = []entities.TopicMeta{
		{ID: "food", SourceFile: "food.json"},
		{ID: "animals", SourceFile: "other.json"},
	}
	src.mu.Unlock()

	added, err := store.RefreshManifest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Fatalf("expected 1 new topic, got %d", added)
	}

	topics, _ := store.ListTopics(ctx)
	if len(topics) != 3 || topics[2].ID != "food" {
		t.Fatalf("unexpected topics after refresh: %+v", topics)
	}
	if topics[0].SourceFile != "animals.json" || !topics[0].Loaded() {
		t.Fatal("existing topic must stay untouched")
	}
}
