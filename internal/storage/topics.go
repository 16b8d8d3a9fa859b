package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// VocabularySource fetches the manifest and topic files.
type VocabularySource interface {
	LoadManifest(ctx context.Context) ([]entities.TopicMeta, error)
	LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error)
}

// MediaResolver maps words and topics to their asset URLs.
type MediaResolver interface {
	Resolve(w *entities.Word) entities.Media
	TopicImageURL(topicID string) string
}

const manifestKey = "\x00manifest"

// TopicStore keeps topic metadata and lazily loaded word lists in memory.
// Topics are added when the manifest is read and never removed.
type TopicStore struct {
	source VocabularySource
	media  MediaResolver
	logger *zap.Logger

	mu             sync.RWMutex
	topics         map[string]*entities.Topic
	order          []string
	manifestLoaded bool

	flight singleflight.Group
}

// NewTopicStore creates an empty store backed by source.
func NewTopicStore(source VocabularySource, media MediaResolver, logger *zap.Logger) *TopicStore {
	return &TopicStore{
		source: source,
		media:  media,
		logger: logger,
		topics: make(map[string]*entities.Topic),
	}
}

// ListTopics returns a snapshot of all topics in manifest order.
// The manifest is read on the first call.
func (s *TopicStore) ListTopics(ctx context.Context) ([]entities.Topic, error) {
	if err := s.ensureManifest(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Topic, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.topics[id])
	}
	return out, nil
}

// Topic returns a snapshot of one topic.
func (s *TopicStore) Topic(id string) (entities.Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.topics[id]
	if !ok {
		return entities.Topic{}, false
	}
	return *t, true
}

// LoadTopic returns the words of a topic, fetching them on first use.
// Concurrent calls for the same topic share a single fetch. A failed load
// leaves the topic in the error state; the next call tries again.
func (s *TopicStore) LoadTopic(ctx context.Context, id string) ([]*entities.Word, error) {
	s.mu.Lock()
	t, ok := s.topics[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%q: %w", id, entities.ErrTopicNotFound)
	}
	if t.State == entities.TopicLoaded {
		words := t.Words
		s.mu.Unlock()
		return words, nil
	}
	t.State = entities.TopicLoading
	t.Err = nil
	file := t.SourceFile
	s.mu.Unlock()

	v, err, shared := s.flight.Do(id, func() (any, error) {
		return s.fetchTopic(ctx, id, file)
	})
	if shared {
		s.logger.Debug("topic load shared with in-flight request", zap.String("topic_id", id))
	}
	if err != nil {
		return nil, err
	}
	return v.([]*entities.Word), nil
}

// fetchTopic runs inside the flight. A flight that finished after the caller
// checked the state has already attached the words, so they are reused.
func (s *TopicStore) fetchTopic(ctx context.Context, id, file string) ([]*entities.Word, error) {
	s.mu.RLock()
	if t := s.topics[id]; t.State == entities.TopicLoaded {
		words := t.Words
		s.mu.RUnlock()
		return words, nil
	}
	s.mu.RUnlock()

	data, err := s.source.LoadTopicWords(ctx, file)

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.topics[id]
	if err != nil {
		loadErr := &entities.TopicLoadError{TopicID: id, Err: err}
		t.State = entities.TopicError
		t.Err = loadErr
		s.logger.Error("failed to load topic",
			zap.String("topic_id", id),
			zap.String("file", file),
			zap.Error(err),
		)
		return nil, loadErr
	}

	for _, w := range data.Words {
		w.Media = s.media.Resolve(w)
	}

	names := make(map[entities.Language]string, len(t.Names)+len(data.Names))
	for k, v := range t.Names {
		names[k] = v
	}
	for k, v := range data.Names {
		names[k] = v
	}

	t.Names = names
	t.Words = data.Words
	t.State = entities.TopicLoaded

	s.logger.Info("topic loaded",
		zap.String("topic_id", id),
		zap.Int("words", len(data.Words)),
	)

	return t.Words, nil
}

// RefreshManifest re-reads the manifest and adds topics that appeared since
// the last read. Existing topics are left untouched.
func (s *TopicStore) RefreshManifest(ctx context.Context) (int, error) {
	v, err, _ := s.flight.Do(manifestKey, func() (any, error) {
		return s.readManifest(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *TopicStore) ensureManifest(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.manifestLoaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err := s.RefreshManifest(ctx)
	return err
}

func (s *TopicStore) readManifest(ctx context.Context) (int, error) {
	metas, err := s.source.LoadManifest(ctx)
	if err != nil {
		s.logger.Error("failed to load manifest", zap.Error(err))
		return 0, &entities.ManifestError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range metas {
		if _, ok := s.topics[m.ID]; ok {
			continue
		}
		names := make(map[entities.Language]string, len(m.Names))
		for k, v := range m.Names {
			names[k] = v
		}
		s.topics[m.ID] = &entities.Topic{
			ID:         m.ID,
			SourceFile: m.SourceFile,
			Names:      names,
			ImageURL:   s.media.TopicImageURL(m.ID),
			State:      entities.TopicUnloaded,
		}
		s.order = append(s.order, m.ID)
		added++
	}
	s.manifestLoaded = true

	return added, nil
}
