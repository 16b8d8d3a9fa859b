package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
	"github.com/myfrench/myfrench-bot/internal/infra/postgres"
)

var ErrTopicFileNotFound = errors.New("topic file not found")

// VocabularyRepository serves the topic manifest and word lists from PostgreSQL.
type VocabularyRepository struct {
	db postgres.DBTX
	tx *postgres.Transactor
}

// NewVocabularyRepository creates a repository. tx may be nil for read-only use.
func NewVocabularyRepository(db postgres.DBTX, tx *postgres.Transactor) *VocabularyRepository {
	return &VocabularyRepository{db: db, tx: tx}
}

// LoadManifest returns all topics ordered by position.
func (r *VocabularyRepository) LoadManifest(ctx context.Context) ([]entities.TopicMeta, error) {
	query := `
		SELECT id, file, names
		FROM topics
		ORDER BY position, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var topics []entities.TopicMeta
	for rows.Next() {
		var (
			meta  entities.TopicMeta
			names map[string]string
		)
		if err := rows.Scan(&meta.ID, &meta.SourceFile, &names); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		meta.Names = toLanguageMap(names)
		topics = append(topics, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	return topics, nil
}

// LoadTopicWords returns the words of the topic stored under file.
func (r *VocabularyRepository) LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error) {
	var (
		topicID string
		names   map[string]string
	)
	err := r.db.QueryRow(ctx, `SELECT id, names FROM topics WHERE file = $1`, file).Scan(&topicID, &names)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", file, ErrTopicFileNotFound)
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}

	query := `
		SELECT source_text, translations, example
		FROM words
		WHERE topic_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	data := &entities.TopicData{Names: toLanguageMap(names)}
	for rows.Next() {
		var (
			w            entities.Word
			translations map[string]string
		)
		if err := rows.Scan(&w.SourceText, &translations, &w.Example); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.Translations = toLanguageMap(translations)
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("topic %s: %w", topicID, err)
		}
		data.Words = append(data.Words, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}

	return data, nil
}

// ImportTopic replaces a topic and its words in one transaction.
func (r *VocabularyRepository) ImportTopic(ctx context.Context, position int, meta entities.TopicMeta, data *entities.TopicData) error {
	if r.tx == nil {
		return errors.New("import requires a transactor")
	}

	names := fromLanguageMap(data.Names)
	for lang, n := range fromLanguageMap(meta.Names) {
		names[lang] = n
	}

	return r.tx.WithinTx(ctx, func(ctx context.Context, tx postgres.DBTX) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO topics (id, file, names, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET file = EXCLUDED.file, names = EXCLUDED.names, position = EXCLUDED.position
		`, meta.ID, meta.SourceFile, names, position)
		if err != nil {
			return fmt.Errorf("upsert topic %s: %w", meta.ID, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM words WHERE topic_id = $1`, meta.ID); err != nil {
			return fmt.Errorf("delete words of %s: %w", meta.ID, err)
		}

		for i, w := range data.Words {
			_, err := tx.Exec(ctx, `
				INSERT INTO words (topic_id, position, source_text, translations, example)
				VALUES ($1, $2, $3, $4, $5)
			`, meta.ID, i, w.SourceText, fromLanguageMap(w.Translations), w.Example)
			if err != nil {
				return fmt.Errorf("insert word %q: %w", w.SourceText, err)
			}
		}

		return nil
	})
}

func toLanguageMap(in map[string]string) map[entities.Language]string {
	out := make(map[entities.Language]string, len(in))
	for k, v := range in {
		out[entities.Language(k)] = v
	}
	return out
}

func fromLanguageMap(in map[entities.Language]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}
