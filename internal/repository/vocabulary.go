package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// DefaultSourceField is the word key holding the term being learned.
const DefaultSourceField = "french"

// ManifestFile is the name of the topic manifest.
const ManifestFile = "config.json"

// decodeManifest parses {"topics": {"<id>": "<file>" | {"file": ..., "name": ...}}}.
// Topics are returned in the order they appear in the document.
func decodeManifest(r io.Reader) ([]entities.TopicMeta, error) {
	var wrapper struct {
		Topics json.RawMessage `json:"topics"`
	}
	if err := json.NewDecoder(r).Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedData, err)
	}

	raw := bytes.TrimSpace(wrapper.Topics)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: manifest has no topics", entities.ErrMalformedData)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedData, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: topics must be an object", entities.ErrMalformedData)
	}

	var (
		topics []entities.TopicMeta
		seen   = make(map[string]struct{})
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrMalformedData, err)
		}
		id, _ := tok.(string)

		var entry json.RawMessage
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: topic %q: %v", entities.ErrMalformedData, id, err)
		}

		meta, err := parseManifestEntry(id, entry)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		topics = append(topics, meta)
	}

	return topics, nil
}

func parseManifestEntry(id string, entry json.RawMessage) (entities.TopicMeta, error) {
	meta := entities.TopicMeta{ID: id}
	if strings.TrimSpace(id) == "" {
		return meta, fmt.Errorf("%w: empty topic id", entities.ErrMalformedData)
	}

	var file string
	if err := json.Unmarshal(entry, &file); err == nil {
		meta.SourceFile = file
	} else {
		var obj map[string]any
		if err := json.Unmarshal(entry, &obj); err != nil {
			return meta, fmt.Errorf("%w: topic %q must be a file name or an object", entities.ErrMalformedData, id)
		}
		meta.SourceFile, _ = obj["file"].(string)
		meta.Names = namesFrom(obj)
	}

	if meta.SourceFile == "" {
		return meta, fmt.Errorf("%w: topic %q has no file", entities.ErrMalformedData, id)
	}
	return meta, nil
}

// decodeTopic parses a topic file. sourceField names the key holding the learned term.
func decodeTopic(r io.Reader, sourceField string) (*entities.TopicData, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedData, err)
	}

	rawWords, ok := doc["words"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: topic has no words list", entities.ErrMalformedData)
	}

	data := &entities.TopicData{
		Names: namesFrom(doc),
		Words: make([]*entities.Word, 0, len(rawWords)),
	}

	for i, rw := range rawWords {
		obj, ok := rw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: word %d is not an object", entities.ErrMalformedData, i)
		}

		source, _ := obj[sourceField].(string)
		if strings.TrimSpace(source) == "" {
			return nil, fmt.Errorf("%w: word %d has no %q", entities.ErrMalformedData, i, sourceField)
		}

		w := &entities.Word{
			SourceText:   source,
			Translations: make(map[entities.Language]string),
		}
		for _, info := range entities.SupportedLanguages {
			if t, ok := obj[string(info.Key)].(string); ok && t != "" {
				w.Translations[info.Key] = t
			}
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		w.Example, _ = obj["example"].(string)

		data.Words = append(data.Words, w)
	}

	return data, nil
}

func namesFrom(obj map[string]any) map[entities.Language]string {
	names := make(map[entities.Language]string)
	for _, info := range entities.SupportedLanguages {
		if n, ok := obj[info.NameKey].(string); ok && n != "" {
			names[info.Key] = n
		}
	}
	return names
}

// validateFile rejects manifest file names that escape the vocabulary root.
func validateFile(file string) error {
	if file == "" || strings.Contains(file, "..") || strings.HasPrefix(file, "/") {
		return fmt.Errorf("%w: invalid topic file %q", entities.ErrMalformedData, file)
	}
	return nil
}

// IsMalformed reports whether err was caused by bad vocabulary content rather than transport.
func IsMalformed(err error) bool {
	return errors.Is(err, entities.ErrMalformedData)
}
