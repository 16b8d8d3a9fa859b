package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// FSSource reads the manifest and topic files from one directory,
// the layout produced by manifestgen.
type FSSource struct {
	fsys        fs.FS
	sourceField string
}

// NewFSSource creates a source reading from fsys.
func NewFSSource(fsys fs.FS, sourceField string) *FSSource {
	if sourceField == "" {
		sourceField = DefaultSourceField
	}
	return &FSSource{fsys: fsys, sourceField: sourceField}
}

// NewDirSource creates a source reading from a directory on disk.
func NewDirSource(dir, sourceField string) *FSSource {
	return NewFSSource(os.DirFS(dir), sourceField)
}

// LoadManifest reads the topic manifest.
func (s *FSSource) LoadManifest(ctx context.Context) ([]entities.TopicMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return decodeManifest(f)
}

// LoadTopicWords reads one topic file.
func (s *FSSource) LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateFile(file); err != nil {
		return nil, err
	}

	f, err := s.fsys.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	return decodeTopic(f, s.sourceField)
}
