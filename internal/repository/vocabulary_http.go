package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// HTTPSource loads the manifest and topic files published under a base URL:
// <base>/config.json and <base>/vocabulary/<file>.
type HTTPSource struct {
	baseURL     string
	sourceField string
	client      *http.Client
}

// NewHTTPSource creates a source for the site at baseURL.
func NewHTTPSource(baseURL, sourceField string, timeout time.Duration) *HTTPSource {
	if sourceField == "" {
		sourceField = DefaultSourceField
	}
	return &HTTPSource{
		baseURL:     strings.TrimRight(baseURL, "/"),
		sourceField: sourceField,
		client:      &http.Client{Timeout: timeout},
	}
}

// LoadManifest fetches and parses the topic manifest.
func (s *HTTPSource) LoadManifest(ctx context.Context) ([]entities.TopicMeta, error) {
	body, err := s.get(ctx, "/"+ManifestFile)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return decodeManifest(body)
}

// LoadTopicWords fetches and parses one topic file.
func (s *HTTPSource) LoadTopicWords(ctx context.Context, file string) (*entities.TopicData, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}

	body, err := s.get(ctx, "/vocabulary/"+url.PathEscape(file))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return decodeTopic(body, s.sourceField)
}

func (s *HTTPSource) get(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("get %s: unexpected status %s", path, resp.Status)
	}

	return resp.Body, nil
}
