package entities

import (
	"errors"
	"fmt"
)

// MinQuizWords is the smallest topic a quiz can be built from: one correct and three wrong options.
const MinQuizWords = 4

var (
	ErrTopicNotFound     = errors.New("topic not found")
	ErrInvalidTransition = errors.New("action is not allowed in the current state")
	ErrInvalidOption     = errors.New("invalid option index")
	ErrMalformedData     = errors.New("malformed vocabulary data")
)

// ManifestError reports that the topic manifest could not be loaded.
type ManifestError struct {
	Err error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("load manifest: %v", e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// TopicLoadError reports that a topic's word list could not be loaded.
// The topic stays selectable and a retry fetches again.
type TopicLoadError struct {
	TopicID string
	Err     error
}

func (e *TopicLoadError) Error() string {
	return fmt.Sprintf("load topic %q: %v", e.TopicID, e.Err)
}

func (e *TopicLoadError) Unwrap() error { return e.Err }

// InsufficientWordsError reports a topic too small to build quiz options from.
type InsufficientWordsError struct {
	TopicID string
	Have    int
	Need    int
}

func (e *InsufficientWordsError) Error() string {
	return fmt.Sprintf("topic %q has %d words, quiz needs at least %d", e.TopicID, e.Have, e.Need)
}

// EmptyTopicError reports a topic without words.
type EmptyTopicError struct {
	TopicID string
}

func (e *EmptyTopicError) Error() string {
	return fmt.Sprintf("topic %q has no words", e.TopicID)
}
