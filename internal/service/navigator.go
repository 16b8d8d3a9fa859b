package service

import "github.com/myfrench/myfrench-bot/internal/domain/entities"

// Navigator is a cyclic cursor over a topic's words for flashcard mode.
type Navigator struct {
	words []*entities.Word
	index int
}

// NewNavigator starts at the first word. A topic with no words cannot be studied.
func NewNavigator(topicID string, words []*entities.Word) (*Navigator, error) {
	if len(words) == 0 {
		return nil, &entities.EmptyTopicError{TopicID: topicID}
	}
	return &Navigator{words: words}, nil
}

// Current returns the word under the cursor.
func (n *Navigator) Current() *entities.Word {
	return n.words[n.index]
}

// Next advances the cursor, wrapping from the last word to the first.
func (n *Navigator) Next() *entities.Word {
	n.index = (n.index + 1) % len(n.words)
	return n.Current()
}

// Previous moves the cursor back, wrapping from the first word to the last.
func (n *Navigator) Previous() *entities.Word {
	n.index = (n.index - 1 + len(n.words)) % len(n.words)
	return n.Current()
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return len(n.words) }
