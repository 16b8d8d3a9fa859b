package service

import (
	"math/rand"
	"time"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

// OptionsPerRound is the number of answer choices shown for a round.
const OptionsPerRound = 4

// OptionGenerator picks quiz targets and builds shuffled answer choices.
type OptionGenerator struct {
	rng *rand.Rand
}

// NewOptionGenerator creates a generator. A nil rng is seeded from the clock.
func NewOptionGenerator(rng *rand.Rand) *OptionGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &OptionGenerator{rng: rng}
}

// PickCorrect chooses the target word for a round uniformly at random.
func (g *OptionGenerator) PickCorrect(words []*entities.Word) *entities.Word {
	if len(words) == 0 {
		return nil
	}
	return words[g.rng.Intn(len(words))]
}

// GenerateOptions returns the answer choices for correct and the index of correct among them.
// Distractors are distinct words from the topic, compared by identity.
func (g *OptionGenerator) GenerateOptions(correct *entities.Word, words []*entities.Word) ([]*entities.Word, int) {
	options := g.pickDistractors(correct, words, OptionsPerRound-1)
	options = append(options, correct)

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := -1
	for i, w := range options {
		if w == correct {
			correctIndex = i
			break
		}
	}

	return options, correctIndex
}

// pickDistractors selects up to count words other than correct.
func (g *OptionGenerator) pickDistractors(correct *entities.Word, words []*entities.Word, count int) []*entities.Word {
	candidates := make([]*entities.Word, 0, len(words))
	seen := map[*entities.Word]bool{correct: true}
	for _, w := range words {
		if w == nil || seen[w] {
			continue
		}
		seen[w] = true
		candidates = append(candidates, w)
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}
