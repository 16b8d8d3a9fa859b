package entities

import (
	"math"
	"time"
)

// Round is one multiple-choice question of a testing session.
type Round struct {
	Ordinal      int       // 1-based question number
	Correct      *Word     // word being asked
	Options      []*Word   // shuffled options, Correct appears exactly once
	CorrectIndex int       // position of Correct in Options
	Deadline     time.Time // moment the countdown runs out
}

// Resolution describes how a round ended.
type Resolution struct {
	Ordinal      int           // round that was resolved
	Selected     int           // selected option index, -1 on timeout
	CorrectIndex int           // index of the correct option
	Correct      bool          // whether the selection was correct
	TimedOut     bool          // resolved by the countdown
	Score        int           // score after applying the result
	Delay        time.Duration // pause before the next round
}

// Summary is the result of a completed quiz.
type Summary struct {
	Score    int // final score
	Rounds   int // number of rounds played
	Accuracy int // percentage, round(score/rounds*100)
}

// NewSummary computes the quiz summary for the final score.
func NewSummary(score, rounds int) Summary {
	s := Summary{Score: score, Rounds: rounds}
	if rounds > 0 {
		s.Accuracy = int(math.Round(float64(score) / float64(rounds) * 100))
	}
	return s
}
