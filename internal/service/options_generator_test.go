package service

import (
	"math/rand"
	"testing"
)

func TestGenerateOptionsDistinctAndContainCorrect(t *testing.T) {
	words := makeWords(12)
	gen := NewOptionGenerator(rand.New(rand.NewSource(7)))

	for i := 0; i < 500; i++ {
		correct := gen.PickCorrect(words)
		options, idx := gen.GenerateOptions(correct, words)

		if len(options) != OptionsPerRound {
			t.Fatalf("len(options) = %d, want %d", len(options), OptionsPerRound)
		}
		if options[idx] != correct {
			t.Fatalf("options[%d] is not the correct word", idx)
		}

		seen := make(map[string]bool)
		hits := 0
		for _, o := range options {
			if seen[o.SourceText] {
				t.Fatalf("duplicate option %q", o.SourceText)
			}
			seen[o.SourceText] = true
			if o == correct {
				hits++
			}
		}
		if hits != 1 {
			t.Fatalf("correct word appears %d times", hits)
		}
	}
}

func TestGenerateOptionsCorrectPositionIsUniform(t *testing.T) {
	const trials = 8000
	words := makeWords(6)
	gen := NewOptionGenerator(rand.New(rand.NewSource(42)))

	var counts [OptionsPerRound]int
	for i := 0; i < trials; i++ {
		_, idx := gen.GenerateOptions(words[i%len(words)], words)
		counts[idx]++
	}

	// Chi-square with 3 degrees of freedom; 16.27 is the 0.001 critical value.
	expected := float64(trials) / OptionsPerRound
	var chi float64
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	if chi > 16.27 {
		t.Errorf("correct position not uniform: counts %v, chi-square %.2f", counts, chi)
	}
}

func TestGenerateOptionsExactlyFourWords(t *testing.T) {
	words := makeWords(4)
	gen := NewOptionGenerator(rand.New(rand.NewSource(1)))

	options, _ := gen.GenerateOptions(words[2], words)

	got := make(map[string]bool)
	for _, o := range options {
		got[o.SourceText] = true
	}
	for _, w := range words {
		if !got[w.SourceText] {
			t.Errorf("option %q missing", w.SourceText)
		}
	}
}

func TestPickCorrectEmpty(t *testing.T) {
	gen := NewOptionGenerator(nil)
	if w := gen.PickCorrect(nil); w != nil {
		t.Errorf("PickCorrect(nil) = %v, want nil", w)
	}
}
