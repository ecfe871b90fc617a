// Package scoring computes per-question log scores for story forecasts and
// aggregates them into per-story, per-model, and per-tag averages.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/abdulachik/storycast/internal/dataset"
)

// minProb is the floor for the probability assigned to the realized outcome.
// It keeps log scores finite when a model puts zero on the truth.
const minProb = 0.01

// ErrBadAnswer indicates a ground-truth answer outside the yes/no literals.
// Malformed ground truth is never coerced: a silently wrong log score would
// propagate into every downstream aggregate.
var ErrBadAnswer = errors.New("ground-truth answer must be \"yes\" or \"no\"")

// ErrEmptyAggregation indicates an average was requested over zero scores,
// which points at an upstream data-join problem.
var ErrEmptyAggregation = errors.New("empty aggregation set")

// Score returns the log score for a forecast: the natural logarithm of the
// probability the forecast assigned to the actual outcome, clipped to
// [minProb, 1]. The result is always <= 0.
func Score(prediction float64, actual string) (float64, error) {
	var p float64
	switch actual {
	case dataset.AnswerYes:
		p = prediction
	case dataset.AnswerNo:
		p = 1 - prediction
	default:
		return 0, fmt.Errorf("%w: got %q", ErrBadAnswer, actual)
	}
	return math.Log(clip(p, minProb, 1)), nil
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func mean(scores []float64) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrEmptyAggregation
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}
