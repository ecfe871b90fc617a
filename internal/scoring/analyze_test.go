package scoring

import (
	"math"
	"testing"

	"github.com/abdulachik/storycast/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	t.Run("pools both models into story average", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title: "A",
				Tags:  []string{"mystery"},
				Questions: []dataset.Question{
					{Answer: "yes"},
					{Answer: "no"},
				},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {"s1": {"0": 0.8, "1": 0.3}},
			"m2": {"s1": {"0": 0.6, "1": 0.4}},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)

		assert.InDelta(t, math.Log(0.8), rep.AllScores["m1"]["s1"]["0"], 1e-12)
		assert.InDelta(t, math.Log(0.7), rep.AllScores["m1"]["s1"]["1"], 1e-12)
		assert.InDelta(t, math.Log(0.6), rep.AllScores["m2"]["s1"]["0"], 1e-12)
		assert.InDelta(t, math.Log(0.6), rep.AllScores["m2"]["s1"]["1"], 1e-12)

		wantStoryAvg := (math.Log(0.8) + math.Log(0.7) + math.Log(0.6) + math.Log(0.6)) / 4
		assert.InDelta(t, wantStoryAvg, rep.StoryAvgScores["s1"], 1e-12)

		// the tag pool is fed by story averages, not raw scores
		assert.InDelta(t, rep.StoryAvgScores["s1"], rep.TagAvgScores["mystery"], 1e-12)

		assert.InDelta(t, (math.Log(0.8)+math.Log(0.7))/2, rep.ModelAvgScores["m1"], 1e-12)
		assert.InDelta(t, math.Log(0.6), rep.ModelAvgScores["m2"], 1e-12)

		assert.Equal(t, "A", rep.StoryTitles["s1"])
	})

	t.Run("skips error-flagged stories entirely", func(t *testing.T) {
		results := dataset.Results{
			"bad": {
				Title:     "Broken",
				Tags:      []string{"mystery"},
				Error:     true,
				Questions: []dataset.Question{{Answer: "yes"}},
			},
			"good": {
				Title:     "Fine",
				Questions: []dataset.Question{{Answer: "yes"}},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {
				"bad":  {"0": 0.9},
				"good": {"0": 0.9},
			},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)

		assert.NotContains(t, rep.AllScores["m1"], "bad")
		assert.NotContains(t, rep.StoryAvgScores, "bad")
		assert.NotContains(t, rep.StoryTitles, "bad")
		assert.NotContains(t, rep.TagAvgScores, "mystery")
		assert.Contains(t, rep.StoryAvgScores, "good")
	})

	t.Run("story missing from one model is excluded everywhere", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title:     "Joined",
				Questions: []dataset.Question{{Answer: "yes"}},
			},
			"s2": {
				Title:     "Partial",
				Tags:      []string{"horror"},
				Questions: []dataset.Question{{Answer: "no"}},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {
				"s1": {"0": 0.7},
				"s2": {"0": 0.2},
			},
			"m2": {
				"s1": {"0": 0.5},
			},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)

		assert.NotContains(t, rep.AllScores["m1"], "s2")
		assert.NotContains(t, rep.StoryAvgScores, "s2")
		assert.NotContains(t, rep.StoryTitles, "s2")
		assert.NotContains(t, rep.TagAvgScores, "horror")
	})

	t.Run("missing forecast for one question is skipped, not fatal", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title: "Sparse",
				Questions: []dataset.Question{
					{Answer: "yes"},
					{Answer: "no"},
					{Answer: "yes"},
				},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {"s1": {"0": 0.9, "2": 0.8}},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)

		require.Len(t, rep.AllScores["m1"]["s1"], 2)
		assert.NotContains(t, rep.AllScores["m1"]["s1"], "1")
	})

	t.Run("malformed answer aborts the run", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title:     "Leaked",
				Questions: []dataset.Question{{Answer: "ambiguous"}},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {"s1": {"0": 0.5}},
		}

		_, err := Analyze(results, forecasts)
		assert.ErrorIs(t, err, ErrBadAnswer)
	})

	t.Run("model with zero scored questions fails loudly", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title:     "Unscored",
				Questions: []dataset.Question{{Answer: "yes"}},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {"s1": {"0": 0.5}},
			"m2": {"s1": {}},
		}

		_, err := Analyze(results, forecasts)
		assert.ErrorIs(t, err, ErrEmptyAggregation)
	})

	t.Run("no forecast sets fails loudly", func(t *testing.T) {
		results := dataset.Results{
			"s1": {Questions: []dataset.Question{{Answer: "yes"}}},
		}

		_, err := Analyze(results, map[string]dataset.Forecasts{})
		assert.ErrorIs(t, err, ErrEmptyAggregation)
	})

	t.Run("falls back to placeholder title", func(t *testing.T) {
		results := dataset.Results{
			"42": {Questions: []dataset.Question{{Answer: "yes"}}},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {"42": {"0": 0.5}},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)
		assert.Equal(t, "Story 42", rep.StoryTitles["42"])
	})

	t.Run("story with multiple tags contributes to each", func(t *testing.T) {
		results := dataset.Results{
			"s1": {
				Title:     "Double",
				Tags:      []string{"mystery", "horror"},
				Questions: []dataset.Question{{Answer: "yes"}},
			},
			"s2": {
				Title:     "Single",
				Tags:      []string{"horror"},
				Questions: []dataset.Question{{Answer: "yes"}},
			},
		}
		forecasts := map[string]dataset.Forecasts{
			"m1": {
				"s1": {"0": 0.9},
				"s2": {"0": 0.5},
			},
		}

		rep, err := Analyze(results, forecasts)
		require.NoError(t, err)

		assert.InDelta(t, rep.StoryAvgScores["s1"], rep.TagAvgScores["mystery"], 1e-12)
		wantHorror := (rep.StoryAvgScores["s1"] + rep.StoryAvgScores["s2"]) / 2
		assert.InDelta(t, wantHorror, rep.TagAvgScores["horror"], 1e-12)
	})
}
