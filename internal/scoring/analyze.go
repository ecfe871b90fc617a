package scoring

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/abdulachik/storycast/internal/dataset"
)

// Report is the output of one Analyze pass. AllScores and StoryAvgScores are
// deliberately independent: the per-model table keys scores by model, while
// the per-story averages pool the scores of every supplied model. Neither is
// derived from the other.
type Report struct {
	// AllScores maps model -> story id -> question index -> log score.
	AllScores map[string]map[string]map[string]float64 `json:"all_scores"`

	// StoryAvgScores maps story id to the mean log score over all questions
	// and all supplied models. Pass a single model to Analyze for a
	// single-model story ranking.
	StoryAvgScores map[string]float64 `json:"story_avg_scores"`

	// ModelAvgScores maps model to its mean log score across every story and
	// question it forecast.
	ModelAvgScores map[string]float64 `json:"model_avg_scores"`

	// TagAvgScores maps tag to the mean of StoryAvgScores over the stories
	// carrying that tag. A story contributes to each of its tags in full.
	TagAvgScores map[string]float64 `json:"tag_avg_scores"`

	// StoryTitles maps story id to title for every story that survived the
	// cross-model join.
	StoryTitles map[string]string `json:"story_titles"`
}

// Analyze scores every forecast against the ground truth and aggregates.
//
// A story is scored only if it is error-free and present in every model's
// forecast mapping; a story missing from any one model is excluded from all
// outputs for the run. Within a scored story, a question missing from a
// model's mapping is simply skipped for that model.
func Analyze(results dataset.Results, forecasts map[string]dataset.Forecasts) (*Report, error) {
	if len(forecasts) == 0 {
		return nil, fmt.Errorf("no forecast sets supplied: %w", ErrEmptyAggregation)
	}

	report := &Report{
		AllScores:      make(map[string]map[string]map[string]float64, len(forecasts)),
		StoryAvgScores: make(map[string]float64),
		ModelAvgScores: make(map[string]float64, len(forecasts)),
		TagAvgScores:   make(map[string]float64),
		StoryTitles:    make(map[string]string),
	}
	for model := range forecasts {
		report.AllScores[model] = make(map[string]map[string]float64)
	}

	storyPool := make(map[string][]float64)
	storyTags := make(map[string][]string)

	for storyID, story := range results {
		if story.Error {
			continue
		}

		if !inAllModels(storyID, forecasts) {
			slog.Debug("story missing from a forecast set, excluded", "story", storyID)
			continue
		}

		title := story.Title
		if title == "" {
			title = "Story " + storyID
		}
		report.StoryTitles[storyID] = title
		storyTags[storyID] = story.Tags

		for idx, question := range story.Questions {
			key := strconv.Itoa(idx)
			for model, modelForecasts := range forecasts {
				prediction, ok := modelForecasts[storyID][key]
				if !ok {
					continue
				}

				score, err := Score(prediction, question.Answer)
				if err != nil {
					return nil, fmt.Errorf("story %s question %d: %w", storyID, idx, err)
				}

				if report.AllScores[model][storyID] == nil {
					report.AllScores[model][storyID] = make(map[string]float64)
				}
				report.AllScores[model][storyID][key] = score
				storyPool[storyID] = append(storyPool[storyID], score)
			}
		}
	}

	for storyID, scores := range storyPool {
		avg, err := mean(scores)
		if err != nil {
			return nil, fmt.Errorf("story %s: %w", storyID, err)
		}
		report.StoryAvgScores[storyID] = avg
	}

	for model, stories := range report.AllScores {
		var flat []float64
		for _, questions := range stories {
			for _, score := range questions {
				flat = append(flat, score)
			}
		}
		avg, err := mean(flat)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model, err)
		}
		report.ModelAvgScores[model] = avg
	}

	tagPool := make(map[string][]float64)
	for storyID, avg := range report.StoryAvgScores {
		for _, tag := range storyTags[storyID] {
			tagPool[tag] = append(tagPool[tag], avg)
		}
	}
	for tag, scores := range tagPool {
		avg, err := mean(scores)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", tag, err)
		}
		report.TagAvgScores[tag] = avg
	}

	return report, nil
}

func inAllModels(storyID string, forecasts map[string]dataset.Forecasts) bool {
	for _, modelForecasts := range forecasts {
		if _, ok := modelForecasts[storyID]; !ok {
			return false
		}
	}
	return true
}
