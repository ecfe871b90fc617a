package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/abdulachik/storycast/internal/scoring"
)

// Document is the structured report written for external consumers such as
// the plotting layer. It carries the four aggregate mappings plus the ranked
// extremes so consumers never recompute them.
type Document struct {
	GeneratedAt      time.Time                                `json:"generated_at"`
	AllScores        map[string]map[string]map[string]float64 `json:"all_scores"`
	StoryAvgScores   map[string]float64                       `json:"story_avg_scores"`
	ModelAvgScores   map[string]float64                       `json:"model_avg_scores"`
	TagAvgScores     map[string]float64                       `json:"tag_avg_scores"`
	StoryTitles      map[string]string                        `json:"story_titles"`
	MostPredictable  []scoring.RankedStory                    `json:"most_predictable"`
	LeastPredictable []scoring.RankedStory                    `json:"least_predictable"`
}

// NewDocument builds a Document from a report and its rankings.
func NewDocument(rep *scoring.Report, most, least []scoring.RankedStory) Document {
	return Document{
		GeneratedAt:      time.Now().UTC(),
		AllScores:        rep.AllScores,
		StoryAvgScores:   rep.StoryAvgScores,
		ModelAvgScores:   rep.ModelAvgScores,
		TagAvgScores:     rep.TagAvgScores,
		StoryTitles:      rep.StoryTitles,
		MostPredictable:  most,
		LeastPredictable: least,
	}
}

// WriteJSON writes the document to path as indented JSON.
func WriteJSON(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
