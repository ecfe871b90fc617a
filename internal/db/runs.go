package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abdulachik/storycast/internal/scoring"
)

// Run is one saved analysis run.
type Run struct {
	ID            int64
	CreatedAt     time.Time
	ResultsPath   string
	StoryCount    int64
	QuestionCount int64
}

// ModelScore is one model's average for a saved run.
type ModelScore struct {
	Model         string
	AvgScore      float64
	QuestionCount int64
}

// StoryScore is one story's average for a saved run.
type StoryScore struct {
	StoryID  string
	Title    string
	AvgScore float64
}

// TagScore is one tag's average for a saved run.
type TagScore struct {
	Tag      string
	AvgScore float64
}

// SaveRun persists an analysis report and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, resultsPath string, report *scoring.Report) (int64, error) {
	questionCount := 0
	perModelCounts := make(map[string]int, len(report.AllScores))
	for model, stories := range report.AllScores {
		for _, questions := range stories {
			perModelCounts[model] += len(questions)
			questionCount += len(questions)
		}
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO runs (results_path, story_count, question_count) VALUES (?, ?, ?)",
		resultsPath, len(report.StoryAvgScores), questionCount,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, model := range sortedKeys(report.ModelAvgScores) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO run_model_scores (run_id, model, avg_score, question_count) VALUES (?, ?, ?, ?)",
			runID, model, report.ModelAvgScores[model], perModelCounts[model],
		)
		if err != nil {
			return 0, fmt.Errorf("insert model score %s: %w", model, err)
		}
	}

	for _, storyID := range sortedKeys(report.StoryAvgScores) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO run_story_scores (run_id, story_id, title, avg_score) VALUES (?, ?, ?, ?)",
			runID, storyID, report.StoryTitles[storyID], report.StoryAvgScores[storyID],
		)
		if err != nil {
			return 0, fmt.Errorf("insert story score %s: %w", storyID, err)
		}
	}

	for _, tag := range sortedKeys(report.TagAvgScores) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO run_tag_scores (run_id, tag, avg_score) VALUES (?, ?, ?)",
			runID, tag, report.TagAvgScores[tag],
		)
		if err != nil {
			return 0, fmt.Errorf("insert tag score %s: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT id, created_at, results_path, story_count, question_count FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.ResultsPath, &run.StoryCount, &run.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetModelScores returns the per-model averages for a run.
func (s *Store) GetModelScores(ctx context.Context, runID int64) ([]ModelScore, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT model, avg_score, question_count FROM run_model_scores WHERE run_id = ? ORDER BY model",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query model scores: %w", err)
	}
	defer rows.Close()

	var scores []ModelScore
	for rows.Next() {
		var ms ModelScore
		if err := rows.Scan(&ms.Model, &ms.AvgScore, &ms.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan model score: %w", err)
		}
		scores = append(scores, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model scores: %w", err)
	}

	return scores, nil
}

// GetStoryScores returns the per-story averages for a run, best first.
func (s *Store) GetStoryScores(ctx context.Context, runID int64) ([]StoryScore, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT story_id, title, avg_score FROM run_story_scores WHERE run_id = ? ORDER BY avg_score DESC, story_id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query story scores: %w", err)
	}
	defer rows.Close()

	var scores []StoryScore
	for rows.Next() {
		var ss StoryScore
		if err := rows.Scan(&ss.StoryID, &ss.Title, &ss.AvgScore); err != nil {
			return nil, fmt.Errorf("scan story score: %w", err)
		}
		scores = append(scores, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate story scores: %w", err)
	}

	return scores, nil
}

// GetTagScores returns the per-tag averages for a run, best first.
func (s *Store) GetTagScores(ctx context.Context, runID int64) ([]TagScore, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT tag, avg_score FROM run_tag_scores WHERE run_id = ? ORDER BY avg_score DESC, tag",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tag scores: %w", err)
	}
	defer rows.Close()

	var scores []TagScore
	for rows.Next() {
		var ts TagScore
		if err := rows.Scan(&ts.Tag, &ts.AvgScore); err != nil {
			return nil, fmt.Errorf("scan tag score: %w", err)
		}
		scores = append(scores, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag scores: %w", err)
	}

	return scores, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
