package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/abdulachik/storycast/internal/tags"
)

// Issue severities. Errors make the input unusable for scoring; warnings
// flag upstream filter leaks that degrade gracefully by exclusion.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one contract violation found in an input file.
type Issue struct {
	Severity string
	StoryID  string
	Detail   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: story %s: %s", i.Severity, i.StoryID, i.Detail)
}

// CheckResults verifies the ground-truth contract: every question answer is
// one of the "yes"/"no" literals, and story tags sit inside the closed
// vocabulary. Error-flagged stories are skipped entirely, matching the
// scoring engine.
func CheckResults(results Results) []Issue {
	var issues []Issue
	for _, storyID := range sortedStoryIDs(results) {
		story := results[storyID]
		if story.Error {
			continue
		}

		for idx, q := range story.Questions {
			if q.Answer != AnswerYes && q.Answer != AnswerNo {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StoryID:  storyID,
					Detail:   fmt.Sprintf("question %d: answer %q is not %q or %q", idx, q.Answer, AnswerYes, AnswerNo),
				})
			}
		}

		for _, tag := range story.Tags {
			if !tags.Valid(tag) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					StoryID:  storyID,
					Detail:   fmt.Sprintf("tag %q is outside the vocabulary", tag),
				})
			}
		}
	}
	return issues
}

// CheckForecasts verifies one model's forecast contract against the ground
// truth: probabilities lie in [0,1], question indices are integers that
// resolve to a question, and story ids are known.
func CheckForecasts(model string, forecasts Forecasts, results Results) []Issue {
	var issues []Issue

	storyIDs := make([]string, 0, len(forecasts))
	for storyID := range forecasts {
		storyIDs = append(storyIDs, storyID)
	}
	sort.Strings(storyIDs)

	for _, storyID := range storyIDs {
		story, known := results[storyID]
		if !known {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				StoryID:  storyID,
				Detail:   fmt.Sprintf("model %s: story not present in results", model),
			})
		}

		questions := forecasts[storyID]
		indexes := make([]string, 0, len(questions))
		for idx := range questions {
			indexes = append(indexes, idx)
		}
		sort.Strings(indexes)

		for _, idx := range indexes {
			p := questions[idx]
			if p < 0 || p > 1 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StoryID:  storyID,
					Detail:   fmt.Sprintf("model %s: question %s: probability %v outside [0,1]", model, idx, p),
				})
			}

			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StoryID:  storyID,
					Detail:   fmt.Sprintf("model %s: question index %q is not a non-negative integer", model, idx),
				})
				continue
			}
			if known && n >= len(story.Questions) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					StoryID:  storyID,
					Detail:   fmt.Sprintf("model %s: question %d has no ground truth", model, n),
				})
			}
		}
	}

	return issues
}

// HasErrors reports whether any issue is severity error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func sortedStoryIDs(results Results) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
