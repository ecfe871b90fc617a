// Package report renders an analysis report into the printable summary and
// the JSON document the plotting layer consumes.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdulachik/storycast/internal/scoring"
)

// Render produces the printable analysis summary: model averages, the ranked
// story extremes, and tag averages.
func Render(rep *scoring.Report, most, least []scoring.RankedStory) string {
	var b strings.Builder

	b.WriteString("===== PREDICTION ANALYSIS RESULTS =====\n\n")

	b.WriteString("Average Log Score by Model\n")
	b.WriteString(modelTable(rep))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Top %d Most Predictable Stories\n", len(most))
	b.WriteString(rankingTable(rep, most))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Top %d Least Predictable Stories\n", len(least))
	b.WriteString(rankingTable(rep, least))
	b.WriteString("\n\n")

	b.WriteString("Average Log Score by Tag\n")
	b.WriteString(tagTable(rep))
	b.WriteString("\n")

	return b.String()
}

func modelTable(rep *scoring.Report) string {
	models := make([]string, 0, len(rep.ModelAvgScores))
	for model := range rep.ModelAvgScores {
		models = append(models, model)
	}
	sort.Strings(models)

	rows := make([][]string, 0, len(models))
	for _, model := range models {
		questions := 0
		for _, story := range rep.AllScores[model] {
			questions += len(story)
		}
		rows = append(rows, []string{
			model,
			formatScore(rep.ModelAvgScores[model]),
			fmt.Sprintf("%d", questions),
		})
	}

	return renderTable(
		[]string{"MODEL", "AVG LOG SCORE", "QUESTIONS"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
}

func rankingTable(rep *scoring.Report, ranked []scoring.RankedStory) string {
	rows := make([][]string, 0, len(ranked))
	for _, rs := range ranked {
		rows = append(rows, []string{
			rs.StoryID,
			formatScore(rs.Score),
			rep.StoryTitles[rs.StoryID],
		})
	}

	return renderTable(
		[]string{"STORY ID", "LOG SCORE", "TITLE"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	)
}

func tagTable(rep *scoring.Report) string {
	type tagScore struct {
		tag   string
		score float64
	}

	scores := make([]tagScore, 0, len(rep.TagAvgScores))
	for tag, score := range rep.TagAvgScores {
		scores = append(scores, tagScore{tag: tag, score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].tag < scores[j].tag
	})

	rows := make([][]string, 0, len(scores))
	for _, ts := range scores {
		rows = append(rows, []string{ts.tag, formatScore(ts.score)})
	}

	return renderTable(
		[]string{"TAG", "AVG LOG SCORE"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.4f", score)
}
