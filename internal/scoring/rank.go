package scoring

import "sort"

// RankedStory is one entry in a predictability ranking.
type RankedStory struct {
	StoryID string  `json:"story_id"`
	Score   float64 `json:"score"`
}

// Rank returns the k most predictable stories (highest average log score
// first) and the k least predictable (lowest first). Ties are broken by
// story id ascending so rankings are reproducible across runs.
func Rank(storyAvgScores map[string]float64, k int) (most, least []RankedStory) {
	ranked := make([]RankedStory, 0, len(storyAvgScores))
	for storyID, score := range storyAvgScores {
		ranked = append(ranked, RankedStory{StoryID: storyID, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].StoryID < ranked[j].StoryID
	})
	most = take(ranked, k)

	byAsc := make([]RankedStory, len(ranked))
	copy(byAsc, ranked)
	sort.Slice(byAsc, func(i, j int) bool {
		if byAsc[i].Score != byAsc[j].Score {
			return byAsc[i].Score < byAsc[j].Score
		}
		return byAsc[i].StoryID < byAsc[j].StoryID
	})
	least = take(byAsc, k)

	return most, least
}

func take(ranked []RankedStory, k int) []RankedStory {
	if k < 0 {
		k = 0
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]RankedStory, k)
	copy(out, ranked[:k])
	return out
}
