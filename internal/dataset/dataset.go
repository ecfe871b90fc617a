// Package dataset defines the JSON file contracts produced by the upstream
// collection stages: the ground-truth results file and the per-model
// forecast files.
package dataset

// Ground-truth answer literals. Anything else ("ambiguous" included) is
// excluded upstream and must never reach the scoring engine.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Question is one resolved forecasting question for a story.
type Question struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
}

// Story is one ground-truth record from results.json. The Title key is
// capitalized in the wire format because it is copied verbatim from the
// Gutenberg metadata header.
type Story struct {
	Title     string     `json:"Title"`
	Author    string     `json:"Author,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	Error     bool       `json:"error,omitempty"`
}

// Results maps story id to its ground-truth record.
type Results map[string]Story

// Forecasts maps story id to question index (as a string, matching the wire
// format) to the forecast probability that the answer is "yes".
type Forecasts map[string]map[string]float64
