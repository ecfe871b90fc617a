package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const forecastPrefix = "forecasts_"

// ForecastFile describes one forecast file on disk. The predictor writes
// forecasts in story ranges, so a model's forecasts may span several files.
type ForecastFile struct {
	Path  string
	Model string
	Start int
	End   int
}

// LoadResults reads a ground-truth results file.
func LoadResults(path string) (Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}

	return results, nil
}

// LoadForecasts reads a single forecast file.
func LoadForecasts(path string) (Forecasts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forecasts: %w", err)
	}

	var forecasts Forecasts
	if err := json.Unmarshal(data, &forecasts); err != nil {
		return nil, fmt.Errorf("parse forecasts %s: %w", path, err)
	}

	return forecasts, nil
}

// ParseForecastFilename parses a file name of the form
// forecasts_<model>_<start>_<end>.json. Model names may themselves contain
// underscores, so the trailing two integer fields disambiguate.
func ParseForecastFilename(name string) (ForecastFile, error) {
	base := filepath.Base(name)

	trimmed := strings.TrimSuffix(base, ".json")
	if trimmed == base {
		return ForecastFile{}, fmt.Errorf("forecast file %s: missing .json suffix", base)
	}
	trimmed, ok := strings.CutPrefix(trimmed, forecastPrefix)
	if !ok {
		return ForecastFile{}, fmt.Errorf("forecast file %s: missing %q prefix", base, forecastPrefix)
	}

	parts := strings.Split(trimmed, "_")
	if len(parts) < 3 {
		return ForecastFile{}, fmt.Errorf("forecast file %s: want forecasts_<model>_<start>_<end>.json", base)
	}

	start, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return ForecastFile{}, fmt.Errorf("forecast file %s: bad start index: %w", base, err)
	}
	end, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return ForecastFile{}, fmt.Errorf("forecast file %s: bad end index: %w", base, err)
	}

	model := strings.Join(parts[:len(parts)-2], "_")
	if model == "" {
		return ForecastFile{}, fmt.Errorf("forecast file %s: empty model name", base)
	}

	return ForecastFile{Path: name, Model: model, Start: start, End: end}, nil
}

// Discover finds all forecast files in dir and groups them by model,
// ordered by story range so later ranges merge over earlier ones.
func Discover(dir string) (map[string][]ForecastFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read forecasts directory: %w", err)
	}

	byModel := make(map[string][]ForecastFile)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, forecastPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		ff, err := ParseForecastFilename(name)
		if err != nil {
			return nil, err
		}
		ff.Path = filepath.Join(dir, name)
		byModel[ff.Model] = append(byModel[ff.Model], ff)
	}

	for model := range byModel {
		files := byModel[model]
		sort.Slice(files, func(i, j int) bool {
			if files[i].Start != files[j].Start {
				return files[i].Start < files[j].Start
			}
			return files[i].End < files[j].End
		})
	}

	return byModel, nil
}

// LoadModel loads and merges all forecast files for one model, in range order.
func LoadModel(files []ForecastFile) (Forecasts, error) {
	merged := make(Forecasts)
	for _, ff := range files {
		forecasts, err := LoadForecasts(ff.Path)
		if err != nil {
			return nil, err
		}
		Merge(merged, forecasts)
	}
	return merged, nil
}

// Merge copies src into dst, overwriting per (story, question index). This is
// the resume behavior of the predictor: a re-run overrides earlier forecasts
// for the questions it covers and leaves the rest untouched.
func Merge(dst, src Forecasts) {
	for storyID, questions := range src {
		if dst[storyID] == nil {
			dst[storyID] = make(map[string]float64, len(questions))
		}
		for idx, p := range questions {
			dst[storyID][idx] = p
		}
	}
}
