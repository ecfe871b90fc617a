package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/abdulachik/storycast/internal/dataset"
)

// loadForecastSets discovers and merges the forecast files in dir, keyed by
// model. If models is non-empty, only those models are loaded.
func loadForecastSets(dir string, models []string) (map[string]dataset.Forecasts, error) {
	byModel, err := dataset.Discover(dir)
	if err != nil {
		return nil, fmt.Errorf("discover forecasts: %w", err)
	}

	if len(models) > 0 {
		selected := make(map[string][]dataset.ForecastFile, len(models))
		for _, model := range models {
			files, ok := byModel[model]
			if !ok {
				return nil, fmt.Errorf("no forecast files for model %q in %s", model, dir)
			}
			selected[model] = files
		}
		byModel = selected
	}

	if len(byModel) == 0 {
		return nil, fmt.Errorf("no forecast files found in %s", dir)
	}

	forecasts := make(map[string]dataset.Forecasts, len(byModel))
	for model, files := range byModel {
		merged, err := dataset.LoadModel(files)
		if err != nil {
			return nil, fmt.Errorf("load forecasts for %s: %w", model, err)
		}
		forecasts[model] = merged
		slog.Debug("loaded forecast set", "model", model, "files", len(files), "stories", len(merged))
	}

	return forecasts, nil
}

func modelNames(forecasts map[string]dataset.Forecasts) []string {
	names := make([]string, 0, len(forecasts))
	for model := range forecasts {
		names = append(names, model)
	}
	sort.Strings(names)
	return names
}
