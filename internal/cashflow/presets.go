package cashflow

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Dan9191/finpyme/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// LoadPresets reads scenario presets from path, or the built-in set when
// path is empty
func LoadPresets(path string) ([]models.Scenario, error) {
	data := defaultPresets
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read presets: %w", err)
		}
	}

	var presets []models.Scenario
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	for i, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if p.TimeFrame <= 0 {
			return nil, fmt.Errorf("preset %q: time_frame must be positive", p.Name)
		}
	}
	return presets, nil
}

// FindPreset looks up a preset by name
func FindPreset(presets []models.Scenario, name string) (models.Scenario, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return models.Scenario{}, false
}
