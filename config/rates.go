package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"itr-prep/dto"
)

//go:embed rates/2025-26.yaml
var defaultRatesYAML []byte

// LoadRates parses an assessment-year rate schedule from a YAML file.
func LoadRates(path string) (*dto.RateSchedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	return parseRates(raw)
}

// DefaultRates returns the schedule embedded with the module
// (assessment year 2025-26). It goes through the same YAML path as
// LoadRates so both stay in lockstep.
func DefaultRates() (*dto.RateSchedule, error) {
	return parseRates(defaultRatesYAML)
}

// RatesFor resolves a schedule from the config: an explicit path wins,
// otherwise the embedded default is used when its assessment year
// matches the requested one.
func RatesFor(cfg *Config) (*dto.RateSchedule, error) {
	if cfg.RatesPath != "" {
		return LoadRates(cfg.RatesPath)
	}
	rates, err := DefaultRates()
	if err != nil {
		return nil, err
	}
	if cfg.AssessmentYear != "" && cfg.AssessmentYear != rates.AssessmentYear {
		return nil, fmt.Errorf("no rate schedule for assessment year %s (set TAX_RATES_PATH)", cfg.AssessmentYear)
	}
	return rates, nil
}

func parseRates(raw []byte) (*dto.RateSchedule, error) {
	var rates dto.RateSchedule
	if err := yaml.Unmarshal(raw, &rates); err != nil {
		return nil, fmt.Errorf("parse rates yaml: %w", err)
	}
	if rates.AssessmentYear == "" {
		return nil, fmt.Errorf("rates yaml missing assessment_year")
	}
	if len(rates.Old.Slabs) == 0 || len(rates.New.Slabs) == 0 {
		return nil, fmt.Errorf("rates yaml for %s missing slab tables", rates.AssessmentYear)
	}
	return &rates, nil
}
