package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Scenario describes one synthetic stream to run.
type Scenario struct {
	Name         string  `toml:"name"`
	Entries      int     `toml:"entries"`
	Labels       int     `toml:"labels"`
	Distribution string  `toml:"distribution"`
	ZipfS        float64 `toml:"zipf-s"`
	ItemRange    int64   `toml:"item-range"`
	Seed         int64   `toml:"seed"`
}

// SketchParams sizes the sketches under test.
type SketchParams struct {
	MaxCounters int `toml:"max-counters"`
	Registers   int `toml:"registers"`
	Depth       int `toml:"depth"`
	Width       int `toml:"width"`
}

// BenchConfig is the top-level TOML document for an accuracy run.
type BenchConfig struct {
	TopK      int          `toml:"top-k"`
	Sketch    SketchParams `toml:"sketch"`
	Scenarios []Scenario   `toml:"scenario"`
}

// DefaultBenchConfig is used when no config file is given: one skewed and
// one flat stream, sized to finish in a few seconds.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		TopK: 10,
		Sketch: SketchParams{
			MaxCounters: 32,
			Registers:   2048,
			Depth:       1024,
			Width:       100,
		},
		Scenarios: []Scenario{
			{
				Name:         "zipf",
				Entries:      500_000,
				Labels:       100,
				Distribution: "zipf",
				ZipfS:        1.3,
				ItemRange:    200_000,
				Seed:         1,
			},
			{
				Name:         "uniform",
				Entries:      500_000,
				Labels:       20,
				Distribution: "uniform",
				ItemRange:    200_000,
				Seed:         1,
			},
		},
	}
}

// LoadBenchConfig reads a TOML config file and validates it.
func LoadBenchConfig(path string) (BenchConfig, error) {
	var cfg BenchConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if len(cfg.Scenarios) == 0 {
		return cfg, errors.Errorf("config %s defines no scenarios", path)
	}
	for i, sc := range cfg.Scenarios {
		if err := validateScenario(sc); err != nil {
			return cfg, errors.Wrapf(err, "scenario %d (%s)", i, sc.Name)
		}
	}
	return cfg, nil
}

func validateScenario(sc Scenario) error {
	if sc.Entries <= 0 {
		return errors.New("entries must be positive")
	}
	if sc.Labels <= 1 {
		return errors.New("labels must be at least 2")
	}
	if sc.ItemRange <= 0 {
		return errors.New("item-range must be positive")
	}
	if sc.Distribution == "zipf" && sc.ZipfS <= 1 {
		return errors.New("zipf-s must be greater than 1")
	}
	return nil
}
