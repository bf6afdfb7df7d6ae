package fleet

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the fleet YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a fleet loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads, parses and validates the fleet file.
func (l *Loader) Load() ([]Vessel, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fleet yaml: %w", err)
	}

	if len(cfg.Vessels) == 0 {
		return nil, fmt.Errorf("fleet file %s defines no vessels", l.filePath)
	}

	seen := make(map[string]bool, len(cfg.Vessels))
	for i, v := range cfg.Vessels {
		if v.Slug == "" {
			return nil, fmt.Errorf("vessel %d: missing slug", i)
		}
		if seen[v.Slug] {
			return nil, fmt.Errorf("duplicate vessel slug %q", v.Slug)
		}
		seen[v.Slug] = true
		if v.CruiseID == "" {
			return nil, fmt.Errorf("vessel %q: missing cruise_id", v.Slug)
		}
		if v.MMSI == "" {
			return nil, fmt.Errorf("vessel %q: missing mmsi", v.Slug)
		}
		if v.MTNAccountID <= 0 || v.MTNSiteID <= 0 {
			return nil, fmt.Errorf("vessel %q: missing mtn account/site ids", v.Slug)
		}
		if v.Timezone != "" {
			loc, err := time.LoadLocation(v.Timezone)
			if err != nil {
				return nil, fmt.Errorf("vessel %q: invalid timezone %q: %w", v.Slug, v.Timezone, err)
			}
			cfg.Vessels[i].loc = loc
		}
	}

	return cfg.Vessels, nil
}
