package schema

import (
	"fmt"
	"os"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"gopkg.in/yaml.v3"
)

// Overrides maps import-type key -> canonical field -> extra synonyms.
// Loaded from YAML so deployments can teach the resolver local header
// spellings without a rebuild:
//
//	employees:
//	  employeeCode: ["badge no", "clock number"]
type Overrides map[string]map[string][]string

// Register builds every import type, applies synonym overrides from the
// given YAML file (when non-empty), and registers the results with the
// engine.
func Register(overridesPath string) error {
	var ov Overrides
	if overridesPath != "" {
		data, err := os.ReadFile(overridesPath)
		if err != nil {
			return fmt.Errorf("read synonym overrides: %w", err)
		}
		if err := yaml.Unmarshal(data, &ov); err != nil {
			return fmt.Errorf("parse synonym overrides: %w", err)
		}
	}

	for _, cfg := range []importer.ParseConfig{Employees(), Policies()} {
		applyOverrides(&cfg, ov[cfg.Key])
		importer.Register(cfg)
	}
	return nil
}

// applyOverrides appends extra synonyms to matching fields. Extra synonyms
// rank after the built-in ones, so they never change existing precedence.
func applyOverrides(cfg *importer.ParseConfig, fields map[string][]string) {
	if len(fields) == 0 {
		return
	}
	for i := range cfg.Fields {
		extra, ok := fields[cfg.Fields[i].Name]
		if !ok {
			continue
		}
		cfg.Fields[i].Synonyms = append(cfg.Fields[i].Synonyms, extra...)
	}
}
