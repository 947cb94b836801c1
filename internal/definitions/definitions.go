// Package definitions loads and serves the configured entity
// definitions: the declarative descriptions of how each entity type is
// extracted from a record and resolved against its registry.
package definitions

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extraction describes how the candidate search text for one entity type
// is computed from a record. Strategies are attempted in a fixed order:
// direct field, named extractor, fallback field, template.
type Extraction struct {
	SourceField   string   `yaml:"source_field" json:"source_field,omitempty"`
	Extractor     string   `yaml:"extractor" json:"extractor,omitempty"`
	InputFields   []string `yaml:"input_fields" json:"input_fields,omitempty"`
	FallbackField string   `yaml:"fallback_field" json:"fallback_field,omitempty"`
	Template      string   `yaml:"template" json:"template,omitempty"`
}

// EntityDefinition configures resolution for one entity type.
type EntityDefinition struct {
	ID          string     `yaml:"id" json:"id"`
	DisplayName string     `yaml:"display_name" json:"display_name,omitempty"`
	Registry    string     `yaml:"registry" json:"registry"`
	Extraction  Extraction `yaml:"extraction" json:"extraction"`
	// OutputFieldMappings maps target record field → source attribute of
	// the matched registry record.
	OutputFieldMappings map[string]string `yaml:"output_field_mappings" json:"output_field_mappings,omitempty"`
	Enabled             bool              `yaml:"enabled" json:"enabled"`
	Priority            int               `yaml:"priority" json:"priority"`
}

// ConfigError reports a malformed definitions document. A load that
// returns ConfigError is fatal: resolution must not start on a known-bad
// definition set.
type ConfigError struct {
	Definition string // offending definition id, "" for document-level problems
	Reason     string
}

func (e *ConfigError) Error() string {
	if e.Definition == "" {
		return "definitions config: " + e.Reason
	}
	return fmt.Sprintf("definitions config: definition %q: %s", e.Definition, e.Reason)
}

type document struct {
	Definitions []EntityDefinition `yaml:"definitions"`
}

// Parse reads a definitions document and validates it. Declaration order
// is preserved; it breaks priority ties in ListEnabled.
func Parse(data []byte) ([]EntityDefinition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	if err := validate(doc.Definitions); err != nil {
		return nil, err
	}
	return doc.Definitions, nil
}

func validate(defs []EntityDefinition) error {
	seen := make(map[string]bool, len(defs))
	for i := range defs {
		d := &defs[i]
		if d.ID == "" {
			return &ConfigError{Reason: fmt.Sprintf("definition at index %d is missing id", i)}
		}
		if seen[d.ID] {
			return &ConfigError{Definition: d.ID, Reason: "duplicate id"}
		}
		seen[d.ID] = true
		if d.Registry == "" {
			return &ConfigError{Definition: d.ID, Reason: "missing registry reference"}
		}
		ex := d.Extraction
		if ex.SourceField == "" && ex.Extractor == "" && ex.Template == "" {
			return &ConfigError{Definition: d.ID, Reason: "no extraction strategy: set source_field, extractor, or template"}
		}
	}
	return nil
}

// sortEnabled returns the enabled definitions in resolution order:
// ascending priority, declaration order on ties.
func sortEnabled(defs []EntityDefinition) []EntityDefinition {
	enabled := make([]EntityDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	return enabled
}

// version computes the opaque definitions_version hash recorded in
// provenance: a SHA-256 over a canonical rendering of the set, stable
// across processes for identical configuration.
func version(defs []EntityDefinition) string {
	var b strings.Builder
	for _, d := range defs {
		fmt.Fprintf(&b, "%s|%s|%s|%d|%t|%s|%s|%s|%s|%s|",
			d.ID, d.DisplayName, d.Registry, d.Priority, d.Enabled,
			d.Extraction.SourceField, d.Extraction.Extractor,
			strings.Join(d.Extraction.InputFields, ","),
			d.Extraction.FallbackField, d.Extraction.Template)
		targets := make([]string, 0, len(d.OutputFieldMappings))
		for t := range d.OutputFieldMappings {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			fmt.Fprintf(&b, "%s=%s,", t, d.OutputFieldMappings[t])
		}
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
