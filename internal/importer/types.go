// Package importer implements the CSV import engine: header resolution
// against per-field synonym tables, row-level validation and transformation,
// and reconciliation of accepted records against an existing snapshot.
// This package has no database or HTTP dependencies and can be driven by
// any frontend.
package importer

import "strings"

// FieldType represents the expected data type for a canonical field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldNumeric
	FieldDate
)

// FieldSpec defines one canonical field of an import type: the header
// spellings that resolve to it and the constraints its values must satisfy.
type FieldSpec struct {
	Name       string              // Canonical field name: "employeeCode"
	Synonyms   []string            // Accepted header spellings, in precedence order
	Type       FieldType           // Expected data type
	Required   bool                // Every row must supply a non-empty value
	EnumValues []string            // Valid values for FieldEnum type
	Default    string              // Applied when an optional field is empty or unmapped
	Normalizer func(string) string // Optional transformation, applied before validation
}

// headerCandidates returns every header spelling that resolves to this field.
// The canonical name itself always matches, then synonyms in declared order.
func (f FieldSpec) headerCandidates() []string {
	out := make([]string, 0, len(f.Synonyms)+1)
	out = append(out, f.Name)
	out = append(out, f.Synonyms...)
	return out
}

// ParseConfig is the immutable configuration for one import type.
// Created once (employee import, policy import) and passed by value into
// the parser; never mutated.
type ParseConfig struct {
	Key        string      // Unique identifier: "employees"
	Label      string      // Display name: "Employees"
	Fields     []FieldSpec // Canonical fields in display order
	NaturalKey []string    // Canonical field(s) forming the record identity
}

// KeyOf returns the natural key of a record under this config.
// Composite keys are joined with "|".
func (c ParseConfig) KeyOf(rec Record) string {
	parts := make([]string, len(c.NaturalKey))
	for i, f := range c.NaturalKey {
		parts[i] = rec[f]
	}
	return strings.Join(parts, "|")
}

// TemplateHeaders returns the preferred header spelling for each field,
// suitable for a downloadable CSV template. The first synonym is treated
// as the display form; fields without synonyms use the canonical name.
func (c ParseConfig) TemplateHeaders() []string {
	out := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		if len(f.Synonyms) > 0 {
			out[i] = f.Synonyms[0]
		} else {
			out[i] = f.Name
		}
	}
	return out
}

// Record maps canonical field names to validated, normalized values.
// Constructed by the row validator; never mutated after construction.
// Fields a row did not supply are absent from the map.
type Record map[string]string

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RowError describes why a single data row was rejected. Row numbers are
// 1-based and exclude the header line. A row is either entirely accepted
// or entirely rejected; Reasons carries every problem found, not just the
// first.
type RowError struct {
	Row     int      `json:"row"`
	Reasons []string `json:"reasons"`
}

// ImportResult is the outcome of one parse pass over a file.
// Accepted and Errors partition the non-blank data rows: every such row
// appears in exactly one of the two.
type ImportResult struct {
	Accepted  []Record   `json:"accepted"`
	Errors    []RowError `json:"errors"`
	TotalRows int        `json:"totalRows"` // non-blank data rows
}

// Options controls how accepted records are reconciled against the
// existing snapshot.
type Options struct {
	UpdateExisting bool `json:"updateExisting"` // matched rows overwrite existing records
	AddNew         bool `json:"addNew"`         // unmatched rows create new records
	ArchiveMissing bool `json:"archiveMissing"` // flag existing records absent from the import
	ReplaceAll     bool `json:"replaceAll"`     // full replace instead of field-level merge
}

// DefaultOptions returns the standard import behavior: update and create
// enabled, archiving and full replace disabled.
func DefaultOptions() Options {
	return Options{UpdateExisting: true, AddNew: true}
}

// Action classifies what should happen to one record.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionSkip    Action = "skip"
	ActionArchive Action = "archive"
)

// ClassifiedRecord is one reconciliation decision. Record holds the state
// to persist (the merged record for updates, the existing record for
// archives). Incoming is the record as parsed from the file; nil for
// archive classifications.
type ClassifiedRecord struct {
	Action   Action `json:"action"`
	Key      string `json:"key"`
	Record   Record `json:"record"`
	Incoming Record `json:"incoming,omitempty"`
}

// ReconciliationSummary reports how accepted records line up against the
// existing snapshot. The engine never mutates storage; the caller applies
// (or ignores) the classified records.
type ReconciliationSummary struct {
	Created  int                `json:"created"`
	Updated  int                `json:"updated"`
	Skipped  int                `json:"skipped"`
	Archived int                `json:"archived"`
	Records  []ClassifiedRecord `json:"records"`
}
