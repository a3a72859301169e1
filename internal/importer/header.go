package importer

// header.go maps arbitrary, human-authored CSV column headers to canonical
// field names using each field's synonym table.

import "strings"

// HeaderIndex maps canonical field names to the zero-based column index
// they resolved to. Fields with no matching column are absent.
type HeaderIndex map[string]int

// ResolveHeaders resolves the header row against the config's synonym
// tables. For each field, synonyms are tried in declared order and the
// first synonym that matches any column wins; within one synonym the
// leftmost column wins, so duplicate column names resolve to the first
// occurrence.
//
// Required fields that remain unresolved fail the whole import with a
// single structural error naming every missing field, before any row is
// processed.
func ResolveHeaders(header []string, cfg ParseConfig) (HeaderIndex, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(CleanCell(h))
	}

	idx := make(HeaderIndex, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if pos, ok := matchField(cols, f); ok {
			idx[f.Name] = pos
		}
	}

	var missing []string
	for _, f := range cfg.Fields {
		if !f.Required {
			continue
		}
		if _, ok := idx[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &StructuralError{
			Code:    CodeMissingColumns,
			Message: "missing required fields",
			Details: missing,
		}
	}

	return idx, nil
}

// matchField returns the column index the field resolves to.
// cols must already be cleaned and lower-cased.
func matchField(cols []string, f FieldSpec) (int, bool) {
	for _, syn := range f.headerCandidates() {
		want := strings.ToLower(strings.TrimSpace(syn))
		if want == "" {
			continue
		}
		for i, c := range cols {
			if c == want {
				return i, true
			}
		}
	}
	return 0, false
}
