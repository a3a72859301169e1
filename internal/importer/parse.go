package importer

import "fmt"

// Parse runs a single synchronous pass over raw file contents: resolve the
// header, then validate every data row. It never aborts on a bad row; the
// returned result classifies every non-blank row as accepted or rejected.
//
// Structural problems (unreadable file, no header row, unresolvable
// required fields) return a *StructuralError and a nil result.
func Parse(data []byte, cfg ParseConfig) (*ImportResult, error) {
	data = sanitizeUTF8(data)

	rows, err := readCSV(data)
	if err != nil {
		return nil, &StructuralError{
			Code:    CodeUnreadable,
			Message: "cannot read file",
			Details: []string{err.Error()},
		}
	}
	if len(rows) == 0 || isEmptyRow(rows[0]) {
		return nil, &StructuralError{Code: CodeNoHeader, Message: "no header row"}
	}

	header := rows[0]
	idx, err := ResolveHeaders(header, cfg)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		result.TotalRows++
		rowNum := i + 1

		if len(row) < len(header) {
			result.Errors = append(result.Errors, RowError{
				Row: rowNum,
				Reasons: []string{fmt.Sprintf(
					"insufficient columns: row has %d, header has %d",
					len(row), len(header))},
			})
			continue
		}

		rec, reasons := validateRow(row, idx, cfg)
		if reasons != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Reasons: reasons})
			continue
		}
		result.Accepted = append(result.Accepted, rec)
	}

	return result, nil
}

// Run parses a file and, when an existing-record snapshot is supplied,
// reconciles the accepted records against it. A nil snapshot skips
// reconciliation entirely; an empty snapshot classifies every accepted
// record as a create (subject to opts.AddNew).
func Run(data []byte, cfg ParseConfig, snapshot map[string]Record, opts Options) (*ImportResult, *ReconciliationSummary, error) {
	result, err := Parse(data, cfg)
	if err != nil {
		return nil, nil, err
	}
	if snapshot == nil {
		return result, nil, nil
	}
	summary := Reconcile(result.Accepted, snapshot, cfg, opts)
	return result, &summary, nil
}
