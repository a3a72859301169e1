package importer

// validate.go turns raw CSV rows into canonical records. A row is either
// wholly accepted or wholly rejected; every reason for a rejection is
// collected, not just the first.

import (
	"fmt"
	"strings"
	"time"
)

// validateRow extracts and validates one data row. It returns the
// canonical record, or nil plus every reason the row was rejected.
//
// Per-field checks run in field order: extraction and normalization, enum
// constraint, typed parsing (amounts, dates). The missing-required-fields
// reason is appended last, naming every empty required field.
func validateRow(row []string, idx HeaderIndex, cfg ParseConfig) (Record, []string) {
	var reasons []string
	var missing []string
	rec := make(Record, len(cfg.Fields))

	for _, f := range cfg.Fields {
		raw := ""
		if pos, ok := idx[f.Name]; ok && pos < len(row) {
			raw = CleanCell(row[pos])
		}

		if f.Normalizer != nil && raw != "" {
			raw = f.Normalizer(raw)
		}

		if raw == "" && f.Default != "" && !f.Required {
			raw = f.Default
		}

		if raw == "" {
			if f.Required {
				missing = append(missing, f.Name)
			}
			continue
		}

		switch f.Type {
		case FieldEnum:
			canonical, ok := matchEnum(raw, f.EnumValues)
			if !ok {
				reasons = append(reasons, fmt.Sprintf(
					"invalid %s %q: must be one of %s",
					f.Name, raw, strings.Join(f.EnumValues, ", ")))
				continue
			}
			raw = canonical

		case FieldNumeric:
			d, err := ParseAmount(raw)
			if err != nil {
				reasons = append(reasons, fmt.Sprintf("invalid number for %s: %q", f.Name, raw))
				continue
			}
			if d.IsNegative() {
				reasons = append(reasons, fmt.Sprintf("negative value for %s: %q", f.Name, raw))
				continue
			}
			raw = d.String()

		case FieldDate:
			t, ok := ParseDate(raw)
			if !ok {
				reasons = append(reasons, fmt.Sprintf("invalid date for %s: %q", f.Name, raw))
				continue
			}
			raw = t.Format(time.DateOnly)
		}

		rec[f.Name] = raw
	}

	if len(missing) > 0 {
		reasons = append(reasons, "Missing required fields: "+strings.Join(missing, ", "))
	}

	if len(reasons) > 0 {
		return nil, reasons
	}
	return rec, nil
}

// matchEnum finds the canonical spelling of an enum value,
// case-insensitively.
func matchEnum(raw string, allowed []string) (string, bool) {
	for _, v := range allowed {
		if strings.EqualFold(raw, v) {
			return v, true
		}
	}
	return "", false
}
