package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

func policyApplier() applier {
	return applier{
		snapshot: policySnapshot,
		insert:   insertPolicy,
		update:   updatePolicy,
		archive:  archivePolicy,
	}
}

const policySnapshotSQL = `
SELECT policy_number, employee_code, policy_type, provider,
       value::text, start_date::text, status
FROM policies
WHERE archived_at IS NULL`

func policySnapshot(ctx context.Context, db DBTX) (map[string]importer.Record, error) {
	rows, err := db.Query(ctx, policySnapshotSQL)
	if err != nil {
		return nil, fmt.Errorf("load policy snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]importer.Record)
	for rows.Next() {
		var number, code, value, status string
		var policyType, provider, startDate pgtype.Text
		if err := rows.Scan(&number, &code, &policyType, &provider,
			&value, &startDate, &status); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}

		rec := importer.Record{
			"policyNumber": number,
			"employeeCode": code,
			"value":        value,
			"status":       status,
		}
		setIfValid(rec, "policyType", policyType)
		setIfValid(rec, "provider", provider)
		setIfValid(rec, "startDate", startDate)

		snapshot[number+"|"+code] = rec
	}
	return snapshot, rows.Err()
}

const insertPolicySQL = `
INSERT INTO policies (policy_number, employee_code, policy_type,
                      provider, value, start_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func insertPolicy(ctx context.Context, db DBTX, rec importer.Record) error {
	value, err := numericParam(rec["value"])
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, insertPolicySQL,
		rec["policyNumber"], rec["employeeCode"],
		textOrNull(rec["policyType"]), textOrNull(rec["provider"]),
		value, dateParam(rec["startDate"]), rec["status"])
	return err
}

const updatePolicySQL = `
UPDATE policies
SET policy_type = $3, provider = $4, value = $5, start_date = $6,
    status = $7, updated_at = now()
WHERE policy_number = $1 AND employee_code = $2`

func updatePolicy(ctx context.Context, db DBTX, rec importer.Record) error {
	value, err := numericParam(rec["value"])
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, updatePolicySQL,
		rec["policyNumber"], rec["employeeCode"],
		textOrNull(rec["policyType"]), textOrNull(rec["provider"]),
		value, dateParam(rec["startDate"]), rec["status"])
	return err
}

func archivePolicy(ctx context.Context, db DBTX, key string) error {
	number, code, ok := strings.Cut(key, "|")
	if !ok {
		return fmt.Errorf("malformed policy key: %q", key)
	}
	_, err := db.Exec(ctx,
		`UPDATE policies SET archived_at = now()
		 WHERE policy_number = $1 AND employee_code = $2`, number, code)
	return err
}

// numericParam converts a validated amount string to a numeric parameter.
// The validator normalizes amounts before they reach the store, so a
// parse failure here means the record bypassed validation.
func numericParam(s string) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return n, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return n, nil
}

// dateParam converts a validated ISO date string to a nullable date.
func dateParam(s string) pgtype.Date {
	if s == "" {
		return pgtype.Date{Valid: false}
	}
	t, ok := importer.ParseDate(s)
	if !ok {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
