package store

import (
	"context"
	"fmt"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

func employeeApplier() applier {
	return applier{
		snapshot: employeeSnapshot,
		insert:   insertEmployee,
		update:   updateEmployee,
		archive:  archiveEmployee,
	}
}

const employeeSnapshotSQL = `
SELECT employee_code, first_name, last_name, position, company,
       department, status, email, phone
FROM employees
WHERE archived_at IS NULL`

func employeeSnapshot(ctx context.Context, db DBTX) (map[string]importer.Record, error) {
	rows, err := db.Query(ctx, employeeSnapshotSQL)
	if err != nil {
		return nil, fmt.Errorf("load employee snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]importer.Record)
	for rows.Next() {
		var code, firstName, lastName, status string
		var position, company, department, email, phone pgtype.Text
		if err := rows.Scan(&code, &firstName, &lastName, &position,
			&company, &department, &status, &email, &phone); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}

		rec := importer.Record{
			"employeeCode": code,
			"firstName":    firstName,
			"lastName":     lastName,
			"status":       status,
		}
		setIfValid(rec, "position", position)
		setIfValid(rec, "company", company)
		setIfValid(rec, "department", department)
		setIfValid(rec, "email", email)
		setIfValid(rec, "phone", phone)

		snapshot[code] = rec
	}
	return snapshot, rows.Err()
}

const insertEmployeeSQL = `
INSERT INTO employees (employee_code, first_name, last_name, position,
                       company, department, status, email, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func insertEmployee(ctx context.Context, db DBTX, rec importer.Record) error {
	_, err := db.Exec(ctx, insertEmployeeSQL,
		rec["employeeCode"], rec["firstName"], rec["lastName"],
		textOrNull(rec["position"]), textOrNull(rec["company"]),
		textOrNull(rec["department"]), rec["status"],
		textOrNull(rec["email"]), textOrNull(rec["phone"]))
	return err
}

const updateEmployeeSQL = `
UPDATE employees
SET first_name = $2, last_name = $3, position = $4, company = $5,
    department = $6, status = $7, email = $8, phone = $9,
    updated_at = now()
WHERE employee_code = $1`

func updateEmployee(ctx context.Context, db DBTX, rec importer.Record) error {
	_, err := db.Exec(ctx, updateEmployeeSQL,
		rec["employeeCode"], rec["firstName"], rec["lastName"],
		textOrNull(rec["position"]), textOrNull(rec["company"]),
		textOrNull(rec["department"]), rec["status"],
		textOrNull(rec["email"]), textOrNull(rec["phone"]))
	return err
}

func archiveEmployee(ctx context.Context, db DBTX, key string) error {
	_, err := db.Exec(ctx,
		`UPDATE employees SET archived_at = now() WHERE employee_code = $1`, key)
	return err
}

// textOrNull converts an engine value to a nullable text parameter.
func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// setIfValid copies a nullable column into a record when present.
func setIfValid(rec importer.Record, field string, v pgtype.Text) {
	if v.Valid && v.String != "" {
		rec[field] = v.String
	}
}
