package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"duplicate key", errors.New(`ERROR: duplicate key value violates unique constraint "employees_pkey"`), "DB001"},
		{"foreign key", errors.New("insert or update violates foreign key constraint"), "DB002"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB003"},
		{"timeout", errors.New("context deadline exceeded: timeout"), "DB004"},
		{"unknown import type", errors.New("unknown import type: payslips"), CodeUnknownType},
		{"unrecognized", errors.New("some novel failure"), "GEN001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", msg.Code, tt.wantCode)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("message and action must both be set: %+v", msg)
			}
		})
	}
}

func TestMapErrorStructural(t *testing.T) {
	err := &StructuralError{
		Code:    CodeMissingColumns,
		Message: "missing required fields",
		Details: []string{"employeeCode", "lastName"},
	}

	msg := MapError(err)
	if msg.Code != CodeMissingColumns {
		t.Errorf("code = %s, want %s", msg.Code, CodeMissingColumns)
	}
	if !strings.Contains(msg.Message, "employeeCode, lastName") {
		t.Errorf("message should list the missing fields: %q", msg.Message)
	}
}

func TestMapErrorNil(t *testing.T) {
	if msg := MapError(nil); msg != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", msg)
	}
}

func TestStructuralErrorString(t *testing.T) {
	e := &StructuralError{Code: CodeNoHeader, Message: "no header row"}
	if e.Error() != "no header row" {
		t.Errorf("Error() = %q", e.Error())
	}

	e.Details = []string{"a", "b"}
	if e.Error() != "no header row: a, b" {
		t.Errorf("Error() = %q", e.Error())
	}
}
