package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
)

func TestEmployeeImport(t *testing.T) {
	cfg := Employees()

	// Headers by synonym, not canonical name
	data := "emp code,name,surname,dept\n" +
		"e001,Jane,Doe,security\n"

	result, err := importer.Parse([]byte(data), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("accepted = %d, errors = %v", len(result.Accepted), result.Errors)
	}

	rec := result.Accepted[0]
	if rec["employeeCode"] != "E001" {
		t.Errorf("employeeCode = %q, want uppercased E001", rec["employeeCode"])
	}
	if rec["firstName"] != "Jane" || rec["lastName"] != "Doe" {
		t.Errorf("name = %q %q", rec["firstName"], rec["lastName"])
	}
	if rec["department"] != "Security" {
		t.Errorf("department = %q, want canonical Security", rec["department"])
	}
	if rec["status"] != "Active" {
		t.Errorf("status = %q, want default Active", rec["status"])
	}
}

func TestEmployeeImportPositionOnly(t *testing.T) {
	cfg := Employees()
	data := "Employee Code,First Name,Last Name,Position\nE001,Jane,Doe,Guard\n"

	result, err := importer.Parse([]byte(data), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("accepted = %d, errors = %v", len(result.Accepted), result.Errors)
	}

	want := importer.Record{
		"employeeCode": "E001",
		"firstName":    "Jane",
		"lastName":     "Doe",
		"position":     "Guard",
		"status":       "Active",
	}
	rec := result.Accepted[0]
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %q, want %q", k, rec[k], v)
		}
	}
}

// A rejected row becomes accepted once the offending cell is corrected,
// all else equal.
func TestEmployeeImportCorrectionAccepts(t *testing.T) {
	cfg := Employees()
	header := "Employee Code,First Name,Last Name,Position\n"

	bad, err := importer.Parse([]byte(header+"E002,John,,Guard\n"), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bad.Errors) != 1 {
		t.Fatalf("errors = %v, want one rejection", bad.Errors)
	}

	good, err := importer.Parse([]byte(header+"E002,John,Smith,Guard\n"), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(good.Accepted) != 1 {
		t.Errorf("corrected row not accepted: %v", good.Errors)
	}
}

func TestEmployeeImportMissingSurname(t *testing.T) {
	cfg := Employees()
	data := "Employee Code,First Name,Last Name\nE002,John,\n"

	result, err := importer.Parse([]byte(data), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one rejection", result.Errors)
	}
	if got := result.Errors[0].Reasons[0]; got != "Missing required fields: lastName" {
		t.Errorf("reason = %q", got)
	}
}

func TestEmployeeImportUnknownCompany(t *testing.T) {
	cfg := Employees()
	data := "Employee Code,First Name,Last Name,Company\nE003,Jo,Smith,Acme\n"

	result, err := importer.Parse([]byte(data), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one rejection", result.Errors)
	}
	reason := result.Errors[0].Reasons[0]
	if !strings.Contains(reason, `"Acme"`) || !strings.Contains(reason, "Butters, Makana") {
		t.Errorf("reason should name the bad value and the valid set: %q", reason)
	}
}

func TestPolicyImport(t *testing.T) {
	cfg := Policies()
	data := "Policy Number,Employee Code,Policy Type,premium,Start Date\n" +
		"pol-9,e001,funeral,\"R 150.00\",2024-01-01\n"

	result, err := importer.Parse([]byte(data), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Accepted) != 1 {
		t.Fatalf("accepted = %d, errors = %v", len(result.Accepted), result.Errors)
	}

	rec := result.Accepted[0]
	if rec["policyNumber"] != "POL-9" || rec["employeeCode"] != "E001" {
		t.Errorf("key fields = %q %q", rec["policyNumber"], rec["employeeCode"])
	}
	if rec["policyType"] != "Funeral" {
		t.Errorf("policyType = %q, want Funeral", rec["policyType"])
	}
	if rec["value"] != "150" {
		t.Errorf("value = %q, want 150", rec["value"])
	}
	if rec["startDate"] != "2024-01-01" {
		t.Errorf("startDate = %q", rec["startDate"])
	}
	if got := cfg.KeyOf(rec); got != "POL-9|E001" {
		t.Errorf("natural key = %q, want POL-9|E001", got)
	}
}

// The downloadable template headers must resolve every field, including
// the required ones, when uploaded unchanged.
func TestTemplateHeadersRoundTrip(t *testing.T) {
	for _, cfg := range []importer.ParseConfig{Employees(), Policies()} {
		t.Run(cfg.Key, func(t *testing.T) {
			idx, err := importer.ResolveHeaders(cfg.TemplateHeaders(), cfg)
			if err != nil {
				t.Fatalf("template does not resolve: %v", err)
			}
			if len(idx) != len(cfg.Fields) {
				t.Errorf("resolved %d of %d fields", len(idx), len(cfg.Fields))
			}
		})
	}
}

func TestRegisterWithOverrides(t *testing.T) {
	importer.Clear()
	defer importer.Clear()

	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	overrides := "employees:\n  employeeCode: [\"badge no\", \"clock number\"]\n"
	if err := os.WriteFile(path, []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Register(path); err != nil {
		t.Fatalf("register: %v", err)
	}
	if importer.Count() != 2 {
		t.Fatalf("registered %d import types, want 2", importer.Count())
	}

	cfg, ok := importer.Get("employees")
	if !ok {
		t.Fatal("employees not registered")
	}

	idx, err := importer.ResolveHeaders([]string{"clock number", "First Name", "Last Name"}, cfg)
	if err != nil {
		t.Fatalf("override synonym did not resolve: %v", err)
	}
	if idx["employeeCode"] != 0 {
		t.Errorf("employeeCode column = %d, want 0", idx["employeeCode"])
	}
}

func TestRegisterBadOverridesFile(t *testing.T) {
	importer.Clear()
	defer importer.Clear()

	if err := Register(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing overrides file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Register(path); err == nil {
		t.Error("expected error for malformed overrides file")
	}
}
