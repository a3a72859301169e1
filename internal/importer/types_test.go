package importer

import (
	"reflect"
	"testing"
)

func TestKeyOf(t *testing.T) {
	single := ParseConfig{NaturalKey: []string{"code"}}
	if got := single.KeyOf(Record{"code": "G1", "name": "Alice"}); got != "G1" {
		t.Errorf("single key = %q, want G1", got)
	}

	composite := ParseConfig{NaturalKey: []string{"policyNumber", "employeeCode"}}
	if got := composite.KeyOf(Record{"policyNumber": "P9", "employeeCode": "E2"}); got != "P9|E2" {
		t.Errorf("composite key = %q, want P9|E2", got)
	}
}

func TestTemplateHeaders(t *testing.T) {
	cfg := ParseConfig{Fields: []FieldSpec{
		{Name: "code", Synonyms: []string{"Guard Code", "badge"}},
		{Name: "notes"},
	}}
	want := []string{"Guard Code", "notes"}
	if got := cfg.TemplateHeaders(); !reflect.DeepEqual(got, want) {
		t.Errorf("TemplateHeaders() = %v, want %v", got, want)
	}
}

func TestRecordClone(t *testing.T) {
	orig := Record{"a": "1", "b": "2"}
	cp := orig.Clone()
	cp["a"] = "changed"
	if orig["a"] != "1" {
		t.Error("clone shares storage with original")
	}
}
