// Package schema defines the import types the engine knows about: the
// canonical fields, header synonym tables, domain constraints, and natural
// keys for employee and insurance-policy imports.
package schema

import (
	"strings"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
)

// Employee enum sets.
var (
	Companies   = []string{"Butters", "Makana"}
	Departments = []string{"Security", "Administration", "Operations"}
	Statuses    = []string{"Active", "On Leave", "Terminated"}
)

// Employees returns the parse configuration for the employee import.
// Synonym lists are ordered by precedence; the first entry is also the
// header used in the downloadable template.
func Employees() importer.ParseConfig {
	return importer.ParseConfig{
		Key:        "employees",
		Label:      "Employees",
		NaturalKey: []string{"employeeCode"},
		Fields: []importer.FieldSpec{
			{
				Name:       "employeeCode",
				Synonyms:   []string{"Employee Code", "emp code", "code", "staff no", "staff number", "employee number", "emp no"},
				Required:   true,
				Normalizer: strings.ToUpper,
			},
			{
				Name:     "firstName",
				Synonyms: []string{"First Name", "firstname", "name", "given name", "first"},
				Required: true,
			},
			{
				Name:     "lastName",
				Synonyms: []string{"Last Name", "lastname", "surname", "family name", "last"},
				Required: true,
			},
			{
				Name:     "position",
				Synonyms: []string{"Position", "job title", "title", "role", "rank"},
			},
			{
				Name:       "company",
				Synonyms:   []string{"Company", "employer", "entity"},
				Type:       importer.FieldEnum,
				EnumValues: Companies,
			},
			{
				Name:       "department",
				Synonyms:   []string{"Department", "dept", "division"},
				Type:       importer.FieldEnum,
				EnumValues: Departments,
			},
			{
				Name:       "status",
				Synonyms:   []string{"Status", "employment status", "state"},
				Type:       importer.FieldEnum,
				EnumValues: Statuses,
				Default:    "Active",
			},
			{
				Name:       "email",
				Synonyms:   []string{"Email", "email address", "e-mail"},
				Normalizer: strings.ToLower,
			},
			{
				Name:     "phone",
				Synonyms: []string{"Phone", "phone number", "cell", "mobile", "contact number"},
			},
		},
	}
}
