package schema

import (
	"strings"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
)

// PolicyTypes are the recognized insurance policy categories.
var PolicyTypes = []string{"Funeral", "Life", "Medical", "Disability"}

// Policies returns the parse configuration for the insurance-policy
// import. A policy is identified by policy number plus the employee it
// belongs to.
func Policies() importer.ParseConfig {
	return importer.ParseConfig{
		Key:        "policies",
		Label:      "Insurance Policies",
		NaturalKey: []string{"policyNumber", "employeeCode"},
		Fields: []importer.FieldSpec{
			{
				Name:       "policyNumber",
				Synonyms:   []string{"Policy Number", "policy no", "policy #", "number"},
				Required:   true,
				Normalizer: strings.ToUpper,
			},
			{
				Name:       "employeeCode",
				Synonyms:   []string{"Employee Code", "emp code", "code", "staff no", "employee number"},
				Required:   true,
				Normalizer: strings.ToUpper,
			},
			{
				Name:       "policyType",
				Synonyms:   []string{"Policy Type", "type", "category"},
				Type:       importer.FieldEnum,
				EnumValues: PolicyTypes,
			},
			{
				Name:     "provider",
				Synonyms: []string{"Provider", "insurer", "underwriter"},
			},
			{
				Name:     "value",
				Synonyms: []string{"Value", "amount", "premium", "cover amount", "monthly premium"},
				Type:     importer.FieldNumeric,
				Required: true,
			},
			{
				Name:     "startDate",
				Synonyms: []string{"Start Date", "inception date", "effective date", "commencement"},
				Type:     importer.FieldDate,
			},
			{
				Name:       "status",
				Synonyms:   []string{"Status", "policy status"},
				Type:       importer.FieldEnum,
				EnumValues: []string{"Active", "Lapsed", "Cancelled"},
				Default:    "Active",
			},
		},
	}
}
