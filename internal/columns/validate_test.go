package columns

import (
	"testing"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/lib/pq"
)

func activeSchema() []models.CustomColumn {
	return []models.CustomColumn{
		{Name: "Roof Type", FieldType: enums.FieldTypeSelect, Options: pq.StringArray{"tile", "iron", "thatch"}},
		{Name: "Unit Count", FieldType: enums.FieldTypeNumber},
		{Name: "Notes", FieldType: enums.FieldTypeText},
		{Name: "Ward", FieldType: enums.FieldTypeText, IsRequired: true},
	}
}

func findIssue(issues []Issue, kind IssueKind, column string) *Issue {
	for i := range issues {
		if issues[i].Kind == kind && issues[i].Column == column {
			return &issues[i]
		}
	}
	return nil
}

func TestValidateFieldValuesCleanSubmission(t *testing.T) {
	values := dbtypes.FieldValues{
		"Roof Type":  "tile",
		"Unit Count": float64(4),
		"Notes":      "two tenants share the compound",
		"Ward":       "Central",
	}
	issues := ValidateFieldValues(values, activeSchema())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateFieldValuesUnknownColumnIsNotFatal(t *testing.T) {
	values := dbtypes.FieldValues{
		"Ward":          "Central",
		"Old Field":     "kept for sync clients with a stale schema",
		"Another Stale": 3,
	}
	issues := ValidateFieldValues(values, activeSchema())
	if HasFatal(issues) {
		t.Fatalf("unknown columns must not reject the write: %v", issues)
	}
	if findIssue(issues, IssueUnknownColumn, "Old Field") == nil {
		t.Error("expected unknown_column issue for Old Field")
	}
	if findIssue(issues, IssueUnknownColumn, "Another Stale") == nil {
		t.Error("expected unknown_column issue for Another Stale")
	}
}

func TestValidateFieldValuesRequiredMissing(t *testing.T) {
	tests := []struct {
		name   string
		values dbtypes.FieldValues
	}{
		{"key absent", dbtypes.FieldValues{}},
		{"nil value", dbtypes.FieldValues{"Ward": nil}},
		{"blank string", dbtypes.FieldValues{"Ward": "   "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issues := ValidateFieldValues(tc.values, activeSchema())
			issue := findIssue(issues, IssueRequiredMissing, "Ward")
			if issue == nil {
				t.Fatalf("expected required_missing for Ward, got %v", issues)
			}
			if !issue.Fatal {
				t.Error("required_missing must be fatal")
			}
		})
	}
}

func TestValidateFieldValuesSelectOption(t *testing.T) {
	values := dbtypes.FieldValues{
		"Ward":      "Central",
		"Roof Type": "glass",
	}
	issues := ValidateFieldValues(values, activeSchema())
	issue := findIssue(issues, IssueInvalidOption, "Roof Type")
	if issue == nil {
		t.Fatalf("expected invalid_option, got %v", issues)
	}
	if !issue.Fatal {
		t.Error("invalid_option must be fatal")
	}
}

func TestValidateFieldValuesSelectNonString(t *testing.T) {
	values := dbtypes.FieldValues{
		"Ward":      "Central",
		"Roof Type": 7,
	}
	issues := ValidateFieldValues(values, activeSchema())
	if findIssue(issues, IssueInvalidOption, "Roof Type") == nil {
		t.Fatalf("expected invalid_option for non-string select value, got %v", issues)
	}
}

func TestValidateFieldValuesNumberShapes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"json float", float64(12.5), true},
		{"int", 7, true},
		{"numeric string", "42", true},
		{"numeric string with spaces", " 3.5 ", true},
		{"word", "many", false},
		{"bool", true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := dbtypes.FieldValues{
				"Ward":       "Central",
				"Unit Count": tc.value,
			}
			issues := ValidateFieldValues(values, activeSchema())
			issue := findIssue(issues, IssueInvalidNumber, "Unit Count")
			if tc.ok && issue != nil {
				t.Errorf("value %v should be accepted, got %v", tc.value, issue)
			}
			if !tc.ok && issue == nil {
				t.Errorf("value %v should be rejected", tc.value)
			}
		})
	}
}

func TestValidateFieldValuesOptionalEmptyIsFine(t *testing.T) {
	values := dbtypes.FieldValues{
		"Ward":  "Central",
		"Notes": "",
	}
	issues := ValidateFieldValues(values, activeSchema())
	if len(issues) != 0 {
		t.Fatalf("optional empty value should pass, got %v", issues)
	}
}
