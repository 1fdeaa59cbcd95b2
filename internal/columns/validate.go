package columns

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
)

// IssueKind classifies a single custom-field validation finding.
type IssueKind string

const (
	IssueUnknownColumn   IssueKind = "unknown_column"
	IssueRequiredMissing IssueKind = "required_missing"
	IssueInvalidOption   IssueKind = "invalid_option"
	IssueInvalidNumber   IssueKind = "invalid_number"
)

// Issue describes one finding from validating a record's custom field values
// against the active column definitions. Fatal issues reject the write;
// non-fatal issues are accepted and surfaced so offline clients with a stale
// schema do not lose data.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Column string    `json:"column"`
	Detail string    `json:"detail"`
	Fatal  bool      `json:"-"`
}

// ValidateFieldValues checks submitted custom field values against the
// active column definitions. Unknown keys are kept but flagged; type and
// option violations and missing required values are fatal.
func ValidateFieldValues(values dbtypes.FieldValues, active []models.CustomColumn) []Issue {
	var issues []Issue

	byName := make(map[string]models.CustomColumn, len(active))
	for _, column := range active {
		byName[column.Name] = column
	}

	for name := range values {
		if _, ok := byName[name]; !ok {
			issues = append(issues, Issue{
				Kind:   IssueUnknownColumn,
				Column: name,
				Detail: "no active column with this name",
			})
		}
	}

	for _, column := range active {
		value, present := values[column.Name]
		if !present || isEmptyValue(value) {
			if column.IsRequired {
				issues = append(issues, Issue{
					Kind:   IssueRequiredMissing,
					Column: column.Name,
					Detail: "required column has no value",
					Fatal:  true,
				})
			}
			continue
		}

		switch column.FieldType {
		case enums.FieldTypeNumber:
			if !isNumeric(value) {
				issues = append(issues, Issue{
					Kind:   IssueInvalidNumber,
					Column: column.Name,
					Detail: fmt.Sprintf("value %v is not numeric", value),
					Fatal:  true,
				})
			}
		case enums.FieldTypeSelect:
			text, ok := value.(string)
			if !ok || !containsOption(column.Options, text) {
				issues = append(issues, Issue{
					Kind:   IssueInvalidOption,
					Column: column.Name,
					Detail: fmt.Sprintf("value %v is not one of the configured options", value),
					Fatal:  true,
				})
			}
		}
	}

	return issues
}

// HasFatal reports whether any issue in the list rejects the write.
func HasFatal(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Fatal {
			return true
		}
	}
	return false
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}

func isNumeric(value any) bool {
	switch v := value.(type) {
	case float64, float32, int, int32, int64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	case string:
		// Offline clients serialize form inputs as strings.
		_, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil
	default:
		return false
	}
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
