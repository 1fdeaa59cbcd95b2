package records

import (
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/internal/columns"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateRecordInput is the payload for a new field record. CollectedBy is
// honored only for admin-side attribution; agents are always stamped with
// their own id.
type CreateRecordInput struct {
	RecordTitle  string              `json:"recordTitle" validate:"required,max=200"`
	PersonType   string              `json:"personType" validate:"required,oneof=Landlord Tenant"`
	LandlordName string              `json:"landlordName" validate:"required,max=200"`
	TenantName   *string             `json:"tenantName" validate:"omitempty,max=200"`
	ContactPhone *string             `json:"contactPhone" validate:"omitempty,max=32"`
	HouseNumber  *string             `json:"houseNumber" validate:"omitempty,max=64"`
	Town         string              `json:"town" validate:"required,max=120"`
	Area         string              `json:"area" validate:"required,max=120"`
	Latitude     *float64            `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64            `json:"longitude" validate:"omitempty,longitude"`
	GPSTimestamp *time.Time          `json:"gpsTimestamp"`
	CustomFields dbtypes.FieldValues `json:"customFields"`
	IsSynced     bool                `json:"isSynced"`
	CollectedBy  *uuid.UUID          `json:"collectedBy"`
}

// UpdateRecordInput carries partial record changes. CollectedBy is immutable.
type UpdateRecordInput struct {
	RecordTitle  *string              `json:"recordTitle" validate:"omitempty,max=200"`
	PersonType   *string              `json:"personType" validate:"omitempty,oneof=Landlord Tenant"`
	LandlordName *string              `json:"landlordName" validate:"omitempty,max=200"`
	TenantName   *string              `json:"tenantName" validate:"omitempty,max=200"`
	ContactPhone *string              `json:"contactPhone" validate:"omitempty,max=32"`
	HouseNumber  *string              `json:"houseNumber" validate:"omitempty,max=64"`
	Town         *string              `json:"town" validate:"omitempty,max=120"`
	Area         *string              `json:"area" validate:"omitempty,max=120"`
	Latitude     *float64             `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64             `json:"longitude" validate:"omitempty,longitude"`
	GPSTimestamp *time.Time           `json:"gpsTimestamp"`
	CustomFields *dbtypes.FieldValues `json:"customFields"`
	IsSynced     *bool                `json:"isSynced"`
}

// ListRecordsQuery is the parsed query-string form of Filter.
type ListRecordsQuery struct {
	AgentID     *uuid.UUID
	PersonType  *string
	Town        *string
	Area        *string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// RecordResponse is the wire shape of a record.
type RecordResponse struct {
	ID           uuid.UUID           `json:"id"`
	CollectedBy  uuid.UUID           `json:"collectedBy"`
	RecordTitle  string              `json:"recordTitle"`
	PersonType   enums.PersonType    `json:"personType"`
	LandlordName string              `json:"landlordName"`
	TenantName   *string             `json:"tenantName,omitempty"`
	ContactPhone *string             `json:"contactPhone,omitempty"`
	HouseNumber  *string             `json:"houseNumber,omitempty"`
	Town         string              `json:"town"`
	Area         string              `json:"area"`
	Latitude     *float64            `json:"latitude,omitempty"`
	Longitude    *float64            `json:"longitude,omitempty"`
	GPSTimestamp *time.Time          `json:"gpsTimestamp,omitempty"`
	CustomFields dbtypes.FieldValues `json:"customFields"`
	IsSynced     bool                `json:"isSynced"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// WriteRecordResult pairs a saved record with any non-fatal custom field
// findings so offline clients can learn about stale schema entries.
type WriteRecordResult struct {
	Record      RecordResponse  `json:"record"`
	FieldIssues []columns.Issue `json:"fieldIssues,omitempty"`
}

// ExportResult is the flattened dataset handed to spreadsheet tooling: the
// rows matching the filter plus the active column definitions so exporters
// can lay out custom field headers.
type ExportResult struct {
	Columns []columns.ColumnResponse `json:"columns"`
	Rows    []RecordResponse         `json:"rows"`
}

// NewRecordResponse maps a stored record to its wire shape.
func NewRecordResponse(record models.Record) RecordResponse {
	custom := record.CustomFields
	if custom == nil {
		custom = dbtypes.FieldValues{}
	}
	return RecordResponse{
		ID:           record.ID,
		CollectedBy:  record.CollectedBy,
		RecordTitle:  record.RecordTitle,
		PersonType:   record.PersonType,
		LandlordName: record.LandlordName,
		TenantName:   record.TenantName,
		ContactPhone: record.ContactPhone,
		HouseNumber:  record.HouseNumber,
		Town:         record.Town,
		Area:         record.Area,
		Latitude:     record.Latitude,
		Longitude:    record.Longitude,
		GPSTimestamp: record.GPSTimestamp,
		CustomFields: custom,
		IsSynced:     record.IsSynced,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

// NewRecordResponses maps a list of stored records.
func NewRecordResponses(list []models.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(list))
	for _, record := range list {
		out = append(out, NewRecordResponse(record))
	}
	return out
}
