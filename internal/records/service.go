package records

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/internal/columns"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/google/uuid"
)

// ColumnSource supplies the active custom column definitions for field
// validation.
type ColumnSource interface {
	ActiveColumns(ctx context.Context) ([]models.CustomColumn, error)
}

// ServiceParams groups dependencies for the records service.
type ServiceParams struct {
	Repo    Repository
	Columns ColumnSource
}

// Service owns the record lifecycle. List and export work over an in-process
// snapshot so every read path applies identical filter semantics.
type Service struct {
	repo    Repository
	columns ColumnSource
}

// NewService builds a records service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Columns == nil {
		return nil, errors.New("column source is required")
	}
	return &Service{repo: params.Repo, columns: params.Columns}, nil
}

// List returns the records matching the query, newest first.
func (s *Service) List(ctx context.Context, actor *authz.Actor, query ListRecordsQuery) ([]RecordResponse, error) {
	if err := authz.Authorize(actor, authz.ActionListRecords); err != nil {
		return nil, err
	}
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load records")
	}
	return NewRecordResponses(Apply(snapshot, filter)), nil
}

// Create validates and stores a new record. Agents are always attributed to
// themselves; admin-side actors may attribute another collector. Unknown
// custom field keys are stored and reported; fatal field issues reject the
// write.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, input CreateRecordInput) (*WriteRecordResult, error) {
	if err := authz.Authorize(actor, authz.ActionCreateRecord); err != nil {
		return nil, err
	}

	personType, err := enums.ParsePersonType(input.PersonType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid person type").
			WithDetails(map[string]any{"personType": input.PersonType})
	}

	collectedBy := actor.ID
	if actor.Role != enums.RoleAgent && input.CollectedBy != nil {
		collectedBy = *input.CollectedBy
	}

	issues, err := s.validateCustomFields(ctx, input.CustomFields)
	if err != nil {
		return nil, err
	}

	record := &models.Record{
		ID:           uuid.New(),
		CollectedBy:  collectedBy,
		RecordTitle:  strings.TrimSpace(input.RecordTitle),
		PersonType:   personType,
		LandlordName: strings.TrimSpace(input.LandlordName),
		TenantName:   input.TenantName,
		ContactPhone: input.ContactPhone,
		HouseNumber:  input.HouseNumber,
		Town:         strings.TrimSpace(input.Town),
		Area:         strings.TrimSpace(input.Area),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		GPSTimestamp: input.GPSTimestamp,
		CustomFields: input.CustomFields,
		IsSynced:     input.IsSynced,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create record")
	}

	return &WriteRecordResult{
		Record:      NewRecordResponse(*record),
		FieldIssues: issues,
	}, nil
}

// Update applies partial changes to a record. CollectedBy never changes.
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, input UpdateRecordInput) (*WriteRecordResult, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateRecord); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}

	if input.PersonType != nil {
		personType, err := enums.ParsePersonType(*input.PersonType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid person type").
				WithDetails(map[string]any{"personType": *input.PersonType})
		}
		record.PersonType = personType
	}
	if input.RecordTitle != nil {
		record.RecordTitle = strings.TrimSpace(*input.RecordTitle)
	}
	if input.LandlordName != nil {
		record.LandlordName = strings.TrimSpace(*input.LandlordName)
	}
	if input.TenantName != nil {
		record.TenantName = input.TenantName
	}
	if input.ContactPhone != nil {
		record.ContactPhone = input.ContactPhone
	}
	if input.HouseNumber != nil {
		record.HouseNumber = input.HouseNumber
	}
	if input.Town != nil {
		record.Town = strings.TrimSpace(*input.Town)
	}
	if input.Area != nil {
		record.Area = strings.TrimSpace(*input.Area)
	}
	if input.Latitude != nil {
		record.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		record.Longitude = input.Longitude
	}
	if input.GPSTimestamp != nil {
		record.GPSTimestamp = input.GPSTimestamp
	}
	if input.IsSynced != nil {
		record.IsSynced = *input.IsSynced
	}

	var issues []columns.Issue
	if input.CustomFields != nil {
		issues, err = s.validateCustomFields(ctx, *input.CustomFields)
		if err != nil {
			return nil, err
		}
		record.CustomFields = *input.CustomFields
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update record")
	}

	return &WriteRecordResult{
		Record:      NewRecordResponse(*record),
		FieldIssues: issues,
	}, nil
}

// Delete removes a record permanently.
func (s *Service) Delete(ctx context.Context, actor *authz.Actor, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDeleteRecord); err != nil {
		return err
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find record")
	}
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete record")
	}
	return nil
}

// Export returns the filtered dataset plus active column definitions for
// spreadsheet layout.
func (s *Service) Export(ctx context.Context, actor *authz.Actor, query ListRecordsQuery) (*ExportResult, error) {
	if err := authz.Authorize(actor, authz.ActionExportRecords); err != nil {
		return nil, err
	}
	filter, err := filterFromQuery(query)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load records")
	}
	active, err := s.columns.ActiveColumns(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Columns: columns.NewColumnResponses(active),
		Rows:    NewRecordResponses(Apply(snapshot, filter)),
	}, nil
}

// Snapshot exposes the raw record set for the stats engine.
func (s *Service) Snapshot(ctx context.Context) ([]models.Record, error) {
	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load records")
	}
	return snapshot, nil
}

func (s *Service) validateCustomFields(ctx context.Context, values dbtypes.FieldValues) ([]columns.Issue, error) {
	if len(values) == 0 {
		// Still check required columns against an empty submission.
		values = dbtypes.FieldValues{}
	}
	active, err := s.columns.ActiveColumns(ctx)
	if err != nil {
		return nil, err
	}
	issues := columns.ValidateFieldValues(values, active)
	if columns.HasFatal(issues) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom field values failed validation").
			WithDetails(map[string]any{"fieldIssues": issues})
	}
	return issues, nil
}

func filterFromQuery(query ListRecordsQuery) (Filter, error) {
	filter := Filter{
		AgentID:     query.AgentID,
		Town:        query.Town,
		Area:        query.Area,
		Search:      strings.TrimSpace(query.Search),
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
	}
	if query.PersonType != nil {
		personType, err := enums.ParsePersonType(*query.PersonType)
		if err != nil {
			return Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid person type filter").
				WithDetails(map[string]any{"personType": *query.PersonType})
		}
		filter.PersonType = &personType
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedTo.Before(*filter.CreatedFrom) {
		return Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "createdTo precedes createdFrom")
	}
	return filter, nil
}
