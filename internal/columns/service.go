package columns

import (
	"context"
	"errors"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/internal/authz"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	pkgerrors "github.com/fieldbook-dev/fieldbook-backend/pkg/errors"
	"github.com/google/uuid"
)

// ServiceParams groups dependencies for the columns service.
type ServiceParams struct {
	Repo Repository
}

// Service manages the custom column registry. Columns are never hard
// deleted: removal deactivates them so historical custom field values keep
// a definition to resolve against.
type Service struct {
	repo Repository
}

// NewService builds a columns service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// List returns column definitions. Non-managing actors only see active
// columns; actors who may manage columns can request inactive ones too.
func (s *Service) List(ctx context.Context, actor *authz.Actor, includeInactive bool) ([]ColumnResponse, error) {
	if err := authz.Authorize(actor, authz.ActionListCustomColumns); err != nil {
		return nil, err
	}
	if includeInactive && !authz.HasPermission(actor, enums.PermManageCustomColumns) {
		includeInactive = false
	}
	cols, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list custom columns")
	}
	return NewColumnResponses(cols), nil
}

// ActiveColumns returns the raw active definitions for field validation.
func (s *Service) ActiveColumns(ctx context.Context) ([]models.CustomColumn, error) {
	cols, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active columns")
	}
	return cols, nil
}

// Create registers a new column definition.
func (s *Service) Create(ctx context.Context, actor *authz.Actor, input CreateColumnInput) (*ColumnResponse, error) {
	if err := authz.Authorize(actor, authz.ActionCreateCustomColumn); err != nil {
		return nil, err
	}

	fieldType, err := enums.ParseFieldType(input.FieldType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid field type").
			WithDetails(map[string]any{"fieldType": input.FieldType})
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "column name is required")
	}
	if fieldType == enums.FieldTypeSelect && len(input.Options) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select columns need at least one option")
	}

	column := &models.CustomColumn{
		ID:         uuid.New(),
		Name:       name,
		FieldType:  fieldType,
		IsRequired: input.IsRequired,
		IsActive:   true,
	}
	if fieldType == enums.FieldTypeSelect {
		column.Options = input.Options
	}

	if err := s.repo.Create(ctx, column); err != nil {
		if db.IsUniqueViolation(err, "idx_custom_columns_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a column with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create custom column")
	}

	resp := NewColumnResponse(*column)
	return &resp, nil
}

// Update applies partial changes to a column. Field type is immutable.
func (s *Service) Update(ctx context.Context, actor *authz.Actor, id uuid.UUID, input UpdateColumnInput) (*ColumnResponse, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateCustomColumn); err != nil {
		return nil, err
	}

	column, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find custom column")
	}
	if column == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom column not found")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "column name cannot be empty")
		}
		column.Name = name
	}
	if input.IsRequired != nil {
		column.IsRequired = *input.IsRequired
	}
	if input.Options != nil {
		if column.FieldType != enums.FieldTypeSelect {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "only select columns carry options")
		}
		if len(*input.Options) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "select columns need at least one option")
		}
		column.Options = *input.Options
	}
	if input.IsActive != nil {
		column.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, column); err != nil {
		if db.IsUniqueViolation(err, "idx_custom_columns_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a column with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update custom column")
	}

	resp := NewColumnResponse(*column)
	return &resp, nil
}

// Deactivate retires a column. Records keep the values they already carry.
func (s *Service) Deactivate(ctx context.Context, actor *authz.Actor, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionDeleteCustomColumn); err != nil {
		return err
	}

	column, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find custom column")
	}
	if column == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "custom column not found")
	}
	if !column.IsActive {
		return nil
	}

	column.IsActive = false
	if err := s.repo.Update(ctx, column); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate custom column")
	}
	return nil
}
