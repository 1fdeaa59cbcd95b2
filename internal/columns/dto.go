package columns

import (
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// CreateColumnInput is the payload for defining a new custom column.
type CreateColumnInput struct {
	Name       string   `json:"name" validate:"required,max=120"`
	FieldType  string   `json:"fieldType" validate:"required,oneof=text number select"`
	IsRequired bool     `json:"isRequired"`
	Options    []string `json:"options" validate:"omitempty,dive,required"`
}

// UpdateColumnInput carries partial updates to an existing column. The field
// type is immutable once records may carry values of that shape.
type UpdateColumnInput struct {
	Name       *string   `json:"name" validate:"omitempty,max=120"`
	IsRequired *bool     `json:"isRequired"`
	Options    *[]string `json:"options" validate:"omitempty,dive,required"`
	IsActive   *bool     `json:"isActive"`
}

// ColumnResponse is the wire shape of a custom column.
type ColumnResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	FieldType  enums.FieldType `json:"fieldType"`
	IsRequired bool            `json:"isRequired"`
	Options    []string        `json:"options,omitempty"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NewColumnResponse maps a stored column to its wire shape.
func NewColumnResponse(column models.CustomColumn) ColumnResponse {
	return ColumnResponse{
		ID:         column.ID,
		Name:       column.Name,
		FieldType:  column.FieldType,
		IsRequired: column.IsRequired,
		Options:    column.Options,
		IsActive:   column.IsActive,
		CreatedAt:  column.CreatedAt,
	}
}

// NewColumnResponses maps a list of stored columns.
func NewColumnResponses(cols []models.CustomColumn) []ColumnResponse {
	out := make([]ColumnResponse, 0, len(cols))
	for _, column := range cols {
		out = append(out, NewColumnResponse(column))
	}
	return out
}
