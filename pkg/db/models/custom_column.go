package models

import (
	"time"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CustomColumn is an admin-defined dynamic field attached to every record.
// Deactivated columns stay in place so historical custom field values keep
// their definition.
type CustomColumn struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"type:text;not null;uniqueIndex"`
	FieldType  enums.FieldType `gorm:"column:field_type;type:text;not null"`
	IsRequired bool            `gorm:"column:is_required;not null;default:false"`
	Options    pq.StringArray  `gorm:"type:text[];column:options"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
