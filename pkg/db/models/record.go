package models

import (
	"time"

	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// Record is a single field-collected household/tenant entry. CollectedBy is
// stamped server-side on create; IsSynced is set by the offline client and is
// never interpreted here.
type Record struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CollectedBy  uuid.UUID           `gorm:"type:uuid;column:collected_by;not null;index"`
	RecordTitle  string              `gorm:"column:record_title;not null"`
	PersonType   enums.PersonType    `gorm:"column:person_type;type:text;not null"`
	LandlordName string              `gorm:"column:landlord_name;not null"`
	TenantName   *string             `gorm:"column:tenant_name"`
	ContactPhone *string             `gorm:"column:contact_phone"`
	HouseNumber  *string             `gorm:"column:house_number"`
	Town         string              `gorm:"column:town"`
	Area         string              `gorm:"column:area"`
	Latitude     *float64            `gorm:"column:latitude"`
	Longitude    *float64            `gorm:"column:longitude"`
	GPSTimestamp *time.Time          `gorm:"column:gps_timestamp"`
	CustomFields dbtypes.FieldValues `gorm:"type:jsonb;column:custom_fields"`
	IsSynced     bool                `gorm:"column:is_synced;not null;default:false"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
