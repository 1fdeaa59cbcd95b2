package models

import (
	"time"

	dbtypes "github.com/fieldbook-dev/fieldbook-backend/pkg/db/types"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents an actor: admin, secondary admin, or field agent.
type User struct {
	ID           uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string                   `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string                   `gorm:"column:password_hash;not null"`
	FullName     string                   `gorm:"column:full_name;not null"`
	Phone        *string                  `gorm:"column:phone"`
	Role         enums.Role               `gorm:"type:text;not null"`
	Permissions  dbtypes.PermissionGrants `gorm:"type:jsonb;column:permissions"`
	IsActive     bool                     `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time               `gorm:"column:last_login_at"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
