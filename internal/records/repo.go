package records

import (
	"context"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles record persistence.
type Repository interface {
	Create(ctx context.Context, record *models.Record) error
	Update(ctx context.Context, record *models.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]models.Record, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a record repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, record *models.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *models.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	var record models.Record
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Record{}).Error
}

// ListAll loads the full record snapshot. Filtering happens in process so
// list, export, and stats all see the same view of the data.
func (r *repository) ListAll(ctx context.Context) ([]models.Record, error) {
	var list []models.Record
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
