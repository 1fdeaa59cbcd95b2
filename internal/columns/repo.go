package columns

import (
	"context"

	"github.com/fieldbook-dev/fieldbook-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles custom column persistence.
type Repository interface {
	Create(ctx context.Context, column *models.CustomColumn) error
	Update(ctx context.Context, column *models.CustomColumn) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomColumn, error)
	List(ctx context.Context, includeInactive bool) ([]models.CustomColumn, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a column repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, column *models.CustomColumn) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *repository) Update(ctx context.Context, column *models.CustomColumn) error {
	return r.db.WithContext(ctx).Save(column).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomColumn, error) {
	var column models.CustomColumn
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&column).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]models.CustomColumn, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomColumn{})
	if !includeInactive {
		query = query.Where("is_active = true")
	}
	var cols []models.CustomColumn
	if err := query.Order("created_at ASC, name ASC").Find(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}
