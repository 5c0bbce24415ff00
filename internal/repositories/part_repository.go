package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
)

type PartRepository interface {
	Create(ctx context.Context, part *models.Part) error
	FindByID(ctx context.Context, id uint) (*models.Part, error)
	FindByWork(ctx context.Context, workID uint) ([]models.Part, error)
	FindBySubgroup(ctx context.Context, subgroupID uint) ([]models.Part, error)
	Update(ctx context.Context, part *models.Part, attrs map[string]interface{}) error
	Delete(ctx context.Context, part *models.Part) error
}

type partRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *partRepository) FindByID(ctx context.Context, id uint) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) FindByWork(ctx context.Context, workID uint) ([]models.Part, error) {
	var parts []models.Part
	if err := r.db.WithContext(ctx).Where("work_id = ?", workID).Order("id").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) FindBySubgroup(ctx context.Context, subgroupID uint) ([]models.Part, error) {
	var parts []models.Part
	if err := r.db.WithContext(ctx).Where("subgroup_id = ?", subgroupID).Order("id").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) Update(ctx context.Context, part *models.Part, attrs map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(part).Updates(attrs).Error
}

func (r *partRepository) Delete(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Delete(part).Error
}
