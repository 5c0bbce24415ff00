package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
)

type SubgroupRepository interface {
	Create(ctx context.Context, subgroup *models.Subgroup) error
	FindByID(ctx context.Context, id uint) (*models.Subgroup, error)
	FindByWork(ctx context.Context, workID uint) ([]models.Subgroup, error)
	Update(ctx context.Context, subgroup *models.Subgroup, attrs map[string]interface{}) error
	Delete(ctx context.Context, subgroup *models.Subgroup) error
}

type subgroupRepository struct {
	db *gorm.DB
}

func NewSubgroupRepository(db *gorm.DB) SubgroupRepository {
	return &subgroupRepository{db: db}
}

func (r *subgroupRepository) Create(ctx context.Context, subgroup *models.Subgroup) error {
	return r.db.WithContext(ctx).Create(subgroup).Error
}

func (r *subgroupRepository) FindByID(ctx context.Context, id uint) (*models.Subgroup, error) {
	var subgroup models.Subgroup
	if err := r.db.WithContext(ctx).First(&subgroup, id).Error; err != nil {
		return nil, err
	}
	return &subgroup, nil
}

func (r *subgroupRepository) FindByWork(ctx context.Context, workID uint) ([]models.Subgroup, error) {
	var subgroups []models.Subgroup
	if err := r.db.WithContext(ctx).Where("work_id = ?", workID).Order("id").Find(&subgroups).Error; err != nil {
		return nil, err
	}
	return subgroups, nil
}

func (r *subgroupRepository) Update(ctx context.Context, subgroup *models.Subgroup, attrs map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(subgroup).Updates(attrs).Error
}

// Delete removes the subgroup. Parts under it are detached (SubgroupID set
// to NULL) by the schema-level constraint, not deleted.
func (r *subgroupRepository) Delete(ctx context.Context, subgroup *models.Subgroup) error {
	return r.db.WithContext(ctx).Delete(subgroup).Error
}
