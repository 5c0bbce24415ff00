package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
)

type WorkRepository interface {
	Create(ctx context.Context, work *models.Work) error
	FindByID(ctx context.Context, id uint) (*models.Work, error)
	FindPage(ctx context.Context, offset, limit int) ([]models.Work, int64, error)
	FindPageByAdmin(ctx context.Context, adminID uint, offset, limit int) ([]models.Work, int64, error)
	CountByAdmin(ctx context.Context, adminID uint) (int64, error)
	Update(ctx context.Context, work *models.Work, attrs map[string]interface{}) error
	Delete(ctx context.Context, work *models.Work) error
}

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

func (r *workRepository) Create(ctx context.Context, work *models.Work) error {
	return r.db.WithContext(ctx).Create(work).Error
}

func (r *workRepository) FindByID(ctx context.Context, id uint) (*models.Work, error) {
	var work models.Work
	if err := r.db.WithContext(ctx).First(&work, id).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

func (r *workRepository) FindPage(ctx context.Context, offset, limit int) ([]models.Work, int64, error) {
	var works []models.Work
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Work{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("id").Find(&works).Error; err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *workRepository) FindPageByAdmin(ctx context.Context, adminID uint, offset, limit int) ([]models.Work, int64, error) {
	var works []models.Work
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Work{}).Where("admin_id = ?", adminID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := base.Offset(offset).Limit(limit).Order("id").Find(&works).Error; err != nil {
		return nil, 0, err
	}
	return works, total, nil
}

func (r *workRepository) CountByAdmin(ctx context.Context, adminID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Work{}).Where("admin_id = ?", adminID).Count(&total).Error
	return total, err
}

func (r *workRepository) Update(ctx context.Context, work *models.Work, attrs map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(work).Updates(attrs).Error
}

func (r *workRepository) Delete(ctx context.Context, work *models.Work) error {
	return r.db.WithContext(ctx).Delete(work).Error
}
