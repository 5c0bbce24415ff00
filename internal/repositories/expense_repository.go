package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id uint) (*models.Expense, error)
	FindByPart(ctx context.Context, partID uint) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense, attrs map[string]interface{}) error
	Delete(ctx context.Context, expense *models.Expense) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindByPart(ctx context.Context, partID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := r.db.WithContext(ctx).Where("part_id = ?", partID).Order("id").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Update applies attrs in a single statement so replacing a receipt updates
// amount/description/date and the receipt columns atomically.
func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense, attrs map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(expense).Updates(attrs).Error
}

func (r *expenseRepository) Delete(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Delete(expense).Error
}
