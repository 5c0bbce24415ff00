package models

import "github.com/shopspring/decimal"

// Part is a line-item budget entry, optionally grouped under a Subgroup.
type Part struct {
	BaseModel
	Name       string          `gorm:"not null" json:"name"`
	Budget     decimal.Decimal `gorm:"type:decimal(12,2)" json:"budget"`
	WorkID     uint            `gorm:"not null;index" json:"workId"`
	SubgroupID *uint           `gorm:"index" json:"subgroupId"`

	// Deleting a Part clears the reference on its Expenses.
	Expenses []Expense `gorm:"foreignKey:PartID;constraint:OnDelete:SET NULL" json:"expenses,omitempty"`
}
