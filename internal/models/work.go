package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Work is a construction project, the root of the budget hierarchy.
type Work struct {
	BaseModel
	Name        string          `gorm:"not null" json:"name"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(12,2)" json:"totalBudget"`
	AdminID     *uint           `gorm:"index" json:"adminId"`
	IsArchived  bool            `gorm:"default:false" json:"isArchived"`

	Subgroups []Subgroup `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"subgroups,omitempty"`
	Parts     []Part     `gorm:"foreignKey:WorkID;constraint:OnDelete:CASCADE" json:"parts,omitempty"`
}
