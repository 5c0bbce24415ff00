package models

import "github.com/shopspring/decimal"

// Subgroup is a budget category within a Work.
type Subgroup struct {
	BaseModel
	Name   string          `gorm:"not null" json:"name"`
	WorkID uint            `gorm:"not null;index" json:"workId"`
	Budget decimal.Decimal `gorm:"type:decimal(12,2)" json:"budget"`

	// Deleting a Subgroup detaches its Parts rather than deleting them.
	Parts []Part `gorm:"foreignKey:SubgroupID;constraint:OnDelete:SET NULL" json:"parts,omitempty"`
}
