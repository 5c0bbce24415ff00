package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a recorded cost against a Part, optionally with an attached
// receipt stored in the object store. ReceiptURL and ReceiptExtension are
// always set together or both nil.
type Expense struct {
	BaseModel
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Description *string         `gorm:"type:text" json:"description"`
	Date        time.Time       `json:"date"`
	PartID      *uint           `gorm:"index" json:"partId"`
	SubgroupID  *uint           `gorm:"index" json:"subgroupId"`
	WorkID      *uint           `gorm:"index" json:"workId"`
	UserID      *uint           `gorm:"index" json:"userId"`

	ReceiptURL       *string `json:"receiptUrl"`
	ReceiptExtension *string `json:"receiptExtension"`
}

// HasReceipt reports whether a stored object is referenced by this row.
func (e *Expense) HasReceipt() bool {
	return e.ReceiptURL != nil && *e.ReceiptURL != ""
}
