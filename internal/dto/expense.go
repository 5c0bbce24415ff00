package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptFile is an uploaded receipt held fully in memory for the duration
// of the request. Extension is the lower-cased original extension including
// the leading dot.
type ReceiptFile struct {
	Data      []byte
	MIMEType  string
	Extension string
}

type CreateExpenseInput struct {
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
	SubgroupID  *uint
	WorkID      *uint
}

type UpdateExpenseInput struct {
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// ReceiptResponse is the receipt retrieval shape: a short-lived signed URL
// plus the extension taken after the last '.' of the stored receipt URL.
type ReceiptResponse struct {
	SignedURL     string `json:"signedUrl"`
	FileExtension string `json:"fileExtension"`
}
