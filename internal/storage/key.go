package storage

import "fmt"

// ReceiptKey builds the storage key for an expense receipt:
//
//	{workSegment}/{partSegment}/receipt-{expenseID}{extension}
//
// extension includes the leading dot and reflects the stored format, e.g.
// ".jpg" after image transcoding or ".pdf.gz" after gzip. All components
// are required; an empty one is a hard failure, never a malformed key.
func ReceiptKey(workSegment, partSegment string, expenseID uint, extension string) (string, error) {
	if workSegment == "" || partSegment == "" || expenseID == 0 || extension == "" {
		return "", fmt.Errorf("missing parameters for receipt key: work=%q part=%q id=%d ext=%q",
			workSegment, partSegment, expenseID, extension)
	}
	return fmt.Sprintf("%s/%s/receipt-%d%s", workSegment, partSegment, expenseID, extension), nil
}
